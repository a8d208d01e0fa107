package constants

// Stage is the canonical per-document verification stage.
type Stage string

// Stable values (logged as-is).
const (
	StageNativeExtracted Stage = "NATIVE_EXTRACTED" // native text + metadata read
	StageNeedsOCR        Stage = "NEEDS_OCR"        // native result too thin, OCR required
	StageOCRAttempted    Stage = "OCR_ATTEMPTED"    // two-stage OCR finished (or failed)
	StageFieldsResolved  Stage = "FIELDS_RESOLVED"  // best-effort title/author/dates picked
	StageMatched         Stage = "MATCHED"          // matchers applied against the reference
)
