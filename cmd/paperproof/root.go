package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mxchen-dev/paperproof/internal/common"
	"github.com/mxchen-dev/paperproof/internal/export"
	"github.com/mxchen-dev/paperproof/internal/extract"
	"github.com/mxchen-dev/paperproof/internal/llm"
	"github.com/mxchen-dev/paperproof/internal/ocr"
	"github.com/mxchen-dev/paperproof/internal/record"
	"github.com/mxchen-dev/paperproof/internal/verify"
)

var (
	cfgFile  string
	outPath  string
	xlsxPath string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "paperproof",
	Short: "Verify claimed paper records against their PDF evidence",
	Long: `paperproof checks that a claimed academic-paper record (title, first
author, submission/acceptance dates) is supported by the attached PDF
evidence: manuscript first pages, acceptance letters, or screenshots.

Native PDF text and metadata are tried first; scanned or image-only
documents fall back to a two-stage OCR flow through a vision model.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
	},
	SilenceUsage: true,
}

// Execute runs the CLI. Only configuration problems produce a non-nil
// error; verification mismatches are results, not failures.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default paperproof.json in . or $HOME)")
	rootCmd.PersistentFlags().StringVarP(&outPath, "output", "o", "", "write outcomes as JSON to this path (default stdout)")
	rootCmd.PersistentFlags().StringVar(&xlsxPath, "xlsx", "", "also write an XLSX workbook to this path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// app wires the verification stack from configuration.
type app struct {
	cfg    *common.Config
	paper  *verify.PaperVerifier
	export *export.Service
	logger *slog.Logger
}

func newApp() (*app, error) {
	cfg, err := common.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := slog.Default()

	vision, err := llm.NewClient(cfg.OCR, logger)
	if err != nil {
		return nil, err
	}
	struc, err := llm.NewClient(cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	pipeline := ocr.NewPipeline(vision, struc, cfg.Extract, logger)
	native := extract.NewPDFExtractor(cfg.Extract.MaxPages, logger)
	doc := verify.NewDocumentVerifier(native, pipeline, cfg.Extract, logger)

	return &app{
		cfg:    cfg,
		paper:  verify.NewPaperVerifier(doc, logger),
		export: export.NewService(logger),
		logger: logger,
	}, nil
}

// writeOutcomes emits the JSON (stdout or --output) and the optional XLSX.
func (a *app) writeOutcomes(outcomes []record.Outcome) error {
	data, err := a.export.JSON(outcomes)
	if err != nil {
		return err
	}
	if outPath == "" {
		fmt.Println(string(data))
	} else if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	if xlsxPath != "" {
		book, err := a.export.XLSX(outcomes)
		if err != nil {
			return err
		}
		if err := os.WriteFile(xlsxPath, book, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", xlsxPath, err)
		}
	}
	return nil
}
