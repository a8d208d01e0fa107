package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/mxchen-dev/paperproof/internal/common"
)

// RenderFirstPage renders page one of a PDF to JPEG via pdftoppm and
// returns it as a data URL ready for a vision message. Only the first page
// is rendered: titles, authors and the article history all live there.
func RenderFirstPage(ctx context.Context, r Runner, dpi int, pdfPath string) (string, error) {
	if dpi <= 0 {
		dpi = 300
	}

	tmpDir, err := os.MkdirTemp("", "pp-render-*")
	if err != nil {
		return "", fmt.Errorf("create render dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -jpeg -f 1 -l 1 <in.pdf> <tmp/page>
	_, errb, err := r.Run(ctx, "pdftoppm", "-r", fmt.Sprintf("%d", dpi), "-jpeg", "-f", "1", "-l", "1", pdfPath, prefix)
	if err != nil {
		return "", common.TransientError(fmt.Sprintf("pdftoppm failed: %s", truncate(string(errb), 512)), err)
	}

	matches, _ := filepath.Glob(prefix + "*.jpg")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for %s", pdfPath)
	}

	img, err := os.ReadFile(matches[0])
	if err != nil {
		return "", fmt.Errorf("read rendered page: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(img), nil
}
