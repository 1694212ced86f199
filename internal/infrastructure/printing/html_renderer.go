package printing

import (
	"context"
	"errors"

	labelsapp "github.com/stitchpos/backend/internal/application/labels"
	"github.com/stitchpos/backend/internal/domain/labels"
)

// HTMLSheetRenderer returns the label sheet as raw HTML. Used when PDF
// printing is disabled; the browser on the POS terminal does the actual
// printing via its print dialog.
type HTMLSheetRenderer struct{}

// NewHTMLSheetRenderer creates a new HTMLSheetRenderer
func NewHTMLSheetRenderer() *HTMLSheetRenderer {
	return &HTMLSheetRenderer{}
}

// Render returns the sheet as an HTML document
func (r *HTMLSheetRenderer) Render(ctx context.Context, sheet []labels.Label) ([]byte, error) {
	if len(sheet) == 0 {
		return nil, errors.New("label sheet is empty")
	}
	html, err := BuildSheetHTML(sheet)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// Ensure HTMLSheetRenderer implements LabelRenderer
var _ labelsapp.LabelRenderer = (*HTMLSheetRenderer)(nil)
