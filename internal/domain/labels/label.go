package labels

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stitchpos/backend/internal/domain/shared"
)

// Label is one printable price tag: the stock group narrowed to a color
// and size, with its barcode and display price.
type Label struct {
	StockID   uuid.UUID
	GroupName string
	Color     string
	Size      string
	Price     decimal.Decimal
	Currency  string
	Barcode   string
}

// NewLabel validates the fields a printed tag cannot do without.
func NewLabel(stockID uuid.UUID, groupName, color, size string, price decimal.Decimal, currency, barcode string) (*Label, error) {
	if groupName == "" {
		return nil, shared.NewDomainError("INVALID_LABEL", "label needs a group name")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_LABEL", "label price cannot be negative")
	}
	if !ValidateEAN13(barcode) {
		return nil, shared.NewDomainError("INVALID_BARCODE", fmt.Sprintf("not a valid EAN-13 code: %s", barcode))
	}
	return &Label{
		StockID:   stockID,
		GroupName: groupName,
		Color:     color,
		Size:      size,
		Price:     price,
		Currency:  currency,
		Barcode:   barcode,
	}, nil
}

// BarcodeSVG renders the label's barcode as an inline SVG. moduleWidth and
// barHeight are in SVG user units; the human-readable digits are printed
// underneath.
func (l *Label) BarcodeSVG(moduleWidth, barHeight int) (string, error) {
	if moduleWidth < 1 || barHeight < 1 {
		return "", shared.NewDomainError("INVALID_LABEL", "barcode dimensions must be positive")
	}
	modules, err := Modules(l.Barcode)
	if err != nil {
		return "", err
	}

	textHeight := 12
	width := len(modules) * moduleWidth
	height := barHeight + textHeight

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)

	// Runs of dark modules collapse into single rects
	for i := 0; i < len(modules); {
		if modules[i] != '1' {
			i++
			continue
		}
		run := i
		for run < len(modules) && modules[run] == '1' {
			run++
		}
		fmt.Fprintf(&b, `<rect x="%d" y="0" width="%d" height="%d" fill="#000"/>`,
			i*moduleWidth, (run-i)*moduleWidth, barHeight)
		i = run
	}

	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle" font-family="monospace" font-size="10">%s</text>`,
		width/2, height-2, l.Barcode)
	b.WriteString(`</svg>`)

	return b.String(), nil
}

// BarcodeSequenceRepository allocates monotonic per-shop sequences for
// barcode numbers. Next must be atomic so concurrent label requests never
// see the same value.
type BarcodeSequenceRepository interface {
	Next(ctx context.Context, shopID uuid.UUID) (int64, error)
}
