// Package printing renders label sheets into printable documents.
package printing

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/stitchpos/backend/internal/domain/labels"
)

const (
	sheetModuleWidth = 2
	sheetBarHeight   = 60
)

// sheetTemplate lays labels out in a three-column grid sized for A4.
// Page breaks fall between rows so a tag is never cut in half.
var sheetTemplate = template.Must(template.New("labelsheet").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  @page { size: A4; margin: 10mm; }
  body { font-family: Arial, Helvetica, sans-serif; margin: 0; }
  .sheet { display: flex; flex-wrap: wrap; }
  .label {
    width: 60mm; height: 34mm;
    box-sizing: border-box;
    border: 0.2mm dashed #999;
    padding: 2mm;
    margin: 1mm;
    text-align: center;
    overflow: hidden;
    page-break-inside: avoid;
  }
  .label .name { font-size: 10pt; font-weight: bold; white-space: nowrap; overflow: hidden; }
  .label .variant { font-size: 8pt; color: #333; }
  .label .price { font-size: 12pt; font-weight: bold; margin: 1mm 0; }
  .label svg { max-width: 100%; height: 14mm; }
</style>
</head>
<body>
<div class="sheet">
{{range .Labels}}  <div class="label">
    <div class="name">{{.GroupName}}</div>
    <div class="variant">{{.Color}} / {{.Size}}</div>
    <div class="price">{{.Price}} {{.Currency}}</div>
    {{.SVG}}
  </div>
{{end}}</div>
</body>
</html>
`))

type sheetLabel struct {
	GroupName string
	Color     string
	Size      string
	Price     string
	Currency  string
	SVG       template.HTML
}

type sheetData struct {
	Labels []sheetLabel
}

// BuildSheetHTML renders the label sheet as a standalone HTML document
func BuildSheetHTML(sheet []labels.Label) (string, error) {
	data := sheetData{Labels: make([]sheetLabel, 0, len(sheet))}
	for i := range sheet {
		l := &sheet[i]
		svg, err := l.BarcodeSVG(sheetModuleWidth, sheetBarHeight)
		if err != nil {
			return "", fmt.Errorf("barcode for %q %s/%s: %w", l.GroupName, l.Color, l.Size, err)
		}
		data.Labels = append(data.Labels, sheetLabel{
			GroupName: l.GroupName,
			Color:     l.Color,
			Size:      l.Size,
			Price:     l.Price.StringFixed(2),
			Currency:  l.Currency,
			SVG:       template.HTML(svg),
		})
	}

	var b strings.Builder
	if err := sheetTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to render label sheet: %w", err)
	}
	return b.String(), nil
}
