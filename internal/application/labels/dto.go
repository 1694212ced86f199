package labels

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LabelLineRequest selects one (color, size) bucket of a stock group and
// how many copies of its tag to print
type LabelLineRequest struct {
	Color  string `json:"color" binding:"required"`
	Size   string `json:"size" binding:"required"`
	Copies int    `json:"copies"`
}

// PrintRequest asks for a sheet of price tags from one stock group
type PrintRequest struct {
	StockID uuid.UUID          `json:"stock_id" binding:"required"`
	Lines   []LabelLineRequest `json:"lines" binding:"required,min=1"`
}

// LabelResponse is one rendered tag
type LabelResponse struct {
	StockID   uuid.UUID       `json:"stock_id"`
	GroupName string          `json:"group_name"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Barcode   string          `json:"barcode"`
	SVG       string          `json:"svg"`
	Copies    int             `json:"copies"`
}

// SheetResponse is the assembled label sheet
type SheetResponse struct {
	Labels []LabelResponse `json:"labels"`
}
