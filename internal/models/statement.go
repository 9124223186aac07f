package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Point is an image-space coordinate in pixels at the OCR rendering resolution.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a four-point quadrilateral in clockwise order:
// top-left, top-right, bottom-right, bottom-left.
type Polygon [4]Point

// TextBox is one recognized element as returned by the OCR engine:
// its bounding quadrilateral, the recognized text and the engine's
// confidence (0.0-1.0). It is never mutated after creation; geometric
// sub-regions are derived from it, not written back into it.
type TextBox struct {
	Box        Polygon `json:"box"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Word reduces the box to the anchor used for row grouping: the top-left
// x and the vertical center of the quadrilateral.
func (b TextBox) Word() WordObservation {
	return WordObservation{
		Text: b.Text,
		X:    b.Box[0].X,
		Y:    (b.Box[0].Y + b.Box[2].Y) / 2,
	}
}

// WordObservation is a single recognized token with its positional anchor.
// OCR output carries no guaranteed reading order; the x/y anchors are what
// row grouping uses to recover it.
type WordObservation struct {
	Text string
	X    float64
	Y    float64
}

// PageOCR is one page's OCR output, in whatever order the engine emitted it.
type PageOCR []TextBox

// RedactionTarget is one region to paint over on a page image.
type RedactionTarget struct {
	Polygon Polygon
	Source  TextBox
}

// Amount is a decimal money value that marshals as a bare JSON number
// rather than a quoted string.
type Amount struct {
	decimal.Decimal
}

// NewAmount wraps a decimal as an optional transaction amount.
func NewAmount(d decimal.Decimal) *Amount {
	return &Amount{Decimal: d}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	a.Decimal = d
	return nil
}

// Transaction is one parsed statement row. Date is rendered as dd-mm-yyyy.
// At least one of the three amounts is always set; rows without a numeric
// field are never emitted as transactions.
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	MoneyOut    *Amount `json:"money_out"`
	MoneyIn     *Amount `json:"money_in"`
	Borrowings  *Amount `json:"borrowings"`
}

// StatementRecord is the assembled output for one statement. StartDate and
// EndDate are derived from the transaction list (min/max) and are only ever
// recomputed from a different list, never set independently.
type StatementRecord struct {
	ID                  string        `json:"id,omitempty"`
	MaskedAccountNumber *string       `json:"masked_account_number"`
	StartDate           *string       `json:"start_date"`
	EndDate             *string       `json:"end_date"`
	Transactions        []Transaction `json:"transactions"`
}
