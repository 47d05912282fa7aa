// Package pdf renders order receipts for the admin download endpoint.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type ReceiptItem struct {
	Label     string
	Qty       int64
	UnitPrice string
	Amount    string
}

type ReceiptData struct {
	StoreName     string
	OrderNumber   string
	PlacedAt      string
	CustomerName  string
	CustomerEmail string
	Items         []ReceiptItem
	Subtotal      string
	Shipping      string
	CODFee        string
	GatewayFee    string
	Total         string
	PaymentStatus string
}

type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) RenderReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(25,
		text.NewCol(8, data.StoreName, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Receipt", props.Text{
			Size:  14,
			Align: align.Right,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Order: "+data.OrderNumber, props.Text{Top: 0}),
			text.New("Placed: "+data.PlacedAt, props.Text{Top: 4}),
			text.New("Payment: "+data.PaymentStatus, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New(data.CustomerName, props.Text{Top: 0, Align: align.Right}),
			text.New(data.CustomerEmail, props.Text{Top: 4, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(6, "Item", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, item := range data.Items {
		m.AddRow(10,
			text.NewCol(6, item.Label, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	totals := []struct {
		label string
		value string
	}{
		{"Subtotal", data.Subtotal},
		{"Shipping", data.Shipping},
		{"COD fee", data.CODFee},
		{"Gateway fee", data.GatewayFee},
		{"Total", data.Total},
	}
	for _, row := range totals {
		if row.value == "" {
			continue
		}
		style := props.Text{Size: 9}
		if row.label == "Total" {
			style = props.Text{Size: 10, Style: fontstyle.Bold}
		}
		valueStyle := style
		valueStyle.Align = align.Right
		m.AddRow(8,
			col.New(8),
			text.NewCol(2, row.label, style),
			text.NewCol(2, row.value, valueStyle),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
