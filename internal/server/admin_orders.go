package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	"github.com/shopyard/shopyard/internal/providers/pdf"
	"go.uber.org/zap"
)

func (s *Server) ListOrders(c *gin.Context) {
	var req orderdomain.ListRequest
	if err := c.ShouldBindQuery(&req.Pagination); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.PaymentStatus = c.Query("payment_status")

	orders, pageInfo, err := s.orderSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":      orders,
		"page_info": pageInfo,
	})
}

func (s *Server) GetOrder(c *gin.Context) {
	ord, err := s.orderSvc.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ord)
}

func (s *Server) DownloadReceipt(c *gin.Context) {
	t := s.currentTenant(c)
	if t == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	ord, err := s.orderSvc.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.ReceiptData{
		StoreName:     t.Name,
		OrderNumber:   ord.Number,
		PlacedAt:      ord.CreatedAt.Format(time.RFC1123),
		CustomerName:  ord.CustomerName,
		CustomerEmail: ord.CustomerEmail,
		Subtotal:      centsString(ord.SubtotalCents, t.Currency),
		Shipping:      centsString(ord.ShippingCents, t.Currency),
		Total:         centsString(ord.TotalCents, t.Currency),
		PaymentStatus: string(ord.PaymentStatus),
	}
	if ord.CODFeeCents > 0 {
		data.CODFee = centsString(ord.CODFeeCents, t.Currency)
	}
	if ord.GatewayFeeCents > 0 {
		data.GatewayFee = centsString(ord.GatewayFeeCents, t.Currency)
	}
	for _, item := range ord.Items {
		data.Items = append(data.Items, pdf.ReceiptItem{
			Label:     item.Label,
			Qty:       item.Qty,
			UnitPrice: centsString(item.UnitPriceCents, t.Currency),
			Amount:    centsString(item.TotalCents, t.Currency),
		})
	}

	doc, err := s.pdfRenderer.RenderReceipt(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "receipt-"+ord.Number+".pdf"))
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, doc); err != nil {
		s.log.Warn("receipt write interrupted", zap.Error(err))
	}
}

func centsString(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%s%d.%02d", sign, currency+" ", cents/100, cents%100)
}
