package server

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/shopyard/shopyard/internal/catalog/domain"
)

type storeProduct struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	PriceCents  int64          `json:"price_cents"`
	CategoryID  *string        `json:"category_id,omitempty"`
	InStock     bool           `json:"in_stock"`
	Variants    []storeVariant `json:"variants,omitempty"`
}

type storeVariant struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	PriceCents int64  `json:"price_cents"`
	InStock    bool   `json:"in_stock"`
}

func toStoreProduct(p catalogdomain.Product) storeProduct {
	out := storeProduct{
		ID:          p.ID.String(),
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		InStock:     !p.TrackStock || p.StockQty > 0,
	}
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		out.CategoryID = &id
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, storeVariant{
			ID:         v.ID.String(),
			Label:      v.Label,
			PriceCents: v.PriceCents,
			InStock:    v.StockQty > 0,
		})
	}
	if len(p.Variants) > 0 {
		out.InStock = false
		for _, v := range out.Variants {
			if v.InStock {
				out.InStock = true
				break
			}
		}
	}
	return out
}

func (s *Server) ListStoreProducts(c *gin.Context) {
	products, err := s.catalogSvc.ListProducts(c.Request.Context(), catalogdomain.ListProductsRequest{
		CategoryID: c.Query("category_id"),
		ActiveOnly: true,
		SortBy:     c.Query("sort_by"),
		OrderBy:    c.Query("order_by"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]storeProduct, 0, len(products))
	for _, p := range products {
		out = append(out, toStoreProduct(p))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (s *Server) GetStoreProduct(c *gin.Context) {
	product, err := s.catalogSvc.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStoreProduct(*product))
}

func (s *Server) ListStoreCategories(c *gin.Context) {
	categories, err := s.catalogSvc.ListCategories(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

type shippingOption struct {
	Code                string   `json:"code"`
	Label               string   `json:"label"`
	BaseCents           int64    `json:"base_cents"`
	CODFeeCents         int64    `json:"cod_fee_cents"`
	AllowedPaymentCodes []string `json:"allowed_payment_codes,omitempty"`
}

func (s *Server) ListShippingOptions(c *gin.Context) {
	methods, err := s.settingsSvc.ListShippingMethods(c.Request.Context(), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]shippingOption, 0, len(methods))
	for _, m := range methods {
		opt := shippingOption{
			Code:        m.Code,
			Label:       m.Label,
			BaseCents:   m.BaseCents,
			CODFeeCents: m.CODFeeCents,
		}
		if len(m.AllowedPaymentCodes) > 0 {
			_ = json.Unmarshal(m.AllowedPaymentCodes, &opt.AllowedPaymentCodes)
		}
		out = append(out, opt)
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

type paymentOption struct {
	Code          string  `json:"code"`
	Label         string  `json:"label"`
	SurchargeRate float64 `json:"surcharge_rate"`
}

func (s *Server) ListPaymentOptions(c *gin.Context) {
	methods, err := s.settingsSvc.ListPaymentMethods(c.Request.Context(), true)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := make([]paymentOption, 0, len(methods))
	for _, m := range methods {
		out = append(out, paymentOption{Code: m.Code, Label: m.Label, SurchargeRate: m.SurchargeRate})
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
