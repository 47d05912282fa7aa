package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	settingsdomain "github.com/shopyard/shopyard/internal/settings/domain"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
)

func (s *Server) ListShippingMethods(c *gin.Context) {
	methods, err := s.settingsSvc.ListShippingMethods(c.Request.Context(), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": methods})
}

func (s *Server) UpsertShippingMethod(c *gin.Context) {
	var req settingsdomain.ShippingMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	method, err := s.settingsSvc.UpsertShippingMethod(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, method)
}

func (s *Server) DeleteShippingMethod(c *gin.Context) {
	if err := s.settingsSvc.DeleteShippingMethod(c.Request.Context(), c.Param("code")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ListPaymentMethods(c *gin.Context) {
	methods, err := s.settingsSvc.ListPaymentMethods(c.Request.Context(), false)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": methods})
}

func (s *Server) UpsertPaymentMethod(c *gin.Context) {
	var req settingsdomain.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	method, err := s.settingsSvc.UpsertPaymentMethod(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, method)
}

func (s *Server) DeletePaymentMethod(c *gin.Context) {
	if err := s.settingsSvc.DeletePaymentMethod(c.Request.Context(), c.Param("code")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type webhookConfigRequest struct {
	URL    *string `json:"url"`
	Secret *string `json:"secret"`
}

// UpdateWebhookConfig sets where order events for this tenant get
// delivered and the secret used to sign them.
func (s *Server) UpdateWebhookConfig(c *gin.Context) {
	t := s.currentTenant(c)
	if t == nil {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req webhookConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updated, err := s.tenantSvc.Update(c.Request.Context(), t.ID.String(), tenantdomain.UpdateRequest{
		WebhookURL:    req.URL,
		WebhookSecret: req.Secret,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"webhook_url": updated.WebhookURL})
}
