package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const paymentSignatureHeader = "X-Webhook-Signature"

// HandlePaymentWebhook takes provider notifications. The signature is
// computed over the raw body, so the body is read before any binding.
func (s *Server) HandlePaymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sig := c.GetHeader(paymentSignatureHeader)
	if err := s.webhookSvc.HandleEvent(c.Request.Context(), body, sig); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
