package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	analyticsdomain "github.com/shopyard/shopyard/internal/analytics/domain"
)

func (s *Server) GetDailyAnalytics(c *gin.Context) {
	stats, err := s.analyticsSvc.Range(c.Request.Context(), analyticsdomain.RangeRequest{
		From: c.Query("from"),
		To:   c.Query("to"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
