package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	reviewdomain "github.com/shopyard/shopyard/internal/review/domain"
)

func (s *Server) ListProductReviews(c *gin.Context) {
	product, err := s.catalogSvc.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reviews, err := s.reviewSvc.ListForProduct(c.Request.Context(), product.ID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

func (s *Server) SubmitReview(c *gin.Context) {
	var req reviewdomain.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	review, err := s.reviewSvc.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}
