package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	referraldomain "github.com/shopyard/shopyard/internal/referral/domain"
)

func (s *Server) ListReferralAccounts(c *gin.Context) {
	accounts, err := s.referralSvc.ListAccounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

func (s *Server) CreateReferralAccount(c *gin.Context) {
	var req referraldomain.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	account, err := s.referralSvc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (s *Server) ListReferralEarnings(c *gin.Context) {
	earnings, err := s.referralSvc.ListEarnings(c.Request.Context(), c.Param("code"),
		referraldomain.EarningStatus(c.Query("status")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": earnings})
}

type markPaidRequest struct {
	EarningIDs []string `json:"earning_ids"`
}

func (s *Server) MarkReferralEarningsPaid(c *gin.Context) {
	var req markPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	settled, err := s.referralSvc.MarkPaid(c.Request.Context(), c.Param("code"), req.EarningIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settled": settled})
}
