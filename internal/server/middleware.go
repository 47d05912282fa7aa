package server

import (
	"crypto/subtle"
	"strconv"

	"github.com/gin-gonic/gin"
	obscontext "github.com/shopyard/shopyard/internal/observability/context"
	tenantdomain "github.com/shopyard/shopyard/internal/tenant/domain"
	"github.com/shopyard/shopyard/internal/tenantctx"
	"go.uber.org/zap"
)

const (
	tenantContextKey    = "resolved_tenant"
	adminPasswordHeader = "X-Admin-Password"
	rootPasswordHeader  = "X-Root-Password"
)

// TenantResolver maps the request Host to a tenant and stores it on the
// request. Resolution only fails when the registry is empty.
func (s *Server) TenantResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		t, err := s.tenantSvc.ResolveByHost(c.Request.Context(), c.Request.Host)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(tenantContextKey, t)
		ctx := tenantctx.WithTenantID(c.Request.Context(), t.ID.Int64())
		ctx = obscontext.WithTenantID(ctx, t.ID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *Server) currentTenant(c *gin.Context) *tenantdomain.Tenant {
	v, ok := c.Get(tenantContextKey)
	if !ok {
		return nil
	}
	t, _ := v.(*tenantdomain.Tenant)
	return t
}

// AdminAuth gates the tenant admin surface with the tenant's admin
// password.
func (s *Server) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		t := s.currentTenant(c)
		if t == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		pass := c.GetHeader(adminPasswordHeader)
		if pass == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if _, err := s.tenantSvc.VerifyAdminPassword(c.Request.Context(), t.ID.String(), pass); err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RootAuth gates the provisioning surface with the shared root password.
// Without a configured password the whole surface is off.
func (s *Server) RootAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.cfg.RootEnabled() {
			AbortWithError(c, ErrServiceUnavailable)
			return
		}

		pass := c.GetHeader(rootPasswordHeader)
		if subtle.ConstantTimeCompare([]byte(pass), []byte(s.cfg.RootAdminPassword)) != 1 {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// requireTier checks the resolved tenant's support tier against the
// casbin policy for the object and action.
func (s *Server) requireTier(object, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		t := s.currentTenant(c)
		if t == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if err := s.authzSvc.Authorize(c.Request.Context(), t.SupportTier, object, action); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RateLimit throttles an endpoint per tenant and client ip. Limiter
// errors fail open so redis trouble never blocks checkout.
func (s *Server) RateLimit(endpoint string, rate float64, burst int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.limiter == nil {
			c.Next()
			return
		}

		t := s.currentTenant(c)
		if t == nil {
			c.Next()
			return
		}

		key := endpoint + ":" + t.ID.String() + ":" + c.ClientIP()
		res, err := s.limiter.Allow(c.Request.Context(), key, rate, burst)
		if err != nil {
			s.log.Warn("rate limiter unavailable", zap.String("endpoint", endpoint), zap.Error(err))
			c.Next()
			return
		}
		if !res.Allowed {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), t.ID.String(), endpoint, "bucket_empty")
			if res.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())+1))
			}
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		s.obsMetrics.RecordRateLimitAllowed(c.Request.Context(), t.ID.String(), endpoint)
		c.Next()
	}
}
