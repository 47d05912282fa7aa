package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	orderdomain "github.com/shopyard/shopyard/internal/order/domain"
	"github.com/shopyard/shopyard/pkg/db/pagination"
	"github.com/stretchr/testify/require"
)

type orderServiceStub struct {
	order *orderdomain.Order
}

func (s *orderServiceStub) PlaceOrder(ctx context.Context, req orderdomain.PlaceOrderRequest) (*orderdomain.Order, error) {
	return nil, nil
}

func (s *orderServiceStub) MarkPaid(ctx context.Context, tenantID int64, number string) (*orderdomain.Order, bool, error) {
	return nil, false, nil
}

func (s *orderServiceStub) GetByNumber(ctx context.Context, number string) (*orderdomain.Order, error) {
	if s.order != nil && number == s.order.Number {
		return s.order, nil
	}
	return nil, orderdomain.ErrNotFound
}

func (s *orderServiceStub) List(ctx context.Context, req orderdomain.ListRequest) ([]*orderdomain.Order, *pagination.PageInfo, error) {
	return nil, nil, nil
}

func orderStatusServer(ord *orderdomain.Order) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())
	s := &Server{orderSvc: &orderServiceStub{order: ord}}
	engine.GET("/store/orders/:number", s.GetOrderStatus)
	return engine
}

func getOrderStatus(engine *gin.Engine, number, email string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	target := "/store/orders/" + number
	if email != "" {
		target += "?email=" + url.QueryEscape(email)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	engine.ServeHTTP(w, req)
	return w
}

func TestGetOrderStatusEmailMatch(t *testing.T) {
	engine := orderStatusServer(&orderdomain.Order{
		Number:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		CustomerEmail: "ada@example.com",
		TotalCents:    2558,
		PaymentStatus: orderdomain.PaymentPaid,
	})

	// Casing and stray whitespace in the query must not lock the
	// customer out of their own order.
	w := getOrderStatus(engine, "01ARZ3NDEKTSV4RRFFQ69G5FAV", " Ada@Example.COM ")
	require.Equal(t, http.StatusOK, w.Code)

	w = getOrderStatus(engine, "01ARZ3NDEKTSV4RRFFQ69G5FAV", "mallory@example.com")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = getOrderStatus(engine, "01ARZ3NDEKTSV4RRFFQ69G5FAV", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
