package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/api/middleware"
	checkoutsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/checkout"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
)

type stubCheckoutService struct {
	summary *checkoutsvc.OrderSummary
	err     error
	lastID  uuid.UUID
}

func (s *stubCheckoutService) Checkout(_ context.Context, sessionID uuid.UUID) (*checkoutsvc.OrderSummary, error) {
	s.lastID = sessionID
	return s.summary, s.err
}

func TestCheckoutSuccess(t *testing.T) {
	sessionID := uuid.New()
	summary := &checkoutsvc.OrderSummary{
		CartID:         uuid.New(),
		BuyerSessionID: sessionID,
		TotalItems:     10,
		SubtotalCents:  45000,
		SubtotalAmount: "450.00",
		TotalCents:     45000,
		TotalAmount:    "450.00",
	}
	service := &stubCheckoutService{summary: summary}
	handler := Checkout(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req = req.WithContext(middleware.WithBuyerSession(req.Context(), sessionID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastID != sessionID {
		t.Fatalf("expected session %s got %s", sessionID, service.lastID)
	}

	var envelope struct {
		Data checkoutsvc.OrderSummary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalAmount != "450.00" {
		t.Fatalf("expected display amount 450.00 got %s", envelope.Data.TotalAmount)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	service := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}
	handler := Checkout(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req = req.WithContext(middleware.WithBuyerSession(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutMissingSession(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
