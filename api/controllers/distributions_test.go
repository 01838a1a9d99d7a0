package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vitrineturbo/vitrineturbo-backend/internal/distribution"
)

func TestDistributionsValidateComplete(t *testing.T) {
	handler := DistributionsValidate(nil)

	body := `{
		"targetTotal": 10,
		"items": [
			{"color": "Preto", "size": "M", "quantity": 6},
			{"color": "Branco", "size": "M", "quantity": 4}
		]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/distributions/validate", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data distribution.Report `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.IsValid {
		t.Fatalf("expected a valid report, got %+v", envelope.Data)
	}
	if len(envelope.Data.Warnings) != 0 {
		t.Fatalf("complete allocation should have no warnings")
	}
}

func TestDistributionsValidateIncompleteIsWarning(t *testing.T) {
	handler := DistributionsValidate(nil)

	body := `{"targetTotal": 10, "items": [{"color": "Preto", "quantity": 6}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/distributions/validate", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("validation findings are payload, not HTTP errors; got %d", resp.Code)
	}

	var envelope struct {
		Data distribution.Report `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.IsValid {
		t.Fatalf("incomplete allocations warn but stay valid")
	}
	if len(envelope.Data.Warnings) != 1 {
		t.Fatalf("expected 1 warning got %d", len(envelope.Data.Warnings))
	}
}

func TestDistributionsValidateOverflowIsError(t *testing.T) {
	handler := DistributionsValidate(nil)

	body := `{"targetTotal": 10, "items": [{"color": "Preto", "quantity": 12}]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/distributions/validate", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	var envelope struct {
		Data distribution.Report `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.IsValid {
		t.Fatalf("overflow must invalidate the report")
	}
	if len(envelope.Data.Errors) != 1 {
		t.Fatalf("expected 1 error got %d", len(envelope.Data.Errors))
	}
}

func TestDistributionsValidateMalformedBody(t *testing.T) {
	handler := DistributionsValidate(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/distributions/validate", strings.NewReader(`{"targetTotal":`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
