package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/api/middleware"
	"github.com/vitrineturbo/vitrineturbo-backend/internal/pricing"
	productsvc "github.com/vitrineturbo/vitrineturbo-backend/internal/products"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/pagination"
)

type stubProductService struct {
	detail     *productsvc.ProductDetail
	page       *productsvc.StorefrontPage
	quote      *pricing.Result
	err        error
	lastSeller uuid.UUID
	lastParams pagination.Params
	lastInput  productsvc.CreateProductInput
	deleted    bool
}

func (s *stubProductService) CreateProduct(_ context.Context, sellerID uuid.UUID, input productsvc.CreateProductInput) (*productsvc.ProductDetail, error) {
	s.lastSeller = sellerID
	s.lastInput = input
	return s.detail, s.err
}

func (s *stubProductService) UpdateProduct(_ context.Context, sellerID, _ uuid.UUID, _ productsvc.UpdateProductInput) (*productsvc.ProductDetail, error) {
	s.lastSeller = sellerID
	return s.detail, s.err
}

func (s *stubProductService) DeleteProduct(_ context.Context, sellerID, _ uuid.UUID) error {
	s.lastSeller = sellerID
	s.deleted = true
	return s.err
}

func (s *stubProductService) ReplaceTiers(_ context.Context, sellerID, _ uuid.UUID, _ []productsvc.TierInput) (*productsvc.ProductDetail, error) {
	s.lastSeller = sellerID
	return s.detail, s.err
}

func (s *stubProductService) GetProductDetail(_ context.Context, _ uuid.UUID) (*productsvc.ProductDetail, error) {
	return s.detail, s.err
}

func (s *stubProductService) QuotePrice(_ context.Context, _ uuid.UUID, _ int) (*pricing.Result, error) {
	return s.quote, s.err
}

func (s *stubProductService) ListStorefront(_ context.Context, sellerID uuid.UUID, params pagination.Params) (*productsvc.StorefrontPage, error) {
	s.lastSeller = sellerID
	s.lastParams = params
	return s.page, s.err
}

func urlParamRequest(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestStorefrontProductsParsesQuery(t *testing.T) {
	sellerID := uuid.New()
	service := &stubProductService{page: &productsvc.StorefrontPage{Products: []productsvc.StorefrontProduct{}}}
	handler := StorefrontProducts(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/"+sellerID.String()+"/products?limit=10&cursor=abc", nil)
	req = urlParamRequest(req, "sellerId", sellerID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastSeller != sellerID {
		t.Fatalf("expected seller %s got %s", sellerID, service.lastSeller)
	}
	if service.lastParams.Limit != 10 || service.lastParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", service.lastParams)
	}
}

func TestStorefrontProductsDefaultsLimit(t *testing.T) {
	sellerID := uuid.New()
	service := &stubProductService{page: &productsvc.StorefrontPage{}}
	handler := StorefrontProducts(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/"+sellerID.String()+"/products", nil)
	req = urlParamRequest(req, "sellerId", sellerID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if service.lastParams.Limit != pagination.DefaultLimit {
		t.Fatalf("expected default limit %d got %d", pagination.DefaultLimit, service.lastParams.Limit)
	}
}

func TestStorefrontProductsRejectsOversizedLimit(t *testing.T) {
	sellerID := uuid.New()
	handler := StorefrontProducts(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/"+sellerID.String()+"/products?limit=9999", nil)
	req = urlParamRequest(req, "sellerId", sellerID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestStorefrontProductsInvalidSellerID(t *testing.T) {
	handler := StorefrontProducts(&stubProductService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/nope/products", nil)
	req = urlParamRequest(req, "sellerId", "nope")

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestStorefrontProductDetailNotFound(t *testing.T) {
	handler := StorefrontProductDetail(&stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}, nil)

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/products/"+productID.String(), nil)
	req = urlParamRequest(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestPricingQuoteSuccess(t *testing.T) {
	service := &stubProductService{quote: &pricing.Result{Quantity: 10, UnitPriceCents: 4500, TotalPriceCents: 45000}}
	handler := PricingQuote(service, nil)

	body := fmt.Sprintf(`{"productId": "%s", "quantity": 10}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data pricing.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalPriceCents != 45000 {
		t.Fatalf("expected total 45000 got %d", envelope.Data.TotalPriceCents)
	}
}

func TestPricingQuoteRejectsNonPositiveQuantity(t *testing.T) {
	handler := PricingQuote(&stubProductService{}, nil)

	body := fmt.Sprintf(`{"productId": "%s", "quantity": 0}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/quote", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSellerCreateProductSuccess(t *testing.T) {
	sellerID := uuid.New()
	service := &stubProductService{detail: &productsvc.ProductDetail{ID: uuid.New(), SellerID: sellerID}}
	handler := SellerCreateProduct(service, nil)

	body := `{"title": "Camiseta Básica", "priceCents": 6000, "isActive": true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", strings.NewReader(body))
	req = req.WithContext(middleware.WithSellerID(req.Context(), sellerID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if service.lastSeller != sellerID {
		t.Fatalf("expected seller %s got %s", sellerID, service.lastSeller)
	}
	if service.lastInput.Title != "Camiseta Básica" {
		t.Fatalf("unexpected title %q", service.lastInput.Title)
	}
}

func TestSellerCreateProductMissingSellerContext(t *testing.T) {
	handler := SellerCreateProduct(&stubProductService{}, nil)

	body := `{"title": "Camiseta", "priceCents": 6000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/seller/products", strings.NewReader(body))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestSellerDeleteProduct(t *testing.T) {
	sellerID := uuid.New()
	productID := uuid.New()
	service := &stubProductService{}
	handler := SellerDeleteProduct(service, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/seller/products/"+productID.String(), nil)
	req = req.WithContext(middleware.WithSellerID(req.Context(), sellerID.String()))
	req = urlParamRequest(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !service.deleted {
		t.Fatalf("expected delete call")
	}
}

func TestSellerReplaceTiersEmptyListAllowed(t *testing.T) {
	sellerID := uuid.New()
	productID := uuid.New()
	service := &stubProductService{detail: &productsvc.ProductDetail{ID: productID, SellerID: sellerID}}
	handler := SellerReplaceTiers(service, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/seller/products/"+productID.String()+"/tiers", strings.NewReader(`{"tiers": []}`))
	req = req.WithContext(middleware.WithSellerID(req.Context(), sellerID.String()))
	req = urlParamRequest(req, "productId", productID.String())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
