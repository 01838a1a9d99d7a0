package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrineturbo/vitrineturbo-backend/internal/pricing"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/config"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/pagination"
)

// Service exposes seller catalog management and storefront reads.
type Service interface {
	CreateProduct(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, input UpdateProductInput) (*ProductDetail, error)
	DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) error
	ReplaceTiers(ctx context.Context, sellerID, productID uuid.UUID, tiers []TierInput) (*ProductDetail, error)
	GetProductDetail(ctx context.Context, productID uuid.UUID) (*ProductDetail, error)
	QuotePrice(ctx context.Context, productID uuid.UUID, quantity int) (*pricing.Result, error)
	ListStorefront(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*StorefrontPage, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TierInput defines one quantity range of a product's tier table.
type TierInput struct {
	MinQuantity              int  `json:"minQuantity" validate:"required,gte=1"`
	MaxQuantity              *int `json:"maxQuantity" validate:"omitempty,gte=1"`
	UnitPriceCents           int  `json:"unitPriceCents" validate:"required,gt=0"`
	DiscountedUnitPriceCents *int `json:"discountedUnitPriceCents" validate:"omitempty,gt=0"`
}

// ImageInput defines one gallery entry.
type ImageInput struct {
	URL       string `json:"url" validate:"required,url"`
	Position  int    `json:"position" validate:"gte=0"`
	IsPrimary bool   `json:"isPrimary"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title                string       `json:"title" validate:"required,max=160"`
	Slug                 string       `json:"slug" validate:"omitempty,max=160"`
	Description          *string      `json:"description" validate:"omitempty,max=4000"`
	PriceCents           int          `json:"priceCents" validate:"required,gt=0"`
	DiscountedPriceCents *int         `json:"discountedPriceCents" validate:"omitempty,gt=0"`
	Colors               []string     `json:"colors" validate:"omitempty,dive,max=60"`
	Sizes                []string     `json:"sizes" validate:"omitempty,dive,max=60"`
	IsActive             bool         `json:"isActive"`
	Position             int          `json:"position" validate:"gte=0"`
	Images               []ImageInput `json:"images" validate:"omitempty,dive"`
	Tiers                []TierInput  `json:"tiers" validate:"omitempty,dive"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title                *string   `json:"title" validate:"omitempty,max=160"`
	Slug                 *string   `json:"slug" validate:"omitempty,max=160"`
	Description          *string   `json:"description" validate:"omitempty,max=4000"`
	PriceCents           *int      `json:"priceCents" validate:"omitempty,gt=0"`
	DiscountedPriceCents *int      `json:"discountedPriceCents" validate:"omitempty,gt=0"`
	Colors               *[]string `json:"colors" validate:"omitempty,dive,max=60"`
	Sizes                *[]string `json:"sizes" validate:"omitempty,dive,max=60"`
	IsActive             *bool     `json:"isActive"`
	Position             *int      `json:"position" validate:"omitempty,gte=0"`
	Images               *[]ImageInput
}

type service struct {
	repo      *Repository
	tx        txRunner
	catalog   config.CatalogConfig
	sizeKinds *SizeKindCache
}

// NewService constructs a product service instance.
func NewService(repo *Repository, tx txRunner, catalog config.CatalogConfig, sizeKinds *SizeKindCache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if sizeKinds == nil {
		return nil, fmt.Errorf("size kind cache required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		catalog:   catalog,
		sizeKinds: sizeKinds,
	}, nil
}

// CreateProduct creates the product with its tiers and gallery.
func (s *service) CreateProduct(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductDetail, error) {
	if err := s.validateTiers(input.Tiers); err != nil {
		return nil, err
	}
	if err := s.validateImages(input.Images); err != nil {
		return nil, err
	}
	if err := validatePricePair(input.PriceCents, input.DiscountedPriceCents); err != nil {
		return nil, err
	}

	slug := input.Slug
	if slug == "" {
		slug = Slugify(input.Title)
	}

	product := &models.Product{
		SellerID:             sellerID,
		Title:                input.Title,
		Slug:                 slug,
		Description:          input.Description,
		PriceCents:           input.PriceCents,
		DiscountedPriceCents: input.DiscountedPriceCents,
		Colors:               input.Colors,
		Sizes:                input.Sizes,
		HasTieredPricing:     len(input.Tiers) > 0,
		IsActive:             input.IsActive,
		Position:             input.Position,
		PriceTiers:           toTierModels(sellerID, input.Tiers),
		Images:               toImageModels(input.Images),
	}
	if product.Colors == nil {
		product.Colors = []string{}
	}
	if product.Sizes == nil {
		product.Sizes = []string{}
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateProduct(ctx, product)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	return s.GetProductDetail(ctx, product.ID)
}

// UpdateProduct applies the provided fields and optionally replaces the gallery.
func (s *service) UpdateProduct(ctx context.Context, sellerID, productID uuid.UUID, input UpdateProductInput) (*ProductDetail, error) {
	product, err := s.loadOwned(ctx, sellerID, productID)
	if err != nil {
		return nil, err
	}

	applyUpdate(product, input)
	if err := validatePricePair(product.PriceCents, product.DiscountedPriceCents); err != nil {
		return nil, err
	}
	if input.Images != nil {
		if err := s.validateImages(*input.Images); err != nil {
			return nil, err
		}
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.UpdateProduct(ctx, product); err != nil {
			return err
		}
		if input.Images != nil {
			return repo.ReplaceImages(ctx, product.ID, toImageModels(*input.Images))
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	return s.GetProductDetail(ctx, product.ID)
}

// DeleteProduct removes a product owned by the seller.
func (s *service) DeleteProduct(ctx context.Context, sellerID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, sellerID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// ReplaceTiers swaps the tier table wholesale and keeps the denormalized
// tiered-pricing flag in sync.
func (s *service) ReplaceTiers(ctx context.Context, sellerID, productID uuid.UUID, tiers []TierInput) (*ProductDetail, error) {
	if _, err := s.loadOwned(ctx, sellerID, productID); err != nil {
		return nil, err
	}
	if err := s.validateTiers(tiers); err != nil {
		return nil, err
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ReplaceTiers(ctx, productID, toTierModels(sellerID, tiers)); err != nil {
			return err
		}
		return repo.SetTieredPricingFlag(ctx, productID, len(tiers) > 0)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace tiers")
	}

	return s.GetProductDetail(ctx, productID)
}

// GetProductDetail returns the full product shape with tiers and gallery.
func (s *service) GetProductDetail(ctx context.Context, productID uuid.UUID) (*ProductDetail, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	detail := &ProductDetail{
		ID:                   product.ID,
		SellerID:             product.SellerID,
		Title:                product.Title,
		Slug:                 product.Slug,
		Description:          product.Description,
		PriceCents:           product.PriceCents,
		DiscountedPriceCents: product.DiscountedPriceCents,
		Colors:               product.Colors,
		Sizes:                product.Sizes,
		SizeKind:             s.sizeKinds.Classify(product.Sizes),
		HasTieredPricing:     product.HasTieredPricing,
		IsActive:             product.IsActive,
		Position:             product.Position,
		Tiers:                toTierDTOs(product.PriceTiers),
		Images:               toImageDTOs(product.Images),
	}
	return detail, nil
}

// QuotePrice resolves a quantity against the product's tier table without
// touching any cart. Storefronts call this on every quantity change.
func (s *service) QuotePrice(ctx context.Context, productID uuid.UUID, quantity int) (*pricing.Result, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	result := pricing.Resolve(quantity, product.PriceTiers, product.PriceCents, product.DiscountedPriceCents)
	return &result, nil
}

// ListStorefront pages a seller's active products with "starting from" price
// previews computed from the tier table.
func (s *service) ListStorefront(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*StorefrontPage, error) {
	items, next, err := s.repo.ListStorefront(ctx, sellerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list storefront")
	}

	page := &StorefrontPage{Products: make([]StorefrontProduct, 0, len(items))}
	for i := range items {
		page.Products = append(page.Products, s.toStorefrontProduct(&items[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		page.NextCursor = &encoded
	}
	return page, nil
}

func (s *service) toStorefrontProduct(product *models.Product) StorefrontProduct {
	card := StorefrontProduct{
		ID:               product.ID,
		Title:            product.Title,
		Slug:             product.Slug,
		PriceCents:       product.PriceCents,
		PrimaryImageURL:  primaryImageURL(product.Images),
		Colors:           product.Colors,
		Sizes:            product.Sizes,
		SizeKind:         s.sizeKinds.Classify(product.Sizes),
		HasTieredPricing: product.HasTieredPricing,
	}
	if card.Colors == nil {
		card.Colors = []string{}
	}
	if card.Sizes == nil {
		card.Sizes = []string{}
	}
	if min, ok := pricing.MinimumPrice(product.PriceTiers); ok {
		card.StartingFromCents = &min
	}
	if preview, ok := pricing.FirstTierPrices(product.PriceTiers); ok {
		card.FirstTier = &preview
	}
	return card
}

func (s *service) loadOwned(ctx context.Context, sellerID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.SellerID != sellerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) validateTiers(tiers []TierInput) error {
	if s.catalog.MaxTiersPerProduct > 0 && len(tiers) > s.catalog.MaxTiersPerProduct {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d tiers are allowed per product", s.catalog.MaxTiersPerProduct))
	}

	seen := map[int]bool{}
	for _, tier := range tiers {
		if tier.MinQuantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier min quantity must be at least 1")
		}
		if seen[tier.MinQuantity] {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("duplicate tier for min quantity %d", tier.MinQuantity))
		}
		seen[tier.MinQuantity] = true

		if tier.UnitPriceCents <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "tier unit price must be positive")
		}
		if tier.MaxQuantity != nil && *tier.MaxQuantity < tier.MinQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("tier max quantity %d is below min quantity %d", *tier.MaxQuantity, tier.MinQuantity))
		}
		if tier.DiscountedUnitPriceCents != nil {
			if *tier.DiscountedUnitPriceCents <= 0 || *tier.DiscountedUnitPriceCents >= tier.UnitPriceCents {
				return pkgerrors.New(pkgerrors.CodeValidation, "tier discounted price must be positive and below the unit price")
			}
		}
	}
	return nil
}

func (s *service) validateImages(images []ImageInput) error {
	if s.catalog.MaxImagesPerProduct > 0 && len(images) > s.catalog.MaxImagesPerProduct {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d images are allowed per product", s.catalog.MaxImagesPerProduct))
	}
	primaries := 0
	for _, image := range images {
		if image.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "only one image can be primary")
	}
	return nil
}

func validatePricePair(priceCents int, discounted *int) error {
	if priceCents <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if discounted != nil && (*discounted <= 0 || *discounted >= priceCents) {
		return pkgerrors.New(pkgerrors.CodeValidation, "discounted price must be positive and below the price")
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Slug != nil {
		product.Slug = *input.Slug
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.DiscountedPriceCents != nil {
		product.DiscountedPriceCents = input.DiscountedPriceCents
	}
	if input.Colors != nil {
		product.Colors = *input.Colors
	}
	if input.Sizes != nil {
		product.Sizes = *input.Sizes
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.Position != nil {
		product.Position = *input.Position
	}
}

func toTierModels(sellerID uuid.UUID, tiers []TierInput) []models.PriceTier {
	out := make([]models.PriceTier, 0, len(tiers))
	for _, tier := range tiers {
		out = append(out, models.PriceTier{
			SellerID:                 sellerID,
			MinQuantity:              tier.MinQuantity,
			MaxQuantity:              tier.MaxQuantity,
			UnitPriceCents:           tier.UnitPriceCents,
			DiscountedUnitPriceCents: tier.DiscountedUnitPriceCents,
		})
	}
	return out
}

func toImageModels(images []ImageInput) []models.ProductImage {
	out := make([]models.ProductImage, 0, len(images))
	for _, image := range images {
		out = append(out, models.ProductImage{
			URL:       image.URL,
			Position:  image.Position,
			IsPrimary: image.IsPrimary,
		})
	}
	return out
}

// Slugify lowercases the title and collapses anything non-alphanumeric into
// single dashes.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
