package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/pagination"
)

// Repository persists the seller catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a product repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateProduct inserts a product with its tiers and images.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the product row without touching associations.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("PriceTiers", "Images").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product; tiers and images cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// FindByID loads the bare product row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail loads a product with tiers ordered by quantity and images
// ordered by gallery position.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReplaceTiers atomically swaps the product's tier table.
func (r *Repository) ReplaceTiers(ctx context.Context, productID uuid.UUID, tiers []models.PriceTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.PriceTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		tiers[i].ProductID = productID
	}
	return tx.Create(&tiers).Error
}

// ReplaceImages atomically swaps the product's gallery.
func (r *Repository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []models.ProductImage) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ProductID = productID
	}
	return tx.Create(&images).Error
}

// SetTieredPricingFlag keeps the denormalized flag in sync with the tier table.
func (r *Repository) SetTieredPricingFlag(ctx context.Context, productID uuid.UUID, hasTiers bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("has_tiered_pricing", hasTiers).Error
}

// ListStorefront pages through a seller's active products ordered by
// storefront position. It fetches one row past the limit to detect the next
// page.
func (r *Repository) ListStorefront(ctx context.Context, sellerID uuid.UUID, params pagination.Params) ([]models.Product, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Preload("PriceTiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, position ASC")
		}).
		Where("seller_id = ? AND is_active = ?", sellerID, true).
		Order("position ASC, id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit))

	if cursor != nil {
		query = query.Where("(position, id) > (?, ?)", cursor.Position, cursor.ID)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(products) > limit {
		products = products[:limit]
		last := products[len(products)-1]
		next = &pagination.Cursor{Position: last.Position, ID: last.ID}
	}
	return products, next, nil
}
