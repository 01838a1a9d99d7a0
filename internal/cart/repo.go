package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
)

// Repository exposes persistence operations for buyer carts.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new CartRecord.
func (r *Repository) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	if record.Status == "" {
		record.Status = enums.CartStatusActive
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindActiveBySession loads the newest active cart for the buyer session.
func (r *Repository) FindActiveBySession(ctx context.Context, sessionID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("buyer_session_id = ? AND status = ?", sessionID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// AppendLines inserts lines for the provided cart.
func (r *Repository) AppendLines(ctx context.Context, cartID uuid.UUID, lines []models.CartLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].CartID = cartID
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

// ReplaceDistributionLines atomically swaps the lines belonging to one
// distribution grouping inside the cart.
func (r *Repository) ReplaceDistributionLines(ctx context.Context, cartID, distributionID uuid.UUID, lines []models.CartLine) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("cart_id = ? AND distribution_id = ?", cartID, distributionID).Delete(&models.CartLine{}).Error; err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].CartID = cartID
	}
	return tx.Create(&lines).Error
}

// DeleteLine removes one line scoped to its cart.
func (r *Repository) DeleteLine(ctx context.Context, cartID, lineID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateTotals stamps the recomputed totals on the cart record.
func (r *Repository) UpdateTotals(ctx context.Context, cartID uuid.UUID, subtotalCents, totalCents int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		Updates(map[string]any{"subtotal_cents": subtotalCents, "total_cents": totalCents}).Error
}

// UpdateStatus updates the status of a cart owned by the buyer session.
func (r *Repository) UpdateStatus(ctx context.Context, id, sessionID uuid.UUID, status enums.CartStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ? AND buyer_session_id = ?", id, sessionID).
		Update("status", status).Error
}
