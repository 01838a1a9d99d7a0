package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
)

// DistributionRepo persists committed variant distributions.
type DistributionRepo struct {
	db *gorm.DB
}

// NewDistributionRepo constructs a distribution repository bound to the provided DB.
func NewDistributionRepo(db *gorm.DB) *DistributionRepo {
	return &DistributionRepo{db: db}
}

// WithTx binds the repository to a transaction.
func (r *DistributionRepo) WithTx(tx *gorm.DB) DistributionRepository {
	if tx == nil {
		return r
	}
	return &DistributionRepo{db: tx}
}

// Create inserts a distribution together with its items.
func (r *DistributionRepo) Create(ctx context.Context, dist *models.VariantDistribution) (*models.VariantDistribution, error) {
	if dist.Status == "" {
		dist.Status = enums.DistributionStatusActive
	}
	if err := r.db.WithContext(ctx).Create(dist).Error; err != nil {
		return nil, err
	}
	return dist, nil
}

// Update saves the distribution header fields.
func (r *DistributionRepo) Update(ctx context.Context, dist *models.VariantDistribution) (*models.VariantDistribution, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Save(dist).Error; err != nil {
		return nil, err
	}
	return dist, nil
}

// FindByIDAndSession returns a distribution restricted to the buyer session.
func (r *DistributionRepo) FindByIDAndSession(ctx context.Context, id, sessionID uuid.UUID) (*models.VariantDistribution, error) {
	var dist models.VariantDistribution
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND buyer_session_id = ?", id, sessionID).
		First(&dist).Error
	if err != nil {
		return nil, err
	}
	return &dist, nil
}

// ReplaceItems atomically replaces the distribution's item set.
func (r *DistributionRepo) ReplaceItems(ctx context.Context, distributionID uuid.UUID, items []models.DistributionItem) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("distribution_id = ?", distributionID).Delete(&models.DistributionItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].DistributionID = distributionID
	}
	return tx.Create(&items).Error
}

// Delete removes a distribution and, via the FK cascade, its items.
func (r *DistributionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.VariantDistribution{}, "id = ?", id).Error
}

// UpdateStatusBySession transitions every distribution in the given state for
// the buyer session, used when a cart converts at checkout.
func (r *DistributionRepo) UpdateStatusBySession(ctx context.Context, sessionID uuid.UUID, from, to enums.DistributionStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.VariantDistribution{}).
		Where("buyer_session_id = ? AND status = ?", sessionID, from).
		Update("status", to).Error
}
