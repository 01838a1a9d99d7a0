package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	FindActiveBySession(ctx context.Context, sessionID uuid.UUID) (*models.CartRecord, error)
	AppendLines(ctx context.Context, cartID uuid.UUID, lines []models.CartLine) error
	ReplaceDistributionLines(ctx context.Context, cartID, distributionID uuid.UUID, lines []models.CartLine) error
	DeleteLine(ctx context.Context, cartID, lineID uuid.UUID) error
	UpdateTotals(ctx context.Context, cartID uuid.UUID, subtotalCents, totalCents int) error
	UpdateStatus(ctx context.Context, id, sessionID uuid.UUID, status enums.CartStatus) error
}

// DistributionRepository defines persistence for committed variant distributions.
type DistributionRepository interface {
	WithTx(tx *gorm.DB) DistributionRepository
	Create(ctx context.Context, dist *models.VariantDistribution) (*models.VariantDistribution, error)
	Update(ctx context.Context, dist *models.VariantDistribution) (*models.VariantDistribution, error)
	FindByIDAndSession(ctx context.Context, id, sessionID uuid.UUID) (*models.VariantDistribution, error)
	ReplaceItems(ctx context.Context, distributionID uuid.UUID, items []models.DistributionItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateStatusBySession(ctx context.Context, sessionID uuid.UUID, from, to enums.DistributionStatus) error
}
