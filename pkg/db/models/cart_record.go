package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
)

// CartRecord is one buyer session's cart. A session has at most one active
// record; checkout marks it converted.
type CartRecord struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerSessionID uuid.UUID        `gorm:"column:buyer_session_id;type:uuid;not null"`
	Status         enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	SubtotalCents  int              `gorm:"column:subtotal_cents;not null;default:0"`
	TotalCents     int              `gorm:"column:total_cents;not null;default:0"`
	Lines          []CartLine       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
