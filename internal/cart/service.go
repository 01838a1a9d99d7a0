package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrineturbo/vitrineturbo-backend/internal/distribution"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for one buyer session.
type Service interface {
	AddToCart(ctx context.Context, sessionID uuid.UUID, input AddToCartInput) (*models.CartRecord, error)
	AddPartialDistribution(ctx context.Context, sessionID uuid.UUID, input AddToCartInput) (*models.CartRecord, error)
	UpdateDistribution(ctx context.Context, sessionID, distributionID uuid.UUID, input UpdateDistributionInput) (*models.CartRecord, error)
	RemoveLine(ctx context.Context, sessionID, lineID uuid.UUID) (*models.CartRecord, error)
	GetActiveCart(ctx context.Context, sessionID uuid.UUID) (*models.CartRecord, error)
	ConvertCart(ctx context.Context, sessionID uuid.UUID) (*models.CartRecord, error)
}

type service struct {
	repo       CartRepository
	distRepo   DistributionRepository
	tx         txRunner
	products   productLoader
	aggregator *Aggregator
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, distRepo DistributionRepository, tx txRunner, products productLoader, aggregator *Aggregator) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if distRepo == nil {
		return nil, fmt.Errorf("distribution repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if aggregator == nil {
		return nil, fmt.Errorf("aggregator required")
	}
	return &service{
		repo:       repo,
		distRepo:   distRepo,
		tx:         tx,
		products:   products,
		aggregator: aggregator,
	}, nil
}

// DistributionItemInput is one requested variant allocation.
type DistributionItemInput struct {
	Color    *string `json:"color" validate:"omitempty,max=60"`
	Size     *string `json:"size" validate:"omitempty,max=60"`
	Quantity int     `json:"quantity" validate:"required"`
}

// AddToCartInput captures one commit action for a product.
type AddToCartInput struct {
	ProductID     uuid.UUID               `json:"productId" validate:"required"`
	Quantity      int                     `json:"quantity" validate:"required,gt=0"`
	SelectedColor *string                 `json:"selectedColor" validate:"omitempty,max=60"`
	SelectedSize  *string                 `json:"selectedSize" validate:"omitempty,max=60"`
	Items         []DistributionItemInput `json:"items" validate:"omitempty,dive"`
}

// UpdateDistributionInput replaces a committed distribution wholesale.
type UpdateDistributionInput struct {
	TotalQuantity int                     `json:"totalQuantity" validate:"required,gt=0"`
	Items         []DistributionItemInput `json:"items" validate:"required,min=1,dive"`
}

// AddToCart commits a purchase requiring a complete allocation: when variant
// items are supplied, their quantities must sum exactly to the purchase
// quantity.
func (s *service) AddToCart(ctx context.Context, sessionID uuid.UUID, input AddToCartInput) (*models.CartRecord, error) {
	return s.add(ctx, sessionID, input, false)
}

// AddPartialDistribution commits a purchase allowing an incomplete
// allocation. Overflow, duplicates and axis rules still apply.
func (s *service) AddPartialDistribution(ctx context.Context, sessionID uuid.UUID, input AddToCartInput) (*models.CartRecord, error) {
	return s.add(ctx, sessionID, input, true)
}

func (s *service) add(ctx context.Context, sessionID uuid.UUID, input AddToCartInput, allowPartial bool) (*models.CartRecord, error) {
	product, err := s.loadProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	items, err := buildAllocation(product, input)
	if err != nil {
		return nil, err
	}

	if len(items) > 0 {
		report := distribution.Validate(input.Quantity, items)
		if !report.IsValid {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variant allocation").
				WithDetails(report)
		}
		if !allowPartial && len(report.Warnings) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant allocation is incomplete").
				WithDetails(report)
		}
	}

	lines, result, err := s.aggregator.Commit(ctx, product, input.Quantity, input.SelectedColor, input.SelectedSize, items)
	if err != nil {
		return nil, err
	}

	var record *models.CartRecord
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		distRepo := s.distRepo.WithTx(tx)

		current, err := s.findOrCreateActive(ctx, repo, sessionID)
		if err != nil {
			return err
		}

		if len(items) > 0 {
			dist := &models.VariantDistribution{
				ID:                    *lines[0].DistributionID,
				BuyerSessionID:        sessionID,
				ProductID:             product.ID,
				TotalQuantity:         input.Quantity,
				AppliedUnitPriceCents: result.UnitPriceCents,
				AppliedTier:           result.AppliedTier,
				Status:                enums.DistributionStatusActive,
				Items:                 toModelItems(items),
			}
			if _, err := distRepo.Create(ctx, dist); err != nil {
				return err
			}
		}

		if err := repo.AppendLines(ctx, current.ID, toModelLines(lines)); err != nil {
			return err
		}
		return s.restampTotals(ctx, repo, current.ID, sessionID, &record)
	})
	if txErr != nil {
		return nil, commitFailure(txErr)
	}
	return record, nil
}

// UpdateDistribution re-resolves pricing at the new total and replaces the
// allocation's items and cart lines wholesale.
func (s *service) UpdateDistribution(ctx context.Context, sessionID, distributionID uuid.UUID, input UpdateDistributionInput) (*models.CartRecord, error) {
	dist, err := s.distRepo.FindByIDAndSession(ctx, distributionID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "distribution not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load distribution")
	}
	if dist.Status != enums.DistributionStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "distribution has already been converted")
	}

	product, err := s.loadProduct(ctx, dist.ProductID)
	if err != nil {
		return nil, err
	}

	items, err := buildAllocation(product, AddToCartInput{Quantity: input.TotalQuantity, Items: input.Items})
	if err != nil {
		return nil, err
	}
	report := distribution.Validate(input.TotalQuantity, items)
	if !report.IsValid || len(report.Warnings) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid variant allocation").
			WithDetails(report)
	}

	lines, result, err := s.aggregator.Commit(ctx, product, input.TotalQuantity, nil, nil, items)
	if err != nil {
		return nil, err
	}
	// the grouping keeps its identity across updates
	for i := range lines {
		id := dist.ID
		lines[i].DistributionID = &id
	}

	var record *models.CartRecord
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		distRepo := s.distRepo.WithTx(tx)

		current, err := repo.FindActiveBySession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
			}
			return err
		}

		dist.TotalQuantity = input.TotalQuantity
		dist.AppliedUnitPriceCents = result.UnitPriceCents
		dist.AppliedTier = result.AppliedTier
		if _, err := distRepo.Update(ctx, dist); err != nil {
			return err
		}
		if err := distRepo.ReplaceItems(ctx, dist.ID, toModelItems(items)); err != nil {
			return err
		}
		if err := repo.ReplaceDistributionLines(ctx, current.ID, dist.ID, toModelLines(lines)); err != nil {
			return err
		}
		return s.restampTotals(ctx, repo, current.ID, sessionID, &record)
	})
	if txErr != nil {
		return nil, commitFailure(txErr)
	}
	return record, nil
}

// RemoveLine drops one line; when the last line of a distribution grouping
// goes, the grouping goes with it.
func (s *service) RemoveLine(ctx context.Context, sessionID, lineID uuid.UUID) (*models.CartRecord, error) {
	current, err := s.GetActiveCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	var target *models.CartLine
	distributionLines := 0
	for i := range current.Lines {
		line := &current.Lines[i]
		if line.ID == lineID {
			target = line
		}
	}
	if target == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	if target.DistributionID != nil {
		for i := range current.Lines {
			if other := current.Lines[i].DistributionID; other != nil && *other == *target.DistributionID {
				distributionLines++
			}
		}
	}

	var record *models.CartRecord
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		distRepo := s.distRepo.WithTx(tx)

		if err := repo.DeleteLine(ctx, current.ID, lineID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
			}
			return err
		}
		if target.DistributionID != nil && distributionLines == 1 {
			if err := distRepo.Delete(ctx, *target.DistributionID); err != nil {
				return err
			}
		}
		return s.restampTotals(ctx, repo, current.ID, sessionID, &record)
	})
	if txErr != nil {
		return nil, commitFailure(txErr)
	}
	return record, nil
}

// GetActiveCart returns the session's active cart with its lines.
func (s *service) GetActiveCart(ctx context.Context, sessionID uuid.UUID) (*models.CartRecord, error) {
	record, err := s.repo.FindActiveBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return record, nil
}

// ConvertCart marks the active cart and its distributions converted for
// checkout. A persistence failure leaves everything active so the buyer can
// retry.
func (s *service) ConvertCart(ctx context.Context, sessionID uuid.UUID) (*models.CartRecord, error) {
	current, err := s.GetActiveCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(current.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		distRepo := s.distRepo.WithTx(tx)

		if err := repo.UpdateStatus(ctx, current.ID, sessionID, enums.CartStatusConverted); err != nil {
			return err
		}
		return distRepo.UpdateStatusBySession(ctx, sessionID, enums.DistributionStatusActive, enums.DistributionStatusConverted)
	})
	if txErr != nil {
		return nil, commitFailure(txErr)
	}

	current.Status = enums.CartStatusConverted
	return current, nil
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.GetProductDetail(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return product, nil
}

func (s *service) findOrCreateActive(ctx context.Context, repo CartRepository, sessionID uuid.UUID) (*models.CartRecord, error) {
	current, err := repo.FindActiveBySession(ctx, sessionID)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return repo.Create(ctx, &models.CartRecord{
		BuyerSessionID: sessionID,
		Status:         enums.CartStatusActive,
	})
}

func (s *service) restampTotals(ctx context.Context, repo CartRepository, cartID, sessionID uuid.UUID, out **models.CartRecord) error {
	refreshed, err := repo.FindActiveBySession(ctx, sessionID)
	if err != nil {
		return err
	}
	subtotal := 0
	for _, line := range refreshed.Lines {
		subtotal += line.LineSubtotalCents
	}
	if err := repo.UpdateTotals(ctx, cartID, subtotal, subtotal); err != nil {
		return err
	}
	refreshed.SubtotalCents = subtotal
	refreshed.TotalCents = subtotal
	*out = refreshed
	return nil
}

// buildAllocation runs the requested items through a ledger so axis rules,
// duplicates and overflow are enforced the same way interactive sessions
// enforce them.
func buildAllocation(product *models.Product, input AddToCartInput) ([]distribution.Item, error) {
	if len(input.Items) == 0 {
		return nil, nil
	}

	opts := []distribution.Option{}
	if product.HasColorAxis() {
		opts = append(opts, distribution.RequireColor())
	}
	if product.HasSizeAxis() {
		opts = append(opts, distribution.RequireSize())
	}

	ledger, err := distribution.NewLedger(input.Quantity, opts...)
	if err != nil {
		return nil, err
	}
	for _, item := range input.Items {
		if _, err := ledger.Add(item.Color, item.Size, item.Quantity); err != nil {
			return nil, err
		}
	}
	return ledger.Items(), nil
}

func toModelItems(items []distribution.Item) []models.DistributionItem {
	out := make([]models.DistributionItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.DistributionItem{
			ID:       item.ID,
			Color:    item.Color,
			Size:     item.Size,
			Quantity: item.Quantity,
		})
	}
	return out
}

func toModelLines(lines []LineInput) []models.CartLine {
	out := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, models.CartLine{
			ProductID:         line.ProductID,
			DistributionID:    line.DistributionID,
			Title:             line.Title,
			Slug:              line.Slug,
			Color:             line.Color,
			Size:              line.Size,
			Quantity:          line.Quantity,
			UnitPriceCents:    line.UnitPriceCents,
			LineSubtotalCents: line.LineSubtotalCents,
			AppliedTier:       line.AppliedTier,
		})
	}
	return out
}

// commitFailure keeps typed errors intact and wraps raw persistence failures
// as dependency errors.
func commitFailure(err error) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart commit failed")
}
