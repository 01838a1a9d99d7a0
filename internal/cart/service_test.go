package cart

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/db/models"
	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
)

type stubTxRunner struct {
	err error
}

func (s stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type stubProductLoader struct {
	product *models.Product
	err     error
}

func (s stubProductLoader) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.product, nil
}

type memCartRepo struct {
	record  *models.CartRecord
	findErr error
}

func (m *memCartRepo) WithTx(tx *gorm.DB) CartRepository { return m }

func (m *memCartRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	m.record = record
	return record, nil
}

func (m *memCartRepo) FindActiveBySession(ctx context.Context, sessionID uuid.UUID) (*models.CartRecord, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.record == nil || m.record.Status != enums.CartStatusActive {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *m.record
	clone.Lines = append([]models.CartLine{}, m.record.Lines...)
	return &clone, nil
}

func (m *memCartRepo) AppendLines(ctx context.Context, cartID uuid.UUID, lines []models.CartLine) error {
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].CartID = cartID
	}
	m.record.Lines = append(m.record.Lines, lines...)
	return nil
}

func (m *memCartRepo) ReplaceDistributionLines(ctx context.Context, cartID, distributionID uuid.UUID, lines []models.CartLine) error {
	kept := []models.CartLine{}
	for _, line := range m.record.Lines {
		if line.DistributionID == nil || *line.DistributionID != distributionID {
			kept = append(kept, line)
		}
	}
	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].CartID = cartID
	}
	m.record.Lines = append(kept, lines...)
	return nil
}

func (m *memCartRepo) DeleteLine(ctx context.Context, cartID, lineID uuid.UUID) error {
	for i, line := range m.record.Lines {
		if line.ID == lineID {
			m.record.Lines = append(m.record.Lines[:i], m.record.Lines[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memCartRepo) UpdateTotals(ctx context.Context, cartID uuid.UUID, subtotalCents, totalCents int) error {
	m.record.SubtotalCents = subtotalCents
	m.record.TotalCents = totalCents
	return nil
}

func (m *memCartRepo) UpdateStatus(ctx context.Context, id, sessionID uuid.UUID, status enums.CartStatus) error {
	m.record.Status = status
	return nil
}

type memDistRepo struct {
	dists map[uuid.UUID]*models.VariantDistribution
}

func newMemDistRepo() *memDistRepo {
	return &memDistRepo{dists: map[uuid.UUID]*models.VariantDistribution{}}
}

func (m *memDistRepo) WithTx(tx *gorm.DB) DistributionRepository { return m }

func (m *memDistRepo) Create(ctx context.Context, dist *models.VariantDistribution) (*models.VariantDistribution, error) {
	m.dists[dist.ID] = dist
	return dist, nil
}

func (m *memDistRepo) Update(ctx context.Context, dist *models.VariantDistribution) (*models.VariantDistribution, error) {
	m.dists[dist.ID] = dist
	return dist, nil
}

func (m *memDistRepo) FindByIDAndSession(ctx context.Context, id, sessionID uuid.UUID) (*models.VariantDistribution, error) {
	dist, ok := m.dists[id]
	if !ok || dist.BuyerSessionID != sessionID {
		return nil, gorm.ErrRecordNotFound
	}
	return dist, nil
}

func (m *memDistRepo) ReplaceItems(ctx context.Context, distributionID uuid.UUID, items []models.DistributionItem) error {
	if dist, ok := m.dists[distributionID]; ok {
		dist.Items = items
	}
	return nil
}

func (m *memDistRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.dists, id)
	return nil
}

func (m *memDistRepo) UpdateStatusBySession(ctx context.Context, sessionID uuid.UUID, from, to enums.DistributionStatus) error {
	for _, dist := range m.dists {
		if dist.BuyerSessionID == sessionID && dist.Status == from {
			dist.Status = to
		}
	}
	return nil
}

type testStack struct {
	svc      Service
	repo     *memCartRepo
	distRepo *memDistRepo
}

func newTestStack(t *testing.T, product *models.Product, tx stubTxRunner) testStack {
	t.Helper()
	repo := &memCartRepo{}
	distRepo := newMemDistRepo()
	svc, err := NewService(repo, distRepo, tx, stubProductLoader{product: product}, testAggregator(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return testStack{svc: svc, repo: repo, distRepo: distRepo}
}

func allocationInput(productID uuid.UUID) AddToCartInput {
	return AddToCartInput{
		ProductID: productID,
		Quantity:  10,
		Items: []DistributionItemInput{
			{Color: strPtr("Preto"), Size: strPtr("M"), Quantity: 6},
			{Color: strPtr("Branco"), Size: strPtr("M"), Quantity: 4},
		},
	}
}

func variantProduct() *models.Product {
	product := tieredProduct()
	product.Colors = []string{"Preto", "Branco"}
	product.Sizes = []string{"P", "M", "G"}
	return product
}

func TestAddToCartWithCompleteAllocation(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})
	sessionID := uuid.New()

	record, err := stack.svc.AddToCart(context.Background(), sessionID, allocationInput(product.ID))
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	if len(record.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(record.Lines))
	}
	// aggregate quantity 10 hits the 4500 tier
	if record.SubtotalCents != 45000 || record.TotalCents != 45000 {
		t.Fatalf("unexpected totals: %d/%d", record.SubtotalCents, record.TotalCents)
	}
	if len(stack.distRepo.dists) != 1 {
		t.Fatalf("expected 1 distribution, got %d", len(stack.distRepo.dists))
	}
	for _, dist := range stack.distRepo.dists {
		if dist.TotalQuantity != 10 || dist.AppliedUnitPriceCents != 4500 {
			t.Fatalf("unexpected distribution: %+v", dist)
		}
		if len(dist.Items) != 2 {
			t.Fatalf("expected 2 distribution items, got %d", len(dist.Items))
		}
	}
}

func TestAddToCartRejectsIncompleteAllocation(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})

	input := allocationInput(product.ID)
	input.Items = input.Items[:1] // 6 of 10

	_, err := stack.svc.AddToCart(context.Background(), uuid.New(), input)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddPartialDistributionAllowsIncomplete(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})

	input := allocationInput(product.ID)
	input.Items = input.Items[:1]

	record, err := stack.svc.AddPartialDistribution(context.Background(), uuid.New(), input)
	if err != nil {
		t.Fatalf("AddPartialDistribution: %v", err)
	}
	if len(record.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(record.Lines))
	}
	// pricing still uses the aggregate target quantity
	if record.Lines[0].UnitPriceCents != 4500 {
		t.Fatalf("expected target-quantity price 4500, got %d", record.Lines[0].UnitPriceCents)
	}
}

func TestAddToCartRejectsOverflowAllocation(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})

	input := allocationInput(product.ID)
	input.Items[1].Quantity = 5 // 6 + 5 > 10

	_, err := stack.svc.AddToCart(context.Background(), uuid.New(), input)
	if err == nil {
		t.Fatal("expected overflow rejection")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddToCartRequiresAxesFromProduct(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})

	input := allocationInput(product.ID)
	input.Items[0].Size = nil

	_, err := stack.svc.AddToCart(context.Background(), uuid.New(), input)
	if err == nil {
		t.Fatal("expected size requirement error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddToCartProductNotFound(t *testing.T) {
	t.Parallel()

	repo := &memCartRepo{}
	svc, err := NewService(repo, newMemDistRepo(), stubTxRunner{}, stubProductLoader{err: gorm.ErrRecordNotFound}, testAggregator(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.AddToCart(context.Background(), uuid.New(), AddToCartInput{ProductID: uuid.New(), Quantity: 1})
	if err == nil {
		t.Fatal("expected not found")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAddToCartInactiveProduct(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	product.IsActive = false
	stack := newTestStack(t, product, stubTxRunner{})

	_, err := stack.svc.AddToCart(context.Background(), uuid.New(), AddToCartInput{ProductID: product.ID, Quantity: 1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateDistributionReresolvesPricing(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})
	sessionID := uuid.New()

	if _, err := stack.svc.AddToCart(context.Background(), sessionID, allocationInput(product.ID)); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	var distID uuid.UUID
	for id := range stack.distRepo.dists {
		distID = id
	}

	record, err := stack.svc.UpdateDistribution(context.Background(), sessionID, distID, UpdateDistributionInput{
		TotalQuantity: 5,
		Items: []DistributionItemInput{
			{Color: strPtr("Preto"), Size: strPtr("M"), Quantity: 3},
			{Color: strPtr("Branco"), Size: strPtr("G"), Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("UpdateDistribution: %v", err)
	}

	// quantity 5 drops back to the 5000 tier
	dist := stack.distRepo.dists[distID]
	if dist.TotalQuantity != 5 || dist.AppliedUnitPriceCents != 5000 {
		t.Fatalf("distribution not re-resolved: %+v", dist)
	}
	if len(record.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(record.Lines))
	}
	if record.SubtotalCents != 25000 {
		t.Fatalf("expected subtotal 25000, got %d", record.SubtotalCents)
	}
	for _, line := range record.Lines {
		if line.DistributionID == nil || *line.DistributionID != distID {
			t.Fatalf("line lost its grouping: %+v", line)
		}
	}
}

func TestUpdateDistributionNotFound(t *testing.T) {
	t.Parallel()

	stack := newTestStack(t, variantProduct(), stubTxRunner{})

	_, err := stack.svc.UpdateDistribution(context.Background(), uuid.New(), uuid.New(), UpdateDistributionInput{
		TotalQuantity: 5,
		Items:         []DistributionItemInput{{Color: strPtr("Preto"), Size: strPtr("M"), Quantity: 5}},
	})
	if err == nil {
		t.Fatal("expected not found")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdateDistributionConvertedConflict(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})
	sessionID := uuid.New()
	distID := uuid.New()
	stack.distRepo.dists[distID] = &models.VariantDistribution{
		ID:             distID,
		BuyerSessionID: sessionID,
		ProductID:      product.ID,
		Status:         enums.DistributionStatusConverted,
	}

	_, err := stack.svc.UpdateDistribution(context.Background(), sessionID, distID, UpdateDistributionInput{
		TotalQuantity: 5,
		Items:         []DistributionItemInput{{Color: strPtr("Preto"), Size: strPtr("M"), Quantity: 5}},
	})
	if err == nil {
		t.Fatal("expected state conflict")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoveLineDropsEmptyDistribution(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})
	sessionID := uuid.New()

	if _, err := stack.svc.AddToCart(context.Background(), sessionID, allocationInput(product.ID)); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	lines := stack.repo.record.Lines
	record, err := stack.svc.RemoveLine(context.Background(), sessionID, lines[0].ID)
	if err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if len(record.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(record.Lines))
	}
	if len(stack.distRepo.dists) != 1 {
		t.Fatal("distribution with remaining lines must survive")
	}

	record, err = stack.svc.RemoveLine(context.Background(), sessionID, record.Lines[0].ID)
	if err != nil {
		t.Fatalf("RemoveLine: %v", err)
	}
	if len(record.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(record.Lines))
	}
	if len(stack.distRepo.dists) != 0 {
		t.Fatal("expected distribution removed with its last line")
	}
	if record.SubtotalCents != 0 {
		t.Fatalf("expected zero subtotal, got %d", record.SubtotalCents)
	}
}

func TestRemoveLineNotFound(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})
	sessionID := uuid.New()

	if _, err := stack.svc.AddToCart(context.Background(), sessionID, AddToCartInput{ProductID: product.ID, Quantity: 2}); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	_, err := stack.svc.RemoveLine(context.Background(), sessionID, uuid.New())
	if err == nil {
		t.Fatal("expected not found")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetActiveCartNotFound(t *testing.T) {
	t.Parallel()

	repo := &memCartRepo{findErr: gorm.ErrRecordNotFound}
	svc, err := NewService(repo, newMemDistRepo(), stubTxRunner{}, stubProductLoader{}, testAggregator(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.GetActiveCart(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not found")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConvertCartTransitionsEverything(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})
	sessionID := uuid.New()

	if _, err := stack.svc.AddToCart(context.Background(), sessionID, allocationInput(product.ID)); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	record, err := stack.svc.ConvertCart(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("ConvertCart: %v", err)
	}
	if record.Status != enums.CartStatusConverted {
		t.Fatalf("expected converted cart, got %s", record.Status)
	}
	for _, dist := range stack.distRepo.dists {
		if dist.Status != enums.DistributionStatusConverted {
			t.Fatalf("expected converted distribution, got %s", dist.Status)
		}
	}
}

func TestConvertCartEmptyCart(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	stack := newTestStack(t, product, stubTxRunner{})
	sessionID := uuid.New()
	stack.repo.record = &models.CartRecord{ID: uuid.New(), BuyerSessionID: sessionID, Status: enums.CartStatusActive}

	_, err := stack.svc.ConvertCart(context.Background(), sessionID)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConvertCartPersistenceFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	product := variantProduct()
	repo := &memCartRepo{}
	distRepo := newMemDistRepo()

	setupSvc, err := NewService(repo, distRepo, stubTxRunner{}, stubProductLoader{product: product}, testAggregator(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	sessionID := uuid.New()
	if _, err := setupSvc.AddToCart(context.Background(), sessionID, allocationInput(product.ID)); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}

	failing, err := NewService(repo, distRepo, stubTxRunner{err: errors.New("connection reset")}, stubProductLoader{product: product}, testAggregator(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = failing.ConvertCart(context.Background(), sessionID)
	if err == nil {
		t.Fatal("expected dependency error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.record.Status != enums.CartStatusActive {
		t.Fatalf("failed commit must leave cart active, got %s", repo.record.Status)
	}
}
