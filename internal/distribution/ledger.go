package distribution

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
	pkgerrors "github.com/vitrineturbo/vitrineturbo-backend/pkg/errors"
)

// Item is one variant allocation inside an in-progress distribution session.
type Item struct {
	ID       uuid.UUID `json:"id"`
	Color    *string   `json:"color,omitempty"`
	Size     *string   `json:"size,omitempty"`
	Quantity int       `json:"quantity"`
}

// State describes how far a ledger is from its target total.
type State string

const (
	StateEmpty    State = "empty"
	StatePartial  State = "partial"
	StateComplete State = "complete"
	StateOverflow State = "overflow"
)

// Ledger accumulates variant allocations against a target total during one
// buyer's allocation session. It is scoped to a single request flow and is
// not safe for concurrent use.
type Ledger struct {
	targetTotal  int
	requireColor bool
	requireSize  bool
	items        []Item
}

// Option configures axis requirements on a new ledger.
type Option func(*Ledger)

// RequireColor makes the color axis mandatory on every added item.
func RequireColor() Option {
	return func(l *Ledger) { l.requireColor = true }
}

// RequireSize makes the size axis mandatory on every added item.
func RequireSize() Option {
	return func(l *Ledger) { l.requireSize = true }
}

// NewLedger creates a ledger for the given target total quantity.
func NewLedger(targetTotal int, opts ...Option) (*Ledger, error) {
	if targetTotal <= 0 {
		return nil, validationIssue(enums.DistributionIssueTargetNotPositive,
			fmt.Sprintf("target quantity must be positive, got %d", targetTotal))
	}
	ledger := &Ledger{targetTotal: targetTotal}
	for _, opt := range opts {
		opt(ledger)
	}
	return ledger, nil
}

// TargetTotal returns the quantity the session is allocating.
func (l *Ledger) TargetTotal() int {
	return l.targetTotal
}

// Add appends one allocation. Overflow, duplicates and missing required axes
// are rejected before any mutation, so a failed call leaves the ledger
// untouched.
func (l *Ledger) Add(color, size *string, quantity int) (Item, error) {
	if quantity <= 0 {
		return Item{}, validationIssue(enums.DistributionIssueItemNotPositive,
			fmt.Sprintf("item quantity must be positive, got %d", quantity))
	}
	if l.requireColor && !axisSet(color) {
		return Item{}, validationIssue(enums.DistributionIssueColorRequired, "a color must be selected for this product")
	}
	if l.requireSize && !axisSet(size) {
		return Item{}, validationIssue(enums.DistributionIssueSizeRequired, "a size must be selected for this product")
	}

	key := variantKey(color, size)
	for _, item := range l.items {
		if variantKey(item.Color, item.Size) == key {
			return Item{}, validationIssue(enums.DistributionIssueDuplicateVariant,
				fmt.Sprintf("variant %s is already allocated", variantLabel(color, size)))
		}
	}

	if err := l.checkOverflow(quantity); err != nil {
		return Item{}, err
	}

	item := Item{ID: uuid.New(), Color: color, Size: size, Quantity: quantity}
	l.items = append(l.items, item)
	return item, nil
}

// UpdateQuantity replaces an item's quantity, removing the item when the new
// quantity is not positive. Increases past the target are rejected the same
// way Add rejects them.
func (l *Ledger) UpdateQuantity(id uuid.UUID, quantity int) error {
	idx := -1
	for i, item := range l.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "distribution item not found")
	}

	if quantity <= 0 {
		l.items = append(l.items[:idx], l.items[idx+1:]...)
		return nil
	}

	if err := l.checkOverflow(quantity - l.items[idx].Quantity); err != nil {
		return err
	}

	l.items[idx].Quantity = quantity
	return nil
}

// Remove drops an item unconditionally. Unknown ids are a no-op.
func (l *Ledger) Remove(id uuid.UUID) {
	for i, item := range l.items {
		if item.ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// DistributedSum is the sum of all allocated quantities.
func (l *Ledger) DistributedSum() int {
	sum := 0
	for _, item := range l.items {
		sum += item.Quantity
	}
	return sum
}

// Remaining is how much of the target is still unallocated.
func (l *Ledger) Remaining() int {
	return l.targetTotal - l.DistributedSum()
}

// IsComplete reports whether the allocation exactly covers the target.
func (l *Ledger) IsComplete() bool {
	return l.DistributedSum() == l.targetTotal
}

// IsOverflow reports whether the allocation exceeds the target. Both
// mutation paths guard against overflow, so this only trips on state loaded
// from elsewhere.
func (l *Ledger) IsOverflow() bool {
	return l.DistributedSum() > l.targetTotal
}

// State maps the current sum onto the session state machine.
func (l *Ledger) State() State {
	sum := l.DistributedSum()
	switch {
	case sum == 0:
		return StateEmpty
	case sum < l.targetTotal:
		return StatePartial
	case sum == l.targetTotal:
		return StateComplete
	default:
		return StateOverflow
	}
}

// Items returns a copy of the current allocations.
func (l *Ledger) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

func (l *Ledger) checkOverflow(delta int) error {
	sum := l.DistributedSum()
	if sum+delta > l.targetTotal {
		return validationIssue(enums.DistributionIssueOverflow,
			fmt.Sprintf("allocation would reach %d of a target of %d (%d remaining)", sum+delta, l.targetTotal, l.targetTotal-sum))
	}
	return nil
}

func validationIssue(code enums.DistributionIssueCode, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).
		WithDetails(map[string]any{"issueCode": code})
}

func axisSet(value *string) bool {
	return value != nil && *value != ""
}

func variantKey(color, size *string) string {
	c, s := "", ""
	if color != nil {
		c = *color
	}
	if size != nil {
		s = *size
	}
	return c + "\x00" + s
}

func variantLabel(color, size *string) string {
	switch {
	case axisSet(color) && axisSet(size):
		return fmt.Sprintf("%s/%s", *color, *size)
	case axisSet(color):
		return *color
	case axisSet(size):
		return *size
	default:
		return "default"
	}
}
