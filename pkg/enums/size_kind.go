package enums

// SizeKind classifies a product's size axis so the storefront can order and
// render size options consistently.
type SizeKind string

const (
	SizeKindLetter  SizeKind = "letter"
	SizeKindNumeric SizeKind = "numeric"
	SizeKindMixed   SizeKind = "mixed"
	SizeKindNone    SizeKind = "none"
)

// String implements fmt.Stringer.
func (s SizeKind) String() string {
	return string(s)
}
