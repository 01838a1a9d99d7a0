package product

import (
	"strings"
	"sync"
	"unicode"

	"github.com/vitrineturbo/vitrineturbo-backend/pkg/enums"
)

// SizeKindCache memoizes size-axis classification per size set. It is owned
// by whoever loads catalog metadata and passed by reference; there is no
// package-level instance.
type SizeKindCache struct {
	mu    sync.RWMutex
	kinds map[string]enums.SizeKind
}

// NewSizeKindCache builds an empty cache.
func NewSizeKindCache() *SizeKindCache {
	return &SizeKindCache{kinds: map[string]enums.SizeKind{}}
}

// Classify reports whether a size set is letter sizing (P/M/G/GG), numeric
// sizing (36/38/40) or a mix of both.
func (c *SizeKindCache) Classify(sizes []string) enums.SizeKind {
	if len(sizes) == 0 {
		return enums.SizeKindNone
	}

	key := strings.Join(sizes, "|")
	c.mu.RLock()
	kind, ok := c.kinds[key]
	c.mu.RUnlock()
	if ok {
		return kind
	}

	kind = classifySizes(sizes)
	c.mu.Lock()
	c.kinds[key] = kind
	c.mu.Unlock()
	return kind
}

func classifySizes(sizes []string) enums.SizeKind {
	hasLetter := false
	hasNumeric := false
	for _, size := range sizes {
		if isNumericSize(size) {
			hasNumeric = true
		} else {
			hasLetter = true
		}
	}
	switch {
	case hasLetter && hasNumeric:
		return enums.SizeKindMixed
	case hasNumeric:
		return enums.SizeKindNumeric
	default:
		return enums.SizeKindLetter
	}
}

func isNumericSize(size string) bool {
	trimmed := strings.TrimSpace(size)
	if trimmed == "" {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
