package codec

import (
	"sync"

	"go.trai.ch/cachebridge/internal/core/domain"
)

// Interner devirtualizes each distinct string read from artifacts once and hands out one
// shared copy for every later occurrence. It is safe for concurrent use.
type Interner struct {
	mu      sync.RWMutex
	toReal  func(string) string
	strings map[string]domain.InternedString
}

// NewInterner creates an Interner that maps virtual strings through toReal.
func NewInterner(toReal func(string) string) *Interner {
	return &Interner{
		toReal:  toReal,
		strings: make(map[string]domain.InternedString),
	}
}

// Intern returns the real form of the virtual string held in b.
func (in *Interner) Intern(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	in.mu.RLock()
	is, ok := in.strings[string(b)]
	in.mu.RUnlock()
	if ok {
		return is.String()
	}

	virtual := string(b)
	is = domain.NewInternedString(in.toReal(virtual))

	in.mu.Lock()
	if existing, ok := in.strings[virtual]; ok {
		is = existing
	} else {
		in.strings[virtual] = is
	}
	in.mu.Unlock()

	return is.String()
}

// Len returns the number of distinct strings seen.
func (in *Interner) Len() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.strings)
}
