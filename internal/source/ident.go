package source

import (
	"sync"
)

// StringID is an interned string's dense index. The zero value, NoStringID,
// always maps to "".
type StringID uint32

// NoStringID is the sentinel for "no string interned".
const NoStringID StringID = 0

// Interner is a ref-counted string table: repeated Intern calls for the
// same text return the same StringID, and the underlying bytes are shared
// rather than copied into every caller. Safe for concurrent use because
// parsing and lowering may run per-file or per-function in parallel.
type Interner struct {
	mu    sync.RWMutex
	byID  []string
	index map[string]StringID
}

// NewInterner returns an interner seeded with the empty string at
// NoStringID.
func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the StringID for s, assigning a fresh one on first sight.
func (in *Interner) Intern(s string) StringID {
	in.mu.RLock()
	if id, ok := in.index[s]; ok {
		in.mu.RUnlock()
		return id
	}
	in.mu.RUnlock()

	cpy := string([]byte(s))

	in.mu.Lock()
	defer in.mu.Unlock()
	if id, ok := in.index[cpy]; ok {
		return id
	}
	id := StringID(len(in.byID))
	in.byID = append(in.byID, cpy)
	in.index[cpy] = id
	return id
}

// Lookup returns the text for id.
func (in *Interner) Lookup(id StringID) (string, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if int(id) >= len(in.byID) {
		return "", false
	}
	return in.byID[id], true
}

// Blank is the reserved identifier name "_".
const Blank = "_"

// Ident is a ref-counted interned identifier with an attached span.
// Equality and hashing (via the Name method used as a map key) consider
// only the interned string, never the span.
type Ident struct {
	id   StringID
	text string // cached for cheap access without threading the interner around
	Span Span
}

// NewIdent interns name in in and attaches span.
func NewIdent(in *Interner, name string, span Span) Ident {
	return Ident{id: in.Intern(name), text: name, Span: span}
}

// Name returns the identifier's text.
func (i Ident) Name() string { return i.text }

// IsBlank reports whether this identifier is the reserved "_".
func (i Ident) IsBlank() bool { return i.text == Blank }

// Equal reports string equality, ignoring spans, matching the spec's
// "equality and hashing use the string only" rule. Two idents interned from
// the same Interner additionally share the same StringID.
func (i Ident) Equal(other Ident) bool { return i.text == other.text }

func (i Ident) String() string { return i.text }
