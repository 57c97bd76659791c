// Package diag implements the closed error/diagnostic taxonomy of the
// front-end core (spec §7) and a bounded collector (Bag) that phases and
// per-function passes append to. Rendering diagnostics for a human is a
// collaborator's job (spec §6); this package only models and collects them.
package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"corefront/internal/source"
)

// Severity ranks a diagnostic's importance.
type Severity uint8

const (
	SevNote Severity = iota
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	default:
		return "severity?"
	}
}

// Code names a specific diagnostic within the closed taxonomy of spec §7.
type Code uint16

const (
	UnknownCode Code = iota

	// Phase aggregators: at least one diagnostic fired during that phase.
	ModuleRegistration
	ClassRegistration
	ClassCompletion
	FunctionRegistration
	FunctionCompletion

	// Resolution failures.
	TypeNotFound
	InvalidPath

	// Arity / signature validity.
	ArgCountMismatch
	InvalidInferred

	// Inference.
	AmbiguousType
	Mismatch
	OccursCheck
	InvalidFieldAccess
	OverflowInSolver

	// Registration-time structural errors.
	DuplicateClassName
)

func (c Code) String() string {
	switch c {
	case UnknownCode:
		return "unknown"
	case ModuleRegistration:
		return "module-registration"
	case ClassRegistration:
		return "class-registration"
	case ClassCompletion:
		return "class-completion"
	case FunctionRegistration:
		return "function-registration"
	case FunctionCompletion:
		return "function-completion"
	case TypeNotFound:
		return "type-not-found"
	case InvalidPath:
		return "invalid-path"
	case ArgCountMismatch:
		return "arg-count-mismatch"
	case InvalidInferred:
		return "invalid-inferred"
	case AmbiguousType:
		return "ambiguous-type"
	case Mismatch:
		return "mismatch"
	case OccursCheck:
		return "occurs-check"
	case InvalidFieldAccess:
		return "invalid-field-access"
	case OverflowInSolver:
		return "overflow-in-solver"
	case DuplicateClassName:
		return "duplicate-class-name"
	default:
		return fmt.Sprintf("code(%d)", uint16(c))
	}
}

// Hint attaches an optional message to an optional secondary span.
type Hint struct {
	Message string
	Span    source.Span
}

// Diagnostic is a single reportable event.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Title    string
	Primary  source.Span
	Hints    []Hint
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s[%s]: %s (%s)", d.Severity, d.Code, d.Title, d.Primary)
}

// Error implements the error interface so a *Diagnostic can be returned and
// propagated through ordinary Go error-handling paths (spec §7 "the
// inference and lowering phases surface failures as diagnostics, not
// panics").
func (d *Diagnostic) Error() string { return d.String() }

// Error constructs an error-severity diagnostic.
func Error(code Code, title string, span source.Span, hints ...Hint) *Diagnostic {
	return &Diagnostic{Severity: SevError, Code: code, Title: title, Primary: span, Hints: hints}
}

// Warning constructs a warning-severity diagnostic.
func Warning(code Code, title string, span source.Span, hints ...Hint) *Diagnostic {
	return &Diagnostic{Severity: SevWarning, Code: code, Title: title, Primary: span, Hints: hints}
}

// Emitter receives diagnostics from the core. The core emits; the caller
// aggregates and renders (spec §6). Emit reports whether the diagnostic was
// actually recorded, false when a capacity-bounded implementation like Bag
// is already full.
type Emitter interface {
	Emit(d *Diagnostic) bool
}

// Bag is a capacity-bounded Emitter that collects diagnostics for later
// sorting and inspection.
type Bag struct {
	items []*Diagnostic
	max   uint16
}

// NewBag creates a Bag accepting at most max diagnostics.
func NewBag(max int) *Bag {
	capped, err := safecast.Conv[uint16](max)
	if err != nil {
		panic(fmt.Errorf("diag: bag capacity overflow: %w", err))
	}
	return &Bag{items: make([]*Diagnostic, 0, capped), max: capped}
}

// Emit implements Emitter. Returns false if the bag is at capacity.
func (b *Bag) Emit(d *Diagnostic) bool {
	if d == nil || len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// HasErrors reports whether any collected diagnostic is error severity.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int { return len(b.items) }

// Items returns a read-only view; callers must not mutate the slice.
func (b *Bag) Items() []*Diagnostic { return b.items }

// Merge appends other's diagnostics, growing capacity if needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	total := len(b.items) + len(other.items)
	capped, err := safecast.Conv[uint16](total)
	if err != nil {
		panic(fmt.Errorf("diag: bag merge overflow: %w", err))
	}
	if capped > b.max {
		b.max = capped
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics deterministically by (file, start, end, severity
// desc, code asc), matching the ordering guarantee of spec §5.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		a, c := b.items[i], b.items[j]
		if a.Primary.File != c.Primary.File {
			return a.Primary.File < c.Primary.File
		}
		if a.Primary.Lo != c.Primary.Lo {
			return a.Primary.Lo < c.Primary.Lo
		}
		if a.Primary.Hi != c.Primary.Hi {
			return a.Primary.Hi < c.Primary.Hi
		}
		if a.Severity != c.Severity {
			return a.Severity > c.Severity
		}
		return a.Code < c.Code
	})
}
