// Package diagnostics provides the error taxonomy and diagnostic-reporting
// capability shared by validation and code generation. It is the Go
// rendering of rusty's validation.rs DiagnosticAcceptor trait and
// Diagnostic/Severity types, generalised so the codegen core can report
// through the same interface.
package diagnostics

import (
	"fmt"
	"sync"

	"stlcg/src/ast"
)

// Severity classifies a Diagnostic. An error marks the enclosing POU's
// generation as failed (cmd/stlcg then writes no output), although the
// generator itself carries on past it; warnings do neither.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single reported message tied to a source location.
type Diagnostic struct {
	Message  string
	Range    ast.SourceRange
	Severity Severity
}

// Kind enumerates the error taxonomy surfaced by the core (spec.md §7).
type Kind int

const (
	// TypeMismatch: cannot cast the source type to the target type.
	TypeMismatch Kind = iota
	// UnresolvedReference: a name was not found in the Index.
	UnresolvedReference
	// InvalidLiteral: a numeric literal failed to parse or overflowed its type.
	InvalidLiteral
	// UnsupportedConstruct: a Statement variant the generator does not implement.
	UnsupportedConstruct
	// InternalError: an invariant was violated; indicates a bug in the generator.
	InternalError
)

func (k Kind) String() string {
	switch k {
	case TypeMismatch:
		return "TypeMismatch"
	case UnresolvedReference:
		return "UnresolvedReference"
	case InvalidLiteral:
		return "InvalidLiteral"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	case InternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// CompileError describes one failure of a given Kind and always carries
// the SourceRange of the offending AST node. Generator operations do not
// return it: they render it with Error() and report that text through an
// Acceptor.
type CompileError struct {
	Kind    Kind
	Message string
	Range   ast.SourceRange
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError constructs a CompileError with a formatted message.
func NewError(kind Kind, r ast.SourceRange, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Range: r}
}

// Acceptor is the capability interface code that reports diagnostics
// depends on, mirroring rusty's DiagnosticAcceptor trait exactly: three
// operations, no more.
type Acceptor interface {
	UnresolvedReference(reference string, location ast.SourceRange)
	Error(msg string, location ast.SourceRange)
	Warning(msg string, location ast.SourceRange)
}

// Collector is a concurrency-safe Acceptor that buffers reported
// diagnostics, grounded on vslc/src/util/perror.go's channel-backed error
// collector but simplified to a mutex-guarded slice since diagnostics here
// are appended directly by the generator rather than funnelled through a
// background listener goroutine.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{diagnostics: make([]Diagnostic, 0, 8)}
}

func (c *Collector) UnresolvedReference(reference string, location ast.SourceRange) {
	c.push(Diagnostic{
		Message:  fmt.Sprintf("could not resolve reference to %q", reference),
		Range:    location,
		Severity: SeverityError,
	})
}

func (c *Collector) Error(msg string, location ast.SourceRange) {
	c.push(Diagnostic{Message: msg, Range: location, Severity: SeverityError})
}

func (c *Collector) Warning(msg string, location ast.SourceRange) {
	c.push(Diagnostic{Message: msg, Range: location, Severity: SeverityWarning})
}

func (c *Collector) push(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns a copy of every diagnostic reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// HasErrors reports whether any diagnostic at SeverityError has been
// collected.
func (c *Collector) HasErrors() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range c.diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
