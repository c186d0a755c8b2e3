package diagnostics

import (
	"fmt"
	"strings"
)

// Kind enumerates the error kinds the driver can raise. Each carries a
// SourceSpan and a snapshot of the Trace at the time of failure.
type Kind int

const (
	// EntryNotFound: entry file unreadable after include-path fallback.
	EntryNotFound Kind = iota
	// AmbiguousImport: Path Resolver returned multiple candidates.
	AmbiguousImport
	// ImportLoop: Import Stack detected a repeat abs_path.
	ImportLoop
	// ImportNotFound: resolved to nothing and no loader provided content.
	ImportNotFound
	// InvalidSyntax: parser error.
	InvalidSyntax
	// UnsatisfiedExtend: non-optional @extend matched nothing.
	UnsatisfiedExtend
	// InvalidValue: emission encountered a value that is not valid CSS.
	InvalidValue
	// LoaderError: propagated verbatim from a user loader.
	LoaderError
)

func (k Kind) String() string {
	switch k {
	case EntryNotFound:
		return "EntryNotFound"
	case AmbiguousImport:
		return "AmbiguousImport"
	case ImportLoop:
		return "ImportLoop"
	case ImportNotFound:
		return "ImportNotFound"
	case InvalidSyntax:
		return "InvalidSyntax"
	case UnsatisfiedExtend:
		return "UnsatisfiedExtend"
	case InvalidValue:
		return "InvalidValue"
	case LoaderError:
		return "LoaderError"
	default:
		return "Unknown"
	}
}

// Error is the single error type the driver returns. Wrap with
// errors.As(err, &diagnostics.Error{}) to recover Kind and Trace.
type Error struct {
	Kind  Kind
	Span  SourceSpan
	Trace []Frame
	Msg   string
	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Span.Path != "" {
		fmt.Fprintf(&b, " (%s)", e.Span.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds an Error of the given kind with a message and the current
// span/trace snapshot.
func New(kind Kind, span SourceSpan, trace *Trace, format string, args ...any) *Error {
	var snapshot []Frame
	if trace != nil {
		snapshot = trace.Snapshot()
	}
	return &Error{
		Kind:  kind,
		Span:  span,
		Trace: snapshot,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// Wrap attaches a LoaderError around an error returned verbatim by a
// user-registered loader, preserving it via Unwrap.
func Wrap(span SourceSpan, trace *Trace, cause error) *Error {
	e := New(LoaderError, span, trace, "%s", cause.Error())
	e.cause = cause
	return e
}

// ImportLoopMessage formats the "a.scss imports b.scss" chain for an
// ImportLoop error, one "imports" arrow per edge, each path already
// relativised by the caller.
func ImportLoopMessage(chain []string) string {
	var b strings.Builder
	b.WriteString("An @import loop has been found:")
	for i := 0; i+1 < len(chain); i++ {
		fmt.Fprintf(&b, "\n    %s imports %s", chain[i], chain[i+1])
	}
	return b.String()
}

// AmbiguousImportMessage formats the candidate list for an
// AmbiguousImport error.
func AmbiguousImportMessage(specifier string, candidates []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "It's not clear which file to import for '@import \"%s\"'.\n", specifier)
	b.WriteString("Candidates:\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	b.WriteString("Please delete or rename all but one of these files.")
	return b.String()
}
