package validation

import (
	"fmt"
	"strings"
)

// Kind classifies an ingest or grading problem.
type Kind string

const (
	KindMalformedDocument   Kind = "malformed_document"
	KindUnknownKind         Kind = "unknown_kind"
	KindAmbiguousKind       Kind = "ambiguous_kind"
	KindSchemaViolation     Kind = "schema_violation"
	KindStructuralViolation Kind = "structural_violation"
	KindPersistenceFailure  Kind = "persistence_failure"
	KindMissingAnswerKey    Kind = "missing_answer_key"
	KindGraderSchemaDrift   Kind = "grader_schema_drift"
)

// Fatal reports whether a problem of this kind aborts an ingest.
func (k Kind) Fatal() bool {
	switch k {
	case KindMissingAnswerKey, KindGraderSchemaDrift:
		return false
	default:
		return true
	}
}

// Error is a single problem located by a dotted path into the source document,
// e.g. "sections[1].questions[4].options".
type Error struct {
	Kind    Kind   `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Path, e.Message)
}

// New builds an Error with a formatted message.
func New(kind Kind, path, format string, args ...any) Error {
	return Error{Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Errors is an ordered list of problems. It is returned instead of a
// first-error short-circuit so authors see everything at once.
type Errors []Error

func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no errors"
	case 1:
		return es[0].Error()
	}
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("%d problems: %s", len(es), strings.Join(parts, "; "))
}

// Fatal returns the problems that abort an ingest.
func (es Errors) Fatal() Errors {
	var out Errors
	for _, e := range es {
		if e.Kind.Fatal() {
			out = append(out, e)
		}
	}
	return out
}

// Warnings returns the non-fatal problems.
func (es Errors) Warnings() Errors {
	var out Errors
	for _, e := range es {
		if !e.Kind.Fatal() {
			out = append(out, e)
		}
	}
	return out
}

// HasFatal is shorthand for len(es.Fatal()) > 0.
func (es Errors) HasFatal() bool {
	for _, e := range es {
		if e.Kind.Fatal() {
			return true
		}
	}
	return false
}

// Has reports whether any problem is of kind k.
func (es Errors) Has(k Kind) bool {
	for _, e := range es {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Prefix returns a copy with every path rooted under prefix.
func (es Errors) Prefix(prefix string) Errors {
	if prefix == "" {
		return es
	}
	out := make(Errors, len(es))
	for i, e := range es {
		out[i] = e
		out[i].Path = Join(prefix, e.Path)
	}
	return out
}

// Join concatenates path segments, treating "[n]" segments as indexes.
func Join(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	case strings.HasPrefix(path, "["):
		return prefix + path
	default:
		return prefix + "." + path
	}
}

// Index formats an element path such as "options[2]".
func Index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
