package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/ieltsprep/internal/validation"
)

// ErrUnknownKind is returned for kinds outside the catalogue.
var ErrUnknownKind = errors.New("unknown question kind")

// Registry is the immutable catalogue of question kinds plus the text matcher
// the blank comparators share. It is safe for concurrent use.
type Registry struct {
	specs   map[Kind]Spec
	kinds   []Kind
	matcher *Matcher
}

type options struct {
	articles []string
}

// Option configures a Registry.
type Option func(*options)

// WithArticles replaces the article list used by ignore_articles.
func WithArticles(articles ...string) Option {
	return func(o *options) {
		if len(articles) > 0 {
			o.articles = articles
		}
	}
}

func New(opts ...Option) *Registry {
	o := options{articles: DefaultArticles}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Registry{
		specs:   make(map[Kind]Spec, len(specs)),
		kinds:   make([]Kind, 0, len(specs)),
		matcher: newMatcher(o.articles),
	}
	for _, s := range specs {
		r.specs[s.Kind] = s
		r.kinds = append(r.kinds, s.Kind)
	}
	return r
}

var defaultRegistry = New()

// Default returns the process-wide registry with the default article list.
func Default() *Registry { return defaultRegistry }

func (r *Registry) Lookup(k Kind) (Spec, bool) {
	s, ok := r.specs[k]
	return s, ok
}

// Kinds lists every registered kind in catalogue order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}

func (r *Registry) RequiredFields(k Kind) ([]string, error) {
	s, ok := r.specs[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	var out []string
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f.Name)
		}
	}
	return out, nil
}

func (r *Registry) AnswerShape(k Kind) (AnswerShape, error) {
	s, ok := r.specs[k]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return s.Shape, nil
}

// NewPayload returns an empty payload of the given kind.
func (r *Registry) NewPayload(k Kind) (Payload, error) {
	s, ok := r.specs[k]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return s.newPayload(), nil
}

// Validate checks a payload against its kind's constraints. Paths are
// relative to the payload.
func (r *Registry) Validate(p Payload) validation.Errors {
	if p == nil {
		return validation.Errors{validation.New(validation.KindSchemaViolation, "", "payload is missing")}
	}
	if _, ok := r.specs[p.Kind()]; !ok {
		return validation.Errors{validation.New(validation.KindUnknownKind, "", "kind %q is not registered", p.Kind())}
	}
	c := &checker{}
	p.check(c, r.matcher)
	return c.errs
}

// Decode strictly unmarshals a stored canonical payload and validates it.
// Unknown fields and type mismatches are schema violations.
func (r *Registry) Decode(k Kind, raw json.RawMessage) (Payload, validation.Errors) {
	p, err := r.NewPayload(k)
	if err != nil {
		return nil, validation.Errors{validation.New(validation.KindUnknownKind, "", "kind %q is not registered", k)}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, validation.Errors{validation.New(validation.KindSchemaViolation, typeErr.Field,
				"expected %s, got %s", typeErr.Type, typeErr.Value)}
		}
		return nil, validation.Errors{validation.New(validation.KindSchemaViolation, "", "%s", strings.TrimPrefix(err.Error(), "json: "))}
	}
	if errs := r.Validate(p); len(errs) > 0 {
		return p, errs
	}
	return p, nil
}

// Grade scores raw against p. It never panics on candidate input: malformed
// answers score zero with a note, empty answers are unanswered, and kinds
// without a usable key are left for a human.
func (r *Registry) Grade(p Payload, raw json.RawMessage) Outcome {
	s, ok := r.specs[p.Kind()]
	if !ok {
		return Outcome{Verdict: VerdictNeedsManual, Notes: []string{fmt.Sprintf("kind %q is not registered", p.Kind())}}
	}
	a, err := ParseAnswer(s.Shape, raw)
	if s.Manual {
		return p.grade(r.matcher, a)
	}
	// Without a key nothing can be decided here, not even for a blank answer.
	if p.MissingAnswerKey() {
		return Outcome{Verdict: VerdictNeedsManual, Notes: []string{"answer key missing"}}
	}
	if err != nil {
		return Outcome{Verdict: VerdictIncorrect, Notes: []string{"malformed answer: " + err.Error()}}
	}
	if a.Empty() {
		return Outcome{Verdict: VerdictUnanswered}
	}
	out := p.grade(r.matcher, a)
	if out.Fraction < 0 {
		out.Fraction = 0
	}
	if out.Fraction > 1 {
		out.Fraction = 1
	}
	return out
}

// Redact strips answer keys from a payload before it is shown to candidates.
func (r *Registry) Redact(p Payload) Payload {
	return p.Redact()
}
