// Package grader scores candidate answers against canonical question payloads
// and aggregates per-question verdicts into submission totals.
package grader

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/validation"
)

const defaultWorkers = 8

// Item is the stored form of a question, as the grader needs it.
type Item struct {
	QuestionID   string
	Index        int
	SectionIndex int
	Kind         registry.Kind
	Marks        int
	Payload      json.RawMessage
}

// Verdict is the per-question grading record kept on a submission.
type Verdict struct {
	QuestionID    string           `json:"question_id"`
	QuestionIndex int              `json:"question_index"`
	SectionIndex  int              `json:"section_index"`
	Kind          registry.Kind    `json:"kind"`
	Fraction      float64          `json:"fraction"`
	Points        float64          `json:"points"`
	Marks         int              `json:"marks"`
	Verdict       registry.Verdict `json:"verdict"`
	Notes         []string         `json:"notes,omitempty"`
	Manual        *ManualScore     `json:"manual,omitempty"`
}

// Pending reports whether the verdict still waits for a human.
func (v Verdict) Pending() bool {
	return v.Verdict == registry.VerdictNeedsManual && v.Manual == nil
}

// Answers maps a question id, or a question index ("7") as candidates send
// it, onto the raw answer.
type Answers map[string]json.RawMessage

// For finds the answer for it. The id key wins because indices are repacked
// when a question is deleted.
func (a Answers) For(it Item) json.RawMessage {
	if raw, ok := a[it.QuestionID]; ok {
		return raw
	}
	return a[strconv.Itoa(it.Index)]
}

type Grader struct {
	reg     *registry.Registry
	workers int
}

type Option func(*Grader)

// WithWorkers bounds how many questions are graded at once.
func WithWorkers(n int) Option {
	return func(g *Grader) {
		if n > 0 {
			g.workers = n
		}
	}
}

func New(reg *registry.Registry, opts ...Option) *Grader {
	if reg == nil {
		reg = registry.Default()
	}
	g := &Grader{reg: reg, workers: defaultWorkers}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GradeQuestion grades one answer. A payload that no longer decodes for its
// kind is left for manual grading with a drift note instead of failing.
func (g *Grader) GradeQuestion(it Item, raw json.RawMessage) (v Verdict) {
	v = Verdict{
		QuestionID:    it.QuestionID,
		QuestionIndex: it.Index,
		SectionIndex:  it.SectionIndex,
		Kind:          it.Kind,
		Marks:         it.Marks,
	}
	defer func() {
		if r := recover(); r != nil {
			v.Fraction, v.Points = 0, 0
			v.Verdict = registry.VerdictNeedsManual
			v.Notes = append(v.Notes, driftNote("grading panicked: %v", r))
		}
	}()

	payload, errs := g.reg.Decode(it.Kind, it.Payload)
	if payload == nil || len(errs) > 0 {
		v.Verdict = registry.VerdictNeedsManual
		v.Notes = []string{driftNote("payload no longer matches %s: %v", it.Kind, errs)}
		return v
	}

	out := g.reg.Grade(payload, raw)
	v.Fraction = out.Fraction
	v.Verdict = out.Verdict
	v.Notes = out.Notes
	v.Points = Points(out.Fraction, it.Marks)
	return v
}

func driftNote(format string, args ...any) string {
	return validation.New(validation.KindGraderSchemaDrift, "", format, args...).Error()
}

type gradeResult struct {
	idx     int
	verdict Verdict
}

// GradeAll grades every item concurrently. The result is ordered like items.
// On cancellation nothing is returned, so callers persist all or nothing.
func (g *Grader) GradeAll(ctx context.Context, items []Item, answers Answers) ([]Verdict, error) {
	var wg sync.WaitGroup
	results := make(chan gradeResult, len(items))
	sem := make(chan struct{}, g.workers)

	var cancelled error
	for i := range items {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
		case sem <- struct{}{}:
		}
		if cancelled != nil {
			break
		}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			it := items[idx]
			results <- gradeResult{idx: idx, verdict: g.GradeQuestion(it, answers.For(it))}
		}(i)
	}
	wg.Wait()
	close(results)

	if cancelled != nil {
		return nil, fmt.Errorf("grading cancelled: %w", cancelled)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("grading cancelled: %w", err)
	}
	out := make([]Verdict, len(items))
	for r := range results {
		out[r.idx] = r.verdict
	}
	return out, nil
}

// KeepManual carries human grades from prev into next for the same question.
func KeepManual(prev, next []Verdict) []Verdict {
	byID := make(map[string]Verdict, len(prev))
	for _, v := range prev {
		if v.Manual != nil {
			byID[v.QuestionID] = v
		}
	}
	out := make([]Verdict, len(next))
	for i, v := range next {
		if old, ok := byID[v.QuestionID]; ok {
			old.QuestionIndex = v.QuestionIndex
			old.SectionIndex = v.SectionIndex
			out[i] = old
			continue
		}
		out[i] = v
	}
	return out
}
