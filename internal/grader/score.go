package grader

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/lshigami/ieltsprep/internal/registry"
)

// MaxBand is the top of the IELTS scale.
const MaxBand = 9.0

// RoundHalf rounds to the nearest 0.5, halves going up (0.25 -> 0.5).
func RoundHalf(x float64) float64 {
	return math.Floor(x*2+0.5) / 2
}

// RoundBand rounds a mean band to the nearest 0.5 with ties going down
// (6.75 -> 6.5, 6.25 -> 6.0).
func RoundBand(x float64) float64 {
	return math.Ceil(x*2-0.5) / 2
}

// Points converts a fraction of an item into awarded points, never above marks.
func Points(fraction float64, marks int) float64 {
	p := RoundHalf(fraction * float64(marks))
	if p > float64(marks) {
		p = float64(marks)
	}
	if p < 0 {
		p = 0
	}
	return p
}

// verdictFor derives the closed verdict value from a fraction.
func verdictFor(fraction float64) registry.Verdict {
	switch {
	case fraction >= 1:
		return registry.VerdictCorrect
	case fraction <= 0:
		return registry.VerdictIncorrect
	default:
		return registry.VerdictPartial
	}
}

// Rubric holds the four writing criteria, each a 0-9 band in 0.5 steps.
type Rubric struct {
	TaskResponse float64 `json:"task_response"`
	Coherence    float64 `json:"coherence"`
	Lexical      float64 `json:"lexical"`
	Grammar      float64 `json:"grammar"`
}

func (r Rubric) Validate() error {
	for name, v := range map[string]float64{
		"task_response": r.TaskResponse,
		"coherence":     r.Coherence,
		"lexical":       r.Lexical,
		"grammar":       r.Grammar,
	} {
		if v < 0 || v > MaxBand || v*2 != math.Trunc(v*2) {
			return fmt.Errorf("%w: %s must be between 0 and 9 in steps of 0.5, got %v", ErrInvalidManualScore, name, v)
		}
	}
	return nil
}

// Band is the task band: the criteria mean rounded to 0.5.
func (r Rubric) Band() float64 {
	return RoundBand((r.TaskResponse + r.Coherence + r.Lexical + r.Grammar) / 4)
}

// ManualScore is a human grading record attached to a verdict.
type ManualScore struct {
	Rubric   *Rubric   `json:"rubric,omitempty"`
	Band     float64   `json:"band,omitempty"`
	Points   float64   `json:"points"`
	GraderID string    `json:"grader_id,omitempty"`
	Comment  string    `json:"comment,omitempty"`
	GradedAt time.Time `json:"graded_at"`
}

var ErrInvalidManualScore = errors.New("invalid manual score")

// ApplyManual records a human grade on v. Writing kinds require a rubric;
// other kinds take points in [0, marks] in 0.5 steps.
func (g *Grader) ApplyManual(v Verdict, m ManualScore) (Verdict, error) {
	spec, ok := g.reg.Lookup(v.Kind)
	if !ok {
		return v, fmt.Errorf("%w: kind %q is not registered", ErrInvalidManualScore, v.Kind)
	}
	if m.GradedAt.IsZero() {
		m.GradedAt = time.Now().UTC()
	}
	if spec.Manual {
		if m.Rubric == nil {
			return v, fmt.Errorf("%w: %s needs rubric sub-scores", ErrInvalidManualScore, v.Kind)
		}
		if err := m.Rubric.Validate(); err != nil {
			return v, err
		}
		m.Band = m.Rubric.Band()
		v.Fraction = m.Band / MaxBand
		m.Points = Points(v.Fraction, v.Marks)
	} else {
		if m.Points < 0 || m.Points > float64(v.Marks) || m.Points*2 != math.Trunc(m.Points*2) {
			return v, fmt.Errorf("%w: points must be between 0 and %d in steps of 0.5, got %v", ErrInvalidManualScore, v.Marks, m.Points)
		}
		m.Rubric = nil
		m.Band = 0
		v.Fraction = m.Points / float64(v.Marks)
	}
	v.Points = m.Points
	v.Verdict = verdictFor(v.Fraction)
	v.Manual = &m
	return v, nil
}

// BandConverter maps listening/reading raw scores onto bands.
type BandConverter interface {
	ConvertToBand(testType string, rawScore, maxScore float64) (float64, error)
}

type SectionScore struct {
	SectionIndex int     `json:"section_index"`
	RawScore     float64 `json:"raw_score"`
	MaxScore     float64 `json:"max_score"`
}

// Summary is the submission-level aggregate.
type Summary struct {
	RawScore      float64
	MaxScore      float64
	Sections      []SectionScore
	PendingManual int
	// Band is nil until nothing is pending.
	Band *float64
}

// Aggregate sums points and marks overall and per section, and computes the
// band once no verdict waits for a human. Writing bands are the mean of the
// task bands; other tracks go through bands.
func (g *Grader) Aggregate(testType string, verdicts []Verdict, bands BandConverter) (Summary, error) {
	var s Summary
	sections := map[int]*SectionScore{}
	var taskBands []float64
	for _, v := range verdicts {
		s.RawScore += v.Points
		s.MaxScore += float64(v.Marks)
		sec, ok := sections[v.SectionIndex]
		if !ok {
			sec = &SectionScore{SectionIndex: v.SectionIndex}
			sections[v.SectionIndex] = sec
		}
		sec.RawScore += v.Points
		sec.MaxScore += float64(v.Marks)
		if v.Pending() {
			s.PendingManual++
		}
		if spec, ok := g.reg.Lookup(v.Kind); ok && spec.Manual && v.Manual != nil {
			taskBands = append(taskBands, v.Manual.Band)
		}
	}
	for _, sec := range sections {
		s.Sections = append(s.Sections, *sec)
	}
	sort.Slice(s.Sections, func(i, j int) bool { return s.Sections[i].SectionIndex < s.Sections[j].SectionIndex })

	if s.PendingManual > 0 || len(verdicts) == 0 {
		return s, nil
	}
	if testType == string(registry.SkillWriting) {
		if len(taskBands) == 0 {
			return s, nil
		}
		sum := 0.0
		for _, b := range taskBands {
			sum += b
		}
		band := RoundBand(sum / float64(len(taskBands)))
		s.Band = &band
		return s, nil
	}
	if bands == nil {
		return s, nil
	}
	band, err := bands.ConvertToBand(testType, s.RawScore, s.MaxScore)
	if err != nil {
		return s, err
	}
	s.Band = &band
	return s, nil
}
