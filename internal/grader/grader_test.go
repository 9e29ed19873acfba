package grader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/lshigami/ieltsprep/internal/registry"
)

func item(t *testing.T, id string, index, section int, marks int, p registry.Payload) Item {
	t.Helper()
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return Item{QuestionID: id, Index: index, SectionIndex: section, Kind: p.Kind(), Marks: marks, Payload: b}
}

func answer(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal answer: %v", err)
	}
	return b
}

func TestRounding(t *testing.T) {
	tests := []struct {
		in, half, band float64
	}{
		{0.6, 0.5, 0.5},
		{0.75, 1, 0.5},
		{1.2, 1, 1},
		{6.25, 6.5, 6},
		{6.75, 7, 6.5},
		{6.8, 7, 7},
		{7, 7, 7},
	}
	for _, tt := range tests {
		if got := RoundHalf(tt.in); got != tt.half {
			t.Errorf("RoundHalf(%v) = %v, want %v", tt.in, got, tt.half)
		}
		if got := RoundBand(tt.in); got != tt.band {
			t.Errorf("RoundBand(%v) = %v, want %v", tt.in, got, tt.band)
		}
	}
}

func TestMCQMultipleScenario(t *testing.T) {
	g := New(nil)
	it := item(t, "q1", 1, 1, 1, &registry.MCQMultiple{
		Prompt:           "Which TWO?",
		Options:          []registry.Item{{ID: "A", Text: "a"}, {ID: "B", Text: "b"}, {ID: "C", Text: "c"}, {ID: "D", Text: "d"}},
		CorrectOptionIDs: []string{"A", "C"},
	})
	if v := g.GradeQuestion(it, answer(t, []string{"A", "C"})); v.Fraction != 1 || v.Verdict != registry.VerdictCorrect || v.Points != 1 {
		t.Errorf("[A C]: %+v", v)
	}
	if v := g.GradeQuestion(it, answer(t, []string{"A"})); v.Fraction != 0 || v.Verdict != registry.VerdictIncorrect || v.Points != 0 {
		t.Errorf("[A]: %+v", v)
	}
}

func TestSentenceCompletionScenario(t *testing.T) {
	g := New(nil)
	it := item(t, "q1", 1, 1, 1, &registry.SentenceCompletion{
		Prompt:    "He bought ___ apples.",
		BlankKeys: registry.BlankKeys{AnswerKeys: []string{"six|6"}, MaxWords: 1},
	})
	if v := g.GradeQuestion(it, answer(t, "6 ")); v.Fraction != 1 {
		t.Errorf(`"6 ": %+v`, v)
	}
	if v := g.GradeQuestion(it, answer(t, "six apples")); v.Fraction != 0 {
		t.Errorf(`"six apples": %+v`, v)
	}
}

func TestMatchingHeadingsPartialPoints(t *testing.T) {
	g := New(nil)
	p := &registry.MatchingHeadings{
		Headings:   []registry.Item{{ID: "i", Text: "1"}, {ID: "ii", Text: "2"}, {ID: "iii", Text: "3"}, {ID: "iv", Text: "4"}, {ID: "v", Text: "5"}},
		Paragraphs: []registry.Item{{ID: "A", Text: "a"}, {ID: "B", Text: "b"}, {ID: "C", Text: "c"}, {ID: "D", Text: "d"}, {ID: "E", Text: "e"}},
		Mapping:    map[string]string{"A": "i", "B": "ii", "C": "iii", "D": "iv", "E": "v"},
	}
	ans := answer(t, map[string]string{"A": "i", "B": "ii", "C": "iii", "D": "v", "E": "iv"})
	for marks, want := range map[int]float64{1: 0.5, 2: 1, 5: 3} {
		v := g.GradeQuestion(item(t, "q", 1, 1, marks, p), ans)
		if v.Fraction != 0.6 || v.Verdict != registry.VerdictPartial || v.Points != want {
			t.Errorf("marks %d: %+v, want points %v", marks, v, want)
		}
	}
}

func TestSchemaDriftBecomesManual(t *testing.T) {
	g := New(nil)
	it := Item{QuestionID: "q", Index: 1, Kind: registry.KindMCQSingle, Marks: 1,
		Payload: json.RawMessage(`{"prompt":"p","choices":["A","B"],"correct_option_id":"A"}`)}
	v := g.GradeQuestion(it, answer(t, "A"))
	if v.Verdict != registry.VerdictNeedsManual || v.Points != 0 {
		t.Fatalf("verdict %+v", v)
	}
	if len(v.Notes) != 1 || !strings.HasPrefix(v.Notes[0], "grader_schema_drift") {
		t.Errorf("notes %v", v.Notes)
	}

	it.Kind = "removed_kind"
	if v := g.GradeQuestion(it, answer(t, "A")); v.Verdict != registry.VerdictNeedsManual {
		t.Errorf("unknown kind: %+v", v)
	}
}

// Every kind, with well-formed, empty, and hostile answers.
func TestGradingIsTotal(t *testing.T) {
	g := New(nil)
	items := sampleItems(t)
	hostile := []json.RawMessage{
		nil, json.RawMessage(`null`), json.RawMessage(`""`), json.RawMessage(`"A"`),
		json.RawMessage(`["A","B","C","D","E","F"]`), json.RawMessage(`{"A":"i","zz":"q"}`),
		json.RawMessage(`42`), json.RawMessage(`true`), json.RawMessage(`[[1],[2]]`),
		json.RawMessage(`{"nested":{"x":1}}`), json.RawMessage(`{broken`),
	}
	for _, it := range items {
		for _, raw := range hostile {
			v := g.GradeQuestion(it, raw)
			if v.Fraction < 0 || v.Fraction > 1 {
				t.Errorf("%s with %s: fraction %v", it.Kind, raw, v.Fraction)
			}
			if v.Points < 0 || v.Points > float64(it.Marks) {
				t.Errorf("%s with %s: points %v of %d", it.Kind, raw, v.Points, it.Marks)
			}
			if v.Verdict == "" {
				t.Errorf("%s with %s: empty verdict", it.Kind, raw)
			}
		}
	}
}

func TestGradeAllKeepsOrderAndAddsUp(t *testing.T) {
	g := New(nil, WithWorkers(3))
	items := sampleItems(t)
	answers := Answers{}
	for i, it := range items {
		if i%2 == 0 {
			answers[fmt.Sprint(it.Index)] = json.RawMessage(`"A"`)
		} else {
			answers[it.QuestionID] = json.RawMessage(`["A","B"]`)
		}
	}
	verdicts, err := g.GradeAll(context.Background(), items, answers)
	if err != nil {
		t.Fatal(err)
	}
	if len(verdicts) != len(items) {
		t.Fatalf("got %d verdicts for %d items", len(verdicts), len(items))
	}
	sum := 0.0
	for i, v := range verdicts {
		if v.QuestionID != items[i].QuestionID {
			t.Errorf("verdict %d is for %s, want %s", i, v.QuestionID, items[i].QuestionID)
		}
		sum += v.Points
	}
	s, err := g.Aggregate("listening", verdicts, nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.RawScore != sum {
		t.Errorf("raw score %v, sum of points %v", s.RawScore, sum)
	}
	secSum := 0.0
	for _, sec := range s.Sections {
		secSum += sec.RawScore
	}
	if secSum != sum {
		t.Errorf("section scores add to %v, want %v", secSum, sum)
	}
}

func TestGradeAllCancelled(t *testing.T) {
	g := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	verdicts, err := g.GradeAll(ctx, sampleItems(t), Answers{})
	if !errors.Is(err, context.Canceled) || verdicts != nil {
		t.Errorf("got %v, %v", verdicts, err)
	}
}

type fixedBands float64

func (f fixedBands) ConvertToBand(string, float64, float64) (float64, error) { return float64(f), nil }

func TestWritingFinalizesOnlyWithRubrics(t *testing.T) {
	g := New(nil)
	task1 := item(t, "t1", 1, 1, 1, &registry.WritingTask1{Prompt: "Describe the chart.", MinWords: 150})
	task2 := item(t, "t2", 2, 2, 1, &registry.WritingTask2{Prompt: "Discuss both views.", MinWords: 250})
	answers := Answers{
		"1": answer(t, strings.Repeat("word ", 200)),
		"2": answer(t, strings.Repeat("word ", 300)),
	}
	verdicts, err := g.GradeAll(context.Background(), []Item{task1, task2}, answers)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range verdicts {
		if v.Verdict != registry.VerdictNeedsManual {
			t.Fatalf("writing verdict %s", v.Verdict)
		}
	}
	s, _ := g.Aggregate("writing", verdicts, fixedBands(9))
	if s.PendingManual != 2 || s.Band != nil {
		t.Fatalf("before manual: %+v", s)
	}

	if _, err := g.ApplyManual(verdicts[0], ManualScore{Points: 1}); !errors.Is(err, ErrInvalidManualScore) {
		t.Errorf("writing without rubric: %v", err)
	}
	if _, err := g.ApplyManual(verdicts[0], ManualScore{Rubric: &Rubric{6.3, 6, 6, 6}}); !errors.Is(err, ErrInvalidManualScore) {
		t.Errorf("off-step rubric: %v", err)
	}

	verdicts[0], err = g.ApplyManual(verdicts[0], ManualScore{Rubric: &Rubric{6.5, 6.5, 6.5, 6.5}})
	if err != nil {
		t.Fatal(err)
	}
	s, _ = g.Aggregate("writing", verdicts, nil)
	if s.PendingManual != 1 || s.Band != nil {
		t.Fatalf("one task graded: %+v", s)
	}

	verdicts[1], err = g.ApplyManual(verdicts[1], ManualScore{Rubric: &Rubric{7, 7, 7, 7}})
	if err != nil {
		t.Fatal(err)
	}
	s, _ = g.Aggregate("writing", verdicts, nil)
	if s.PendingManual != 0 || s.Band == nil || *s.Band != 6.5 {
		t.Fatalf("both graded: %+v", s)
	}
	if s.RawScore != verdicts[0].Points+verdicts[1].Points {
		t.Errorf("raw %v does not add up", s.RawScore)
	}
}

func TestManualPointsForObjectiveItems(t *testing.T) {
	g := New(nil)
	it := item(t, "q", 3, 1, 2, &registry.TrueFalseNG{Statement: "s"})
	v := g.GradeQuestion(it, answer(t, "True"))
	if !v.Pending() {
		t.Fatalf("missing key should wait for a human: %+v", v)
	}
	if _, err := g.ApplyManual(v, ManualScore{Points: 2.5}); err == nil {
		t.Error("points above marks accepted")
	}
	v, err := g.ApplyManual(v, ManualScore{Points: 1.5, GraderID: "t-1"})
	if err != nil {
		t.Fatal(err)
	}
	if v.Points != 1.5 || v.Fraction != 0.75 || v.Verdict != registry.VerdictPartial || v.Pending() {
		t.Errorf("after manual: %+v", v)
	}

	s, err := g.Aggregate("reading", []Verdict{v}, fixedBands(5.5))
	if err != nil || s.Band == nil || *s.Band != 5.5 {
		t.Errorf("aggregate: %+v %v", s, err)
	}
}

func TestKeepManualSurvivesRegrade(t *testing.T) {
	manual := Verdict{QuestionID: "a", QuestionIndex: 1, Verdict: registry.VerdictPartial, Points: 1, Manual: &ManualScore{Points: 1}}
	auto := Verdict{QuestionID: "b", QuestionIndex: 2, Verdict: registry.VerdictNeedsManual}
	next := []Verdict{
		{QuestionID: "a", QuestionIndex: 1, Verdict: registry.VerdictCorrect, Points: 2},
		{QuestionID: "b", QuestionIndex: 2, Verdict: registry.VerdictCorrect, Points: 1},
	}
	got := KeepManual([]Verdict{manual, auto}, next)
	if got[0].Manual == nil || got[0].Points != 1 {
		t.Errorf("manual grade lost: %+v", got[0])
	}
	if got[1].Verdict != registry.VerdictCorrect {
		t.Errorf("auto verdict not refreshed: %+v", got[1])
	}
}

func sampleItems(t *testing.T) []Item {
	t.Helper()
	opts := []registry.Item{{ID: "A", Text: "a"}, {ID: "B", Text: "b"}, {ID: "C", Text: "c"}}
	payloads := []registry.Payload{
		&registry.MCQSingle{Prompt: "p", Options: opts, CorrectOptionID: "A"},
		&registry.MCQMultiple{Prompt: "p", Options: opts, CorrectOptionIDs: []string{"A", "B"}},
		&registry.SentenceCompletion{Prompt: "x ___", BlankKeys: registry.BlankKeys{AnswerKeys: []string{"a"}, MaxWords: 2}},
		&registry.FormCompletion{FormTemplate: "{{f1}}", CellKeys: registry.CellKeys{AnswerKeys: map[string]string{"f1": "a"}, MaxWords: 2}},
		&registry.TableCompletion{TableTemplate: [][]string{{"{{c1}}", "{{c2}}"}}, CellKeys: registry.CellKeys{AnswerKeys: map[string]string{"c1": "a", "c2": "b"}, MaxWords: 1}},
		&registry.FlowchartCompletion{Nodes: []registry.Item{{ID: "1", Text: "___"}, {ID: "2", Text: "end"}}, CellKeys: registry.CellKeys{AnswerKeys: map[string]string{"1": "a"}, MaxWords: 1}},
		&registry.FillGaps{TextWithBlanks: "___ ___", BlankKeys: registry.BlankKeys{AnswerKeys: []string{"a", "b"}, MaxWords: 3}},
		&registry.FillGapsShort{TextWithBlanks: "___", BlankKeys: registry.BlankKeys{AnswerKeys: []string{"a"}, MaxWords: 2}},
		&registry.Matching{LeftItems: opts, RightItems: opts, Mapping: map[string]string{"A": "B", "B": "C", "C": "A"}},
		&registry.MapLabelling{Labels: opts, Positions: []registry.Item{{ID: "1"}, {ID: "2"}}, Mapping: map[string]string{"A": "1", "B": "2", "C": "1"}},
		&registry.TrueFalseNG{Statement: "s", Correct: registry.TFNGTrue},
		&registry.MatchingHeadings{Headings: opts, Paragraphs: opts, Mapping: map[string]string{"A": "A", "B": "B", "C": "C"}},
		&registry.MatchingFeatures{Features: opts, Items: opts, Mapping: map[string]string{"A": "C", "B": "C", "C": "C"}},
		&registry.MatchingEndings{Stems: opts, Endings: opts, Mapping: map[string]string{"A": "A", "B": "C", "C": "B"}},
		&registry.NoteCompletion{NoteTemplate: "___", BlankKeys: registry.BlankKeys{AnswerKeys: []string{"a"}, MaxWords: 1}},
		&registry.SummaryCompletion{SummaryWithBlanks: "___", WordBank: []string{"a", "b"}, BlankKeys: registry.BlankKeys{AnswerKeys: []string{"a"}}},
		&registry.WritingTask1{Prompt: "p", MinWords: 150},
		&registry.WritingTask2{Prompt: "p", MinWords: 250},
	}
	items := make([]Item, 0, len(payloads))
	for i, p := range payloads {
		items = append(items, item(t, fmt.Sprintf("q%02d", i+1), i+1, i/5+1, i%3+1, p))
	}
	return items
}

func TestAnswersForPrefersQuestionID(t *testing.T) {
	it := Item{QuestionID: "q-7", Index: 2}
	tests := []struct {
		name    string
		answers Answers
		want    string
	}{
		{"id only", Answers{"q-7": json.RawMessage(`"id"`)}, `"id"`},
		{"index only", Answers{"2": json.RawMessage(`"index"`)}, `"index"`},
		{"id wins over index", Answers{"2": json.RawMessage(`"index"`), "q-7": json.RawMessage(`"id"`)}, `"id"`},
		{"neither", Answers{"3": json.RawMessage(`"other"`)}, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.answers.For(it)); got != tt.want {
				t.Errorf("For() = %s, want %s", got, tt.want)
			}
		})
	}
}
