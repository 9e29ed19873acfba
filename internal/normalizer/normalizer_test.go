package normalizer

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/validation"
)

// looseSamples are author-style inputs, one per kind, that must normalize cleanly.
var looseSamples = map[registry.Kind]string{
	registry.KindMCQSingle:           `{"type":"mcq_single","prompt":"Where is the hotel?","options":["A. Near the station","B. By the river"],"correct_option_id":"B"}`,
	registry.KindMCQMultiple:         `{"question":"Which TWO facilities are free?","choices":[{"id":"A","text":"Gym"},{"id":"B","text":"Pool"},{"id":"C","text":"Sauna"},{"id":"D","text":"Parking"}],"correct_option_ids":"A, C"}`,
	registry.KindSentenceCompletion:  `{"prompt":"The tour starts at ___.","answer":"9 am|nine am","max_words":2}`,
	registry.KindFormCompletion:      `{"form_template":"Name: {{name}}\nPhone: {{phone}}","answer_keys":{"name":"Smith"}}`,
	registry.KindTableCompletion:     `{"table":"Day | Activity\nMonday | {{c1}}\nTuesday | {{c2}}","answers":["swimming","tennis"]}`,
	registry.KindFlowchartCompletion: `{"steps":[{"id":"1","text":"Collect samples"},{"id":"2","text":"Dry them for ___ days"}],"answer":{"2":"three|3"}}`,
	registry.KindFillGaps:            `{"text_with_blanks":"The museum opens at ___ and closes at ___.","answer_keys":["9|nine","5|five"]}`,
	registry.KindFillGapsShort:       `{"type":"short_answer","question":"Name of the guide: ___","answer":"Lucy","marks":"2"}`,
	registry.KindMatching:            `{"left":["1. Anna","2. Ben"],"right":["A. Cooking","B. Sailing","C. Music"],"mapping":{"1":"C","2":"a"}}`,
	registry.KindMapLabelling:        `{"labels":[{"id":"1","text":"Cafe"},{"id":"2","text":"Toilets"}],"positions":[{"id":"A"},{"id":"B"},{"id":"C"}],"answer":[{"label":"1","position":"B"},{"label":"2","position":"C"}]}`,
	registry.KindTrueFalseNG:         `{"statement":"The bridge was built in 1890.","answer":"NG","index":7}`,
	registry.KindMatchingHeadings:    `{"headings":["i. Early days","ii. Growth","iii. Decline"],"paragraphs":[{"id":"A","text":"Para A"},{"id":"B","text":"Para B"}],"answers":{"A":"ii","B":"Decline"}}`,
	registry.KindMatchingFeatures:    `{"features":[{"key":"A","value":"Smith"},{"key":"B","value":"Jones"}],"items":["1. First to test the theory","2. Disagreed with the findings"],"mapping":{"1":"B","2":"A"}}`,
	registry.KindMatchingEndings:     `{"stems":["1. The river","2. The town"],"endings":["A. flooded.","B. grew.","C. vanished."],"correct_answers":{"1":"A","2":"C"}}`,
	registry.KindNoteCompletion:      `{"notes":"Topic: ___\nYear: ___","answers":["bees","1998"],"ignore_articles":"yes"}`,
	registry.KindSummaryCompletion:   `{"summary":"Farmers planted ___ near the ___.","word_bank":"wheat, river, hills","answer_keys":["wheat","river"]}`,
	registry.KindWritingTask1:        `{"prompt":"Summarise the chart.","chart_image":"https://cdn.example.com/chart.png"}`,
	registry.KindWritingTask2:        `{"question":"Discuss both views and give your opinion.","min_words":"250"}`,
}

func mustNormalize(t *testing.T, n *Normalizer, raw string) Question {
	t.Helper()
	q, errs := n.Normalize([]byte(raw))
	if errs.HasFatal() {
		t.Fatalf("normalize %s: %v", raw, errs.Fatal())
	}
	return q
}

func TestDetectsEveryKind(t *testing.T) {
	n := New(nil)
	if len(looseSamples) != len(registry.Default().Kinds()) {
		t.Fatalf("samples cover %d kinds, registry has %d", len(looseSamples), len(registry.Default().Kinds()))
	}
	for kind, raw := range looseSamples {
		t.Run(string(kind), func(t *testing.T) {
			q := mustNormalize(t, n, raw)
			if q.Kind != kind {
				t.Errorf("detected %s, want %s", q.Kind, kind)
			}
			if q.Payload.Kind() != kind {
				t.Errorf("payload kind %s", q.Payload.Kind())
			}
		})
	}
}

func TestRoundTripIsStable(t *testing.T) {
	n := New(nil)
	for kind, raw := range looseSamples {
		t.Run(string(kind), func(t *testing.T) {
			first := mustNormalize(t, n, raw)
			b, err := json.Marshal(first)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			second := mustNormalize(t, n, string(b))
			if !reflect.DeepEqual(first, second) {
				t.Errorf("drift after round trip\nfirst:  %+v\nsecond: %+v\njson: %s", first.Payload, second.Payload, b)
			}
		})
	}
}

func TestCoercion(t *testing.T) {
	n := New(nil)

	q := mustNormalize(t, n, looseSamples[registry.KindMCQMultiple])
	if got := q.Payload.(*registry.MCQMultiple).CorrectOptionIDs; !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("comma separated key: %v", got)
	}

	q = mustNormalize(t, n, `{"prompt":"Capital of Italy?","options":["A. Paris","B. Rome"],"correctAnswer":"rome"}`)
	if got := q.Payload.(*registry.MCQSingle).CorrectOptionID; got != "B" {
		t.Errorf("key given as option text resolved to %q", got)
	}

	q = mustNormalize(t, n, looseSamples[registry.KindFillGapsShort])
	fs := q.Payload.(*registry.FillGapsShort)
	if q.Marks != 2 || fs.MaxWords != 2 || !reflect.DeepEqual(fs.AnswerKeys, []string{"Lucy"}) {
		t.Errorf("short answer: marks %d, payload %+v", q.Marks, fs)
	}

	q = mustNormalize(t, n, looseSamples[registry.KindTrueFalseNG])
	if got := q.Payload.(*registry.TrueFalseNG).Correct; got != registry.TFNGNotGiven || q.Index != 7 {
		t.Errorf("tfng: correct %q index %d", got, q.Index)
	}

	q = mustNormalize(t, n, looseSamples[registry.KindMatchingHeadings])
	want := map[string]string{"A": "ii", "B": "iii"}
	if got := q.Payload.(*registry.MatchingHeadings).Mapping; !reflect.DeepEqual(got, want) {
		t.Errorf("heading mapping %v, want %v", got, want)
	}

	q = mustNormalize(t, n, looseSamples[registry.KindTableCompletion])
	tc := q.Payload.(*registry.TableCompletion)
	if tc.AnswerKeys["c2"] != "tennis" || len(tc.TableTemplate) != 3 || tc.TableTemplate[1][1] != "{{c1}}" {
		t.Errorf("table: %+v", tc)
	}

	q = mustNormalize(t, n, looseSamples[registry.KindWritingTask1])
	if got := q.Payload.(*registry.WritingTask1).MinWords; got != 150 {
		t.Errorf("task 1 default min_words %d", got)
	}
}

func TestMissingAnswerKeyIsDeferred(t *testing.T) {
	n := New(nil)
	tests := []struct {
		name string
		raw  string
		path string
	}{
		{"headings", `{"type":"matching_headings","headings":["i. One","ii. Two"],"paragraphs":["A. x","B. y"]}`, "mapping"},
		{"gaps", `{"type":"fill_gaps","text_with_blanks":"___ and ___"}`, "answer_keys"},
		{"mcq", `{"type":"mcq_single","prompt":"p","options":["A. x","B. y"]}`, "correct_option_id"},
		{"form partially keyed", looseSamples[registry.KindFormCompletion], "answer_keys"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, errs := n.Normalize([]byte(tt.raw))
			if errs.HasFatal() {
				t.Fatalf("unexpected fatal errors: %v", errs)
			}
			if !q.NeedsAnswerKey {
				t.Error("expected NeedsAnswerKey")
			}
			w := errs.Warnings()
			if len(w) != 1 || w[0].Kind != validation.KindMissingAnswerKey || w[0].Path != tt.path {
				t.Errorf("warnings = %v", w)
			}
		})
	}

	q := mustNormalize(t, n, `{"type":"fill_gaps","text_with_blanks":"___ and ___"}`)
	if keys := q.Payload.(*registry.FillGaps).AnswerKeys; len(keys) != 2 {
		t.Errorf("expected one empty key per blank, got %q", keys)
	}
}

func TestDetectionFailures(t *testing.T) {
	n := New(nil)
	tests := []struct {
		name string
		raw  string
		kind validation.Kind
		path string
	}{
		{"not an object", `["a"]`, validation.KindMalformedDocument, ""},
		{"bad json", `{"type":`, validation.KindMalformedDocument, ""},
		{"no recognizable fields", `{"foo":"bar"}`, validation.KindUnknownKind, ""},
		{"unregistered type", `{"type":"speaking_part1","cue_card":"x"}`, validation.KindUnknownKind, "type"},
		{"two container shapes", `{"headings":["i. a","ii. b"],"paragraphs":["A. x"],"stems":["1. s"],"endings":["A. e","B. f"]}`, validation.KindAmbiguousKind, ""},
		{"options and blanks", `{"options":["A. x","B. y"],"text_with_blanks":"___","answer":"A"}`, validation.KindAmbiguousKind, ""},
		{"options not a list", `{"type":"mcq_single","prompt":"p","options":42,"correct_option_id":"A"}`, validation.KindSchemaViolation, "options"},
		{"marks not numeric", `{"type":"tfng","statement":"s","correct":"True","marks":"two"}`, validation.KindSchemaViolation, "marks"},
		{"enum out of range", `{"type":"tfng","statement":"s","correct":"Perhaps"}`, validation.KindSchemaViolation, "correct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := n.Normalize([]byte(tt.raw))
			if !errs.HasFatal() {
				t.Fatalf("expected a fatal error, got %v", errs)
			}
			found := false
			for _, e := range errs {
				if e.Kind == tt.kind && e.Path == tt.path {
					found = true
				}
			}
			if !found {
				t.Errorf("no %s at %q in %v", tt.kind, tt.path, errs)
			}
		})
	}
}

func TestExplicitTypeWinsOverShape(t *testing.T) {
	n := New(nil)
	q := mustNormalize(t, n, `{"type":"Sentence Completion","text":"Open at ___","answer_keys":["noon"],"statement":"ignored"}`)
	if q.Kind != registry.KindSentenceCompletion {
		t.Errorf("kind %s", q.Kind)
	}
}

func TestMergeReplacesPatchedFields(t *testing.T) {
	n := New(nil)
	q := mustNormalize(t, n, `{"type":"fill_gaps","text_with_blanks":"___ and ___"}`)
	if !q.NeedsAnswerKey {
		t.Fatal("expected the stored question to need keys")
	}

	merged, errs := n.Merge(q, map[string]any{"answers": []any{"salt", "pepper"}, "points": "2"})
	if errs.HasFatal() {
		t.Fatalf("merge: %v", errs)
	}
	fg := merged.Payload.(*registry.FillGaps)
	if merged.NeedsAnswerKey || !reflect.DeepEqual(fg.AnswerKeys, []string{"salt", "pepper"}) || merged.Marks != 2 {
		t.Errorf("merged = %+v, keys %q", merged, fg.AnswerKeys)
	}
	if fg.TextWithBlanks != "___ and ___" {
		t.Errorf("unpatched field lost: %q", fg.TextWithBlanks)
	}

	_, errs = n.Merge(q, map[string]any{"type": "mcq_single"})
	if !errs.HasFatal() || errs[0].Path != "type" {
		t.Errorf("kind change accepted: %v", errs)
	}

	_, errs = n.Merge(q, map[string]any{"answer_keys": []any{"a", "b", "c"}})
	if !errs.HasFatal() {
		t.Error("more keys than blanks should be rejected")
	}
}

func TestFlowchartWithoutMarkersUsesKeyedNodes(t *testing.T) {
	n := New(nil)
	q := mustNormalize(t, n, `{"type":"flowchart_completion","nodes":[{"id":"1","text":"Collect samples"},{"id":"2","text":"Dry them"},{"id":"3","text":"Weigh them"}],"answer_keys":{"2":"three days"},"max_words":2}`)
	if q.NeedsAnswerKey {
		t.Error("fully keyed flowchart flagged as missing a key")
	}
	keys := q.Payload.(*registry.FlowchartCompletion).AnswerKeys
	if want := map[string]string{"2": "three days"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("answer keys = %v, want %v", keys, want)
	}

	q = mustNormalize(t, n, `{"type":"flowchart_completion","nodes":[{"id":"1","text":"Collect samples"},{"id":"2","text":"Dry them"}],"max_words":2}`)
	if !q.NeedsAnswerKey {
		t.Error("unkeyed flowchart should need a key")
	}
}
