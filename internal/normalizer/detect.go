package normalizer

import (
	"strings"
	"unicode"

	"github.com/lshigami/ieltsprep/internal/registry"
)

// object is a decoded JSON object whose keys have been canonicalized to snake_case.
type object map[string]any

func (o object) get(names ...string) (any, string, bool) {
	for _, n := range names {
		if v, ok := o[n]; ok && v != nil {
			return v, n, true
		}
	}
	return nil, "", false
}

func (o object) has(names ...string) bool {
	_, _, ok := o.get(names...)
	return ok
}

// canonicalKey turns "correctOptionIds", "Correct-Option IDs" and
// "correct_option_ids" into the same key.
func canonicalKey(k string) string {
	k = strings.ReplaceAll(strings.TrimSpace(k), "IDs", "Ids")
	var b strings.Builder
	prevLower := false
	for _, r := range k {
		switch {
		case r == '-' || r == ' ' || r == '.':
			b.WriteByte('_')
			prevLower = false
		case unicode.IsUpper(r):
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		}
	}
	return b.String()
}

func canonicalObject(m map[string]any) object {
	o := make(object, len(m))
	for k, v := range m {
		ck := canonicalKey(k)
		if _, dup := o[ck]; dup && v == nil {
			continue
		}
		o[ck] = v
	}
	return o
}

// aliases maps common external type names onto registered kinds.
var aliases = map[string]registry.Kind{
	"short_answer":              registry.KindFillGapsShort,
	"short_answer_question":     registry.KindFillGapsShort,
	"multiple_choice":           registry.KindMCQSingle,
	"mcq":                       registry.KindMCQSingle,
	"single_choice":             registry.KindMCQSingle,
	"multiple_answer":           registry.KindMCQMultiple,
	"multiple_answers":          registry.KindMCQMultiple,
	"multi_select":              registry.KindMCQMultiple,
	"true_false_not_given":      registry.KindTrueFalseNG,
	"tfng":                      registry.KindTrueFalseNG,
	"yes_no_not_given":          registry.KindTrueFalseNG,
	"gap_fill":                  registry.KindFillGaps,
	"gap_filling":               registry.KindFillGaps,
	"diagram_labelling":         registry.KindMapLabelling,
	"diagram_labeling":          registry.KindMapLabelling,
	"map_labeling":              registry.KindMapLabelling,
	"plan_labelling":            registry.KindMapLabelling,
	"flow_chart_completion":     registry.KindFlowchartCompletion,
	"notes_completion":          registry.KindNoteCompletion,
	"sentence_endings":          registry.KindMatchingEndings,
	"matching_sentence_endings": registry.KindMatchingEndings,
	"writing_task_1":            registry.KindWritingTask1,
	"task1":                     registry.KindWritingTask1,
	"writing_task_2":            registry.KindWritingTask2,
	"task2":                     registry.KindWritingTask2,
}

// ResolveKind maps an explicit type value onto a registered kind.
func ResolveKind(reg *registry.Registry, name string) (registry.Kind, bool) {
	k := canonicalKey(strings.ToLower(name))
	if _, ok := reg.Lookup(registry.Kind(k)); ok {
		return registry.Kind(k), true
	}
	if alias, ok := aliases[k]; ok {
		return alias, true
	}
	return "", false
}

// Field name synonyms seen in hand-written and AI-generated documents.
var (
	answerKeyNames = []string{
		"answer_keys", "answer_key", "answers", "answer", "correct_answers", "correct_answer",
		"correct", "key", "keys", "solution", "correct_option_ids", "correct_option_id",
		"correct_options", "correct_option", "mapping", "matches",
	}
	fieldSynonyms = map[string][]string{
		"prompt":              {"question", "question_text", "text", "instruction", "stem"},
		"statement":           {"question", "question_text", "text", "prompt"},
		"text_with_blanks":    {"text", "passage", "prompt", "question", "question_text", "sentence"},
		"note_template":       {"notes", "template", "text", "prompt"},
		"summary_with_blanks": {"summary", "text", "prompt"},
		"form_template":       {"form", "template", "text", "prompt"},
		"table_template":      {"table", "template", "rows"},
		"options":             {"choices", "option_list"},
		"word_bank":           {"wordbank", "bank", "word_list", "options", "choices"},
		"max_words":           {"word_limit", "max_word", "maximum_words", "words_limit"},
		"min_words":           {"min_word_count", "minimum_words", "word_count", "min_word"},
		"chart_image":         {"image", "image_url", "chart", "chart_url"},
		"map_image":           {"image", "image_url", "map", "map_url", "diagram"},
		"left_items":          {"left", "premises"},
		"right_items":         {"right", "responses"},
		"labels":              {"label_items"},
		"positions":           {"locations", "points_on_map"},
		"stems":               {"sentence_beginnings", "beginnings"},
		"nodes":               {"steps", "boxes"},
		"ignore_articles":     {"ignore_article"},
	}
	marksNames = []string{"marks", "points", "score", "mark"}
	indexNames = []string{"index", "question_number", "number", "no"}
	typeNames  = []string{"type", "kind", "question_type"}
)

// detectRule is one structural predicate. Lower priority values are checked first;
// more than one match at the winning priority is ambiguous.
type detectRule struct {
	kind     registry.Kind
	priority int
	match    func(o object) bool
}

var detectRules = []detectRule{
	{registry.KindMatchingHeadings, 1, func(o object) bool { return o.has("headings") && o.has("paragraphs") }},
	{registry.KindMatchingFeatures, 1, func(o object) bool { return o.has("features") && o.has("items") }},
	{registry.KindMatchingEndings, 1, func(o object) bool { return o.has("stems", "sentence_beginnings") && o.has("endings") }},
	{registry.KindMapLabelling, 1, func(o object) bool { return o.has("labels") && o.has("positions", "locations") }},
	{registry.KindMatching, 1, func(o object) bool { return o.has("left_items", "left") && o.has("right_items", "right") }},
	{registry.KindFlowchartCompletion, 1, func(o object) bool { return o.has("nodes", "steps") }},
	{registry.KindTableCompletion, 1, func(o object) bool { return o.has("table_template", "table") }},
	{registry.KindFormCompletion, 1, func(o object) bool { return o.has("form_template", "form") }},
	{registry.KindNoteCompletion, 1, func(o object) bool { return o.has("note_template", "notes") }},
	{registry.KindSummaryCompletion, 1, func(o object) bool { return o.has("summary_with_blanks", "summary") }},
	{registry.KindTrueFalseNG, 1, func(o object) bool {
		return !o.has("options", "choices") && (o.has("statement") || tfngKey(o))
	}},
	{registry.KindWritingTask1, 1, func(o object) bool {
		return o.has("chart_image", "chart") && !o.has("options", "choices") && !o.has(answerKeyNames...)
	}},

	{registry.KindMCQMultiple, 2, func(o object) bool { return o.has("options", "choices") && multiKey(o) }},
	{registry.KindMCQSingle, 2, func(o object) bool { return o.has("options", "choices") && !multiKey(o) }},
	{registry.KindFillGapsShort, 2, func(o object) bool {
		n, ok := intField(o, "max_words", "word_limit")
		return o.has("text_with_blanks") && ok && n <= 2
	}},
	{registry.KindFillGaps, 2, func(o object) bool {
		n, ok := intField(o, "max_words", "word_limit")
		return o.has("text_with_blanks") && (!ok || n > 2)
	}},
	{registry.KindWritingTask2, 2, func(o object) bool {
		n, ok := intField(o, "min_words", "min_word_count", "minimum_words")
		return ok && n >= 200 && !o.has(answerKeyNames...) && !o.has("options", "choices")
	}},
	{registry.KindWritingTask1, 2, func(o object) bool {
		n, ok := intField(o, "min_words", "min_word_count", "minimum_words")
		return ok && n < 200 && !o.has(answerKeyNames...) && !o.has("options", "choices")
	}},
	{registry.KindSentenceCompletion, 2, func(o object) bool {
		return o.has("prompt", "question", "question_text", "text") && o.has(answerKeyNames...) &&
			!o.has("options", "choices", "text_with_blanks")
	}},
}

// detect returns the matching kinds at the first priority level that has any.
func detect(o object) []registry.Kind {
	best := 0
	var out []registry.Kind
	for _, r := range detectRules {
		if best != 0 && r.priority > best {
			break
		}
		if !r.match(o) {
			continue
		}
		if best == 0 {
			best = r.priority
		}
		if !containsKind(out, r.kind) {
			out = append(out, r.kind)
		}
	}
	return out
}

func containsKind(ks []registry.Kind, k registry.Kind) bool {
	for _, x := range ks {
		if x == k {
			return true
		}
	}
	return false
}

// tfngKey reports whether the answer key looks like a True/False/Not Given value.
func tfngKey(o object) bool {
	v, _, ok := o.get("correct", "answer", "correct_answer", "answer_key")
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return true
	case string:
		switch registry.NormalizeText(strings.NewReplacer("_", " ", "-", " ").Replace(t)) {
		case "true", "false", "not given", "notgiven", "ng":
			return true
		}
	}
	return false
}

// multiKey reports whether an option question's key names more than one option.
func multiKey(o object) bool {
	if o.has("correct_option_ids", "correct_options", "correct_answers") {
		return true
	}
	v, _, ok := o.get(answerKeyNames...)
	if !ok {
		return false
	}
	if list, ok := v.([]any); ok {
		return len(list) > 1
	}
	return false
}

func intField(o object, names ...string) (int, bool) {
	v, _, ok := o.get(names...)
	if !ok {
		return 0, false
	}
	n, err := toInt(v)
	return n, err == nil
}
