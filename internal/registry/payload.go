package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lshigami/ieltsprep/internal/validation"
)

// Payload is the typed body of one question. The set of implementations is
// closed: one struct per registered Kind.
type Payload interface {
	Kind() Kind
	// MissingAnswerKey reports whether the answer key is absent or has empty entries.
	MissingAnswerKey() bool
	// Redact returns a copy safe to show candidates.
	Redact() Payload

	check(c *checker, m *Matcher)
	grade(m *Matcher, a Answer) Outcome
}

// Outcome is the result of one comparator run.
type Outcome struct {
	Fraction float64
	Verdict  Verdict
	Notes    []string
}

func fractionOutcome(correct, total int) Outcome {
	if total <= 0 {
		return Outcome{Verdict: VerdictNeedsManual, Notes: []string{"answer key has no entries"}}
	}
	f := float64(correct) / float64(total)
	switch {
	case correct == total:
		return Outcome{Fraction: 1, Verdict: VerdictCorrect}
	case correct == 0:
		return Outcome{Fraction: 0, Verdict: VerdictIncorrect}
	default:
		return Outcome{Fraction: f, Verdict: VerdictPartial}
	}
}

func boolOutcome(ok bool) Outcome {
	if ok {
		return fractionOutcome(1, 1)
	}
	return fractionOutcome(0, 1)
}

// Item is an option, heading, paragraph, label or similar addressable entry.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type checker struct {
	errs validation.Errors
}

func (c *checker) add(path, format string, args ...any) {
	c.errs = append(c.errs, validation.New(validation.KindSchemaViolation, path, format, args...))
}

func (c *checker) text(path, v string) {
	if strings.TrimSpace(v) == "" {
		c.add(path, "is required")
	}
}

// items validates a list of addressable entries and returns their normalized ids.
func (c *checker) items(path string, items []Item, min int, needText bool) map[string]bool {
	ids := make(map[string]bool, len(items))
	if len(items) < min {
		c.add(path, "needs at least %d entries, got %d", min, len(items))
	}
	for i, it := range items {
		p := validation.Index(path, i)
		id := NormalizeText(it.ID)
		if id == "" {
			c.add(p+".id", "is required")
			continue
		}
		if ids[id] {
			c.add(p+".id", "duplicate id %q", it.ID)
		}
		ids[id] = true
		if needText && strings.TrimSpace(it.Text) == "" {
			c.add(p+".text", "is required")
		}
	}
	return ids
}

func has(ids map[string]bool, id string) bool {
	return ids[NormalizeText(id)]
}

// ---- multiple choice ----

type MCQSingle struct {
	Prompt          string `json:"prompt"`
	Options         []Item `json:"options"`
	CorrectOptionID string `json:"correct_option_id,omitempty"`
}

func (*MCQSingle) Kind() Kind { return KindMCQSingle }

func (p *MCQSingle) MissingAnswerKey() bool { return strings.TrimSpace(p.CorrectOptionID) == "" }

func (p *MCQSingle) Redact() Payload {
	cp := *p
	cp.CorrectOptionID = ""
	return &cp
}

func (p *MCQSingle) check(c *checker, _ *Matcher) {
	c.text("prompt", p.Prompt)
	ids := c.items("options", p.Options, 2, true)
	if p.CorrectOptionID != "" && !has(ids, p.CorrectOptionID) {
		c.add("correct_option_id", "%q is not one of the options", p.CorrectOptionID)
	}
}

func (p *MCQSingle) grade(_ *Matcher, a Answer) Outcome {
	return boolOutcome(sameID(a.Text, p.CorrectOptionID))
}

type MCQMultiple struct {
	Prompt           string   `json:"prompt"`
	Options          []Item   `json:"options"`
	CorrectOptionIDs []string `json:"correct_option_ids,omitempty"`
}

func (*MCQMultiple) Kind() Kind { return KindMCQMultiple }

func (p *MCQMultiple) MissingAnswerKey() bool {
	if len(p.CorrectOptionIDs) == 0 {
		return true
	}
	for _, id := range p.CorrectOptionIDs {
		if strings.TrimSpace(id) == "" {
			return true
		}
	}
	return false
}

func (p *MCQMultiple) Redact() Payload {
	cp := *p
	cp.CorrectOptionIDs = nil
	return &cp
}

func (p *MCQMultiple) check(c *checker, _ *Matcher) {
	c.text("prompt", p.Prompt)
	ids := c.items("options", p.Options, 3, true)
	seen := map[string]bool{}
	for i, id := range p.CorrectOptionIDs {
		if id == "" {
			continue
		}
		path := validation.Index("correct_option_ids", i)
		if !has(ids, id) {
			c.add(path, "%q is not one of the options", id)
		}
		if seen[NormalizeText(id)] {
			c.add(path, "duplicate option id %q", id)
		}
		seen[NormalizeText(id)] = true
	}
	if len(p.CorrectOptionIDs) > len(p.Options) {
		c.add("correct_option_ids", "has more entries than there are options")
	}
}

// Exact set equality: no partial credit inside one item.
func (p *MCQMultiple) grade(_ *Matcher, a Answer) Outcome {
	want := map[string]bool{}
	for _, id := range p.CorrectOptionIDs {
		want[NormalizeText(id)] = true
	}
	got := map[string]bool{}
	for _, id := range a.List {
		if n := NormalizeText(id); n != "" {
			got[n] = true
		}
	}
	if len(got) != len(want) {
		return boolOutcome(false)
	}
	for id := range want {
		if !got[id] {
			return boolOutcome(false)
		}
	}
	return boolOutcome(true)
}

// ---- ordered blanks ----

// BlankKeys holds one key per blank, in blank order.
type BlankKeys struct {
	AnswerKeys     []string `json:"answer_keys"`
	MaxWords       int      `json:"max_words,omitempty"`
	IgnoreArticles bool     `json:"ignore_articles,omitempty"`
}

func (b BlankKeys) missing() bool {
	if len(b.AnswerKeys) == 0 {
		return true
	}
	for _, k := range b.AnswerKeys {
		if strings.TrimSpace(k) == "" {
			return true
		}
	}
	return false
}

func (b BlankKeys) redacted() BlankKeys {
	b.AnswerKeys = make([]string, len(b.AnswerKeys))
	return b
}

func (b BlankKeys) check(c *checker, m *Matcher, text string, minWords, maxWords int) {
	if len(b.AnswerKeys) == 0 {
		c.add("answer_keys", "needs at least one entry")
	}
	if n := CountBlanks(text); n > 0 && len(b.AnswerKeys) > 0 && n != len(b.AnswerKeys) {
		c.add("answer_keys", "text has %d blanks but %d answer keys", n, len(b.AnswerKeys))
	}
	if b.MaxWords < minWords || (maxWords > 0 && b.MaxWords > maxWords) {
		if maxWords > 0 {
			c.add("max_words", "must be between %d and %d, got %d", minWords, maxWords, b.MaxWords)
		} else {
			c.add("max_words", "must be at least %d, got %d", minWords, b.MaxWords)
		}
	}
	if b.MaxWords <= 0 {
		return
	}
	for i, k := range b.AnswerKeys {
		if n := m.keyWords(k, b.IgnoreArticles); n > b.MaxWords {
			c.add(validation.Index("answer_keys", i), "key %q has %d words, over max_words %d", k, n, b.MaxWords)
		}
	}
}

func (b BlankKeys) grade(m *Matcher, a Answer) Outcome {
	correct := 0
	for i, key := range b.AnswerKeys {
		if i >= len(a.List) {
			break
		}
		if m.MatchBlank(key, a.List[i], b.MaxWords, b.IgnoreArticles) {
			correct++
		}
	}
	return fractionOutcome(correct, len(b.AnswerKeys))
}

type SentenceCompletion struct {
	Prompt string `json:"prompt"`
	BlankKeys
}

func (*SentenceCompletion) Kind() Kind { return KindSentenceCompletion }
func (p *SentenceCompletion) MissingAnswerKey() bool { return p.missing() }
func (p *SentenceCompletion) grade(m *Matcher, a Answer) Outcome { return p.BlankKeys.grade(m, a) }

func (p *SentenceCompletion) Redact() Payload {
	cp := *p
	cp.BlankKeys = p.redacted()
	return &cp
}

func (p *SentenceCompletion) check(c *checker, m *Matcher) {
	c.text("prompt", p.Prompt)
	p.BlankKeys.check(c, m, p.Prompt, 1, 0)
}

type FillGaps struct {
	TextWithBlanks string `json:"text_with_blanks"`
	BlankKeys
}

func (*FillGaps) Kind() Kind { return KindFillGaps }
func (p *FillGaps) MissingAnswerKey() bool { return p.missing() }
func (p *FillGaps) grade(m *Matcher, a Answer) Outcome { return p.BlankKeys.grade(m, a) }

func (p *FillGaps) Redact() Payload {
	cp := *p
	cp.BlankKeys = p.redacted()
	return &cp
}

func (p *FillGaps) check(c *checker, m *Matcher) {
	c.text("text_with_blanks", p.TextWithBlanks)
	p.BlankKeys.check(c, m, p.TextWithBlanks, 1, 0)
}

// FillGapsShort is fill_gaps restricted to answers of at most ShortMaxWords words.
type FillGapsShort struct {
	TextWithBlanks string `json:"text_with_blanks"`
	BlankKeys
}

func (*FillGapsShort) Kind() Kind { return KindFillGapsShort }
func (p *FillGapsShort) MissingAnswerKey() bool { return p.missing() }
func (p *FillGapsShort) grade(m *Matcher, a Answer) Outcome { return p.BlankKeys.grade(m, a) }

func (p *FillGapsShort) Redact() Payload {
	cp := *p
	cp.BlankKeys = p.redacted()
	return &cp
}

func (p *FillGapsShort) check(c *checker, m *Matcher) {
	c.text("text_with_blanks", p.TextWithBlanks)
	p.BlankKeys.check(c, m, p.TextWithBlanks, 1, ShortMaxWords)
}

type NoteCompletion struct {
	NoteTemplate string `json:"note_template"`
	BlankKeys
}

func (*NoteCompletion) Kind() Kind { return KindNoteCompletion }
func (p *NoteCompletion) MissingAnswerKey() bool { return p.missing() }
func (p *NoteCompletion) grade(m *Matcher, a Answer) Outcome { return p.BlankKeys.grade(m, a) }

func (p *NoteCompletion) Redact() Payload {
	cp := *p
	cp.BlankKeys = p.redacted()
	return &cp
}

func (p *NoteCompletion) check(c *checker, m *Matcher) {
	c.text("note_template", p.NoteTemplate)
	p.BlankKeys.check(c, m, p.NoteTemplate, 1, 0)
}

// SummaryCompletion may carry a word bank; max_words is optional (0 = no limit).
type SummaryCompletion struct {
	SummaryWithBlanks string   `json:"summary_with_blanks"`
	WordBank          []string `json:"word_bank,omitempty"`
	BlankKeys
}

func (*SummaryCompletion) Kind() Kind { return KindSummaryCompletion }
func (p *SummaryCompletion) MissingAnswerKey() bool { return p.missing() }
func (p *SummaryCompletion) grade(m *Matcher, a Answer) Outcome { return p.BlankKeys.grade(m, a) }

func (p *SummaryCompletion) Redact() Payload {
	cp := *p
	cp.BlankKeys = p.redacted()
	return &cp
}

func (p *SummaryCompletion) check(c *checker, m *Matcher) {
	c.text("summary_with_blanks", p.SummaryWithBlanks)
	p.BlankKeys.check(c, m, p.SummaryWithBlanks, 0, 0)
	if len(p.WordBank) == 0 {
		return
	}
	bank := map[string]bool{}
	for _, w := range p.WordBank {
		bank[NormalizeText(w)] = true
	}
	for i, k := range p.AnswerKeys {
		if k == "" {
			continue
		}
		found := false
		for _, alt := range Alternatives(k) {
			if bank[NormalizeText(alt)] {
				found = true
				break
			}
		}
		if !found {
			c.add(validation.Index("answer_keys", i), "key %q is not in the word bank", k)
		}
	}
}

// ---- keyed blanks ----

// CellKeys holds one key per template field, cell or node id.
type CellKeys struct {
	AnswerKeys     map[string]string `json:"answer_keys,omitempty"`
	MaxWords       int               `json:"max_words,omitempty"`
	IgnoreArticles bool              `json:"ignore_articles,omitempty"`
}

func (k CellKeys) missing() bool {
	if len(k.AnswerKeys) == 0 {
		return true
	}
	for _, v := range k.AnswerKeys {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func (k CellKeys) redacted() CellKeys {
	if k.AnswerKeys == nil {
		return k
	}
	blank := make(map[string]string, len(k.AnswerKeys))
	for id := range k.AnswerKeys {
		blank[id] = ""
	}
	k.AnswerKeys = blank
	return k
}

// check validates keys against the ids the template exposes (nil = any id).
func (k CellKeys) check(c *checker, m *Matcher, ids []string) {
	if len(k.AnswerKeys) == 0 {
		c.add("answer_keys", "needs at least one entry")
	}
	if k.MaxWords < 1 {
		c.add("max_words", "must be at least 1, got %d", k.MaxWords)
	}
	if ids != nil {
		known := map[string]bool{}
		for _, id := range ids {
			known[id] = true
			if _, ok := k.AnswerKeys[id]; !ok && len(k.AnswerKeys) > 0 {
				c.add("answer_keys", "no entry for %q", id)
			}
		}
		for _, id := range sortedKeys(k.AnswerKeys) {
			if !known[id] {
				c.add("answer_keys."+id, "%q does not appear in the template", id)
			}
		}
	}
	if k.MaxWords <= 0 {
		return
	}
	for _, id := range sortedKeys(k.AnswerKeys) {
		if n := m.keyWords(k.AnswerKeys[id], k.IgnoreArticles); n > k.MaxWords {
			c.add("answer_keys."+id, "key has %d words, over max_words %d", n, k.MaxWords)
		}
	}
}

func (k CellKeys) grade(m *Matcher, a Answer) Outcome {
	correct := 0
	for id, key := range k.AnswerKeys {
		got, ok := lookupFold(a.Map, id)
		if ok && m.MatchBlank(key, got, k.MaxWords, k.IgnoreArticles) {
			correct++
		}
	}
	return fractionOutcome(correct, len(k.AnswerKeys))
}

type FormCompletion struct {
	FormTemplate string `json:"form_template"`
	CellKeys
}

func (*FormCompletion) Kind() Kind { return KindFormCompletion }
func (p *FormCompletion) MissingAnswerKey() bool { return p.missing() }
func (p *FormCompletion) grade(m *Matcher, a Answer) Outcome { return p.CellKeys.grade(m, a) }

func (p *FormCompletion) Redact() Payload {
	cp := *p
	cp.CellKeys = p.redacted()
	return &cp
}

func (p *FormCompletion) check(c *checker, m *Matcher) {
	c.text("form_template", p.FormTemplate)
	p.CellKeys.check(c, m, nilIfEmpty(Placeholders(p.FormTemplate)))
}

// TableCompletion's template is a grid of cells; blank cells hold {{cell_id}}.
type TableCompletion struct {
	TableTemplate [][]string `json:"table_template"`
	CellKeys
}

func (*TableCompletion) Kind() Kind { return KindTableCompletion }
func (p *TableCompletion) MissingAnswerKey() bool { return p.missing() }
func (p *TableCompletion) grade(m *Matcher, a Answer) Outcome { return p.CellKeys.grade(m, a) }

func (p *TableCompletion) Redact() Payload {
	cp := *p
	cp.CellKeys = p.redacted()
	return &cp
}

// CellIDs lists the {{id}} placeholders of the grid in row-major order.
func (p *TableCompletion) CellIDs() []string {
	var rows []string
	for _, row := range p.TableTemplate {
		rows = append(rows, strings.Join(row, " "))
	}
	return Placeholders(strings.Join(rows, "\n"))
}

func (p *TableCompletion) check(c *checker, m *Matcher) {
	if len(p.TableTemplate) == 0 {
		c.add("table_template", "is required")
	}
	p.CellKeys.check(c, m, nilIfEmpty(p.CellIDs()))
}

type FlowchartCompletion struct {
	Nodes []Item `json:"nodes"`
	CellKeys
}

func (*FlowchartCompletion) Kind() Kind { return KindFlowchartCompletion }
func (p *FlowchartCompletion) MissingAnswerKey() bool { return p.missing() }
func (p *FlowchartCompletion) grade(m *Matcher, a Answer) Outcome { return p.CellKeys.grade(m, a) }

func (p *FlowchartCompletion) Redact() Payload {
	cp := *p
	cp.CellKeys = p.redacted()
	return &cp
}

func (p *FlowchartCompletion) check(c *checker, m *Matcher) {
	c.items("nodes", p.Nodes, 2, false)
	ids := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		ids = append(ids, n.ID)
	}
	if len(p.AnswerKeys) == 0 {
		c.add("answer_keys", "needs at least one entry")
	}
	known := map[string]bool{}
	for _, id := range ids {
		known[id] = true
	}
	for _, id := range sortedKeys(p.AnswerKeys) {
		if !known[id] {
			c.add("answer_keys."+id, "%q is not a node id", id)
		}
	}
	if p.MaxWords < 1 {
		c.add("max_words", "must be at least 1, got %d", p.MaxWords)
		return
	}
	for _, id := range sortedKeys(p.AnswerKeys) {
		if n := m.keyWords(p.AnswerKeys[id], p.IgnoreArticles); n > p.MaxWords {
			c.add("answer_keys."+id, "key has %d words, over max_words %d", n, p.MaxWords)
		}
	}
}

// ---- matching ----

// pairs checks and grades a source->target mapping shared by all matching kinds.
type pairs struct {
	srcPath, tgtPath string
	src, tgt         []Item
	mapping          map[string]string
}

func (pr pairs) check(c *checker, minSrc, minTgt int) {
	srcIDs := c.items(pr.srcPath, pr.src, minSrc, true)
	tgtIDs := c.items(pr.tgtPath, pr.tgt, minTgt, pr.tgtPath != "positions")
	for _, k := range sortedKeys(pr.mapping) {
		if !has(srcIDs, k) {
			c.add("mapping."+k, "%q is not one of %s", k, pr.srcPath)
		}
		if v := pr.mapping[k]; v != "" && !has(tgtIDs, v) {
			c.add("mapping."+k, "%q is not one of %s", v, pr.tgtPath)
		}
	}
	if len(pr.mapping) == 0 {
		return
	}
	for _, it := range pr.src {
		if _, ok := lookupFold(pr.mapping, it.ID); !ok {
			c.add("mapping", "no entry for %s %q", strings.TrimSuffix(pr.srcPath, "s"), it.ID)
		}
	}
}

// Fraction of correctly matched pairs.
func (pr pairs) grade(a Answer) Outcome {
	correct := 0
	for src, want := range pr.mapping {
		got, ok := lookupFold(a.Map, src)
		if ok && sameID(got, want) {
			correct++
		}
	}
	return fractionOutcome(correct, len(pr.mapping))
}

func mappingMissing(m map[string]string) bool {
	if len(m) == 0 {
		return true
	}
	for _, v := range m {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

func redactMapping(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k := range m {
		out[k] = ""
	}
	return out
}

// Matching maps left item ids to right item ids.
type Matching struct {
	LeftItems  []Item            `json:"left_items"`
	RightItems []Item            `json:"right_items"`
	Mapping    map[string]string `json:"mapping,omitempty"`
}

func (*Matching) Kind() Kind { return KindMatching }
func (p *Matching) MissingAnswerKey() bool { return mappingMissing(p.Mapping) }

func (p *Matching) Redact() Payload {
	cp := *p
	cp.Mapping = redactMapping(p.Mapping)
	return &cp
}

func (p *Matching) pairs() pairs {
	return pairs{"left_items", "right_items", p.LeftItems, p.RightItems, p.Mapping}
}
func (p *Matching) check(c *checker, _ *Matcher) { p.pairs().check(c, 1, 2) }
func (p *Matching) grade(_ *Matcher, a Answer) Outcome { return p.pairs().grade(a) }

// MapLabelling maps label ids to position ids on a plan or diagram.
type MapLabelling struct {
	MapImage  string            `json:"map_image,omitempty"`
	Labels    []Item            `json:"labels"`
	Positions []Item            `json:"positions"`
	Mapping   map[string]string `json:"mapping,omitempty"`
}

func (*MapLabelling) Kind() Kind { return KindMapLabelling }
func (p *MapLabelling) MissingAnswerKey() bool { return mappingMissing(p.Mapping) }

func (p *MapLabelling) Redact() Payload {
	cp := *p
	cp.Mapping = redactMapping(p.Mapping)
	return &cp
}

func (p *MapLabelling) pairs() pairs {
	return pairs{"labels", "positions", p.Labels, p.Positions, p.Mapping}
}
func (p *MapLabelling) check(c *checker, _ *Matcher) { p.pairs().check(c, 1, 2) }
func (p *MapLabelling) grade(_ *Matcher, a Answer) Outcome { return p.pairs().grade(a) }

// MatchingHeadings maps paragraph ids to heading ids.
type MatchingHeadings struct {
	Headings   []Item            `json:"headings"`
	Paragraphs []Item            `json:"paragraphs"`
	Mapping    map[string]string `json:"mapping,omitempty"`
}

func (*MatchingHeadings) Kind() Kind { return KindMatchingHeadings }
func (p *MatchingHeadings) MissingAnswerKey() bool { return mappingMissing(p.Mapping) }

func (p *MatchingHeadings) Redact() Payload {
	cp := *p
	cp.Mapping = redactMapping(p.Mapping)
	return &cp
}

func (p *MatchingHeadings) pairs() pairs {
	return pairs{"paragraphs", "headings", p.Paragraphs, p.Headings, p.Mapping}
}
func (p *MatchingHeadings) check(c *checker, _ *Matcher) { p.pairs().check(c, 1, 2) }
func (p *MatchingHeadings) grade(_ *Matcher, a Answer) Outcome { return p.pairs().grade(a) }

// MatchingFeatures maps item ids to feature ids.
type MatchingFeatures struct {
	Features []Item            `json:"features"`
	Items    []Item            `json:"items"`
	Mapping  map[string]string `json:"mapping,omitempty"`
}

func (*MatchingFeatures) Kind() Kind { return KindMatchingFeatures }
func (p *MatchingFeatures) MissingAnswerKey() bool { return mappingMissing(p.Mapping) }

func (p *MatchingFeatures) Redact() Payload {
	cp := *p
	cp.Mapping = redactMapping(p.Mapping)
	return &cp
}

func (p *MatchingFeatures) pairs() pairs {
	return pairs{"items", "features", p.Items, p.Features, p.Mapping}
}
func (p *MatchingFeatures) check(c *checker, _ *Matcher) { p.pairs().check(c, 1, 2) }
func (p *MatchingFeatures) grade(_ *Matcher, a Answer) Outcome { return p.pairs().grade(a) }

// MatchingEndings maps sentence stem ids to ending ids.
type MatchingEndings struct {
	Stems   []Item            `json:"stems"`
	Endings []Item            `json:"endings"`
	Mapping map[string]string `json:"mapping,omitempty"`
}

func (*MatchingEndings) Kind() Kind { return KindMatchingEndings }
func (p *MatchingEndings) MissingAnswerKey() bool { return mappingMissing(p.Mapping) }

func (p *MatchingEndings) Redact() Payload {
	cp := *p
	cp.Mapping = redactMapping(p.Mapping)
	return &cp
}

func (p *MatchingEndings) pairs() pairs {
	return pairs{"stems", "endings", p.Stems, p.Endings, p.Mapping}
}
func (p *MatchingEndings) check(c *checker, _ *Matcher) { p.pairs().check(c, 1, 2) }
func (p *MatchingEndings) grade(_ *Matcher, a Answer) Outcome { return p.pairs().grade(a) }

// ---- true / false / not given ----

type TrueFalseNG struct {
	Statement string `json:"statement"`
	Correct   string `json:"correct,omitempty"`
}

func (*TrueFalseNG) Kind() Kind { return KindTrueFalseNG }
func (p *TrueFalseNG) MissingAnswerKey() bool { return strings.TrimSpace(p.Correct) == "" }

func (p *TrueFalseNG) Redact() Payload {
	cp := *p
	cp.Correct = ""
	return &cp
}

func (p *TrueFalseNG) check(c *checker, _ *Matcher) {
	c.text("statement", p.Statement)
	switch p.Correct {
	case "", TFNGTrue, TFNGFalse, TFNGNotGiven:
	default:
		c.add("correct", "must be one of %q, %q, %q; got %q", TFNGTrue, TFNGFalse, TFNGNotGiven, p.Correct)
	}
}

func (p *TrueFalseNG) grade(_ *Matcher, a Answer) Outcome {
	got, ok := CanonicalTFNG(a.Text)
	return boolOutcome(ok && got == p.Correct)
}

// ---- writing ----

type WritingTask1 struct {
	Prompt     string `json:"prompt"`
	ChartImage string `json:"chart_image,omitempty"`
	MinWords   int    `json:"min_words"`
}

func (*WritingTask1) Kind() Kind { return KindWritingTask1 }
func (*WritingTask1) MissingAnswerKey() bool { return false }
func (p *WritingTask1) Redact() Payload { cp := *p; return &cp }

func (p *WritingTask1) check(c *checker, _ *Matcher) {
	c.text("prompt", p.Prompt)
	if p.MinWords < minTask1Words {
		c.add("min_words", "must be at least %d, got %d", minTask1Words, p.MinWords)
	}
}

func (p *WritingTask1) grade(_ *Matcher, a Answer) Outcome { return writingOutcome(a.Text, p.MinWords) }

type WritingTask2 struct {
	Prompt   string `json:"prompt"`
	MinWords int    `json:"min_words"`
}

func (*WritingTask2) Kind() Kind { return KindWritingTask2 }
func (*WritingTask2) MissingAnswerKey() bool { return false }
func (p *WritingTask2) Redact() Payload { cp := *p; return &cp }

func (p *WritingTask2) check(c *checker, _ *Matcher) {
	c.text("prompt", p.Prompt)
	if p.MinWords < minTask2Words {
		c.add("min_words", "must be at least %d, got %d", minTask2Words, p.MinWords)
	}
}

func (p *WritingTask2) grade(_ *Matcher, a Answer) Outcome { return writingOutcome(a.Text, p.MinWords) }

// Writing is never autograded; the note helps the human grader.
func writingOutcome(text string, minWords int) Outcome {
	n := WordCount(text)
	out := Outcome{Verdict: VerdictNeedsManual, Notes: []string{fmt.Sprintf("word count %d", n)}}
	if n < minWords {
		out.Notes = append(out.Notes, fmt.Sprintf("below minimum of %d words", minWords))
	}
	return out
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
