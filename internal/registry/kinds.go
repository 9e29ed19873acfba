package registry

// Kind names a registered IELTS question type.
type Kind string

const (
	KindMCQSingle           Kind = "mcq_single"
	KindMCQMultiple         Kind = "mcq_multiple"
	KindSentenceCompletion  Kind = "sentence_completion"
	KindFormCompletion      Kind = "form_completion"
	KindTableCompletion     Kind = "table_completion"
	KindFlowchartCompletion Kind = "flowchart_completion"
	KindFillGaps            Kind = "fill_gaps"
	KindFillGapsShort       Kind = "fill_gaps_short"
	KindMatching            Kind = "matching"
	KindMapLabelling        Kind = "map_labelling"
	KindTrueFalseNG         Kind = "true_false_ng"
	KindMatchingHeadings    Kind = "matching_headings"
	KindMatchingFeatures    Kind = "matching_features"
	KindMatchingEndings     Kind = "matching_endings"
	KindNoteCompletion      Kind = "note_completion"
	KindSummaryCompletion   Kind = "summary_completion"
	KindWritingTask1        Kind = "writing_task1"
	KindWritingTask2        Kind = "writing_task2"
)

// Skill is the IELTS paper a kind belongs to.
type Skill string

const (
	SkillListening Skill = "listening"
	SkillReading   Skill = "reading"
	SkillWriting   Skill = "writing"
)

// AnswerShape describes the value a candidate submits for a kind.
type AnswerShape string

const (
	ShapeOptionID   AnswerShape = "option_id"
	ShapeOptionSet  AnswerShape = "option_set"
	ShapeStringList AnswerShape = "string_list"
	ShapeStringMap  AnswerShape = "string_map"
	ShapeEnum       AnswerShape = "enum"
	ShapeFreeText   AnswerShape = "free_text"
)

// Verdict is the per-question grading outcome.
type Verdict string

const (
	VerdictCorrect     Verdict = "correct"
	VerdictPartial     Verdict = "partial"
	VerdictIncorrect   Verdict = "incorrect"
	VerdictNeedsManual Verdict = "needs_manual"
	VerdictUnanswered  Verdict = "unanswered"
)

// Grading rule references, one per comparator family.
const (
	RuleOptionEquality = "option_equality"
	RuleExactSet       = "exact_set"
	RuleBlankList      = "blank_list"
	RuleBlankMap       = "blank_map"
	RulePairMatch      = "pair_match"
	RuleEnumEquality   = "enum_equality"
	RuleManual         = "manual"
)

// FieldType tells the normalizer how to coerce a raw JSON value.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInt
	FieldBool
	FieldStringList
	FieldItems
	FieldStringMap
	FieldGrid
)

// Field declares one payload field of a kind.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	// AnswerKey marks the field holding the correct answer. A missing answer
	// key is deferred (needs_answer_key) rather than rejected.
	AnswerKey bool
	// Default is applied when the field is absent. Only used for ints.
	Default int
}

// Spec is the static registry entry for one kind.
type Spec struct {
	Kind   Kind
	Skill  Skill
	Fields []Field
	Shape  AnswerShape
	Rule   string
	Manual bool

	newPayload func() Payload
}

// AnswerKeyField returns the canonical answer key field, if the kind has one.
func (s Spec) AnswerKeyField() (Field, bool) {
	for _, f := range s.Fields {
		if f.AnswerKey {
			return f, true
		}
	}
	return Field{}, false
}

// Field looks up a declared field by name.
func (s Spec) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

const (
	defaultMaxWords      = 3
	defaultShortMaxWords = 2
	// ShortMaxWords is the largest word limit a fill_gaps_short item may carry.
	ShortMaxWords = 3

	defaultTask1MinWords = 150
	defaultTask2MinWords = 250
	minTask1Words        = 100
	minTask2Words        = 200
)

var (
	blankListFields = []Field{
		{Name: "answer_keys", Type: FieldStringList, AnswerKey: true},
		{Name: "max_words", Type: FieldInt, Default: defaultMaxWords},
		{Name: "ignore_articles", Type: FieldBool},
	}
	cellMapFields = []Field{
		{Name: "answer_keys", Type: FieldStringMap, AnswerKey: true},
		{Name: "max_words", Type: FieldInt, Default: defaultMaxWords},
		{Name: "ignore_articles", Type: FieldBool},
	}
)

func withFields(lead []Field, tail []Field) []Field {
	out := make([]Field, 0, len(lead)+len(tail))
	out = append(out, lead...)
	return append(out, tail...)
}

// specs is the closed catalogue. Adding a kind is one entry here plus its payload type.
var specs = []Spec{
	{
		Kind: KindMCQSingle, Skill: SkillListening, Shape: ShapeOptionID, Rule: RuleOptionEquality,
		Fields: []Field{
			{Name: "prompt", Type: FieldString, Required: true},
			{Name: "options", Type: FieldItems, Required: true},
			{Name: "correct_option_id", Type: FieldString, AnswerKey: true},
		},
		newPayload: func() Payload { return &MCQSingle{} },
	},
	{
		Kind: KindMCQMultiple, Skill: SkillListening, Shape: ShapeOptionSet, Rule: RuleExactSet,
		Fields: []Field{
			{Name: "prompt", Type: FieldString, Required: true},
			{Name: "options", Type: FieldItems, Required: true},
			{Name: "correct_option_ids", Type: FieldStringList, AnswerKey: true},
		},
		newPayload: func() Payload { return &MCQMultiple{} },
	},
	{
		Kind: KindSentenceCompletion, Skill: SkillListening, Shape: ShapeStringList, Rule: RuleBlankList,
		Fields:     withFields([]Field{{Name: "prompt", Type: FieldString, Required: true}}, blankListFields),
		newPayload: func() Payload { return &SentenceCompletion{} },
	},
	{
		Kind: KindFormCompletion, Skill: SkillListening, Shape: ShapeStringMap, Rule: RuleBlankMap,
		Fields:     withFields([]Field{{Name: "form_template", Type: FieldString, Required: true}}, cellMapFields),
		newPayload: func() Payload { return &FormCompletion{} },
	},
	{
		Kind: KindTableCompletion, Skill: SkillListening, Shape: ShapeStringMap, Rule: RuleBlankMap,
		Fields:     withFields([]Field{{Name: "table_template", Type: FieldGrid, Required: true}}, cellMapFields),
		newPayload: func() Payload { return &TableCompletion{} },
	},
	{
		Kind: KindFlowchartCompletion, Skill: SkillListening, Shape: ShapeStringMap, Rule: RuleBlankMap,
		Fields:     withFields([]Field{{Name: "nodes", Type: FieldItems, Required: true}}, cellMapFields),
		newPayload: func() Payload { return &FlowchartCompletion{} },
	},
	{
		Kind: KindFillGaps, Skill: SkillListening, Shape: ShapeStringList, Rule: RuleBlankList,
		Fields:     withFields([]Field{{Name: "text_with_blanks", Type: FieldString, Required: true}}, blankListFields),
		newPayload: func() Payload { return &FillGaps{} },
	},
	{
		Kind: KindFillGapsShort, Skill: SkillListening, Shape: ShapeStringList, Rule: RuleBlankList,
		Fields: []Field{
			{Name: "text_with_blanks", Type: FieldString, Required: true},
			{Name: "answer_keys", Type: FieldStringList, AnswerKey: true},
			{Name: "max_words", Type: FieldInt, Default: defaultShortMaxWords},
			{Name: "ignore_articles", Type: FieldBool},
		},
		newPayload: func() Payload { return &FillGapsShort{} },
	},
	{
		Kind: KindMatching, Skill: SkillListening, Shape: ShapeStringMap, Rule: RulePairMatch,
		Fields: []Field{
			{Name: "left_items", Type: FieldItems, Required: true},
			{Name: "right_items", Type: FieldItems, Required: true},
			{Name: "mapping", Type: FieldStringMap, AnswerKey: true},
		},
		newPayload: func() Payload { return &Matching{} },
	},
	{
		Kind: KindMapLabelling, Skill: SkillListening, Shape: ShapeStringMap, Rule: RulePairMatch,
		Fields: []Field{
			{Name: "map_image", Type: FieldString},
			{Name: "labels", Type: FieldItems, Required: true},
			{Name: "positions", Type: FieldItems, Required: true},
			{Name: "mapping", Type: FieldStringMap, AnswerKey: true},
		},
		newPayload: func() Payload { return &MapLabelling{} },
	},
	{
		Kind: KindTrueFalseNG, Skill: SkillReading, Shape: ShapeEnum, Rule: RuleEnumEquality,
		Fields: []Field{
			{Name: "statement", Type: FieldString, Required: true},
			{Name: "correct", Type: FieldString, AnswerKey: true},
		},
		newPayload: func() Payload { return &TrueFalseNG{} },
	},
	{
		Kind: KindMatchingHeadings, Skill: SkillReading, Shape: ShapeStringMap, Rule: RulePairMatch,
		Fields: []Field{
			{Name: "headings", Type: FieldItems, Required: true},
			{Name: "paragraphs", Type: FieldItems, Required: true},
			{Name: "mapping", Type: FieldStringMap, AnswerKey: true},
		},
		newPayload: func() Payload { return &MatchingHeadings{} },
	},
	{
		Kind: KindMatchingFeatures, Skill: SkillReading, Shape: ShapeStringMap, Rule: RulePairMatch,
		Fields: []Field{
			{Name: "features", Type: FieldItems, Required: true},
			{Name: "items", Type: FieldItems, Required: true},
			{Name: "mapping", Type: FieldStringMap, AnswerKey: true},
		},
		newPayload: func() Payload { return &MatchingFeatures{} },
	},
	{
		Kind: KindMatchingEndings, Skill: SkillReading, Shape: ShapeStringMap, Rule: RulePairMatch,
		Fields: []Field{
			{Name: "stems", Type: FieldItems, Required: true},
			{Name: "endings", Type: FieldItems, Required: true},
			{Name: "mapping", Type: FieldStringMap, AnswerKey: true},
		},
		newPayload: func() Payload { return &MatchingEndings{} },
	},
	{
		Kind: KindNoteCompletion, Skill: SkillReading, Shape: ShapeStringList, Rule: RuleBlankList,
		Fields:     withFields([]Field{{Name: "note_template", Type: FieldString, Required: true}}, blankListFields),
		newPayload: func() Payload { return &NoteCompletion{} },
	},
	{
		Kind: KindSummaryCompletion, Skill: SkillReading, Shape: ShapeStringList, Rule: RuleBlankList,
		Fields: []Field{
			{Name: "summary_with_blanks", Type: FieldString, Required: true},
			{Name: "word_bank", Type: FieldStringList},
			{Name: "answer_keys", Type: FieldStringList, AnswerKey: true},
			{Name: "max_words", Type: FieldInt},
			{Name: "ignore_articles", Type: FieldBool},
		},
		newPayload: func() Payload { return &SummaryCompletion{} },
	},
	{
		Kind: KindWritingTask1, Skill: SkillWriting, Shape: ShapeFreeText, Rule: RuleManual, Manual: true,
		Fields: []Field{
			{Name: "prompt", Type: FieldString, Required: true},
			{Name: "chart_image", Type: FieldString},
			{Name: "min_words", Type: FieldInt, Default: defaultTask1MinWords},
		},
		newPayload: func() Payload { return &WritingTask1{} },
	},
	{
		Kind: KindWritingTask2, Skill: SkillWriting, Shape: ShapeFreeText, Rule: RuleManual, Manual: true,
		Fields: []Field{
			{Name: "prompt", Type: FieldString, Required: true},
			{Name: "min_words", Type: FieldInt, Default: defaultTask2MinWords},
		},
		newPayload: func() Payload { return &WritingTask2{} },
	},
}
