// Package normalizer turns loosely shaped question JSON (hand-written or
// AI-generated) into canonical registry payloads.
package normalizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/validation"
)

const defaultMarks = 1

// Question is a canonical question record.
type Question struct {
	// Index is the source question number, 0 when the source gave none.
	Index          int
	Kind           registry.Kind
	Marks          int
	NeedsAnswerKey bool
	Payload        registry.Payload
}

// MarshalJSON flattens the payload next to type, marks and index so the
// output is itself a valid normalizer input.
func (q Question) MarshalJSON() ([]byte, error) {
	body, err := json.Marshal(q.Payload)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}
	m["type"] = q.Kind
	m["marks"] = q.Marks
	if q.Index > 0 {
		m["index"] = q.Index
	}
	return json.Marshal(m)
}

// Normalizer is stateless apart from the registry it validates against.
type Normalizer struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Normalizer {
	if reg == nil {
		reg = registry.Default()
	}
	return &Normalizer{reg: reg}
}

// Normalize decodes raw JSON and normalizes it. The returned errors hold both
// fatal problems and warnings; callers check errs.HasFatal().
func (n *Normalizer) Normalize(raw []byte) (Question, validation.Errors) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return Question{}, validation.Errors{validation.New(validation.KindMalformedDocument, "", "question is not valid JSON: %v", err)}
	}
	return n.NormalizeValue(v)
}

// NormalizeValue normalizes an already decoded value. Numbers may be
// json.Number or float64.
func (n *Normalizer) NormalizeValue(v any) (Question, validation.Errors) {
	m, ok := v.(map[string]any)
	if !ok {
		return Question{}, validation.Errors{validation.New(validation.KindMalformedDocument, "", "question must be a JSON object")}
	}
	o := canonicalObject(m)

	var (
		q    Question
		errs validation.Errors
	)
	q.Index, errs = readIndex(o, errs)
	q.Marks, errs = readMarks(o, errs)

	kind, kindErr := n.detectKind(o)
	if kindErr != nil {
		return q, append(errs, *kindErr)
	}
	q.Kind = kind
	spec, _ := n.reg.Lookup(kind)

	payload, perrs := n.build(spec, o)
	errs = append(errs, perrs...)
	if payload == nil {
		return q, errs
	}
	q.Payload = payload
	if keyField, ok := spec.AnswerKeyField(); ok && payload.MissingAnswerKey() {
		q.NeedsAnswerKey = true
		errs = append(errs, validation.New(validation.KindMissingAnswerKey, keyField.Name, "answer key is missing; the item is graded manually until it is filled"))
	}
	return q, errs
}

func readIndex(o object, errs validation.Errors) (int, validation.Errors) {
	v, name, ok := o.get(indexNames...)
	if !ok {
		return 0, errs
	}
	idx, err := toInt(v)
	if err != nil || idx < 1 {
		return 0, append(errs, validation.New(validation.KindSchemaViolation, name, "must be a positive integer"))
	}
	return idx, errs
}

func readMarks(o object, errs validation.Errors) (int, validation.Errors) {
	v, name, ok := o.get(marksNames...)
	if !ok {
		return defaultMarks, errs
	}
	marks, err := toInt(v)
	if err != nil || marks < 1 {
		return defaultMarks, append(errs, validation.New(validation.KindSchemaViolation, name, "must be a positive integer"))
	}
	return marks, errs
}

func (n *Normalizer) detectKind(o object) (registry.Kind, *validation.Error) {
	explicit := ""
	if v, _, ok := o.get(typeNames...); ok {
		if s, err := toScalar(v); err == nil && s != "" {
			explicit = s
			if k, ok := ResolveKind(n.reg, s); ok {
				return k, nil
			}
		}
	}
	kinds := detect(o)
	switch len(kinds) {
	case 1:
		return kinds[0], nil
	case 0:
		if explicit != "" {
			e := validation.New(validation.KindUnknownKind, "type", "%q is not a registered kind and the fields match none", explicit)
			return "", &e
		}
		e := validation.New(validation.KindUnknownKind, "", "could not detect the question kind from its fields")
		return "", &e
	default:
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = string(k)
		}
		e := validation.New(validation.KindAmbiguousKind, "", "fields match several kinds: %s", strings.Join(names, ", "))
		return "", &e
	}
}

// build coerces the fields a kind declares, fills defaults and deferred keys,
// then decodes and validates through the registry.
func (n *Normalizer) build(spec registry.Spec, o object) (registry.Payload, validation.Errors) {
	used := map[string]bool{}
	for _, names := range [][]string{typeNames, marksNames, indexNames} {
		for _, name := range names {
			used[name] = true
		}
	}

	var errs validation.Errors
	out := map[string]any{}
	positional := map[string][]any{}
	body := ""

	for _, f := range spec.Fields {
		v, name, ok := lookupField(o, f, used)
		if !ok {
			if f.Type == registry.FieldInt && f.Default != 0 {
				out[f.Name] = f.Default
			}
			continue
		}
		used[name] = true
		val, err := coerceField(f, v)
		if errors.Is(err, errPositional) {
			positional[f.Name] = v.([]any)
			continue
		}
		if err != nil {
			errs = append(errs, validation.New(validation.KindSchemaViolation, f.Name, "%v", err))
			continue
		}
		if s, ok := val.(string); ok && f.Required && f.Type == registry.FieldString && body == "" {
			body = s
		}
		out[f.Name] = val
	}

	for name, list := range positional {
		ids := keyIDs(spec.Kind, out)
		if len(ids) != len(list) {
			errs = append(errs, validation.New(validation.KindSchemaViolation, name,
				"has %d positional entries but the item exposes %d ids", len(list), len(ids)))
			continue
		}
		m := make(map[string]string, len(ids))
		for i, id := range ids {
			s, err := toScalar(list[i])
			if err != nil {
				errs = append(errs, validation.New(validation.KindSchemaViolation, validation.Index(name, i), "%v", err))
				continue
			}
			m[id] = s
		}
		out[name] = m
	}

	resolveKeys(spec.Kind, out)
	fillMissingKeys(spec, out, body)

	if errs.HasFatal() {
		return nil, errs
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, append(errs, validation.New(validation.KindSchemaViolation, "", "cannot encode payload: %v", err))
	}
	payload, verrs := n.reg.Decode(spec.Kind, raw)
	if len(verrs) > 0 {
		return nil, append(errs, verrs...)
	}
	return payload, errs
}

// lookupField finds a field by canonical name, then by synonym, then (for the
// answer key) by any answer-key spelling not already claimed.
func lookupField(o object, f registry.Field, used map[string]bool) (any, string, bool) {
	names := append([]string{f.Name}, fieldSynonyms[f.Name]...)
	if f.AnswerKey {
		names = append(names, answerKeyNames...)
	}
	for _, name := range names {
		if used[name] {
			continue
		}
		if v, ok := o[name]; ok && v != nil {
			return v, name, true
		}
	}
	return nil, "", false
}

func coerceField(f registry.Field, v any) (any, error) {
	switch f.Type {
	case registry.FieldString:
		if list, ok := v.([]any); ok && !f.AnswerKey {
			lines, err := toStringList(list, false)
			if err != nil {
				return nil, err
			}
			return strings.Join(lines, "\n"), nil
		}
		return toText(v)
	case registry.FieldInt:
		return toInt(v)
	case registry.FieldBool:
		return toBool(v)
	case registry.FieldStringList:
		list, err := toStringList(v, f.Name == "correct_option_ids" || f.Name == "word_bank")
		if err != nil {
			return nil, err
		}
		if len(list) == 0 {
			return nil, nil
		}
		return list, nil
	case registry.FieldItems:
		return toItems(v)
	case registry.FieldStringMap:
		return toStringMap(v)
	case registry.FieldGrid:
		return toGrid(v)
	}
	return nil, fmt.Errorf("unsupported field type %d", f.Type)
}

// resolveKeys rewrites keys given as option text or "A. text" onto item ids and
// canonicalizes True/False/Not Given.
func resolveKeys(kind registry.Kind, out map[string]any) {
	switch kind {
	case registry.KindMCQSingle:
		options, _ := out["options"].([]registry.Item)
		if s, ok := out["correct_option_id"].(string); ok {
			out["correct_option_id"] = resolveID(options, s)
		}
	case registry.KindMCQMultiple:
		options, _ := out["options"].([]registry.Item)
		if ids, ok := out["correct_option_ids"].([]string); ok {
			for i := range ids {
				ids[i] = resolveID(options, ids[i])
			}
		}
	case registry.KindTrueFalseNG:
		if s, ok := out["correct"].(string); ok {
			if c, ok := registry.CanonicalTFNG(s); ok {
				out["correct"] = c
			}
		}
	default:
		src, tgt, ok := pairFields(kind)
		if !ok {
			return
		}
		mapping, _ := out["mapping"].(map[string]string)
		if mapping == nil {
			return
		}
		srcItems, _ := out[src].([]registry.Item)
		tgtItems, _ := out[tgt].([]registry.Item)
		resolved := make(map[string]string, len(mapping))
		for k, v := range mapping {
			resolved[resolveID(srcItems, k)] = resolveID(tgtItems, v)
		}
		out["mapping"] = resolved
	}
}

// pairFields names the source and target item lists of matching kinds.
func pairFields(kind registry.Kind) (string, string, bool) {
	switch kind {
	case registry.KindMatching:
		return "left_items", "right_items", true
	case registry.KindMapLabelling:
		return "labels", "positions", true
	case registry.KindMatchingHeadings:
		return "paragraphs", "headings", true
	case registry.KindMatchingFeatures:
		return "items", "features", true
	case registry.KindMatchingEndings:
		return "stems", "endings", true
	}
	return "", "", false
}

// keyIDs lists the ids a map-shaped answer key must cover, in display order.
func keyIDs(kind registry.Kind, out map[string]any) []string {
	if src, _, ok := pairFields(kind); ok {
		items, _ := out[src].([]registry.Item)
		return itemIDs(items)
	}
	switch kind {
	case registry.KindFormCompletion:
		s, _ := out["form_template"].(string)
		return registry.Placeholders(s)
	case registry.KindTableCompletion:
		grid, _ := out["table_template"].([][]string)
		return (&registry.TableCompletion{TableTemplate: grid}).CellIDs()
	case registry.KindFlowchartCompletion:
		nodes, _ := out["nodes"].([]registry.Item)
		var blanks []string
		for _, n := range nodes {
			if registry.CountBlanks(n.Text) > 0 {
				blanks = append(blanks, n.ID)
			}
		}
		if len(blanks) == 0 {
			// Without markers the key itself names the blank nodes.
			if keys, _ := out["answer_keys"].(map[string]string); len(keys) > 0 {
				for _, n := range nodes {
					if _, ok := keys[n.ID]; ok {
						blanks = append(blanks, n.ID)
					}
				}
				return blanks
			}
			return itemIDs(nodes)
		}
		return blanks
	}
	return nil
}

func itemIDs(items []registry.Item) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}

// fillMissingKeys defers absent answer keys: blanks get empty keys and keyed
// kinds get an empty entry per id, so the item is flagged instead of rejected.
func fillMissingKeys(spec registry.Spec, out map[string]any, body string) {
	f, ok := spec.AnswerKeyField()
	if !ok {
		return
	}
	switch f.Type {
	case registry.FieldStringList:
		if spec.Kind == registry.KindMCQMultiple {
			return
		}
		keys, _ := out[f.Name].([]string)
		blanks := registry.CountBlanks(body)
		if len(keys) == 0 && blanks < 1 {
			blanks = 1
		}
		for len(keys) < blanks {
			keys = append(keys, "")
		}
		out[f.Name] = keys
	case registry.FieldStringMap:
		ids := keyIDs(spec.Kind, out)
		keys, _ := out[f.Name].(map[string]string)
		if keys == nil {
			if len(ids) == 0 {
				return
			}
			keys = make(map[string]string, len(ids))
		}
		for _, id := range ids {
			if _, ok := keys[id]; !ok {
				keys[id] = ""
			}
		}
		out[f.Name] = keys
	}
}
