package normalizer

import (
	"bytes"
	"encoding/json"
	"slices"

	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/validation"
)

// Merge overlays patch onto a canonical question and normalizes the result
// again. Patch fields may use any accepted spelling; a patched field replaces
// the stored one. The kind is fixed.
func (n *Normalizer) Merge(q Question, patch map[string]any) (Question, validation.Errors) {
	raw, err := json.Marshal(q)
	if err != nil {
		return q, validation.Errors{validation.New(validation.KindSchemaViolation, "", "cannot encode stored question: %v", err)}
	}
	out, errs := n.mergeRaw(q.Kind, raw, patch)
	out.Index = q.Index
	return out, errs
}

// MergeStored is Merge for a payload as persisted, which may no longer
// decode for its kind. Patching is how such a payload gets repaired.
func (n *Normalizer) MergeStored(kind registry.Kind, marks int, payload json.RawMessage, patch map[string]any) (Question, validation.Errors) {
	base, err := decodeObject(payload)
	if err != nil {
		base = map[string]any{}
	}
	base["marks"] = marks
	raw, err := json.Marshal(base)
	if err != nil {
		return Question{}, validation.Errors{validation.New(validation.KindSchemaViolation, "", "cannot encode stored question: %v", err)}
	}
	return n.mergeRaw(kind, raw, patch)
}

func (n *Normalizer) mergeRaw(kind registry.Kind, raw []byte, patch map[string]any) (Question, validation.Errors) {
	spec, ok := n.reg.Lookup(kind)
	if !ok {
		return Question{}, validation.Errors{validation.New(validation.KindUnknownKind, "type", "%q is not a registered kind", kind)}
	}
	base, err := decodeObject(raw)
	if err != nil {
		return Question{}, validation.Errors{validation.New(validation.KindSchemaViolation, "", "cannot decode stored question: %v", err)}
	}

	p := canonicalObject(patch)
	if v, name, ok := p.get(typeNames...); ok {
		s, _ := toScalar(v)
		if k, ok := ResolveKind(n.reg, s); !ok || k != kind {
			return Question{}, validation.Errors{validation.New(validation.KindSchemaViolation, name, "kind cannot change from %s", kind)}
		}
	}

	for _, f := range spec.Fields {
		if _, _, ok := lookupField(p, f, map[string]bool{}); ok {
			delete(base, f.Name)
		}
	}
	if p.has(marksNames...) {
		delete(base, "marks")
	}
	for k, v := range p {
		if slices.Contains(typeNames, k) || slices.Contains(indexNames, k) {
			continue
		}
		base[k] = v
	}
	delete(base, "index")
	base["type"] = string(kind)

	return n.NormalizeValue(base)
}

func decodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
