package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Answer is a candidate response decoded for a specific AnswerShape.
// Exactly one of Text, List or Map is meaningful.
type Answer struct {
	Text string
	List []string
	Map  map[string]string
}

// Empty reports whether the candidate gave nothing gradable.
func (a Answer) Empty() bool {
	if strings.TrimSpace(a.Text) != "" {
		return false
	}
	for _, s := range a.List {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	for _, s := range a.Map {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// ParseAnswer decodes raw JSON into the given shape. Scalars are promoted to
// one-element lists and comma separated strings are split for option sets.
func ParseAnswer(shape AnswerShape, raw json.RawMessage) (Answer, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Answer{}, nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return Answer{}, fmt.Errorf("answer is not valid JSON: %w", err)
	}

	switch shape {
	case ShapeOptionID, ShapeEnum, ShapeFreeText:
		switch t := v.(type) {
		case []any:
			if len(t) == 0 {
				return Answer{}, nil
			}
			if len(t) > 1 {
				return Answer{}, fmt.Errorf("expected a single value, got %d", len(t))
			}
			s, ok := scalarString(t[0])
			if !ok {
				return Answer{}, fmt.Errorf("expected a string value")
			}
			return Answer{Text: s}, nil
		default:
			s, ok := scalarString(v)
			if !ok {
				return Answer{}, fmt.Errorf("expected a string value")
			}
			return Answer{Text: s}, nil
		}

	case ShapeOptionSet, ShapeStringList:
		switch t := v.(type) {
		case []any:
			out := make([]string, 0, len(t))
			for i, e := range t {
				if e == nil {
					out = append(out, "")
					continue
				}
				s, ok := scalarString(e)
				if !ok {
					return Answer{}, fmt.Errorf("element %d is not a string", i)
				}
				out = append(out, s)
			}
			return Answer{List: out}, nil
		default:
			s, ok := scalarString(v)
			if !ok {
				return Answer{}, fmt.Errorf("expected a list of strings")
			}
			if shape == ShapeOptionSet && strings.Contains(s, ",") {
				return Answer{List: strings.Split(s, ",")}, nil
			}
			return Answer{List: []string{s}}, nil
		}

	case ShapeStringMap:
		obj, ok := v.(map[string]any)
		if !ok {
			return Answer{}, fmt.Errorf("expected an object keyed by item id")
		}
		out := make(map[string]string, len(obj))
		for k, e := range obj {
			if e == nil {
				continue
			}
			s, ok := scalarString(e)
			if !ok {
				return Answer{}, fmt.Errorf("value for %q is not a string", k)
			}
			out[k] = s
		}
		return Answer{Map: out}, nil
	}
	return Answer{}, fmt.Errorf("unknown answer shape %q", shape)
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// lookupFold finds a map value whose key matches id after normalization.
func lookupFold(m map[string]string, id string) (string, bool) {
	if v, ok := m[id]; ok {
		return v, true
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if sameID(k, id) {
			return m[k], true
		}
	}
	return "", false
}
