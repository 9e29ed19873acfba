package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lshigami/ieltsprep/internal/registry"
)

var errNotInteger = errors.New("expected an integer")

func toInt(v any) (int, error) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), nil
		}
		f, err := t.Float64()
		if err != nil || f != math.Trunc(f) {
			return 0, errNotInteger
		}
		return int(f), nil
	case float64:
		if t != math.Trunc(t) {
			return 0, errNotInteger
		}
		return int(t), nil
	case int:
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.Atoi(s); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || f != math.Trunc(f) {
			return 0, errNotInteger
		}
		return int(f), nil
	}
	return 0, errNotInteger
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case json.Number:
		return t.String() != "0", nil
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0", "":
			return false, nil
		}
	}
	return false, errors.New("expected a boolean")
}

// toText converts a scalar to a trimmed string. Lists of scalars become
// "|"-joined alternatives.
func toText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case json.Number:
		return t.String(), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case bool:
		return strconv.FormatBool(t), nil
	case []any:
		alts := make([]string, 0, len(t))
		for _, e := range t {
			s, err := toScalar(e)
			if err != nil {
				return "", err
			}
			if s != "" {
				alts = append(alts, s)
			}
		}
		return strings.Join(alts, "|"), nil
	}
	return "", errors.New("expected a string")
}

func toScalar(v any) (string, error) {
	if _, ok := v.([]any); ok {
		return "", errors.New("expected a string, got a list")
	}
	if v == nil {
		return "", nil
	}
	return toText(v)
}

// toStringList accepts a list, a single scalar, or an object keyed by blank number.
func toStringList(v any, splitComma bool) ([]string, error) {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for i, e := range t {
			if e == nil {
				out = append(out, "")
				continue
			}
			s, err := toText(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, s)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sortNumeric(keys)
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			s, err := toScalar(t[k])
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", k, err)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		s, err := toText(v)
		if err != nil {
			return nil, err
		}
		if splitComma && strings.Contains(s, ",") {
			parts := strings.Split(s, ",")
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			return parts, nil
		}
		return []string{s}, nil
	}
}

// sortNumeric orders "1","2","10" numerically and anything else lexically after.
func sortNumeric(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(strings.TrimSpace(keys[i]))
		b, errB := strconv.Atoi(strings.TrimSpace(keys[j]))
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		}
		return keys[i] < keys[j]
	})
}

var labelRe = regexp.MustCompile(`^\(?([A-Za-z]|[0-9]{1,2}|[ivxlcdmIVXLCDM]{1,6})[\).:]\s+(.+)$`)

// splitLabel splits "B. Paris" or "(iii) A rising trend" into id and text.
func splitLabel(s string) (string, string, bool) {
	m := labelRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

var (
	itemIDNames   = []string{"id", "key", "letter", "code", "number"}
	itemTextNames = []string{"text", "content", "option", "title", "value", "description", "heading"}
)

// toItems accepts strings ("A. text" or plain), objects with id/text synonyms,
// or an object keyed by id.
func toItems(v any) ([]registry.Item, error) {
	switch t := v.(type) {
	case []any:
		out := make([]registry.Item, 0, len(t))
		for i, e := range t {
			it, err := toItem(e, i)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, it)
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sortNumeric(keys)
		out := make([]registry.Item, 0, len(keys))
		for _, k := range keys {
			text, err := toScalar(t[k])
			if err != nil {
				return nil, fmt.Errorf("entry %q: %w", k, err)
			}
			out = append(out, registry.Item{ID: strings.TrimSpace(k), Text: text})
		}
		return out, nil
	}
	return nil, errors.New("expected a list")
}

func toItem(v any, pos int) (registry.Item, error) {
	if m, ok := v.(map[string]any); ok {
		o := canonicalObject(m)
		var it registry.Item
		if raw, _, ok := o.get(itemIDNames...); ok {
			id, err := toScalar(raw)
			if err != nil {
				return it, err
			}
			it.ID = id
		}
		if raw, _, ok := o.get(itemTextNames...); ok {
			text, err := toScalar(raw)
			if err != nil {
				return it, err
			}
			it.Text = text
		}
		if raw, _, ok := o.get("label"); ok {
			label, err := toScalar(raw)
			if err != nil {
				return it, err
			}
			switch {
			case it.ID == "" && it.Text != "":
				it.ID = label
			case it.Text == "":
				it.Text = label
			}
		}
		if it.ID == "" {
			it.ID = positionalID(pos)
		}
		return it, nil
	}
	s, err := toScalar(v)
	if err != nil {
		return registry.Item{}, err
	}
	if id, text, ok := splitLabel(s); ok {
		return registry.Item{ID: id, Text: text}, nil
	}
	return registry.Item{ID: positionalID(pos), Text: s}, nil
}

// positionalID labels unlabelled entries A, B, C ... Z, AA, AB ...
func positionalID(i int) string {
	id := ""
	for {
		id = string(rune('A'+i%26)) + id
		i = i/26 - 1
		if i < 0 {
			return id
		}
	}
}

// toStringMap accepts an object, or a list of pair objects.
func toStringMap(v any) (map[string]string, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, e := range t {
			s, err := toText(e)
			if e != nil && err != nil {
				return nil, fmt.Errorf("entry %q: %w", k, err)
			}
			out[strings.TrimSpace(k)] = s
		}
		return out, nil
	case []any:
		out := make(map[string]string, len(t))
		for i, e := range t {
			m, ok := e.(map[string]any)
			if !ok {
				return nil, errPositional
			}
			k, val, err := pairOf(canonicalObject(m))
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[k] = val
		}
		return out, nil
	}
	return nil, errors.New("expected an object keyed by id")
}

// errPositional marks a plain list that can only be mapped onto ids by position.
var errPositional = errors.New("expected an object keyed by id")

var pairNames = [][2]string{
	{"from", "to"}, {"left", "right"}, {"source", "target"}, {"paragraph", "heading"},
	{"item", "feature"}, {"stem", "ending"}, {"label", "position"}, {"question", "answer"},
	{"id", "answer"}, {"id", "value"}, {"key", "value"}, {"id", "match"},
}

func pairOf(o object) (string, string, error) {
	for _, names := range pairNames {
		kv, _, okK := o.get(names[0])
		vv, _, okV := o.get(names[1])
		if !okK || !okV {
			continue
		}
		k, err := toScalar(kv)
		if err != nil {
			return "", "", err
		}
		v, err := toScalar(vv)
		if err != nil {
			return "", "", err
		}
		return k, v, nil
	}
	return "", "", errors.New("pair needs from/to style fields")
}

// toGrid accepts rows of cells, rows of "a | b" strings, or one multi-line string.
func toGrid(v any) ([][]string, error) {
	var rows []any
	switch t := v.(type) {
	case []any:
		rows = t
	case string:
		for _, line := range strings.Split(t, "\n") {
			if strings.TrimSpace(line) != "" {
				rows = append(rows, line)
			}
		}
	default:
		return nil, errors.New("expected a list of rows")
	}
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		switch row := r.(type) {
		case []any:
			cells := make([]string, 0, len(row))
			for _, c := range row {
				s, err := toScalar(c)
				if err != nil {
					return nil, fmt.Errorf("row %d: %w", i, err)
				}
				cells = append(cells, s)
			}
			out = append(out, cells)
		case string:
			line := strings.Trim(strings.TrimSpace(row), "|")
			parts := strings.Split(line, "|")
			for j := range parts {
				parts[j] = strings.TrimSpace(parts[j])
			}
			out = append(out, parts)
		default:
			return nil, fmt.Errorf("row %d: expected a list of cells", i)
		}
	}
	return out, nil
}

// resolveID maps a key given as option text or "B. text" onto the item id.
func resolveID(items []registry.Item, v string) string {
	if v == "" {
		return v
	}
	norm := registry.NormalizeText(v)
	for _, it := range items {
		if registry.NormalizeText(it.ID) == norm {
			return it.ID
		}
	}
	if id, _, ok := splitLabel(v); ok {
		for _, it := range items {
			if registry.NormalizeText(it.ID) == registry.NormalizeText(id) {
				return it.ID
			}
		}
	}
	for _, it := range items {
		if registry.NormalizeText(it.Text) == norm {
			return it.ID
		}
	}
	return v
}
