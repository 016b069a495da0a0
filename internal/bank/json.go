package bank

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// decodeJSON parses and validates a JSON bank into its top-level objects.
func decodeJSON(path string, data []byte) ([]map[string]any, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, malformed(path, fmt.Errorf("invalid JSON: %w", err))
	}
	if err := validateDoc(doc); err != nil {
		return nil, malformed(path, err)
	}

	items, _ := doc.([]any)
	objs := make([]map[string]any, 0, len(items))
	for _, it := range items {
		obj, _ := it.(map[string]any)
		objs = append(objs, obj)
	}
	return objs, nil
}

// isPassageDoc reports whether the objects are passages with nested blanks.
func isPassageDoc(objs []map[string]any, t FieldTable) bool {
	cm := t.resolve(unionKeys(objs))
	return cm.has(FieldQuestions)
}

func recordsFromObjects(path string, objs []map[string]any, opts Options) ([]Record, error) {
	cm := opts.Fields.resolve(unionKeys(objs))
	if !cm.has(FieldPrompt) {
		return nil, missingField(path, FieldPrompt)
	}

	ids := newIDSet()
	records := make([]Record, 0, len(objs))
	for i, obj := range objs {
		rec := cm.record(obj, opts.arity())
		rec.Row = i + 1
		rec.Prompt = stringify(obj[cm.fields[FieldPrompt]])
		rec.ID = ids.claim(stringify(obj[cm.fields[FieldID]]), rec.Row)
		records = append(records, rec)
	}
	return records, nil
}

func passagesFromObjects(path string, objs []map[string]any, opts Options) ([]Passage, error) {
	pm := opts.Fields.resolve(unionKeys(objs))
	if !pm.has(FieldQuestions) {
		return nil, missingField(path, FieldQuestions)
	}

	var nested []map[string]any
	for _, obj := range objs {
		nested = append(nested, objects(obj[pm.fields[FieldQuestions]])...)
	}
	qm := opts.Fields.resolve(unionKeys(nested))

	passages := make([]Passage, 0, len(objs))
	for pi, obj := range objs {
		p := Passage{
			Topic: stringify(obj[pm.fields[FieldTopic]]),
			Text:  stringify(obj[pm.fields[FieldPassage]]),
		}
		ids := newIDSet()
		for qi, q := range objects(obj[pm.fields[FieldQuestions]]) {
			blank := stringify(q[qm.fields[FieldBlank]])
			if blank == "" {
				blank = strconv.Itoa(qi + 1)
			}
			rec := qm.record(q, opts.arity())
			rec.Row = qi + 1
			rec.ID = ids.claim(fmt.Sprintf("p%d_b%s", pi, blank), rec.Row)
			rec.Prompt = "Blank (" + blank + ")"
			if rec.Topic == "" {
				rec.Topic = p.Topic
			}
			p.Questions = append(p.Questions, rec)
		}
		passages = append(passages, p)
	}
	return passages, nil
}

// record builds the shared fields of a Record from one JSON object.
func (cm columnMap) record(obj map[string]any, arity int) Record {
	rec := Record{
		Topic:    stringify(obj[cm.fields[FieldTopic]]),
		Category: stringify(obj[cm.fields[FieldCategory]]),
	}

	if v := stringify(obj[cm.fields[FieldCorrect]]); v != "" {
		rec.Indicator = v
		rec.HasIndicator = true
	}

	switch {
	case cm.has(FieldOptions) && obj[cm.fields[FieldOptions]] != nil:
		raw, _ := obj[cm.fields[FieldOptions]].([]any)
		vals := make([]string, len(raw))
		for i, v := range raw {
			vals[i] = stringify(v)
		}
		rec.Options, rec.Padded = padOptions(vals, arity)
	case cm.hasOptionColumns():
		vals := make([]string, len(cm.options))
		for i, col := range cm.options {
			if col != "" {
				vals[i] = stringify(obj[col])
			}
		}
		rec.Options, rec.Padded = padOptions(vals, arity)
	default:
		rec.Options, rec.Padded = padOptions(letterOptions, arity)
	}

	if m, ok := obj[cm.fields[FieldDistractors]].(map[string]any); ok && len(m) > 0 {
		rec.Distractors = make(map[string]string, len(m))
		for opt, meta := range m {
			switch v := meta.(type) {
			case map[string]any:
				rec.Distractors[opt] = stringify(v["error_type"])
			default:
				rec.Distractors[opt] = stringify(v)
			}
		}
	}
	return rec
}

func objects(v any) []map[string]any {
	items, _ := v.([]any)
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if obj, ok := it.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func unionKeys(objs []map[string]any) []string {
	seen := make(map[string]bool)
	for _, obj := range objs {
		for k := range obj {
			seen[k] = true
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stringify renders a decoded JSON scalar as trimmed text.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
