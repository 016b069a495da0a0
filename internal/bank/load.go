package bank

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a question bank from path. Files ending in .json are decoded
// as JSON; anything else is read as CSV. A passage-form JSON bank is
// flattened so each blank becomes one record with the passage as context.
func Load(path string, opts Options) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable(path, err)
	}
	if opts.Fields.Names == nil {
		opts.Fields = DefaultFieldTable()
	}

	if !isJSON(path) {
		return readCSV(path, bytes.NewReader(data), opts)
	}

	objs, err := decodeJSON(path, data)
	if err != nil {
		return nil, err
	}
	if !isPassageDoc(objs, opts.Fields) {
		return recordsFromObjects(path, objs, opts)
	}

	passages, err := passagesFromObjects(path, objs, opts)
	if err != nil {
		return nil, err
	}
	return Flatten(passages), nil
}

// LoadPassages reads a passage-form bank. A flat JSON list or a CSV bank is
// wrapped as a single passage with no text, so every bank can be played as
// a batch.
func LoadPassages(path string, opts Options) ([]Passage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, unavailable(path, err)
	}
	if opts.Fields.Names == nil {
		opts.Fields = DefaultFieldTable()
	}

	var records []Record
	if isJSON(path) {
		objs, err := decodeJSON(path, data)
		if err != nil {
			return nil, err
		}
		if isPassageDoc(objs, opts.Fields) {
			return passagesFromObjects(path, objs, opts)
		}
		records, err = recordsFromObjects(path, objs, opts)
		if err != nil {
			return nil, err
		}
	} else {
		records, err = readCSV(path, bytes.NewReader(data), opts)
		if err != nil {
			return nil, err
		}
	}

	if len(records) == 0 {
		return nil, nil
	}
	return []Passage{{Topic: records[0].Topic, Questions: records}}, nil
}

// Flatten turns passages into a flat record list. Each prompt carries the
// passage text ahead of the blank label.
func Flatten(passages []Passage) []Record {
	var out []Record
	for _, p := range passages {
		for _, q := range p.Questions {
			if p.Text != "" {
				q.Prompt = p.Text + "\n\n" + q.Prompt
			}
			out = append(out, q)
		}
	}
	return out
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
