package bank

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV parses a tabular bank. path is used only for error messages.
func readCSV(path string, r io.Reader, opts Options) ([]Record, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, missingField(path, FieldPrompt)
	}
	if err != nil {
		return nil, malformed(path, fmt.Errorf("read header: %w", err))
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	cm := opts.Fields.resolve(header)
	if !cm.has(FieldPrompt) {
		return nil, missingField(path, FieldPrompt)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	cell := func(row []string, col string) (string, bool) {
		if col == "" {
			return "", false
		}
		i, ok := index[col]
		if !ok || i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	arity := opts.arity()
	letterOnly := !cm.hasOptionColumns()
	ids := newIDSet()

	var records []Record
	for n := 1; ; n++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, malformed(path, fmt.Errorf("row %d: %w", n, err))
		}
		if blankRow(row) {
			continue
		}

		rec := Record{Row: n}
		rec.Prompt, _ = cell(row, cm.fields[FieldPrompt])
		rec.Topic, _ = cell(row, cm.fields[FieldTopic])
		rec.Category, _ = cell(row, cm.fields[FieldCategory])
		if v, ok := cell(row, cm.fields[FieldCorrect]); ok && v != "" {
			rec.Indicator = v
			rec.HasIndicator = true
		}
		id, _ := cell(row, cm.fields[FieldID])
		rec.ID = ids.claim(id, n)

		if letterOnly {
			rec.Options, rec.Padded = padOptions(letterOptions, arity)
		} else {
			vals := make([]string, len(cm.options))
			for i, col := range cm.options {
				vals[i], _ = cell(row, col)
			}
			rec.Options, rec.Padded = padOptions(vals, arity)
		}

		records = append(records, rec)
	}
	return records, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// idSet hands out unique record IDs.
type idSet map[string]bool

func newIDSet() idSet { return make(idSet) }

// claim returns id, or a synthetic row ID when id is empty. Repeated IDs
// get the row number appended so answers never collide.
func (s idSet) claim(id string, row int) string {
	if id == "" {
		id = fmt.Sprintf("row-%d", row)
	}
	if s[id] {
		id = fmt.Sprintf("%s-%d", id, row)
	}
	s[id] = true
	return id
}
