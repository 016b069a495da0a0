package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/studyzone/ent/schema"
)

// Table names.
const (
	tableSequence   = "global_sequence"
	tableQuiz       = "quiz_events"
	tableAnswer     = "answer_events"
	tableDiagnosis  = "diagnosis_events"
	tableLLMRequest = "llm_request_events"
	tableSnapshot   = "progress_snapshots"
)

// tableFrom builds a migration table from an ent schema without code
// generation: an auto-increment id, the mixin fields, then the schema's own
// fields and indexes.
func tableFrom(name string, s ent.Interface) *schema.Table {
	id := &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	t := &schema.Table{
		Name:       name,
		Columns:    []*schema.Column{id},
		PrimaryKey: []*schema.Column{id},
	}

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	byName := make(map[string]*schema.Column, len(fields))
	for _, f := range fields {
		d := f.Descriptor()
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
		}
		// Function defaults such as time.Now are applied by the repos.
		switch v := d.Default.(type) {
		case string, int, int64, bool:
			col.Default = v
		}
		t.Columns = append(t.Columns, col)
		byName[d.Name] = col
	}

	for _, ix := range indexes {
		d := ix.Descriptor()
		idx := &schema.Index{Name: name + "_" + strings.Join(d.Fields, "_"), Unique: d.Unique}
		for _, fname := range d.Fields {
			col, ok := byName[fname]
			if !ok {
				panic(fmt.Sprintf("store: index %s names unknown column %q", idx.Name, fname))
			}
			idx.Columns = append(idx.Columns, col)
		}
		t.Indexes = append(t.Indexes, idx)
	}
	return t
}

var (
	sequenceColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt},
		{Name: "next_val", Type: field.TypeInt64, Default: 1},
	}
	sequenceTable = &schema.Table{
		Name:       tableSequence,
		Columns:    sequenceColumns,
		PrimaryKey: []*schema.Column{sequenceColumns[0]},
	}

	// tables is the full schema, created on Open.
	tables = []*schema.Table{
		sequenceTable,
		tableFrom(tableQuiz, entschema.QuizEvent{}),
		tableFrom(tableAnswer, entschema.AnswerEvent{}),
		tableFrom(tableDiagnosis, entschema.DiagnosisEvent{}),
		tableFrom(tableLLMRequest, entschema.LLMRequestEvent{}),
		tableFrom(tableSnapshot, entschema.ProgressSnapshot{}),
	}
)
