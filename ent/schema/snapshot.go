package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// ProgressSnapshot captures an unfinished quiz so it can resume where the
// student left off.
type ProgressSnapshot struct {
	ent.Schema
}

func (ProgressSnapshot) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ProgressSnapshot) Fields() []ent.Field {
	return []ent.Field{
		field.String("student_id").Default(""),
		field.String("bank").Default(""),
		field.String("data").
			Comment("Selector, index and answers as JSON"),
	}
}
