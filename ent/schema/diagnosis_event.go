package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// DiagnosisEvent records the feedback shown for a wrong answer.
type DiagnosisEvent struct {
	ent.Schema
}

func (DiagnosisEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (DiagnosisEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").Default(""),
		field.String("student_id").Default(""),
		field.String("record_id").Default(""),
		field.String("category").Default(""),
		field.String("source").
			Default("").
			Comment("rule or llm"),
		field.String("explanation").Default(""),
	}
}
