package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizEvent records the start, end or reset of one quiz attempt.
type QuizEvent struct {
	ent.Schema
}

func (QuizEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (QuizEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").Default(""),
		field.String("student_id").Default(""),
		field.String("action").
			Default("").
			Comment("start, end or reset"),
		field.String("mode").
			Default("").
			Comment("per_question or batch"),
		field.String("selector").
			Default("").
			Comment("Filter label, e.g. All or an error type"),
		field.String("bank").
			Default("").
			Comment("Bank file the questions came from"),
		field.Int("total").Default(0),
		field.Int("answered").Default(0),
		field.Int("correct").Default(0),
		field.Int("percent").Default(0),
		field.String("basis").
			Default("").
			Comment("all or answered"),
		field.Int("duration_secs").Default(0),
	}
}

func (QuizEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id"),
	}
}
