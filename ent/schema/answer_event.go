package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records one graded question within a quiz attempt.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Default("").
			Comment("Links to QuizEvent"),
		field.String("student_id").Default(""),
		field.String("record_id").
			Default("").
			Comment("Question ID from the bank"),
		field.String("topic").Default(""),
		field.String("category").
			Default("").
			Comment("Error type the question tests"),
		field.String("chosen").
			Default("").
			Comment("Option text the student picked"),
		field.String("correct_text").Default(""),
		field.String("outcome").
			Default("").
			Comment("correct, incorrect or unverifiable"),
		field.Bool("correct").Default(false),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id", "category"),
	}
}
