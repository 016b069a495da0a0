package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin is embedded by every append-only table. sequence comes from
// the store's global counter, so rows of different tables can be ordered
// against each other.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").Unique().Immutable(),
		field.Time("timestamp").Default(time.Now).Immutable().
			Comment("UTC"),
	}
}

// Indexes speeds up the newest-first listings.
func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{index.Fields("timestamp")}
}
