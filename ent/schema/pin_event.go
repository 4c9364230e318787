package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// PinEvent records a JSON document uploaded to a pinning backend.
type PinEvent struct {
	ent.Schema
}

func (PinEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (PinEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("backend").
			Comment("Pinning backend: pinata, minio"),
		field.String("name").
			Default("").
			Comment("Caller-supplied document name"),
		field.String("cid").
			Comment("Content identifier returned by the backend"),
		field.Int64("size").
			Default(0).
			Comment("Payload size in bytes"),
	}
}

func (PinEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("cid"),
		index.Fields("backend"),
	}
}
