package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/gapquiz/ent/schema"
)

const (
	llmRequestEventsTable = "llm_request_events"
	pinEventsTable        = "pin_events"
)

// Tables returns the SQL tables for every event schema. Columns and indexes
// come from the ent schema definitions; mixin fields are laid out first.
func Tables() []*schema.Table {
	return []*schema.Table{
		tableFor(llmRequestEventsTable, entschema.LLMRequestEvent{}),
		tableFor(pinEventsTable, entschema.PinEvent{}),
	}
}

func tableFor(name string, s ent.Interface) *schema.Table {
	t := schema.NewTable(name).
		AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})

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

	for _, f := range fields {
		d := f.Descriptor()
		t.AddColumn(&schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Default:  columnDefault(d.Default),
			Comment:  d.Comment,
		})
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		t.AddIndex(fmt.Sprintf("%s_%s", name, strings.Join(d.Fields, "_")), d.Unique, d.Fields)
	}

	return t
}

// columnDefault keeps literal defaults. Function defaults such as time.Now
// are applied by the repository at insert time.
func columnDefault(v any) any {
	switch v.(type) {
	case int, int64, float64, bool, string:
		return v
	}
	return nil
}
