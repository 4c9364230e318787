package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendPin(ctx context.Context, data PinEventData) error {
	err := r.insert(ctx, pinEventsTable,
		[]string{"backend", "name", "cid", "size"},
		[]any{data.Backend, data.Name, data.CID, data.Size},
	)
	if err != nil {
		return fmt.Errorf("save pin event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPins(ctx context.Context, opts QueryOpts) ([]PinEvent, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "backend", "name", "cid", "size").
		From(entsql.Table(pinEventsTable))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query pins: %w", err)
	}
	defer rows.Close()

	var out []PinEvent
	for rows.Next() {
		var p PinEvent
		if err := rows.Scan(&p.ID, &p.Sequence, &p.Timestamp, &p.Backend, &p.Name, &p.CID, &p.Size); err != nil {
			return nil, fmt.Errorf("scan pin: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
