package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// snapshotRepo implements SnapshotRepo with the ent SQL builder.
type snapshotRepo struct {
	drv     *entsql.Driver
	dialect string
	seq     *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	if snap.Sequence == 0 {
		if snap.Sequence, err = r.seq.Next(ctx); err != nil {
			return fmt.Errorf("next sequence: %w", err)
		}
	}
	if snap.Timestamp.IsZero() {
		snap.Timestamp = time.Now().UTC()
	}

	q, args := entsql.Dialect(r.dialect).
		Insert(tableSnapshot).
		Columns("sequence", "timestamp", "student_id", "bank", "data").
		Values(snap.Sequence, snap.Timestamp, snap.StudentID, snap.Bank, string(data)).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, studentID, bank string) (*Snapshot, error) {
	q, args := entsql.Dialect(r.dialect).
		Select("id", "sequence", "timestamp", "student_id", "bank", "data").
		From(entsql.Table(tableSnapshot)).
		Where(entsql.And(entsql.EQ("student_id", studentID), entsql.EQ("bank", bank))).
		OrderBy(entsql.Desc("sequence")).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	var (
		s    Snapshot
		data string
	)
	if err := rows.Scan(&s.ID, &s.Sequence, &s.Timestamp, &s.StudentID, &s.Bank, &data); err != nil {
		return nil, fmt.Errorf("scan snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &s.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &s, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, studentID string, keep int) error {
	// Find the threshold: the sequence of the first snapshot past keep.
	q, args := entsql.Dialect(r.dialect).
		Select("sequence").
		From(entsql.Table(tableSnapshot)).
		Where(entsql.EQ("student_id", studentID)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, q, args, rows); err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	var threshold int64
	found := rows.Next()
	if found {
		if err := rows.Scan(&threshold); err != nil {
			rows.Close()
			return fmt.Errorf("scan prune threshold: %w", err)
		}
	}
	rows.Close()
	if !found {
		return nil // fewer than keep snapshots exist
	}

	q, args = entsql.Dialect(r.dialect).
		Delete(tableSnapshot).
		Where(entsql.And(entsql.EQ("student_id", studentID), entsql.LTE("sequence", threshold))).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Clear(ctx context.Context, studentID, bank string) error {
	q, args := entsql.Dialect(r.dialect).
		Delete(tableSnapshot).
		Where(entsql.And(entsql.EQ("student_id", studentID), entsql.EQ("bank", bank))).
		Query()
	if err := r.drv.Exec(ctx, q, args, nil); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}
