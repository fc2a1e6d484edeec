package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
)

var recordColumns = []string{
	"id", "owner", "name", "id_no", "phone_no",
	"outlet_name", "outlet_location", "samples", "created_at", "updated_at",
}

type RecordRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewRecordRepository(db *Storage, log *slog.Logger) *RecordRepository {
	return &RecordRepository{
		db:  db,
		log: log.With("component", "record_repository"),
	}
}

func (r *RecordRepository) List(ctx context.Context, owner record.SessionID) ([]record.Record, error) {
	query, args, err := sqlb.Select(recordColumns...).
		From("records").
		Where(sq.Eq{"owner": owner.String()}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list records", "owner", owner, "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []record.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *RecordRepository) Get(ctx context.Context, owner record.SessionID, id string) (*record.Record, error) {
	query, args, err := sqlb.Select(recordColumns...).
		From("records").
		Where(sq.Eq{"id": id, "owner": owner.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	rec, err := scanRecord(r.db.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, record.ErrNotFound
		}
		r.log.Error("failed to get record", "record_id", id, "owner", owner, "error", err)
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

func (r *RecordRepository) Create(ctx context.Context, rec *record.Record) error {
	samples, err := encodeSamples(rec.Samples)
	if err != nil {
		return err
	}

	query, args, err := sqlb.Insert("records").
		Columns(recordColumns...).
		Values(rec.ID, rec.Owner.String(), rec.Name, rec.IDNo, rec.PhoneNo,
			rec.OutletName, rec.OutletLocation, samples, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.db.DB().ExecContext(ctx, query, args...); err != nil {
		r.log.Error("failed to create record", "owner", rec.Owner, "error", err)
		return fmt.Errorf("create record: %w", mapError(err))
	}
	return nil
}

func (r *RecordRepository) Update(ctx context.Context, rec *record.Record) error {
	samples, err := encodeSamples(rec.Samples)
	if err != nil {
		return err
	}

	query, args, err := sqlb.Update("records").
		Set("name", rec.Name).
		Set("id_no", rec.IDNo).
		Set("phone_no", rec.PhoneNo).
		Set("outlet_name", rec.OutletName).
		Set("outlet_location", rec.OutletLocation).
		Set("samples", samples).
		Set("updated_at", rec.UpdatedAt.UTC()).
		Where(sq.Eq{"id": rec.ID, "owner": rec.Owner.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	result, err := r.db.DB().ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to update record", "record_id", rec.ID, "owner", rec.Owner, "error", err)
		return fmt.Errorf("update record: %w", err)
	}
	return requireAffected(result)
}

func (r *RecordRepository) Delete(ctx context.Context, owner record.SessionID, id string) error {
	query, args, err := sqlb.Delete("records").
		Where(sq.Eq{"id": id, "owner": owner.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	result, err := r.db.DB().ExecContext(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to delete record", "record_id", id, "owner", owner, "error", err)
		return fmt.Errorf("delete record: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return record.ErrNotFound
	}
	return nil
}

func scanRecord(row interface{ Scan(dest ...any) error }) (*record.Record, error) {
	var rec record.Record
	var owner, samples string

	err := row.Scan(
		&rec.ID, &owner, &rec.Name, &rec.IDNo, &rec.PhoneNo,
		&rec.OutletName, &rec.OutletLocation, &samples, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Owner = record.SessionID(owner)
	if err := json.Unmarshal([]byte(samples), &rec.Samples); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return &rec, nil
}

func encodeSamples(samples []record.Sample) (string, error) {
	if samples == nil {
		samples = []record.Sample{}
	}
	data, err := json.Marshal(samples)
	if err != nil {
		return "", fmt.Errorf("%w: encode samples: %v", record.ErrInvalidData, err)
	}
	return string(data), nil
}
