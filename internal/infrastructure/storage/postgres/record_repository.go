package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/exp/slog"

	"lemonpunch/internal/domain/record"
)

var recordColumns = []string{
	"id", "owner", "name", "id_no", "phone_no",
	"outlet_name", "outlet_location", "samples", "created_at", "updated_at",
}

type RecordRepository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewRecordRepository(pool *pgxpool.Pool, log *slog.Logger) *RecordRepository {
	return &RecordRepository{
		pool: pool,
		log:  log.With("component", "record_repository"),
	}
}

func (r *RecordRepository) List(ctx context.Context, owner record.SessionID) ([]record.Record, error) {
	query, args, err := psql.Select(recordColumns...).
		From("records").
		Where(sq.Eq{"owner": owner.String()}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list records", "owner", owner, "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return r.scanRecords(rows)
}

func (r *RecordRepository) Get(ctx context.Context, owner record.SessionID, id string) (*record.Record, error) {
	query, args, err := psql.Select(recordColumns...).
		From("records").
		Where(sq.Eq{"id": id, "owner": owner.String()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get query: %w", err)
	}

	rec, err := r.scanRecord(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err := mapError(err); errors.Is(err, record.ErrNotFound) {
			return nil, err
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

	query, args, err := psql.Insert("records").
		Columns(recordColumns...).
		Values(rec.ID, rec.Owner.String(), rec.Name, rec.IDNo, rec.PhoneNo,
			rec.OutletName, rec.OutletLocation, samples, rec.CreatedAt, rec.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
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

	// owner в SET не входит: он задается один раз при создании
	query, args, err := psql.Update("records").
		Set("name", rec.Name).
		Set("id_no", rec.IDNo).
		Set("phone_no", rec.PhoneNo).
		Set("outlet_name", rec.OutletName).
		Set("outlet_location", rec.OutletLocation).
		Set("samples", samples).
		Set("updated_at", rec.UpdatedAt).
		Where(sq.Eq{"id": rec.ID, "owner": rec.Owner.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if err := mapError(err); errors.Is(err, record.ErrNotFound) {
			return err
		}
		r.log.Error("failed to update record", "record_id", rec.ID, "owner", rec.Owner, "error", err)
		return fmt.Errorf("update record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

func (r *RecordRepository) Delete(ctx context.Context, owner record.SessionID, id string) error {
	query, args, err := psql.Delete("records").
		Where(sq.Eq{"id": id, "owner": owner.String()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		if err := mapError(err); errors.Is(err, record.ErrNotFound) {
			return err
		}
		r.log.Error("failed to delete record", "record_id", id, "owner", owner, "error", err)
		return fmt.Errorf("delete record: %w", err)
	}
	if result.RowsAffected() == 0 {
		return record.ErrNotFound
	}
	return nil
}

// Вспомогательные методы
func (r *RecordRepository) scanRecords(rows pgx.Rows) ([]record.Record, error) {
	records := []record.Record{}

	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	return records, rows.Err()
}

func (r *RecordRepository) scanRecord(row pgx.Row) (*record.Record, error) {
	var rec record.Record
	var owner string
	var samples []byte

	err := row.Scan(
		&rec.ID, &owner, &rec.Name, &rec.IDNo, &rec.PhoneNo,
		&rec.OutletName, &rec.OutletLocation, &samples, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Owner = record.SessionID(owner)
	if err := json.Unmarshal(samples, &rec.Samples); err != nil {
		return nil, fmt.Errorf("decode samples: %w", err)
	}
	return &rec, nil
}

func encodeSamples(samples []record.Sample) ([]byte, error) {
	if samples == nil {
		samples = []record.Sample{}
	}
	data, err := json.Marshal(samples)
	if err != nil {
		return nil, fmt.Errorf("%w: encode samples: %v", record.ErrInvalidData, err)
	}
	return data, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return record.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "22P02": // invalid_text_representation: id is not a uuid
			return record.ErrNotFound
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", record.ErrDuplicateEntry, pgErr.ConstraintName)
		}
	}
	return err
}
