package record

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

// Servicer defines the business logic for record operations
type Servicer interface {
	List(ctx context.Context, owner SessionID) ([]Record, error)
	Find(ctx context.Context, owner SessionID, id string) (*Record, error)
	Create(ctx context.Context, owner SessionID, in Input) (*Record, error)
	Update(ctx context.Context, owner SessionID, id string, in Input) (*Record, error)
	Delete(ctx context.Context, owner SessionID, id string) error
}

// Service is the document store for records
type Service struct {
	repo     Repository
	notifier Notifier
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService creates a new record service
func NewService(repo Repository, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		log:      log.With("component", "record_service"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// List returns all records of the owner
func (s *Service) List(ctx context.Context, owner SessionID) ([]Record, error) {
	records, err := s.repo.List(ctx, owner)
	if err != nil {
		s.log.Error("failed to list records", "owner", owner, "error", err)
		return nil, fmt.Errorf("list records: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Find returns a specific record by ID
func (s *Service) Find(ctx context.Context, owner SessionID, id string) (*Record, error) {
	rec, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("failed to find record", "record_id", id, "owner", owner, "error", err)
		return nil, fmt.Errorf("find record: %w", err)
	}
	return rec, nil
}

// Create inserts a new record owned by the session
func (s *Service) Create(ctx context.Context, owner SessionID, in Input) (*Record, error) {
	if err := validate(owner, in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := &Record{
		ID:        s.newID(),
		Samples:   normalizeSamples(in.Samples),
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	rec.Apply(trimFields(in.Fields))

	if err := s.repo.Create(ctx, rec); err != nil {
		s.log.Error("failed to create record", "owner", owner, "error", err)
		return nil, fmt.Errorf("create record: %w", err)
	}

	s.notify(ctx, owner, rec.ID, OpInsert)
	s.log.Info("record created successfully", "record_id", rec.ID, "owner", owner, "samples", len(rec.Samples))

	return rec, nil
}

// Update replaces the mutable part of an existing record
func (s *Service) Update(ctx context.Context, owner SessionID, id string, in Input) (*Record, error) {
	if err := validate(owner, in); err != nil {
		return nil, err
	}

	current, err := s.repo.Get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get record for update: %w", err)
	}

	updated := current.Clone()
	updated.Apply(trimFields(in.Fields))
	updated.Samples = normalizeSamples(in.Samples)
	updated.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("failed to update record", "record_id", id, "owner", owner, "error", err)
		return nil, fmt.Errorf("update record: %w", err)
	}

	s.notify(ctx, owner, id, OpUpdate)
	s.log.Info("record updated successfully", "record_id", id, "owner", owner, "samples", len(updated.Samples))

	return &updated, nil
}

// Delete permanently deletes a record. Sample blobs are the caller's concern.
func (s *Service) Delete(ctx context.Context, owner SessionID, id string) error {
	if err := s.repo.Delete(ctx, owner, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("failed to delete record", "record_id", id, "owner", owner, "error", err)
		return fmt.Errorf("delete record: %w", err)
	}

	s.notify(ctx, owner, id, OpDelete)
	s.log.Info("record deleted successfully", "record_id", id, "owner", owner)
	return nil
}

// notify never fails the write: subscribers re-read on the next event anyway.
func (s *Service) notify(ctx context.Context, owner SessionID, id string, op ChangeOp) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, owner, id, op); err != nil {
		s.log.Warn("failed to publish change", "record_id", id, "op", op, "error", err)
	}
}

func validate(owner SessionID, in Input) error {
	if owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidData)
	}
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidData)
	}

	prefix := owner.String() + "/"
	seen := make(map[string]struct{}, len(in.Samples))
	for i, smp := range in.Samples {
		if smp.Path == "" {
			return fmt.Errorf("%w: sample %d has no path", ErrInvalidData, i)
		}
		if !strings.HasPrefix(smp.Path, prefix) {
			return fmt.Errorf("%w: %s", ErrForeignSample, smp.Path)
		}
		if _, ok := seen[smp.Path]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, smp.Path)
		}
		seen[smp.Path] = struct{}{}
	}
	return nil
}

func trimFields(f Fields) Fields {
	return Fields{
		Name:           strings.TrimSpace(f.Name),
		IDNo:           strings.TrimSpace(f.IDNo),
		PhoneNo:        strings.TrimSpace(f.PhoneNo),
		OutletName:     strings.TrimSpace(f.OutletName),
		OutletLocation: strings.TrimSpace(f.OutletLocation),
	}
}

func normalizeSamples(samples []Sample) []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}
