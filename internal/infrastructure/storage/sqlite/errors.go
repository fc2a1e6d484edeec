package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"lemonpunch/internal/domain/record"
)

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return record.ErrNotFound
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", record.ErrDuplicateEntry, sqErr)
		}
	}
	return err
}
