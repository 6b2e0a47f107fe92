package postgres

import (
	"database/sql"

	ierr "github.com/tutorbook/tutorbook/internal/errors"
)

// requireAffected turns an update or delete that matched nothing into not found.
// Rows of other tutors never match, so their existence is not revealed.
func requireAffected(result sql.Result, entity string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if n == 0 {
		return ierr.NewErrorf("%s not found", entity).
			WithHintf("%s not found", entity).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
