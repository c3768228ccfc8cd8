package postgres

import (
	"database/sql"
	"errors"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/lib/pq"

	"github.com/arenaops/matchdesk/internal/domain/fixture"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// classifyWriteError marks driver errors with the domain rejection they
// represent so the service layer can classify without importing pq.
// Serialization failures and unique violations both mean another writer
// got there first; permission and row-level-security rejections surface
// as policy denials.
func classifyWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case "23505", "40001":
		return crerr.Mark(err, fixture.ErrVersionConflict)
	case "42501":
		return crerr.Mark(err, fixture.ErrPolicyDenied)
	}
	if strings.Contains(strings.ToLower(pqErr.Message), "row-level security") {
		return crerr.Mark(err, fixture.ErrPolicyDenied)
	}
	return err
}
