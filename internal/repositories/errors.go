package repositories

import (
	"database/sql"
	"errors"

	"buspass/internal/domain"
)

// notFound turns sql.ErrNoRows into a domain.NotFoundError; other errors pass through.
func notFound(err error, resource string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, Err: err}
	}
	return err
}
