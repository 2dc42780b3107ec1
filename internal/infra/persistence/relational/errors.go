package relational

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"crmcore/pkg/domain"
)

// mapError converts driver failures into domain errors. Domain errors pass
// through unchanged.
func mapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s: %w", domain.ErrAlreadyExists, op, err)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: %s: %w", domain.ErrReferenceNotFound, op, err)
		}
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") {
		return fmt.Errorf("%w: %s: %w", domain.ErrAlreadyExists, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}
