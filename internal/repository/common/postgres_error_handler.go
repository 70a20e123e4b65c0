package common

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/bes-dev/youtube-caption-finder/internal/errors"
)

// HandlePostgreSQLError converts PostgreSQL-specific errors to appropriate AppError codes
func HandlePostgreSQLError(err error, operation string) *apperrors.AppError {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		// Not a PostgreSQL error, return generic internal error
		return apperrors.Wrap(err, apperrors.CodeInternal, operation)
	}

	switch pgErr.Code {
	case "23505": // UNIQUE_VIOLATION
		return handleUniqueViolation(pgErr)

	case "23503": // FOREIGN_KEY_VIOLATION
		return apperrors.Wrap(pgErr, apperrors.CodeDependency, operation+": referenced resource does not exist")

	case "23502": // NOT_NULL_VIOLATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, operation+": required field is missing")

	case "23514": // CHECK_VIOLATION
		return handleCheckViolation(pgErr, operation)

	case "22001": // STRING_DATA_RIGHT_TRUNCATION
		return apperrors.Wrap(err, apperrors.CodeInvalidArg, operation+": value too long for column")

	case "42P01": // UNDEFINED_TABLE
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: table not found (run 'ytcaption db migrate')")

	case "42703": // UNDEFINED_COLUMN
		return apperrors.Wrap(err, apperrors.CodeInternal, "database schema error: column not found (run 'ytcaption db migrate')")

	case "08000", "08003", "08006": // CONNECTION_EXCEPTION variants
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection error")

	case "53300": // TOO_MANY_CONNECTIONS
		return apperrors.Wrap(err, apperrors.CodeInternal, "database connection limit reached")

	default:
		message := operation + ": database error (PostgreSQL code: " + pgErr.Code + ")"
		return apperrors.Wrap(err, apperrors.CodeInternal, message)
	}
}

// handleUniqueViolation provides specific error messages for different unique constraints
func handleUniqueViolation(pgErr *pgconn.PgError) *apperrors.AppError {
	constraintName := pgErr.ConstraintName

	switch {
	case strings.Contains(constraintName, "channels"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "channel with this ID already exists")
	case strings.Contains(constraintName, "videos"):
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "video with this ID already exists")
	default:
		return apperrors.Wrap(pgErr, apperrors.CodeConflict, "resource already exists")
	}
}

// handleCheckViolation reports which counter was rejected
func handleCheckViolation(pgErr *pgconn.PgError, operation string) *apperrors.AppError {
	switch {
	case strings.Contains(pgErr.ConstraintName, "views"):
		return apperrors.Wrap(pgErr, apperrors.CodeInvalidArg, operation+": view count must not be negative")
	case strings.Contains(pgErr.ConstraintName, "likes"):
		return apperrors.Wrap(pgErr, apperrors.CodeInvalidArg, operation+": like count must not be negative")
	default:
		return apperrors.Wrap(pgErr, apperrors.CodeInvalidArg, operation+": data violates check constraint")
	}
}
