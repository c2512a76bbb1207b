package meta

import (
	"errors"
	"fmt"

	appErrors "dbdeck/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// dbMessage extracts the server's message from a driver error so toasts
// read "column \"x\" does not exist" rather than the full SQLSTATE dump.
func dbMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}

func mutationError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return appErrors.New(appErrors.CodeMutation, dbMessage(err), fmt.Errorf("%s: %w", op, err))
}

func notFoundError(what string) error {
	return appErrors.New(appErrors.CodeNotFound, what+" not found", nil)
}

func unsupportedError(msg string) error {
	return appErrors.New(appErrors.CodeUnsupported, msg, nil)
}

func validationError(msg string) error {
	return appErrors.New(appErrors.CodeValidation, msg, nil)
}
