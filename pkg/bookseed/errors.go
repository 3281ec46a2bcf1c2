package bookseed

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	_, err := seeder.Seed(ctx, cfg)
//	if errors.Is(err, bookseed.ErrConnectionFailed) {
//	    // nothing was written
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSchemaFailed indicates a CREATE TABLE statement failed.
	ErrSchemaFailed = errors.New("schema creation failed")

	// ErrSeedFailed indicates a row group could not be inserted.
	ErrSeedFailed = errors.New("seeding failed")

	// ErrInvalidDataset indicates the dataset is malformed or references missing rows.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrUnknownTable indicates a table outside the managed schema was requested.
	ErrUnknownTable = errors.New("unknown table")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSchemaFailed):
		return ExitSchemaFailed
	case errors.Is(err, ErrSeedFailed):
		return ExitSeedFailed
	case errors.Is(err, ErrInvalidDataset):
		return ExitInvalidDataset
	case errors.Is(err, ErrUnknownTable):
		return ExitUsageError
	}

	errStr := err.Error()
	if isUsageError(errStr) {
		return ExitUsageError
	}
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

// isUsageError recognizes cobra's argument and flag parsing errors.
func isUsageError(msg string) bool {
	for _, prefix := range []string{
		"unknown flag",
		"unknown shorthand flag",
		"unknown command",
		"accepts ",
		"requires at least",
		"required flag",
		"invalid argument",
		"flag needs an argument",
	} {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}
