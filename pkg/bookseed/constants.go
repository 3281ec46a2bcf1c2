package bookseed

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Seeding completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitConnectionError = 11 // Failed to connect to database
	ExitSchemaFailed    = 12 // CREATE TABLE failed
	ExitSeedFailed      = 13 // Row insertion failed
	ExitInvalidDataset  = 14 // Dataset file malformed or inconsistent
)

const (
	// DefaultPort is the PostgreSQL port used when neither DB_HOST nor DB_PORT carry one.
	DefaultPort = 5432

	// DefaultSSLMode mirrors libpq's default.
	DefaultSSLMode = "prefer"

	// DefaultTimeout bounds a whole command invocation.
	DefaultTimeout = 2 * time.Minute

	// DefaultConnectTimeout is applied to the initial dial when none is configured.
	DefaultConnectTimeout = 10 * time.Second

	// ApplicationName is reported to the server as application_name,
	// suffixed with the run id.
	ApplicationName = "bookseed"

	// TokenExpiryWarning triggers a warning when a cloud token is about to expire.
	TokenExpiryWarning = 5 * time.Minute
)

// Table names in dependency order: every table only references tables before it.
const (
	TablePublishers  = "publishers"
	TableAuthors     = "authors"
	TableBooks       = "books"
	TableBookAuthors = "book_authors"
)

// Tables lists all managed tables in dependency order.
var Tables = []string{TablePublishers, TableAuthors, TableBooks, TableBookAuthors}

// Column limits of the schema. Dataset validation enforces them before any
// row reaches the database.
const (
	MaxPublisherNameLen = 255
	MaxFirstNameLen     = 100
	MaxMiddleNameLen    = 50
	MaxLastNameLen      = 100
	MaxTitleLen         = 255
	MaxISBNLen          = 13

	// MaxRating is the exclusive upper bound of NUMERIC(4,2).
	MaxRating = 100.0

	// DateLayout is the textual layout of published dates in dataset files.
	DateLayout = "2006-01-02"
)
