package bookseed

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWS RDS IAM (AuthMethodAWSIAM)
	AWSRegion string

	// Google Cloud SQL instance connection name, project:region:instance (AuthMethodGoogleIAM)
	GoogleInstance string

	// Azure Entra ID (AuthMethodAzureEntraID).
	// If all three are provided, Service Principal authentication is used.
	// Otherwise the DefaultAzureCredential chain is used.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate reports every missing or malformed field at once.
// DB_PASSWORD is optional: token-based methods and trust authentication do without it.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if c.Host == "" && c.AuthMethod != AuthMethodGoogleIAM {
		errs = append(errs, fmt.Errorf("host is required (set DB_HOST or --host): %w", ErrInvalidConfig))
	}
	if c.Username == "" {
		errs = append(errs, fmt.Errorf("user is required (set DB_USER or --username): %w", ErrInvalidConfig))
	}
	if c.Database == "" {
		errs = append(errs, fmt.Errorf("database is required (set DB_NAME or --database): %w", ErrInvalidConfig))
	}
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range: %w", c.Port, ErrInvalidConfig))
	}
	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %v: %w", c.AuthMethod, ErrUnsupportedAuthMethod))
	}
	if c.AuthMethod == AuthMethodAWSIAM && c.AWSRegion == "" {
		errs = append(errs, fmt.Errorf("AWS IAM auth requires a region (set AWS_REGION): %w", ErrInvalidConfig))
	}
	if c.AuthMethod == AuthMethodGoogleIAM && c.GoogleInstance == "" {
		errs = append(errs, fmt.Errorf("Google Cloud SQL IAM auth requires DB_GOOGLE_INSTANCE (project:region:instance): %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps the DB_AUTH_METHOD / --auth spelling to an AuthMethod.
// An empty string selects standard authentication.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("%q (expected standard, aws, google or azure): %w", s, ErrUnsupportedAuthMethod)
	}
}

// SeedMode selects how rows that may already exist are handled.
type SeedMode int

const (
	// SeedModeAppend inserts every row unconditionally. Re-running against a
	// seeded database duplicates all rows under new surrogate ids.
	SeedModeAppend SeedMode = iota

	// SeedModeSkipExisting reuses rows whose natural key already exists.
	SeedModeSkipExisting
)

func (m SeedMode) String() string {
	switch m {
	case SeedModeAppend:
		return "append"
	case SeedModeSkipExisting:
		return "skip-existing"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseSeedMode parses the --mode flag value.
func ParseSeedMode(s string) (SeedMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append":
		return SeedModeAppend, nil
	case "skip-existing", "skip":
		return SeedModeSkipExisting, nil
	default:
		return SeedModeAppend, fmt.Errorf("seed mode %q (expected append or skip-existing): %w", s, ErrInvalidConfig)
	}
}

// SeedConfig contains all parameters needed for a seed run.
type SeedConfig struct {
	// Connection is the resolved target database connection.
	Connection *ConnectionConfig

	// DatasetPath is a YAML dataset file; empty selects the embedded default dataset.
	DatasetPath string

	// Mode selects append or skip-existing behavior.
	Mode SeedMode

	// Display prints the publishers table after seeding.
	Display bool

	// Timeout is the global timeout for the entire run.
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool
}

// Validate checks if the SeedConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *SeedConfig) Validate() error {
	var errs []error

	if c.Connection == nil {
		errs = append(errs, fmt.Errorf("connection is required: %w", ErrInvalidConfig))
	} else if err := c.Connection.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Mode != SeedModeAppend && c.Mode != SeedModeSkipExisting {
		errs = append(errs, fmt.Errorf("unknown seed mode %v: %w", c.Mode, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Publisher is a row of the publishers table.
type Publisher struct {
	ID   int64
	Name string
}

// Author is a row of the authors table.
type Author struct {
	ID         int64
	FirstName  string
	MiddleName *string
	LastName   *string
}

// FullName joins the non-empty name parts.
func (a Author) FullName() string {
	parts := []string{a.FirstName}
	if a.MiddleName != nil && *a.MiddleName != "" {
		parts = append(parts, *a.MiddleName)
	}
	if a.LastName != nil && *a.LastName != "" {
		parts = append(parts, *a.LastName)
	}
	return strings.Join(parts, " ")
}

// Book is a row of the books table.
type Book struct {
	ID            int64
	Title         string
	TotalPages    *int32
	Rating        *float64
	ISBN          *string
	PublishedDate *time.Time
	PublisherID   *int64
}

// BookAuthor is a row of the book_authors join table.
type BookAuthor struct {
	BookID   int64
	AuthorID int64
}

// GroupResult counts the outcome of one row group.
type GroupResult struct {
	Table    string
	Inserted int
	Reused   int
}

// Count records one dataset row as inserted or reused.
func (g *GroupResult) Count(inserted bool) {
	if inserted {
		g.Inserted++
	} else {
		g.Reused++
	}
}

// Total is the number of dataset rows the group accounted for.
func (g GroupResult) Total() int {
	return g.Inserted + g.Reused
}

// SeedReport summarizes a seed run. Groups appear in insertion order and
// only for groups that were committed.
type SeedReport struct {
	RunID  string
	Mode   SeedMode
	Groups []GroupResult
}

// Group returns the result for a table and whether it was committed.
func (r *SeedReport) Group(table string) (GroupResult, bool) {
	for _, g := range r.Groups {
		if g.Table == table {
			return g, true
		}
	}
	return GroupResult{}, false
}

// Table is a generic tabular read-back of a database table.
// Values are already formatted for display; NULL is rendered as an empty cell.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Column returns the cells of the named column, or nil if there is no such column.
func (t *Table) Column(name string) []string {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[idx])
	}
	return out
}

// IsManagedTable reports whether name is one of the four seeded tables.
func IsManagedTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return false
}
