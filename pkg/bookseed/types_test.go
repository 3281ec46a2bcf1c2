package bookseed_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vvka-141/bookseed/pkg/bookseed"
)

func validConnection() *bookseed.ConnectionConfig {
	return &bookseed.ConnectionConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "library",
		Username: "seeder",
		Password: "secret",
		SSLMode:  "disable",
	}
}

func TestConnectionConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *bookseed.ConnectionConfig)
		wantError bool
		errorType error
	}{
		{
			name:   "valid config",
			mutate: func(c *bookseed.ConnectionConfig) {},
		},
		{
			name:   "empty password is allowed",
			mutate: func(c *bookseed.ConnectionConfig) { c.Password = "" },
		},
		{
			name:      "missing host",
			mutate:    func(c *bookseed.ConnectionConfig) { c.Host = "" },
			wantError: true,
			errorType: bookseed.ErrInvalidConfig,
		},
		{
			name:      "missing user",
			mutate:    func(c *bookseed.ConnectionConfig) { c.Username = "" },
			wantError: true,
			errorType: bookseed.ErrInvalidConfig,
		},
		{
			name:      "missing database",
			mutate:    func(c *bookseed.ConnectionConfig) { c.Database = "" },
			wantError: true,
			errorType: bookseed.ErrInvalidConfig,
		},
		{
			name:      "port out of range",
			mutate:    func(c *bookseed.ConnectionConfig) { c.Port = 70000 },
			wantError: true,
			errorType: bookseed.ErrInvalidConfig,
		},
		{
			name:      "aws without region",
			mutate:    func(c *bookseed.ConnectionConfig) { c.AuthMethod = bookseed.AuthMethodAWSIAM },
			wantError: true,
			errorType: bookseed.ErrInvalidConfig,
		},
		{
			name: "google without host is fine when instance is set",
			mutate: func(c *bookseed.ConnectionConfig) {
				c.AuthMethod = bookseed.AuthMethodGoogleIAM
				c.Host = ""
				c.GoogleInstance = "proj:region:inst"
			},
		},
		{
			name:      "undefined auth method",
			mutate:    func(c *bookseed.ConnectionConfig) { c.AuthMethod = bookseed.AuthMethod(42) },
			wantError: true,
			errorType: bookseed.ErrUnsupportedAuthMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConnection()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, tt.errorType) {
					t.Errorf("expected error to wrap %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConnectionConfig_Validate_ReportsAllMissingFields(t *testing.T) {
	err := (&bookseed.ConnectionConfig{}).Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, field := range []string{"host", "user", "database"} {
		if !strings.Contains(err.Error(), field+" is required") {
			t.Errorf("error should mention %s: %v", field, err)
		}
	}
}

func TestSeedConfig_Validate(t *testing.T) {
	cfg := bookseed.SeedConfig{Connection: validConnection(), Timeout: time.Minute}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.Timeout = -time.Second
	if err := cfg.Validate(); !errors.Is(err, bookseed.ErrInvalidConfig) {
		t.Errorf("negative timeout: got %v", err)
	}

	cfg = bookseed.SeedConfig{}
	if err := cfg.Validate(); !errors.Is(err, bookseed.ErrInvalidConfig) {
		t.Errorf("nil connection: got %v", err)
	}

	cfg = bookseed.SeedConfig{Connection: validConnection(), Mode: bookseed.SeedMode(9)}
	if err := cfg.Validate(); !errors.Is(err, bookseed.ErrInvalidConfig) {
		t.Errorf("bad mode: got %v", err)
	}
}

func TestParseAuthMethod(t *testing.T) {
	tests := map[string]bookseed.AuthMethod{
		"":         bookseed.AuthMethodStandard,
		"standard": bookseed.AuthMethodStandard,
		"AWS":      bookseed.AuthMethodAWSIAM,
		"google":   bookseed.AuthMethodGoogleIAM,
		"azure":    bookseed.AuthMethodAzureEntraID,
	}
	for in, want := range tests {
		got, err := bookseed.ParseAuthMethod(in)
		if err != nil {
			t.Errorf("ParseAuthMethod(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseAuthMethod(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := bookseed.ParseAuthMethod("kerberos"); !errors.Is(err, bookseed.ErrUnsupportedAuthMethod) {
		t.Errorf("expected ErrUnsupportedAuthMethod, got %v", err)
	}
}

func TestParseSeedMode(t *testing.T) {
	if m, err := bookseed.ParseSeedMode(""); err != nil || m != bookseed.SeedModeAppend {
		t.Errorf("empty: got %v, %v", m, err)
	}
	if m, err := bookseed.ParseSeedMode("skip-existing"); err != nil || m != bookseed.SeedModeSkipExisting {
		t.Errorf("skip-existing: got %v, %v", m, err)
	}
	if _, err := bookseed.ParseSeedMode("upsert"); !errors.Is(err, bookseed.ErrInvalidConfig) {
		t.Errorf("upsert: expected ErrInvalidConfig, got %v", err)
	}
}

func TestAuthor_FullName(t *testing.T) {
	noah := "Noah"
	harari := "Harari"
	empty := ""

	tests := []struct {
		author bookseed.Author
		want   string
	}{
		{bookseed.Author{FirstName: "Yuval", MiddleName: &noah, LastName: &harari}, "Yuval Noah Harari"},
		{bookseed.Author{FirstName: "Yuval", LastName: &harari}, "Yuval Harari"},
		{bookseed.Author{FirstName: "Yuval", MiddleName: &empty}, "Yuval"},
	}
	for _, tt := range tests {
		if got := tt.author.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}

func TestTable_Column(t *testing.T) {
	tbl := bookseed.Table{
		Name:    "publishers",
		Columns: []string{"publisher_id", "name"},
		Rows:    [][]string{{"1", "O Reilly Media"}, {"2", "A Book Apart"}},
	}

	names := tbl.Column("name")
	if len(names) != 2 || names[0] != "O Reilly Media" || names[1] != "A Book Apart" {
		t.Errorf("Column(name) = %v", names)
	}
	if tbl.Column("missing") != nil {
		t.Error("expected nil for unknown column")
	}
}

func TestSeedReport_Group(t *testing.T) {
	r := bookseed.SeedReport{Groups: []bookseed.GroupResult{
		{Table: bookseed.TablePublishers, Inserted: 5, Reused: 2},
	}}

	g, ok := r.Group(bookseed.TablePublishers)
	if !ok || g.Total() != 7 {
		t.Errorf("Group(publishers) = %+v, %v", g, ok)
	}
	if _, ok := r.Group(bookseed.TableBooks); ok {
		t.Error("books group should be absent")
	}
}

func TestIsManagedTable(t *testing.T) {
	for _, name := range bookseed.Tables {
		if !bookseed.IsManagedTable(name) {
			t.Errorf("%s should be managed", name)
		}
	}
	if bookseed.IsManagedTable("pg_class") {
		t.Error("pg_class should not be managed")
	}
}
