package db

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vvka-141/bookseed/internal/config"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// ConnFlags represents connection parameters from CLI flags.
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use DB_PASSWORD (directly or through a .env file) instead.
type ConnFlags struct {
	Host       string
	Port       int
	Username   string
	Database   string
	SSLMode    string
	AuthMethod string
}

// IsEmpty returns true if no connection-related flags were provided by the user.
func (f *ConnFlags) IsEmpty() bool {
	return f == nil || (f.Host == "" && f.Port == 0 && f.Username == "" &&
		f.Database == "" && f.SSLMode == "" && f.AuthMethod == "")
}

// EnvVars represents the environment variables bookseed reads.
type EnvVars struct {
	DB_USER        string
	DB_PASSWORD    string
	DB_HOST        string // host or host:port
	DB_PORT        string
	DB_NAME        string
	DB_SSLMODE     string
	DB_AUTH_METHOD string

	AWS_REGION         string
	DB_GOOGLE_INSTANCE string

	// Azure Entra ID environment variables (Azure SDK standard names)
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment reads the DB_* and cloud provider variables from the process environment.
func LoadFromEnvironment() *EnvVars {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = os.Getenv("AWS_DEFAULT_REGION")
	}
	return &EnvVars{
		DB_USER:             os.Getenv("DB_USER"),
		DB_PASSWORD:         os.Getenv("DB_PASSWORD"),
		DB_HOST:             os.Getenv("DB_HOST"),
		DB_PORT:             os.Getenv("DB_PORT"),
		DB_NAME:             os.Getenv("DB_NAME"),
		DB_SSLMODE:          os.Getenv("DB_SSLMODE"),
		DB_AUTH_METHOD:      os.Getenv("DB_AUTH_METHOD"),
		AWS_REGION:          region,
		DB_GOOGLE_INSTANCE:  os.Getenv("DB_GOOGLE_INSTANCE"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnectionParams resolves connection parameters with the precedence:
//
//  1. CLI flag (--host, --port, --username, --database, --sslmode, --auth)
//  2. Environment variable (DB_HOST, DB_PORT, DB_USER, DB_NAME, DB_SSLMODE, DB_AUTH_METHOD)
//  3. bookseed.yaml connection section
//  4. Defaults (port 5432, sslmode prefer, standard auth)
//
// The password only ever comes from DB_PASSWORD. A port embedded in DB_HOST
// ("db:6432") wins over DB_PORT.
//
// The returned config is validated: missing host, user or database yield an
// error wrapping bookseed.ErrInvalidConfig, so no connection is attempted
// with a malformed connection string.
func ResolveConnectionParams(
	flags *ConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*bookseed.ConnectionConfig, error) {
	if flags == nil {
		flags = &ConnFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	cfg := &bookseed.ConnectionConfig{
		AdditionalParams: make(map[string]string),
		ConnectTimeout:   bookseed.DefaultConnectTimeout,
	}

	// Host (and optional port): flag > DB_HOST > bookseed.yaml
	hostValue := firstNonEmpty(flags.Host, envVars.DB_HOST, pc.Host)
	host, hostPort, err := SplitHost(hostValue)
	if err != nil {
		return nil, err
	}
	cfg.Host = host

	// Port: flag > port in host > DB_PORT > bookseed.yaml > default
	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case hostPort != 0:
		cfg.Port = hostPort
	case envVars.DB_PORT != "":
		port, err := strconv.Atoi(envVars.DB_PORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $DB_PORT value '%s': must be an integer: %w", envVars.DB_PORT, bookseed.ErrInvalidConfig)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = bookseed.DefaultPort
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.DB_USER, pc.Username)
	cfg.Password = envVars.DB_PASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.DB_NAME, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.DB_SSLMODE, pc.SSLMode, bookseed.DefaultSSLMode)

	method, err := bookseed.ParseAuthMethod(firstNonEmpty(flags.AuthMethod, envVars.DB_AUTH_METHOD, pc.AuthMethod))
	if err != nil {
		return nil, err
	}
	cfg.AuthMethod = method

	switch method {
	case bookseed.AuthMethodAWSIAM:
		cfg.AWSRegion = firstNonEmpty(envVars.AWS_REGION, pc.AWSRegion)
	case bookseed.AuthMethodGoogleIAM:
		cfg.GoogleInstance = firstNonEmpty(envVars.DB_GOOGLE_INSTANCE, pc.GoogleInstance)
	case bookseed.AuthMethodAzureEntraID:
		cfg.AzureTenantID = firstNonEmpty(envVars.AZURE_TENANT_ID, pc.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(envVars.AZURE_CLIENT_ID, pc.AzureClientID)
		// Client secret only comes from env var (never from files on disk)
		cfg.AzureClientSecret = envVars.AZURE_CLIENT_SECRET
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolveTimeout picks the flag value when it was set explicitly, then
// bookseed.yaml, then the flag default.
func ResolveTimeout(flagValue time.Duration, flagChanged bool, projectConfig *config.ProjectConfig) (time.Duration, error) {
	if flagChanged {
		return flagValue, nil
	}
	fromFile, err := projectConfig.TimeoutDuration()
	if err != nil {
		return 0, errors.Join(err, bookseed.ErrInvalidConfig)
	}
	if fromFile > 0 {
		return fromFile, nil
	}
	return flagValue, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
