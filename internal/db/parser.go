package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// ParseConnectionString parses a PostgreSQL URI into a ConnectionConfig.
// Format: postgresql://[user[:password]@][host][:port][/dbname][?param1=value1&...]
//
// Used for BOOKSEED_TEST_CONN and testcontainers DSNs; operators configure
// bookseed through DB_* variables instead.
func ParseConnectionString(connStr string) (*bookseed.ConnectionConfig, error) {
	if connStr == "" {
		return nil, fmt.Errorf("connection string is empty")
	}
	if !strings.HasPrefix(connStr, "postgresql://") && !strings.HasPrefix(connStr, "postgres://") {
		return nil, fmt.Errorf("unrecognized connection string format (expected postgresql://...)")
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL URI: %w", err)
	}

	config := &bookseed.ConnectionConfig{
		Host:             "localhost",
		Port:             bookseed.DefaultPort,
		Database:         "postgres",
		AuthMethod:       bookseed.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	if u.Hostname() != "" {
		config.Host = u.Hostname()
	}
	if u.Port() != "" {
		port, err := strconv.Atoi(u.Port())
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		config.Port = port
	}

	if u.User != nil {
		config.Username = u.User.Username()
		if pass, ok := u.User.Password(); ok {
			config.Password = pass
		}
	}

	if len(u.Path) > 1 {
		config.Database = strings.TrimPrefix(u.Path, "/")
	}

	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		switch strings.ToLower(key) {
		case "sslmode":
			config.SSLMode = value
		case "application_name":
			config.AppName = value
		case "connect_timeout":
			if timeout, err := strconv.Atoi(value); err == nil {
				config.ConnectTimeout = time.Duration(timeout) * time.Second
			}
		default:
			config.AdditionalParams[key] = value
		}
	}

	return config, nil
}

// BuildConnectionString converts a ConnectionConfig to a PostgreSQL URI for pgx.
// Credentials are percent-encoded, so passwords containing '@', '/' or ':' are safe.
func BuildConnectionString(config *bookseed.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Path:   "/" + config.Database,
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	if config.AppName != "" {
		query.Set("application_name", config.AppName)
	}
	if config.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	for key, value := range config.AdditionalParams {
		query.Set(key, value)
	}

	u.RawQuery = query.Encode()
	return u.String()
}

// RedactedConnectionString is BuildConnectionString with the password masked, for logs.
func RedactedConnectionString(config *bookseed.ConnectionConfig) string {
	redacted := *config
	if redacted.Password != "" {
		redacted.Password = "xxxxx"
	}
	return BuildConnectionString(&redacted)
}

// SplitHost splits DB_HOST values of the form "host:port" or "[v6]:port".
// A bare host returns port 0.
func SplitHost(hostport string) (string, int, error) {
	if hostport == "" {
		return "", 0, nil
	}

	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		// No port component (or a bare IPv6 literal).
		return strings.Trim(hostport, "[]"), 0, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("invalid port %q in host %q: %w", portStr, hostport, bookseed.ErrInvalidConfig)
	}
	return host, port, nil
}
