package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vvka-141/bookseed/internal/logging"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

type fakeTokenProvider struct {
	token     string
	expiresOn time.Time
	err       error
	calls     int
}

func (f *fakeTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	f.calls++
	return f.token, f.expiresOn, f.err
}

func (f *fakeTokenProvider) String() string { return "fake" }

func TestTokenBasedConnector_TokenFailure(t *testing.T) {
	provider := &fakeTokenProvider{err: errors.New("no credentials")}
	cfg := &bookseed.ConnectionConfig{Host: "127.0.0.1", Port: 1, Username: "u", Database: "d"}

	conn, err := NewTokenBasedConnector(cfg, provider, "Fake", logging.NewNullLogger()).Connect(context.Background())
	if conn != nil {
		t.Error("expected nil connection")
	}
	if !errors.Is(err, bookseed.ErrConnectionFailed) {
		t.Errorf("expected ErrConnectionFailed, got %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected exactly one token request, got %d", provider.calls)
	}
}

func TestTokenBasedConnector_UsesTokenAsPassword(t *testing.T) {
	provider := &fakeTokenProvider{token: "tok", expiresOn: time.Now().Add(time.Hour)}
	cfg := &bookseed.ConnectionConfig{
		Host:           "127.0.0.1",
		Port:           1,
		Username:       "u",
		Database:       "d",
		Password:       "ignored",
		SSLMode:        "disable",
		ConnectTimeout: 2 * time.Second,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewTokenBasedConnector(cfg, provider, "Fake", nil).Connect(ctx)
	if !errors.Is(err, bookseed.ErrConnectionFailed) {
		t.Errorf("expected ErrConnectionFailed, got %v", err)
	}
	if cfg.Password != "ignored" {
		t.Error("connector must not mutate the shared config")
	}
}

func TestNewAWSIAMTokenProvider_Validation(t *testing.T) {
	if _, err := NewAWSIAMTokenProvider("", "eu-west-1", "u"); err == nil {
		t.Error("expected error for empty endpoint")
	}
	if _, err := NewAWSIAMTokenProvider("db:5432", "", "u"); err == nil {
		t.Error("expected error for empty region")
	}
	if _, err := NewAWSIAMTokenProvider("db:5432", "eu-west-1", ""); err == nil {
		t.Error("expected error for empty username")
	}
	p, err := NewAWSIAMTokenProvider("db:5432", "eu-west-1", "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.String() != "AWSIAMTokenProvider(endpoint=db:5432, region=eu-west-1, user=u)" {
		t.Errorf("String() = %q", p.String())
	}
}

func TestNewAzureServicePrincipalProvider_RequiresAllFields(t *testing.T) {
	if _, err := NewAzureServicePrincipalProvider("tenant", "client", ""); err == nil {
		t.Error("expected error for missing secret")
	}
}
