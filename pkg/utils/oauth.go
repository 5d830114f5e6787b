package utils

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
)

// OAuth scopes for Google APIs
const (
	ScopeSheetsReadonly = "https://www.googleapis.com/auth/spreadsheets.readonly"
	ScopeGmailSend      = "https://www.googleapis.com/auth/gmail.send"
)

// ServiceAccountConfig parses a service account key.
// subject is the user to impersonate through domain-wide delegation (empty for none).
func ServiceAccountConfig(keyJSON []byte, subject string, scopes ...string) (*jwt.Config, error) {
	jwtCfg, err := google.JWTConfigFromJSON(keyJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}
	jwtCfg.Subject = subject
	return jwtCfg, nil
}

// GoogleHTTPClient creates an HTTP client authorized with the service account key in credentialsFile.
// Tokens are fetched and refreshed by the returned client.
func GoogleHTTPClient(ctx context.Context, credentialsFile, subject string, scopes ...string) (*http.Client, error) {
	keyJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	jwtCfg, err := ServiceAccountConfig(keyJSON, subject, scopes...)
	if err != nil {
		return nil, err
	}

	return jwtCfg.Client(ctx), nil
}
