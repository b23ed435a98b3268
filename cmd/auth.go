package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/artx/internal/server"
	"github.com/desertthunder/artx/internal/services"
	"github.com/desertthunder/artx/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// authFlowTimeout bounds how long the loopback server waits for the browser redirect.
const authFlowTimeout = 5 * time.Minute

// AuthYouTube runs the OAuth2 authorization code flow against Google and
// persists the resulting token for later API calls.
func (r *Runner) AuthYouTube(ctx context.Context, cmd *cli.Command) error {
	r.applyConfigFlag(cmd)

	creds := r.config.Credentials.YouTube
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: youtube client_id and client_secret are required", shared.ErrMissingCredential)
	}

	conf := services.NewOAuthConfig(creds)

	state, err := server.GenerateState()
	if err != nil {
		return err
	}

	handler := server.NewOAuthHandler(conf, state)
	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline)

	r.writePlain("Open the following URL to authorize access:\n\n%s\n\n", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Debug("could not open browser", "error", err)
	}

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.logger.Info("waiting for authorization", "addr", addr)

	flowCtx, cancel := context.WithTimeout(ctx, authFlowTimeout)
	defer cancel()

	token, err := server.WaitForToken(flowCtx, addr, handler, server.LoggingMiddleware(r.logger))
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	tokenPath := r.tokenPath()
	if err := saveToken(tokenPath, token); err != nil {
		return err
	}

	if r.youtube != nil {
		r.youtube.UseToken(ctx, conf, token)
	}

	r.logger.Info("token saved", "path", tokenPath)
	return r.writePlain("✓ YouTube authorization complete\nToken saved to: %s\n", tokenPath)
}

// AuthStatus reports the stored token's validity without calling the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	tokenPath := r.tokenPath()

	token, err := loadToken(tokenPath)
	if err != nil {
		r.writePlain("✗ No stored token (%s)\n", tokenPath)
		r.writePlain("Run 'artx auth youtube' to authenticate.\n")
		return nil
	}

	r.writePlain("Token file: %s\n", tokenPath)
	if token.Valid() {
		r.writePlain("Status: ✓ Valid (expires %s)\n", token.Expiry.Format(time.RFC3339))
	} else if token.RefreshToken != "" {
		r.writePlain("Status: ✗ Expired, refresh token present\n")
	} else {
		r.writePlain("Status: ✗ Expired\n")
	}
	return nil
}

// tokenPath resolves the configured token path, defaulting under the home directory.
func (r *Runner) tokenPath() string {
	if path := r.config.Credentials.YouTube.TokenPath; path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "token.json"
	}
	return filepath.Join(home, ".artx", "token.json")
}

func saveToken(path string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := shared.VerifyAndReadFile(path)
	if err != nil {
		return nil, err
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return &token, nil
}
