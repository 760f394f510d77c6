package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/djx/internal/server"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/spotify"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// AuthLogin performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local HTTP server, opens the browser for user authorization, and
// saves the resulting access token to the config file. Tokens obtained this
// way can reach endpoints that reject client-credentials tokens on
// development apps.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if config == nil {
		var err error
		if _, statErr := os.Stat(configPath); statErr == nil {
			config, err = shared.LoadConfig(configPath)
			if err != nil {
				r.logger.Warnf("failed to load config, using defaults %v", err)
				config = shared.DefaultConfig()
			}
		} else {
			config = shared.DefaultConfig()
		}
		r.config = config
	}
	if r.configPath == "" {
		r.configPath = configPath
	}

	creds := config.Credentials.Spotify
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrInvalidArgument)
	}
	if creds.RedirectURI == "" {
		return fmt.Errorf("%w: Spotify redirect_uri must be set in config.toml", shared.ErrInvalidArgument)
	}

	oauthConfig := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Scopes:       []string{"user-read-private"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotify.AuthURL,
			TokenURL: spotify.TokenURL,
		},
	}

	token, err := r.doOAuth(config, oauthConfig)
	if err != nil {
		return err
	}

	if err := r.saveTokens(token); err != nil {
		return err
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token saved to %s\n\n", r.configPath)
	r.writePlain("You can now use: djx search \"your query\"\n")

	return nil
}

// AuthStatus shows which credentials are configured and how the client will
// authenticate.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify

	r.writePlainHeader("Authentication Status")

	if creds.AccessToken != "" {
		r.writePlain("Mode: pre-issued access token (never refreshed)\n")
	} else if creds.ClientID != "" && creds.ClientSecret != "" {
		r.writePlain("Mode: client credentials (token fetched on first request)\n")
	} else {
		r.writePlain("Mode: not configured\n")
		r.writePlain("\nSet SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET, or run 'djx auth login'.\n")
		return nil
	}

	if creds.ClientID != "" {
		r.writePlain("Client ID: %s\n", creds.ClientID)
	}
	if creds.Market != "" {
		r.writePlain("Market: %s\n", creds.Market)
	}

	return nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server
func (r *Runner) doOAuth(config *shared.Config, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := oauthConfig.AuthCodeURL(state)
	oauthHandler := server.NewOAuthHandler(oauthConfig, state)
	router := server.NewBasicRouter()
	router.Use(server.Logging(r.logger))
	router.Handler(oauthHandler)

	serverAddr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	serverErrors := make(chan error, 1)
	go func() {
		r.logger.Infof("starting OAuth server at %v", serverAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}

	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	var result server.OAuthResult

	select {
	case result = <-oauthHandler.Result():
		// Got result from callback
	case err := <-serverErrors:
		return nil, fmt.Errorf("server error: %w", err)
	case <-timeout.C:
		return nil, fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		r.logger.Warn("error shutting down server", "error", err)
	}

	if result.Error() != nil {
		return nil, fmt.Errorf("authorization failed: %w", result.Error())
	}

	if result.Token == nil {
		return nil, fmt.Errorf("no token received")
	}

	return result.Token, nil
}
