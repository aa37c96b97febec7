package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/movienite/nite/internal/shared"
	"github.com/urfave/cli/v3"
)

// sessionSetter is implemented by API clients that carry a session cookie.
type sessionSetter interface {
	SetSessionToken(token string)
}

// saveSessionToken persists the token to config.toml and applies it to the
// live API client for the rest of this invocation.
func (r *Runner) saveSessionToken(token string) error {
	r.config.Session.Token = token
	if setter, ok := r.api.(sessionSetter); ok {
		setter.SetSessionToken(token)
	}

	if err := shared.SaveConfig(r.configPath, r.config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// AuthLogin starts the browser login flow. The backend owns the Discord
// OAuth dance; the CLI only opens the redirect URL it hands back.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("requesting login URL")

	url, err := r.auth.Login(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	r.writePlain("✓ Login page opened in your browser\n")
	r.writePlain("URL: %s\n", url)
	r.writePlainln("After logging in, import the session cookie:")
	r.writePlain("1. Open DevTools on the MovieNite tab and copy any /api request as cURL\n")
	r.writePlain("2. Run 'nite auth import --curl '<paste>''\n")

	return nil
}

// AuthStatus checks the current session by fetching the authenticated user.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	r.logger.Info("checking auth status")

	user, err := r.auth.FetchUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	if user == nil {
		r.writePlain("Authentication: ✗ Not authenticated\n")
		r.writePlain("Run 'nite auth login' to sign in\n")
		return nil
	}

	r.writePlain("Authentication: ✓ Authenticated\n")
	r.writePlain("User: %s\n", user.Username)
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	if user.IsAdmin {
		r.writePlain("Role: admin\n")
	}

	return nil
}

// AuthLogout invalidates the session server-side and clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.auth.Logout(ctx); err != nil {
		r.logger.Warn("remote logout failed, clearing local session anyway", "error", err)
	}

	if r.config.Session.Token != "" {
		if err := r.saveSessionToken(""); err != nil {
			return err
		}
	}

	return r.writePlain("✓ Logged out\n")
}

// AuthImport extracts the session cookie from a browser cURL command.
//
// MovieNite's session cookie lives in the browser after the OAuth redirect;
// "Copy as cURL" on any authenticated request carries it out.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}

	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	r.logger.Info("parsing cURL command for session cookie")

	var session *shared.CurlSession
	var err error

	if curlFile != "" {
		session, err = shared.ParseCurlFile(curlFile)
		if err != nil {
			return fmt.Errorf("failed to parse cURL file: %w", err)
		}
		r.logger.Info("parsed cURL from file", "file", curlFile)
	} else {
		session, err = shared.ParseCurlCommand([]byte(curlCmd))
		if err != nil {
			return fmt.Errorf("failed to parse cURL command: %w", err)
		}
		r.logger.Info("parsed cURL command")
	}

	token := session.SessionToken()
	if token == "" {
		return fmt.Errorf("%w: no %s cookie found in the cURL command", shared.ErrNoSessionToken, shared.SessionCookieName)
	}

	if err := r.saveSessionToken(token); err != nil {
		return err
	}

	r.writePlain("✓ Session imported\n")
	r.writePlain("Run 'nite auth status' to verify\n")

	return nil
}

// AuthToken stores a session token passed directly on the command line.
func (r *Runner) AuthToken(ctx context.Context, cmd *cli.Command) error {
	token := strings.TrimSpace(cmd.StringArg("token"))
	if token == "" {
		// fall back to stdin so the token stays out of shell history
		fmt.Fprint(os.Stderr, "Session token: ")
		if _, err := fmt.Scanln(&token); err != nil || token == "" {
			return fmt.Errorf("%w: a session token is required", shared.ErrMissingArgument)
		}
	}

	if err := r.saveSessionToken(token); err != nil {
		return err
	}

	return r.writePlain("✓ Session token saved\n")
}
