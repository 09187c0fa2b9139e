package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/tessro/tuneboard/internal/browser"
	"github.com/tessro/tuneboard/internal/core"
	tberrors "github.com/tessro/tuneboard/internal/errors"
	"github.com/tessro/tuneboard/internal/spotify/auth"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Spotify authentication",
	Long:  `Commands for managing Spotify OAuth authentication.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Spotify",
	Long:  `Opens a browser to authenticate with Spotify using OAuth PKCE flow.`,
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored Spotify credentials",
	Long:  `Removes the stored Spotify OAuth tokens from the local machine.`,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long:  `Shows the current Spotify authentication status.`,
	RunE:  runAuthStatus,
}

var authNoBrowser bool

func init() {
	authLoginCmd.Flags().BoolVar(&authNoBrowser, "no-browser", false, "print the URL instead of opening a browser")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	if cfg.Spotify.ClientID == "" {
		return tberrors.WithSuggestion(
			fmt.Errorf("%w: spotify.client_id not configured", tberrors.ErrInvalidConfig),
			"Set spotify.client_id in ~/.tuneboardrc or TUNEBOARD_SPOTIFY_CLIENT_ID",
		)
	}

	storage, err := tokenStorage()
	if err != nil {
		return err
	}

	opts := auth.LoginOptions{Timeout: 5 * time.Minute}
	if authNoBrowser {
		opts.OpenURL = func(u string) error {
			fmt.Fprintf(cmd.ErrOrStderr(), "Open this URL in your browser:\n\n%s\n\n", u)
			return nil
		}
	} else {
		opts.OpenURL = func(u string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "Opening browser for Spotify authentication...")
			if err := browser.Open(u); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser automatically.\nPlease open this URL in your browser:\n\n%s\n\n", u)
			}
			return nil
		}
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for authentication...")
	token, err := auth.Login(cmd.Context(), authConfig(), storage, opts)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	out := cmd.OutOrStdout()
	user, err := spotifyClient().GetCurrentUser(cmd.Context(), tokenCredential(token))
	if err != nil {
		if JSONOutput() {
			return printJSON(out, map[string]interface{}{"status": "authenticated"})
		}
		fmt.Fprintln(out, "Authentication successful! Token stored.")
		return nil
	}

	if JSONOutput() {
		return printJSON(out, map[string]interface{}{
			"status":       "authenticated",
			"user_id":      user.ID,
			"display_name": user.DisplayName,
			"product":      user.Product,
		})
	}
	fmt.Fprintf(out, "Successfully authenticated as %s\n", user.DisplayName)
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	storage, err := tokenStorage()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !storage.Exists() {
		if JSONOutput() {
			return printJSON(out, map[string]string{"status": "not_authenticated"})
		}
		fmt.Fprintln(out, "Not authenticated with Spotify.")
		return nil
	}

	if err := storage.Delete(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	if JSONOutput() {
		return printJSON(out, map[string]string{"status": "logged_out"})
	}
	fmt.Fprintln(out, "Logged out of Spotify.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	storage, err := tokenStorage()
	if err != nil {
		return err
	}
	token, err := storage.Load()
	if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	if token == nil {
		if JSONOutput() {
			return printJSON(out, map[string]interface{}{"authenticated": false})
		}
		fmt.Fprintln(out, "Not authenticated with Spotify.")
		fmt.Fprintln(out, "Run 'tuneboard auth login' to authenticate.")
		return nil
	}

	status := map[string]interface{}{
		"authenticated": true,
		"token_path":    storage.Path(),
		"expires_at":    token.Expiry,
	}

	// Going through the source refreshes an expired token.
	var userErr error
	if cfg.Spotify.ClientID != "" {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		src := auth.NewSource(authConfig(), storage)
		cred, err := src.Credential(ctx)
		if err == nil {
			user, err := spotifyClient().GetCurrentUser(ctx, cred)
			if err == nil {
				status["user_id"] = user.ID
				status["display_name"] = user.DisplayName
				status["product"] = user.Product
			}
			userErr = err
		} else {
			userErr = err
		}
		if t, err := storage.Load(); err == nil && t != nil {
			status["expires_at"] = t.Expiry
		}
	}
	if userErr != nil {
		status["error"] = userErr.Error()
	}

	if JSONOutput() {
		return printJSON(out, status)
	}

	if name, ok := status["display_name"]; ok {
		fmt.Fprintf(out, "Authenticated as: %s\n", name)
		fmt.Fprintf(out, "Account type: %s\n", status["product"])
	} else {
		fmt.Fprintln(out, "Authenticated with Spotify.")
	}
	if expiry, ok := status["expires_at"].(time.Time); ok && !expiry.IsZero() {
		fmt.Fprintf(out, "Token expires: %s\n", expiry.Format(time.RFC3339))
	}
	if userErr != nil {
		fmt.Fprintf(out, "Token may be expired or invalid: %v\n", userErr)
		fmt.Fprintln(out, "Run 'tuneboard auth login' to re-authenticate.")
	}
	return nil
}

func tokenCredential(t *oauth2.Token) core.Credential {
	return core.Credential(t.AccessToken)
}
