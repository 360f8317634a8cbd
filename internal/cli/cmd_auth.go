package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the stored API token",
	}

	var token string
	login := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token for API requests",
		Long:  "Store a bearer token for API requests. Without --token the token is read from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}
				token = string(b)
			}
			token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
			if token == "" {
				return errors.New("no token given")
			}
			if err := app.Tokens.SetToken(cmd.Context(), token); err != nil {
				return fmt.Errorf("storing token: %w", err)
			}
			app.logger().Info("auth token stored")
			fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleGreen.Render("Token stored."))
			return nil
		},
	}
	login.Flags().StringVar(&token, "token", "", "bearer token")

	logout := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tokens.ClearToken(cmd.Context()); err != nil {
				return fmt.Errorf("clearing token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Token cleared.")
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether a token is stored and what it claims",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := app.Tokens.Token(cmd.Context())
			if err != nil {
				return fmt.Errorf("reading token: %w", err)
			}
			out := cmd.OutOrStdout()
			if tok == "" {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}
			fmt.Fprintln(out, "Logged in.")
			if ts, ok := app.Tokens.(repository.TokenTimestamper); ok {
				if at, err := ts.UpdatedAt(cmd.Context()); err == nil && !at.IsZero() {
					fmt.Fprintf(out, "Stored:   %s\n", at.UTC().Format(time.RFC3339))
				}
			}
			info, err := inspectToken(tok, time.Now())
			if err != nil {
				fmt.Fprintln(out, formatter.Dim("Token is not a JWT; claims unavailable."))
				return nil
			}
			fmt.Fprint(out, info.String())
			return nil
		},
	}

	cmd.AddCommand(login, logout, status)
	return cmd
}

// tokenInfo is what auth status reports about a stored JWT.
type tokenInfo struct {
	Subject   string
	Issuer    string
	ExpiresAt time.Time
	Expired   bool
}

func (t tokenInfo) String() string {
	var b strings.Builder
	if t.Subject != "" {
		fmt.Fprintf(&b, "Subject:  %s\n", t.Subject)
	}
	if t.Issuer != "" {
		fmt.Fprintf(&b, "Issuer:   %s\n", t.Issuer)
	}
	switch {
	case t.ExpiresAt.IsZero():
		b.WriteString("Expires:  never\n")
	case t.Expired:
		fmt.Fprintf(&b, "Expires:  %s %s\n", t.ExpiresAt.Format(time.RFC3339), formatter.StyleRed.Render("(expired)"))
	default:
		fmt.Fprintf(&b, "Expires:  %s\n", t.ExpiresAt.Format(time.RFC3339))
	}
	return b.String()
}

// inspectToken decodes JWT claims without verifying the signature; the
// signing key belongs to the server and the result is informational only.
func inspectToken(raw string, now time.Time) (tokenInfo, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return tokenInfo{}, err
	}
	info := tokenInfo{Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time.UTC()
		info.Expired = !info.ExpiresAt.After(now)
	}
	return info, nil
}
