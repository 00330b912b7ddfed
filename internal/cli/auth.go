package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/quillhq/quill/internal/auth"
)

// newLoginCmd creates "login".
func newLoginCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store a session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				var err error
				email, err = promptLine(cmd, "Email: ")
				if err != nil {
					return err
				}
			}

			password, err := promptPassword(cmd)
			if err != nil {
				return err
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}

			result, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			session := &auth.Session{
				Token:     result.Token,
				Email:     result.User.Email,
				ExpiresAt: result.ExpiresAt,
			}
			if err := a.session.Save(session); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			cmd.Printf("Logged in as %s\n", result.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")
	return cmd
}

// newLogoutCmd creates "logout".
func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			cmd.Println("Logged out.")
			return nil
		},
	}
}

// newWhoamiCmd creates "whoami".
func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.session.Load(); err != nil {
				return err
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}

			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}

			cmd.Printf("%s <%s>\n", user.Name, user.Email)
			return nil
		},
	}
}

// promptLine reads one line from the command's input stream.
func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("input must not be empty")
	}
	return line, nil
}

// promptPassword reads a password without echo when stdin is a
// terminal, falling back to a plain line read otherwise (tests, pipes).
func promptPassword(cmd *cobra.Command) (string, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Print("Password: ")
		raw, err := term.ReadPassword(int(f.Fd()))
		cmd.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		if len(raw) == 0 {
			return "", errors.New("password must not be empty")
		}
		return string(raw), nil
	}
	return promptLine(cmd, "Password: ")
}
