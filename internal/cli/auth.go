package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zentasks/zentasks/internal/app"
	"github.com/zentasks/zentasks/internal/usecase"
)

// readSecret returns flagValue, or reads one line from r when it is empty.
func readSecret(r io.Reader, w io.Writer, prompt, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	_, _ = fmt.Fprint(w, prompt)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(prompt), ": "), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// newLoginCommand creates the login command.
func newLoginCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Username string
		Password string
	}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the ZenTasks API",
		Long: `Log in and store the session token locally.

If --password is omitted it is read from standard input, so it can be piped:

Examples:
  zentasks login -u alice
  printf '%s\n' "$ZEN_PASSWORD" | zentasks login -u alice`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ", opts.Password)
			if err != nil {
				return err
			}

			out, err := c.LoginUseCase().Execute(cmd.Context(), usecase.LoginInput{
				Username: opts.Username,
				Password: password,
			})
			if err != nil {
				return err
			}

			name := opts.Username
			if out.Session.User != nil && out.Session.User.Username != "" {
				name = out.Session.User.Username
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Password (read from stdin if omitted)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// newRegisterCommand creates the register command.
func newRegisterCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Username string
		Email    string
		Password string
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: `Create a ZenTasks account and log in as it.

Rules: username at least 3 characters, a valid email, password at least 8 characters.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: ", opts.Password)
			if err != nil {
				return err
			}

			out, err := c.RegisterUseCase().Execute(cmd.Context(), usecase.RegisterInput{
				Username: opts.Username,
				Email:    opts.Email,
				Password: password,
			})
			if err != nil {
				return err
			}

			name := opts.Username
			if out.Session.User != nil && out.Session.User.Username != "" {
				name = out.Session.User.Username
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Username, "username", "u", "", "Username (required)")
	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "Email address (required)")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Password (read from stdin if omitted)")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// newLogoutCommand creates the logout command.
func newLogoutCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Long:  `Remove the stored token and user, and drop all cached task data.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.LogoutUseCase().Execute(cmd.Context(), usecase.LogoutInput{})
			if err != nil {
				return err
			}
			if !out.WasLoggedIn {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// newWhoAmICommand creates the whoami command.
func newWhoAmICommand(c *app.Container) *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Long: `Show the logged-in user.

The stored token is checked against the server. If the server cannot be
reached the stored user is shown with a warning. Use --local to skip the check.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.WhoAmIUseCase().Execute(cmd.Context(), usecase.WhoAmIInput{Local: local})
			if err != nil {
				return err
			}
			if out.Warning != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", out.Warning)
			}

			w := cmd.OutOrStdout()
			if out.User != nil {
				printField(w, "User", out.User.Username)
				if out.User.Email != "" {
					printField(w, "Email", out.User.Email)
				}
				if out.User.Role != "" {
					printField(w, "Role", string(out.User.Role))
				}
			}
			if out.HasExpiresAt {
				printField(w, "Expires", out.ExpiresAt.Local().Format(time.RFC3339))
			}
			if !local {
				printField(w, "Verified", yesNo(out.Verified))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "Report the stored session without asking the server")

	return cmd
}
