package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erazemk/freshrack/internal/client"
)

type credentialOptions struct {
	*RootOptions
	Email    string
	Password string
}

// readPassword returns the --password flag or the first line of stdin.
func (o *credentialOptions) readPassword(cmd *cobra.Command) (string, error) {
	if o.Password != "" {
		return o.Password, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", WrapExitError(ExitCommandError, "reading password", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", NewExitError(ExitCommandError, "password required")
	}
	return password, nil
}

func newRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &credentialOptions{RootOptions: rootOpts}
	var name, photoURL string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Long: `Create an account and log in.

Passwords need at least 6 characters with an uppercase and a lowercase letter.
Without --password the password is read from standard input.

Example:
  fridge register --name Ana --email ana@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := opts.readPassword(cmd)
			if err != nil {
				return err
			}

			s, err := opts.client().Register(cmd.Context(), name, opts.Email, photoURL, password)
			if err != nil {
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
					return NewExitError(ExitFailure, "registration rejected: "+apiErr.Message)
				}
				return WrapExitError(ExitFailure, "registering", err)
			}
			return opts.saveAndReport(cmd, s, "Registered")
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&photoURL, "photo-url", "", "profile photo URL")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (read from stdin if empty)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &credentialOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := opts.readPassword(cmd)
			if err != nil {
				return err
			}

			s, err := opts.client().Login(cmd.Context(), opts.Email, password)
			if errors.Is(err, client.ErrUnauthorized) {
				return NewExitError(ExitFailure, "wrong email or password")
			}
			if err != nil {
				return WrapExitError(ExitFailure, "logging in", err)
			}
			return opts.saveAndReport(cmd, s, "Logged in")
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password (read from stdin if empty)")
	cmd.MarkFlagRequired("email")

	return cmd
}

func (o *credentialOptions) saveAndReport(cmd *cobra.Command, s client.Session, verb string) error {
	if err := SaveSession(o.SessionPath, s); err != nil {
		return WrapExitError(ExitCommandError, "saving session", err)
	}
	out := o.formatter(cmd)
	out.VerboseLog("session saved to %s", o.SessionPath)
	return out.Success(map[string]string{"email": s.Email, "name": s.Name}, func(w io.Writer) {
		fmt.Fprintf(w, "%s as %s <%s>\n", verb, s.Name, s.Email)
	})
}

func newLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session()
			if err != nil {
				return err
			}
			out := opts.formatter(cmd)

			// The local session is dropped even if the server is unreachable.
			if err := opts.client().Logout(cmd.Context(), s); err != nil {
				out.VerboseLog("server logout failed: %v", err)
			}
			if err := ClearSession(opts.SessionPath); err != nil {
				return WrapExitError(ExitCommandError, "logging out", err)
			}
			return out.Success(map[string]string{"message": "logged out"}, func(w io.Writer) {
				fmt.Fprintln(w, "Logged out")
			})
		},
	}
}

func newWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.requireSession()
			if err != nil {
				return err
			}

			user, err := opts.client().Me(cmd.Context(), s)
			if errors.Is(err, client.ErrUnauthorized) {
				return NewExitError(ExitFailure, "session expired; run 'fridge login' again")
			}
			if err != nil {
				return WrapExitError(ExitFailure, "fetching account", err)
			}

			return opts.formatter(cmd).Success(user, func(w io.Writer) {
				fmt.Fprintf(w, "%s <%s>\n", user.Name, user.Email)
			})
		},
	}
}
