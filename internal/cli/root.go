// Package cli implements the fridge command line client.
package cli

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/freshrack/internal/client"
	"github.com/erazemk/freshrack/internal/model"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	APIURL      string
	SessionPath string

	// Now is the clock used for classification.
	Now func() time.Time
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// DefaultAPIURL is used when neither --api nor FRESHRACK_API_URL is set.
const DefaultAPIURL = "http://localhost:8080"

// NewRootCommand creates the root command for the fridge CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{Now: time.Now})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	apiDefault := os.Getenv("FRESHRACK_API_URL")
	if apiDefault == "" {
		apiDefault = DefaultAPIURL
	}

	cmd := &cobra.Command{
		Use:   "fridge",
		Short: "Track the food in a shared fridge",
		Long: `fridge lists, adds and updates items in a shared fridge and shows which
of them are expired or about to expire.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api", apiDefault, "freshrack server URL")
	cmd.PersistentFlags().StringVar(&opts.SessionPath, "session", DefaultSessionPath(), "session file")

	cmd.AddCommand(
		newRegisterCommand(opts),
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newListCommand(opts),
		newShowCommand(opts),
		newAddCommand(opts),
		newUpdateCommand(opts),
		newDeleteCommand(opts),
		newNoteCommand(opts),
		newStatsCommand(opts),
		newExpiringCommand(opts),
		newExpiredCommand(opts),
		newPolicyCommand(opts),
	)

	return cmd
}

func (o *RootOptions) client() *client.Client {
	return client.New(o.APIURL, client.WithUserAgent("fridge-cli"))
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func (o *RootOptions) session() (client.Session, error) {
	s, err := LoadSession(o.SessionPath)
	if err != nil {
		return client.Session{}, WrapExitError(ExitCommandError, "loading session", err)
	}
	return s, nil
}

// requireSession loads the session and fails if nobody is logged in.
func (o *RootOptions) requireSession() (client.Session, error) {
	s, err := o.session()
	if err != nil {
		return s, err
	}
	if !s.LoggedIn() {
		return s, NewExitError(ExitCommandError, "not logged in; run 'fridge login' first")
	}
	return s, nil
}

// parseCategory matches a user-typed category such as "dairy" to a known one.
func parseCategory(s string) (model.FoodCategory, error) {
	c, ok := model.ParseFoodCategory(s)
	if !ok {
		names := make([]string, len(model.FoodCategories))
		for i, fc := range model.FoodCategories {
			names[i] = strings.ToLower(string(fc))
		}
		return "", NewExitError(ExitCommandError,
			fmt.Sprintf("unknown category %q: must be one of %s", s, strings.Join(names, ", ")))
	}
	return c, nil
}

// apiError wraps a client error with a message and the failure exit code.
func apiError(message string, err error) error {
	switch {
	case errors.Is(err, client.ErrNotFound):
		return WrapExitError(ExitFailure, message, errors.New("no such food item"))
	case errors.Is(err, client.ErrUnauthorized):
		return WrapExitError(ExitFailure, message, errors.New("not allowed; only the owner can change an item"))
	}
	return WrapExitError(ExitFailure, message, err)
}
