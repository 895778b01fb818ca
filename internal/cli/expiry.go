package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count items per expiry category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.client().Stats(cmd.Context())
			if err != nil {
				return apiError("fetching stats", err)
			}
			return opts.formatter(cmd).Success(s, func(w io.Writer) {
				writeStats(w, s)
			})
		},
	}
}

func newExpiringCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "expiring",
		Aliases: []string{"nearly-expiring"},
		Short:   "List items that expire soon",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			foods, err := c.NearlyExpiring(cmd.Context())
			if err != nil {
				return apiError("listing expiring items", err)
			}
			return opts.printFoods(cmd, c, foods)
		},
	}
}

func newExpiredCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "expired",
		Short: "List expired items, most recently expired first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			foods, err := c.Expired(cmd.Context())
			if err != nil {
				return apiError("listing expired items", err)
			}
			return opts.printFoods(cmd, c, foods)
		},
	}
}

func newPolicyCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Show the server's expiry policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.fetchPolicy(cmd.Context(), opts.client())
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(p, func(w io.Writer) {
				fmt.Fprintf(w, "Items are nearly expiring from %d days before their expiry date.\n",
					p.NearlyExpiringDays)
			})
		},
	}
}
