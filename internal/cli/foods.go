package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/erazemk/freshrack/internal/client"
	"github.com/erazemk/freshrack/internal/expiry"
	"github.com/erazemk/freshrack/internal/model"
)

// fetchPolicy returns the policy every listing is classified with.
func (o *RootOptions) fetchPolicy(ctx context.Context, c *client.Client) (expiry.Policy, error) {
	p, err := c.Policy(ctx)
	if err != nil {
		return expiry.Policy{}, apiError("fetching expiry policy", err)
	}
	return p, nil
}

func (o *RootOptions) printFoods(cmd *cobra.Command, c *client.Client, foods []model.FoodItem) error {
	policy, err := o.fetchPolicy(cmd.Context(), c)
	if err != nil {
		return err
	}
	listed := classifyAll(o.Now(), foods, policy)
	return o.formatter(cmd).Success(listed, func(w io.Writer) {
		writeFoods(w, listed)
	})
}

type listOptions struct {
	*RootOptions
	Search   string
	Category string
	Mine     bool
}

func newListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &listOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List food items, soonest expiry first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := client.FoodFilter{Search: opts.Search}
			if opts.Category != "" {
				c, err := parseCategory(opts.Category)
				if err != nil {
					return err
				}
				filter.Category = c
			}
			if opts.Mine {
				s, err := opts.requireSession()
				if err != nil {
					return err
				}
				filter.Owner = s.Email
			}

			c := opts.client()
			foods, err := c.ListFoods(cmd.Context(), filter)
			if err != nil {
				return apiError("listing food items", err)
			}
			return opts.printFoods(cmd, c, foods)
		},
	}

	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "only titles containing this text")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "only this category")
	cmd.Flags().BoolVar(&opts.Mine, "mine", false, "only items you own")

	return cmd
}

func newShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a food item and its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			food, err := c.GetFood(cmd.Context(), args[0])
			if err != nil {
				return apiError("fetching food item", err)
			}
			notes, err := c.ListNotes(cmd.Context(), food.ID)
			if err != nil {
				return apiError("fetching notes", err)
			}
			policy, err := opts.fetchPolicy(cmd.Context(), c)
			if err != nil {
				return err
			}

			if notes == nil {
				notes = []model.Note{}
			}
			d := foodDetail{
				listedFood: classifyAll(opts.Now(), []model.FoodItem{*food}, policy)[0],
				Notes:      notes,
			}
			return opts.formatter(cmd).Success(d, func(w io.Writer) {
				writeFoodDetail(w, d)
			})
		},
	}
}

type foodFlags struct {
	Title       string
	Category    string
	Quantity    int
	Expiry      string
	Description string
}

func (f *foodFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Title, "title", "t", "", "item name")
	cmd.Flags().StringVarP(&f.Category, "category", "c", "", "category, e.g. dairy")
	cmd.Flags().IntVarP(&f.Quantity, "quantity", "q", 1, "how many")
	cmd.Flags().StringVarP(&f.Expiry, "expiry", "e", "", "expiry date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.Description, "description", "d", "", "free text description")
}

// apply copies the flags that were set on cmd into in, checking them locally
// so obvious mistakes never reach the server.
func (f *foodFlags) apply(cmd *cobra.Command, in *client.FoodInput) error {
	changed := cmd.Flags().Changed

	if changed("title") {
		in.Title = f.Title
	}
	if changed("category") {
		c, err := parseCategory(f.Category)
		if err != nil {
			return err
		}
		in.Category = c
	}
	if changed("quantity") {
		if f.Quantity < 1 {
			return NewExitError(ExitCommandError, "quantity must be at least 1")
		}
		in.Quantity = f.Quantity
	}
	if changed("expiry") {
		d, err := expiry.NormalizeDate(f.Expiry)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --expiry", err)
		}
		in.ExpiryDate = d
	}
	if changed("description") {
		in.Description = f.Description
	}
	return nil
}

func newAddCommand(opts *RootOptions) *cobra.Command {
	flags := &foodFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a food item you own",
		Long: `Add a food item you own.

Example:
  fridge add --title Milk --category dairy --expiry 2024-03-12`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.requireSession()
			if err != nil {
				return err
			}

			in := client.FoodInput{Quantity: 1}
			if err := flags.apply(cmd, &in); err != nil {
				return err
			}

			c := opts.client()
			food, err := c.CreateFood(cmd.Context(), s, in)
			if err != nil {
				return apiError("adding food item", err)
			}
			opts.formatter(cmd).VerboseLog("created %s", food.ID)
			return opts.printFoods(cmd, c, []model.FoodItem{*food})
		},
	}

	flags.register(cmd)
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("expiry")

	return cmd
}

func newUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &foodFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a food item you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.requireSession()
			if err != nil {
				return err
			}

			c := opts.client()
			food, err := c.GetFood(cmd.Context(), args[0])
			if err != nil {
				return apiError("fetching food item", err)
			}

			in := client.InputOf(food)
			if err := flags.apply(cmd, &in); err != nil {
				return err
			}

			updated, err := c.UpdateFood(cmd.Context(), s, food, in)
			if err != nil {
				return apiError("updating food item", err)
			}
			return opts.printFoods(cmd, c, []model.FoodItem{*updated})
		},
	}

	flags.register(cmd)
	return cmd
}

func newDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a food item you own",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.requireSession()
			if err != nil {
				return err
			}

			c := opts.client()
			food, err := c.GetFood(cmd.Context(), args[0])
			if err != nil {
				return apiError("fetching food item", err)
			}
			if err := c.DeleteFood(cmd.Context(), s, food); err != nil {
				return apiError("deleting food item", err)
			}

			return opts.formatter(cmd).Success(map[string]string{"deleted": food.ID}, func(w io.Writer) {
				fmt.Fprintf(w, "Deleted %s (%s)\n", food.Title, food.ID)
			})
		},
	}
}

func newNoteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "note <id> <text>",
		Short: "Add a note to a food item you own",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.requireSession()
			if err != nil {
				return err
			}

			c := opts.client()
			food, err := c.GetFood(cmd.Context(), args[0])
			if err != nil {
				return apiError("fetching food item", err)
			}
			note, err := c.AddNote(cmd.Context(), s, food, args[1])
			if err != nil {
				return apiError("adding note", err)
			}

			return opts.formatter(cmd).Success(note, func(w io.Writer) {
				fmt.Fprintf(w, "Noted on %s: %s\n", food.Title, note.Text)
			})
		},
	}
}
