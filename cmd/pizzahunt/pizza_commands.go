package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"pizzahunt/internal/api"
)

func newPizzaCommand(ctx *commandContext) *cobra.Command {
	pizzaCmd := &cobra.Command{
		Use:   "pizza",
		Short: "Browse and edit pizzas",
	}
	pizzaCmd.AddCommand(newPizzaListCommand(ctx))
	pizzaCmd.AddCommand(newPizzaShowCommand(ctx))
	pizzaCmd.AddCommand(newPizzaAddCommand(ctx))
	pizzaCmd.AddCommand(newPizzaUpdateCommand(ctx))
	pizzaCmd.AddCommand(newPizzaDeleteCommand(ctx))
	return pizzaCmd
}

func newPizzaListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pizzas, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			pizzas, err := client.ListPizzas(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, pizzas)
			}
			out := cmd.OutOrStdout()
			if len(pizzas) == 0 {
				fmt.Fprintln(out, "No pizzas yet")
				return nil
			}
			list := newListing(
				column{title: "ID"},
				column{title: "Name"},
				column{title: "By"},
				column{title: "Size"},
				column{title: "Toppings"},
				column{title: "Comments", numeric: true},
				column{title: "Created"},
			)
			for _, p := range pizzas {
				list.add(
					p.ID,
					p.PizzaName,
					p.CreatedBy,
					p.Size,
					joinOrDash(p.Toppings),
					strconv.Itoa(len(p.Comments)),
					formatTimestamp(p.CreatedAt),
				)
			}
			fmt.Fprintln(out, list)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newPizzaShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one pizza with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			pizza, err := client.GetPizza(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, pizza)
			}
			printPizza(cmd.OutOrStdout(), pizza)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type pizzaFlags struct {
	name     string
	by       string
	size     string
	toppings []string
}

func (f *pizzaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "Pizza name")
	cmd.Flags().StringVarP(&f.by, "by", "b", "", "Who created the pizza")
	cmd.Flags().StringVarP(&f.size, "size", "s", "", "Pizza size (Personal, Small, Medium, Large, Extra Large)")
	cmd.Flags().StringSliceVarP(&f.toppings, "topping", "t", nil, "Topping (repeatable or comma separated)")
}

// request builds a PizzaRequest holding only the flags the user set.
func (f *pizzaFlags) request(cmd *cobra.Command) api.PizzaRequest {
	var req api.PizzaRequest
	if cmd.Flags().Changed("name") {
		req.PizzaName = api.StringPtr(f.name)
	}
	if cmd.Flags().Changed("by") {
		req.CreatedBy = api.StringPtr(f.by)
	}
	if cmd.Flags().Changed("size") {
		req.Size = api.StringPtr(f.size)
	}
	if cmd.Flags().Changed("topping") {
		toppings := append([]string{}, f.toppings...)
		req.Toppings = &toppings
	}
	return req
}

func newPizzaAddCommand(ctx *commandContext) *cobra.Command {
	var flags pizzaFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a pizza, saving it offline if the server is unreachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(flags.name) == "" {
				return errors.New("--name is required")
			}
			payload, err := json.Marshal(flags.request(cmd))
			if err != nil {
				return fmt.Errorf("encode pizza: %w", err)
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			q, err := ctx.openQueue(cmd, client)
			if err != nil {
				return err
			}
			defer q.Close()

			result, queued, err := q.Submit(cmd.Context(), payload)
			if err != nil {
				return err
			}
			if queued {
				return nil
			}
			if !result.OK() {
				return fmt.Errorf("create pizza: %s", result.Message)
			}
			var created api.Pizza
			if err := json.Unmarshal(result.Body, &created); err != nil {
				return fmt.Errorf("decode created pizza: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created pizza %s (%s)\n", created.PizzaName, created.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPizzaUpdateCommand(ctx *commandContext) *cobra.Command {
	var flags pizzaFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a pizza",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request(cmd)
			if req == (api.PizzaRequest{}) {
				return errors.New("nothing to update; pass at least one of --name, --by, --size, --topping")
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			pizza, err := client.UpdatePizza(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated pizza %s (%s)\n", pizza.PizzaName, pizza.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newPizzaDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pizza and its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			pizza, err := client.DeletePizza(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted pizza %s (%s)\n", pizza.PizzaName, pizza.ID)
			return nil
		},
	}
}
