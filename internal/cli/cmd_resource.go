package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/spf13/cobra"
)

// resourceDef describes one CRUD resource group for the command tree.
type resourceDef struct {
	name   string
	plural string
	group  func(c *api.Client) api.CRUD
	extras func(app *App) []*cobra.Command
}

var (
	projectResource = resourceDef{
		name:   "project",
		plural: "projects",
		group:  func(c *api.Client) api.CRUD { return c.Projects },
		extras: projectExtraCmds,
	}
	materialResource = resourceDef{
		name:   "material",
		plural: "materials",
		group:  func(c *api.Client) api.CRUD { return c.Materials },
		extras: materialExtraCmds,
	}
	labourResource = resourceDef{
		name:   "labour",
		plural: "labour records",
		group:  func(c *api.Client) api.CRUD { return c.Labour },
		extras: labourExtraCmds,
	}
	issueResource = resourceDef{
		name:   "issue",
		plural: "issues",
		group:  func(c *api.Client) api.CRUD { return c.Issues },
		extras: issueExtraCmds,
	}
	expenseResource = resourceDef{
		name:   "expense",
		plural: "expenses",
		group:  func(c *api.Client) api.CRUD { return c.Expenses },
		extras: expenseExtraCmds,
	}
)

// call runs fn with the command's context, drawing a spinner on stderr
// while it waits when attached to a terminal.
func (a *App) call(cmd *cobra.Command, label string, fn func(ctx context.Context) (*api.Response, error)) (*api.Response, error) {
	if a.interactive() {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), label)
		defer stop()
	}
	resp, err := fn(cmd.Context())
	if err != nil {
		a.logger().Debug("command failed", "command", cmd.CommandPath(), "err", err)
	}
	return resp, err
}

// respond performs the call and prints its payload.
func (a *App) respond(cmd *cobra.Command, label string, fn func(ctx context.Context) (*api.Response, error)) error {
	resp, err := a.call(cmd, label, fn)
	if err != nil {
		return err
	}
	return printResponse(cmd.OutOrStdout(), resp)
}

func newResourceCmd(app *App, def resourceDef) *cobra.Command {
	cmd := &cobra.Command{
		Use:   def.name,
		Short: "Manage " + def.plural,
	}

	group := func() api.CRUD { return def.group(app.Client) }

	var params paramsFlag
	var table bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List " + def.plural,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.call(cmd, "Loading "+def.plural, func(ctx context.Context) (*api.Response, error) {
				return group().List(ctx, params.Params())
			})
			if err != nil {
				return fmt.Errorf("listing %s: %w", def.plural, err)
			}
			if table {
				return printRecordTable(cmd.OutOrStdout(), resp)
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
	addParamsFlag(list.Flags(), &params)
	list.Flags().BoolVar(&table, "table", false, "render the list as a table")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one " + def.name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("fetching "+def.name, app.respond(cmd, "Loading "+def.name, func(ctx context.Context) (*api.Response, error) {
				return group().Get(ctx, args[0])
			}))
		},
	}

	var createData, createFile string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a " + def.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd, createData, createFile)
			if err != nil {
				return err
			}
			return wrapErr("creating "+def.name, app.respond(cmd, "Saving "+def.name, func(ctx context.Context) (*api.Response, error) {
				return group().Create(ctx, body)
			}))
		},
	}
	addBodyFlags(create, &createData, &createFile)

	var updateData, updateFile string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Replace fields of a " + def.name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd, updateData, updateFile)
			if err != nil {
				return err
			}
			return wrapErr("updating "+def.name, app.respond(cmd, "Saving "+def.name, func(ctx context.Context) (*api.Response, error) {
				return group().Update(ctx, args[0], body)
			}))
		},
	}
	addBodyFlags(update, &updateData, &updateFile)

	del := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a " + def.name,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("deleting "+def.name, app.respond(cmd, "Deleting "+def.name, func(ctx context.Context) (*api.Response, error) {
				return group().Delete(ctx, args[0])
			}))
		},
	}

	cmd.AddCommand(list, get, create, update, del)
	if def.extras != nil {
		cmd.AddCommand(def.extras(app)...)
	}
	return cmd
}

func wrapErr(action string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", action, err)
}

func parseNumber(label, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: expected a number", label, s)
	}
	return v, nil
}

func projectExtraCmds(app *App) []*cobra.Command {
	progress := &cobra.Command{
		Use:   "progress ID PERCENT",
		Short: "Set a project's progress (0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pct, err := parseNumber("progress", args[1])
			if err != nil {
				return err
			}
			return wrapErr("updating progress", app.respond(cmd, "Saving progress", func(ctx context.Context) (*api.Response, error) {
				return app.Client.Projects.UpdateProgress(ctx, args[0], pct)
			}))
		},
	}
	return []*cobra.Command{progress}
}

func materialExtraCmds(app *App) []*cobra.Command {
	categories := &cobra.Command{
		Use:   "categories",
		Short: "List material categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("listing material categories", app.respond(cmd, "Loading categories", app.Client.Materials.Categories))
		},
	}

	var op string
	quantity := &cobra.Command{
		Use:   "quantity ID QUANTITY",
		Short: "Adjust a material's stock quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseNumber("quantity", args[1])
			if err != nil {
				return err
			}
			return wrapErr("updating quantity", app.respond(cmd, "Saving quantity", func(ctx context.Context) (*api.Response, error) {
				return app.Client.Materials.UpdateQuantity(ctx, args[0], qty, domain.QuantityOperation(op))
			}))
		},
	}
	quantity.Flags().StringVar(&op, "op", string(domain.QuantityAdd), "operation: add, subtract or set")

	return []*cobra.Command{categories, quantity}
}

func labourExtraCmds(app *App) []*cobra.Command {
	roles := &cobra.Command{
		Use:   "roles",
		Short: "List labour roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("listing labour roles", app.respond(cmd, "Loading roles", app.Client.Labour.Roles))
		},
	}
	return []*cobra.Command{roles}
}

func issueExtraCmds(app *App) []*cobra.Command {
	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set an issue's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("updating issue status", app.respond(cmd, "Saving status", func(ctx context.Context) (*api.Response, error) {
				return app.Client.Issues.UpdateStatus(ctx, args[0], args[1])
			}))
		},
	}
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show the issue summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("loading issue stats", app.respond(cmd, "Loading stats", app.Client.Issues.Stats))
		},
	}
	return []*cobra.Command{status, stats}
}

func expenseExtraCmds(app *App) []*cobra.Command {
	categories := &cobra.Command{
		Use:   "categories",
		Short: "List expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("listing expense categories", app.respond(cmd, "Loading categories", app.Client.Expenses.Categories))
		},
	}

	var params paramsFlag
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show the expense summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("loading expense stats", app.respond(cmd, "Loading stats", func(ctx context.Context) (*api.Response, error) {
				return app.Client.Expenses.Stats(ctx, params.Params())
			}))
		},
	}
	addParamsFlag(stats.Flags(), &params)

	return []*cobra.Command{categories, stats}
}
