package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/buildtrack/internal/api"
	"github.com/alexanderramin/buildtrack/internal/cli/formatter"
	"github.com/alexanderramin/buildtrack/internal/domain"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Dashboard summaries",
	}

	var pretty bool
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show the headline counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.call(cmd, "Loading dashboard", app.Client.Dashboard.Stats)
			if err != nil {
				return fmt.Errorf("loading dashboard stats: %w", err)
			}
			if !pretty {
				return printResponse(cmd.OutOrStdout(), resp)
			}
			s, err := decodeOne[domain.DashboardStats](resp)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), formatStatsTable(s))
			return err
		},
	}
	stats.Flags().BoolVar(&pretty, "table", false, "render as a table")

	activity := &cobra.Command{
		Use:   "activity",
		Short: "Show recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("loading recent activity", app.respond(cmd, "Loading activity", app.Client.Dashboard.RecentActivity))
		},
	}

	health := &cobra.Command{
		Use:   "health",
		Short: "Show per-project health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapErr("loading project health", app.respond(cmd, "Loading project health", app.Client.Dashboard.ProjectHealth))
		},
	}

	cmd.AddCommand(stats, activity, health)
	return cmd
}

func formatStatsTable(s domain.DashboardStats) string {
	rows := [][]string{
		{"Total Projects", formatter.Thousands(int64(s.TotalProjects))},
		{"Active Projects", formatter.Thousands(int64(s.ActiveProjects))},
		{"Materials", formatter.Thousands(int64(s.TotalMaterials))},
		{"Labour", formatter.Thousands(int64(s.TotalLabour))},
		{"Open Issues", formatter.Thousands(int64(s.OpenIssues))},
		{"Total Expenses", formatter.Rupees(s.TotalExpenses)},
	}
	return formatter.RenderTable([]string{"METRIC", "VALUE"}, rows)
}

func newHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.call(cmd, "Checking API", func(ctx context.Context) (*api.Response, error) {
				return app.Client.Health.Check(ctx)
			})
			if err != nil {
				return fmt.Errorf("API at %s is not healthy: %w", app.Client.Config().BaseURL, err)
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}
