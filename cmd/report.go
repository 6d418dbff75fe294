package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/RaikyD/store-admin/internal/analytics"
	"github.com/RaikyD/store-admin/internal/application"
	"github.com/RaikyD/store-admin/internal/config"
	"github.com/RaikyD/store-admin/internal/logger"
	"github.com/RaikyD/store-admin/internal/metrics"
	"github.com/RaikyD/store-admin/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var reportRange int

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the sales summary for the last --range days",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return err
		}
		logger.Init(cfg.Production(), "warn")
		defer logger.Sync()

		loc, err := cfg.Location()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		pool, err := pgxpool.New(ctx, cfg.DB_STRING)
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := application.NewAnalyticsService(
			repository.NewOrderRepository(pool),
			repository.NewProductRepository(pool),
			repository.NewCustomerRepository(pool),
			metrics.NewRegistry(), loc, 0,
		)
		r, err := svc.Report(ctx, reportRange)
		if err != nil {
			return err
		}
		return printReport(cmd.OutOrStdout(), r)
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportRange, "range", application.DefaultRangeDays, "number of days to cover")
}

func printReport(out io.Writer, r *application.Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Last %d days\t\n", r.RangeDays)
	fmt.Fprintf(tw, "Revenue\t%s\t(%s)\n", r.Display.TotalRevenue, r.Display.RevenueGrowth)
	fmt.Fprintf(tw, "Orders\t%d\t(%s)\n", r.Summary.TotalOrders, r.Display.OrdersGrowth)
	fmt.Fprintf(tw, "Customers\t%d\t\n", r.Summary.TotalCustomers)
	fmt.Fprintf(tw, "Avg order\t%s\t\n", r.Display.AvgOrderValue)

	if len(r.StatusDistribution) > 0 {
		fmt.Fprintln(tw, "\t\t")
		for _, s := range r.StatusDistribution {
			fmt.Fprintf(tw, "%s\t%d\t\n", s.Name, s.Value)
		}
	}
	if len(r.TopProducts) > 0 {
		fmt.Fprintln(tw, "\t\t")
		fmt.Fprintln(tw, "Top products\t\t")
		for i, p := range r.TopProducts {
			fmt.Fprintf(tw, "%d. %s\t%s\t%d sold\n", i+1, p.Name, analytics.FormatCurrency(p.Revenue), p.Sales)
		}
	}
	return tw.Flush()
}
