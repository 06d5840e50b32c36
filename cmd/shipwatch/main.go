package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"ship-tracker-backend/config"
	"ship-tracker-backend/internal/client"
	"ship-tracker-backend/internal/model"
	"ship-tracker-backend/internal/view"
)

func main() {
	app := &cli.App{
		Name:  "shipwatch",
		Usage: "terminal view of the ship tracker API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:5000/api",
				Usage:   "API base URL",
				EnvVars: []string{"SHIPWATCH_API"},
			},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "debug, info, warn or error"},
		},
		Before: func(c *cli.Context) error {
			config.LogConfig{Level: c.String("log-level"), Format: "text"}.Setup(os.Stderr)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "ships",
				Usage:  "list active ships through a view profile",
				Flags:  shipsFlags(),
				Action: runShips,
			},
			{
				Name:   "health",
				Usage:  "check API liveness, health and ship totals",
				Action: runHealth,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func shipsFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "profile", Value: view.CurrentActivity.Name, Usage: "current, ships or history"},
		&cli.StringFlag{Name: "search", Usage: "match name, call sign or destination"},
		&cli.StringFlag{Name: "location", Usage: "location name substring"},
		&cli.StringFlag{Name: "time-range", Usage: "1h, 24h, 7d or 30d (default from profile)"},
		&cli.StringFlag{Name: "severity", Value: view.SeverityAll, Usage: "severity to keep"},
		&cli.StringFlag{Name: "from", Usage: "history start date, 2006-01-02"},
		&cli.StringFlag{Name: "to", Usage: "history end date, 2006-01-02"},
		&cli.StringSliceFlag{Name: "sort", Usage: "column clicks applied in order, e.g. --sort name --sort name"},
		&cli.IntFlag{Name: "page", Value: 1, Usage: "page to show"},
		&cli.BoolFlag{Name: "watch", Usage: "keep refreshing until interrupted"},
	}
}

func runShips(c *cli.Context) error {
	profile, ok := view.Profiles[c.String("profile")]
	if !ok {
		return fmt.Errorf("unknown profile %q", c.String("profile"))
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctrl := view.NewController(client.New(c.String("api")), profile)

	filters := profile.InitialFilters(time.Now().UTC())
	filters.Location = c.String("location")
	filters.Severity = c.String("severity")
	if c.IsSet("time-range") {
		filters.TimeRange = c.String("time-range")
	}
	if c.IsSet("from") || c.IsSet("to") {
		r, err := dateRange(c.String("from"), c.String("to"), filters.DateRange)
		if err != nil {
			return err
		}
		filters.DateRange = &r
	}
	ctrl.SetFilters(filters)
	for _, key := range c.StringSlice("sort") {
		ctrl.ToggleSort(view.SortKey(key))
	}

	// The first load reports failures through the rendered state.
	if err := ctrl.SetSearch(ctx, c.String("search")); err != nil {
		log.WithError(err).Debug("initial load failed")
	}
	ctrl.SetPage(c.Int("page"))
	render(os.Stdout, ctrl.View())

	if !c.Bool("watch") || profile.RefreshInterval <= 0 {
		return nil
	}

	ctrl.Start(ctx)
	defer ctrl.Stop()

	ticker := time.NewTicker(profile.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			render(os.Stdout, ctrl.View())
		}
	}
}

func dateRange(from, to string, def *view.DateRange) (view.DateRange, error) {
	const layout = "2006-01-02"
	if from == "" && def != nil {
		from = def.Start.Format(layout)
	}
	if to == "" {
		to = time.Now().UTC().Format(layout)
	}
	return view.NewDateRange(from, to, time.UTC)
}

func runHealth(c *cli.Context) error {
	api := client.New(c.String("api"))

	var (
		hello  *model.HelloResponse
		health *model.HealthResponse
		ships  *model.ShipsResponse
	)
	g, ctx := errgroup.WithContext(c.Context)
	g.Go(func() (err error) {
		hello, err = api.TestConnection(ctx)
		return err
	})
	g.Go(func() (err error) {
		health, err = api.CheckHealth(ctx)
		return err
	})
	g.Go(func() (err error) {
		ships, err = api.FetchActiveShips(ctx, client.FetchParams{Limit: 1})
		return err
	})

	if err := g.Wait(); err != nil {
		fmt.Printf("status: %s\n%s\n", client.StatusOf(err), client.ErrorMessage(err))
		return cli.Exit("", 1)
	}

	fmt.Println(hello.Message)
	fmt.Printf("status: %s, database: %s\n", health.Status, health.Database)
	if health.Collections != nil {
		fmt.Printf("ships: %d, positions: %d\n", health.Collections.Ships, health.Collections.Positions)
	}
	fmt.Printf("active ships: %d\n", ships.Pagination.Total)
	return nil
}

func joinNonEmpty(parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " | ")
}
