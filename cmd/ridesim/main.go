// README: Local simulation runner; reads an event file, runs it and prints the report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"

	"ridesim/internal/config"
	"ridesim/internal/infra"
	"ridesim/internal/modules/event"
	"ridesim/internal/modules/monitor"
	"ridesim/internal/modules/pricing"
	"ridesim/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "ridesim:", err)
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("ridesim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	eventsPath := fs.String("events", "events.txt", "event description file (- for stdin)")
	debug := fs.Bool("debug", false, "log every handled event")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	level := cfg.Log.Level
	if *debug {
		level = "debug"
	}
	logger, err := infra.NewLogger(stderr, level)
	if err != nil {
		return err
	}

	events, err := readEvents(*eventsPath, os.Stdin)
	if err != nil {
		return err
	}

	pricer := pricing.NewService(pricing.Rate{
		BaseFare: cfg.Fare.Base,
		PerUnit:  cfg.Fare.PerUnit,
		Currency: cfg.Fare.Currency,
	})
	report, err := service.NewSimulation(logger.WithPrefix("sim"), pricer).Run(ctx, events)
	if err != nil {
		return err
	}
	printReport(stdout, report)
	return nil
}

func readEvents(path string, stdin io.Reader) ([]event.Event, error) {
	if path == "-" {
		return event.Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	events, err := event.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

func printReport(w io.Writer, report monitor.Report) {
	keys := make([]string, 0, len(report))
	for k := range report {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %.2f\n", k, report[k])
	}
}
