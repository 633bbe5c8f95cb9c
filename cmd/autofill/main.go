package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/config"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/provider"
	shiftService "github.com/cmlabs-hris/shift-autofill/internal/service/shift"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// changedInt returns v only when the flag was given, so an explicit 0 is
// kept apart from an omitted flag.
func changedInt(flagSet *pflag.FlagSet, name string, v *int) *int {
	if !flagSet.Changed(name) {
		return nil
	}
	return v
}

func run() error {
	var (
		year        int
		month       int
		configPath  string
		interactive bool
	)

	flagSet := pflag.NewFlagSet("autofill", pflag.ContinueOnError)
	flagSet.IntVar(&year, "year", 0, "year to fill (default: current year)")
	flagSet.IntVar(&month, "month", 0, "month to fill, 1-12 (default: current month)")
	flagSet.StringVar(&configPath, "config", "", "credential record, JSON or YAML (default: $CONFIG_PATH or config.json)")
	flagSet.BoolVarP(&interactive, "interactive", "i", false, "prompt for the year and month")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if configPath == "" {
		configPath = cfg.CredentialsPath
	}
	creds, err := config.LoadCredentials(configPath)
	if err != nil {
		return err
	}

	yearArg, monthArg := changedInt(flagSet, "year", &year), changedInt(flagSet, "month", &month)

	now := time.Now()
	if interactive {
		yearArg, monthArg, err = promptYearMonth(os.Stdin, os.Stdout, yearArg, monthArg, now)
		if err != nil {
			return err
		}
	}
	year, month, err = resolveYearMonth(yearArg, monthArg, now)
	if err != nil {
		return err
	}

	id, err := creds.ProviderID()
	if err != nil {
		return err
	}
	opts, err := creds.ProviderOptions(cfg.Provider)
	if err != nil {
		return err
	}
	p, err := provider.New(id, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token := shiftService.NewCancellationToken()
	go func() {
		<-ctx.Done()
		token.RequestCancel()
	}()

	sink := shiftService.SinkFunc(func(line string) {
		fmt.Println(line)
	})
	report, err := shiftService.NewOrchestrator(p).Run(context.Background(), creds.Request(year, month), token, sink)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(data))
	fmt.Println(summary(p.Name(), year, month, report))
	return nil
}
