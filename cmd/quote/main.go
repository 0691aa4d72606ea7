package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/cambroos/rentals-backend/internal/cart"
	"github.com/cambroos/rentals-backend/internal/quote"
	"github.com/cambroos/rentals-backend/pkg/config"
	"github.com/cambroos/rentals-backend/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		path    = flag.String("file", "quote.yaml", "YAML file with the quote form and cart items")
		retries = flag.Int("retries", 0, "times to retry a failed submission")
		format  = flag.String("log-format", "console", "log output: console or json")
	)
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "quote", Format: *format})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := godotenv.Load(); err != nil {
		logg.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.LoadClient()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		return 1
	}
	logg = logger.New(logger.Options{
		ServiceName: "quote",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      *format,
	})

	req, err := loadRequestFile(*path)
	if err != nil {
		logg.Error(ctx, "failed to read request file", err)
		return 1
	}

	store := cart.NewStore()
	notices, err := req.fill(store)
	for _, n := range notices {
		logg.Info(logg.WithFields(ctx, map[string]any{"item": n.ItemID, "quantity": n.Quantity}), n.Message)
	}
	if err != nil {
		logg.Error(ctx, "failed to build cart", err)
		return 1
	}

	relay, err := quote.NewHTTPRelay(cfg.Relay.Endpoint(), nil, cfg.Relay.Timeout)
	if err != nil {
		logg.Error(ctx, "failed to create relay client", err)
		return 1
	}
	pipeline, err := quote.NewPipeline(quote.PipelineParams{
		Relay:        relay,
		Cart:         store,
		Logger:       logg,
		SupportEmail: cfg.Mail.SupportEmail,
	})
	if err != nil {
		logg.Error(ctx, "failed to create pipeline", err)
		return 1
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"endpoint":    cfg.Relay.Endpoint(),
		"total_items": store.TotalItems(),
	})
	status, err := pipeline.Submit(ctx, req.Form, store.Items())
	for attempt := 0; status.State == quote.StateFailed && attempt < *retries; attempt++ {
		logg.Warn(logg.WithField(ctx, "reason", status.Reason), "retrying quote submission")
		status, err = pipeline.Retry(ctx)
	}

	var fieldErrs quote.FieldErrors
	switch {
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			fmt.Fprintf(os.Stderr, "%s: %s\n", fe.Field, fe.Message)
		}
		return 2
	case errors.Is(err, quote.ErrEmptyCart):
		fmt.Fprintln(os.Stderr, err)
		return 2
	case status.State == quote.StateFailed:
		fmt.Fprintln(os.Stderr, status.Reason)
		return 1
	case err != nil:
		logg.Error(ctx, "quote submission failed", err)
		return 1
	}

	fmt.Println("Quote Request Sent! We'll get back to you within 24 hours with a detailed quotation.")
	return 0
}
