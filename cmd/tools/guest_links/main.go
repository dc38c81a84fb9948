package main

import (
	"context"
	"encoding/csv"
	"flag"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/wedding-invitation-go/internal/app"
	"github.com/kapu/wedding-invitation-go/internal/config"
	"github.com/kapu/wedding-invitation-go/internal/domain"
)

const fetchTimeout = 60 * time.Second

func main() {
	category := flag.String("category", "", "only print guests in this category")
	summary := flag.Bool("summary", false, "print category counts instead of links")
	refresh := flag.Bool("refresh", false, "drop the cached guest list so the site and this run refetch the spreadsheets")
	flag.Parse()

	// zap's development logger writes to stderr, keeping stdout clean for CSV
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	if !cfg.Guests.HasGuestSources() {
		logger.Fatal("no guest spreadsheet configured: set GUEST_SHEET_CSV_URLS or GUEST_SHEET_ID")
	}

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	sources, err := app.BuildGuestSources(ctx, cfg.Guests)
	if err != nil {
		logger.Fatal("failed to create guest sources", zap.Error(err))
	}

	cacheSvc := app.ConnectCache(ctx, cfg.Redis, logger)
	if cacheSvc != nil {
		defer cacheSvc.Close()
	}

	svc := app.NewGuestService(sources, cfg, cacheSvc, logger)
	if *refresh {
		if err := svc.Invalidate(ctx); err != nil {
			logger.Fatal("failed to invalidate guest cache", zap.Error(err))
		}
	}

	out := csv.NewWriter(os.Stdout)

	if *summary {
		categories, err := svc.Categories(ctx)
		if err != nil {
			logger.Fatal("failed to fetch guest list", zap.Error(err))
		}
		if err := writeSummary(out, categories); err != nil {
			logger.Fatal("failed to write summary", zap.Error(err))
		}
		return
	}

	guests, err := svc.List(ctx, *category)
	if err != nil {
		logger.Fatal("failed to fetch guest list", zap.Error(err))
	}
	if err := writeGuests(out, guests); err != nil {
		logger.Fatal("failed to write guest links", zap.Error(err))
	}

	logger.Info("Guest links generated", zap.Int("count", len(guests)), zap.String("category", *category))
}

func writeGuests(out *csv.Writer, guests []domain.Guest) error {
	if err := out.Write([]string{"name", "category", "link"}); err != nil {
		return err
	}
	for _, g := range guests {
		if err := out.Write([]string{g.Name, g.Category, g.Link}); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}

func writeSummary(out *csv.Writer, categories []domain.GuestCategory) error {
	if err := out.Write([]string{"category", "count"}); err != nil {
		return err
	}
	for _, c := range categories {
		if err := out.Write([]string{c.Name, strconv.Itoa(c.Count)}); err != nil {
			return err
		}
	}
	out.Flush()
	return out.Error()
}
