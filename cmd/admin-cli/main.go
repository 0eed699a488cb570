// cmd/admin-cli/main.go

// admin-cli pages through listings from a terminal the same way the
// console does: it builds a filter, commits it to a pagination
// controller and keeps loading pages until it runs out of results or
// hits the requested page cap.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"marketplace-admin/internal/common/config"
	"marketplace-admin/internal/common/database"
	"marketplace-admin/internal/common/logger"
	"marketplace-admin/internal/filter"
	"marketplace-admin/internal/pager"
	"marketplace-admin/internal/query"
)

func main() {
	search := flag.String("search", "", "free-text search over name, description and id")
	statuses := flag.String("status", "", "comma-separated status filter (e.g. pending,rejected)")
	types := flag.String("type", "", "comma-separated listing type filter")
	country := flag.String("country", "", "country filter")
	pageSize := flag.Int("page-size", 20, "rows per page")
	maxPages := flag.Int("pages", 3, "maximum pages to load")
	flag.Parse()

	zapLog := logger.New("warn", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pg.Close()

	session := filter.NewSession(*search)
	for _, v := range splitList(*statuses) {
		v := v
		session.Edit(func(f filter.ListingFilter) filter.ListingFilter {
			return f.ToggleSetMember(filter.FieldStatuses, v)
		})
	}
	for _, v := range splitList(*types) {
		v := v
		session.Edit(func(f filter.ListingFilter) filter.ListingFilter {
			return f.ToggleSetMember(filter.FieldTypes, v)
		})
	}
	if *country != "" {
		session.Edit(func(f filter.ListingFilter) filter.ListingFilter {
			return f.SetLocation(filter.PartCountry, *country)
		})
	}
	committed := session.Apply()

	store := query.NewStore(pg.DB, log)
	c := pager.NewController(store, *pageSize, log)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := c.Commit(ctx, committed); err != nil {
		zapLog.Fatal("first page fetch failed", zap.Error(err))
	}
	printPage(c.Snapshot(), 0, session.ActiveCount())

	for page := 1; page < *maxPages; page++ {
		snap := c.Snapshot()
		if !snap.HasMore {
			break
		}
		if err := c.LoadMore(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "load more failed: %v\n", err)
			os.Exit(1)
		}
		printPage(c.Snapshot(), page, session.ActiveCount())
	}
}

func printPage(snap pager.Snapshot, page, activeFilters int) {
	fmt.Printf("-- page %d (%d rows total, %d active filters, more=%v) --\n",
		page+1, len(snap.Listings), activeFilters, snap.HasMore)
	for _, l := range snap.Listings {
		fmt.Printf("%-38s %-12s %-10s %-10s %s\n", l.ID, l.Type, l.Status, l.Plan, l.Name)
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
