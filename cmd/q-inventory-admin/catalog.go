package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/target/q-inventory/internal/data"
	"github.com/target/q-inventory/internal/domain/model"
	"github.com/target/q-inventory/internal/seed"
	"github.com/target/q-inventory/internal/service"
)

type catalogOptions struct {
	Filter       string
	CriticalOnly bool
}

func parseCatalogFlags(args []string) (catalogOptions, error) {
	fs := flag.NewFlagSet("catalog", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts catalogOptions
	fs.StringVar(&opts.Filter, "filter", "", "JMESPath expression evaluated against the catalog (prints JSON)")
	fs.BoolVar(&opts.CriticalOnly, "critical", false, "Only show items at or below their threshold")

	if err := fs.Parse(args); err != nil {
		return catalogOptions{}, err
	}
	opts.Filter = strings.TrimSpace(opts.Filter)
	return opts, nil
}

func runCatalog(cmdCtx *commandContext, args []string) error {
	opts, err := parseCatalogFlags(args)
	if err != nil {
		return err
	}

	logger := cmdCtx.Logger
	if logger == nil {
		logger = slog.Default()
	}
	inventory := service.NewInventoryService(service.InventoryServiceOptions{
		Items:  data.NewItemRepo(seed.Catalog()),
		Logger: logger,
	})

	if opts.Filter != "" {
		result, queryErr := inventory.Query(cmdCtx.Ctx, opts.Filter)
		if queryErr != nil {
			return queryErr
		}
		enc := json.NewEncoder(cmdCtx.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	var items []model.Item
	if opts.CriticalOnly {
		items, err = inventory.Critical(cmdCtx.Ctx)
	} else {
		items, err = inventory.List(cmdCtx.Ctx)
	}
	if err != nil {
		return err
	}
	return renderCatalogTable(cmdCtx.Out, items)
}

func renderCatalogTable(w io.Writer, items []model.Item) error {
	if len(items) == 0 {
		return writeln(w, "(no items)")
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writeln(tw, "ID\tNAME\tQUANTITY\tTHRESHOLD\tCRITICAL"); err != nil {
		return fmt.Errorf("write catalog header row: %w", err)
	}
	for _, item := range items {
		critical := ""
		if item.IsCritical() {
			critical = "yes"
		}
		if err := writef(tw, "%s\t%s %s\t%d\t%d\t%s\n",
			item.ID, item.Emoji, item.Name, item.Quantity, item.LowThreshold, critical); err != nil {
			return fmt.Errorf("write catalog row: %w", err)
		}
	}
	return tw.Flush()
}
