package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/chartscript/pkg/event"
	"github.com/raykavin/chartscript/pkg/storage"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/xhit/go-str2duration/v2"
)

const timeLayout = "2006-01-02 15:04:05"

// Command line flags
var (
	eventKinds  []string
	eventScript string
	eventSince  string
)

func buildEventsCmd() *cobra.Command {
	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "List the events stored in the journal",
		RunE:  runEvents,
	}

	// Add flags
	eventsCmd.Flags().StringP("journal", "j", "", "Event journal file")
	eventsCmd.Flags().StringP("symbol", "s", "", "Only events of this symbol")
	eventsCmd.Flags().StringSliceVarP(&eventKinds, "kind", "k", nil, "Only these kinds (signal, open, close, update)")
	eventsCmd.Flags().StringVar(&eventScript, "script", "", "Only events of this script")
	eventsCmd.Flags().StringVar(&eventSince, "since", "", "Only events emitted in the last duration (e.g. 2h)")

	return eventsCmd
}

func runEvents(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, bindings{"events.journal": "journal"})
	if err != nil {
		return err
	}

	filters, err := eventFilters(cmd)
	if err != nil {
		return err
	}

	journal, err := storage.FromFile(a.cfg.Events.Journal, storage.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer journal.Close()

	records, err := journal.Records(filters...)
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), eventsTable(records))
	return nil
}

func eventFilters(cmd *cobra.Command) ([]storage.Filter, error) {
	var filters []storage.Filter

	if len(eventKinds) > 0 {
		filters = append(filters, storage.WithKind(lo.Map(eventKinds, func(k string, _ int) event.Kind {
			return event.Kind(strings.ToLower(k))
		})...))
	}
	if eventScript != "" {
		filters = append(filters, storage.WithScript(eventScript))
	}
	if symbol, _ := cmd.Flags().GetString("symbol"); symbol != "" {
		filters = append(filters, storage.WithSymbol(symbol))
	}
	if eventSince != "" {
		d, err := str2duration.ParseDuration(eventSince)
		if err != nil {
			return nil, fmt.Errorf("invalid since duration: %w", err)
		}
		filters = append(filters, storage.Since(time.Now().Add(-d)))
	}

	return filters, nil
}

func eventsTable(records []event.Record) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetHeader([]string{"Emitted", "Kind", "Script", "Symbol", "Bar", "Tag", "Message"})

	for _, r := range records {
		bar := ""
		if !r.BarTime.IsZero() {
			bar = r.BarTime.Format(timeLayout)
		}
		table.Append([]string{
			r.WallTime.Format(timeLayout),
			string(r.Kind),
			r.Script,
			r.Symbol,
			bar,
			r.Tag,
			r.Message,
		})
	}

	table.SetFooter([]string{"", "", "", "", "", "Total", fmt.Sprint(len(records))})
	table.Render()
	return tableString.String()
}
