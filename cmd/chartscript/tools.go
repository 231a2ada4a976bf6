package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/chartscript/pkg/indicator"
	"github.com/raykavin/chartscript/pkg/plot"
	"github.com/raykavin/chartscript/pkg/surface"
	"github.com/spf13/cobra"
)

// Command line flags
var (
	toolsBar int

	toolsFlags bindings
)

func buildToolsCmd() *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the tooltip values of every indicator at a bar",
		RunE:  runTools,
	}

	// Add flags
	toolsFlags = feedFlags(toolsCmd)
	toolsCmd.Flags().IntVarP(&toolsBar, "bar", "b", -1, "Bar index, negative values count from the last bar")

	return toolsCmd
}

func runTools(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd, toolsFlags)
	if err != nil {
		return err
	}

	df, err := a.loadData()
	if err != nil {
		return err
	}

	indicators, err := indicator.ParseAll(a.cfg.Indicators)
	if err != nil {
		return err
	}

	chart, err := newChart(a, df, indicators)
	if err != nil {
		return err
	}
	defer chart.Dispose()

	// Tools are registered while the scripts draw
	if err := chart.Render(surface.NewRecorder()); err != nil {
		a.log.WithError(err).Warn("scripts failed to draw")
	}

	index := toolsBar
	if index < 0 {
		index += df.Len()
	}
	rows := chart.Tooltip(index)
	if len(rows) == 0 {
		return fmt.Errorf("bar %d out of range [0, %d)", toolsBar, df.Len())
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", df.Symbol, df.TimeAt(index).Format(timeLayout))
	fmt.Fprint(cmd.OutOrStdout(), toolsTable(rows))
	return nil
}

func toolsTable(rows []plot.TooltipRow) string {
	tableString := &strings.Builder{}
	table := tablewriter.NewWriter(tableString)
	table.SetHeader([]string{"Pane", "Script", "Label", "Value"})

	data := make([][]string, 0, len(rows))
	for _, row := range rows {
		data = append(data, []string{row.Pane, row.Script, row.Label, row.Value})
	}

	table.AppendBulk(data)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
	})
	table.SetAutoMergeCells(true)
	table.Render()
	return tableString.String()
}
