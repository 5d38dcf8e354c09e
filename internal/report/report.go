// Package report renders conversion plans and run summaries for terminals.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"

	"ggufconv/internal/executor"
	"ggufconv/pkg/types"
)

// Status labels used in the plan table.
const (
	StatusExists  = "exists"
	StatusPending = "pending"
)

// PlanTable writes one row per target: input, format, output, status.
func PlanTable(w io.Writer, plan *types.ConversionPlan) {
	var data [][]string
	for _, e := range plan.Entries {
		for _, t := range e.Targets {
			status := StatusPending
			if t.Exists {
				status = StatusExists
			}
			data = append(data, []string{filepath.Base(e.InputPath), t.Format.String(), t.OutputPath, status})
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"INPUT", "FORMAT", "OUTPUT", "STATUS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()
}

// Outputs writes every planned output path, one per line.
func Outputs(w io.Writer, plan *types.ConversionPlan) {
	for _, e := range plan.Entries {
		for _, t := range e.Targets {
			fmt.Fprintln(w, t.OutputPath)
		}
	}
}

// Plan writes the table, the output list and a pending/total line.
func Plan(w io.Writer, plan *types.ConversionPlan) {
	PlanTable(w, plan)
	fmt.Fprintln(w, "\nOutput files:")
	Outputs(w, plan)
	fmt.Fprintf(w, "\n%d of %d output(s) to create\n", plan.PendingCount(), plan.TargetCount())
}

// Formats writes the format catalogue as NAME / FORMATS rows.
func Formats(w io.Writer, groups []types.FormatGroup) {
	var data [][]string
	for _, g := range groups {
		names := make([]string, len(g.Formats))
		for i, f := range g.Formats {
			names[i] = f.String()
		}
		data = append(data, []string{g.Name, strings.Join(names, " ")})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"GROUP", "FORMATS"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

// Summary writes the outcome counters of a finished run.
func Summary(w io.Writer, s executor.Summary) {
	fmt.Fprintf(w, "completed: %d  skipped: %d  failed: %d  intermediates removed: %d\n",
		s.Completed, s.Skipped, s.Failed, s.Cleaned)
}
