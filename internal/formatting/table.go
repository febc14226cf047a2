package formatting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ignition/internal/bootstrap"
	"ignition/internal/dependency"
)

// RenderSystems writes the descriptor table: one row per declared system in
// tier/order sequence.
func RenderSystems(t *dependency.Table, w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Tier", "System", "Required", "Dependencies", "Capabilities"})

	for _, d := range t.All() {
		tw.AppendRow(table.Row{
			d.Tier,
			d.Name,
			requiredLabel(d.Required),
			strings.Join(d.Dependencies, ", "),
			strings.Join(d.Capabilities, ", "),
		})
	}
	tw.Render()
}

// RenderReport writes the outcome of a run: the per-tier history with each
// system's result, followed by the summary line.
func RenderReport(status bootstrap.Status, w io.Writer) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Tier", "System", "Outcome", "Duration", "Error"})

	for _, stage := range status.History {
		for _, o := range stage.Outcomes {
			errMsg := ""
			if o.Err != nil {
				errMsg = o.Err.Error()
			}
			tw.AppendRow(table.Row{
				stage.Tier,
				o.SystemName,
				outcomeLabel(o.Status),
				o.Duration.Round(time.Millisecond),
				errMsg,
			})
		}
	}
	tw.Render()

	fmt.Fprintf(w, "\nStage: %s  Elapsed: %s  Stability: %.2f\n",
		stageLabel(status), status.Elapsed.Round(time.Millisecond), status.Stability)
	if len(status.Failed) > 0 {
		fmt.Fprintf(w, "Failed systems: %s\n", strings.Join(status.Failed, ", "))
	}
}

func requiredLabel(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}

func outcomeLabel(status bootstrap.OutcomeStatus) string {
	switch status {
	case bootstrap.OutcomeSucceeded:
		return text.FgGreen.Sprint("succeeded")
	case bootstrap.OutcomeFailed:
		return text.FgRed.Sprint("failed")
	default:
		return string(status)
	}
}

func stageLabel(status bootstrap.Status) string {
	switch status.Stage {
	case bootstrap.StageReady:
		return text.FgGreen.Sprint(string(status.Stage))
	case bootstrap.StageFailed:
		return text.FgRed.Sprint(string(status.Stage))
	default:
		return string(status.Stage)
	}
}
