// Package terminal renders prediction outcomes for the command line.
package terminal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	service "github.com/okian/perfscore/internal/app"
	"github.com/okian/perfscore/internal/domain/model"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Output formats accepted by Write.
const (
	TableOut = "table"
	JSONOut  = "json"
)

// ErrUnknownFormat is returned for an output format other than table or json.
var ErrUnknownFormat = errors.New("unknown output format")

// CheckFormat reports whether format is one Write accepts.
func CheckFormat(format string) error {
	switch format {
	case TableOut, JSONOut:
		return nil
	default:
		return fmt.Errorf("%w %q: want %s or %s", ErrUnknownFormat, format, TableOut, JSONOut)
	}
}

// Write renders out in format.
func Write(w io.Writer, out service.Outcome, format string) error {
	switch format {
	case JSONOut:
		return WriteJSON(w, out)
	case TableOut:
		return WriteTable(w, out)
	default:
		return CheckFormat(format)
	}
}

// WriteTable prints the submitted values as a table followed by the
// outcome message, coloured by state.
func WriteTable(w io.Writer, out service.Outcome) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Value"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(model.Fields))
	for _, f := range model.Fields {
		label := f.Column()
		if out.State == service.Rejected && out.Field == f {
			label = color.New(color.FgYellow).Sprint(label)
		}
		data = append(data, []string{label, strconv.Itoa(out.Record.Get(f))})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintln(w, colorFor(out.State)(out.Message))
	return err
}

// WriteJSON prints the outcome as one JSON document.
func WriteJSON(w io.Writer, out service.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func colorFor(s service.State) func(a ...interface{}) string {
	switch s {
	case service.Completed:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	case service.Rejected:
		return color.New(color.FgYellow).SprintFunc()
	default:
		return color.New(color.FgRed).SprintFunc()
	}
}

// ExitCode maps an outcome to a process exit status.
func ExitCode(out service.Outcome) int {
	switch out.State {
	case service.Completed:
		return 0
	case service.Rejected:
		return 2
	default:
		return 1
	}
}
