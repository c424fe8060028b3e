package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/miaoxn/soliditytool/internal/logsink"
	"github.com/miaoxn/soliditytool/internal/schema"
	"github.com/miaoxn/soliditytool/internal/storage"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type Formatter struct {
	format string
	out    io.Writer
}

func NewFormatter(format string) *Formatter {
	return NewFormatterWithWriter(format, os.Stdout)
}

func NewFormatterWithWriter(format string, w io.Writer) *Formatter {
	if format == "" {
		format = FormatTable
	}
	return &Formatter{format: format, out: w}
}

// FunctionRow is the listing form of one function.
type FunctionRow struct {
	Name       string   `json:"name" yaml:"name"`
	Signature  string   `json:"signature" yaml:"signature"`
	Mutability string   `json:"stateMutability" yaml:"stateMutability"`
	Inputs     []string `json:"inputs" yaml:"inputs"`
	Outputs    []string `json:"outputs" yaml:"outputs"`
	Note       string   `json:"note,omitempty" yaml:"note,omitempty"`
}

func NewFunctionRows(fns []schema.Function, notes map[string]string) []FunctionRow {
	rows := make([]FunctionRow, 0, len(fns))
	for _, fn := range fns {
		row := FunctionRow{
			Name:       fn.Name,
			Signature:  fn.Signature(),
			Mutability: fn.Mutability.String(),
			Inputs:     paramStrings(fn.Inputs),
			Outputs:    paramStrings(fn.Outputs),
			Note:       notes[fn.Name],
		}
		rows = append(rows, row)
	}
	return rows
}

func paramStrings(params []schema.Param) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Type.String() + " " + p.Label(i)
	}
	return out
}

func (f *Formatter) PrintFunctions(rows []FunctionRow) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(rows)
	case FormatYAML:
		return f.printYAML(rows)
	case FormatTable:
		table := f.newTable([]string{"FUNCTION", "MUTABILITY", "INPUTS", "OUTPUTS", "NOTE"})
		for _, r := range rows {
			table.Append([]string{
				r.Name,
				r.Mutability,
				strings.Join(r.Inputs, ", "),
				strings.Join(r.Outputs, ", "),
				r.Note,
			})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) PrintContracts(contracts []*storage.SavedContract) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(contracts)
	case FormatYAML:
		return f.printYAML(contracts)
	case FormatTable:
		if len(contracts) == 0 {
			fmt.Fprintln(f.out, "No saved contracts")
			return nil
		}
		table := f.newTable([]string{"ID", "NAME", "ADDRESS", "NETWORK", "SAVED", "NOTES"})
		for _, c := range contracts {
			table.Append([]string{
				c.ID,
				c.Name,
				c.Address,
				c.NetworkID,
				time.UnixMilli(c.CreatedAt).Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%d", len(c.Notes)),
			})
		}
		table.Render()
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

// PrintLog writes execution log entries, most recent first.
func (f *Formatter) PrintLog(entries []logsink.Entry) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(entries)
	case FormatYAML:
		return f.printYAML(entries)
	case FormatTable:
		for _, e := range entries {
			fmt.Fprintln(f.out, logsink.Format(e))
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

// Print formats and prints generic data based on the configured format
func (f *Formatter) Print(data interface{}) error {
	switch f.format {
	case FormatJSON:
		return f.printJSON(data)
	case FormatYAML:
		return f.printYAML(data)
	case FormatTable:
		return f.printGenericTable(data)
	default:
		return fmt.Errorf("unsupported output format: %s", f.format)
	}
}

func (f *Formatter) newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(f.out)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetBorder(true)
	return table
}

func (f *Formatter) printJSON(data interface{}) error {
	encoder := json.NewEncoder(f.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (f *Formatter) printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(f.out)
	defer func(encoder *yaml.Encoder) {
		if err := encoder.Close(); err != nil {
			fmt.Fprintf(f.out, "error closing output: %v\n\n", err)
		}
	}(encoder)
	return encoder.Encode(data)
}

// printGenericTable prints a map or struct as key-value rows, sorted by key
func (f *Formatter) printGenericTable(data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(jsonData, &obj); err != nil {
		fmt.Fprintln(f.out, string(jsonData))
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := f.newTable([]string{"Field", "Value"})
	for _, k := range keys {
		table.Append([]string{k, fmt.Sprintf("%v", obj[k])})
	}
	table.Render()
	return nil
}
