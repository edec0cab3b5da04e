// Package export renders a task list as a JSON, CSV, or PDF report.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/nibzard/task-tracker/internal/task"
)

// Format is an export format.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	PDF  Format = "pdf"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{JSON, CSV, PDF}
}

// ParseFormat validates a format name. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return JSON, nil
	case JSON, CSV, PDF:
		return f, nil
	default:
		return "", &task.ValidationError{
			Field: "format",
			Err:   fmt.Errorf("unknown format %q (expected json|csv|pdf)", s),
		}
	}
}

// DefaultPath returns the file name used when no output path is given.
func (f Format) DefaultPath() string {
	return "tasks-export." + string(f)
}

var csvHeader = []string{"id", "description", "status", "createdAt", "updatedAt"}

// Export renders list in format f.
func Export(list task.List, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return exportJSON(list)
	case CSV:
		return exportCSV(list)
	case PDF:
		return exportPDF(list)
	default:
		return nil, fmt.Errorf("unknown format %s", f)
	}
}

func exportJSON(list task.List) ([]byte, error) {
	if list == nil {
		list = task.List{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func exportCSV(list task.List) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, t := range list {
		row := []string{
			strconv.Itoa(t.ID),
			t.Description,
			t.Status.String(),
			t.CreatedAt.String(),
			t.UpdatedAt.String(),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func exportPDF(list task.List) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Task Report", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Task Report")
	pdf.Ln(12)

	counts := list.Counts()
	pdf.SetFont("Arial", "", 10)
	summary := fmt.Sprintf("%d tasks: %d todo, %d in-progress, %d done",
		len(list), counts[task.StatusTodo], counts[task.StatusInProgress], counts[task.StatusDone])
	pdf.Cell(40, 6, summary)
	pdf.Ln(10)

	for _, t := range list {
		line := fmt.Sprintf("[%d] %s - %s (Created: %s, Updated: %s)",
			t.ID, t.Description, t.Status, t.CreatedAt, t.UpdatedAt)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
