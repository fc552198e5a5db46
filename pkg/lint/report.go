package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Report is the result of one engine run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Checked     int       `json:"checked"`
	Findings    []Finding `json:"findings"`
}

// NewReport creates an empty report with a fresh run ID.
func NewReport() *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}
}

// Sort orders findings deterministically by (path, rule, line).
func (r *Report) Sort() {
	sort.Slice(r.Findings, func(i, j int) bool {
		a, b := r.Findings[i], r.Findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Line < b.Line
	})
}

// Errors counts error-severity findings.
func (r *Report) Errors() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings counts warning-severity findings.
func (r *Report) Warnings() int {
	return len(r.Findings) - r.Errors()
}

// HasErrors reports whether any error-severity finding exists.
func (r *Report) HasErrors() bool {
	return r.Errors() > 0
}

// WriteJSON emits the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabel  = color.New(color.FgYellow).SprintFunc()
	ruleLabel  = color.New(color.Faint).SprintFunc()
)

// Render writes a human-readable report. Colors degrade automatically
// when the writer is not a terminal.
func (r *Report) Render(w io.Writer) {
	for _, f := range r.Findings {
		loc := f.Path
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.Path, f.Line)
		}
		label := warnLabel("warning")
		if f.Severity == SeverityError {
			label = errorLabel("error")
		}
		fmt.Fprintf(w, "%s: %s: %s %s\n", loc, label, f.Message, ruleLabel("["+f.Rule+"]"))
	}

	if len(r.Findings) == 0 {
		fmt.Fprintf(w, "%d document(s) checked, no issues found\n", r.Checked)
		return
	}
	fmt.Fprintf(w, "\n%d document(s) checked: %d error(s), %d warning(s)\n",
		r.Checked, r.Errors(), r.Warnings())
}
