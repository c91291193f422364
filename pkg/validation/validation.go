// Package validation collects findings from the scenario checks and the
// pipeline stages into a single report, so a run can surface every
// problem at once instead of failing on the first.
package validation

import "fmt"

// Level indicates which stage produced the finding.
type Level string

const (
	LevelSchema      Level = "schema"
	LevelCalibration Level = "calibration"
	LevelAllocation  Level = "allocation"
)

// Severity indicates how critical a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is a single validation result.
type Finding struct {
	Level    Level    `json:"level"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
	Value    any      `json:"value,omitempty"`
	Expected string   `json:"expected,omitempty"`
	Hints    []string `json:"hints,omitempty"`
}

// Report is the complete validation output of a run.
type Report struct {
	Valid    bool      `json:"valid"`
	Errors   []Finding `json:"errors"`
	Warnings []Finding `json:"warnings"`
	Info     []Finding `json:"info"`
	Summary  string    `json:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	return &Report{
		Valid:    true,
		Errors:   []Finding{},
		Warnings: []Finding{},
		Info:     []Finding{},
	}
}

// AddError adds an error finding and marks the report invalid.
func (r *Report) AddError(f Finding) {
	f.Severity = SeverityError
	r.Errors = append(r.Errors, f)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning finding.
func (r *Report) AddWarning(f Finding) {
	f.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, f)
	r.updateSummary()
}

// AddInfo adds an informational finding.
func (r *Report) AddInfo(f Finding) {
	f.Severity = SeverityInfo
	r.Info = append(r.Info, f)
	r.updateSummary()
}

// Merge combines another report into this one.
func (r *Report) Merge(other *Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}
