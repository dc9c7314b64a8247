package engine

import (
	"fmt"
	"strings"
)

// ExitStatus is the process exit code derived from a run.
type ExitStatus int

const (
	ExitSuccess ExitStatus = 0
	ExitFailure ExitStatus = 1
)

// Summary aggregates a run's ordered step results.
type Summary struct {
	Results []StepResult `json:"results"`

	// Halted is true when a fatal failure cut the run short.
	Halted bool `json:"halted"`

	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Optional  int `json:"failed_optional"`
	Fatal     int `json:"failed_fatal"`
}

// Summarize aggregates results into a Summary. The exit status is failure
// iff any fatal failure is present; optional failures alone still succeed.
func Summarize(results []StepResult) Summary {
	s := Summary{Results: results}

	for _, r := range results {
		switch r.Outcome {
		case OutcomeSucceeded:
			s.Succeeded++
		case OutcomeSkipped:
			s.Skipped++
		case OutcomeFailedOptional:
			s.Optional++
		case OutcomeFailedFatal:
			s.Fatal++
			s.Halted = true
		}
	}

	return s
}

// ExitStatus returns the process exit code for this summary.
func (s Summary) ExitStatus() ExitStatus {
	if s.Fatal > 0 {
		return ExitFailure
	}
	return ExitSuccess
}

// outcome markers for the human-readable listing.
var outcomeMarks = map[Outcome]string{
	OutcomeSucceeded:      "ok  ",
	OutcomeSkipped:        "skip",
	OutcomeFailedOptional: "warn",
	OutcomeFailedFatal:    "FAIL",
}

// Format renders the summary as an ordered human-readable listing with
// remediation hints for failed steps.
func (s Summary) Format() string {
	var b strings.Builder

	for _, r := range s.Results {
		fmt.Fprintf(&b, "[%s] %s", outcomeMarks[r.Outcome], r.StepName)
		if r.Detail != "" {
			fmt.Fprintf(&b, " (%s)", r.Detail)
		}
		b.WriteString("\n")
		if r.Outcome.IsFailure() && r.Remedy != "" {
			fmt.Fprintf(&b, "       remedy: %s\n", r.Remedy)
		}
	}

	fmt.Fprintf(&b, "\n%d succeeded, %d skipped, %d optional failures, %d fatal\n",
		s.Succeeded, s.Skipped, s.Optional, s.Fatal)

	if s.Halted {
		b.WriteString("run halted on first fatal failure; later steps were not attempted\n")
	}

	return b.String()
}
