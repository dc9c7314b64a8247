package engine

// Outcome classifies how a step ended.
type Outcome string

const (
	// OutcomeSkipped means the precondition was false; nothing ran.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeSucceeded means apply ran and verification passed.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeFailedFatal means a required step failed; the run halted.
	OutcomeFailedFatal Outcome = "failed-fatal"
	// OutcomeFailedOptional means an optional step failed; the run went on.
	OutcomeFailedOptional Outcome = "failed-optional"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// IsFailure returns true for either failure outcome.
func (o Outcome) IsFailure() bool {
	return o == OutcomeFailedFatal || o == OutcomeFailedOptional
}

// StepResult records how one step ended. Results are immutable once
// produced and are collected in execution order.
type StepResult struct {
	StepName string  `json:"step"`
	Outcome  Outcome `json:"outcome"`

	// Detail carries the skip reason, the chosen alternative, or the
	// failure message, depending on the outcome.
	Detail string `json:"detail,omitempty"`

	// Remedy is the step's manual-remediation hint, set on failures.
	Remedy string `json:"remedy,omitempty"`
}
