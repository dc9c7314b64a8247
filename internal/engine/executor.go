package engine

import (
	"context"
	"fmt"

	"github.com/dotup-sh/dotup/internal/probe"
)

// Executor runs provisioning steps in declared order.
type Executor struct {
	logger Logger
}

// NewExecutor creates an executor. A nil logger disables logging.
func NewExecutor(logger Logger) *Executor {
	if logger == nil {
		logger = defaultLogger()
	}
	return &Executor{logger: logger}
}

// Run executes steps in order against the probed capabilities and returns
// the ordered results. A fatal failure stops execution immediately: the
// returned slice ends with that result and the remaining steps are never
// attempted. Optional failures never halt.
func (e *Executor) Run(ctx context.Context, caps *probe.HostCapabilities, steps []Step) []StepResult {
	results := make([]StepResult, 0, len(steps))

	for _, step := range steps {
		result := e.runStep(ctx, caps, step)
		results = append(results, result)

		switch result.Outcome {
		case OutcomeSucceeded:
			e.logger.Info("step succeeded", "step", step.Name, "detail", result.Detail)
		case OutcomeSkipped:
			e.logger.Debug("step skipped", "step", step.Name, "reason", result.Detail)
		case OutcomeFailedOptional:
			e.logger.Warn("optional step failed", "step", step.Name, "detail", result.Detail)
		case OutcomeFailedFatal:
			e.logger.Error("fatal step failure, halting", "step", step.Name, "detail", result.Detail)
			return results
		}
	}

	return results
}

// runStep evaluates one step: precondition, then apply (or the alternative
// chain), then verify. Verification failure is treated identically to an
// apply failure.
func (e *Executor) runStep(ctx context.Context, caps *probe.HostCapabilities, step Step) StepResult {
	if step.Precondition != nil {
		ok, reason := step.Precondition(caps)
		if !ok {
			return StepResult{
				StepName: step.Name,
				Outcome:  OutcomeSkipped,
				Detail:   reason,
			}
		}
	}

	if len(step.Alternatives) > 0 {
		return e.runAlternatives(ctx, step)
	}

	if step.Apply != nil {
		if err := step.Apply(ctx); err != nil {
			return failure(step, err.Error())
		}
	}

	if step.Verify != nil {
		if ok, reason := step.Verify(); !ok {
			return failure(step, fmt.Sprintf("verification failed: %s", reason))
		}
	}

	return StepResult{StepName: step.Name, Outcome: OutcomeSucceeded}
}

// runAlternatives tries each alternative in order and records which one
// succeeded. The step fails only when every alternative fails.
func (e *Executor) runAlternatives(ctx context.Context, step Step) StepResult {
	var lastFailure string

	for _, alt := range step.Alternatives {
		if alt.Apply != nil {
			if err := alt.Apply(ctx); err != nil {
				lastFailure = fmt.Sprintf("%s: %v", alt.Name, err)
				e.logger.Debug("alternative failed", "step", step.Name, "alternative", alt.Name, "error", err)
				continue
			}
		}

		if alt.Verify != nil {
			if ok, reason := alt.Verify(); !ok {
				lastFailure = fmt.Sprintf("%s: verification failed: %s", alt.Name, reason)
				continue
			}
		}

		return StepResult{
			StepName: step.Name,
			Outcome:  OutcomeSucceeded,
			Detail:   alt.Name,
		}
	}

	return failure(step, fmt.Sprintf("all alternatives failed, last: %s", lastFailure))
}

// failure builds the failure result matching the step's severity.
func failure(step Step, detail string) StepResult {
	outcome := OutcomeFailedOptional
	if step.Required {
		outcome = OutcomeFailedFatal
	}
	return StepResult{
		StepName: step.Name,
		Outcome:  outcome,
		Detail:   detail,
		Remedy:   step.Remedy,
	}
}
