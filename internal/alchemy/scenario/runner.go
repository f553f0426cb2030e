package scenario

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/louisbranch/alchemists/internal/alchemy/board"
	"github.com/louisbranch/alchemists/internal/alchemy/notebook"
	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

// Config controls scenario execution.
type Config struct {
	Assertions AssertionMode
	Verbose    bool
	Logger     *log.Logger
}

// DefaultConfig returns default runner configuration.
func DefaultConfig() Config {
	return Config{
		Assertions: AssertionStrict,
		Verbose:    false,
	}
}

// Runner replays scenarios against a fresh notebook.
type Runner struct {
	assertions Assertions
	logger     *log.Logger
	verbose    bool
}

// NewRunner prepares a scenario runner.
func NewRunner(cfg Config) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	return &Runner{
		assertions: Assertions{Mode: cfg.Assertions, Logger: logger},
		logger:     logger,
		verbose:    cfg.Verbose,
	}
}

// RunFile loads and executes a scenario file.
func RunFile(ctx context.Context, cfg Config, path string) error {
	scenario, err := LoadScenarioFromFile(path)
	if err != nil {
		return err
	}
	return NewRunner(cfg).RunScenario(ctx, scenario)
}

type scenarioState struct {
	notebook *notebook.Notebook
	// lastErr is the rejection of the previous step, kept for expect_error.
	lastErr error
}

// RunScenario executes the scenario steps in order.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) error {
	if scenario == nil {
		return errors.New("scenario is required")
	}
	r.logf("scenario start: %s (%d steps)", scenario.Name, len(scenario.Steps))
	state := &scenarioState{notebook: notebook.New(notebook.WithLogger(r.logger))}

	for index, step := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		stepNumber := index + 1
		r.logf("step %d/%d start: %s", stepNumber, len(scenario.Steps), step.Kind)
		stepStart := time.Now()
		err := r.runStep(ctx, state, step)
		if err != nil && expectsError(scenario, index) && apperrors.CodeOf(err) != apperrors.CodeUnknown {
			r.logf("step %d/%d rejected: %v", stepNumber, len(scenario.Steps), err)
			state.lastErr = err
			continue
		}
		if err != nil {
			return apperrors.WrapWithMetadata(apperrors.CodeScenarioStepFailed,
				"step "+strconv.Itoa(stepNumber)+" ("+step.Kind+")",
				map[string]string{"scenario": scenario.Name, "step": strconv.Itoa(stepNumber), "kind": step.Kind},
				err)
		}
		state.lastErr = nil
		r.logf("step %d/%d done: %s (%s)", stepNumber, len(scenario.Steps), step.Kind, time.Since(stepStart))
	}
	if r.verbose {
		if err := board.Render(r.logger.Writer(), state.notebook.State()); err != nil {
			return err
		}
	}
	r.logf("scenario done: %s", scenario.Name)
	return nil
}

func expectsError(scenario *Scenario, index int) bool {
	next := index + 1
	return next < len(scenario.Steps) && scenario.Steps[next].Kind == "expect_error"
}

func (r *Runner) logf(format string, args ...any) {
	if !r.verbose || r.logger == nil {
		return
	}
	r.logger.Printf(format, args...)
}
