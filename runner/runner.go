package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/lintrun/lintrun/internal/config"
	"github.com/lintrun/lintrun/internal/env"
)

var ErrTimeout = errors.New("checker timed out")

// Result is the outcome of one checker invocation. Code is the checker's
// own exit status; Err is set only when the checker could not be executed
// at all (unresolvable command, timeout, signal).
type Result struct {
	Checker  string
	Code     int
	Duration time.Duration
	Err      error
}

// Failed reports whether this result should stop the run.
func (r Result) Failed() bool {
	return r.Code != 0 || r.Err != nil
}

// Runner executes external checkers inside a prepared execution context.
// Output of each checker passes straight through to the runner's streams;
// nothing is added to or stripped from the checker's own diagnostics.
type Runner struct {
	logger *zap.Logger
	ectx   *env.Context

	stdout   io.Writer
	stderr   io.Writer
	progress bool
}

// Option configures the Runner.
type Option func(*Runner)

// WithStreams redirects checker output, mainly for tests.
func WithStreams(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithProgress toggles the multi-checker progress bar.
func WithProgress(enabled bool) Option {
	return func(r *Runner) {
		r.progress = enabled
	}
}

func New(logger *zap.Logger, ectx *env.Context, opts ...Option) *Runner {
	r := &Runner{
		logger:   logger,
		ectx:     ectx,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		progress: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Context returns the execution context the runner was built with.
func (r *Runner) Context() *env.Context {
	return r.ectx
}

// Run executes the checkers sequentially inside the context, stopping at
// the first failure, the way a chain of shell commands joined by && would.
// The returned slice covers every checker that was started; a checker that
// was never reached does not appear. The error mirrors the last result's
// Err for callers that only care whether execution itself broke.
func (r *Runner) Run(ctx context.Context, checkers []config.Checker) ([]Result, error) {
	bar := r.newProgressBar(len(checkers))

	results := make([]Result, 0, len(checkers))
	for _, checker := range checkers {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		result := r.runChecker(ctx, checker)
		results = append(results, result)
		if bar != nil {
			bar.Add(1)
		}

		if result.Failed() {
			if bar != nil {
				bar.Clear()
			}
			r.logger.Debug("checker failed, stopping run",
				zap.String("checker", result.Checker),
				zap.Int("code", result.Code),
				zap.Error(result.Err),
			)
			return results, result.Err
		}
	}

	if bar != nil {
		bar.Finish()
	}
	return results, nil
}

// runChecker executes one checker and captures its exit status.
func (r *Runner) runChecker(ctx context.Context, checker config.Checker) Result {
	start := time.Now()
	result := Result{Checker: checker.Name}

	// Resolve against the context path before spawning so a missing tool
	// is reported as a context problem, not a shell "not found" code.
	cmdPath, err := r.ectx.LookPath(checker.Command)
	if err != nil {
		result.Err = err
		result.Code = -1
		result.Duration = time.Since(start)
		return result
	}

	timeout := checker.Timeout.Std()
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	cmdCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, cmdPath, checker.Args...)
	// Don't let an orphaned grandchild holding the output pipes stall the
	// run past cancellation.
	cmd.WaitDelay = time.Second
	cmd.Dir = r.ectx.WorkDir
	cmd.Env = r.ectx.Environ()
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	r.logger.Debug("running checker",
		zap.String("checker", checker.Name),
		zap.String("command", cmdPath),
		zap.Strings("args", checker.Args),
		zap.String("dir", r.ectx.WorkDir),
	)

	err = cmd.Run()
	result.Duration = time.Since(start)

	if cmdCtx.Err() == context.DeadlineExceeded {
		result.Err = fmt.Errorf("%w: %s after %s", ErrTimeout, checker.Name, timeout)
		result.Code = -1
		return result
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.Code = 0
	case errors.As(err, &exitErr):
		result.Code = exitErr.ExitCode()
	default:
		result.Err = fmt.Errorf("running %s: %w", checker.Name, err)
		result.Code = -1
	}

	return result
}

func (r *Runner) newProgressBar(total int) *progressbar.ProgressBar {
	if !r.progress || total < 2 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.stderr),
		progressbar.OptionSetDescription("checkers"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

// ExitCode maps a slice of results to the process exit code: the first
// failing checker's own status, or zero. A result with Err set but no
// meaningful code maps to 1.
func ExitCode(results []Result) int {
	for _, result := range results {
		if !result.Failed() {
			continue
		}
		if result.Code > 0 {
			return result.Code
		}
		return 1
	}
	return 0
}
