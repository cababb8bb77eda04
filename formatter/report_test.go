package formatter

import (
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/lintrun/lintrun/runner"
)

func TestSummary(t *testing.T) {
	color.NoColor = true

	results := []runner.Result{
		{Checker: "flake8", Code: 0, Duration: 1200 * time.Millisecond},
		{Checker: "black", Code: 7, Duration: 300 * time.Millisecond},
	}

	out := Summary(results)
	assert.Contains(t, out, "✓ flake8 (1.2s)")
	assert.Contains(t, out, "✗ black (300ms) exit 7")
}

func TestSummaryExecutionError(t *testing.T) {
	color.NoColor = true

	results := []runner.Result{
		{Checker: "ghost", Code: -1, Err: errors.New("command not found in context path: ghost")},
	}

	out := Summary(results)
	assert.Contains(t, out, "✗ ghost")
	assert.Contains(t, out, "command not found in context path")
}

func TestCheckLine(t *testing.T) {
	color.NoColor = true

	assert.Equal(t, "✓ flake8\n", CheckLine("flake8", nil))
	assert.Contains(t, CheckLine("flake8", errors.New("missing")), "✗ flake8: missing")
}
