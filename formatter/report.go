package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/lintrun/lintrun/runner"
)

var (
	passStyle    = color.New(color.FgGreen, color.Bold)
	failStyle    = color.New(color.FgRed, color.Bold)
	checkerStyle = color.New(color.FgCyan, color.Bold)
	detailStyle  = color.New(color.FgHiBlack)
)

// Summary renders a one-line-per-checker report of a completed run. The
// checkers' own diagnostics have already gone to the output streams; this
// only adds the pass/fail tail.
func Summary(results []runner.Result) string {
	var builder strings.Builder
	for _, result := range results {
		if result.Failed() {
			builder.WriteString(failStyle.Sprint("✗ "))
		} else {
			builder.WriteString(passStyle.Sprint("✓ "))
		}
		builder.WriteString(checkerStyle.Sprint(result.Checker))
		builder.WriteString(detailStyle.Sprintf(" (%s)", result.Duration.Round(time.Millisecond)))
		if result.Err != nil {
			builder.WriteString(failStyle.Sprintf(" %v", result.Err))
		} else if result.Code != 0 {
			builder.WriteString(failStyle.Sprintf(" exit %d", result.Code))
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// CheckLine renders one precondition check for the check command.
func CheckLine(name string, err error) string {
	if err != nil {
		return fmt.Sprintf("%s %s: %v\n", failStyle.Sprint("✗"), checkerStyle.Sprint(name), err)
	}
	return fmt.Sprintf("%s %s\n", passStyle.Sprint("✓"), checkerStyle.Sprint(name))
}
