package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/hitreport/packages/core/config"
	"github.com/abdul-hamid-achik/hitreport/packages/core/suite"
	"github.com/fatih/color"
)

// palette holds the colors used by terminal reporters
type palette struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	cyan   *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newPalette(noColor bool) palette {
	p := palette{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.green, p.red, p.yellow, p.cyan, p.dim, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

// relativePath makes file relative to root when both are absolute
func relativePath(root, file string) string {
	if root == "" || !filepath.IsAbs(file) {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

func rootDir(cfg *config.FullConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.RootDir
}

func formatLocation(cfg *config.FullConfig, loc suite.Location) string {
	return fmt.Sprintf("%s:%d:%d", relativePath(rootDir(cfg), loc.File), loc.Line, loc.Column)
}

// testTitle renders "[project] › file:line:col › titles" with titles joined by sep
func testTitle(cfg *config.FullConfig, t *suite.Test, sep string) string {
	var b strings.Builder
	if project := t.ProjectName(); project != "" {
		fmt.Fprintf(&b, "[%s] › ", project)
	}
	b.WriteString(formatLocation(cfg, t.Location))
	b.WriteString(" › ")
	b.WriteString(strings.Join(t.Titles(), sep))
	return b.String()
}

// formatError renders a test error with its location and stack
func formatError(cfg *config.FullConfig, err *suite.TestError, colors palette) string {
	var b strings.Builder
	b.WriteString(colors.red.Sprint(err.Message))
	if err.Location != nil {
		fmt.Fprintf(&b, "\n\n    at %s", formatLocation(cfg, *err.Location))
	}
	if stack := strings.TrimSpace(err.Stack); stack != "" {
		b.WriteString("\n\n")
		b.WriteString(colors.dim.Sprint(stack))
	}
	return b.String()
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
