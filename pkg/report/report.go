// Package report prints the human-readable progress and summary lines of a
// digest run. Nothing printed here affects the document itself.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"aidigest/pkg/combine"
	"aidigest/pkg/outdir"

	"github.com/fatih/color"
)

// Printer writes report lines to an io.Writer.
type Printer struct {
	w       io.Writer
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	label   *color.Color
	value   *color.Color
}

// New returns a Printer writing to w. Colour is used only when w is the
// process stdout or stderr and colour has not been disabled.
func New(w io.Writer) *Printer {
	p := &Printer{
		w:       w,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed, color.Bold),
		label:   color.New(color.Bold),
		value:   color.New(color.FgCyan),
	}
	if !useColor(w) {
		for _, c := range []*color.Color{p.success, p.warn, p.fail, p.label, p.value} {
			c.DisableColor()
		}
	}
	return p
}

func useColor(w io.Writer) bool {
	if w != os.Stdout && w != os.Stderr {
		return false
	}
	return !color.NoColor
}

func (p *Printer) line(emoji string, c *color.Color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if c != nil {
		msg = c.Sprint(msg)
	}
	fmt.Fprintf(p.w, "%s %s\n", emoji, msg)
}

// Info prints a neutral line.
func (p *Printer) Info(emoji, format string, args ...interface{}) {
	p.line(emoji, nil, format, args...)
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, args ...interface{}) {
	p.line("⚠️", p.warn, format, args...)
}

// Error prints an error line.
func (p *Printer) Error(format string, args ...interface{}) {
	p.line("❌", p.fail, format, args...)
}

// PrintIgnoreFile reports whether the ignore file was found in dir.
func (p *Printer) PrintIgnoreFile(name, dir string, found bool) {
	if found {
		p.Info("📄", "Found %s file in %s.", name, dir)
		return
	}
	p.Info("❓", "No %s file found in %s.", name, dir)
}

// PrintSettings reports the filtering and whitespace settings of a run.
func (p *Printer) PrintSettings(useDefaults, compact bool) {
	if useDefaults {
		p.Info("🚫", "Using default ignore patterns.")
	} else {
		p.Info("✅", "Default ignore patterns disabled.")
	}
	if compact {
		p.Info("🧹", "Whitespace removal enabled (except for whitespace-dependent languages).")
	} else {
		p.Info("📝", "Whitespace removal disabled.")
	}
}

// PrintFound reports the number of candidates before filtering.
func (p *Printer) PrintFound(total int) {
	p.Info("🔍", "Found %d files. Applying filters...", total)
}

// PrintSummary reports the counts and token estimate of a finished run.
func (p *Printer) PrintSummary(res *combine.Result, useDefaults bool) {
	s := res.Summary
	p.line("✅", p.success, "Files aggregated successfully into %s", res.OutputPath)
	p.metric("📚", "Total files found", s.Total)
	p.metric("📎", "Files included in output", s.Included)
	if useDefaults {
		p.metric("🚫", "Files ignored by default patterns", s.DefaultIgnored)
	}
	if s.CustomIgnored > 0 {
		p.metric("🚫", "Files ignored by .aidigestignore and exclude patterns", s.CustomIgnored)
	}
	p.metric("📦", "Binary and SVG files included", s.Binary)
	if s.Failed > 0 {
		p.Warn("Files skipped due to read errors: %d", s.Failed)
	}

	if s.SizeWarning {
		p.Warn("Warning: Output file size (%.2f MB) exceeds 10 MB.", float64(s.Bytes)/1024/1024)
		p.Warn("Token count estimation skipped due to large file size.")
		p.Info("💡", "Consider adding more files to .aidigestignore to reduce the output size.")
		return
	}
	if s.TokensEstimated {
		p.metric("🔢", "Estimated token count", s.Tokens)
		p.Warn("Note: Token count is an approximation (%s). Actual counts vary by model.", s.Tokenizer)
	}
}

func (p *Printer) metric(emoji, label string, value int) {
	fmt.Fprintf(p.w, "%s %s %s\n", emoji, p.label.Sprint(label+":"), p.value.Sprint(value))
}

// PrintIncluded prints a numbered list of included files.
func (p *Printer) PrintIncluded(files []string) {
	p.Info("📋", "Files included in the output:")
	for i, f := range files {
		fmt.Fprintf(p.w, "%d. %s\n", i+1, f)
	}
}

// PrintTree prints the included files as a directory tree.
func (p *Printer) PrintTree(files []string) {
	p.Info("🌳", "Included file tree:")
	fmt.Fprint(p.w, combine.GenerateTree(files))
}

// PrintDone reports where the document and info file were written.
func (p *Printer) PrintDone(outputPath, infoPath string) {
	p.line("✅", p.success, "Done! Wrote code base to %s", outputPath)
	p.Info("📄", "Info file written to %s", infoPath)
}

// PrintLatest reports the recorded latest digest.
func (p *Printer) PrintLatest(path string) {
	p.Info("🔗", "Latest aidigest: %s", path)
}

// PrintRecent lists run folders with the content of their info files.
func (p *Printer) PrintRecent(runs []outdir.Run) {
	p.Info("📋", "Recent aidigest outputs:")
	for _, r := range runs {
		if r.Info == "" {
			continue
		}
		fmt.Fprintf(p.w, "Timestamp: %s\n", r.Name)
		fmt.Fprintln(p.w, strings.TrimRight(r.Info, "\n"))
		fmt.Fprintln(p.w, strings.Repeat("-", 40))
	}
}
