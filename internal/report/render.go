package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"sigs.k8s.io/yaml"

	"github.com/imamik/hpcgate/internal/validators"
)

// Format selects a report encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, json, yaml)", s)
	}
}

// ColorEnabled reports whether text output to f should be coloured.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write encodes r to w. color only applies to FormatText.
func Write(w io.Writer, r *Report, format Format, color bool) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatYAML:
		return WriteYAML(w, r)
	case FormatText, "":
		return WriteText(w, r, color)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// WriteYAML writes r as YAML using its JSON field names.
func WriteYAML(w io.Writer, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = w.Write(data)
	return err
}

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

type textStyles struct {
	title, section, dim, ok, warn, fail, info lipgloss.Style
}

func newTextStyles(w io.Writer, color bool) textStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return textStyles{plain, plain, plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:   r.NewStyle().Bold(true).Foreground(colorWhite),
		section: r.NewStyle().Bold(true).Foreground(colorBlue),
		dim:     r.NewStyle().Foreground(colorDim),
		ok:      r.NewStyle().Foreground(colorGreen),
		warn:    r.NewStyle().Foreground(colorYellow),
		fail:    r.NewStyle().Foreground(colorRed).Bold(true),
		info:    r.NewStyle().Foreground(colorBlue),
	}
}

func (s textStyles) severity(sev validators.Severity) lipgloss.Style {
	switch sev {
	case validators.Error:
		return s.fail
	case validators.Warning:
		return s.warn
	default:
		return s.info
	}
}

func (s textStyles) outcome(o Outcome) lipgloss.Style {
	switch o {
	case OutcomeBlocked:
		return s.fail
	case OutcomePassedWithSuppressed, OutcomePassedWithFindings, OutcomePassedAllSuppressed:
		return s.warn
	default:
		return s.ok
	}
}

// WriteText writes a human-readable report.
func WriteText(w io.Writer, r *Report, color bool) error {
	st := newTextStyles(w, color)
	var b strings.Builder

	b.WriteString(st.title.Render("Cluster validation"))
	b.WriteString(" ")
	b.WriteString(st.dim.Render("run " + r.RunID))
	b.WriteString("\n")

	if len(r.Findings) > 0 {
		b.WriteString("\n")
		b.WriteString(st.section.Render("Findings"))
		b.WriteString("\n")
		for _, f := range r.Findings {
			fmt.Fprintf(&b, "  %s %s\n", st.severity(f.Severity).Render(fmt.Sprintf("%-7s", f.Severity)), f.Type)
			if f.Path != "" {
				fmt.Fprintf(&b, "          %s\n", st.dim.Render(f.Path))
			}
			fmt.Fprintf(&b, "          %s\n", f.Message)
		}
	}

	if len(r.Suppressed) > 0 {
		b.WriteString("\n")
		b.WriteString(st.section.Render("Suppressed"))
		b.WriteString("\n")
		names := make([]string, 0, len(r.Suppressed))
		for n := range r.Suppressed {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(&b, "  %-55s %d\n", n, r.Suppressed[n])
		}
	}

	b.WriteString("\n")
	b.WriteString(st.section.Render("Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Reported:   %d error(s), %d warning(s), %d info\n",
		r.Count(validators.Error), r.Count(validators.Warning), r.Count(validators.Info))
	fmt.Fprintf(&b, "  Raw:        %d error(s), %d warning(s), %d info\n",
		r.RawCounts[validators.Error.String()], r.RawCounts[validators.Warning.String()], r.RawCounts[validators.Info.String()])
	fmt.Fprintf(&b, "  Suppressed: %d\n", r.SuppressedTotal())
	fmt.Fprintf(&b, "  Fail level: %s\n", r.FailLevel)
	fmt.Fprintf(&b, "  Outcome:    %s\n", st.outcome(r.Outcome).Render(string(r.Outcome)))

	_, err := io.WriteString(w, b.String())
	return err
}
