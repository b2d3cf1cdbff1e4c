package validators

import (
	"fmt"
	"strings"
)

// Severity classifies a finding. Severities are ordered: Info < Warning < Error.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

var severityNames = [...]string{Info: "INFO", Warning: "WARNING", Error: "ERROR"}

func (s Severity) String() string {
	if s < Info || s > Error {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// AtLeast reports whether s is as severe as min or more.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}

// ParseSeverity parses a severity name, ignoring case.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, name) {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q (valid: info, warning, error)", name)
}

// Severities returns every severity from least to most severe.
func Severities() []Severity {
	return []Severity{Info, Warning, Error}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Result is one finding. Path is the location of the node the finding was
// raised for; validators leave it empty and the engine fills it in.
type Result struct {
	Type     Type     `json:"type"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Path     string   `json:"path,omitempty"`
}

func (r Result) String() string {
	if r.Path == "" {
		return fmt.Sprintf("%s [%s] %s", r.Severity, r.Type, r.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", r.Severity, r.Type, r.Path, r.Message)
}

// collector accumulates the findings of one validator.
type collector struct {
	typ     Type
	results []Result
}

func newCollector(t Type) *collector {
	return &collector{typ: t}
}

func (c *collector) add(sev Severity, format string, args ...any) {
	c.results = append(c.results, Result{Type: c.typ, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) errorf(format string, args ...any)   { c.add(Error, format, args...) }
func (c *collector) warningf(format string, args ...any) { c.add(Warning, format, args...) }
func (c *collector) infof(format string, args ...any)    { c.add(Info, format, args...) }
