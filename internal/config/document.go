package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/imamik/hpcgate/internal/util/naming"
)

// DefaultDocumentFilename is the cluster file looked up when none is given.
const DefaultDocumentFilename = "cluster-config.yaml"

// Problem is a single schema violation.
type Problem struct {
	Path    string
	Line    int
	Message string
}

func (p Problem) String() string {
	var b strings.Builder
	if p.Path != "" {
		b.WriteString(p.Path)
		b.WriteString(": ")
	}
	b.WriteString(p.Message)
	if p.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", p.Line)
	}
	return b.String()
}

// SchemaError reports a document that does not match the schema. It aborts a
// run before any validator executes.
type SchemaError struct {
	Problems []Problem
}

func (e *SchemaError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid cluster document: " + e.Problems[0].String()
	}
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = "  - " + p.String()
	}
	return fmt.Sprintf("invalid cluster document (%d problems):\n%s", len(e.Problems), strings.Join(msgs, "\n"))
}

// IsSchemaError reports whether err is or wraps a *SchemaError.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// LoadFile reads and decodes a cluster document from a file.
func LoadFile(path string) (*Document, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster file: %w", err)
	}
	return Parse(data)
}

// Load reads and decodes a cluster document from r.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster document: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML or JSON cluster document. Unknown keys and type
// mismatches are reported as a *SchemaError.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &SchemaError{Problems: []Problem{{Message: fmt.Sprintf("malformed document: %v", err)}}}
	}
	if len(root.Content) == 0 {
		return nil, &SchemaError{Problems: []Problem{{Message: "document is empty"}}}
	}

	var problems []Problem
	checkKeys(&root, reflect.TypeOf(Document{}), naming.Root, &problems)
	if len(problems) > 0 {
		return nil, &SchemaError{Problems: problems}
	}

	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			for _, msg := range typeErr.Errors {
				problems = append(problems, Problem{Message: msg})
			}
			return nil, &SchemaError{Problems: problems}
		}
		return nil, &SchemaError{Problems: []Problem{{Message: err.Error()}}}
	}

	return &doc, nil
}

// checkKeys walks the node tree against the Go schema type and records every
// mapping key that has no corresponding field.
func checkKeys(n *yaml.Node, t reflect.Type, path string, problems *[]Problem) {
	if n.Kind == yaml.DocumentNode {
		for _, c := range n.Content {
			checkKeys(c, t, path, problems)
		}
		return
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		if n.Kind != yaml.MappingNode {
			return
		}
		fields := schemaFields(t)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			ft, ok := fields[key.Value]
			if !ok {
				*problems = append(*problems, unknownKey(path, key, fields))
				continue
			}
			checkKeys(val, ft, naming.Join(path, key.Value), problems)
		}
	case reflect.Slice:
		if n.Kind != yaml.SequenceNode {
			return
		}
		for i, item := range n.Content {
			checkKeys(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i), problems)
		}
	}
}

func unknownKey(path string, key *yaml.Node, fields map[string]reflect.Type) Problem {
	msg := fmt.Sprintf("unknown field %q", key.Value)
	if s := suggest(key.Value, fields); s != "" {
		msg += fmt.Sprintf(", did you mean %q?", s)
	}
	return Problem{Path: path, Line: key.Line, Message: msg}
}

// suggest returns the closest known field name, or "" if none is close enough.
func suggest(name string, fields map[string]reflect.Type) string {
	candidates := make([]string, 0, len(fields))
	for f := range fields {
		candidates = append(candidates, f)
	}
	sort.Strings(candidates)

	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

// schemaFields maps yaml keys of a struct type to their field types,
// flattening inline fields.
func schemaFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			continue
		}
		if strings.Contains(opts, "inline") {
			for k, v := range schemaFields(f.Type) {
				fields[k] = v
			}
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		fields[name] = f.Type
	}
	return fields
}

// FieldNames returns the sorted top-level keys of the document schema.
func FieldNames() []string {
	fields := schemaFields(reflect.TypeOf(Document{}))
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
