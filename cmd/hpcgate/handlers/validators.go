package handlers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/imamik/hpcgate/internal/report"
	"github.com/imamik/hpcgate/internal/validation"
)

// ListValidators writes the validator type names accepted by --suppress.
func ListValidators(out io.Writer, jsonOutput bool) error {
	names := make([]string, 0)
	for _, t := range validation.NewRegistry().Types() {
		names = append(names, t.String())
	}

	if jsonOutput {
		b, err := json.MarshalIndent(names, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(b))
		return err
	}

	for _, n := range names {
		if _, err := fmt.Fprintln(out, n); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(out, "\nUse %q to suppress every validator.\n", report.SuppressAllToken)
	return err
}
