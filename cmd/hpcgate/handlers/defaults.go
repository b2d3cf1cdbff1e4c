package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/imamik/hpcgate/internal/config"
	"github.com/imamik/hpcgate/internal/model"
)

// Defaults writes the resolved cluster document. With includeImplied the
// defaults filled in by the resource model are written too.
func Defaults(ctx context.Context, out io.Writer, source string, includeImplied bool) error {
	cluster, err := buildCluster(ctx, source, config.LoadSettings())
	if err != nil {
		return err
	}
	data, err := model.Export(cluster, includeImplied)
	if err != nil {
		return fmt.Errorf("failed to export cluster document: %w", err)
	}
	_, err = out.Write(data)
	return err
}
