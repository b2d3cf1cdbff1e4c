package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/imamik/hpcgate/internal/config"
	awsplatform "github.com/imamik/hpcgate/internal/platform/aws"
)

// StdinSource reads the cluster document from standard input.
const StdinSource = "-"

// Factories for cloud access, overridable in tests.
var (
	stdin io.Reader = os.Stdin

	readS3Object = func(ctx context.Context, settings *config.Settings, uri string) ([]byte, error) {
		cfg, err := awsplatform.LoadConfig(ctx, awsOptions(settings))
		if err != nil {
			return nil, err
		}
		return awsplatform.NewS3Client(cfg).ReadURI(ctx, uri)
	}
)

func awsOptions(settings *config.Settings) awsplatform.ConfigOptions {
	return awsplatform.ConfigOptions{
		Region:          settings.Region,
		Endpoint:        settings.Endpoint,
		AccessKeyID:     settings.AccessKeyID,
		SecretAccessKey: settings.SecretAccessKey,
	}
}

// loadDocument reads the cluster document from a local path, stdin or an
// s3:// URI. An empty source selects the default file name.
func loadDocument(ctx context.Context, source string, settings *config.Settings) (*config.Document, error) {
	switch {
	case source == StdinSource:
		return config.Load(stdin)
	case awsplatform.IsS3URI(source):
		data, err := readS3Object(ctx, settings, source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", source, err)
		}
		return config.Parse(data)
	case source == "":
		source = config.DefaultDocumentFilename
	}
	return config.LoadFile(source)
}
