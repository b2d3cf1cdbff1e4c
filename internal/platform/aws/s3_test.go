package aws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testS3Client creates an S3Client backed by a test HTTP server.
// The handler receives real S3 REST requests.
func testS3Client(t *testing.T, handler http.Handler) *S3Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient:   &http.Client{Transport: &http.Transport{}},
	})
	return &S3Client{s3: client}
}

func TestParseS3URI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uri        string
		wantBucket string
		wantKey    string
		wantErr    bool
	}{
		{"s3://configs/cluster.yaml", "configs", "cluster.yaml", false},
		{"s3://configs/team/a/cluster.yaml", "configs", "team/a/cluster.yaml", false},
		{"s3://configs", "", "", true},
		{"s3://configs/", "", "", true},
		{"s3:///cluster.yaml", "", "", true},
		{"https://configs/cluster.yaml", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			t.Parallel()
			bucket, key, err := ParseS3URI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBucket, bucket)
			assert.Equal(t, tt.wantKey, key)
		})
	}
}

func TestS3Client_ReadURI(t *testing.T) {
	t.Parallel()

	body := "Image:\n  Os: alinux2\n"
	client := testS3Client(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/configs/team/cluster.yaml" {
			w.Header().Set("Content-Type", "application/yaml")
			_, _ = w.Write([]byte(body))
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
	}))

	data, err := client.ReadURI(context.Background(), "s3://configs/team/cluster.yaml")
	require.NoError(t, err)
	assert.Equal(t, body, string(data))

	_, err = client.ReadURI(context.Background(), "s3://configs/missing.yaml")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, strings.Contains(err.Error(), "not found in bucket configs"))
}

func TestS3Client_ReadURI_InvalidURI(t *testing.T) {
	t.Parallel()

	client := &S3Client{}
	_, err := client.ReadURI(context.Background(), "s3://bucket-only")
	assert.ErrorContains(t, err, "expected s3://bucket/key")
}
