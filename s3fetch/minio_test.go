package s3fetch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/preload"
)

func TestClientOptions_Endpoint(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		opts       ClientOptions
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{"default", ClientOptions{}, "s3.amazonaws.com", true, false},
		{"override host", ClientOptions{EndpointOverride: "minio:9000", Scheme: "http"}, "minio:9000", false, false},
		{"override url", ClientOptions{EndpointOverride: "http://localhost:9000"}, "localhost:9000", false, false},
		{"https url", ClientOptions{EndpointOverride: "https://storage.example.com"}, "storage.example.com", true, false},
		{"bad scheme", ClientOptions{Scheme: "ftp"}, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			host, secure, err := tt.opts.endpoint()
			if tt.wantErr {
				require.ErrorIs(t, err, preload.ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHost, host)
			assert.Equal(t, tt.wantSecure, secure)
		})
	}
}

func TestNewMinioStore(t *testing.T) {
	t.Parallel()
	store, err := NewMinioStore(context.Background(), map[string]any{
		"region":            "us-east-1",
		"access_key":        "AKIA",
		"secret_key":        "secret",
		"endpoint_override": "http://localhost:9000",
		"path_style":        "true",
	})
	require.NoError(t, err)
	ms, ok := store.(*MinioStore)
	require.True(t, ok)
	assert.Equal(t, "localhost:9000", ms.client.EndpointURL().Host)
	assert.Equal(t, "http", ms.client.EndpointURL().Scheme)
}

func TestNewMinioStore_BadOptions(t *testing.T) {
	t.Parallel()
	_, err := NewMinioStore(context.Background(), map[string]any{"path_style": "maybe"})
	require.ErrorIs(t, err, preload.ErrConfig)
}

func TestSplitPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path       string
		bucket     string
		key        string
		wantErrMsg bool
	}{
		{"bucket/script.sql", "bucket", "script.sql", false},
		{"bucket/dir/script.sql", "bucket", "dir/script.sql", false},
		{"/bucket/k", "bucket", "k", false},
		{"bucket", "", "", true},
		{"bucket/", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			bucket, key, err := splitPath(tt.path)
			if tt.wantErrMsg {
				require.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestMinioStore_OpenInvalidPath(t *testing.T) {
	t.Parallel()
	store, err := NewMinioStore(context.Background(), map[string]any{"access_key": "a", "secret_key": "b"})
	require.NoError(t, err)
	_, err = store.Open(context.Background(), "bucket-only")
	require.ErrorIs(t, err, ErrInvalidPath)
}
