package s3fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/skosovsky/preload"
)

// defaultEndpoint is used when endpoint_override is not set.
const defaultEndpoint = "s3.amazonaws.com"

// ErrInvalidPath indicates a path without both a bucket and an object key.
var ErrInvalidPath = errors.New("s3fetch: path must be bucket/key")

// ClientOptions are the client settings understood by NewMinioStore.
type ClientOptions struct {
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	SessionToken     string `mapstructure:"session_token"`
	Region           string `mapstructure:"region"`
	EndpointOverride string `mapstructure:"endpoint_override"`
	Scheme           string `mapstructure:"scheme"`
	PathStyle        bool   `mapstructure:"path_style"`
}

// endpoint returns host[:port] and whether TLS is used.
// endpoint_override may carry its own scheme (e.g. "http://localhost:9000").
func (o ClientOptions) endpoint() (string, bool, error) {
	host := o.EndpointOverride
	scheme := strings.ToLower(o.Scheme)
	if strings.Contains(host, "://") {
		u, err := url.Parse(host)
		if err != nil || u.Host == "" {
			return "", false, fmt.Errorf("%w: invalid endpoint_override %q", preload.ErrConfig, o.EndpointOverride)
		}
		host, scheme = u.Host, u.Scheme
	}
	if host == "" {
		host = defaultEndpoint
	}
	switch scheme {
	case "", "https":
		return host, true, nil
	case "http":
		return host, false, nil
	default:
		return "", false, fmt.Errorf("%w: unsupported scheme %q", preload.ErrConfig, scheme)
	}
}

func (o ClientOptions) credentials() *credentials.Credentials {
	if o.AccessKey != "" {
		return credentials.NewStaticV4(o.AccessKey, o.SecretKey, o.SessionToken)
	}
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.FileAWSCredentials{},
	})
}

// MinioStore is a Store backed by a minio-go client.
type MinioStore struct {
	client *minio.Client
}

var _ Store = (*MinioStore)(nil)

// NewMinioStore is the default ClientFactory.
func NewMinioStore(_ context.Context, opts map[string]any) (Store, error) {
	var o ClientOptions
	if err := preload.Decode(opts, &o); err != nil {
		return nil, err
	}
	host, secure, err := o.endpoint()
	if err != nil {
		return nil, err
	}
	lookup := minio.BucketLookupAuto
	if o.PathStyle {
		lookup = minio.BucketLookupPath
	}
	client, err := minio.New(host, &minio.Options{
		Creds:        o.credentials(),
		Secure:       secure,
		Region:       o.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{client: client}, nil
}

// Open returns a lazy object stream; request errors surface on first Read.
func (s *MinioStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, key, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	return s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
}

func splitPath(path string) (string, string, error) {
	bucket, key, ok := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return bucket, key, nil
}
