// Package s3fetch provides a preload.Retriever for s3:// and s3a:// locations.
//
// The "s3_" scoped configuration is handed to a ClientFactory that builds a Store.
// The default factory uses minio-go and understands access_key, secret_key,
// session_token, region, endpoint_override, scheme and path_style.
package s3fetch
