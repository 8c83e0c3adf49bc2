// Package httpfetch provides a preload.Retriever for http:// and https:// locations.
// Settings are read from the "http_" scoped configuration: method, headers, params,
// timeout, bearer_token and max_body_bytes.
package httpfetch
