package httpfetch

import "net/http"

// Option configures a Retriever.
type Option func(*Retriever)

// WithHTTPClient sets the HTTP client. If c is nil, the default client is left unchanged.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Retriever) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithUserAgent sets the default User-Agent. A "User-Agent" entry in http_headers still wins.
func WithUserAgent(ua string) Option {
	return func(r *Retriever) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}
