package s3fetch

// Option configures a Retriever.
type Option func(*Retriever)

// WithClientFactory replaces the Store constructor. If f is nil, the default is left unchanged.
func WithClientFactory(f ClientFactory) Option {
	return func(r *Retriever) {
		if f != nil {
			r.newStore = f
		}
	}
}
