// Package preload resolves preload script locations, fetches their text, renders
// each one as a text/template with caller parameters, and submits the joined
// result to an Executor (typically a database session).
//
// Locations are dispatched by protocol through a Registry of Retrievers. Unknown
// protocols resolve to NopRetriever, which contributes an empty script. Use
// package sources for a Registry preloaded with the HTTP(S) and S3 retrievers.
package preload
