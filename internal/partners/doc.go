// Package partners is a small GraphQL client for the partners API. It backs
// the remote specification catalog used by the registry.
//
// Transport retries come from go-retryablehttp; resty handles request
// building and JSON decoding.
package partners
