// Package cache provides a file-backed response cache with TTL expiry.
// The API client stores GET response bodies here, keyed by a digest of
// the request URL, so repeated listing commands don't re-fetch pages
// that were seen moments ago.
package cache
