// Package api is the HTTP client for the Quill blogging backend. It
// wraps the backend's fixed page/limit/total listing contract, the
// auth endpoints, and a file-backed response cache for GET requests.
package api
