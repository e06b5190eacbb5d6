// Package remote is the HTTP client for a pizzahuntd server.
//
// CreatePizzas is the call the offline queue relies on. Its outcome is a
// Result that is decided from the response body alone: a JSON body without a
// "message" field is success, anything else is failure. Transport errors are
// returned as errors wrapping ErrUnreachable so callers can tell "the server
// said no" apart from "the server could not be reached".
//
// The remaining methods back the pizzahunt CLI and map non-2xx responses to
// *APIError.
package remote
