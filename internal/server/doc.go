// Package server exposes the pizza catalog over HTTP.
//
// Routes are registered on a chi router. Every response body is JSON;
// failures are reported as {"message": "..."} the way browser and offline
// clients expect.
package server
