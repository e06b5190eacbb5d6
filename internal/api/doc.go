// Package api defines wire-format types and converters for the pizzahunt HTTP
// API. It translates catalog models into transport-friendly DTOs that the CLI,
// the offline agent and browser clients share without coupling to storage
// types.
//
// # Key Types
//
// Pizza: transport representation of a pizza with its comments populated.
//
// Comment/Reply: comment documents with nested replies and a derived
// replyCount.
//
// PizzaRequest/CommentRequest/ReplyRequest: request bodies. PizzaRequest uses
// pointer fields so updates replace only the fields that were sent.
//
// MessageResponse: the {"message": ...} body used for every error. Clients
// treat the presence of a message field as failure.
//
// # Services
//
// PizzaService and CommentService wrap the catalog store and return DTOs.
//
// # Design Notes
//
// DTOs use camelCase JSON tags and "_id" for document identifiers so existing
// browser clients keep working. Timestamps use RFC3339 with milliseconds.
package api
