// Package catalog persists pizzas and their comments in SQLite.
//
// Pizzas keep an ordered array of comment ids; replies live inside their
// comment document and carry their own replyId for targeted removal. Every
// operation that touches both a pizza and a comment runs in one transaction so
// the id array on the pizza always mirrors the comment rows that exist.
//
// Text fields are NFC-normalized and trimmed before validation. Ids are UUIDv7
// strings, so ordering by id yields creation order.
package catalog
