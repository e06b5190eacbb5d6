// Command pizzahunt is the command-line client for pizzahuntd.
//
// It browses and edits pizzas, comments and replies over the REST API.
// Pizzas created while the server is unreachable are saved in the local
// offline store; "pizzahunt agent" submits them when connectivity returns and
// "pizzahunt queue" inspects or flushes them by hand.
package main
