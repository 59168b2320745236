// Package service wires MCP transports to the ladder tool handlers.
//
// It knows how to run MCP over stdio or streamable HTTP and delegates game
// meaning to the handlers in the sibling domain package.
package service
