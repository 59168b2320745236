// Package domain translates MCP tool calls into ladder game operations.
//
// Every tool handler follows the same path: open a span, run the operation
// against the session registry or result store, and map the outcome into a
// JSON-friendly result. Rejections carry a machine code and a message
// rendered in the caller's locale.
package domain
