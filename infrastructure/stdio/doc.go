// Package stdio serves an operations registry as MCP tools over stdin and stdout.
//
// Every registered operation becomes one tool whose input schema is the
// operation's schema. Tool calls are dispatched to the registry and the JSON
// response is mapped to a text result; error responses and unsuccessful
// outcomes are flagged as tool errors.
package stdio
