// Package server exposes a parsed specification as a live HTTP API.
//
// Each operation becomes a method+pattern route on a ServeMux. Response
// bodies are produced by the generation engine from the operation's
// response schema; request bodies are validated against the operation's
// schema and failures are reported as RFC 7807 problem details. An
// optional configured delay simulates upstream latency.
package server
