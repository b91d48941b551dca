// Package types defines the request, response and error bodies of the
// Shimmer HTTP API.
//
// Every /v1 operation takes a LinesRequest:
//
//	{"line": "ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]"}
//	{"lines": ["XYaf07→[0.0,0.2,0.0,0.1,0.95]", "just some text"]}
//
// A single line is answered with its result object; a list is answered
// with a LinesResponse. Errors use ErrorResponse:
//
//	{"error": {"message": "...", "type": "invalid_request_error", "code": "invalid_json"}}
package types
