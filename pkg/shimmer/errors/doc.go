// Package errors provides the diagnostic types shared by the Shimmer parser,
// validator and tooling.
//
// Every problem found in a line is a *Diagnostic carrying a stable Code. The
// codec never returns Go errors for malformed input; it accumulates
// diagnostics in a List and hands back a best-effort result, so that one pass
// reports all problems with a line.
//
// # Codes
//
// Errors (fatal to a message's ok status):
//
//	missing_arrow_separator  bad_routing_prefix  bad_action_code
//	bad_temporal_number      vector_brackets_missing
//	vector_parse_error       vector_arity_not_4_or_5
//	vector_out_of_range
//
// Warnings (advisory):
//
//	vector_axis_more_than_1dp  confidence_more_than_2dp
//
// # Usage
//
//	diags := errors.NewList()
//	diags.AddCode(errors.CodeBadAction, "action 'x' is not one of cpaqPe", "x")
//	if diags.HasErrors() {
//	    fmt.Println(diags.ErrorCodes())
//	}
//
// # Suggestions
//
// SuggestName offers the closest valid name by edit distance; SuggestAction
// explains look-alike action runes such as the Greek epsilon.
package errors
