// Package shimmer is the entry point to the Shimmer codec.
//
// Shimmer is a single-line encoding for agent-to-agent messages:
//
//	<routing><action><metadata*><τdigits?><deliverable*>→[v0,v1,v2,v3(,v4)]
//
// for example
//
//	ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]
//
// routes from A to B, plans (P) run rn01 with a 300 second deadline and
// deliverable f06, and carries the Action, Subject, Context, Urgency and
// Confidence axes.
//
// A Codec ties together the sub-packages for one grammar version:
//
//   - parser: container and vector decoding (package parser)
//   - validator: range, quantization and parity (package validator)
//   - linter: compactness score (package lint)
//   - symbolizer: ctag rewriting (package symbolize)
//
// The package-level functions use the default grammar:
//
//	report := shimmer.Check(line)
//	if !report.OK {
//	    fmt.Println(report.Errors)
//	}
//
// None of these calls fail. Malformed input yields a result whose diagnostic
// lists say what is wrong.
package shimmer
