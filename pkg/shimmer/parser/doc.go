// Package parser turns a raw Shimmer line into a message.ParsedMessage.
//
// Parsing happens in two steps. The container (left of the first '→') is
// split into a 2-rune routing prefix, a 1-rune action code and a metadata
// tail. Each metadata family of the selected grammar is then matched
// independently over the tail, so a substring that fits two families is
// reported in both. This is an extraction, not a left-to-right tokenizer.
//
// The vector (right of the arrow) is decoded by DecodeVector into 4 or 5
// numbers that keep their written text for quantization checks.
//
// Neither step returns an error. Problems are recorded as diagnostics and
// whatever could be recovered is still returned:
//
//	msg := parser.New(grammar.V1_1).Parse("ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]")
//	if !msg.OK() {
//	    fmt.Println(msg.ErrorCodes())
//	}
//
// Only U+2192 separates container and vector. ASCII "->" and escaped forms
// are left to normalization in package gloss.
package parser
