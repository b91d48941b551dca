// Package validator checks parsed Shimmer messages and reports ok, errors,
// warnings and parity.
//
// Validation runs in passes, each accumulating into one diagnostic list:
//
//  1. Parse diagnostics are carried over from the parser.
//  2. Range: axes 0-3 in [-1, 1], confidence in [0, 1], with a 1e-9
//     tolerance. Any violation yields one vector_out_of_range error.
//  3. Quantization: axes 0-3 written with more than 1 decimal digit and
//     confidence with more than 2 yield warnings. The written literal is
//     inspected, so "0.50" warns although it equals 0.5.
//
// Passes 2 and 3 only run when parsing succeeded and a vector was decoded.
//
// Parity is informative and never affects OK. Let sum be the total of
// round(10*axis) for axes 0-3 and round(100*confidence), halves to even:
//
//	t9  = sum mod 4
//	p2b = (sha256(container)[0] XOR (sum mod 256)) mod 4
package validator
