// Package symbolize rewrites verbose ctag metadata into dense symbol codes.
//
// A ctag run starts at "ctag." and stops before the first 'τ', '→' or '['.
// Its body is split on ':' and '_' into lowercase keywords, and each rule
// that finds one of its trigger words appends a code:
//
//	status          failed → ctag.σ:✗, else urgent → ctag.σ:‼,
//	                else ready|ack → ctag.σ:✓
//	loop            loop|loops|looping|pending → ctag.σ:⟳
//	implementation  ctag.μ:rep_fix if rep|repetition|fix, else ctag.μ:impl
//	knowledge       ctag.κ:params, ctag.κ:arch or ctag.κ:params:arch
//
// For example
//
//	ctag.status:failed_loop_fix  →  ctag.σ:✗ctag.σ:⟳ctag.μ:rep_fix
//
// A run no rule fires on is left as is, and so is a run that is already
// symbolic (its body starts with σ:, μ: or κ:). Rewriting a line twice
// therefore gives the same result as rewriting it once.
package symbolize
