// Shimmer validates, lints, symbolizes and glosses lines of the Shimmer
// micro-format, the compact routing/action/vector messages exchanged
// between agents.
//
// Usage:
//
//	# Validate one message
//	shimmer validate 'ABPrn01τ300f06→[0.5,0.9,0.1,0.9,0.96]'
//
//	# Lint a stream and fail below a score
//	shimmer lint --file messages.shm --min-score 80
//
//	# Rewrite verbose ctag runs
//	shimmer symbolize notes.txt
//
//	# Serve the HTTP API
//	shimmer serve --config shimmer.yaml
//
//	# Query the audit trail
//	shimmer audit query --ok=false --since 24h
package main

func main() {
	Execute()
}
