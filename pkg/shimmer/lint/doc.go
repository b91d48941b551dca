// Package lint scores Shimmer lines for compactness.
//
// Scoring starts at 100 and deducts per issue, flooring at 0:
//
//	spaces_in_container      -20  any whitespace left of the arrow
//	invalid_action_code      -10  3rd rune is not an action code (C is invalid)
//	uppercase_action         -10  3rd rune is an uppercase code other than P
//	verbose_token:<t>        -10  each letters-only run longer than 24
//	axis>1dp                  -5  each axis 0-3 written with 2+ decimals
//	conf>2dp                  -3  confidence written with 3+ decimals
//
// A line without '→' scores 0 with the single issue missing_arrow.
//
// Lint deductions are cumulative per element, unlike the validator which
// raises one aggregate warning.
package lint
