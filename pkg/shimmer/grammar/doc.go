// Package grammar holds the versioned Shimmer pattern tables.
//
// A Shimmer line looks like
//
//	<routing:2><action:1><metadata*><τdigits?><deliverable*>→[v0,v1,v2,v3(,v4)]
//
// Each revision of the grammar is a *Grammar value carrying one compiled
// pattern per metadata family plus the patterns the linter and symbolizer
// need. Callers pick a revision explicitly:
//
//	g, err := grammar.Lookup("1.1")
//	tokens := g.Extract("rn01s:ab12f06")
//
// # Versions
//
// 1.0 is the original container grammar and the default. 1.1 narrows session
// identifiers to lowercase base36 (s:[0-9a-z]+).
//
// # Family extraction
//
// Families are matched independently and may overlap; a substring that fits
// two families is reported under both. There is no precedence between
// families and none should be inferred.
//
// All character classes are ASCII (\d is [0-9], \w is [0-9A-Za-z_]).
package grammar
