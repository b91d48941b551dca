package errors

import (
	"fmt"
	"strings"
)

// SuggestName suggests the closest valid name for an unknown one.
// It uses Levenshtein distance over runes.
func SuggestName(unknown string, valid []string) string {
	if len(valid) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, name := range valid {
		dist := levenshteinDistance(unknown, name)
		if dist < minDistance {
			minDistance = dist
			bestMatch = name
		}
	}

	// Only suggest if the distance is reasonable
	if minDistance < 3 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	return fmt.Sprintf("Valid values: %s", strings.Join(valid, ", "))
}

// SuggestAction suggests a fix for an invalid action rune. repaired is the
// ASCII code the rune is commonly confused with, or 0 if none.
func SuggestAction(found, repaired rune, codes string) string {
	if repaired != 0 {
		return fmt.Sprintf("Did you mean '%c'? %q looks like it but is U+%04X", repaired, found, found)
	}
	return fmt.Sprintf("Action must be one of: %s", strings.Join(strings.Split(codes, ""), ", "))
}

// levenshteinDistance computes the edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if a == b {
		return 0
	}

	s1 := []rune(a)
	s2 := []rune(b)
	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
