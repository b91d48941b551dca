package gloss

import (
	"strings"

	"shimmer-hq/shimmer/pkg/shimmer/grammar"
)

// arrowVariants are spellings of the separator that producers emit instead
// of U+2192. Order matters: the escaped form contains the bare one.
var arrowVariants = strings.NewReplacer(
	"\\u2192", grammar.ArrowString,
	"u2192", grammar.ArrowString,
	"->", grammar.ArrowString,
)

// Normalize cleans up producer output into strict Shimmer text. It strips a
// surrounding code fence, maps arrow variants to '→', removes spaces from the
// container and trims the vector. Text without any arrow is returned
// trimmed but otherwise untouched.
func Normalize(line string) string {
	text := strings.TrimSpace(line)
	if text == "" {
		return text
	}

	if strings.HasPrefix(text, "```") {
		text = strings.Trim(text, "`")
		text = strings.ReplaceAll(text, "json\n", "")
		text = strings.ReplaceAll(text, "JSON\n", "")
	}

	text = arrowVariants.Replace(text)

	left, right, found := strings.Cut(text, grammar.ArrowString)
	if !found {
		return strings.TrimSpace(text)
	}
	left = strings.TrimSpace(strings.ReplaceAll(left, " ", ""))
	return left + grammar.ArrowString + strings.TrimSpace(right)
}

// ExtractContainerLine returns the first line of text that looks like a
// Shimmer message, or the whole text trimmed if none does.
func ExtractContainerLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, grammar.ArrowString+"[") && strings.Contains(line, "]") {
			return strings.TrimSpace(line)
		}
	}
	return strings.TrimSpace(text)
}

// RepairAction replaces a look-alike action rune (Greek epsilon, Cyrillic a
// and so on) with its ASCII code. It reports whether anything changed.
func RepairAction(container string) (string, bool) {
	runes := []rune(container)
	if len(runes) < 3 || grammar.IsAction(runes[2]) {
		return container, false
	}
	fixed, ok := grammar.RepairRune(runes[2])
	if !ok {
		return container, false
	}
	runes[2] = fixed
	return string(runes), true
}

// Repair normalizes a line and then repairs its action rune.
func Repair(line string) (string, bool) {
	normalized := Normalize(line)
	left, right, found := strings.Cut(normalized, grammar.ArrowString)
	if !found {
		return normalized, normalized != line
	}
	fixed, repaired := RepairAction(left)
	out := fixed + grammar.ArrowString + right
	return out, repaired || out != line
}
