package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"
	"shimmer-hq/shimmer/pkg/shimmer/message"
)

// Allowed vector lengths.
const (
	MinAxes = 4
	MaxAxes = 5
)

// DecodeVector decodes the bracketed list right of the arrow. It is
// all-or-nothing: on failure the returned Vector keeps only Raw and the
// diagnostic says why.
func DecodeVector(text string) (message.Vector, *shimmerErrors.Diagnostic) {
	vec := message.Vector{Raw: text}

	if !strings.HasPrefix(text, "[") || !strings.HasSuffix(text, "]") || len(text) < 2 {
		return vec, vectorDiag(shimmerErrors.CodeBracketsMissing,
			"vector must be wrapped in '[' and ']'", text)
	}

	numbers := make([]message.Number, 0, MaxAxes)
	for _, part := range strings.Split(text[1:len(text)-1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := parseNumber(part)
		if err != nil {
			return vec, vectorDiag(shimmerErrors.CodeVectorParse,
				fmt.Sprintf("element %q is not a number", part), part)
		}
		numbers = append(numbers, message.Number{Value: value, Text: part})
	}

	if len(numbers) < MinAxes || len(numbers) > MaxAxes {
		return vec, vectorDiag(shimmerErrors.CodeVectorArity,
			fmt.Sprintf("vector has %d elements, want %d or %d", len(numbers), MinAxes, MaxAxes), text)
	}

	vec.Numbers = numbers
	return vec, nil
}

// parseNumber accepts decimal float literals, including inf and nan.
// Magnitudes beyond float64 saturate instead of failing; hex literals are
// rejected.
func parseNumber(s string) (float64, error) {
	unsigned := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X") {
		return 0, fmt.Errorf("hex literal %q", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && errors.Is(err, strconv.ErrRange) {
		return v, nil
	}
	return v, err
}

func vectorDiag(code shimmerErrors.Code, msg, fragment string) *shimmerErrors.Diagnostic {
	return &shimmerErrors.Diagnostic{
		Code:     code,
		Severity: code.Severity(),
		Message:  msg,
		Fragment: fragment,
	}
}
