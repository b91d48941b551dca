package validator

import (
	"fmt"
	"strings"

	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"
	"shimmer-hq/shimmer/pkg/shimmer/message"
)

// QuantizationChecker enforces the transmission precision of each axis.
// It reads the written literal, not the parsed value.
type QuantizationChecker struct {
	AxisMaxDecimals       int
	ConfidenceMaxDecimals int
}

// NewQuantizationChecker creates a checker allowing 1 decimal on axes 0-3
// and 2 on confidence.
func NewQuantizationChecker() *QuantizationChecker {
	return &QuantizationChecker{
		AxisMaxDecimals:       1,
		ConfidenceMaxDecimals: 2,
	}
}

// Check adds at most one warning per code; the message names every
// offending axis.
func (c *QuantizationChecker) Check(vec message.Vector, diags *shimmerErrors.List) {
	var axes []string
	for i, n := range vec.Numbers {
		if i == message.ConfidenceAxis {
			break
		}
		if n.Decimals() > c.AxisMaxDecimals {
			axes = append(axes, fmt.Sprintf("%s=%s", message.AxisNames[i], n.Text))
		}
	}
	if len(axes) > 0 {
		diags.AddCodeWithSuggestion(shimmerErrors.CodeAxisPrecision,
			fmt.Sprintf("more than %d decimal digit: %s", c.AxisMaxDecimals, strings.Join(axes, ", ")),
			vec.Raw,
			fmt.Sprintf("round axes 0-3 to %d decimal place", c.AxisMaxDecimals))
	}

	if vec.HasConfidence() {
		conf := vec.Numbers[message.ConfidenceAxis]
		if conf.Decimals() > c.ConfidenceMaxDecimals {
			diags.AddCodeWithSuggestion(shimmerErrors.CodeConfidencePrecision,
				fmt.Sprintf("confidence %s has more than %d decimal digits", conf.Text, c.ConfidenceMaxDecimals),
				conf.Text,
				fmt.Sprintf("round confidence to %d decimal places", c.ConfidenceMaxDecimals))
		}
	}
}
