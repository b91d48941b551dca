package validator

import (
	"fmt"
	"strings"

	shimmerErrors "shimmer-hq/shimmer/pkg/shimmer/errors"
	"shimmer-hq/shimmer/pkg/shimmer/message"
)

// RangeTolerance absorbs float round-trip noise at the range bounds.
const RangeTolerance = 1e-9

// RangeChecker verifies every axis lies within its bounds.
type RangeChecker struct {
	AxisMin, AxisMax             float64
	ConfidenceMin, ConfidenceMax float64
	Tolerance                    float64
}

// NewRangeChecker creates a checker with the standard bounds:
// [-1, 1] for axes 0-3 and [0, 1] for confidence.
func NewRangeChecker() *RangeChecker {
	return &RangeChecker{
		AxisMin:       -1,
		AxisMax:       1,
		ConfidenceMin: 0,
		ConfidenceMax: 1,
		Tolerance:     RangeTolerance,
	}
}

// Check adds a single vector_out_of_range error when any axis is outside
// its bounds. NaN is never in range.
func (c *RangeChecker) Check(vec message.Vector, diags *shimmerErrors.List) {
	var bad []string
	for i, n := range vec.Numbers {
		lo, hi := c.AxisMin, c.AxisMax
		if i == message.ConfidenceAxis {
			lo, hi = c.ConfidenceMin, c.ConfidenceMax
		}
		if !c.inRange(n.Value, lo, hi) {
			bad = append(bad, fmt.Sprintf("%s=%s", message.AxisNames[i], n.Text))
		}
	}

	if len(bad) > 0 {
		diags.AddCode(shimmerErrors.CodeOutOfRange,
			fmt.Sprintf("axis out of range: %s", strings.Join(bad, ", ")),
			vec.Raw)
	}
}

func (c *RangeChecker) inRange(x, lo, hi float64) bool {
	return x >= lo-c.Tolerance && x <= hi+c.Tolerance
}
