// Package splitratio provides the ratio bookkeeping shared by the
// Traditional and BSP layout systems: equal-split initialization,
// normalization, and a minimum-clamped adjustment between two adjacent
// shares. Grounded directly in the teacher's internal/layout/splits.go
// (MinimumRatio, AdjustSplitRatio, NormalizeRatios,
// RecalculateSplitsAfterRemoval/Addition), generalized from a flat
// per-cell ratio list into the building block both tree-shaped layout
// systems use at every split node.
package splitratio

import "fmt"

// Equal returns n equal shares summing to 1.0.
func Equal(n int) []float64 {
	if n <= 0 {
		return nil
	}
	share := 1.0 / float64(n)
	out := make([]float64, n)
	for i := range out {
		out[i] = share
	}
	return out
}

// Normalize rescales ratios so they sum to exactly 1.0.
func Normalize(ratios []float64) []float64 {
	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	if sum == 0 {
		return Equal(len(ratios))
	}
	out := make([]float64, len(ratios))
	for i, r := range ratios {
		out[i] = r / sum
	}
	return out
}

// Adjust moves delta share from ratios[index+1] to ratios[index] (or
// the reverse for negative delta), clamped so neither falls below
// minShare, then renormalizes.
func Adjust(ratios []float64, index int, delta, minShare float64) ([]float64, error) {
	if len(ratios) < 2 {
		return ratios, fmt.Errorf("need at least 2 shares to adjust a split")
	}
	if index < 0 || index >= len(ratios)-1 {
		return ratios, fmt.Errorf("invalid split index %d", index)
	}

	out := make([]float64, len(ratios))
	copy(out, ratios)

	first := out[index] + delta
	second := out[index+1] - delta

	if first < minShare {
		second = out[index+1] + (out[index] - minShare)
		first = minShare
	}
	if second < minShare {
		first = out[index] + (out[index+1] - minShare)
		second = minShare
	}

	out[index] = first
	out[index+1] = second
	return Normalize(out), nil
}

// AfterRemoval distributes the removed index's share equally across the
// remaining shares.
func AfterRemoval(ratios []float64, removed int) []float64 {
	if len(ratios) <= 1 {
		return []float64{1.0}
	}
	if removed < 0 || removed >= len(ratios) {
		return ratios
	}

	lost := ratios[removed]
	out := make([]float64, 0, len(ratios)-1)
	for i, r := range ratios {
		if i != removed {
			out = append(out, r)
		}
	}
	bonus := lost / float64(len(out))
	for i := range out {
		out[i] += bonus
	}
	return Normalize(out)
}

// AfterInsertion gives a new share at newIndex, scaling the existing
// shares proportionally to make room.
func AfterInsertion(ratios []float64, newIndex int) []float64 {
	oldCount := len(ratios)
	if oldCount == 0 {
		return []float64{1.0}
	}
	newCount := oldCount + 1
	newShare := 1.0 / float64(newCount)
	scale := 1.0 - newShare

	out := make([]float64, newCount)
	for i, r := range ratios {
		dest := i
		if i >= newIndex {
			dest = i + 1
		}
		out[dest] = r * scale
	}
	out[newIndex] = newShare
	return out
}
