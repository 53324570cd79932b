// Package metrics compares two chain-partitionings of the same temple
// layout — e.g. the chain_id assignment from a solve versus a re-solve
// over its own output (the round-trip idempotence property) — using
// standard partition-comparison statistics. Both statistics are
// invariant to the arbitrary chain label numbering the solver assigns.
package metrics

import "math"

// contingency is the cross-tabulation of two partitions over the same
// cell ordering: cells[i][j] counts positions assigned label i in the
// first partition and label j in the second. rows/cols are the
// marginal sums.
type contingency struct {
	cells [][]int
	rows  []int
	cols  []int
	n     int
}

// crossTabulate builds the contingency table for two equal-length
// label vectors. Labels are arbitrary ints; each distinct value gets
// its own row/column in first-appearance order.
func crossTabulate(a, b []int) contingency {
	aIndex := make(map[int]int)
	bIndex := make(map[int]int)
	for _, l := range a {
		if _, ok := aIndex[l]; !ok {
			aIndex[l] = len(aIndex)
		}
	}
	for _, l := range b {
		if _, ok := bIndex[l]; !ok {
			bIndex[l] = len(bIndex)
		}
	}

	ct := contingency{
		cells: make([][]int, len(aIndex)),
		rows:  make([]int, len(aIndex)),
		cols:  make([]int, len(bIndex)),
		n:     len(a),
	}
	for i := range ct.cells {
		ct.cells[i] = make([]int, len(bIndex))
	}
	for k := range a {
		i, j := aIndex[a[k]], bIndex[b[k]]
		ct.cells[i][j]++
		ct.rows[i]++
		ct.cols[j]++
	}
	return ct
}

// AdjustedRandIndex computes the ARI between two chain_id partitions
// of the same cell ordering:
//
//	ARI = (RI - Expected_RI) / (Max_RI - Expected_RI)
//
// over cell pairs, ranging from -1 (worse than chance) through 0
// (chance agreement) to 1 (identical partitioning).
func AdjustedRandIndex(predicted, groundTruth []int) float64 {
	if len(predicted) != len(groundTruth) || len(predicted) < 2 {
		return 0.0
	}
	ct := crossTabulate(predicted, groundTruth)

	sumCells := 0.0
	for i := range ct.cells {
		for j := range ct.cells[i] {
			sumCells += comb2(ct.cells[i][j])
		}
	}
	sumRows, sumCols := 0.0, 0.0
	for _, r := range ct.rows {
		sumRows += comb2(r)
	}
	for _, c := range ct.cols {
		sumCols += comb2(c)
	}

	pairs := comb2(ct.n)
	if pairs == 0 {
		return 0.0
	}
	expected := (sumRows * sumCols) / pairs
	maxIndex := 0.5 * (sumRows + sumCols)
	denominator := maxIndex - expected
	if math.Abs(denominator) < 1e-12 {
		// Both partitions are all-singletons or a single block; they
		// agree exactly.
		return 1.0
	}
	return (sumCells - expected) / denominator
}

// VariationOfInformation computes the VI distance between two chain_id
// partitions of the same cell ordering:
//
//	VI(C, C') = H(C|C') + H(C'|C)
//
// Lower is closer; 0 means the partitions are identical up to
// relabeling.
func VariationOfInformation(predicted, groundTruth []int) float64 {
	if len(predicted) != len(groundTruth) || len(predicted) < 2 {
		return 0.0
	}
	ct := crossTabulate(predicted, groundTruth)

	nf := float64(ct.n)
	vi := 0.0
	for i := range ct.cells {
		for j := range ct.cells[i] {
			nij := ct.cells[i][j]
			if nij == 0 {
				continue
			}
			pij := float64(nij) / nf
			vi -= pij * math.Log2(float64(nij)/float64(ct.cols[j])) // H(C|C')
			vi -= pij * math.Log2(float64(nij)/float64(ct.rows[i])) // H(C'|C)
		}
	}
	return vi
}

// comb2 computes C(n, 2) = n*(n-1)/2.
func comb2(n int) float64 {
	if n < 2 {
		return 0
	}
	return float64(n) * float64(n-1) / 2.0
}
