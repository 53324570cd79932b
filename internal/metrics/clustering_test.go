package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustedRandIndexPerfectAgreement(t *testing.T) {
	labels := []int{0, 0, 1, 1, 2, 2}
	assert.InDelta(t, 1.0, AdjustedRandIndex(labels, labels), 1e-9)
}

func TestAdjustedRandIndexIgnoresRelabeling(t *testing.T) {
	predicted := []int{0, 0, 1, 1, 2, 2}
	relabeled := []int{7, 7, 3, 3, 9, 9}
	assert.InDelta(t, 1.0, AdjustedRandIndex(predicted, relabeled), 1e-9)
}

func TestAdjustedRandIndexDissimilarPartitions(t *testing.T) {
	predicted := []int{0, 0, 0, 1, 1, 1}
	groundTruth := []int{0, 1, 0, 1, 0, 1}
	assert.Less(t, AdjustedRandIndex(predicted, groundTruth), 0.5)
}

func TestAdjustedRandIndexLengthMismatchIsZero(t *testing.T) {
	assert.Zero(t, AdjustedRandIndex([]int{0, 1}, []int{0}))
}

func TestVariationOfInformationIdentical(t *testing.T) {
	labels := []int{0, 0, 1, 1, 2, 2}
	assert.InDelta(t, 0.0, VariationOfInformation(labels, labels), 1e-9)
}

func TestVariationOfInformationIgnoresRelabeling(t *testing.T) {
	predicted := []int{0, 0, 1, 1, 2, 2}
	relabeled := []int{5, 5, 4, 4, 8, 8}
	assert.InDelta(t, 0.0, VariationOfInformation(predicted, relabeled), 1e-9)
}

func TestVariationOfInformationDifferentPartitions(t *testing.T) {
	predicted := []int{0, 0, 0, 1, 1, 1}
	groundTruth := []int{0, 1, 0, 1, 0, 1}
	assert.Greater(t, VariationOfInformation(predicted, groundTruth), 0.1)
}
