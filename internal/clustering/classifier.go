package clustering

import "errors"

// ErrInvalidArgument is returned by Threshold when the input has no
// variation to split on (fewer than two distinct values).
var ErrInvalidArgument = errors.New("clustering: cannot classify a threshold without at least two distinct values")

// Threshold performs 1-D two-means classification over sorted, a
// non-decreasing slice of distances. It considers every split point,
// picks the one minimizing the combined within-group sum of squared
// deviations from each group's mean, and returns the largest value in the
// lower-distance group: values at or below the threshold are "near" (same
// cluster), values above it are "far".
//
// sorted must already be sorted ascending and have at least two elements;
// if every element is equal there is no valid split and Threshold returns
// ErrInvalidArgument.
func Threshold(sorted []float64) (float64, error) {
	n := len(sorted)
	if n < 2 {
		return 0, ErrInvalidArgument
	}

	totalSum, totalSumSq := sumAndSumSq(sorted)
	if totalSumSq*float64(n) == totalSum*totalSum {
		// Zero variance: every value is identical, no split is meaningful.
		return 0, ErrInvalidArgument
	}

	var lowerSum, lowerSumSq float64
	bestCost := -1.0
	bestSplit := -1
	for split := 0; split < n-1; split++ {
		v := sorted[split]
		lowerSum += v
		lowerSumSq += v * v
		lowerN := float64(split + 1)
		upperN := float64(n - split - 1)
		upperSum := totalSum - lowerSum
		upperSumSq := totalSumSq - lowerSumSq

		cost := sumSqDeviation(lowerSumSq, lowerSum, lowerN) + sumSqDeviation(upperSumSq, upperSum, upperN)
		if bestSplit == -1 || cost < bestCost {
			bestCost = cost
			bestSplit = split
		}
	}
	return sorted[bestSplit], nil
}

func sumAndSumSq(values []float64) (sum, sumSq float64) {
	for _, v := range values {
		sum += v
		sumSq += v * v
	}
	return sum, sumSq
}

// sumSqDeviation returns sum((x-mean)^2) for a group given its sum of
// values, sum of squared values, and count, using the identity
// sum((x-mean)^2) = sumSq - sum^2/n, avoiding a second pass over the group.
func sumSqDeviation(sumSq, sum, n float64) float64 {
	if n == 0 {
		return 0
	}
	return sumSq - (sum*sum)/n
}
