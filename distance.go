package miniball

import "gonum.org/v1/gonum/floats"

// Distance returns the Euclidean (L2) distance between a and b.
func Distance(a, b []float64) float64 {
	return floats.Distance(a, b, 2)
}

// squaredDistance returns the squared Euclidean distance (skips sqrt).
func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
