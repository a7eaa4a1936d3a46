// Package stats accumulates read and fragment length distributions and
// per-base quality tallies for the run report.
package stats

import (
	"math"
	"sort"
)

// Distribution collects integer samples; it is sorted only when summarized.
type Distribution struct {
	values []int
}

// Add records one sample.
func (d *Distribution) Add(v int) { d.values = append(d.values, v) }

// Len is the number of samples.
func (d *Distribution) Len() int { return len(d.values) }

// Summary describes a distribution. Variance and StdDev are NaN when there
// are fewer than two samples.
type Summary struct {
	Count    int
	Mean     float64
	Median   float64
	Variance float64
	StdDev   float64
	Min      int
	P025     int // value at index floor(0.025 n) of the sorted samples
	P975     int // value at index floor(0.975 n)
	Max      int
}

// Summary sorts a copy of the samples and computes the report statistics.
func (d *Distribution) Summary() Summary {
	n := len(d.values)
	if n == 0 {
		return Summary{Variance: math.NaN(), StdDev: math.NaN()}
	}
	v := append([]int(nil), d.values...)
	sort.Ints(v)

	var sum, sumSq float64
	for _, x := range v {
		f := float64(x)
		sum += f
		sumSq += f * f
	}
	s := Summary{
		Count: n,
		Mean:  sum / float64(n),
		Min:   v[0],
		P025:  v[int(0.025*float64(n))],
		P975:  v[int(0.975*float64(n))],
		Max:   v[n-1],
	}
	if n%2 == 1 {
		s.Median = float64(v[n/2])
	} else {
		s.Median = 0.5 * float64(v[n/2-1]+v[n/2])
	}
	if n < 2 {
		s.Variance = math.NaN()
	} else {
		s.Variance = (sumSq - sum*sum/float64(n)) / float64(n-1)
		if s.Variance < 0 { // rounding on near-constant samples
			s.Variance = 0
		}
	}
	s.StdDev = math.Sqrt(s.Variance)
	return s
}
