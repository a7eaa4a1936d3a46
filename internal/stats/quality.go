package stats

// QualityTally counts bases by Phred score band.
type QualityTally struct {
	TotalBases int
	Sum        int
	Over10     int
	Over20     int
	Over30     int
}

// Add tallies a read's quality scores.
func (t *QualityTally) Add(qual []int) {
	for _, q := range qual {
		t.TotalBases++
		t.Sum += q
		if q >= 10 {
			t.Over10++
		}
		if q >= 20 {
			t.Over20++
		}
		if q >= 30 {
			t.Over30++
		}
	}
}

func (t *QualityTally) frac(n int) float64 {
	if t.TotalBases == 0 {
		return 0
	}
	return float64(n) / float64(t.TotalBases)
}

// Q10 is the fraction of bases scoring at least 10.
func (t *QualityTally) Q10() float64 { return t.frac(t.Over10) }

// Q20 is the fraction of bases scoring at least 20.
func (t *QualityTally) Q20() float64 { return t.frac(t.Over20) }

// Q30 is the fraction of bases scoring at least 30.
func (t *QualityTally) Q30() float64 { return t.frac(t.Over30) }

// MeanQuality is the mean score over all bases.
func (t *QualityTally) MeanQuality() float64 { return t.frac(t.Sum) }
