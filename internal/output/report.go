// internal/output/report.go
package output

import (
	"math"

	"qfilt/internal/engine"
	"qfilt/internal/stats"
	"qfilt/pkg/api"
)

// RunInfo is the run context echoed in the report.
type RunInfo struct {
	RunID   string
	Version string

	FASTA string
	Qual  string
	FASTQ string

	Policy engine.Policy
}

// BuildReport converts the run context and aggregated statistics to the
// stable wire schema (v1).
func BuildReport(info RunInfo, agg *stats.Aggregator) api.ReportV1 {
	p := info.Policy
	set := api.SettingsV1{
		FASTA:     info.FASTA,
		Qual:      info.Qual,
		FASTQ:     info.FASTQ,
		MinQScore: p.MinQuality,
		MinLength: p.MinLength,
		Mode:      p.Mode(),
		Format:    p.Format.String(),
	}
	if p.Punching() {
		set.Punch = string(p.Punch)
		if p.RemoveCount >= 0 {
			set.RemoveCount = intPtr(p.RemoveCount)
		}
	} else {
		set.ModeName = p.ModeString()
	}
	if p.Tag != "" {
		set.Tag = p.Tag
		set.TagMismatch = intPtr(p.TagMismatch)
	}

	sum := api.SummaryV1{
		TotalBases:        agg.Quality.TotalBases,
		OriginalReads:     agg.Reads.Len(),
		Q10:               agg.Quality.Q10(),
		Q20:               agg.Quality.Q20(),
		Q30:               agg.Quality.Q30(),
		MeanQScore:        agg.Quality.MeanQuality(),
		ContributingReads: agg.Contributing,
		RetainedFragments: agg.Fragments.Len(),
		PunchedBases:      agg.Punched,
	}
	for _, r := range engine.Reasons {
		if n := agg.Discarded[r]; n > 0 {
			if sum.Discarded == nil {
				sum.Discarded = make(map[string]int)
			}
			sum.Discarded[r.String()] = n
		}
	}

	return api.ReportV1{
		RunID:           info.RunID,
		Version:         info.Version,
		Settings:        set,
		Summary:         sum,
		ReadLengths:     toAPIDistribution(agg.Reads.Summary()),
		FragmentLengths: toAPIDistribution(agg.Fragments.Summary()),
	}
}

func toAPIDistribution(s stats.Summary) api.DistributionV1 {
	return api.DistributionV1{
		Count:    s.Count,
		Mean:     s.Mean,
		Median:   s.Median,
		Variance: finitePtr(s.Variance),
		StdDev:   finitePtr(s.StdDev),
		Min:      s.Min,
		P025:     s.P025,
		P975:     s.P975,
		Max:      s.Max,
	}
}

func intPtr(v int) *int { return &v }

// finitePtr maps NaN/Inf (undefined statistics) to nil so JSON gets null.
func finitePtr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
