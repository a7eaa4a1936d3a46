package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"qfilt/pkg/api"
)

// WriteText renders the report as the plain-text run diagnostics block.
func WriteText(w io.Writer, r api.ReportV1) error {
	var b strings.Builder
	s := r.Settings

	b.WriteString("run settings:\n")
	if s.FASTQ != "" {
		fmt.Fprintf(&b, "    input fastq:         %s\n", s.FASTQ)
	} else {
		fmt.Fprintf(&b, "    input fasta:         %s\n", s.FASTA)
		fmt.Fprintf(&b, "    input qual:          %s\n", s.Qual)
	}
	fmt.Fprintf(&b, "    min q-score:         %d\n", s.MinQScore)
	fmt.Fprintf(&b, "    min fragment length: %d\n", s.MinLength)
	if s.Punch != "" {
		fmt.Fprintf(&b, "    punch low scores with:       %s\n", s.Punch)
		if s.RemoveCount != nil {
			fmt.Fprintf(&b, "    skip sequence if more than:  %d\n", *s.RemoveCount)
		}
	} else {
		fmt.Fprintf(&b, "    run mode:            %d (%s)\n", s.Mode, s.ModeName)
	}
	if s.Tag != "" {
		fmt.Fprintf(&b, "    5' tag:              %s\n", s.Tag)
		fmt.Fprintf(&b, "    max tag mismatches:  %d\n", *s.TagMismatch)
	}
	fmt.Fprintf(&b, "    output format:       %s\n", s.Format)

	m := r.Summary
	b.WriteString("\nrun summary:\n")
	fmt.Fprintf(&b, "    run id            :  %s\n", r.RunID)
	fmt.Fprintf(&b, "    total bases       :  %d\n", m.TotalBases)
	fmt.Fprintf(&b, "    original reads    :  %d\n", m.OriginalReads)
	fmt.Fprintf(&b, "    q10               :  %g\n", m.Q10)
	fmt.Fprintf(&b, "    q20               :  %g\n", m.Q20)
	fmt.Fprintf(&b, "    q30               :  %g\n", m.Q30)
	fmt.Fprintf(&b, "    mean q-score      :  %g\n", m.MeanQScore)
	fmt.Fprintf(&b, "    contributing reads:  %d\n", m.ContributingReads)
	fmt.Fprintf(&b, "    retained fragments:  %d\n", m.RetainedFragments)
	if s.Punch != "" {
		fmt.Fprintf(&b, "    punched bases     :  %d\n", m.PunchedBases)
	}
	reasons := make([]string, 0, len(m.Discarded))
	for k := range m.Discarded {
		reasons = append(reasons, k)
	}
	sort.Strings(reasons)
	for _, k := range reasons {
		fmt.Fprintf(&b, "    discarded (%s): %d\n", k, m.Discarded[k])
	}

	writeDistribution(&b, "original read length distribution:", r.ReadLengths)
	writeDistribution(&b, "retained fragment length distribution:", r.FragmentLengths)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDistribution(b *strings.Builder, title string, d api.DistributionV1) {
	fmt.Fprintf(b, "\n%s\n", title)
	fmt.Fprintf(b, "    mean:                %g\n", d.Mean)
	fmt.Fprintf(b, "    median:              %g\n", d.Median)
	fmt.Fprintf(b, "    variance:            %s\n", optFloat(d.Variance))
	fmt.Fprintf(b, "    standard deviation:  %s\n", optFloat(d.StdDev))
	fmt.Fprintf(b, "    min:                 %d\n", d.Min)
	fmt.Fprintf(b, "    2.5%%:                %d\n", d.P025)
	fmt.Fprintf(b, "    97.5%%:               %d\n", d.P975)
	fmt.Fprintf(b, "    max:                 %d\n", d.Max)
}

func optFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%g", *v)
}
