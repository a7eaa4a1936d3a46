// pkg/api/report_v1.go
package api

// ReportV1 is the stable JSON schema of a run report.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type ReportV1 struct {
	RunID    string     `json:"run_id"`
	Version  string     `json:"version"`
	Settings SettingsV1 `json:"settings"`
	Summary  SummaryV1  `json:"run_summary"`

	ReadLengths     DistributionV1 `json:"original_read_lengths"`
	FragmentLengths DistributionV1 `json:"retained_fragment_lengths"`
}

// SettingsV1 echoes the inputs and the effective policy.
type SettingsV1 struct {
	FASTA string `json:"fasta,omitempty"`
	Qual  string `json:"qual,omitempty"`
	FASTQ string `json:"fastq,omitempty"`

	MinQScore int    `json:"min_qscore"`
	MinLength int    `json:"min_fragment_length"`
	Mode      int    `json:"mode"`
	ModeName  string `json:"mode_name,omitempty"` // "split/tolerate homopolymers/..."; empty in punch mode

	Punch       string `json:"punch,omitempty"`
	RemoveCount *int   `json:"remove_count,omitempty"` // nil = unlimited or not punching

	Tag         string `json:"tag,omitempty"`
	TagMismatch *int   `json:"max_tag_mismatches,omitempty"`

	Format string `json:"format"`
}

// SummaryV1 holds run-wide counts.
type SummaryV1 struct {
	TotalBases        int            `json:"total_bases"`
	OriginalReads     int            `json:"original_reads"`
	Q10               float64        `json:"q10"`
	Q20               float64        `json:"q20"`
	Q30               float64        `json:"q30"`
	MeanQScore        float64        `json:"mean_qscore"`
	ContributingReads int            `json:"contributing_reads"`
	RetainedFragments int            `json:"retained_fragments"`
	PunchedBases      int            `json:"punched_bases,omitempty"`
	Discarded         map[string]int `json:"discarded,omitempty"` // reason → reads
}

// DistributionV1 summarizes a length distribution. Variance and StdDev are
// null when undefined (fewer than two samples).
type DistributionV1 struct {
	Count    int      `json:"count"`
	Mean     float64  `json:"mean"`
	Median   float64  `json:"median"`
	Variance *float64 `json:"variance"`
	StdDev   *float64 `json:"standard_deviation"`
	Min      int      `json:"min"`
	P025     int      `json:"p2_5"`
	P975     int      `json:"p97_5"`
	Max      int      `json:"max"`
}
