package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qfilt/internal/engine"
	"qfilt/internal/seqio"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.ObserveRead(&seqio.Record{Seq: []byte("ACGTACGT")})
	r.ObserveRead(&seqio.Record{Seq: []byte("AC")})
	r.ObserveResult(engine.Result{
		Fragments: []engine.Fragment{{Start: 0, End: 5}, {Start: 6, End: 8, Index: 1}},
		Punched:   2,
	})
	r.ObserveResult(engine.Result{Reason: engine.TooShort})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.reads))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.bases))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.fragments))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.punched))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.discarded.WithLabelValues("too_short")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.fragmentLength))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveRead(&seqio.Record{Seq: []byte("ACGT")})

	path := filepath.Join(t.TempDir(), "qfilt.prom")
	require.NoError(t, r.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "qfilt_reads_total 1")
	assert.Contains(t, string(b), "qfilt_bases_total 4")
}

func TestWriteTextfileBadDir(t *testing.T) {
	err := New().WriteTextfile(filepath.Join(t.TempDir(), "nope", "x.prom"))
	assert.Error(t, err)
}
