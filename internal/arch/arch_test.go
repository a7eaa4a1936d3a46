// ./internal/arch/arch_test.go
package arch

import (
	"bytes"
	"encoding/json"
	"io"
	"os/exec"
	"strings"
	"testing"
)

type pkg struct {
	ImportPath string
	Imports    []string
	Standard   bool
}

func TestImportBoundaries(t *testing.T) {
	cmd := exec.Command("go", "list", "-json", "./...")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		t.Fatalf("go list: %v", err)
	}
	dec := json.NewDecoder(&out)

	// Lower layers never reach up into orchestration or the CLI.
	upper := []string{"qfilt/internal/appcore", "qfilt/internal/app", "qfilt/internal/cli", "qfilt/cmd/"}
	bans := map[string][]string{
		"qfilt/internal/source":   append([]string{"qfilt/internal/seqio", "qfilt/internal/engine"}, upper...),
		"qfilt/internal/seqio":    append([]string{"qfilt/internal/engine", "qfilt/internal/writers"}, upper...),
		"qfilt/internal/engine":   append([]string{"qfilt/internal/pipeline", "qfilt/internal/writers", "qfilt/internal/stats", "qfilt/internal/output"}, upper...),
		"qfilt/internal/pipeline": append([]string{"qfilt/internal/writers", "qfilt/internal/output", "qfilt/internal/metrics"}, upper...),
		"qfilt/internal/stats":    append([]string{"qfilt/internal/pipeline", "qfilt/internal/writers"}, upper...),
		"qfilt/internal/writers":  append([]string{"qfilt/internal/pipeline", "qfilt/internal/output"}, upper...),
		"qfilt/internal/output":   append([]string{"qfilt/internal/pipeline", "qfilt/internal/writers"}, upper...),
		"qfilt/internal/metrics":  upper,
		"qfilt/internal/config":   upper,
		"qfilt/pkg/api":           {"qfilt/internal/"},
	}

	var violations []string
	for {
		var p pkg
		if err := dec.Decode(&p); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !strings.HasPrefix(p.ImportPath, "qfilt/") {
			continue
		}
		imp := p.ImportPath
		for prefix, forbidden := range bans {
			if !strings.HasPrefix(imp, prefix) {
				continue
			}
			for _, dep := range p.Imports {
				if !strings.HasPrefix(dep, "qfilt/") {
					continue
				}
				for _, ban := range forbidden {
					if strings.HasPrefix(dep, ban) {
						violations = append(violations, imp+" → "+dep)
					}
				}
			}
		}
	}

	if len(violations) > 0 {
		t.Fatalf("import boundary violations:\n  %s", strings.Join(violations, "\n  "))
	}
}
