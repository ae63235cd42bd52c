package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestSPIM runs the passing conformance cases on SPIM when it is installed.
func TestSPIM(t *testing.T) {
	spim, err := exec.LookPath("spim")
	if err != nil {
		t.Skip("spim not found, skipping SPIM tests")
	}

	eachCase(t, func(t *testing.T, c Case) {
		if c.Expect.Error != "" {
			t.Skip("compile error case")
		}
		text, err := compile(c.Source)
		if err != nil {
			t.Fatalf("compile: %v", err)
		}

		asmFile := filepath.Join(t.TempDir(), "prog.s")
		if err := os.WriteFile(asmFile, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}

		cmd := exec.Command(spim, "-file", asmFile)
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("spim: %v\n%s", err, out)
		}

		if got := stripSPIMBanner(string(out)); got != c.Expect.Output {
			t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, c.Expect.Output)
		}
	})
}

// stripSPIMBanner drops the "Loaded: <exception handler>" line SPIM prints
// before running the program.
func stripSPIMBanner(out string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(out, "\n") {
		if strings.HasPrefix(line, "Loaded: ") {
			continue
		}
		b.WriteString(line)
	}
	return b.String()
}
