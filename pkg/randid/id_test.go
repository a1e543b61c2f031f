package randid

import (
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	for _, n := range []int{0, -1, 1, 6, 32} {
		got := Generate(n)

		want := max(n, 0)
		if len(got) != want {
			t.Errorf("Generate(%d) length = %d, want %d", n, len(got), want)
		}

		for _, r := range got {
			if !strings.ContainsRune(alphabet, r) {
				t.Errorf("Generate(%d) = %q contains %q outside the alphabet", n, got, r)
			}
		}
	}
}

func TestPrefixed(t *testing.T) {
	got := Prefixed("run", 6)
	if !strings.HasPrefix(got, "run-") || len(got) != len("run-")+6 {
		t.Errorf("Prefixed(run, 6) = %q", got)
	}
}
