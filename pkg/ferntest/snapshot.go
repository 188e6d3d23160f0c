package ferntest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UpdateSnapshotsEnv, when set to a non-empty value other than "0", makes
// MatchSnapshot rewrite goldens instead of comparing against them:
//
//	FERN_UPDATE_SNAPSHOTS=1 go test ./...
const UpdateSnapshotsEnv = "FERN_UPDATE_SNAPSHOTS"

func updatingSnapshots() bool {
	v := os.Getenv(UpdateSnapshotsEnv)
	return v != "" && v != "0"
}

// MatchSnapshot serializes the committed host tree and compares it against
// the golden file <SnapshotDir>/<name>.txt, failing the test with a line
// diff on mismatch.
func (tr *Tester) MatchSnapshot(name string) {
	tr.t.Helper()
	got := tr.Markup()
	path := filepath.Join(tr.SnapshotDir, name+".txt")

	if updatingSnapshots() {
		if err := os.MkdirAll(tr.SnapshotDir, 0o755); err != nil {
			tr.t.Fatalf("snapshot %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(got), 0o644); err != nil {
			tr.t.Fatalf("snapshot %s: %v", name, err)
		}
		tr.t.Logf("snapshot %s updated", name)
		return
	}

	want, err := os.ReadFile(path)
	if err != nil {
		tr.t.Fatalf("snapshot %s: %v (run with %s=1 to create it)", name, err, UpdateSnapshotsEnv)
	}
	if got != string(want) {
		tr.t.Errorf("snapshot %s mismatch:\n%s", name, diffLines(string(want), got))
	}
}

// diffLines produces a minimal line-by-line diff for snapshot failures.
func diffLines(want, got string) string {
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")

	var b strings.Builder
	max := len(wantLines)
	if len(gotLines) > max {
		max = len(gotLines)
	}
	for i := 0; i < max; i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w == g {
			fmt.Fprintf(&b, "  %s\n", w)
			continue
		}
		if i < len(wantLines) {
			fmt.Fprintf(&b, "- %s\n", w)
		}
		if i < len(gotLines) {
			fmt.Fprintf(&b, "+ %s\n", g)
		}
	}
	return b.String()
}
