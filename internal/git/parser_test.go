package git

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"
)

const (
	hashC1 = "1111111111111111111111111111111111111111"
	hashC2 = "2222222222222222222222222222222222222222"
	hashC3 = "3333333333333333333333333333333333333333"
	hashM  = "4444444444444444444444444444444444444444"
)

// record renders one log record the way git does with LogFormat.
func record(full, parents, refs, subject, body string) string {
	fields := []string{
		full, full[:7], parents,
		"Alice", "alice@example.com", "1700000000",
		"Bob", "bob@example.com", "1700000100",
		refs, subject, body,
	}
	return RecordSeparator + strings.Join(fields, FieldSeparator) + "\n"
}

func TestParseRecord_AllFields(t *testing.T) {
	raw := strings.TrimPrefix(record(hashC2, hashC1, "HEAD -> main, origin/main, tag: v1.0", "Add feature", "Longer body\n\nwith lines\n"), RecordSeparator)

	entry, err := ParseRecord("/repo", raw, FieldSeparator, LogFormatFields, "", "")
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if entry == nil {
		t.Fatal("expected entry, got nil")
	}

	if entry.Hash.Full != hashC2 || entry.Hash.Short != hashC2[:7] {
		t.Errorf("Hash = %+v", entry.Hash)
	}
	if len(entry.Parents) != 1 || entry.Parents[0].Full != hashC1 || entry.Parents[0].Short != hashC1[:7] {
		t.Errorf("Parents = %+v", entry.Parents)
	}
	if entry.Author != (Signature{Name: "Alice", Email: "alice@example.com"}) {
		t.Errorf("Author = %+v", entry.Author)
	}
	if entry.Committer != (Signature{Name: "Bob", Email: "bob@example.com"}) {
		t.Errorf("Committer = %+v", entry.Committer)
	}
	if !entry.AuthorDate.Equal(time.Unix(1700000000, 0)) || !entry.CommitDate.Equal(time.Unix(1700000100, 0)) {
		t.Errorf("dates = %v / %v", entry.AuthorDate, entry.CommitDate)
	}
	if entry.Subject != "Add feature" {
		t.Errorf("Subject = %q", entry.Subject)
	}
	if entry.Body != "Longer body\n\nwith lines" {
		t.Errorf("Body = %q", entry.Body)
	}
	wantRefs := []string{"HEAD", "main", "origin/main", "v1.0"}
	if fmt.Sprint(entry.Refs) != fmt.Sprint(wantRefs) {
		t.Errorf("Refs = %v, want %v", entry.Refs, wantRefs)
	}
	if entry.Files != nil {
		t.Errorf("Files should be nil without side channels, got %v", entry.Files)
	}
	if entry.IsLastCommit || entry.IsMerged {
		t.Errorf("graph flags must start false")
	}
}

func TestParseRecord_ParentCounts(t *testing.T) {
	tests := []struct {
		name    string
		parents string
		want    int
	}{
		{name: "Root", parents: "", want: 0},
		{name: "Single", parents: hashC1, want: 1},
		{name: "Merge", parents: hashC1 + " " + hashC2, want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := strings.TrimPrefix(record(hashC3, tt.parents, "", "s", ""), RecordSeparator)
			entry, err := ParseRecord("", raw, FieldSeparator, LogFormatFields, "", "")
			if err != nil {
				t.Fatalf("ParseRecord: %v", err)
			}
			if len(entry.Parents) != tt.want {
				t.Errorf("parents = %d, want %d", len(entry.Parents), tt.want)
			}
		})
	}
}

func TestParseRecord_EmptyRecords(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n", "\t\n "} {
		entry, err := ParseRecord("", raw, FieldSeparator, LogFormatFields, "", "")
		if err != nil || entry != nil {
			t.Errorf("ParseRecord(%q) = %v, %v; want nil, nil", raw, entry, err)
		}
	}
}

func TestParseRecord_MissingHash(t *testing.T) {
	_, err := ParseRecord("", "not-a-hash"+FieldSeparator+"x", FieldSeparator, LogFormatFields, "", "")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestParseRecord_TruncatedRecordKeepsHash(t *testing.T) {
	raw := hashC1 + FieldSeparator + hashC1[:7]
	entry, err := ParseRecord("", raw, FieldSeparator, LogFormatFields, "", "")
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if entry.Hash.Full != hashC1 || entry.Subject != "" || !entry.AuthorDate.IsZero() {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestParseRecord_WithFiles(t *testing.T) {
	raw := strings.TrimPrefix(record(hashC2, hashC1, "", "s", ""), RecordSeparator)
	numStat := "\n3\t1\tmain.go\n-\t-\tlogo.png\n"
	nameStatus := "\nM\tmain.go\nA\tlogo.png\n"

	entry, err := ParseRecord("/repo", raw, FieldSeparator, LogFormatFields, numStat, nameStatus)
	if err != nil {
		t.Fatalf("ParseRecord: %v", err)
	}
	if len(entry.Files) != 2 {
		t.Fatalf("files = %+v", entry.Files)
	}
	if f := entry.Files[0]; f.RelativePath != "main.go" || f.LinesAdded != 3 || f.LinesDeleted != 1 || f.Status != StatusModified {
		t.Errorf("files[0] = %+v", f)
	}
	if f := entry.Files[1]; f.RelativePath != "logo.png" || !f.Binary || f.Status != StatusAdded || f.Churn() != 0 {
		t.Errorf("files[1] = %+v", f)
	}
}

func TestSplitRecords_SkipsEmpty(t *testing.T) {
	output := record(hashC3, hashC2, "", "c3", "") + RecordSeparator + record(hashC2, hashC1, "", "c2", "")

	var items []LogEntry
	for _, rec := range SplitRecords(output) {
		entry, err := ParseRecord("", rec, FieldSeparator, LogFormatFields, "", "")
		if err != nil {
			t.Fatalf("ParseRecord: %v", err)
		}
		if entry != nil {
			items = append(items, *entry)
		}
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
}

func TestParseDiff_Added(t *testing.T) {
	files := ParseDiff("", []string{"3\t0\tfoo.txt"}, []string{"A\tfoo.txt"})
	if len(files) != 1 {
		t.Fatalf("files = %+v", files)
	}
	want := CommittedFile{RelativePath: "foo.txt", Status: StatusAdded, LinesAdded: 3, LinesDeleted: 0}
	if files[0] != want {
		t.Errorf("got %+v, want %+v", files[0], want)
	}
}

func TestParseDiff_Rename(t *testing.T) {
	files := ParseDiff("", []string{"5\t2\tnew.txt"}, []string{"R100\told.txt\tnew.txt"})
	if len(files) != 1 {
		t.Fatalf("files = %+v", files)
	}
	want := CommittedFile{RelativePath: "new.txt", PreviousPath: "old.txt", Status: StatusRenamed, LinesAdded: 5, LinesDeleted: 2}
	if files[0] != want {
		t.Errorf("got %+v, want %+v", files[0], want)
	}
}

func TestParseDiff_RenameArrowNotation(t *testing.T) {
	tests := []struct {
		stat    string
		newPath string
		oldPath string
	}{
		{stat: "5\t2\told.txt => new.txt", newPath: "new.txt", oldPath: "old.txt"},
		{stat: "1\t1\tsrc/{a => b}/file.go", newPath: "src/b/file.go", oldPath: "src/a/file.go"},
		{stat: "0\t0\t{ => lib}/util.go", newPath: "lib/util.go", oldPath: "util.go"},
		{stat: "0\t0\tpkg/{old.go => new.go}", newPath: "pkg/new.go", oldPath: "pkg/old.go"},
	}
	for _, tt := range tests {
		files := ParseDiff("", []string{tt.stat}, []string{"R090\t" + tt.oldPath + "\t" + tt.newPath})
		if len(files) != 1 {
			t.Fatalf("%q: files = %+v", tt.stat, files)
		}
		f := files[0]
		if f.RelativePath != tt.newPath || f.PreviousPath != tt.oldPath || f.Status != StatusRenamed {
			t.Errorf("%q: got %+v", tt.stat, f)
		}
	}
}

func TestParseDiff_CopyAndDelete(t *testing.T) {
	files := ParseDiff("",
		[]string{"0\t4\tgone.txt", "7\t0\tcopy.txt"},
		[]string{"D\tgone.txt", "C075\tsrc.txt\tcopy.txt"})

	if len(files) != 2 {
		t.Fatalf("files = %+v", files)
	}
	if files[0].Status != StatusDeleted || files[0].LinesDeleted != 4 {
		t.Errorf("files[0] = %+v", files[0])
	}
	if files[1].Status != StatusCopied || files[1].PreviousPath != "src.txt" || files[1].LinesAdded != 7 {
		t.Errorf("files[1] = %+v", files[1])
	}
}

func TestParseDiff_MismatchedChannels(t *testing.T) {
	files := ParseDiff("/repo",
		[]string{"2\t2\tonly-stat.go", "garbage line"},
		[]string{"M\tonly-status.bin", "", "X"})

	if len(files) != 2 {
		t.Fatalf("files = %+v", files)
	}
	if files[0].RelativePath != "only-status.bin" || files[0].Churn() != 0 {
		t.Errorf("status-only entry = %+v", files[0])
	}
	if files[1].RelativePath != "only-stat.go" || files[1].Status != StatusModified || files[1].LinesAdded != 2 {
		t.Errorf("stat-only entry = %+v", files[1])
	}
	if files[1].AbsolutePath == "" {
		t.Errorf("AbsolutePath should be set when a root is given")
	}
}

func TestParseDiff_QuotedPaths(t *testing.T) {
	files := ParseDiff("", []string{"1\t0\t\"with\\ttab.txt\""}, []string{"A\t\"with\\ttab.txt\""})
	if len(files) != 1 || files[0].RelativePath != "with\ttab.txt" || files[0].LinesAdded != 1 {
		t.Fatalf("files = %+v", files)
	}
}

func TestParseRefs(t *testing.T) {
	output := strings.Join([]string{
		hashC3 + " refs/heads/main",
		hashC2 + " refs/remotes/origin/feature",
		hashC1 + " refs/tags/v1",
		"",
		"malformed",
	}, "\n")

	refs := ParseRefs(output)
	want := []RefHashPair{
		{Ref: "refs/heads/main", Hash: hashC3},
		{Ref: "refs/remotes/origin/feature", Hash: hashC2},
	}
	if fmt.Sprint(refs) != fmt.Sprint(want) {
		t.Errorf("ParseRefs = %v, want %v", refs, want)
	}
}

func TestParseRefNames(t *testing.T) {
	output := "refs/heads/main\n* refs/heads/dev\n  remotes/origin/HEAD -> origin/main\n\n"
	got := ParseRefNames(output)
	want := []string{"refs/heads/main", "refs/heads/dev", "remotes/origin/HEAD"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("ParseRefNames = %v, want %v", got, want)
	}
}

func TestParseBranches(t *testing.T) {
	got := ParseBranches("  develop\n* main\n  feature/x\n")
	want := []Branch{{Name: "develop"}, {Name: "main", IsCurrent: true}, {Name: "feature/x"}}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("ParseBranches = %v, want %v", got, want)
	}
}

func TestParseHashPair(t *testing.T) {
	h, ok := ParseHashPair(hashC1 + FieldSeparator + "1111111\n")
	if !ok || h.Full != hashC1 || h.Short != "1111111" {
		t.Errorf("ParseHashPair = %+v, %v", h, ok)
	}
	if _, ok := ParseHashPair("\n"); ok {
		t.Errorf("empty output should not parse")
	}
}

func TestRapidParseRecord_FieldsSurvive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		full := rapid.StringMatching(`[0-9a-f]{40}`).Draw(t, "hash")
		subject := rapid.StringMatching(`[A-Za-z0-9 ,.:-]{0,40}`).Draw(t, "subject")
		name := rapid.StringMatching(`[A-Za-z]{1,12}`).Draw(t, "name")
		secs := rapid.Int64Range(1, 4_000_000_000).Draw(t, "date")

		fields := []string{
			full, full[:7], "",
			name, "a@b.c", fmt.Sprint(secs),
			name, "a@b.c", fmt.Sprint(secs),
			"", subject, "",
		}
		raw := strings.Join(fields, FieldSeparator) + "\n"

		entry, err := ParseRecord("", raw, FieldSeparator, LogFormatFields, "", "")
		if err != nil {
			t.Fatalf("ParseRecord: %v", err)
		}
		if entry.Hash.Full != full {
			t.Fatalf("hash = %q, want %q", entry.Hash.Full, full)
		}
		if entry.Subject != strings.TrimSpace(subject) {
			t.Fatalf("subject = %q, want %q", entry.Subject, subject)
		}
		if entry.Author.Name != name || entry.CommitDate.Unix() != secs {
			t.Fatalf("entry = %+v", entry)
		}
	})
}
