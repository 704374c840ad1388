package git

import "testing"

func TestCommittedFile_Churn(t *testing.T) {
	tests := []struct {
		name     string
		added    int
		deleted  int
		expected int
	}{
		{name: "Both positive", added: 10, deleted: 5, expected: 15},
		{name: "Only added", added: 10, deleted: 0, expected: 10},
		{name: "Both zero", added: 0, deleted: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := CommittedFile{LinesAdded: tt.added, LinesDeleted: tt.deleted}
			if result := f.Churn(); result != tt.expected {
				t.Errorf("Churn() = %d, expected %d", result, tt.expected)
			}
		})
	}
}

func TestFileStatus_StringAndCode(t *testing.T) {
	tests := []struct {
		status FileStatus
		name   string
		code   string
	}{
		{StatusAdded, "added", "A"},
		{StatusModified, "modified", "M"},
		{StatusDeleted, "deleted", "D"},
		{StatusRenamed, "renamed", "R"},
		{StatusCopied, "copied", "C"},
		{FileStatus(99), "unknown", "M"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.name {
			t.Errorf("String() = %q, expected %q", got, tt.name)
		}
		if got := tt.status.Code(); got != tt.code {
			t.Errorf("Code() = %q, expected %q", got, tt.code)
		}
	}
}

func TestLogEntry_ParentShape(t *testing.T) {
	root := LogEntry{}
	if !root.IsRootCommit() || root.IsMergeCommit() {
		t.Errorf("entry without parents should be a root, not a merge")
	}

	merge := LogEntry{Parents: []Hash{{Full: "a"}, {Full: "b"}}}
	if merge.IsRootCommit() || !merge.IsMergeCommit() {
		t.Errorf("entry with two parents should be a merge")
	}
}

func TestHash_Equal(t *testing.T) {
	a := Hash{Full: "abc", Short: "a"}
	b := Hash{Full: "abc", Short: "ab"}
	c := Hash{Full: "abd", Short: "a"}

	if !a.Equal(b) {
		t.Errorf("hashes with the same full value should be equal")
	}
	if a.Equal(c) {
		t.Errorf("hashes with different full values should differ")
	}
}
