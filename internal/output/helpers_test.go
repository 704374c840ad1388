package output

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/masmgr/githistory-go/internal/git"
)

func TestTruncateMessage_Subjects(t *testing.T) {
	long := "Merge pull request #412 from feature/paginated-history-view-with-graph"
	tests := []struct {
		name     string
		msg      string
		maxLen   int
		expected string
	}{
		{name: "Short subject", msg: "Fix typo", maxLen: subjectWidth, expected: "Fix typo"},
		{name: "Exact width", msg: "feat: add", maxLen: 9, expected: "feat: add"},
		{name: "Long merge subject", msg: long, maxLen: 20, expected: "Merge pull reques..."},
		{name: "Multibyte under width", msg: "a" + strings.Repeat("日本", 15), maxLen: subjectWidth, expected: "a" + strings.Repeat("日本", 15)},
		{name: "Multibyte over width", msg: "修正: " + strings.Repeat("履歴", 10), maxLen: 10, expected: "修正: 履歴履..."},
		{name: "Empty subject", msg: "", maxLen: subjectWidth, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := truncateMessage(tt.msg, tt.maxLen)
			if result != tt.expected {
				t.Errorf("truncateMessage(%q, %d) = %q, expected %q", tt.msg, tt.maxLen, result, tt.expected)
			}
			if !utf8.ValidString(result) {
				t.Errorf("truncateMessage(%q, %d) produced invalid UTF-8 %q", tt.msg, tt.maxLen, result)
			}
			if n := utf8.RuneCountInString(result); n > tt.maxLen {
				t.Errorf("truncateMessage(%q, %d) has %d runes", tt.msg, tt.maxLen, n)
			}
		})
	}
}

func TestEscapeMarkdown_Subjects(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Pipe in subject", input: "parse a|b ranges", expected: "parse a\\|b ranges"},
		{name: "Glob in subject", input: "ignore **/*.md", expected: "ignore \\*\\*/\\*.md"},
		{name: "Identifier", input: "rename get_refs", expected: "rename get\\_refs"},
		{name: "Inline code", input: "use `git log`", expected: "use \\`git log\\`"},
		{name: "Plain", input: "Initial commit", expected: "Initial commit"},
		{name: "Empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := escapeMarkdown(tt.input)
			if result != tt.expected {
				t.Errorf("escapeMarkdown(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestJoinRefsAndParents(t *testing.T) {
	if got := joinRefs([]string{"HEAD", "main", "origin/main"}); got != "HEAD, main, origin/main" {
		t.Errorf("joinRefs() = %q", got)
	}
	if got := joinRefs(nil); got != "" {
		t.Errorf("joinRefs(nil) = %q, expected empty", got)
	}

	parents := []git.Hash{
		{Full: strings.Repeat("a", 40), Short: "aaaaaaa"},
		{Full: strings.Repeat("b", 40), Short: "bbbbbbb"},
	}
	if got := parentList(parents, true); got != "aaaaaaa bbbbbbb" {
		t.Errorf("parentList(short) = %q", got)
	}
	if got := parentList(parents, false); got != strings.Repeat("a", 40)+" "+strings.Repeat("b", 40) {
		t.Errorf("parentList(full) = %q", got)
	}
}
