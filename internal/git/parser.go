package git

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const defaultShortHashLen = 7

// SplitRecords splits raw log output into records. Empty records are kept;
// ParseRecord drops them.
func SplitRecords(output string) []string {
	return strings.Split(output, RecordSeparator)
}

// ParseRecord parses one record produced by a format built with LogFormat.
// It returns nil for an empty or whitespace-only record. When numStat or
// nameStatus output is supplied, the two are joined by path into Files.
func ParseRecord(repoRoot, record, fieldSeparator string, fields []LogField, numStat, nameStatus string) (*LogEntry, error) {
	if strings.TrimSpace(record) == "" {
		return nil, nil
	}

	parts := strings.SplitN(record, fieldSeparator, len(fields))
	values := make(map[LogField]string, len(fields))
	for i, f := range fields {
		if i < len(parts) {
			values[f] = parts[i]
		}
	}

	full := strings.TrimSpace(values[FieldHash])
	if !isFullHash(full) {
		return nil, &ParseError{Reason: "record has no commit hash", Record: record}
	}

	short := strings.TrimSpace(values[FieldShortHash])
	if short == "" || !strings.HasPrefix(full, short) {
		short = shortHash(full, defaultShortHashLen)
	}

	entry := &LogEntry{
		Hash:       Hash{Full: full, Short: short},
		Parents:    parseParents(values[FieldParents], len(short)),
		Author:     Signature{Name: strings.TrimSpace(values[FieldAuthorName]), Email: strings.TrimSpace(values[FieldAuthorEmail])},
		Committer:  Signature{Name: strings.TrimSpace(values[FieldCommitterName]), Email: strings.TrimSpace(values[FieldCommitterEmail])},
		AuthorDate: parseUnixTime(values[FieldAuthorDate]),
		CommitDate: parseUnixTime(values[FieldCommitDate]),
		Refs:       parseRefNames(values[FieldRefs]),
		Subject:    strings.TrimSpace(values[FieldSubject]),
		Body:       strings.TrimSpace(values[FieldBody]),
	}

	if numStat != "" || nameStatus != "" {
		entry.Files = ParseDiff(repoRoot, splitLines(numStat), splitLines(nameStatus))
	}

	return entry, nil
}

// ParseDiff joins --numstat and --name-status lines by path. Entries present
// in only one of the two outputs are kept: a missing stat line means zero
// counts, a missing status line means a modification.
func ParseDiff(repoRoot string, statLines, nameStatusLines []string) []CommittedFile {
	stats := make(map[string]numStat, len(statLines))
	statOrder := make([]string, 0, len(statLines))
	for _, line := range statLines {
		st, ok := parseNumStatLine(line)
		if !ok {
			continue
		}
		if _, seen := stats[st.path]; !seen {
			statOrder = append(statOrder, st.path)
		}
		stats[st.path] = st
	}

	files := make([]CommittedFile, 0, len(nameStatusLines))
	matched := make(map[string]bool, len(stats))
	for _, line := range nameStatusLines {
		ns, ok := parseNameStatusLine(line)
		if !ok {
			continue
		}
		file := CommittedFile{
			RelativePath: ns.path,
			PreviousPath: ns.oldPath,
			Status:       ns.status,
		}
		if st, ok := stats[ns.path]; ok && !matched[ns.path] {
			file.LinesAdded = st.added
			file.LinesDeleted = st.deleted
			file.Binary = st.binary
			matched[ns.path] = true
		}
		files = append(files, file)
	}

	for _, path := range statOrder {
		if matched[path] {
			continue
		}
		st := stats[path]
		files = append(files, CommittedFile{
			RelativePath: path,
			PreviousPath: st.oldPath,
			Status:       statusForUnmatchedStat(st),
			LinesAdded:   st.added,
			LinesDeleted: st.deleted,
			Binary:       st.binary,
		})
	}

	if repoRoot != "" {
		for i := range files {
			files[i].AbsolutePath = filepath.Join(repoRoot, filepath.FromSlash(files[i].RelativePath))
		}
	}

	return files
}

// ParseRefs parses `<hash> <refname>` lines, keeping local and remote-tracking
// branches only.
func ParseRefs(output string) []RefHashPair {
	var refs []RefHashPair
	for _, line := range splitLines(output) {
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		ref := parts[1]
		if !strings.HasPrefix(ref, "refs/heads/") && !strings.HasPrefix(ref, "refs/remotes/") {
			continue
		}
		refs = append(refs, RefHashPair{Ref: ref, Hash: parts[0]})
	}
	return refs
}

// ParseRefNames parses one ref name per line.
func ParseRefNames(output string) []string {
	var names []string
	for _, line := range splitLines(output) {
		name := strings.TrimSpace(line)
		name = strings.TrimSpace(strings.TrimPrefix(name, "*"))
		// "origin/HEAD -> origin/main" style pointers keep the first name.
		if idx := strings.IndexByte(name, ' '); idx != -1 {
			name = name[:idx]
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ParseBranches parses `git branch` output.
func ParseBranches(output string) []Branch {
	var branches []Branch
	for _, line := range splitLines(output) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		current := strings.HasPrefix(line, "*")
		name := strings.TrimSpace(strings.TrimPrefix(line, "*"))
		branches = append(branches, Branch{Name: name, IsCurrent: current})
	}
	return branches
}

// ParseHashPair parses `<full><field separator><short>` output.
func ParseHashPair(output string) (Hash, bool) {
	line := firstLine(output)
	full, short, _ := strings.Cut(line, FieldSeparator)
	full = strings.TrimSpace(full)
	if !isFullHash(full) {
		return Hash{}, false
	}
	short = strings.TrimSpace(short)
	if short == "" {
		short = shortHash(full, defaultShortHashLen)
	}
	return Hash{Full: full, Short: short}, true
}

type numStat struct {
	path    string
	oldPath string
	added   int
	deleted int
	binary  bool
}

type nameStatus struct {
	status  FileStatus
	path    string
	oldPath string
}

// parseNumStatLine parses `<added>\t<deleted>\t<path>`. Binary files report "-".
// Renamed paths appear as "old => new" or "dir/{old => new}/file".
func parseNumStatLine(line string) (numStat, bool) {
	line = strings.TrimRight(line, "\r")
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) != 3 {
		return numStat{}, false
	}

	added, addedBinary, ok := parseNumStatCount(parts[0])
	if !ok {
		return numStat{}, false
	}
	deleted, deletedBinary, ok := parseNumStatCount(parts[1])
	if !ok {
		return numStat{}, false
	}

	path, oldPath := resolveRenamedPath(unquotePath(parts[2]))
	if path == "" {
		return numStat{}, false
	}

	return numStat{
		path:    path,
		oldPath: oldPath,
		added:   added,
		deleted: deleted,
		binary:  addedBinary || deletedBinary,
	}, true
}

func parseNumStatCount(s string) (n int, binary bool, ok bool) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return 0, true, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, false
	}
	return n, false, true
}

// parseNameStatusLine parses `<code><score?>\t<path>\t<newPath?>`.
func parseNameStatusLine(line string) (nameStatus, bool) {
	line = strings.TrimRight(line, "\r")
	parts := strings.Split(line, "\t")
	if len(parts) < 2 {
		return nameStatus{}, false
	}

	code := strings.TrimSpace(parts[0])
	if code == "" {
		return nameStatus{}, false
	}
	status := statusFromCode(code)

	if status == StatusRenamed || status == StatusCopied {
		if len(parts) < 3 {
			return nameStatus{}, false
		}
		return nameStatus{
			status:  status,
			oldPath: unquotePath(parts[1]),
			path:    unquotePath(parts[2]),
		}, true
	}

	path := unquotePath(parts[1])
	if path == "" {
		return nameStatus{}, false
	}
	return nameStatus{status: status, path: path}, true
}

func statusFromCode(code string) FileStatus {
	switch code[0] {
	case 'A':
		return StatusAdded
	case 'D':
		return StatusDeleted
	case 'R':
		return StatusRenamed
	case 'C':
		return StatusCopied
	default:
		return StatusModified
	}
}

func statusForUnmatchedStat(st numStat) FileStatus {
	if st.oldPath != "" {
		return StatusRenamed
	}
	return StatusModified
}

// resolveRenamedPath expands numstat rename notation into (new, old).
func resolveRenamedPath(path string) (string, string) {
	const arrow = " => "
	if !strings.Contains(path, arrow) {
		return path, ""
	}

	open := strings.IndexByte(path, '{')
	closeIdx := strings.LastIndexByte(path, '}')
	if open != -1 && closeIdx > open {
		prefix, suffix := path[:open], path[closeIdx+1:]
		oldPart, newPart, _ := strings.Cut(path[open+1:closeIdx], arrow)
		return joinRenameParts(prefix, newPart, suffix), joinRenameParts(prefix, oldPart, suffix)
	}

	oldPath, newPath, _ := strings.Cut(path, arrow)
	return newPath, oldPath
}

func joinRenameParts(prefix, middle, suffix string) string {
	// "{ => dir}/file" has an empty side; avoid a doubled slash.
	if middle == "" {
		return prefix + strings.TrimPrefix(suffix, "/")
	}
	return prefix + middle + suffix
}

func unquotePath(path string) string {
	if len(path) >= 2 && path[0] == '"' && path[len(path)-1] == '"' {
		if s, err := strconv.Unquote(path); err == nil {
			return s
		}
	}
	return path
}

// parseRefNames splits %D decorations, e.g. "HEAD -> main, origin/main, tag: v1".
func parseRefNames(decorations string) []string {
	decorations = strings.TrimSpace(decorations)
	if decorations == "" {
		return nil
	}

	var refs []string
	for _, item := range strings.Split(decorations, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if head, target, ok := strings.Cut(item, " -> "); ok {
			refs = append(refs, strings.TrimSpace(head), strings.TrimSpace(target))
			continue
		}
		refs = append(refs, strings.TrimPrefix(item, "tag: "))
	}
	return refs
}

func parseParents(raw string, shortLen int) []Hash {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return nil
	}
	if shortLen <= 0 {
		shortLen = defaultShortHashLen
	}
	parents := make([]Hash, 0, len(fields))
	for _, p := range fields {
		parents = append(parents, Hash{Full: p, Short: shortHash(p, shortLen)})
	}
	return parents
}

func parseUnixTime(raw string) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}

func isFullHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func shortHash(full string, n int) string {
	if len(full) <= n {
		return full
	}
	return full[:n]
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
