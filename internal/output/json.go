package output

import (
	"encoding/json"
	"time"

	"github.com/masmgr/githistory-go/internal/git"
)

// JSONLogWriter writes log pages as JSON.
type JSONLogWriter struct{}

// JSONLogReport is the JSON output structure for a log page.
type JSONLogReport struct {
	RepoPath    string       `json:"repo"`
	GeneratedAt string       `json:"generatedAt"`
	Branch      string       `json:"branch,omitempty"`
	Path        string       `json:"path,omitempty"`
	SearchText  string       `json:"searchText,omitempty"`
	PageIndex   int          `json:"pageIndex"`
	PageSize    int          `json:"pageSize"`
	TotalCount  int          `json:"totalCount"`
	Items       []JSONCommit `json:"items"`
}

// JSONCommit is the JSON output structure for a single commit.
type JSONCommit struct {
	Hash         string     `json:"hash"`
	ShortHash    string     `json:"shortHash"`
	Parents      []string   `json:"parents"`
	Author       JSONPerson `json:"author"`
	Committer    JSONPerson `json:"committer"`
	AuthorDate   string     `json:"authorDate,omitempty"`
	CommitDate   string     `json:"commitDate,omitempty"`
	Subject      string     `json:"subject"`
	Body         string     `json:"body,omitempty"`
	Refs         []string   `json:"refs"`
	IsLastCommit bool       `json:"isLastCommit"`
	IsMerged     bool       `json:"isMerged"`
	Files        []JSONFile `json:"files,omitempty"`
}

// JSONPerson is an author or committer.
type JSONPerson struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// JSONFile is the JSON output structure for a changed file.
type JSONFile struct {
	Path         string `json:"path"`
	PreviousPath string `json:"previousPath,omitempty"`
	Status       string `json:"status"`
	LinesAdded   int    `json:"linesAdded"`
	LinesDeleted int    `json:"linesDeleted"`
	Binary       bool   `json:"binary,omitempty"`
}

// Write outputs the log page as JSON.
func (w *JSONLogWriter) Write(report *LogReport, options OutputOptions) error {
	page := report.Page
	items := limitTop(page.Items, options.Top)

	jsonItems := make([]JSONCommit, len(items))
	for i, e := range items {
		jsonItems[i] = toJSONCommit(e)
	}

	return writeJSON(JSONLogReport{
		RepoPath:    report.RepoPath,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Branch:      page.Branch,
		Path:        page.Path,
		SearchText:  page.SearchText,
		PageIndex:   page.PageIndex,
		PageSize:    page.PageSize,
		TotalCount:  page.TotalCount,
		Items:       jsonItems,
	}, options)
}

// JSONCommitWriter writes commit detail as JSON.
type JSONCommitWriter struct{}

// JSONCommitReport is the JSON output structure for commit detail.
type JSONCommitReport struct {
	RepoPath    string     `json:"repo"`
	GeneratedAt string     `json:"generatedAt"`
	Commit      JSONCommit `json:"commit"`
}

// Write outputs the commit as JSON.
func (w *JSONCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	c := toJSONCommit(*report.Commit)
	c.Files = toJSONFiles(limitTop(report.Commit.Files, options.Top))
	return writeJSON(JSONCommitReport{
		RepoPath:    report.RepoPath,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Commit:      c,
	}, options)
}

// JSONDiffWriter writes diffs as JSON.
type JSONDiffWriter struct{}

// JSONDiffReport is the JSON output structure for a diff.
type JSONDiffReport struct {
	RepoPath    string     `json:"repo"`
	GeneratedAt string     `json:"generatedAt"`
	Base        string     `json:"base"`
	Head        string     `json:"head"`
	TotalFiles  int        `json:"totalFiles"`
	Files       []JSONFile `json:"files"`
}

// Write outputs the diff as JSON.
func (w *JSONDiffWriter) Write(report *DiffReport, options OutputOptions) error {
	files := toJSONFiles(limitTop(report.Files, options.Top))
	if files == nil {
		files = []JSONFile{}
	}
	return writeJSON(JSONDiffReport{
		RepoPath:    report.RepoPath,
		GeneratedAt: report.GeneratedAt.Format(time.RFC3339),
		Base:        report.Base,
		Head:        report.Head,
		TotalFiles:  len(report.Files),
		Files:       files,
	}, options)
}

// JSONRefsWriter writes ref listings as JSON.
type JSONRefsWriter struct{}

// JSONRefsReport is the JSON output structure for a ref listing.
type JSONRefsReport struct {
	RepoPath      string       `json:"repo"`
	GeneratedAt   string       `json:"generatedAt"`
	CurrentBranch string       `json:"currentBranch,omitempty"`
	Refs          []JSONRef    `json:"refs"`
	Branches      []JSONBranch `json:"branches"`
}

// JSONRef is one branch tip.
type JSONRef struct {
	Ref  string `json:"ref"`
	Hash string `json:"hash"`
}

// JSONBranch is one local branch.
type JSONBranch struct {
	Name      string `json:"name"`
	IsCurrent bool   `json:"isCurrent"`
}

// Write outputs the ref listing as JSON.
func (w *JSONRefsWriter) Write(report *RefsReport, options OutputOptions) error {
	refs := make([]JSONRef, len(report.Refs))
	for i, r := range report.Refs {
		refs[i] = JSONRef{Ref: r.Ref, Hash: r.Hash}
	}
	branches := make([]JSONBranch, len(report.Branches))
	for i, b := range report.Branches {
		branches[i] = JSONBranch{Name: b.Name, IsCurrent: b.IsCurrent}
	}
	return writeJSON(JSONRefsReport{
		RepoPath:      report.RepoPath,
		GeneratedAt:   report.GeneratedAt.Format(time.RFC3339),
		CurrentBranch: report.CurrentBranch,
		Refs:          refs,
		Branches:      branches,
	}, options)
}

func toJSONCommit(e git.LogEntry) JSONCommit {
	parents := make([]string, len(e.Parents))
	for i, p := range e.Parents {
		parents[i] = p.Full
	}
	refs := e.Refs
	if refs == nil {
		refs = []string{}
	}
	return JSONCommit{
		Hash:         e.Hash.Full,
		ShortHash:    e.Hash.Short,
		Parents:      parents,
		Author:       JSONPerson{Name: e.Author.Name, Email: e.Author.Email},
		Committer:    JSONPerson{Name: e.Committer.Name, Email: e.Committer.Email},
		AuthorDate:   formatTime(e.AuthorDate, time.RFC3339),
		CommitDate:   formatTime(e.CommitDate, time.RFC3339),
		Subject:      e.Subject,
		Body:         e.Body,
		Refs:         refs,
		IsLastCommit: e.IsLastCommit,
		IsMerged:     e.IsMerged,
	}
}

func toJSONFiles(files []git.CommittedFile) []JSONFile {
	if files == nil {
		return nil
	}
	out := make([]JSONFile, len(files))
	for i, f := range files {
		out[i] = JSONFile{
			Path:         f.RelativePath,
			PreviousPath: f.PreviousPath,
			Status:       f.Status.String(),
			LinesAdded:   f.LinesAdded,
			LinesDeleted: f.LinesDeleted,
			Binary:       f.Binary,
		}
	}
	return out
}

func writeJSON(data interface{}, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
