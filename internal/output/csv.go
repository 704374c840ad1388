package output

import (
	"encoding/csv"
	"strconv"
	"time"

	"github.com/masmgr/githistory-go/internal/git"
)

// CSVLogWriter writes log pages as CSV.
type CSVLogWriter struct{}

// Write outputs the log page as CSV, one row per commit.
func (w *CSVLogWriter) Write(report *LogReport, options OutputOptions) error {
	return writeCSV(options, []string{"Hash", "ShortHash", "Parents", "AuthorName", "AuthorEmail",
		"AuthorDate", "CommitDate", "Subject", "Refs", "IsLastCommit", "IsMerged"},
		func(emit func([]string) error) error {
			for _, e := range limitTop(report.Page.Items, options.Top) {
				if err := emit([]string{
					e.Hash.Full,
					e.Hash.Short,
					parentList(e.Parents, false),
					e.Author.Name,
					e.Author.Email,
					formatTime(e.AuthorDate, time.RFC3339),
					formatTime(e.CommitDate, time.RFC3339),
					e.Subject,
					joinRefs(e.Refs),
					strconv.FormatBool(e.IsLastCommit),
					strconv.FormatBool(e.IsMerged),
				}); err != nil {
					return err
				}
			}
			return nil
		})
}

// CSVCommitWriter writes commit detail as CSV.
type CSVCommitWriter struct{}

// Write outputs the changed files of a commit as CSV.
func (w *CSVCommitWriter) Write(report *CommitReport, options OutputOptions) error {
	hash := report.Commit.Hash.Full
	return writeCSV(options, append([]string{"Commit"}, fileHeaders...),
		func(emit func([]string) error) error {
			for _, f := range limitTop(report.Commit.Files, options.Top) {
				if err := emit(append([]string{hash}, fileRow(f)...)); err != nil {
					return err
				}
			}
			return nil
		})
}

// CSVDiffWriter writes diffs as CSV.
type CSVDiffWriter struct{}

// Write outputs the files changed between two revisions as CSV.
func (w *CSVDiffWriter) Write(report *DiffReport, options OutputOptions) error {
	return writeCSV(options, fileHeaders, func(emit func([]string) error) error {
		for _, f := range limitTop(report.Files, options.Top) {
			if err := emit(fileRow(f)); err != nil {
				return err
			}
		}
		return nil
	})
}

// CSVRefsWriter writes ref listings as CSV.
type CSVRefsWriter struct{}

// Write outputs branch tips as CSV.
func (w *CSVRefsWriter) Write(report *RefsReport, options OutputOptions) error {
	return writeCSV(options, []string{"Ref", "Hash"}, func(emit func([]string) error) error {
		for _, r := range report.Refs {
			if err := emit([]string{r.Ref, r.Hash}); err != nil {
				return err
			}
		}
		return nil
	})
}

var fileHeaders = []string{"Status", "Path", "PreviousPath", "LinesAdded", "LinesDeleted", "Binary"}

func fileRow(f git.CommittedFile) []string {
	return []string{
		f.Status.Code(),
		f.RelativePath,
		f.PreviousPath,
		strconv.Itoa(f.LinesAdded),
		strconv.Itoa(f.LinesDeleted),
		strconv.FormatBool(f.Binary),
	}
}

func writeCSV(options OutputOptions, headers []string, rows func(emit func([]string) error) error) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(headers); err != nil {
		return err
	}
	if err := rows(writer.Write); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
