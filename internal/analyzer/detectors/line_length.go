package detectors

import (
	"fmt"

	"coderefine/internal/models"
	"coderefine/internal/source"
)

// LineLengthDetector flags physical lines longer than the configured limit.
type LineLengthDetector struct {
	maxLength     int
	snippetLength int
}

func NewLineLengthDetector(opts Options) *LineLengthDetector {
	opts = opts.Normalize()
	return &LineLengthDetector{maxLength: opts.MaxLineLength, snippetLength: opts.SnippetLength}
}

func (d *LineLengthDetector) Name() string {
	return "Line Length Detector"
}

// Detect reports one formatting issue per overlong line. Only the first
// snippetLength characters of the line are kept.
func (d *LineLengthDetector) Detect(lines *source.Lines) []models.Issue {
	var issues []models.Issue
	for i, line := range lines.All() {
		if source.Width(line) <= d.maxLength {
			continue
		}
		excerpt := source.Truncate(line, d.snippetLength)
		issues = append(issues, NewIssue(i+1, models.CategoryStatic, models.KindFormatting,
			fmt.Sprintf("Line exceeds %d characters: %s", d.maxLength, excerpt), excerpt))
	}
	return issues
}
