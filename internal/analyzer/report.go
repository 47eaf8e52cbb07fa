package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"coderefine/internal/config"
	"coderefine/internal/models"
	"coderefine/internal/scoring"
)

// ReportGenerator handles formatting and displaying analysis results
type ReportGenerator struct {
	format string
	config *config.Config
	scorer *scoring.Scorer
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(format string) *ReportGenerator {
	cfg := config.DefaultConfig()
	cfg.Output.Format = format
	return NewReportGeneratorWithConfig(cfg)
}

func NewReportGeneratorWithConfig(cfg *config.Config) *ReportGenerator {
	return &ReportGenerator{
		format: cfg.Output.Format,
		config: cfg,
		scorer: scoring.NewScorer(cfg.Thresholds()),
	}
}

// Generate creates a formatted report from analysis results
func (r *ReportGenerator) Generate(results []*models.AnalysisResult) string {
	switch r.format {
	case "json":
		return r.generateJSON(results)
	default:
		return r.generateConsole(results)
	}
}

// generateJSON emits a single object for one result and an array otherwise.
func (r *ReportGenerator) generateJSON(results []*models.AnalysisResult) string {
	var payload any = results
	if len(results) == 1 {
		payload = results[0]
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Sprintf("Error generating JSON report: %v", err)
	}
	return string(data) + "\n"
}

func (r *ReportGenerator) paint(c *color.Color, format string, a ...any) string {
	if !r.config.Output.Colors {
		return fmt.Sprintf(format, a...)
	}
	return c.Sprintf(format, a...)
}

func (r *ReportGenerator) icon(emoji string) string {
	if !r.config.Output.Colors {
		return ""
	}
	return emoji + " "
}

var (
	headerColor = color.New(color.FgCyan)
	titleColor  = color.New(color.FgWhite, color.Bold)
	goodColor   = color.New(color.FgGreen)
	warnColor   = color.New(color.FgYellow)
	badColor    = color.New(color.FgRed)
	hintColor   = color.New(color.FgHiBlack)
)

// generateConsole creates a colorized console report
func (r *ReportGenerator) generateConsole(results []*models.AnalysisResult) string {
	var report strings.Builder

	report.WriteString(r.paint(headerColor, "%sCodeRefine Analysis Report\n", r.icon("🔍")))
	report.WriteString(r.paint(headerColor, "%s\n\n", strings.Repeat("═", 39)))

	if r.config.Output.Verbose {
		r.writeConfigInfo(&report)
	}

	totalIssues := 0
	for _, result := range results {
		r.writeResult(&report, result)
		totalIssues += result.TotalIssues()
	}

	report.WriteString(r.paint(titleColor, "Analyzed %s snippet(s), %s issue(s) found\n",
		humanize.Comma(int64(len(results))), humanize.Comma(int64(totalIssues))))
	return report.String()
}

func (r *ReportGenerator) writeConfigInfo(report *strings.Builder) {
	th := r.config.Analysis.ScoreThresholds
	report.WriteString(r.paint(titleColor, "%sConfiguration:\n", r.icon("📋")))
	fmt.Fprintf(report, "   Score thresholds: %s\n", r.paint(headerColor, "%d/%d", th.Good, th.Acceptable))
	fmt.Fprintf(report, "   Max line length: %d\n", r.config.Analysis.MaxLineLength)
	var disabled []string
	for rule := range r.config.DetectorOptions().Disabled {
		disabled = append(disabled, rule)
	}
	if len(disabled) > 0 {
		sort.Strings(disabled)
		fmt.Fprintf(report, "   Disabled rules: %s\n", strings.Join(disabled, ", "))
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeResult(report *strings.Builder, result *models.AnalysisResult) {
	name := result.File
	if name == "" {
		name = "<snippet>"
	}
	report.WriteString(r.paint(titleColor, "%s%s (%s)\n", r.icon("📄"), name, result.Language))
	if result.ReportID != "" {
		report.WriteString(r.paint(hintColor, "   Report ID: %s\n", result.ReportID))
	}

	r.writeScore(report, result.Score)
	r.writeComplexity(report, result)

	if result.TotalIssues() == 0 {
		report.WriteString(r.paint(goodColor, "%sNo issues detected!\n\n", r.icon("🎉")))
	} else {
		report.WriteString(r.issueTable(result.AllIssues()))
		report.WriteString("\n\n")
	}

	if r.config.Output.ShowSuggestions && len(result.Optimizations) > 0 {
		r.writeSuggestions(report, result.Optimizations)
	}
}

// writeScore colors the score by the label it falls into.
func (r *ReportGenerator) writeScore(report *strings.Builder, score models.Score) {
	scoreColor, emoji := badColor, "🚨"
	switch r.scorer.Label(score.Value) {
	case scoring.LabelGood:
		scoreColor, emoji = goodColor, "🌟"
	case scoring.LabelAcceptable:
		scoreColor, emoji = warnColor, "⚡"
	}
	fmt.Fprintf(report, "%sQuality Score: %s/100\n", r.icon(emoji), r.paint(scoreColor, "%d", score.Value))
	for _, reason := range score.Reasons {
		fmt.Fprintf(report, "   - %s\n", reason)
	}
	report.WriteString("\n")
}

func (r *ReportGenerator) writeComplexity(report *strings.Builder, result *models.AnalysisResult) {
	fmt.Fprintf(report, "%sTime: %s   Space: %s\n", r.icon("📊"),
		r.paint(warnColor, "%s", result.EstimatedTimeComplexity),
		r.paint(warnColor, "%s", result.EstimatedSpaceComplexity))
	if r.config.Output.Verbose {
		writeEvidence(report, "Time", result.TimeEvidence)
		writeEvidence(report, "Space", result.SpaceEvidence)
	}
	report.WriteString("\n")
}

func writeEvidence(report *strings.Builder, label string, evidence []models.Evidence) {
	for _, ev := range evidence {
		if ev.Line > 0 {
			fmt.Fprintf(report, "   %s L%d %s: %s\n", label, ev.Line, ev.Contribution, ev.Reason)
		} else {
			fmt.Fprintf(report, "   %s %s: %s\n", label, ev.Contribution, ev.Reason)
		}
	}
}

// issueTable renders issues sorted by severity, most severe first, then by
// line.
func (r *ReportGenerator) issueTable(issues []models.Issue) string {
	sorted := make([]models.Issue, len(issues))
	copy(sorted, issues)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, sj := sorted[i].Kind.Severity(), sorted[j].Kind.Severity()
		if si != sj {
			return si > sj
		}
		return sorted[i].Line < sorted[j].Line
	})

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.AppendHeader(table.Row{"Line", "Category", "Type", "Severity", "Message"})
	for _, issue := range sorted {
		line := "-"
		if issue.Line > 0 {
			line = fmt.Sprint(issue.Line)
		}
		message := issue.Message
		if issue.Complexity != "" {
			message += " [" + issue.Complexity + "]"
		}
		tbl.AppendRow(table.Row{line, issue.Category, issue.Kind, r.severity(issue.Kind.Severity()), message})
	}
	tbl.AppendFooter(table.Row{"", "", "", "Total", len(sorted)})
	return tbl.Render()
}

func (r *ReportGenerator) severity(s models.Severity) string {
	switch s {
	case models.SeverityCritical:
		return r.paint(badColor, "%s", s)
	case models.SeverityMajor:
		return r.paint(warnColor, "%s", s)
	case models.SeverityMinor:
		return r.paint(headerColor, "%s", s)
	default:
		return s.String()
	}
}

func (r *ReportGenerator) writeSuggestions(report *strings.Builder, suggestions []models.Suggestion) {
	report.WriteString(r.paint(titleColor, "%sSuggestions:\n", r.icon("💡")))
	for _, s := range suggestions {
		location := ""
		if s.Line > 0 {
			location = fmt.Sprintf("line %d: ", s.Line)
		}
		report.WriteString(r.paint(goodColor, "   - %s%s\n", location, s.Message))
		for _, line := range strings.Split(s.Summary, "\n") {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(report, "       %s\n", strings.TrimSpace(line))
			}
		}
	}
	report.WriteString("\n")
}

// Digest is a short plain-text summary of a result, stored alongside the
// JSON report in history.
func Digest(result *models.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Quality score: %d/100\n", result.Score.Value)
	for _, reason := range result.Score.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	fmt.Fprintf(&b, "Time complexity: %s\n", result.EstimatedTimeComplexity)
	fmt.Fprintf(&b, "Space complexity: %s\n", result.EstimatedSpaceComplexity)
	fmt.Fprintf(&b, "Issues: %d static, %d logic, %d complexity\n",
		len(result.StaticIssues), len(result.LogicIssues), len(result.ComplexityIssues))
	for _, s := range result.Optimizations {
		fmt.Fprintf(&b, "- %s\n", s.Message)
	}
	return b.String()
}
