package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/payee-classifier/internal/model"
	"github.com/Veraticus/payee-classifier/internal/storage"
)

// FormatClassification renders a verdict with its color.
func FormatClassification(c model.Classification) string {
	switch c {
	case model.Business:
		return BusinessStyle.Render(string(c))
	case model.Individual:
		return IndividualStyle.Render(string(c))
	default:
		return string(c)
	}
}

// FormatResult renders a single-name classification.
func FormatResult(name string, r model.ClassificationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s)\n", BoldStyle.Render(name+":"), FormatClassification(r.Classification), FormatConfidence(r.Confidence))
	fmt.Fprintf(&b, "Tier:      %s\n", r.ProcessingTier)
	fmt.Fprintf(&b, "Method:    %s\n", r.ProcessingMethod)
	fmt.Fprintf(&b, "Reasoning: %s", r.Reasoning)
	if r.SICCode != "" {
		fmt.Fprintf(&b, "\nSIC:       %s %s", r.SICCode, r.SICDescription)
	}
	if len(r.MatchingRules) > 0 {
		fmt.Fprintf(&b, "\nRules:     %s", strings.Join(r.MatchingRules, "; "))
	}
	return b.String()
}

// FormatBatchSummary renders the statistics box shown after a batch.
func FormatBatchSummary(result *model.BatchProcessingResult) string {
	stats := result.EnhancedStats
	total := len(result.Results)

	var b strings.Builder
	fmt.Fprintf(&b, "  Payees:      %d (%d ok, %d failed)\n", total, result.SuccessCount, result.FailureCount)
	fmt.Fprintf(&b, "  Business:    %s\n", BusinessStyle.Render(fmt.Sprint(stats.ByClassification[model.Business])))
	fmt.Fprintf(&b, "  Individual:  %s\n", IndividualStyle.Render(fmt.Sprint(stats.ByClassification[model.Individual])))
	fmt.Fprintf(&b, "  Excluded:    %d\n", stats.ExcludedCount)
	fmt.Fprintf(&b, "  Confidence:  %d high, %d medium, %d low (avg %.2f)\n",
		stats.HighConfidence, stats.MediumConfidence, stats.LowConfidence, stats.AverageConfidence)
	fmt.Fprintf(&b, "  Cache hits:  %d\n", stats.CacheHits)

	tiers := make([]string, 0, len(stats.ByTier))
	for tier := range stats.ByTier {
		tiers = append(tiers, string(tier))
	}
	sort.Strings(tiers)
	for _, tier := range tiers {
		fmt.Fprintf(&b, "  %-12s %d\n", tier+":", stats.ByTier[model.ProcessingTier(tier)])
	}

	fmt.Fprintf(&b, "  Time:        %s", result.ProcessingTime.Round(time.Millisecond))
	if result.BatchID != "" {
		fmt.Fprintf(&b, "\n  Batch:       %s", SubtleStyle.Render(result.BatchID))
	}

	return RenderBox("Classification Complete", b.String())
}

// FormatBatchList renders stored batch summaries as a table.
func FormatBatchList(batches []storage.BatchSummary) string {
	if len(batches) == 0 {
		return FormatInfo("No stored batches")
	}

	headers := []string{"Batch", "Payees", "Business", "Individual", "Last classified"}
	rows := make([][]string, len(batches))
	for i, s := range batches {
		rows[i] = []string{
			s.BatchID,
			fmt.Sprint(s.Total),
			fmt.Sprint(s.Businesses),
			fmt.Sprint(s.Individuals),
			s.LastClassified.Local().Format("2006-01-02 15:04"),
		}
	}
	return renderTable(headers, rows)
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = TableCellStyle.Render(style.Width(widths[i]).Render(cell))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	out := []string{line(headers, BoldStyle)}
	for _, row := range rows {
		out = append(out, line(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}
