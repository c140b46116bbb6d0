// package formatter renders affinity results to various formats (CSV, Markdown, plain text)
// and styles CLI output.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/CarterSwain/sonic-circle-backend/internal/affinity"
	"github.com/CarterSwain/sonic-circle-backend/internal/shared"
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// RenderSuggestions produces styled terminal output for a ranked suggestion list.
func RenderSuggestions(suggestions []affinity.Suggestion) string {
	var buf bytes.Buffer

	buf.WriteString(styles.title.Render("Suggested connections"))
	buf.WriteString("\n")

	if len(suggestions) == 0 {
		buf.WriteString(styles.help.Render("No overlapping listeners found."))
		buf.WriteString("\n")
		return buf.String()
	}

	for i, s := range suggestions {
		buf.WriteString(fmt.Sprintf("%d. %s %s\n", i+1,
			styles.ok.Render(s.SpotifyID),
			styles.help.Render(fmt.Sprintf("(%d shared artists)", s.SharedArtistCount))))
	}

	return buf.String()
}

// RenderComparison produces styled terminal output for a pairwise comparison.
func RenderComparison(comparison *affinity.Comparison) string {
	var buf bytes.Buffer

	buf.WriteString(styles.title.Render(fmt.Sprintf("%s vs %s",
		comparison.UserA.DisplayName, comparison.UserB.DisplayName)))
	buf.WriteString("\n")

	buf.WriteString(fmt.Sprintf("Shared artists: %s\n", styles.ok.Render(strconv.Itoa(comparison.SharedArtistCount))))
	buf.WriteString(fmt.Sprintf("Shared tracks:  %s\n", styles.ok.Render(strconv.Itoa(comparison.SharedTrackCount))))

	for _, artist := range comparison.SharedArtists {
		buf.WriteString(fmt.Sprintf("  - %s\n", artist.Name))
	}
	for _, track := range comparison.SharedTracks {
		buf.WriteString(fmt.Sprintf("  - %s - %s\n", track.Artist, track.Name))
	}

	return buf.String()
}

// RenderError styles an error message for CLI output.
func RenderError(err error) string {
	return styles.err.Render(fmt.Sprintf("Error: %v", err))
}

// ComparisonToCSV converts shared tracks to CSV format with columns: ID, Title, Artist, Album
func ComparisonToCSV(comparison *affinity.Comparison) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Album"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range comparison.SharedTracks {
		record := []string{
			track.ID,
			track.Name,
			track.Artist,
			track.Album,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ComparisonToMarkdown converts a comparison to Markdown format
func ComparisonToMarkdown(comparison *affinity.Comparison) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s vs %s\n\n", comparison.UserA.DisplayName, comparison.UserB.DisplayName))

	buf.WriteString(fmt.Sprintf("**Shared artists**: %d\n", comparison.SharedArtistCount))
	buf.WriteString(fmt.Sprintf("**Shared tracks**: %d\n\n", comparison.SharedTrackCount))

	buf.WriteString("## Shared Artists\n\n")
	for i, artist := range comparison.SharedArtists {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, artist.Name))
	}

	buf.WriteString("\n## Shared Tracks\n\n")
	for i, track := range comparison.SharedTracks {
		albumPart := ""
		if track.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", track.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s\n", i+1, track.Artist, track.Name, albumPart))
	}

	return buf.Bytes(), nil
}

// SuggestionsToText converts a suggestion list to plain text format
func SuggestionsToText(suggestions []affinity.Suggestion) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Suggestions: %d\n\n", len(suggestions)))

	for i, s := range suggestions {
		buf.WriteString(fmt.Sprintf("%d. %s - %d shared artists\n", i+1, s.SpotifyID, s.SharedArtistCount))
	}

	return buf.Bytes(), nil
}

// ToComparisonJSON generates a pretty JSON representation of a comparison
func ToComparisonJSON(comparison *affinity.Comparison) ([]byte, error) {
	return shared.MarshalJSON(comparison, true)
}

// ComparisonExportResult contains the paths of files created by WriteComparisonExport
type ComparisonExportResult struct {
	CSVFile      string
	MarkdownFile string
}

// WriteComparisonExport writes a comparison to {base}_shared.csv and {base}_comparison.md.
//
// Defaults to "comparison" as the base filename.
func WriteComparisonExport(comparison *affinity.Comparison, baseFilepath string) (*ComparisonExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "comparison"
	}

	csvData, err := ComparisonToCSV(comparison)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	csvFile := baseFilepath + "_shared.csv"
	if err := os.WriteFile(csvFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	mdData, err := ComparisonToMarkdown(comparison)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := baseFilepath + "_comparison.md"
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return &ComparisonExportResult{
		CSVFile:      csvFile,
		MarkdownFile: mdFile,
	}, nil
}
