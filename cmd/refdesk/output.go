package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/larocca/refdesk/internal/library"
	"github.com/larocca/refdesk/internal/reference"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search/list commands

	ListTitleMaxLen = 50 // Title truncation in list output
	TextWrapWidth   = 60 // Standard text wrap width
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	ID     string `json:"id,omitempty"`
}

// bulkSummary renders the human-mode one-line outcome of a bulk mutation.
func bulkSummary(verb string, result library.BulkResult) string {
	return fmt.Sprintf("%s %d reference(s)", verb, len(result.Succeeded))
}

// printBulkResult prints the human-mode outcome of a bulk mutation, one
// line per failed id after the summary.
func printBulkResult(verb string, result library.BulkResult) {
	fmt.Println(bulkSummary(verb, result))
	for _, f := range result.Failed {
		fmt.Printf("  failed %s: %s\n", f.ID, f.Reason)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// wrapText wraps text to the specified width with indentation on subsequent lines.
func wrapText(text string, width int, indent string) string {
	if len(text) <= width {
		return text
	}

	var lines []string
	words := strings.Fields(text)
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// formatAuthorsShort formats authors with "et al." past maxCount, using
// only the family name of each.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}

	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, reference.FamilyName(a))
	}
	return strings.Join(names, ", ")
}

// printRefDetail prints one reference in the human detail format.
func printRefDetail(ref reference.Reference) {
	fmt.Println(ref.ID)
	fmt.Println(strings.Repeat("═", 70))
	fmt.Println()

	fmt.Printf("Title:    %s\n", wrapText(ref.Title, TextWrapWidth, "          "))
	if len(ref.Authors) > 0 {
		fmt.Printf("Authors:  %s\n", wrapText(strings.Join(ref.Authors, "; "), TextWrapWidth, "          "))
	}
	if ref.Year > 0 {
		fmt.Printf("Year:     %d\n", ref.Year)
	}
	if ref.Journal != "" {
		fmt.Printf("Journal:  %s\n", ref.Journal)
	}
	if ref.Type != "" {
		fmt.Printf("Type:     %s\n", ref.Type)
	}
	if ref.DOI != "" {
		fmt.Printf("DOI:      %s\n", ref.DOI)
	}
	if ref.CitationKey != "" {
		fmt.Printf("Key:      %s\n", ref.CitationKey)
	}
	if len(ref.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(ref.Tags, ", "))
	}
	if ref.Favorite {
		fmt.Println("Favorite: yes")
	}
	if ref.HasPDF {
		fmt.Println("PDF:      attached")
	}

	if ref.Abstract != "" {
		fmt.Println()
		fmt.Println("Abstract:")
		fmt.Printf("  %s\n", wrapText(ref.Abstract, 68, "  "))
	}

	if ref.Notes != "" {
		fmt.Println()
		fmt.Println("Notes:")
		fmt.Printf("  %s\n", wrapText(ref.Notes, 68, "  "))
	}

	if ref.Review != nil {
		fmt.Println()
		fmt.Println("Review:")
		if ref.Review.Rating > 0 {
			fmt.Printf("  Rating: %d/5\n", ref.Review.Rating)
		}
		if ref.Review.Summary != "" {
			fmt.Printf("  %s\n", wrapText(ref.Review.Summary, 68, "  "))
		}
	}
}

// printRefLine prints one reference as a single list line.
func printRefLine(ref reference.Reference) {
	marker := " "
	if ref.Favorite {
		marker = "*"
	}
	year := "    "
	if ref.Year > 0 {
		year = fmt.Sprintf("%d", ref.Year)
	}
	fmt.Printf("%s %s  %s  %s  %s\n",
		marker, ref.ID, year,
		truncateString(ref.Title, ListTitleMaxLen),
		formatAuthorsShort(ref.Authors, 3))
}
