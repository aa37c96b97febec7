// package formatter provides functions to export the watchlist to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/pipeline"
)

// ExportToCSV converts a movie list to CSV format with columns: ID, Title, Added By, Status, Rating, Reviews, Added, Letterboxd, IMDb
func ExportToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Added By", "Status", "Rating", "Reviews", "Added", "Letterboxd", "IMDb"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range movies {
		record := []string{
			movie.ID,
			movie.Title,
			movie.Username(),
			string(movie.Status),
			strconv.FormatFloat(movie.RatingValue(), 'f', 1, 64),
			movie.ReviewCount(),
			movie.InsertedAt,
			movie.LetterboxdURL,
			movie.IMDbURL,
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

// ExportToMarkdown converts derived display lists to a Markdown document with optional poster image
func ExportToMarkdown(title string, lists pipeline.DisplayLists, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Poster](%s)\n\n", imageFilename))
	}

	writeSection := func(name string, movies []models.Movie) {
		if len(movies) == 0 {
			return
		}
		buf.WriteString(fmt.Sprintf("## %s (%d)\n\n", name, len(movies)))
		for i, movie := range movies {
			line := fmt.Sprintf("%d. %s", i+1, movie.Title)
			if user := movie.Username(); user != "" {
				line += fmt.Sprintf(" — added by %s", user)
			}
			if rating := movie.RatingValue(); rating > 0 {
				line += fmt.Sprintf(" (%.1f/10)", rating)
			}
			if movie.LetterboxdURL != "" {
				line += fmt.Sprintf(" [[letterboxd](%s)]", movie.LetterboxdURL)
			}
			buf.WriteString(line + "\n")
		}
		buf.WriteString("\n")
	}

	writeSection("Streaming", lists.Streaming)
	writeSection("Watched", lists.Watched.Movies)
	writeSection("Upcoming", lists.Upcoming.Movies)

	return buf.Bytes(), nil
}

// ExportToText converts derived display lists to plain text format
func ExportToText(title string, lists pipeline.DisplayLists) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Watchlist: %s\n", title))
	total := len(lists.Streaming) + len(lists.Watched.Movies) + len(lists.Upcoming.Movies)
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", total))

	writeSection := func(name string, movies []models.Movie) {
		if len(movies) == 0 {
			return
		}
		buf.WriteString(fmt.Sprintf("%s:\n", name))
		for i, movie := range movies {
			if user := movie.Username(); user != "" {
				buf.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, movie.Title, user))
			} else {
				buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, movie.Title))
			}
		}
		buf.WriteString("\n")
	}

	writeSection("Streaming", lists.Streaming)
	writeSection("Watched", lists.Watched.Movies)
	writeSection("Upcoming", lists.Upcoming.Movies)

	return buf.Bytes(), nil
}

// DownloadImage downloads a poster image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteCSVExport exports the full movie list to a CSV file.
//
// Defaults to watchlist_movies.csv as the filename.
func WriteCSVExport(movies []models.Movie, filepath string) (string, error) {
	if filepath == "" {
		filepath = "watchlist_movies.csv"
	}

	csvData, err := ExportToCSV(movies)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory   string
	Files       []string
	PosterImage string
}

// WriteMarkdownExport exports the display lists to Markdown format in a dedicated directory.
//
// The imageURL parameter is optional - if provided, attempts to download a poster image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/poster.jpg
func WriteMarkdownExport(title string, lists pipeline.DisplayLists, outputDir string, imageURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = "watchlist"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var posterFilename string
	if imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download poster image: %v\n", err)
		} else {
			posterFilename = "poster.jpg"
			posterPath := fmt.Sprintf("%s/%s", outputDir, posterFilename)
			if err := os.WriteFile(posterPath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save poster image: %v\n", err)
				posterFilename = ""
			} else {
				result.PosterImage = posterPath
				result.Files = append(result.Files, posterPath)
			}
		}
	}

	mdData, err := ExportToMarkdown(title, lists, posterFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports the display lists to plain text format.
//
// Defaults to watchlist.txt as the filename.
func WriteTextExport(title string, lists pipeline.DisplayLists, filepath string) (string, error) {
	if filepath == "" {
		filepath = "watchlist.txt"
	}

	textData, err := ExportToText(title, lists)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
