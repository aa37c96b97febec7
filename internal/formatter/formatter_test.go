package formatter

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/pipeline"
	th "github.com/movienite/nite/internal/testing"
)

func sampleLists() pipeline.DisplayLists {
	return pipeline.DisplayLists{
		Streaming: []models.Movie{
			{ID: "s1", Title: "Tonight's Pick", Status: models.StatusStreaming, User: &models.MovieUser{Username: "alice"}},
		},
		Watched: pipeline.Page{
			Movies: []models.Movie{
				{ID: "w1", Title: "Paprika", Status: models.StatusWatched, Rating: "8.1/10", LetterboxdURL: "https://letterboxd.com/film/paprika/"},
			},
		},
		Upcoming: pipeline.Page{
			Movies: []models.Movie{
				{ID: "u1", Title: "Moon", Status: models.StatusUpcoming, User: &models.MovieUser{Username: "bob"}},
			},
		},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		movies := []models.Movie{
			{
				ID:            "m1",
				Title:         "Paprika",
				Status:        models.StatusWatched,
				Rating:        "8.1/10",
				Votes:         "1234",
				InsertedAt:    "2024-05-01 10:00:00",
				LetterboxdURL: "https://letterboxd.com/film/paprika/",
				User:          &models.MovieUser{Username: "alice"},
			},
			{ID: "m2", Title: "Moon", Status: models.StatusUpcoming},
		}

		data, err := ExportToCSV(movies)
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Added By,Status,Rating,Reviews,Added,Letterboxd,IMDb") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Paprika") {
			t.Errorf("CSV missing movie title")
		}
		if !strings.Contains(output, "alice") {
			t.Errorf("CSV missing attributed user")
		}
		if !strings.Contains(output, "8.1") {
			t.Errorf("CSV missing parsed rating")
		}
		if !strings.Contains(output, "1234") {
			t.Errorf("CSV missing vote count")
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("Movie Night", sampleLists(), "poster.jpg")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Movie Night") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "![Poster](poster.jpg)") {
			t.Errorf("Markdown missing poster image")
		}
		for _, section := range []string{"## Streaming (1)", "## Watched (1)", "## Upcoming (1)"} {
			if !strings.Contains(output, section) {
				t.Errorf("Markdown missing section %q", section)
			}
		}
		if !strings.Contains(output, "(8.1/10)") {
			t.Errorf("Markdown missing rating annotation")
		}
		if !strings.Contains(output, "[letterboxd](https://letterboxd.com/film/paprika/)") {
			t.Errorf("Markdown missing letterboxd link")
		}
	})

	t.Run("ExportToMarkdown Without Image", func(t *testing.T) {
		data, err := ExportToMarkdown("Movie Night", sampleLists(), "")
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}
		if strings.Contains(string(data), "![Poster]") {
			t.Errorf("Markdown should omit poster when no image given")
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText("Movie Night", sampleLists())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "Watchlist: Movie Night") {
			t.Errorf("Text missing title")
		}
		if !strings.Contains(output, "Movies: 3") {
			t.Errorf("Text missing total count, got: %s", output)
		}
		if !strings.Contains(output, "1. Tonight's Pick (alice)") {
			t.Errorf("Text missing streaming entry")
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("fake-image-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil {
			t.Fatalf("DownloadImage failed: %v", err)
		}
		if string(data) != "fake-image-bytes" {
			t.Errorf("unexpected image data: %s", data)
		}
	})

	t.Run("Empty URL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Non-200 Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404 response")
		}
	})
}

func TestFileExports(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "movies.csv")

		written, err := WriteCSVExport([]models.Movie{{ID: "m1", Title: "Moon"}}, path)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		th.AssertFileExists(t, path)
		if !strings.Contains(string(th.MustReadFile(t, path)), "Moon") {
			t.Errorf("written CSV missing movie")
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "export")

		result, err := WriteMarkdownExport("Movie Night", sampleLists(), dir, "")
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if result.Directory != dir {
			t.Errorf("expected directory %s, got %s", dir, result.Directory)
		}

		th.AssertFileExists(t, filepath.Join(dir, "README.md"))
		if result.PosterImage != "" {
			t.Errorf("expected no poster without image URL")
		}
	})

	t.Run("WriteMarkdownExport With Poster", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("poster-bytes"))
		}))
		defer server.Close()

		dir := filepath.Join(t.TempDir(), "export")
		result, err := WriteMarkdownExport("Movie Night", sampleLists(), dir, server.URL)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}

		th.AssertFileExists(t, filepath.Join(dir, "poster.jpg"))
		if result.PosterImage == "" {
			t.Error("expected poster image path in result")
		}
	})

	t.Run("WriteTextExport Defaults Filename", func(t *testing.T) {
		dir := t.TempDir()
		cwd, _ := os.Getwd()
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("chdir: %v", err)
		}
		defer os.Chdir(cwd)

		written, err := WriteTextExport("Movie Night", sampleLists(), "")
		if err != nil {
			t.Fatalf("WriteTextExport failed: %v", err)
		}
		if written != "watchlist.txt" {
			t.Errorf("expected default filename, got %s", written)
		}
		th.AssertFileExists(t, written)
	})
}
