package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/movienite/nite/internal/formatter"
	"github.com/movienite/nite/internal/models"
	"github.com/movienite/nite/internal/pipeline"
	"github.com/movienite/nite/internal/shared"
	"github.com/urfave/cli/v3"
)

// criteriaFromFlags builds filter/sort/page criteria from command flags,
// falling back to persisted preferences for anything left unset.
func (r *Runner) criteriaFromFlags(cmd *cli.Command) pipeline.Criteria {
	criteria := pipeline.DefaultCriteria()

	if store, db, err := r.openPrefs(); err == nil {
		defer db.Close()
		if field, ok := pipeline.ParseSortField(store.SortField()); ok {
			criteria.Sort = field
		}
		criteria.Reverse = store.SortReverse()
		criteria.PageSize = store.PageSize()
	} else {
		r.logger.Debug("preference database unavailable, using defaults", "error", err)
	}

	criteria.Search = cmd.String("search")
	criteria.User = pipeline.UserFilter{
		Query: cmd.String("user"),
		Users: cmd.StringSlice("users"),
	}
	if cmd.Bool("exclude") {
		criteria.User.Mode = pipeline.ModeBlacklist
	}

	switch pipeline.ContentFilter(strings.ToLower(cmd.String("content"))) {
	case pipeline.ContentFlagged:
		criteria.Content = pipeline.ContentFlagged
	case pipeline.ContentUnflagged:
		criteria.Content = pipeline.ContentUnflagged
	default:
		criteria.Content = pipeline.ContentAll
	}

	if cmd.IsSet("sort") {
		if field, ok := pipeline.ParseSortField(cmd.String("sort")); ok {
			criteria.Sort = field
		} else {
			r.logger.Warn("unknown sort field, keeping default", "sort", cmd.String("sort"))
		}
	}
	if cmd.IsSet("reverse") {
		criteria.Reverse = cmd.Bool("reverse")
	}
	if cmd.IsSet("page-size") {
		criteria.PageSize = cmd.Int("page-size")
	}
	criteria.WatchedPage = cmd.Int("watched-page")
	criteria.UpcomingPage = cmd.Int("upcoming-page")

	return criteria
}

// MoviesList fetches the watchlist and prints it grouped by status.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	criteria := r.criteriaFromFlags(cmd)

	movies, err := r.movies.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	lists := pipeline.Derive(movies, criteria)

	if cmd.Bool("json") {
		return r.writeJSON(lists, cmd.Bool("pretty"))
	}

	r.renderSection("Streaming", lists.Streaming, pipeline.Page{})
	r.renderSection("Watched", lists.Watched.Movies, lists.Watched)
	r.renderSection("Upcoming", lists.Upcoming.Movies, lists.Upcoming)

	total := len(lists.Streaming) + len(lists.Watched.Movies) + len(lists.Upcoming.Movies)
	if total == 0 {
		r.writePlain("No movies match the current filters\n")
	}

	return nil
}

func (r *Runner) renderSection(title string, movies []models.Movie, page pipeline.Page) {
	if len(movies) == 0 {
		return
	}

	if page.Total > 0 {
		r.writePlainHeader(fmt.Sprintf("%s (page %d/%d)", title, page.Index+1, page.Total))
	} else {
		r.writePlainHeader(fmt.Sprintf("%s (%d)", title, len(movies)))
	}

	for _, movie := range movies {
		line := fmt.Sprintf("  %s", movie.Title)
		if user := movie.Username(); user != "" {
			line += fmt.Sprintf(" — %s", user)
		}
		if rating := movie.RatingValue(); rating > 0 {
			line += fmt.Sprintf(" (%.1f/10)", rating)
		}
		if movie.Boobies {
			line += " [flagged]"
		}
		r.writePlain("%s\n", line)
		r.writePlain("    id: %s\n", movie.ID)
	}
	r.writePlain("\n")
}

// MoviesAdd submits a movie URL to the watchlist.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	movieURL := cmd.StringArg("url")
	if strings.TrimSpace(movieURL) == "" {
		return fmt.Errorf("%w: a movie URL is required", shared.ErrMissingArgument)
	}

	r.logger.Info("submitting movie", "url", movieURL)

	if err := r.api.AddMovie(ctx, movieURL); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Movie submitted\n")
}

// MoviesSetStatus moves a movie to a new status bucket. The server enforces
// that only admins may do this.
func (r *Runner) MoviesSetStatus(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: a movie id is required", shared.ErrMissingArgument)
	}

	status, err := models.ParseStatus(cmd.String("status"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}

	if err := r.api.SetMovieStatus(ctx, id, status); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Movie %s moved to %s\n", id, status)
}

// MoviesDiscard removes a movie from the watchlist.
func (r *Runner) MoviesDiscard(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: a movie id is required", shared.ErrMissingArgument)
	}

	if err := r.api.DiscardMovie(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Movie %s discarded\n", id)
}

// MoviesFlag toggles a movie's content flag.
func (r *Runner) MoviesFlag(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: a movie id is required", shared.ErrMissingArgument)
	}

	if err := r.api.ToggleContentFlag(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	return r.writePlain("✓ Content flag toggled for %s\n", id)
}

// MoviesUsers prints the distinct users movies are attributed to.
func (r *Runner) MoviesUsers(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.movies.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	names := pipeline.Usernames(movies)
	if len(names) == 0 {
		return r.writePlain("No attributed movies on the watchlist\n")
	}

	for _, name := range names {
		r.writePlain("%s\n", name)
	}
	return nil
}

// MoviesExport writes the filtered watchlist to CSV, Markdown or plain text.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	criteria := r.criteriaFromFlags(cmd)
	title := cmd.String("title")
	output := cmd.String("output")

	movies, err := r.movies.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	lists := pipeline.Derive(movies, criteria)

	switch strings.ToLower(cmd.String("format")) {
	case "csv":
		path, err := formatter.WriteCSVExport(pipeline.Filter(movies, criteria), output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Watchlist exported to %s\n", path)

	case "markdown", "md":
		var posterURL string
		if cmd.Bool("poster") {
			posterURL = firstPoster(lists)
		}
		result, err := formatter.WriteMarkdownExport(title, lists, output, posterURL)
		if err != nil {
			return err
		}
		r.writePlain("✓ Watchlist exported to %s\n", result.Directory)
		for _, file := range result.Files {
			r.writePlain("  %s\n", file)
		}
		return nil

	case "text", "txt":
		path, err := formatter.WriteTextExport(title, lists, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Watchlist exported to %s\n", path)

	default:
		return fmt.Errorf("%w: unknown format %q (want csv, markdown or text)", shared.ErrInvalidFlag, cmd.String("format"))
	}
}

// firstPoster picks the first available poster link from the derived lists.
func firstPoster(lists pipeline.DisplayLists) string {
	for _, bucket := range [][]models.Movie{lists.Streaming, lists.Watched.Movies, lists.Upcoming.Movies} {
		for _, movie := range bucket {
			if movie.ImageLink != "" {
				return movie.ImageLink
			}
		}
	}
	return ""
}
