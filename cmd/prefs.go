package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/movienite/nite/internal/prefs"
	"github.com/movienite/nite/internal/shared"
	"github.com/urfave/cli/v3"
)

// PrefsShow prints the persisted display preferences.
func (r *Runner) PrefsShow(ctx context.Context, cmd *cli.Command) error {
	store, db, err := r.openPrefs()
	if err != nil {
		return err
	}
	defer db.Close()

	r.writePlain("%s: %s\n", prefs.KeyViewType, store.ViewType())
	r.writePlain("%s: %s\n", prefs.KeySortField, store.SortField())
	r.writePlain("%s: %v\n", prefs.KeySortReverse, store.SortReverse())
	r.writePlain("%s: %d\n", prefs.KeyPageSize, store.PageSize())
	r.writePlain("%s: %s\n", prefs.KeyTheme, store.Theme())

	return nil
}

// PrefsSet validates and persists one display preference.
func (r *Runner) PrefsSet(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	value := cmd.StringArg("value")

	if key == "" || value == "" {
		return fmt.Errorf("%w: usage: nite prefs set <key> <value>", shared.ErrMissingArgument)
	}

	store, db, err := r.openPrefs()
	if err != nil {
		return err
	}
	defer db.Close()

	switch key {
	case prefs.KeyViewType:
		err = store.SetViewType(value)
	case prefs.KeySortField:
		err = store.SetSortField(value)
	case prefs.KeySortReverse:
		var reverse bool
		if reverse, err = strconv.ParseBool(value); err == nil {
			err = store.SetSortReverse(reverse)
		}
	case prefs.KeyPageSize:
		var size int
		if size, err = strconv.Atoi(value); err == nil {
			err = store.SetPageSize(size)
		}
	case prefs.KeyTheme:
		err = store.SetTheme(value)
	default:
		return fmt.Errorf("%w: unknown preference %q", shared.ErrInvalidArgument, key)
	}

	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	return r.writePlain("✓ %s set to %s\n", key, value)
}
