package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/musicpref/internal/formatter"
	"github.com/desertthunder/musicpref/internal/models"
	"github.com/desertthunder/musicpref/internal/shared"
	"github.com/urfave/cli/v3"
)

// requireArg returns the named positional argument or an [shared.ErrMissingArgument] error.
func requireArg(cmd *cli.Command, name string) (string, error) {
	v := cmd.StringArg(name)
	if v == "" {
		return "", fmt.Errorf("%w: <%s>", shared.ErrMissingArgument, name)
	}
	return v, nil
}

// PrefsList lists stored records, optionally filtered.
func (r *Runner) PrefsList(ctx context.Context, cmd *cli.Command) error {
	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	criteria := map[string]any{
		"music_platform": cmd.String("platform"),
		"favorite":       cmd.String("favorite"),
	}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = int(limit)
	}

	records, err := prefs.List(ctx, criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	if format := cmd.String("format"); format != "" {
		data, err := formatter.Export(records, format)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	}

	if len(records) == 0 {
		return r.writePlain("No music preferences found\n")
	}

	for _, pref := range records {
		if err := r.writePlain("%s\n", formatter.Card(pref)); err != nil {
			return err
		}
	}
	return r.writePlainln("%d record(s)", len(records))
}

// PrefsShow prints one record.
func (r *Runner) PrefsShow(ctx context.Context, cmd *cli.Command) error {
	uid, err := requireArg(cmd, "uid")
	if err != nil {
		return err
	}

	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	pref, err := prefs.Get(ctx, uid)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(pref, true)
	}
	return r.writePlain("%s\n", formatter.Card(pref))
}

// PrefsUpsert creates a record or overwrites the one with the same uid.
func (r *Runner) PrefsUpsert(ctx context.Context, cmd *cli.Command) error {
	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	pref := models.NewMusicPreference(cmd.String("name"), cmd.String("uid"), cmd.StringSlice("favorite"),
		models.WithMusicPlatform(cmd.String("platform")),
		models.WithLearnPreference(cmd.String("learn")),
		models.WithListeningFrequency(cmd.String("frequency")),
		models.WithFavoriteEra(cmd.String("era")),
		models.WithImportantAspect(cmd.String("aspect")),
	)

	saved, err := prefs.Upsert(ctx, pref)
	if err != nil {
		return err
	}

	r.logger.Info("saved music preference", "uid", saved.UID(), "id", saved.ID())
	return r.writePlain("✓ Saved %s (id %d)\n", saved.UID(), saved.ID())
}

// PrefsUpdate applies a JSON object of fields to a record. A JSON value that is not an object
// leaves the record unchanged.
func (r *Runner) PrefsUpdate(ctx context.Context, cmd *cli.Command) error {
	uid, err := requireArg(cmd, "uid")
	if err != nil {
		return err
	}

	var input any
	if err := json.Unmarshal([]byte(cmd.String("data")), &input); err != nil {
		return fmt.Errorf("%w: --data must be JSON: %v", shared.ErrInvalidFlag, err)
	}

	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	pref, err := prefs.UpdateByUID(ctx, uid, input)
	if err != nil {
		return err
	}

	return r.writeJSON(pref, true)
}

// PrefsFavoriteAdd adds a favorite to a record.
func (r *Runner) PrefsFavoriteAdd(ctx context.Context, cmd *cli.Command) error {
	return r.changeFavorite(ctx, cmd, true)
}

// PrefsFavoriteRemove removes a favorite from a record.
func (r *Runner) PrefsFavoriteRemove(ctx context.Context, cmd *cli.Command) error {
	return r.changeFavorite(ctx, cmd, false)
}

func (r *Runner) changeFavorite(ctx context.Context, cmd *cli.Command, add bool) error {
	uid, err := requireArg(cmd, "uid")
	if err != nil {
		return err
	}
	item, err := requireArg(cmd, "item")
	if err != nil {
		return err
	}

	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	if add {
		added, err := prefs.AddFavorite(ctx, uid, item)
		if err != nil {
			return err
		}
		if !added {
			return r.writePlain("%q is already a favorite of %s\n", item, uid)
		}
		return r.writePlain("✓ Added %q to %s\n", item, uid)
	}

	removed, err := prefs.RemoveFavorite(ctx, uid, item)
	if err != nil {
		return err
	}
	if !removed {
		return r.writePlain("%q is not a favorite of %s\n", item, uid)
	}
	return r.writePlain("✓ Removed %q from %s\n", item, uid)
}

// PrefsDelete permanently deletes a record.
func (r *Runner) PrefsDelete(ctx context.Context, cmd *cli.Command) error {
	uid, err := requireArg(cmd, "uid")
	if err != nil {
		return err
	}

	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	if err := prefs.Delete(ctx, uid); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s\n", uid)
}

// PrefsRestore restores records from a JSON array file such as one written by export.
func (r *Runner) PrefsRestore(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read restore file: %w", err)
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s must hold a JSON array of objects: %v", shared.ErrInvalidInput, path, err)
	}

	records := make([]models.Fields, 0, len(raw))
	for _, record := range raw {
		records = append(records, models.Fields(record))
	}

	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	restored, err := prefs.Restore(ctx, records)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Restored %d of %d record(s)\n", len(restored), len(records))
}

// PrefsExport writes every record to a file.
func (r *Runner) PrefsExport(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	records, err := prefs.List(ctx, nil)
	if err != nil {
		return err
	}

	if err := formatter.WriteExport(records, path); err != nil {
		return err
	}

	r.logger.Info("exported music preferences", "path", path, "format", formatter.FormatForPath(path))
	return r.writePlain("✓ Exported %d record(s) to %s\n", len(records), path)
}

// PrefsSeed inserts the example record into an empty database.
func (r *Runner) PrefsSeed(ctx context.Context, cmd *cli.Command) error {
	prefs, err := r.service(ctx)
	if err != nil {
		return err
	}

	seeded, err := prefs.Seed(ctx)
	if err != nil {
		return err
	}
	if !seeded {
		return r.writePlain("Database already holds records, nothing seeded\n")
	}
	return r.writePlain("✓ Seeded example music preference\n")
}
