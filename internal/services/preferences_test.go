package services

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/desertthunder/musicpref/internal/models"
	"github.com/desertthunder/musicpref/internal/shared"
	tu "github.com/desertthunder/musicpref/internal/testing"
)

func newTestService(t *testing.T) (*PreferenceService, *bytes.Buffer) {
	t.Helper()
	logger, buf := tu.NewTestLogger()
	return NewPreferenceService(tu.NewTestDB(t), logger), buf
}

func mustUpsert(t *testing.T, svc *PreferenceService, pref *models.MusicPreference) *models.MusicPreference {
	t.Helper()
	persisted, err := svc.Upsert(context.Background(), pref)
	if err != nil {
		t.Fatalf("failed to upsert %s: %v", pref.UID(), err)
	}
	return persisted
}

func TestPreferenceService(t *testing.T) {
	ctx := context.Background()

	t.Run("Upsert", func(t *testing.T) {
		t.Run("inserts new record and reads it back", func(t *testing.T) {
			svc, _ := newTestService(t)

			pref := mustUpsert(t, svc, SeedPreference())

			want := models.Fields{
				"id":                 int64(1),
				"uid":                "brandonsmurlo_08",
				"name":               "Brandon Smurlo",
				"favorites":          []string{"Travis Scott"},
				"musicPlatform":      "Spotify",
				"learnPreference":    "Social Media",
				"listeningFrequency": "Weekly",
				"favoriteEra":        "Modern",
				"importantAspect":    "Vocals",
			}

			got, err := svc.Get(ctx, "brandonsmurlo_08")
			if err != nil {
				t.Fatalf("failed to get: %v", err)
			}

			if !reflect.DeepEqual(pref.Read(), want) {
				t.Errorf("upserted read mismatch:\n got %#v\nwant %#v", pref.Read(), want)
			}
			if !reflect.DeepEqual(got.Read(), want) {
				t.Errorf("stored read mismatch:\n got %#v\nwant %#v", got.Read(), want)
			}
		})

		t.Run("overwrites record with same uid", func(t *testing.T) {
			svc, _ := newTestService(t)
			first := mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", []string{"SongA"},
				models.WithMusicPlatform("Spotify"),
			))

			second := mustUpsert(t, svc, models.NewMusicPreference("Ann B", "ann01", []string{"SongB"}))

			if second.ID() != first.ID() {
				t.Errorf("expected id %d to be kept, got %d", first.ID(), second.ID())
			}

			count, err := svc.Count(ctx)
			if err != nil {
				t.Fatalf("failed to count: %v", err)
			}
			if count != 1 {
				t.Errorf("expected 1 record, got %d", count)
			}

			got, _ := svc.Get(ctx, "ann01")
			if got.Name() != "Ann B" {
				t.Errorf("expected name 'Ann B', got %q", got.Name())
			}
			if !reflect.DeepEqual(got.Favorites(), []string{"SongB"}) {
				t.Errorf("expected favorites [SongB], got %v", got.Favorites())
			}
			if got.Read()["musicPlatform"] != nil {
				t.Errorf("expected musicPlatform to be cleared, got %v", got.Read()["musicPlatform"])
			}
		})

		t.Run("rejects invalid record", func(t *testing.T) {
			svc, _ := newTestService(t)

			_, err := svc.Upsert(ctx, models.NewMusicPreference("", "ann01", nil))
			if !errors.Is(err, shared.ErrInvalidPreference) {
				t.Errorf("expected ErrInvalidPreference, got %v", err)
			}

			count, _ := svc.Count(ctx)
			if count != 0 {
				t.Errorf("expected nothing stored, got %d records", count)
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		svc, _ := newTestService(t)
		pref := mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", nil))

		byID, err := svc.GetByID(ctx, pref.ID())
		if err != nil {
			t.Fatalf("failed to get by id: %v", err)
		}
		if byID.UID() != "ann01" {
			t.Errorf("expected uid ann01, got %s", byID.UID())
		}

		if _, err := svc.Get(ctx, "missing"); !errors.Is(err, shared.ErrPreferenceNotFound) {
			t.Errorf("expected ErrPreferenceNotFound, got %v", err)
		}
		if _, err := svc.GetByID(ctx, 999); !errors.Is(err, shared.ErrPreferenceNotFound) {
			t.Errorf("expected ErrPreferenceNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		svc, _ := newTestService(t)
		mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", nil))
		mustUpsert(t, svc, models.NewMusicPreference("Bob", "bob01", nil))

		prefs, err := svc.List(ctx, nil)
		if err != nil {
			t.Fatalf("failed to list: %v", err)
		}
		if len(prefs) != 2 || prefs[0].UID() != "ann01" || prefs[1].UID() != "bob01" {
			t.Errorf("expected [ann01 bob01] in id order, got %d records", len(prefs))
		}
	})

	t.Run("Update", func(t *testing.T) {
		tests := []struct {
			name    string
			input   any
			changed bool
		}{
			{name: "non-mapping string", input: "hello"},
			{name: "non-mapping number", input: 42},
			{name: "nil input", input: nil},
			{name: "empty mapping", input: map[string]any{}},
			{name: "unrecognized keys only", input: map[string]any{"bogus": 1}},
			{name: "recognized key", input: map[string]any{"name": "Ann B"}, changed: true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _ := newTestService(t)
				pref := mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", []string{"SongA"}))
				before := pref.Read()

				got, err := svc.Update(ctx, pref, tt.input)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != pref {
					t.Errorf("expected the same record to be returned")
				}

				stored, _ := svc.Get(ctx, "ann01")
				if tt.changed {
					if stored.Name() != "Ann B" {
						t.Errorf("expected stored name 'Ann B', got %q", stored.Name())
					}
					return
				}

				if !reflect.DeepEqual(stored.Read(), before) {
					t.Errorf("expected storage unchanged:\n got %#v\nwant %#v", stored.Read(), before)
				}
			})
		}

		t.Run("partial update leaves other fields", func(t *testing.T) {
			svc, _ := newTestService(t)
			pref := mustUpsert(t, svc, SeedPreference())

			if _, err := svc.Update(ctx, pref, map[string]any{"musicPlatform": "Apple Music"}); err != nil {
				t.Fatalf("failed to update: %v", err)
			}

			stored, _ := svc.Get(ctx, pref.UID())
			if stored.MusicPlatform() != "Apple Music" {
				t.Errorf("expected platform 'Apple Music', got %q", stored.MusicPlatform())
			}
			if stored.Name() != "Brandon Smurlo" || stored.FavoriteEra() != "Modern" {
				t.Errorf("expected other fields kept, got %#v", stored.Read())
			}
		})

		t.Run("failed save restores record", func(t *testing.T) {
			svc, _ := newTestService(t)
			pref := mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", nil))

			_, err := svc.Update(ctx, pref, map[string]any{"name": ""})
			if !errors.Is(err, shared.ErrInvalidPreference) {
				t.Fatalf("expected ErrInvalidPreference, got %v", err)
			}
			if pref.Name() != "Ann" {
				t.Errorf("expected in-memory name restored to 'Ann', got %q", pref.Name())
			}
		})

		t.Run("by uid", func(t *testing.T) {
			svc, _ := newTestService(t)
			mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", nil))

			got, err := svc.UpdateByUID(ctx, "ann01", map[string]any{"favorite_era": "90s"})
			if err != nil {
				t.Fatalf("failed to update: %v", err)
			}
			if got.FavoriteEra() != "90s" {
				t.Errorf("expected favoriteEra '90s', got %q", got.FavoriteEra())
			}

			if _, err := svc.UpdateByUID(ctx, "missing", map[string]any{"name": "x"}); !errors.Is(err, shared.ErrPreferenceNotFound) {
				t.Errorf("expected ErrPreferenceNotFound, got %v", err)
			}
		})
	})

	t.Run("Favorites", func(t *testing.T) {
		svc, _ := newTestService(t)
		mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", []string{"SongA"}))

		added, err := svc.AddFavorite(ctx, "ann01", "SongB")
		if err != nil || !added {
			t.Fatalf("expected SongB to be added, got %v, %v", added, err)
		}

		added, err = svc.AddFavorite(ctx, "ann01", "SongB")
		if err != nil || added {
			t.Errorf("expected second add to be a no-op, got %v, %v", added, err)
		}

		removed, err := svc.RemoveFavorite(ctx, "ann01", "SongZ")
		if err != nil || removed {
			t.Errorf("expected removing absent item to be a no-op, got %v, %v", removed, err)
		}

		removed, err = svc.RemoveFavorite(ctx, "ann01", "SongA")
		if err != nil || !removed {
			t.Errorf("expected SongA to be removed, got %v, %v", removed, err)
		}

		stored, _ := svc.Get(ctx, "ann01")
		if !reflect.DeepEqual(stored.Favorites(), []string{"SongB"}) {
			t.Errorf("expected favorites [SongB], got %v", stored.Favorites())
		}

		if _, err := svc.AddFavorite(ctx, "missing", "x"); !errors.Is(err, shared.ErrPreferenceNotFound) {
			t.Errorf("expected ErrPreferenceNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		svc, _ := newTestService(t)
		mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", nil))

		if err := svc.Delete(ctx, "ann01"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if _, err := svc.Get(ctx, "ann01"); !errors.Is(err, shared.ErrPreferenceNotFound) {
			t.Errorf("expected record to be gone, got %v", err)
		}
		if err := svc.Delete(ctx, "ann01"); !errors.Is(err, shared.ErrPreferenceNotFound) {
			t.Errorf("expected ErrPreferenceNotFound on second delete, got %v", err)
		}
	})

	t.Run("Restore", func(t *testing.T) {
		t.Run("creates records in input order", func(t *testing.T) {
			svc, _ := newTestService(t)

			restored, err := svc.Restore(ctx, []models.Fields{
				{"uid": "u1", "name": "A", "favorites": []any{"x"}},
				{"uid": "u2", "name": "B"},
			})
			if err != nil {
				t.Fatalf("failed to restore: %v", err)
			}

			if len(restored) != 2 {
				t.Fatalf("expected 2 restored records, got %d", len(restored))
			}
			if restored[0]["uid"] != "u1" || restored[1]["uid"] != "u2" {
				t.Errorf("expected input order, got %v then %v", restored[0]["uid"], restored[1]["uid"])
			}
			if !reflect.DeepEqual(restored[0]["favorites"], []string{"x"}) {
				t.Errorf("expected favorites [x], got %v", restored[0]["favorites"])
			}
		})

		t.Run("updates record found by id", func(t *testing.T) {
			svc, _ := newTestService(t)
			pref := mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", nil))

			restored, err := svc.Restore(ctx, []models.Fields{
				{"id": float64(pref.ID()), "uid": "ignored", "name": "Ann B"},
			})
			if err != nil {
				t.Fatalf("failed to restore: %v", err)
			}

			if len(restored) != 1 || restored[0]["uid"] != "ann01" || restored[0]["name"] != "Ann B" {
				t.Errorf("expected ann01 renamed to 'Ann B', got %#v", restored)
			}

			count, _ := svc.Count(ctx)
			if count != 1 {
				t.Errorf("expected 1 record, got %d", count)
			}
		})

		t.Run("skips uid collision and keeps going", func(t *testing.T) {
			svc, out := newTestService(t)
			mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", nil))

			restored, err := svc.Restore(ctx, []models.Fields{
				{"uid": "ann01", "name": "Impostor"},
				{"uid": "bob01", "name": "Bob"},
			})
			if err != nil {
				t.Fatalf("failed to restore: %v", err)
			}

			if len(restored) != 1 || restored[0]["uid"] != "bob01" {
				t.Errorf("expected only bob01 restored, got %#v", restored)
			}

			stored, _ := svc.Get(ctx, "ann01")
			if stored.Name() != "Ann" {
				t.Errorf("expected existing record untouched, got name %q", stored.Name())
			}
			if !strings.Contains(out.String(), "skipping record") {
				t.Errorf("expected skipped record to be logged, got %q", out.String())
			}
		})

		t.Run("skips invalid records", func(t *testing.T) {
			svc, _ := newTestService(t)

			restored, err := svc.Restore(ctx, []models.Fields{
				{"name": "No UID"},
				{"uid": "ok", "name": "Fine"},
			})
			if err != nil {
				t.Fatalf("failed to restore: %v", err)
			}
			if len(restored) != 1 || restored[0]["uid"] != "ok" {
				t.Errorf("expected only ok restored, got %#v", restored)
			}
		})

		t.Run("empty input", func(t *testing.T) {
			svc, _ := newTestService(t)

			restored, err := svc.Restore(ctx, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(restored) != 0 {
				t.Errorf("expected no records, got %d", len(restored))
			}
		})
	})

	t.Run("CreateOrUpdate", func(t *testing.T) {
		t.Run("creates when absent", func(t *testing.T) {
			svc, _ := newTestService(t)

			got, err := svc.CreateOrUpdate(ctx, models.Fields{"uid": "ann01", "name": "Ann", "musicPlatform": "Tidal"})
			if err != nil {
				t.Fatalf("failed to create: %v", err)
			}
			if got.ID() == 0 || got.MusicPlatform() != "Tidal" {
				t.Errorf("expected stored record with platform Tidal, got %#v", got.Read())
			}
		})

		t.Run("patches when present", func(t *testing.T) {
			svc, _ := newTestService(t)
			mustUpsert(t, svc, models.NewMusicPreference("Ann", "ann01", []string{"SongA"}))

			got, err := svc.CreateOrUpdate(ctx, models.Fields{"uid": "ann01", "favoriteEra": "80s"})
			if err != nil {
				t.Fatalf("failed to update: %v", err)
			}
			if got.Name() != "Ann" || got.FavoriteEra() != "80s" {
				t.Errorf("expected name kept and era set, got %#v", got.Read())
			}

			count, _ := svc.Count(ctx)
			if count != 1 {
				t.Errorf("expected 1 record, got %d", count)
			}
		})

		t.Run("missing name on create", func(t *testing.T) {
			svc, _ := newTestService(t)

			if _, err := svc.CreateOrUpdate(ctx, models.Fields{"uid": "ann01"}); !errors.Is(err, shared.ErrInvalidPreference) {
				t.Errorf("expected ErrInvalidPreference, got %v", err)
			}
		})
	})

	t.Run("Seed", func(t *testing.T) {
		svc, _ := newTestService(t)

		seeded, err := svc.Seed(ctx)
		if err != nil || !seeded {
			t.Fatalf("expected empty database to be seeded, got %v, %v", seeded, err)
		}

		seeded, err = svc.Seed(ctx)
		if err != nil || seeded {
			t.Errorf("expected second seed to be a no-op, got %v, %v", seeded, err)
		}

		pref, err := svc.Get(ctx, "brandonsmurlo_08")
		if err != nil {
			t.Fatalf("failed to get seeded record: %v", err)
		}
		want := SeedPreference().Read()
		want["id"] = int64(1)
		if !reflect.DeepEqual(pref.Read(), want) {
			t.Errorf("unexpected seeded record:\n got %#v\nwant %#v", pref.Read(), want)
		}
	})
}
