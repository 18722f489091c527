package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/musicpref/internal/models"
	"github.com/desertthunder/musicpref/internal/repositories"
	"github.com/desertthunder/musicpref/internal/shared"
)

// SeedPreference returns the example record inserted into an empty database.
func SeedPreference() *models.MusicPreference {
	return models.NewMusicPreference("Brandon Smurlo", "brandonsmurlo_08", []string{"Travis Scott"},
		models.WithMusicPlatform("Spotify"),
		models.WithLearnPreference("Social Media"),
		models.WithListeningFrequency("Weekly"),
		models.WithFavoriteEra("Modern"),
		models.WithImportantAspect("Vocals"),
	)
}

// PreferenceService performs music preference operations, one transaction per call.
type PreferenceService struct {
	db     *sql.DB
	logger *log.Logger
}

// NewPreferenceService creates a [PreferenceService]. A nil logger writes to stderr.
func NewPreferenceService(db *sql.DB, logger *log.Logger) *PreferenceService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PreferenceService{db: db, logger: shared.WithLogger(logger, "service", "preferences")}
}

// inTx runs fn with a repository bound to a fresh transaction.
func (s *PreferenceService) inTx(ctx context.Context, fn func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error) error {
	return shared.WithTx(ctx, s.db, func(ctx context.Context, tx shared.DBTX) error {
		return fn(ctx, repositories.NewMusicPreferenceRepository(tx))
	})
}

// Upsert looks up the record with pref's uid. When one exists its fields are overwritten with pref's
// values and saved; otherwise pref is inserted. Returns the persisted record.
func (s *PreferenceService) Upsert(ctx context.Context, pref *models.MusicPreference) (*models.MusicPreference, error) {
	var persisted *models.MusicPreference
	err := s.inTx(ctx, func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error {
		var err error
		persisted, err = upsert(ctx, repo, pref)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("upserted music preference", "uid", persisted.UID(), "id", persisted.ID())
	return persisted, nil
}

// Get retrieves a record by uid.
func (s *PreferenceService) Get(ctx context.Context, uid string) (*models.MusicPreference, error) {
	return repositories.NewMusicPreferenceRepository(s.db).GetByUID(ctx, uid)
}

// GetByID retrieves a record by its storage ID.
func (s *PreferenceService) GetByID(ctx context.Context, id int64) (*models.MusicPreference, error) {
	return repositories.NewMusicPreferenceRepository(s.db).Get(ctx, id)
}

// List retrieves records ordered by ID. See [repositories.MusicPreferenceRepository.List] for criteria.
func (s *PreferenceService) List(ctx context.Context, criteria map[string]any) ([]*models.MusicPreference, error) {
	return repositories.NewMusicPreferenceRepository(s.db).List(ctx, criteria)
}

// Count returns the number of stored records.
func (s *PreferenceService) Count(ctx context.Context) (int, error) {
	return repositories.NewMusicPreferenceRepository(s.db).Count(ctx)
}

// Update applies the recognized keys of input to pref and saves it.
//
// When input is not a mapping or carries no recognized key, pref is returned unchanged without
// touching storage. When saving fails pref is restored to its previous values.
func (s *PreferenceService) Update(ctx context.Context, pref *models.MusicPreference, input any) (*models.MusicPreference, error) {
	fields, ok := models.AsFields(input)
	if !ok {
		return pref, nil
	}

	previous := pref.Read()
	if !pref.Apply(fields) {
		return pref, nil
	}

	err := s.inTx(ctx, func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error {
		return repo.Update(ctx, pref)
	})
	if err != nil {
		pref.Apply(previous)
		return nil, err
	}

	return pref, nil
}

// UpdateByUID loads the record for uid and applies input to it as [PreferenceService.Update] does.
func (s *PreferenceService) UpdateByUID(ctx context.Context, uid string, input any) (*models.MusicPreference, error) {
	var updated *models.MusicPreference
	err := s.inTx(ctx, func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error {
		pref, err := repo.GetByUID(ctx, uid)
		if err != nil {
			return err
		}

		updated = pref
		if fields, ok := models.AsFields(input); ok && pref.Apply(fields) {
			return repo.Update(ctx, pref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// AddFavorite appends item to the favorites of uid's record and reports whether it was added.
// Storage is only written when the list changes.
func (s *PreferenceService) AddFavorite(ctx context.Context, uid, item string) (bool, error) {
	return s.changeFavorites(ctx, uid, func(pref *models.MusicPreference) bool {
		return pref.AddFavorite(item)
	})
}

// RemoveFavorite drops item from the favorites of uid's record and reports whether it was present.
func (s *PreferenceService) RemoveFavorite(ctx context.Context, uid, item string) (bool, error) {
	return s.changeFavorites(ctx, uid, func(pref *models.MusicPreference) bool {
		return pref.RemoveFavorite(item)
	})
}

func (s *PreferenceService) changeFavorites(ctx context.Context, uid string, change func(*models.MusicPreference) bool) (bool, error) {
	changed := false
	err := s.inTx(ctx, func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error {
		pref, err := repo.GetByUID(ctx, uid)
		if err != nil {
			return err
		}

		if changed = change(pref); !changed {
			return nil
		}
		return repo.Update(ctx, pref)
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}

// Delete permanently removes the record for uid.
func (s *PreferenceService) Delete(ctx context.Context, uid string) error {
	err := s.inTx(ctx, func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error {
		pref, err := repo.GetByUID(ctx, uid)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, pref.ID())
	})
	if err != nil {
		return err
	}

	s.logger.Debug("deleted music preference", "uid", uid)
	return nil
}

// CreateOrUpdate patches the record whose uid matches data, or creates a new record from data.
func (s *PreferenceService) CreateOrUpdate(ctx context.Context, data models.Fields) (*models.MusicPreference, error) {
	var result *models.MusicPreference
	err := s.inTx(ctx, func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error {
		existing, err := repo.GetByUID(ctx, data.UID())
		switch {
		case err == nil:
			result = existing
			if existing.Apply(data) {
				return repo.Update(ctx, existing)
			}
			return nil
		case errors.Is(err, shared.ErrPreferenceNotFound):
			result, err = upsert(ctx, repo, models.FromFields(data))
			return err
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Restore reconciles records against storage by primary key and returns the read mapping of every
// record it kept, in input order.
//
// Entries that would duplicate another record's uid or fail validation are rolled back, logged and
// omitted. Any other storage error stops the restore.
func (s *PreferenceService) Restore(ctx context.Context, records []models.Fields) ([]models.Fields, error) {
	restored := make([]models.Fields, 0, len(records))

	for i, record := range records {
		var result *models.MusicPreference
		err := s.inTx(ctx, func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error {
			var err error
			result, err = restoreOne(ctx, repo, record)
			return err
		})
		if err != nil {
			if errors.Is(err, shared.ErrDuplicateUID) || errors.Is(err, shared.ErrInvalidPreference) {
				s.logger.Warn("skipping record during restore", "index", i, "uid", record.UID(), "error", err)
				continue
			}
			return nil, fmt.Errorf("failed to restore record %d: %w", i, err)
		}

		restored = append(restored, result.Read())
	}

	s.logger.Info("restore finished", "restored", len(restored), "skipped", len(records)-len(restored))
	return restored, nil
}

// Seed inserts [SeedPreference] when storage holds no records and reports whether it did.
func (s *PreferenceService) Seed(ctx context.Context) (bool, error) {
	seeded := false
	err := s.inTx(ctx, func(ctx context.Context, repo *repositories.MusicPreferenceRepository) error {
		count, err := repo.Count(ctx)
		if err != nil || count > 0 {
			return err
		}

		pref := SeedPreference()
		if err := repo.Create(ctx, pref); err != nil {
			return err
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to seed music preferences: %w", err)
	}

	if seeded {
		s.logger.Info("seeded example music preference", "uid", SeedPreference().UID())
	}
	return seeded, nil
}

func upsert(ctx context.Context, repo *repositories.MusicPreferenceRepository, pref *models.MusicPreference) (*models.MusicPreference, error) {
	existing, err := repo.GetByUID(ctx, pref.UID())
	switch {
	case err == nil:
		existing.Overwrite(pref)
		if err := repo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	case errors.Is(err, shared.ErrPreferenceNotFound):
		if err := repo.Create(ctx, pref); err != nil {
			return nil, err
		}
		return pref, nil
	default:
		return nil, err
	}
}

func restoreOne(ctx context.Context, repo *repositories.MusicPreferenceRepository, record models.Fields) (*models.MusicPreference, error) {
	if id, ok := record.ID(); ok {
		existing, err := repo.Get(ctx, id)
		switch {
		case err == nil:
			if existing.Apply(record) {
				if err := repo.Update(ctx, existing); err != nil {
					return nil, err
				}
			}
			return existing, nil
		case !errors.Is(err, shared.ErrPreferenceNotFound):
			return nil, err
		}
	}

	pref := models.FromFields(record)
	if err := repo.Create(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}
