package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/musicpref/internal/models"
	"github.com/desertthunder/musicpref/internal/shared"
)

const preferenceColumns = `
	id, uid, name, favorites, music_platform, learn_preference,
	listening_frequency, favorite_era, important_aspect, created_at, updated_at
`

// MusicPreferenceRepository implements [models.Repository] for [models.MusicPreference] persistence.
type MusicPreferenceRepository struct {
	db shared.DBTX
}

var _ models.Repository[*models.MusicPreference] = (*MusicPreferenceRepository)(nil)

// NewMusicPreferenceRepository creates a new [MusicPreferenceRepository] over a database or transaction handle
func NewMusicPreferenceRepository(db shared.DBTX) *MusicPreferenceRepository {
	return &MusicPreferenceRepository{db: db}
}

// Create inserts a new record and assigns the generated ID
func (r *MusicPreferenceRepository) Create(ctx context.Context, pref *models.MusicPreference) error {
	if err := pref.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	favorites, err := json.Marshal(pref.Favorites())
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	now := time.Now().UTC()

	query := `
		INSERT INTO music_preferences (
			uid, name, favorites, music_platform, learn_preference,
			listening_frequency, favorite_era, important_aspect, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		pref.UID(),
		pref.Name(),
		string(favorites),
		nullString(pref.MusicPlatform()),
		nullString(pref.LearnPreference()),
		nullString(pref.ListeningFrequency()),
		nullString(pref.FavoriteEra()),
		nullString(pref.ImportantAspect()),
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s: %v", shared.ErrDuplicateUID, pref.UID(), err)
		}
		return fmt.Errorf("failed to insert music preference: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted id: %w", err)
	}

	pref.SetID(id)
	pref.SetCreatedAt(now)
	pref.SetUpdatedAt(now)

	return nil
}

// Get retrieves a record by ID
func (r *MusicPreferenceRepository) Get(ctx context.Context, id int64) (*models.MusicPreference, error) {
	query := `SELECT ` + preferenceColumns + ` FROM music_preferences WHERE id = ?`

	pref, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", shared.ErrPreferenceNotFound, id)
	}
	return pref, err
}

// GetByUID retrieves a record by its external unique identifier
func (r *MusicPreferenceRepository) GetByUID(ctx context.Context, uid string) (*models.MusicPreference, error) {
	query := `SELECT ` + preferenceColumns + ` FROM music_preferences WHERE uid = ?`

	pref, err := r.scanOne(r.db.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: uid %s", shared.ErrPreferenceNotFound, uid)
	}
	return pref, err
}

// Update writes every mutable field of an existing record. The uid is never changed.
func (r *MusicPreferenceRepository) Update(ctx context.Context, pref *models.MusicPreference) error {
	if err := pref.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	favorites, err := json.Marshal(pref.Favorites())
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	now := time.Now().UTC()

	query := `
		UPDATE music_preferences
		SET name = ?, favorites = ?, music_platform = ?, learn_preference = ?,
			listening_frequency = ?, favorite_era = ?, important_aspect = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		pref.Name(),
		string(favorites),
		nullString(pref.MusicPlatform()),
		nullString(pref.LearnPreference()),
		nullString(pref.ListeningFrequency()),
		nullString(pref.FavoriteEra()),
		nullString(pref.ImportantAspect()),
		now,
		pref.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update music preference: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrPreferenceNotFound, pref.ID())
	}

	pref.SetUpdatedAt(now)
	return nil
}

// Delete permanently removes a record by ID
func (r *MusicPreferenceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM music_preferences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete music preference: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: id %d", shared.ErrPreferenceNotFound, id)
	}

	return nil
}

// List retrieves all records matching the given criteria ordered by ID.
//
// Supported criteria: "uid" (string), "music_platform" (string), "favorite" (string, exact
// member of the favorites list) and "limit" (int).
func (r *MusicPreferenceRepository) List(ctx context.Context, criteria map[string]any) ([]*models.MusicPreference, error) {
	query := `SELECT ` + preferenceColumns + ` FROM music_preferences WHERE 1 = 1`

	args := []any{}

	if uid, ok := criteria["uid"].(string); ok && uid != "" {
		query += " AND uid = ?"
		args = append(args, uid)
	}

	if platform, ok := criteria["music_platform"].(string); ok && platform != "" {
		query += " AND music_platform = ?"
		args = append(args, platform)
	}

	if favorite, ok := criteria["favorite"].(string); ok && favorite != "" {
		query += " AND EXISTS (SELECT 1 FROM json_each(music_preferences.favorites) WHERE json_each.value = ?)"
		args = append(args, favorite)
	}

	query += " ORDER BY id ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query music preferences: %w", err)
	}
	defer rows.Close()

	prefs := []*models.MusicPreference{}
	for rows.Next() {
		pref, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		prefs = append(prefs, pref)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return prefs, nil
}

// Count returns the number of stored records
func (r *MusicPreferenceRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM music_preferences`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count music preferences: %w", err)
	}
	return count, nil
}

// scanOne scans a single [sql.Row], passing [sql.ErrNoRows] through unwrapped
func (r *MusicPreferenceRepository) scanOne(row *sql.Row) (*models.MusicPreference, error) {
	pref, err := r.scan(row)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	return pref, err
}

// scan reads one row into a [models.MusicPreference]
func (r *MusicPreferenceRepository) scan(row rowScanner) (*models.MusicPreference, error) {
	var (
		id                 int64
		uid                string
		name               string
		favoritesJSON      string
		musicPlatform      sql.NullString
		learnPreference    sql.NullString
		listeningFrequency sql.NullString
		favoriteEra        sql.NullString
		importantAspect    sql.NullString
		createdAt          time.Time
		updatedAt          time.Time
	)

	err := row.Scan(
		&id, &uid, &name, &favoritesJSON, &musicPlatform, &learnPreference,
		&listeningFrequency, &favoriteEra, &importantAspect, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan music preference: %w", err)
	}

	var favorites []string
	if favoritesJSON != "" {
		if err := json.Unmarshal([]byte(favoritesJSON), &favorites); err != nil {
			return nil, fmt.Errorf("failed to decode favorites for %s: %w", uid, err)
		}
	}

	pref := models.NewMusicPreference(name, uid, favorites,
		models.WithMusicPlatform(musicPlatform.String),
		models.WithLearnPreference(learnPreference.String),
		models.WithListeningFrequency(listeningFrequency.String),
		models.WithFavoriteEra(favoriteEra.String),
		models.WithImportantAspect(importantAspect.String),
	)
	pref.SetID(id)
	pref.SetCreatedAt(createdAt)
	pref.SetUpdatedAt(updatedAt)

	return pref, nil
}
