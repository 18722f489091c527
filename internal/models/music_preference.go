package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/desertthunder/musicpref/internal/shared"
)

// MaxFieldLength is the longest text value a single column accepts.
const MaxFieldLength = 255

// MusicPreference is one user's music preferences: a display name, the songs or artists they
// favor, and a handful of optional descriptive answers. The uid is supplied by the caller and
// is unique across records; the numeric id is assigned by storage.
type MusicPreference struct {
	id                 int64
	uid                string
	name               string
	favorites          []string
	musicPlatform      string
	learnPreference    string
	listeningFrequency string
	favoriteEra        string
	importantAspect    string
	createdAt          time.Time
	updatedAt          time.Time
}

// Option sets an optional descriptive field on a new [MusicPreference].
type Option func(*MusicPreference)

func WithMusicPlatform(v string) Option      { return func(p *MusicPreference) { p.musicPlatform = v } }
func WithLearnPreference(v string) Option    { return func(p *MusicPreference) { p.learnPreference = v } }
func WithListeningFrequency(v string) Option { return func(p *MusicPreference) { p.listeningFrequency = v } }
func WithFavoriteEra(v string) Option        { return func(p *MusicPreference) { p.favoriteEra = v } }
func WithImportantAspect(v string) Option    { return func(p *MusicPreference) { p.importantAspect = v } }

// NewMusicPreference creates an unsaved record. A nil favorites list becomes empty and repeated
// entries keep only their first occurrence.
func NewMusicPreference(name, uid string, favorites []string, opts ...Option) *MusicPreference {
	now := time.Now()
	p := &MusicPreference{
		uid:       uid,
		name:      name,
		favorites: dedupe(favorites),
		createdAt: now,
		updatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromFields creates an unsaved record from a plain mapping. "id" is ignored.
func FromFields(fields Fields) *MusicPreference {
	name, _ := fields.String(KeyName)
	p := NewMusicPreference(name, fields.UID(), nil)
	p.Apply(fields)
	return p
}

func (p *MusicPreference) ID() int64                  { return p.id }
func (p *MusicPreference) UID() string                { return p.uid }
func (p *MusicPreference) Name() string               { return p.name }
func (p *MusicPreference) MusicPlatform() string      { return p.musicPlatform }
func (p *MusicPreference) LearnPreference() string    { return p.learnPreference }
func (p *MusicPreference) ListeningFrequency() string { return p.listeningFrequency }
func (p *MusicPreference) FavoriteEra() string        { return p.favoriteEra }
func (p *MusicPreference) ImportantAspect() string    { return p.importantAspect }
func (p *MusicPreference) CreatedAt() time.Time       { return p.createdAt }
func (p *MusicPreference) UpdatedAt() time.Time       { return p.updatedAt }

// Favorites returns a copy of the favorites list.
func (p *MusicPreference) Favorites() []string {
	return append([]string{}, p.favorites...)
}

func (p *MusicPreference) SetID(id int64)                  { p.id = id }
func (p *MusicPreference) SetName(name string)             { p.name = name }
func (p *MusicPreference) SetFavorites(favorites []string) { p.favorites = dedupe(favorites) }
func (p *MusicPreference) SetMusicPlatform(v string)       { p.musicPlatform = v }
func (p *MusicPreference) SetLearnPreference(v string)     { p.learnPreference = v }
func (p *MusicPreference) SetListeningFrequency(v string)  { p.listeningFrequency = v }
func (p *MusicPreference) SetFavoriteEra(v string)         { p.favoriteEra = v }
func (p *MusicPreference) SetImportantAspect(v string)     { p.importantAspect = v }
func (p *MusicPreference) SetCreatedAt(t time.Time)        { p.createdAt = t }
func (p *MusicPreference) SetUpdatedAt(t time.Time)        { p.updatedAt = t }

// HasFavorite reports whether item is already in the favorites list.
func (p *MusicPreference) HasFavorite(item string) bool {
	return slices.Contains(p.favorites, item)
}

// AddFavorite appends item unless it is already present and reports whether it was added.
func (p *MusicPreference) AddFavorite(item string) bool {
	if p.HasFavorite(item) {
		return false
	}
	p.favorites = append(p.favorites, item)
	return true
}

// RemoveFavorite drops item and reports whether it was present.
func (p *MusicPreference) RemoveFavorite(item string) bool {
	i := slices.Index(p.favorites, item)
	if i < 0 {
		return false
	}
	p.favorites = slices.Delete(p.favorites, i, i+1)
	return true
}

// Overwrite copies every field except id, uid and timestamps from other.
func (p *MusicPreference) Overwrite(other *MusicPreference) {
	p.name = other.name
	p.favorites = other.Favorites()
	p.musicPlatform = other.musicPlatform
	p.learnPreference = other.learnPreference
	p.listeningFrequency = other.listeningFrequency
	p.favoriteEra = other.favoriteEra
	p.importantAspect = other.importantAspect
}

// Read returns the plain mapping of the record. Unset optional fields map to nil.
func (p *MusicPreference) Read() Fields {
	return Fields{
		KeyID:                 p.id,
		KeyUID:                p.uid,
		KeyName:               p.name,
		KeyFavorites:          p.Favorites(),
		KeyMusicPlatform:      nullable(p.musicPlatform),
		KeyLearnPreference:    nullable(p.learnPreference),
		KeyListeningFrequency: nullable(p.listeningFrequency),
		KeyFavoriteEra:        nullable(p.favoriteEra),
		KeyImportantAspect:    nullable(p.importantAspect),
	}
}

// Apply overwrites each recognized field present in fields and reports whether any was.
//
// id and uid are never changed. Values of the wrong type are skipped; nil clears an optional field.
func (p *MusicPreference) Apply(fields Fields) bool {
	applied := false

	if name, ok := fields.String(KeyName); ok {
		p.name = name
		applied = true
	}

	if favorites, ok := fields.Strings(KeyFavorites); ok {
		p.favorites = dedupe(favorites)
		applied = true
	}

	for key, field := range p.optionalFields() {
		v, ok := fields.Lookup(key)
		if !ok {
			continue
		}
		switch s := v.(type) {
		case nil:
			*field = ""
		case string:
			*field = s
		default:
			continue
		}
		applied = true
	}

	return applied
}

// Validate checks required fields, column widths and favorites uniqueness.
func (p *MusicPreference) Validate() error {
	if p.uid == "" {
		return fmt.Errorf("%w: uid is required", shared.ErrInvalidPreference)
	}
	if p.name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrInvalidPreference)
	}

	columns := map[string]string{KeyUID: p.uid, KeyName: p.name}
	for key, field := range p.optionalFields() {
		columns[key] = *field
	}
	for key, v := range columns {
		if utf8.RuneCountInString(v) > MaxFieldLength {
			return fmt.Errorf("%w: %s exceeds %d characters", shared.ErrInvalidPreference, key, MaxFieldLength)
		}
	}

	seen := make(map[string]struct{}, len(p.favorites))
	for _, item := range p.favorites {
		if _, dup := seen[item]; dup {
			return fmt.Errorf("%w: duplicate favorite %q", shared.ErrInvalidPreference, item)
		}
		seen[item] = struct{}{}
	}

	return nil
}

// MarshalJSON encodes the [MusicPreference.Read] mapping.
func (p *MusicPreference) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Read())
}

func (p *MusicPreference) optionalFields() map[string]*string {
	return map[string]*string{
		KeyMusicPlatform:      &p.musicPlatform,
		KeyLearnPreference:    &p.learnPreference,
		KeyListeningFrequency: &p.listeningFrequency,
		KeyFavoriteEra:        &p.favoriteEra,
		KeyImportantAspect:    &p.importantAspect,
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}
