package models

import (
	"encoding/json"
	"math"
)

// Keys of the plain mapping produced by [MusicPreference.Read].
const (
	KeyID                 = "id"
	KeyUID                = "uid"
	KeyName               = "name"
	KeyFavorites          = "favorites"
	KeyMusicPlatform      = "musicPlatform"
	KeyLearnPreference    = "learnPreference"
	KeyListeningFrequency = "listeningFrequency"
	KeyFavoriteEra        = "favoriteEra"
	KeyImportantAspect    = "importantAspect"
)

// snakeKeys maps mapping keys to the snake_case spelling used by older payloads.
var snakeKeys = map[string]string{
	KeyMusicPlatform:      "music_platform",
	KeyLearnPreference:    "learn_preference",
	KeyListeningFrequency: "listening_frequency",
	KeyFavoriteEra:        "favorite_era",
	KeyImportantAspect:    "important_aspect",
}

// Fields is the plain key/value view of a [MusicPreference].
type Fields map[string]any

// AsFields reports whether v is a mapping and returns it as [Fields].
//
// A nil map is not a mapping.
func AsFields(v any) (Fields, bool) {
	switch m := v.(type) {
	case Fields:
		return m, m != nil
	case map[string]any:
		return Fields(m), m != nil
	case map[string]string:
		if m == nil {
			return nil, false
		}
		f := make(Fields, len(m))
		for k, v := range m {
			f[k] = v
		}
		return f, true
	}
	return nil, false
}

// Lookup returns the value stored under key, falling back to its snake_case alias.
func (f Fields) Lookup(key string) (any, bool) {
	if v, ok := f[key]; ok {
		return v, true
	}
	if alias, ok := snakeKeys[key]; ok {
		v, ok := f[alias]
		return v, ok
	}
	return nil, false
}

// String returns the value under key when it is present and a string.
func (f Fields) String(key string) (string, bool) {
	v, ok := f.Lookup(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Strings returns the value under key when it is present and a list made up only of strings.
func (f Fields) Strings(key string) ([]string, bool) {
	v, ok := f.Lookup(key)
	if !ok {
		return nil, false
	}

	switch list := v.(type) {
	case []string:
		return append([]string{}, list...), true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

// ID returns the integral value under "id".
//
// JSON decoding yields float64 so any number without a fractional part is accepted.
func (f Fields) ID() (int64, bool) {
	v, ok := f[KeyID]
	if !ok {
		return 0, false
	}

	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint32:
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		id, err := n.Int64()
		return id, err == nil
	}
	return 0, false
}

// UID returns the uid string, empty when missing or not a string.
func (f Fields) UID() string {
	uid, _ := f.String(KeyUID)
	return uid
}
