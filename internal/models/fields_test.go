package models

import (
	"encoding/json"
	"testing"
)

func TestAsFields(t *testing.T) {
	tc := []struct {
		name  string
		input any
		ok    bool
	}{
		{name: "Fields", input: Fields{"name": "x"}, ok: true},
		{name: "map[string]any", input: map[string]any{}, ok: true},
		{name: "map[string]string", input: map[string]string{"name": "x"}, ok: true},
		{name: "nil", input: nil, ok: false},
		{name: "nil map", input: map[string]any(nil), ok: false},
		{name: "string", input: "name=x", ok: false},
		{name: "list", input: []any{map[string]any{}}, ok: false},
		{name: "number", input: 3.0, ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := AsFields(tt.input)
			if ok != tt.ok {
				t.Errorf("AsFields(%v) ok = %v, want %v", tt.input, ok, tt.ok)
			}
		})
	}
}

func TestFieldsID(t *testing.T) {
	tc := []struct {
		name   string
		fields Fields
		want   int64
		ok     bool
	}{
		{name: "missing", fields: Fields{}, ok: false},
		{name: "int", fields: Fields{"id": 4}, want: 4, ok: true},
		{name: "int64", fields: Fields{"id": int64(9)}, want: 9, ok: true},
		{name: "decoded float", fields: Fields{"id": float64(12)}, want: 12, ok: true},
		{name: "fractional", fields: Fields{"id": 1.5}, ok: false},
		{name: "json number", fields: Fields{"id": json.Number("21")}, want: 21, ok: true},
		{name: "string", fields: Fields{"id": "1"}, ok: false},
		{name: "null", fields: Fields{"id": nil}, ok: false},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.fields.ID()
			if ok != tt.ok || got != tt.want {
				t.Errorf("ID() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFieldsLookup(t *testing.T) {
	f := Fields{"musicPlatform": "Spotify", "favorite_era": "80s"}

	if v, ok := f.String(KeyMusicPlatform); !ok || v != "Spotify" {
		t.Errorf("expected camelCase lookup, got %v %v", v, ok)
	}
	if v, ok := f.String(KeyFavoriteEra); !ok || v != "80s" {
		t.Errorf("expected snake_case fallback, got %v %v", v, ok)
	}
	if _, ok := f.Lookup(KeyImportantAspect); ok {
		t.Error("expected missing key to report false")
	}
	if f.UID() != "" {
		t.Errorf("expected empty uid, got %q", f.UID())
	}
}
