// package formatter provides functions to export music preferences to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/musicpref/internal/models"
	"github.com/desertthunder/musicpref/internal/shared"
)

// CSVHeaders are the columns written by [ExportToCSV].
var CSVHeaders = []string{
	"ID", "UID", "Name", "Favorites", "Music Platform", "Learn Preference",
	"Listening Frequency", "Favorite Era", "Important Aspect",
}

// FavoritesSeparator joins favorites into a single CSV cell.
const FavoritesSeparator = "; "

// ExportToJSON converts records to an indented JSON array of read mappings.
//
// The output can be fed back to restore.
func ExportToJSON(prefs []*models.MusicPreference) ([]byte, error) {
	records := make([]models.Fields, 0, len(prefs))
	for _, pref := range prefs {
		records = append(records, pref.Read())
	}
	return shared.MarshalJSON(records, true)
}

// ExportToCSV converts records to CSV with the columns of [CSVHeaders]
func ExportToCSV(prefs []*models.MusicPreference) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(CSVHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, pref := range prefs {
		record := []string{
			strconv.FormatInt(pref.ID(), 10),
			pref.UID(),
			pref.Name(),
			strings.Join(pref.Favorites(), FavoritesSeparator),
			pref.MusicPlatform(),
			pref.LearnPreference(),
			pref.ListeningFrequency(),
			pref.FavoriteEra(),
			pref.ImportantAspect(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts records to a Markdown document with one section per record
func ExportToMarkdown(prefs []*models.MusicPreference) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Music Preferences\n\n")
	buf.WriteString(fmt.Sprintf("**Records**: %d\n", len(prefs)))

	for _, pref := range prefs {
		buf.WriteString(fmt.Sprintf("\n## %s (`%s`)\n\n", pref.Name(), pref.UID()))

		favorites := pref.Favorites()
		if len(favorites) == 0 {
			buf.WriteString("- **Favorites**: _none_\n")
		} else {
			buf.WriteString(fmt.Sprintf("- **Favorites**: %s\n", strings.Join(favorites, ", ")))
		}

		for _, d := range details(pref) {
			if d.value != "" {
				buf.WriteString(fmt.Sprintf("- **%s**: %s\n", d.label, d.value))
			}
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts records to plain text, one line per record
func ExportToText(prefs []*models.MusicPreference) ([]byte, error) {
	var buf bytes.Buffer

	for _, pref := range prefs {
		buf.WriteString(fmt.Sprintf("%d. %s (%s)", pref.ID(), pref.Name(), pref.UID()))
		if favorites := pref.Favorites(); len(favorites) > 0 {
			buf.WriteString(fmt.Sprintf(" - %s", strings.Join(favorites, ", ")))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// Export renders records in the named format: json, csv, markdown (or md) and text (or txt).
func Export(prefs []*models.MusicPreference, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "json":
		return ExportToJSON(prefs)
	case "csv":
		return ExportToCSV(prefs)
	case "markdown", "md":
		return ExportToMarkdown(prefs)
	case "text", "txt":
		return ExportToText(prefs)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// FormatForPath picks the export format from a file extension, defaulting to json.
func FormatForPath(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case "csv", "md", "markdown", "txt":
		return ext
	default:
		return "json"
	}
}

// WriteExport writes records to path in the format implied by its extension.
func WriteExport(prefs []*models.MusicPreference, path string) error {
	if path == "" {
		return fmt.Errorf("%w: export path", shared.ErrMissingArgument)
	}

	data, err := Export(prefs, FormatForPath(path))
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	return nil
}

type detail struct {
	label string
	value string
}

func details(pref *models.MusicPreference) []detail {
	return []detail{
		{"Music Platform", pref.MusicPlatform()},
		{"Learn Preference", pref.LearnPreference()},
		{"Listening Frequency", pref.ListeningFrequency()},
		{"Favorite Era", pref.FavoriteEra()},
		{"Important Aspect", pref.ImportantAspect()},
	}
}
