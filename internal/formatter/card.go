package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/musicpref/internal/models"
)

var styles = NewPalette("#7D56F4", "#04B575", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	label lipgloss.Style
	muted lipgloss.Style
	box   lipgloss.Style
}

func NewPalette(title, label, muted string) *Palette {
	return &Palette{
		title: NewBold(title),
		label: NewBold(label),
		muted: NewEm(muted),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(title)).
			Padding(0, 1),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Card renders a record as a bordered terminal block using the default palette.
func Card(pref *models.MusicPreference) string {
	return styles.Card(pref)
}

// Card renders a record as a bordered terminal block.
//
// Unset optional fields are omitted.
func (p *Palette) Card(pref *models.MusicPreference) string {
	lines := []string{
		p.title.Render(pref.Name()) + " " + p.muted.Render(fmt.Sprintf("@%s #%d", pref.UID(), pref.ID())),
		"",
	}

	favorites := p.muted.Render("none")
	if f := pref.Favorites(); len(f) > 0 {
		favorites = strings.Join(f, ", ")
	}
	lines = append(lines, p.label.Render("Favorites")+": "+favorites)

	for _, d := range details(pref) {
		if d.value != "" {
			lines = append(lines, p.label.Render(d.label)+": "+d.value)
		}
	}

	return p.box.Render(strings.Join(lines, "\n"))
}
