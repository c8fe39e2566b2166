// Package commentary turns match events into narrative lines.
//
// A Renderer belongs to one match: it owns the window of recently used
// templates, so concurrent matches never influence each other's wording.
package commentary

import (
	"fmt"
	"strings"

	"github.com/okian/derby/internal/domain/match"
	"github.com/okian/derby/internal/domain/recent"
)

// Repetition windows.
const (
	defaultRecent = 10
	relaxedRecent = 5
	emptyLine     = "..."
)

// Rand is the subset of math/rand/v2 the renderer draws from.
type Rand interface {
	IntN(n int) int
}

// Renderer picks and fills templates for one match.
type Renderer struct {
	catalog *Catalog
	rng     Rand
	window  *recent.Window
	relaxed int
}

// NewRenderer creates a renderer. A Rand is required; the default catalog is Polish.
func NewRenderer(rng Rand, opts ...Option) *Renderer {
	r := &Renderer{
		catalog: polish,
		rng:     rng,
		relaxed: relaxedRecent,
	}
	size := defaultRecent
	for _, opt := range opts {
		opt(r, &size)
	}
	r.window = recent.NewWindow(recent.WithMaxSize(size))
	if r.relaxed > size {
		r.relaxed = size
	}
	return r
}

// Catalog returns the catalog in use.
func (r *Renderer) Catalog() *Catalog { return r.catalog }

// Render returns the narrative line for ev, or "" when the match mode
// suppresses it. Fast matches only narrate goals and red cards.
// On a formatting failure it returns the raw template and an ErrFormat error.
func (r *Renderer) Render(m *match.Match, ev match.EventType, subj match.Subject) (string, error) {
	if !m.Live() && ev != match.Goal && ev != match.RedCard {
		return "", nil
	}
	options := r.catalog.Templates(ev, PhaseOf(m))
	return r.fill(m, options, subj)
}

// Remark returns a meta comment about the run of play versus the score.
func (r *Renderer) Remark(m *match.Match) (string, error) {
	return r.fill(m, r.catalog.Meta, match.Subject{})
}

// KickOff announces the start of the match.
func (r *Renderer) KickOff(m *match.Match) (string, error) {
	return r.announce(m, r.catalog.KickOff)
}

// FullTime announces the final score.
func (r *Renderer) FullTime(m *match.Match) (string, error) {
	return r.announce(m, r.catalog.FullTime)
}

func (r *Renderer) announce(m *match.Match, tmpl string) (string, error) {
	if tmpl == "" {
		return "", nil
	}
	text, err := Format(tmpl, map[string]string{
		"home":  m.Home.Name,
		"away":  m.Away.Name,
		"score": m.ScoreLine(),
	})
	if err != nil {
		return tmpl, err
	}
	return text, nil
}

func (r *Renderer) fill(m *match.Match, options []string, subj match.Subject) (string, error) {
	if len(options) == 0 {
		return emptyLine, nil
	}
	tmpl := r.choose(options)
	r.window.Record(tmpl)

	team := r.catalog.DefaultTeam
	if subj.Team != nil && subj.Team.Name != "" {
		team = subj.Team.Name
	}
	player := r.catalog.DefaultPlayer
	if subj.Player != nil && subj.Player.Name != "" {
		player = subj.Player.Name
	}
	values := map[string]string{
		"team":      team,
		"player":    player,
		"dominator": m.Dominator().Name,
	}

	text, err := Format(tmpl, values)
	if err != nil {
		return tmpl, err
	}
	return text, nil
}

// choose avoids the templates in the recent window, then only the most
// recent few, then gives up and picks from everything.
func (r *Renderer) choose(options []string) string {
	valid := filter(options, func(t string) bool { return !r.window.Contains(t) })
	if len(valid) == 0 {
		valid = filter(options, func(t string) bool { return !r.window.ContainsLast(t, r.relaxed) })
	}
	if len(valid) == 0 {
		valid = options
	}
	return valid[r.rng.IntN(len(valid))]
}

func filter(in []string, keep func(string) bool) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// Format substitutes {name} placeholders from values. "{{" and "}}" are
// literal braces. Unknown names and unbalanced braces fail with ErrFormat.
func Format(tmpl string, values map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(tmpl) + 16)
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		switch c {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(tmpl[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed placeholder at %d", ErrFormat, i)
			}
			name := tmpl[i+1 : i+1+end]
			v, ok := values[name]
			if !ok {
				return "", fmt.Errorf("%w: unknown placeholder %q", ErrFormat, name)
			}
			b.WriteString(v)
			i += end + 1
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: stray '}' at %d", ErrFormat, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}
