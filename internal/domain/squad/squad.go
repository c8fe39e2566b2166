// Package squad reads squads from free-form text and generates random ones.
package squad

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/derby/internal/domain/roster"
)

// ErrNoPlayers is returned when the text contains no recognisable player.
var ErrNoPlayers = errors.New("no players found in squad text")

const unknownName = "Unknown Player"

var (
	junk      = regexp.MustCompile(`<[^>]+>|https?://\S+`) //nolint:gochecknoglobals // compiled once
	separator = "()[]–-•:;|,"
	upper     = cases.Upper(language.Polish) //nolint:gochecknoglobals // stateless caser
)

// Position codes: English codes map to themselves, Polish ones to English.
var positions = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"GK": "GK", "LB": "LB", "CB": "CB", "RB": "RB", "CM": "CM", "LM": "LM", "RM": "RM",
	"ST": "ST", "CDM": "CDM", "CAM": "CAM", "MD": "MD",

	"BR": "GK", "LO": "LB", "PO": "RB", "SO": "CB", "ŚO": "CB",
	"SP": "CM", "ŚP": "CM", "LP": "LM", "PP": "RM", "N": "ST",
	"NA": "ST", "DP": "CDM", "SPD": "CDM", "ŚPD": "CDM",
	"SPO": "CAM", "ŚPO": "CAM",
}

// Parse extracts players from pasted squad text. Each line is one player in
// any order of position, name and two-digit rating; a line holding several
// ratings is split into "position name rating" units. Markup and links are
// ignored. Players without a position play MD.
func Parse(text string) ([]roster.PlayerRecord, error) {
	text = junk.ReplaceAllString(text, " ")

	var out []roster.PlayerRecord
	for _, line := range strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' }) {
		for _, unit := range units(tokens(line)) {
			if p, ok := parseUnit(unit); ok {
				out = append(out, p)
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoPlayers
	}
	return out, nil
}

func tokens(line string) []string {
	var out []string
	for _, f := range strings.Fields(line) {
		f = strings.Trim(f, separator)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// units splits a line after every rating when it holds more than one.
func units(toks []string) [][]string {
	ratings := 0
	for _, t := range toks {
		if isRating(t) {
			ratings++
		}
	}
	if ratings <= 1 {
		return [][]string{toks}
	}
	var out [][]string
	start := 0
	for i, t := range toks {
		if isRating(t) {
			out = append(out, toks[start:i+1])
			start = i + 1
		}
	}
	return out
}

// parseUnit reads the first rating of a unit. A position code is only taken
// from the first or last remaining token, so codes inside a name stay put.
func parseUnit(toks []string) (roster.PlayerRecord, bool) {
	p := roster.PlayerRecord{Position: roster.DefaultPosition}
	found := false
	name := make([]string, 0, len(toks))
	for _, t := range toks {
		if !found && isRating(t) {
			p.Overall, _ = strconv.Atoi(t)
			found = true
			continue
		}
		name = append(name, t)
	}
	if !found {
		return p, false
	}
	if len(name) > 1 {
		switch last := len(name) - 1; {
		case isPosition(name[0]):
			p.Position = positions[upper.String(name[0])]
			name = name[1:]
		case isPosition(name[last]):
			p.Position = positions[upper.String(name[last])]
			name = name[:last]
		}
	}
	p.Name = strings.Join(name, " ")
	if utf8.RuneCountInString(p.Name) < 2 {
		p.Name = unknownName
	}
	return p, true
}

func isRating(t string) bool {
	return len(t) == 2 && t[0] >= '0' && t[0] <= '9' && t[1] >= '0' && t[1] <= '9'
}

func isPosition(t string) bool {
	_, ok := positions[upper.String(t)]
	return ok
}

// Summary renders a squad as one line per player.
func Summary(players []roster.PlayerRecord) string {
	var b strings.Builder
	for _, p := range players {
		fmt.Fprintf(&b, "%s %s %d\n", p.Position, p.Name, p.Overall)
	}
	return b.String()
}
