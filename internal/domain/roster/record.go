package roster

// PlayerRecord is the persisted form of a player.
type PlayerRecord struct {
	Name     string `json:"name"`
	Overall  int    `json:"ovr"`
	Position string `json:"position"`
}

// Record is the persisted form of a team: {name, style, players:[{name, ovr, position}]}.
type Record struct {
	Name    string         `json:"name"`
	Style   string         `json:"style,omitempty"`
	Players []PlayerRecord `json:"players"`
}

// Team builds a fresh in-match team from the record.
// Every call returns independent players, so concurrent matches never share state.
func (r Record) Team() *Team {
	players := make([]*Player, 0, len(r.Players))
	for _, pr := range r.Players {
		players = append(players, NewPlayer(pr.Name, pr.Overall, pr.Position))
	}
	t := NewTeam(r.Name, players)
	if r.Style != "" {
		t.Style = r.Style
	}
	return t
}

// AverageOverall is the mean ovr of the stored squad.
func (r Record) AverageOverall() float64 {
	if len(r.Players) == 0 {
		return 0
	}
	total := 0
	for _, p := range r.Players {
		total += p.Overall
	}
	return float64(total) / float64(len(r.Players))
}

// RecordOf converts a team back to its persisted form, dropping match state.
func RecordOf(t *Team) Record {
	rec := Record{Name: t.Name, Style: t.Style, Players: make([]PlayerRecord, 0, len(t.Players))}
	for _, p := range t.Players {
		rec.Players = append(rec.Players, PlayerRecord{Name: p.Name, Overall: p.Overall, Position: p.Position})
	}
	return rec
}
