package game

import "sort"

// Standing is one player's final (or running) result.
type Standing struct {
	Seat   int    `json:"seat"`
	Player string `json:"player"`
	Upper  int    `json:"upper"`
	Bonus  int    `json:"bonus"`
	Total  int    `json:"total"`
	// Rank is 1 for the highest total; equal totals share a rank.
	Rank int `json:"rank"`
}

// Standings returns every player's totals in seat order. It can be called at
// any point; after the last round it is the final result.
func (m *Match) Standings() []Standing {
	standings := make([]Standing, len(m.players))
	for i := range m.players {
		card := &m.players[i].Card
		upper := card.UpperSubtotal()
		standings[i] = Standing{
			Seat:   i,
			Player: m.players[i].Name,
			Upper:  upper,
			Bonus:  m.rules.Bonus(upper),
			Total:  card.Total(m.rules),
		}
	}

	totals := make([]int, len(standings))
	for i, s := range standings {
		totals[i] = s.Total
	}
	sort.Sort(sort.Reverse(sort.IntSlice(totals)))
	rank := 0
	for i, total := range totals {
		if i == 0 || total != totals[i-1] {
			rank++
		}
		for j := range standings {
			if standings[j].Total == total && standings[j].Rank == 0 {
				standings[j].Rank = rank
			}
		}
	}
	return standings
}

// Winner returns the first player in seat order holding the highest total.
// ok is false only for a match without players, which NewMatch forbids.
func (m *Match) Winner() (Standing, bool) {
	standings := m.Standings()
	if len(standings) == 0 {
		return Standing{}, false
	}
	best := standings[0]
	for _, s := range standings[1:] {
		if s.Total > best.Total {
			best = s
		}
	}
	return best, true
}
