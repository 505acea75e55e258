package match

import (
	"sort"

	"github.com/chenBenjamin97/football-tracker/pkg/utils"
)

//DefaultKey is used when a run does not name a match
const DefaultKey = utils.DefaultMatchKey

type preset struct {
	home, away   func() *Team
	awayStarting bool
}

var presets = map[string]preset{
	"chelsea_man_city": {
		home: func() *Team {
			t := NewTeam("Chelsea", "CHE", rgb(255, 0, 0))
			t.BoardColor = rgb(244, 86, 64)
			t.TextColor = rgb(255, 255, 255)
			return t
		},
		away: func() *Team {
			return NewTeam("Man City", "MNC", rgb(240, 230, 188))
		},
		awayStarting: true,
	},
	"real_madrid_barcelona": {
		home: func() *Team {
			t := NewTeam("Real Madrid", "RMA", rgb(255, 255, 255))
			t.BoardColor = rgb(235, 214, 120)
			return t
		},
		away: func() *Team {
			t := NewTeam("Barcelona", "BAR", rgb(128, 0, 128))
			t.BoardColor = rgb(28, 43, 92)
			t.TextColor = rgb(255, 215, 0)
			return t
		},
	},
	"france_croatia": {
		home: func() *Team {
			t := NewTeam("France", "FRA", rgb(0, 56, 168))
			t.BoardColor = rgb(16, 44, 87)
			t.TextColor = rgb(255, 255, 255)
			return t
		},
		away: func() *Team {
			t := NewTeam("Croatia", "CRO", rgb(208, 16, 44))
			t.BoardColor = rgb(230, 230, 230)
			return t
		},
	},
}

//Keys lists the known match presets
func Keys() []string {
	keys := make([]string, 0, len(presets))
	for k := range presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Known reports whether key names a preset
func Known(key string) bool {
	_, ok := presets[key]
	return ok
}

//Setup creates the match of a preset with its initial possession. Unknown keys get a generic Home (white) against Away (black).
func Setup(key string, fps, pixelsToMeters float64) *Match {
	p, ok := presets[key]
	if !ok {
		home := NewTeam("Home", "HOM", rgb(255, 255, 255))
		away := NewTeam("Away", "AWY", rgb(0, 0, 0))
		away.TextColor = rgb(255, 255, 255)
		m := NewMatch(home, away, fps, pixelsToMeters)
		m.TeamPossession = home
		return m
	}

	m := NewMatch(p.home(), p.away(), fps, pixelsToMeters)
	m.TeamPossession = m.Home
	if p.awayStarting {
		m.TeamPossession = m.Away
	}
	return m
}
