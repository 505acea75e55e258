package match

//Possession is the state of the aggregator after a frame, as reported in the results
type Possession struct {
	Team         *string `json:"team"`
	PlayerID     *int    `json:"player_id"`
	HomeTime     float64 `json:"home_time"`
	AwayTime     float64 `json:"away_time"`
	HomePct      int     `json:"home_pct"`
	AwayPct      int     `json:"away_pct"`
	HomeDistance float64 `json:"home_distance"`
	AwayDistance float64 `json:"away_distance"`
	Passes       int     `json:"passes"`
}

//Snapshot copies the current possession state. Percentages are truncated to whole numbers so they never add above 100.
func (m *Match) Snapshot() Possession {
	s := Possession{
		HomeTime:     m.PossessionTime(m.Home),
		AwayTime:     m.PossessionTime(m.Away),
		HomePct:      int(m.PossessionPercentage(m.Home) * 100),
		AwayPct:      int(m.PossessionPercentage(m.Away) * 100),
		HomeDistance: m.Home.Distance,
		AwayDistance: m.Away.Distance,
		Passes:       len(m.Passes),
	}
	if m.TeamPossession != nil {
		name := m.TeamPossession.Name
		s.Team = &name
	}
	if m.ClosestPlayer != nil {
		id := m.ClosestPlayer.ID
		s.PlayerID = &id
	}
	return s
}
