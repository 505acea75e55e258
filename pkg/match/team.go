package match

import "image/color"

//Team is one side of a match. Its counters are owned by the Match it plays in.
type Team struct {
	Name         string
	Abbreviation string
	Color        color.RGBA //player boxes
	BoardColor   color.RGBA //possession board background
	TextColor    color.RGBA

	PossessionFrames int
	Distance         float64 //meters covered by all its players
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

//NewTeam creates a team whose board uses the team color and black text
func NewTeam(name, abbreviation string, c color.RGBA) *Team {
	return &Team{Name: name, Abbreviation: abbreviation, Color: c, BoardColor: c, TextColor: rgb(0, 0, 0)}
}

//PossessionTime returns the seconds the team had the ball
func (t *Team) PossessionTime(fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(t.PossessionFrames) / fps
}

//PossessionPercentage is the fraction of all frames, between 0 and 1, the team had the ball
func (t *Team) PossessionPercentage(duration int) float64 {
	if duration <= 0 {
		return 0
	}
	return float64(t.PossessionFrames) / float64(duration)
}

//RGB returns the team color as a json friendly triple
func (t *Team) RGB() [3]uint8 {
	return [3]uint8{t.Color.R, t.Color.G, t.Color.B}
}
