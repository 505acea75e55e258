package match

import "github.com/chenBenjamin97/football-tracker/pkg/detection"

//Player is a confirmed or tentative player track of the current frame with its smoothed team. Team is nil when unknown.
type Player struct {
	ID   int
	Team *Team
	BBox detection.BBox
}

func (p *Player) Position() detection.Point { return p.BBox.Center() }

//Feet is where the player stands on the pitch
func (p *Player) Feet() detection.Point { return p.BBox.Feet() }

//Ball is the main ball of the current frame
type Ball struct {
	ID   int
	BBox detection.BBox
}

func (b *Ball) Position() detection.Point { return b.BBox.Center() }

//Pass is a change of the ball holder within the same team
type Pass struct {
	Frame int             `json:"frame"`
	Team  string          `json:"team"`
	From  int             `json:"from"`
	To    int             `json:"to"`
	Start detection.Point `json:"start"`
	End   detection.Point `json:"end"`
}
