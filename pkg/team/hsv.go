package team

import "github.com/chenBenjamin97/football-tracker/pkg/detection"

//Unknown is the label given to a player no filter is confident about
const Unknown = "unknown"

//HSV uses OpenCV ranges: H in [0,180), S and V in [0,255]
type HSV struct {
	H, S, V float64
}

//Filter is one team's jersey color range. When Lower.H > Upper.H the hue range wraps around 180 (reds).
type Filter struct {
	Name         string
	Lower, Upper HSV
}

//Ranges splits the filter into plain lower/upper bounds, two of them when the hue wraps
func (f Filter) Ranges() [][2]HSV {
	if f.Lower.H <= f.Upper.H {
		return [][2]HSV{{f.Lower, f.Upper}}
	}
	return [][2]HSV{
		{f.Lower, {H: 180, S: f.Upper.S, V: f.Upper.V}},
		{{H: 0, S: f.Lower.S, V: f.Lower.V}, f.Upper},
	}
}

//Classifier labels the player standing inside box on the current frame.
//An empty label means the frame holds no evidence for that box (outside the frame, no pixels).
type Classifier interface {
	Classify(box detection.BBox) (label string, score float64)
}
