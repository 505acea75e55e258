package tactical

import "github.com/chenBenjamin97/football-tracker/pkg/detection"

//Pitch dimensions in meters
const (
	PitchLength       = 105.0
	PitchWidth        = 68.0
	penaltyBoxLength  = 16.5
	penaltyBoxWidth   = 40.32
	goalBoxLength     = 5.5
	goalBoxWidth      = 18.32
	penaltySpot       = 11.0
	centerCircleRange = 9.15
)

//Pitch is the top-down model projections are expressed in: origin at the top-left corner flag,
//X along the touchline and Y along the goal line, both in meters.
type Pitch struct {
	Length, Width float64
	Keypoints     []detection.Point //indexed by the detector's keypoint label
}

//DefaultPitch returns the 105x68 pitch with its 32 keypoints:
//0-12 left half lines, 13-16 halfway line, 17-29 right half (mirror of 0-12), 30-31 center circle sides.
func DefaultPitch() Pitch {
	left := []detection.Point{
		{X: 0, Y: 0},
		{X: 0, Y: (PitchWidth - penaltyBoxWidth) / 2},
		{X: 0, Y: (PitchWidth - goalBoxWidth) / 2},
		{X: 0, Y: (PitchWidth + goalBoxWidth) / 2},
		{X: 0, Y: (PitchWidth + penaltyBoxWidth) / 2},
		{X: 0, Y: PitchWidth},
		{X: goalBoxLength, Y: (PitchWidth - goalBoxWidth) / 2},
		{X: goalBoxLength, Y: (PitchWidth + goalBoxWidth) / 2},
		{X: penaltySpot, Y: PitchWidth / 2},
		{X: penaltyBoxLength, Y: (PitchWidth - penaltyBoxWidth) / 2},
		{X: penaltyBoxLength, Y: (PitchWidth - goalBoxWidth) / 2},
		{X: penaltyBoxLength, Y: (PitchWidth + goalBoxWidth) / 2},
		{X: penaltyBoxLength, Y: (PitchWidth + penaltyBoxWidth) / 2},
	}

	kps := make([]detection.Point, 0, 32)
	kps = append(kps, left...)
	kps = append(kps,
		detection.Point{X: PitchLength / 2, Y: 0},
		detection.Point{X: PitchLength / 2, Y: PitchWidth/2 - centerCircleRange},
		detection.Point{X: PitchLength / 2, Y: PitchWidth/2 + centerCircleRange},
		detection.Point{X: PitchLength / 2, Y: PitchWidth},
	)
	for _, p := range left {
		kps = append(kps, detection.Point{X: PitchLength - p.X, Y: p.Y})
	}
	kps = append(kps,
		detection.Point{X: PitchLength/2 - centerCircleRange, Y: PitchWidth / 2},
		detection.Point{X: PitchLength/2 + centerCircleRange, Y: PitchWidth / 2},
	)

	return Pitch{Length: PitchLength, Width: PitchWidth, Keypoints: kps}
}

//Keypoint returns the pitch coordinates of a keypoint label
func (p Pitch) Keypoint(label int) (detection.Point, bool) {
	if label < 0 || label >= len(p.Keypoints) {
		return detection.Point{}, false
	}
	return p.Keypoints[label], true
}

//Contains reports whether a projected point falls on the pitch, with margin meters of tolerance around the lines
func (p Pitch) Contains(pt detection.Point, margin float64) bool {
	return pt.X >= -margin && pt.X <= p.Length+margin && pt.Y >= -margin && pt.Y <= p.Width+margin
}
