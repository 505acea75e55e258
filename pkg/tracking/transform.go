package tracking

import (
	"sort"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

//CoordinateTransform describes the camera motion between the previous frame and the current one
type CoordinateTransform interface {
	//AbsToRel maps a point from previous-frame pixels into current-frame pixels
	AbsToRel(p detection.Point) detection.Point
	//RelToAbs is the inverse of AbsToRel
	RelToAbs(p detection.Point) detection.Point
}

//Identity is the transform of a static camera
type Identity struct{}

func (Identity) AbsToRel(p detection.Point) detection.Point { return p }
func (Identity) RelToAbs(p detection.Point) detection.Point { return p }

//Translation is a pure pan: every pixel moved by DX,DY since the previous frame
type Translation struct {
	DX, DY float64
}

func (t Translation) AbsToRel(p detection.Point) detection.Point { return p.Add(t.DX, t.DY) }
func (t Translation) RelToAbs(p detection.Point) detection.Point { return p.Add(-t.DX, -t.DY) }

//EstimateTranslation returns the median displacement between matching points of prev and next.
//prev[i] must correspond to next[i]. With less than minPoints pairs it returns Identity and false.
func EstimateTranslation(prev, next []detection.Point, minPoints int) (CoordinateTransform, bool) {
	n := len(prev)
	if len(next) < n {
		n = len(next)
	}
	if n == 0 || n < minPoints {
		return Identity{}, false
	}

	dxs := make([]float64, n)
	dys := make([]float64, n)
	for i := 0; i < n; i++ {
		dxs[i] = next[i].X - prev[i].X
		dys[i] = next[i].Y - prev[i].Y
	}

	return Translation{DX: median(dxs), DY: median(dys)}, true
}

func median(values []float64) float64 {
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return (values[mid-1] + values[mid]) / 2
}
