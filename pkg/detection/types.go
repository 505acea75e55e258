package detection

import (
	"fmt"
	"image"
	"math"
)

//Class is the kind of object a detector reported
type Class int

const (
	Player Class = iota
	Ball
	Keypoint
)

//NoLabel is the Label of every detection which is not a pitch keypoint
const NoLabel = -1

func (c Class) String() string {
	switch c {
	case Player:
		return "player"
	case Ball:
		return "ball"
	case Keypoint:
		return "keypoint"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

//ParseClass maps the detector's class names to Class. "person" is accepted as a player because COCO models report it so.
func ParseClass(s string) (Class, error) {
	switch s {
	case "player", "person", "goalkeeper":
		return Player, nil
	case "ball", "sports ball":
		return Ball, nil
	case "keypoint", "pitch_keypoint":
		return Keypoint, nil
	}
	return 0, fmt.Errorf("ParseClass: unknown class '%s'", s)
}

//Point is a position in pixels or meters, depending on who produced it
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

//Distance returns the euclidean distance between p and q
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

//BBox is an axis aligned box: X1,Y1 top-left and X2,Y2 bottom-right
type BBox struct {
	X1, Y1, X2, Y2 float64
}

func (b BBox) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

//Feet is the bottom-center of the box, where a player touches the pitch
func (b BBox) Feet() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: b.Y2}
}

//Corners returns the two points used to compare boxes between frames
func (b BBox) Corners() [2]Point {
	return [2]Point{{X: b.X1, Y: b.Y1}, {X: b.X2, Y: b.Y2}}
}

func (b BBox) Width() float64  { return b.X2 - b.X1 }
func (b BBox) Height() float64 { return b.Y2 - b.Y1 }

//Translate moves the box by dx,dy
func (b BBox) Translate(dx, dy float64) BBox {
	return BBox{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}

//DistanceTo returns the distance from p to the closest point of the box (0 when p is inside)
func (b BBox) DistanceTo(p Point) float64 {
	dx := math.Max(math.Max(b.X1-p.X, 0), p.X-b.X2)
	dy := math.Max(math.Max(b.Y1-p.Y, 0), p.Y-b.Y2)
	return math.Hypot(dx, dy)
}

//Contains reports whether p lies inside the box (edges included)
func (b BBox) Contains(p Point) bool {
	return p.X >= b.X1 && p.X <= b.X2 && p.Y >= b.Y1 && p.Y <= b.Y2
}

//Rect converts the box to integer pixel coordinates, clamped to bounds
func (b BBox) Rect(bounds image.Rectangle) image.Rectangle {
	r := image.Rect(int(math.Floor(b.X1)), int(math.Floor(b.Y1)), int(math.Ceil(b.X2)), int(math.Ceil(b.Y2)))
	return r.Intersect(bounds)
}

//Box builds a BBox of the given size centered on (x, y)
func Box(x, y, w, h float64) BBox {
	return BBox{X1: x - w/2, Y1: y - h/2, X2: x + w/2, Y2: y + h/2}
}

//Detection is one object reported by the detector for one frame. It is never changed after the detector produced it.
type Detection struct {
	BBox       BBox
	Confidence float64
	Class      Class
	Label      int //pitch keypoint index, NoLabel otherwise
}

func (d Detection) String() string {
	return fmt.Sprintf("%s (confidence %.2f): (%.1f, %.1f), (%.1f, %.1f)", d.Class, d.Confidence, d.BBox.X1, d.BBox.Y1, d.BBox.X2, d.BBox.Y2)
}

//Filter returns the detections of class c
func Filter(dets []Detection, c Class) []Detection {
	res := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Class == c {
			res = append(res, d)
		}
	}
	return res
}
