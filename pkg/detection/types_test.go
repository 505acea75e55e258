package detection

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBBoxGeometry(t *testing.T) {
	b := Box(100, 100, 20, 40)

	assert.Equal(t, Point{X: 100, Y: 100}, b.Center())
	assert.Equal(t, Point{X: 100, Y: 120}, b.Feet())
	assert.Equal(t, 20.0, b.Width())
	assert.Equal(t, 40.0, b.Height())

	assert.Equal(t, 0.0, b.DistanceTo(Point{X: 105, Y: 100}))
	assert.InDelta(t, 5.0, b.DistanceTo(Point{X: 115, Y: 100}), 1e-9)
	assert.InDelta(t, 5.0, b.DistanceTo(Point{X: 113, Y: 124}), 1e-9)

	assert.True(t, b.Contains(Point{X: 90, Y: 80}))
	assert.False(t, b.Contains(Point{X: 89, Y: 80}))

	moved := b.Translate(5, -5)
	assert.Equal(t, Point{X: 105, Y: 95}, moved.Center())
}

func TestBBoxRectClamps(t *testing.T) {
	b := BBox{X1: -10, Y1: 5.5, X2: 30.2, Y2: 500}
	r := b.Rect(image.Rect(0, 0, 100, 100))
	assert.Equal(t, image.Rect(0, 5, 31, 100), r)
}

func TestParseClass(t *testing.T) {
	for name, want := range map[string]Class{"person": Player, "player": Player, "goalkeeper": Player, "ball": Ball, "keypoint": Keypoint} {
		got, err := ParseClass(name)
		assert.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseClass("referee")
	assert.Error(t, err)
}

func TestFilter(t *testing.T) {
	dets := []Detection{{Class: Player}, {Class: Ball}, {Class: Player}, {Class: Keypoint}}
	assert.Len(t, Filter(dets, Player), 2)
	assert.Len(t, Filter(dets, Ball), 1)
	assert.Len(t, Filter(dets, Keypoint), 1)
}
