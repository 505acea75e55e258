package tactical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

//perspective is a mild broadcast-like pixel -> meters transform
var perspective = NewHomography([9]float64{
	0.08, 0.01, -5,
	0.002, 0.12, -3,
	0.00002, 0.0004, 1,
})

func TestDLTFitterRecoversHomography(t *testing.T) {
	src := []detection.Point{{X: 100, Y: 80}, {X: 1700, Y: 90}, {X: 1800, Y: 900}, {X: 50, Y: 950}, {X: 900, Y: 500}, {X: 400, Y: 300}}
	dst := make([]detection.Point, len(src))
	for i, p := range src {
		var err error
		dst[i], err = perspective.Apply(p)
		require.NoError(t, err)
	}

	h, err := DLTFitter{}.FitHomography(src, dst)
	require.NoError(t, err)

	want, got := perspective.Values(), h.Values()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "element %d", i)
	}

	rms, err := ReprojectionError(h, src, dst)
	require.NoError(t, err)
	assert.Less(t, rms, 1e-6)
}

func TestDLTFitterExactWithFourPoints(t *testing.T) {
	src := []detection.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 50}, {X: 0, Y: 50}}
	dst := []detection.Point{{X: 10, Y: 10}, {X: 60, Y: 10}, {X: 60, Y: 35}, {X: 10, Y: 35}}

	h, err := DLTFitter{}.FitHomography(src, dst)
	require.NoError(t, err)

	p, err := h.Apply(detection.Point{X: 50, Y: 25})
	require.NoError(t, err)
	assert.InDelta(t, 35.0, p.X, 1e-9)
	assert.InDelta(t, 22.5, p.Y, 1e-9)
}

func TestDLTFitterErrors(t *testing.T) {
	_, err := DLTFitter{}.FitHomography(make([]detection.Point, 3), make([]detection.Point, 3))
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = DLTFitter{}.FitHomography(make([]detection.Point, 4), make([]detection.Point, 5))
	assert.Error(t, err)

	collinear := []detection.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}
	_, err = DLTFitter{}.FitHomography(collinear, collinear)
	assert.ErrorIs(t, err, ErrDegenerate)

	same := []detection.Point{{X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}}
	_, err = DLTFitter{}.FitHomography(same, collinear)
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestHomographyInverse(t *testing.T) {
	inv, err := perspective.Inverse()
	require.NoError(t, err)

	p := detection.Point{X: 640, Y: 360}
	m, err := perspective.Apply(p)
	require.NoError(t, err)
	back, err := inv.Apply(m)
	require.NoError(t, err)
	assert.InDelta(t, p.X, back.X, 1e-6)
	assert.InDelta(t, p.Y, back.Y, 1e-6)

	_, err = NewHomography([9]float64{1, 2, 3, 2, 4, 6, 0, 0, 1}).Inverse()
	assert.ErrorIs(t, err, ErrDegenerate)
}

func TestDefaultPitch(t *testing.T) {
	pitch := DefaultPitch()
	require.Len(t, pitch.Keypoints, 32)

	corner, ok := pitch.Keypoint(0)
	require.True(t, ok)
	assert.Equal(t, detection.Point{}, corner)

	//left and right halves mirror each other
	for i := 0; i <= 12; i++ {
		l, _ := pitch.Keypoint(i)
		r, _ := pitch.Keypoint(17 + i)
		assert.InDelta(t, PitchLength, l.X+r.X, 1e-9, "keypoint %d", i)
		assert.Equal(t, l.Y, r.Y)
	}

	_, ok = pitch.Keypoint(32)
	assert.False(t, ok)
	_, ok = pitch.Keypoint(detection.NoLabel)
	assert.False(t, ok)

	assert.True(t, pitch.Contains(detection.Point{X: 52.5, Y: 34}, 0))
	assert.False(t, pitch.Contains(detection.Point{X: 110, Y: 34}, 2))
}
