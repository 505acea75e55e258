package tactical

import (
	"sort"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

const (
	//VisibleWidthMeters is the pitch length a broadcast frame shows when nothing better is known: half the pitch
	VisibleWidthMeters = PitchLength / 2
	//minPixelSpan ignores keypoint pairs too close on screen to give a stable ratio
	minPixelSpan      = 10.0
	defaultFrameWidth = 1920
)

//AutoCalibrate estimates one global meters-per-pixel scale from keypoints sampled over the first frames of a video.
//Every pair of confident keypoints seen in the same frame gives a ratio between their pitch distance and their
//pixel distance; the median ratio wins. Without any pair it falls back to VisibleWidthMeters spread over frameWidth.
func AutoCalibrate(samples [][]detection.Detection, frameWidth int, minConfidence float64) float64 {
	pitch := DefaultPitch()
	var ratios []float64

	for _, frame := range samples {
		pts := make(map[int]detection.Point)
		for _, kp := range frame {
			if kp.Class != detection.Keypoint || kp.Confidence < minConfidence {
				continue
			}
			if _, ok := pitch.Keypoint(kp.Label); ok {
				pts[kp.Label] = kp.BBox.Center()
			}
		}

		labels := make([]int, 0, len(pts))
		for l := range pts {
			labels = append(labels, l)
		}
		sort.Ints(labels)

		for i := 0; i < len(labels); i++ {
			for j := i + 1; j < len(labels); j++ {
				pixels := pts[labels[i]].Distance(pts[labels[j]])
				if pixels < minPixelSpan {
					continue
				}
				a, _ := pitch.Keypoint(labels[i])
				b, _ := pitch.Keypoint(labels[j])
				if meters := a.Distance(b); meters > 0 {
					ratios = append(ratios, meters/pixels)
				}
			}
		}
	}

	if len(ratios) == 0 {
		if frameWidth <= 0 {
			frameWidth = defaultFrameWidth
		}
		return VisibleWidthMeters / float64(frameWidth)
	}

	sort.Float64s(ratios)
	mid := len(ratios) / 2
	if len(ratios)%2 == 1 {
		return ratios[mid]
	}
	return (ratios[mid-1] + ratios[mid]) / 2
}
