package jersey

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
	"github.com/chenBenjamin97/football-tracker/pkg/team"
)

//Classifier scores every team filter by the share of torso pixels inside its HSV range
type Classifier struct {
	Filters         []team.Filter
	ConfidenceFloor float64 //minimal share of matching pixels, below it the player is Unknown
}

func NewClassifier(filters []team.Filter) *Classifier {
	return &Classifier{Filters: filters, ConfidenceFloor: 0.2}
}

//Torso returns the middle third of r on both axes, trying to catch the uniform only
func Torso(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	t := image.Rect(r.Min.X+w/3, r.Min.Y+h/3, r.Max.X-w/3, r.Max.Y-h/3)
	if t.Empty() {
		return r
	}
	return t
}

func scalar(v team.HSV) gocv.Scalar {
	return gocv.NewScalar(v.H, v.S, v.V, 0)
}

//ClassifyMat labels a BGR crop by its whole area
func (c *Classifier) ClassifyMat(crop gocv.Mat) (string, float64) {
	if crop.Empty() || len(c.Filters) == 0 {
		return team.Unknown, 0
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(crop, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()

	total := float64(hsv.Rows() * hsv.Cols())
	best, bestScore := team.Unknown, 0.0
	for _, f := range c.Filters {
		matching := 0
		for _, bounds := range f.Ranges() {
			gocv.InRangeWithScalar(hsv, scalar(bounds[0]), scalar(bounds[1]), &mask)
			matching += gocv.CountNonZero(mask)
		}

		if score := float64(matching) / total; score > bestScore {
			best, bestScore = f.Name, score
		}
	}

	if bestScore < c.ConfidenceFloor {
		return team.Unknown, bestScore
	}
	return best, bestScore
}

//Bind returns the team classifier of one frame. frame must stay open while it is used.
func (c *Classifier) Bind(frame gocv.Mat) team.Classifier {
	return frameClassifier{classifier: c, frame: frame}
}

type frameClassifier struct {
	classifier *Classifier
	frame      gocv.Mat
}

func (f frameClassifier) Classify(box detection.BBox) (string, float64) {
	r := box.Rect(image.Rect(0, 0, f.frame.Cols(), f.frame.Rows()))
	if r.Empty() {
		return "", 0
	}

	roi := f.frame.Region(Torso(r))
	defer roi.Close()
	return f.classifier.ClassifyMat(roi)
}
