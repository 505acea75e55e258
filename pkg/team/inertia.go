package team

import (
	"github.com/chenBenjamin97/football-tracker/pkg/detection"
	"github.com/chenBenjamin97/football-tracker/pkg/utils"
)

//InertiaClassifier smooths a raw classifier over time: every track id keeps its last labels and the
//displayed team is the most frequent one, so a single misclassified frame does not flip a player.
type InertiaClassifier struct {
	inertia int
	history map[int]*utils.Sequence[string]
}

func NewInertiaClassifier(inertia int) *InertiaClassifier {
	if inertia < 1 {
		inertia = utils.DefaultInertia
	}
	return &InertiaClassifier{
		inertia: inertia,
		history: make(map[int]*utils.Sequence[string]),
	}
}

//Predict classifies box of track id with the classifier of the current frame and returns the smoothed label.
//A nil classifier or an empty raw label adds no vote.
func (ic *InertiaClassifier) Predict(id int, c Classifier, box detection.BBox) string {
	var label string
	if c != nil {
		label, _ = c.Classify(box)
	}
	if label == "" {
		if current, ok := ic.Label(id); ok {
			return current
		}
		return Unknown
	}
	return ic.Observe(id, label)
}

//Observe records a raw label for track id and returns the smoothed one
func (ic *InertiaClassifier) Observe(id int, label string) string {
	seq, ok := ic.history[id]
	if !ok {
		seq = utils.NewSequence[string](ic.inertia)
		ic.history[id] = seq
	}
	seq.Push(label)

	mode, _ := seq.Mode()
	return mode
}

//Label returns the current smoothed label of track id
func (ic *InertiaClassifier) Label(id int) (string, bool) {
	seq, ok := ic.history[id]
	if !ok {
		return "", false
	}
	return seq.Mode()
}

//Forget drops the history of a track the tracker removed
func (ic *InertiaClassifier) Forget(id int) {
	delete(ic.history, id)
}

//Tracked returns the number of ids holding a history
func (ic *InertiaClassifier) Tracked() int {
	return len(ic.history)
}
