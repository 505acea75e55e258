package tracking

import (
	"fmt"
	"math"
	"sort"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

//State is the lifecycle state of a track. A track only moves forward: Tentative -> Confirmed -> Lost.
//A track that never got confirmed goes straight from Tentative to Lost.
type State int

const (
	Tentative State = iota //new, not yet matched initialization delay frames in a row
	Confirmed              //stable identity
	Lost                   //hit counter ran out, the track is removed in the same update
)

func (s State) String() string {
	switch s {
	case Tentative:
		return "tentative"
	case Confirmed:
		return "confirmed"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

//Config tunes one tracker instance. Players and the ball use different presets.
type Config struct {
	Class               detection.Class
	DistanceThreshold   float64 //pixels, pairs further apart are never matched
	InitializationDelay int     //consecutive matched frames needed to confirm a track
	HitCounterMax       int     //unmatched frames a confirmed track survives
}

//PlayerConfig: tight matching, short initialization delay, moderate persistence
func PlayerConfig() Config {
	return Config{Class: detection.Player, DistanceThreshold: 250, InitializationDelay: 3, HitCounterMax: 90}
}

//BallConfig: loose matching, long initialization delay against noise and a very long persistence to survive occlusions
func BallConfig() Config {
	return Config{Class: detection.Ball, DistanceThreshold: 150, InitializationDelay: 20, HitCounterMax: 2000}
}

//Track is an identity persisted across frames. It is owned by the Tracker that created it.
type Track struct {
	ID          int
	Class       detection.Class
	State       State
	HitCounter  int
	Age         int //updates since creation
	Hits        int //consecutive matched updates, creation excluded
	BBox        detection.BBox
	Confidence  float64
	LastSeen    int //tracker frame of the last match
	ConfirmedAt int //tracker frame of confirmation, -1 while tentative
}

//Position is the representative point of the track in current-frame pixels
func (t *Track) Position() detection.Point {
	return t.BBox.Center()
}

//Distance is the mean euclidean distance between the corners of a and b
func Distance(a, b detection.BBox) float64 {
	ca, cb := a.Corners(), b.Corners()
	return (ca[0].Distance(cb[0]) + ca[1].Distance(cb[1])) / 2
}

//Tracker assigns persistent ids to detections of one class
type Tracker struct {
	cfg     Config
	tracks  []*Track //active tracks ordered by id
	removed []*Track //tracks discarded during the last update
	nextID  int
	frame   int
}

func NewTracker(cfg Config) *Tracker {
	return &Tracker{cfg: cfg, nextID: 1, frame: -1}
}

func (t *Tracker) Config() Config { return t.cfg }

type candidatePair struct {
	track, det int
	distance   float64
}

//Update feeds the detections of one frame. Existing tracks are first moved through transform to compensate
//camera motion, then matched greedily (closest pair first) to detections within the distance threshold.
//It returns the tracks matched in this frame, tentative and confirmed.
func (t *Tracker) Update(dets []detection.Detection, transform CoordinateTransform) []*Track {
	t.frame++
	t.removed = nil
	if transform == nil {
		transform = Identity{}
	}

	for _, tr := range t.tracks {
		tl := transform.AbsToRel(detection.Point{X: tr.BBox.X1, Y: tr.BBox.Y1})
		br := transform.AbsToRel(detection.Point{X: tr.BBox.X2, Y: tr.BBox.Y2})
		tr.BBox = detection.BBox{X1: tl.X, Y1: tl.Y, X2: br.X, Y2: br.Y}
		tr.Age++
	}

	pairs := make([]candidatePair, 0, len(t.tracks)*len(dets))
	for ti, tr := range t.tracks {
		for di, d := range dets {
			if d.Class != t.cfg.Class {
				continue
			}
			if dist := Distance(tr.BBox, d.BBox); dist <= t.cfg.DistanceThreshold {
				pairs = append(pairs, candidatePair{track: ti, det: di, distance: dist})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].distance < pairs[j].distance
	})

	trackMatch := make([]int, len(t.tracks))
	for i := range trackMatch {
		trackMatch[i] = -1
	}
	detMatched := make([]bool, len(dets))
	for _, p := range pairs {
		if trackMatch[p.track] != -1 || detMatched[p.det] {
			continue
		}
		trackMatch[p.track] = p.det
		detMatched[p.det] = true
	}

	alive := make([]*Track, 0, len(t.tracks)+len(dets))
	for ti, tr := range t.tracks {
		if di := trackMatch[ti]; di != -1 {
			t.hit(tr, dets[di])
			alive = append(alive, tr)
			continue
		}

		//confirmation needs consecutive matches, a miss starts the count over
		tr.Hits = 0
		tr.HitCounter--
		if tr.HitCounter <= 0 {
			tr.State = Lost
			t.removed = append(t.removed, tr)
			continue
		}
		alive = append(alive, tr)
	}

	for di, d := range dets {
		if detMatched[di] || d.Class != t.cfg.Class {
			continue
		}
		alive = append(alive, t.newTrack(d))
	}

	t.tracks = alive
	return t.Live()
}

func (t *Tracker) hit(tr *Track, d detection.Detection) {
	tr.BBox = d.BBox
	tr.Confidence = d.Confidence
	tr.HitCounter = t.cfg.HitCounterMax
	tr.LastSeen = t.frame
	tr.Hits++
	if tr.State == Tentative && tr.Hits >= t.cfg.InitializationDelay {
		tr.State = Confirmed
		tr.ConfirmedAt = t.frame
	}
}

func (t *Tracker) newTrack(d detection.Detection) *Track {
	tr := &Track{
		ID:          t.nextID,
		Class:       t.cfg.Class,
		State:       Tentative,
		HitCounter:  t.cfg.HitCounterMax,
		BBox:        d.BBox,
		Confidence:  d.Confidence,
		LastSeen:    t.frame,
		ConfirmedAt: -1,
	}
	t.nextID++

	if t.cfg.InitializationDelay <= 0 {
		tr.State = Confirmed
		tr.ConfirmedAt = t.frame
	}
	return tr
}

//Live returns the tracks matched in the last update
func (t *Tracker) Live() []*Track {
	res := make([]*Track, 0, len(t.tracks))
	for _, tr := range t.tracks {
		if tr.LastSeen == t.frame {
			res = append(res, tr)
		}
	}
	return res
}

//Tracks returns every active track, including confirmed tracks coasting through missed frames
func (t *Tracker) Tracks() []*Track {
	return append([]*Track(nil), t.tracks...)
}

//Removed returns the tracks discarded by the last update
func (t *Tracker) Removed() []*Track {
	return t.removed
}

//Get returns the active track with given id
func (t *Tracker) Get(id int) (*Track, bool) {
	for _, tr := range t.tracks {
		if tr.ID == id {
			return tr, true
		}
	}
	return nil, false
}

//ConfirmedTracks filters tracks down to the confirmed ones
func ConfirmedTracks(tracks []*Track) []*Track {
	res := make([]*Track, 0, len(tracks))
	for _, tr := range tracks {
		if tr.State == Confirmed {
			res = append(res, tr)
		}
	}
	return res
}

//MainBall picks the ball among the tracked candidates: confirmed before tentative, then highest confidence,
//then the most recently confirmed one. Returns nil when there is no candidate.
func MainBall(tracks []*Track) *Track {
	var best *Track
	for _, tr := range tracks {
		if tr.Class != detection.Ball || tr.State == Lost {
			continue
		}
		if best == nil || betterBall(tr, best) {
			best = tr
		}
	}
	return best
}

func betterBall(a, b *Track) bool {
	if (a.State == Confirmed) != (b.State == Confirmed) {
		return a.State == Confirmed
	}
	if math.Abs(a.Confidence-b.Confidence) > 1e-9 {
		return a.Confidence > b.Confidence
	}
	if a.ConfirmedAt != b.ConfirmedAt {
		return a.ConfirmedAt > b.ConfirmedAt
	}
	return a.ID < b.ID
}
