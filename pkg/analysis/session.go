package analysis

import (
	"maps"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
	"github.com/chenBenjamin97/football-tracker/pkg/match"
	"github.com/chenBenjamin97/football-tracker/pkg/tactical"
	"github.com/chenBenjamin97/football-tracker/pkg/team"
	"github.com/chenBenjamin97/football-tracker/pkg/tracking"
	"github.com/chenBenjamin97/football-tracker/pkg/utils"
)

//FrameInput is everything the detectors and the motion estimator produced for one frame
type FrameInput struct {
	Index     int
	Players   []detection.Detection
	Balls     []detection.Detection
	Keypoints []detection.Detection
	Transform tracking.CoordinateTransform //nil means a static camera
	Teams     team.Classifier              //jersey classifier bound to this frame, nil adds no team evidence
}

type Config struct {
	Player  tracking.Config
	Ball    tracking.Config
	Inertia int
}

func DefaultConfig() Config {
	return Config{Player: tracking.PlayerConfig(), Ball: tracking.BallConfig(), Inertia: utils.DefaultInertia}
}

//Session owns every piece of state of one run. Frames have to be stepped in order, from a single goroutine.
type Session struct {
	players    *tracking.Tracker
	balls      *tracking.Tracker
	classifier *team.InertiaClassifier
	projector  *tactical.Projector
	match      *match.Match

	current []*match.Player
	ball    *match.Ball
	seen    map[int]bool
	result  Result
}

func NewSession(cfg Config, m *match.Match, projector *tactical.Projector) *Session {
	if projector == nil {
		projector = tactical.NewProjector(tactical.DefaultConfig(), nil)
	}
	m.ResetDistanceTracking()

	return &Session{
		players:    tracking.NewTracker(cfg.Player),
		balls:      tracking.NewTracker(cfg.Ball),
		classifier: team.NewInertiaClassifier(cfg.Inertia),
		projector:  projector,
		match:      m,
		seen:       make(map[int]bool),
		result: Result{
			Metadata: Metadata{
				FPS:            m.FPS,
				PixelsToMeters: m.PixelsToMeters,
				Home:           teamInfo(m.Home),
				Away:           teamInfo(m.Away),
			},
			Frames: make([]FrameResult, 0),
		},
	}
}

func (s *Session) Match() *match.Match            { return s.match }
func (s *Session) Projector() *tactical.Projector { return s.projector }

//Players returns the players of the last stepped frame, tentative ones included
func (s *Session) Players() []*match.Player { return s.current }

//Ball returns the main ball of the last stepped frame, nil if none
func (s *Session) Ball() *match.Ball { return s.ball }

//Metadata gives access to the run metadata before the result is taken
func (s *Session) Metadata() *Metadata { return &s.result.Metadata }

//Step runs one frame through trackers, team classifier, projector and match and appends its FrameResult
func (s *Session) Step(in FrameInput) FrameResult {
	if len(in.Keypoints) > 0 {
		if err := s.projector.UpdateFromKeypoints(in.Keypoints); err != nil {
			log.Debug().Int("frame", in.Index).Err(err).Msg("Step: keypoints rejected")
		}
	}

	playerTracks := s.players.Update(detection.Filter(in.Players, detection.Player), in.Transform)
	ballTracks := s.balls.Update(detection.Filter(in.Balls, detection.Ball), in.Transform)

	for _, removed := range s.players.Removed() {
		s.classifier.Forget(removed.ID)
		s.match.Forget(removed.ID)
	}

	s.current = make([]*match.Player, 0, len(playerTracks))
	byID := make(map[int]*match.Player, len(playerTracks))
	for _, tr := range playerTracks {
		label := s.classifier.Predict(tr.ID, in.Teams, tr.BBox)
		p := &match.Player{ID: tr.ID, Team: s.match.TeamByName(label), BBox: tr.BBox}
		s.current = append(s.current, p)
		byID[tr.ID] = p
	}

	s.ball = nil
	if main := tracking.MainBall(ballTracks); main != nil {
		s.ball = &match.Ball{ID: main.ID, BBox: main.BBox}
	}

	s.match.Update(s.current, s.ball)

	fr := FrameResult{
		FrameIndex:        in.Index,
		Players:           make([]PlayerRecord, 0, len(playerTracks)),
		Possession:        s.match.Snapshot(),
		TacticalPositions: make(map[int][2]float64),
	}

	ready := s.projector.State() == tactical.Ready
	for _, tr := range tracking.ConfirmedTracks(playerTracks) {
		p := byID[tr.ID]
		s.seen[tr.ID] = true

		name := team.Unknown
		if p.Team != nil {
			name = p.Team.Name
		}
		fr.Players = append(fr.Players, PlayerRecord{ID: p.ID, Team: name, Position: pair(p.Position())})

		if !ready {
			continue
		}
		if pos, err := s.projector.Project(p.Feet()); err == nil {
			fr.TacticalPositions[p.ID] = pair(pos)
		}
	}

	if s.ball != nil {
		fr.Ball = &BallRecord{Position: pair(s.ball.Position())}
	}

	s.result.Frames = append(s.result.Frames, fr)

	//the stored record is immutable, callers get their own copy
	out := fr
	out.Players = slices.Clone(fr.Players)
	out.TacticalPositions = maps.Clone(fr.TacticalPositions)
	return out
}

//Frames returns how many frames were stepped
func (s *Session) Frames() int { return len(s.result.Frames) }

//Result closes the aggregation and returns the run result. The session must not be stepped afterwards.
func (s *Session) Result() *Result {
	m := s.match
	s.result.Passes = append([]match.Pass{}, m.Passes...)
	s.result.Summary = Summary{
		Frames:       len(s.result.Frames),
		HomePct:      m.PossessionPercentage(m.Home) * 100,
		AwayPct:      m.PossessionPercentage(m.Away) * 100,
		HomeShare:    m.PossessionShare(m.Home) * 100,
		AwayShare:    m.PossessionShare(m.Away) * 100,
		HomeDistance: m.Home.Distance,
		AwayDistance: m.Away.Distance,
		HomePasses:   m.PassesOf(m.Home),
		AwayPasses:   m.PassesOf(m.Away),
		Calibration:  s.projector.State().String(),
		PlayersSeen:  len(s.seen),
	}
	return &s.result
}
