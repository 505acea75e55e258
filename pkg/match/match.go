package match

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

const (
	//BallDistanceThreshold is the largest distance in pixels between the ball and a player's box for the player to hold the ball
	BallDistanceThreshold = 45.0
	//PassMinFrames is the number of consecutive frames a player has to be closest to the ball to become its holder
	PassMinFrames = 3
	//MaxStepMeters drops per frame displacements no player can run, they come from identity switches
	MaxStepMeters = 3.0
)

//Match aggregates possession, passes and distance over the frames of one video
type Match struct {
	Home, Away     *Team
	FPS            float64
	PixelsToMeters float64

	BallDistanceThreshold float64
	PassMinFrames         int

	TeamPossession *Team   //last team that had the ball, kept while nobody has it
	ClosestPlayer  *Player //player holding the ball in the last frame, nil if none
	Duration       int     //frames seen
	Passes         []Pass

	candidateID     int
	candidateFrames int
	holderID        int
	holderTeam      *Team
	holderPosition  detection.Point

	lastPositions map[int]detection.Point
}

func NewMatch(home, away *Team, fps, pixelsToMeters float64) *Match {
	return &Match{
		Home:                  home,
		Away:                  away,
		FPS:                   fps,
		PixelsToMeters:        pixelsToMeters,
		BallDistanceThreshold: BallDistanceThreshold,
		PassMinFrames:         PassMinFrames,
		lastPositions:         make(map[int]detection.Point),
	}
}

//Teams returns home and away
func (m *Match) Teams() []*Team {
	return []*Team{m.Home, m.Away}
}

//TeamByName returns the team with given name, nil if none
func (m *Match) TeamByName(name string) *Team {
	for _, t := range m.Teams() {
		if t.Name == name {
			return t
		}
	}
	return nil
}

//ResetDistanceTracking zeroes the distance counters and forgets every previous position
func (m *Match) ResetDistanceTracking() {
	m.lastPositions = make(map[int]detection.Point)
	m.Home.Distance = 0
	m.Away.Distance = 0
}

//Forget drops what is known about a player whose track was removed
func (m *Match) Forget(id int) {
	delete(m.lastPositions, id)
	if m.candidateID == id {
		m.candidateID, m.candidateFrames = 0, 0
	}
}

//Update processes one frame. ball is nil when there is no ball in the frame.
func (m *Match) Update(players []*Player, ball *Ball) {
	frame := m.Duration
	m.Duration++

	m.trackDistance(players)

	m.ClosestPlayer = nil
	if ball == nil {
		m.candidateID, m.candidateFrames = 0, 0
		return
	}

	closest := m.closestPlayer(players, ball.Position())
	if closest == nil {
		m.candidateID, m.candidateFrames = 0, 0
		return
	}

	m.ClosestPlayer = closest
	m.TeamPossession = closest.Team
	closest.Team.PossessionFrames++

	m.trackPasses(frame, closest)
}

//closestPlayer returns the player of a known team nearest to the ball, within the threshold
func (m *Match) closestPlayer(players []*Player, ball detection.Point) *Player {
	var best *Player
	bestDistance := math.Inf(1)
	for _, p := range players {
		if p.Team == nil {
			continue
		}
		if d := p.BBox.DistanceTo(ball); d < bestDistance || (d == bestDistance && best != nil && p.ID < best.ID) {
			best, bestDistance = p, d
		}
	}
	if best == nil || bestDistance > m.BallDistanceThreshold {
		return nil
	}
	return best
}

func (m *Match) trackPasses(frame int, closest *Player) {
	if closest.ID == m.candidateID {
		m.candidateFrames++
	} else {
		m.candidateID, m.candidateFrames = closest.ID, 1
	}

	if m.candidateFrames < m.PassMinFrames {
		return
	}

	if m.candidateFrames == m.PassMinFrames && m.holderID != 0 && m.holderID != closest.ID && m.holderTeam == closest.Team {
		pass := Pass{
			Frame: frame,
			Team:  closest.Team.Name,
			From:  m.holderID,
			To:    closest.ID,
			Start: m.holderPosition,
			End:   closest.Position(),
		}
		m.Passes = append(m.Passes, pass)
		log.Debug().Int("frame", frame).Str("team", pass.Team).Int("from", pass.From).Int("to", pass.To).Msg("Update: pass")
	}

	m.holderID = closest.ID
	m.holderTeam = closest.Team
	m.holderPosition = closest.Position()
}

func (m *Match) trackDistance(players []*Player) {
	for _, p := range players {
		feet := p.Feet()
		prev, ok := m.lastPositions[p.ID]
		m.lastPositions[p.ID] = feet
		if !ok || p.Team == nil {
			continue
		}

		step := prev.Distance(feet) * m.PixelsToMeters
		if step <= MaxStepMeters {
			p.Team.Distance += step
		}
	}
}

//PossessionPercentage is the fraction of all frames, between 0 and 1, team had the ball
func (m *Match) PossessionPercentage(team *Team) float64 {
	return team.PossessionPercentage(m.Duration)
}

//PossessionShare is the fraction of the frames with a ball holder that went to team
func (m *Match) PossessionShare(team *Team) float64 {
	total := m.Home.PossessionFrames + m.Away.PossessionFrames
	if total == 0 {
		return 0
	}
	return float64(team.PossessionFrames) / float64(total)
}

//PossessionTime returns the seconds team had the ball
func (m *Match) PossessionTime(team *Team) float64 {
	return team.PossessionTime(m.FPS)
}

//PassesOf returns how many passes team completed
func (m *Match) PassesOf(team *Team) int {
	n := 0
	for _, p := range m.Passes {
		if p.Team == team.Name {
			n++
		}
	}
	return n
}
