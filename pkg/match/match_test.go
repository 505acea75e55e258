package match

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chenBenjamin97/football-tracker/pkg/detection"
)

func newTestMatch() *Match {
	return NewMatch(NewTeam("Home", "HOM", rgb(255, 255, 255)), NewTeam("Away", "AWY", rgb(0, 0, 0)), 25, 0.1)
}

func at(id int, team *Team, x, y float64) *Player {
	return &Player{ID: id, Team: team, BBox: detection.Box(x, y, 20, 40)}
}

func ballAt(x, y float64) *Ball {
	return &Ball{ID: 1, BBox: detection.Box(x, y, 6, 6)}
}

func TestUpdateCreditsClosestPlayer(t *testing.T) {
	m := newTestMatch()
	home, away := at(1, m.Home, 100, 100), at(2, m.Away, 200, 100)

	m.Update([]*Player{home, away}, ballAt(180, 100))
	require.NotNil(t, m.ClosestPlayer)
	assert.Equal(t, 2, m.ClosestPlayer.ID)
	assert.Same(t, m.Away, m.TeamPossession)
	assert.Equal(t, 1, m.Away.PossessionFrames)
	assert.Equal(t, 0, m.Home.PossessionFrames)
	assert.Equal(t, 1, m.Duration)
}

func TestUpdateThreshold(t *testing.T) {
	m := newTestMatch()
	p := at(1, m.Home, 100, 100) //box spans x 90..110

	m.Update([]*Player{p}, ballAt(110+BallDistanceThreshold, 100))
	assert.Equal(t, 1, m.Home.PossessionFrames, "exactly on the threshold still counts")

	m.Update([]*Player{p}, ballAt(111+BallDistanceThreshold, 100))
	assert.Equal(t, 1, m.Home.PossessionFrames)
	assert.Nil(t, m.ClosestPlayer)
	assert.Same(t, m.Home, m.TeamPossession, "the last team in possession is kept")
}

func TestUpdateWithoutBall(t *testing.T) {
	m := newTestMatch()
	m.TeamPossession = m.Away
	m.Update([]*Player{at(1, m.Home, 100, 100)}, nil)

	assert.Nil(t, m.ClosestPlayer)
	assert.Same(t, m.Away, m.TeamPossession)
	assert.Zero(t, m.Home.PossessionFrames+m.Away.PossessionFrames)
	assert.Equal(t, 1, m.Duration)
}

func TestUpdateSkipsPlayersWithoutTeam(t *testing.T) {
	m := newTestMatch()
	m.Update([]*Player{at(1, nil, 100, 100), at(2, m.Home, 130, 100)}, ballAt(100, 100))
	require.NotNil(t, m.ClosestPlayer)
	assert.Equal(t, 2, m.ClosestPlayer.ID)
}

func TestPossessionNeverAboveHundred(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := newTestMatch()

	for frame := 0; frame < 1000; frame++ {
		players := []*Player{at(1, m.Home, float64(rng.Intn(500)), 100), at(2, m.Away, float64(rng.Intn(500)), 100)}
		var ball *Ball
		if rng.Intn(4) > 0 {
			ball = ballAt(float64(rng.Intn(500)), 100)
		}
		m.Update(players, ball)

		s := m.Snapshot()
		require.LessOrEqual(t, s.HomePct+s.AwayPct, 100)
		require.LessOrEqual(t, m.PossessionPercentage(m.Home)+m.PossessionPercentage(m.Away), 1.0+1e-9)
	}
	assert.InDelta(t, 1.0, m.PossessionShare(m.Home)+m.PossessionShare(m.Away), 1e-9)
}

func TestPossessionHundredWhenEveryFrameCredited(t *testing.T) {
	m := newTestMatch()
	p := at(1, m.Home, 100, 100)
	for i := 0; i < 10; i++ {
		m.Update([]*Player{p}, ballAt(100, 100))
	}
	s := m.Snapshot()
	assert.Equal(t, 100, s.HomePct+s.AwayPct)
	assert.InDelta(t, 0.4, s.HomeTime, 1e-9)
}

func TestPassBetweenTeammates(t *testing.T) {
	m := newTestMatch()
	a, b, c := at(1, m.Home, 100, 100), at(2, m.Home, 400, 100), at(3, m.Away, 700, 100)
	players := []*Player{a, b, c}

	for i := 0; i < PassMinFrames; i++ {
		m.Update(players, ballAt(100, 100))
	}
	assert.Empty(t, m.Passes)

	m.Update(players, ballAt(250, 100)) //in flight
	for i := 0; i < PassMinFrames-1; i++ {
		m.Update(players, ballAt(400, 100))
	}
	assert.Empty(t, m.Passes, "receiver not confirmed yet")

	m.Update(players, ballAt(400, 100))
	require.Len(t, m.Passes, 1)
	pass := m.Passes[0]
	assert.Equal(t, Pass{Frame: 6, Team: "Home", From: 1, To: 2, Start: a.Position(), End: b.Position()}, pass)

	//more frames with the same holder add nothing
	m.Update(players, ballAt(400, 100))
	assert.Len(t, m.Passes, 1)

	//interception by the other team is not a pass
	for i := 0; i < PassMinFrames; i++ {
		m.Update(players, ballAt(700, 100))
	}
	assert.Len(t, m.Passes, 1)
	assert.Equal(t, 1, m.PassesOf(m.Home))
	assert.Equal(t, 0, m.PassesOf(m.Away))
}

func TestShortTouchIsNotAPass(t *testing.T) {
	m := newTestMatch()
	a, b := at(1, m.Home, 100, 100), at(2, m.Home, 400, 100)
	players := []*Player{a, b}

	for i := 0; i < PassMinFrames; i++ {
		m.Update(players, ballAt(100, 100))
	}
	m.Update(players, ballAt(400, 100)) //single deflection
	for i := 0; i < PassMinFrames; i++ {
		m.Update(players, ballAt(100, 100))
	}
	assert.Empty(t, m.Passes)
}

func TestDistanceTracking(t *testing.T) {
	m := newTestMatch()
	m.PixelsToMeters = 0.1

	m.Update([]*Player{at(1, m.Home, 100, 100)}, nil)
	m.Update([]*Player{at(1, m.Home, 110, 100)}, nil) //1m
	m.Update([]*Player{at(1, m.Home, 500, 100)}, nil) //39m in a frame, id switch
	m.Update([]*Player{at(1, m.Home, 500, 120)}, nil) //2m
	assert.InDelta(t, 3.0, m.Home.Distance, 1e-9)

	m.Forget(1)
	m.Update([]*Player{at(1, m.Home, 510, 120)}, nil)
	assert.InDelta(t, 3.0, m.Home.Distance, 1e-9, "a forgotten player starts over")

	m.ResetDistanceTracking()
	assert.Zero(t, m.Home.Distance)
	m.Update([]*Player{at(1, m.Home, 520, 120)}, nil)
	assert.Zero(t, m.Home.Distance)
}

func TestSnapshot(t *testing.T) {
	m := newTestMatch()
	s := m.Snapshot()
	assert.Nil(t, s.Team)
	assert.Nil(t, s.PlayerID)

	m.Update([]*Player{at(4, m.Away, 100, 100)}, ballAt(100, 100))
	m.Update(nil, nil)
	s = m.Snapshot()
	require.NotNil(t, s.Team)
	assert.Equal(t, "Away", *s.Team)
	assert.Nil(t, s.PlayerID)
	assert.Equal(t, 50, s.AwayPct)
	assert.Equal(t, 0, s.HomePct)
	assert.InDelta(t, 0.04, s.AwayTime, 1e-9)
}
