package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
)

func TestDerivePhaseWithoutBracket(t *testing.T) {
	rules := models.DefaultRules()
	ten := func(played int) []models.Match {
		var ms []models.Match
		for i := 0; i < 10; i++ {
			if i < played {
				ms = append(ms, playedMatch("m", 3+i, "t1", "t2", 1, 0))
				continue
			}
			ms = append(ms, scheduledMatch("m", 3+i, "t1", "t2"))
		}
		return ms
	}

	assert.Equal(t, models.PhaseNotStarted, DerivePhase(rules, 7, nil, nil))
	assert.Equal(t, models.PhaseNotStarted, DerivePhase(rules, 7, ten(0), nil))
	assert.Equal(t, models.PhaseGroupStage, DerivePhase(rules, 7, ten(7), nil))
	assert.Equal(t, models.PhasePlayoffsReady, DerivePhase(rules, 7, ten(8), nil))
	assert.Equal(t, models.PhasePlayoffsReady, DerivePhase(rules, 7, ten(10), nil))
	assert.Equal(t, models.PhasePlayoffsPending, DerivePhase(rules, 3, ten(10), nil))

	rules.PlayoffThreshold = 0.5
	assert.Equal(t, models.PhasePlayoffsReady, DerivePhase(rules, 7, ten(5), nil))
}

func TestBracketPhaseProgression(t *testing.T) {
	b, err := GenerateBracket(seededTable("A", "B", "C", "D"), testNow)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSemifinalsInProgress, BracketPhase(b))
	assert.Equal(t, b.TournamentPhase, DerivePhase(models.DefaultRules(), 0, nil, b), "a bracket decides the phase")

	require.NoError(t, decide(&b.Semifinals[0], 1, 0, nil, testNow))
	require.NoError(t, decide(&b.Semifinals[1], 1, 0, nil, testNow))
	assert.Equal(t, models.PhaseSemifinalsCompleted, BracketPhase(b), "final not filled in yet")

	AdvanceBracket(b)
	assert.Equal(t, models.PhaseFinalScheduled, BracketPhase(b))

	require.NoError(t, decide(&b.Final, 2, 1, nil, testNow))
	assert.Equal(t, models.PhaseCompleted, BracketPhase(b))
}

func TestBracketPhaseUnknownForBrokenSnapshots(t *testing.T) {
	t.Run("wrong semifinal count", func(t *testing.T) {
		assert.Equal(t, models.PhaseUnknown, BracketPhase(&models.Bracket{}))
	})

	t.Run("final played before semifinals", func(t *testing.T) {
		b, err := GenerateBracket(seededTable("A", "B", "C", "D"), testNow)
		require.NoError(t, err)
		b.Final.Status = models.BracketPlayed
		b.Final.Winner = "A"
		assert.Equal(t, models.PhaseUnknown, BracketPhase(b))
	})

	t.Run("final scheduled with an open semifinal", func(t *testing.T) {
		b, err := GenerateBracket(seededTable("A", "B", "C", "D"), testNow)
		require.NoError(t, err)
		b.Final.Status = models.BracketScheduled
		assert.Equal(t, models.PhaseUnknown, BracketPhase(b))
	})
}

func TestPlayoffsPhaseFollowsGroupStage(t *testing.T) {
	s, store, _, matches := newSeason(t)
	p := NewPlayoffs(store, models.DefaultRules(), nil)

	phase, err := p.Phase()
	require.NoError(t, err)
	assert.Equal(t, models.PhaseNotStarted, phase)

	for _, m := range matches[:10] {
		_, err := s.RecordResult(m.ID, 1, 0, "")
		require.NoError(t, err)
	}
	phase, err = p.Phase()
	require.NoError(t, err)
	assert.Equal(t, models.PhaseGroupStage, phase)

	for _, m := range matches[10:17] {
		_, err := s.RecordResult(m.ID, 0, 2, "")
		require.NoError(t, err)
	}
	phase, err = p.Phase()
	require.NoError(t, err)
	assert.Equal(t, models.PhasePlayoffsReady, phase)

	_, err = p.Generate()
	require.NoError(t, err)
	phase, err = p.Phase()
	require.NoError(t, err)
	assert.Equal(t, models.PhaseSemifinalsInProgress, phase)
}
