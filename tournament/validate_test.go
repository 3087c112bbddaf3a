package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
)

func TestValidateStructureAcceptsFullRoundRobin(t *testing.T) {
	s, _, _, _ := newSeason(t)
	report, err := s.Validate()
	require.NoError(t, err)
	assert.Equal(t, Report{Teams: 7, Matches: 21}, report)
}

func TestValidateStructureFailures(t *testing.T) {
	rules := models.DefaultRules()
	_, _, teams, matches := newSeason(t)

	t.Run("team count", func(t *testing.T) {
		_, err := ValidateStructure(rules, teams[:6], matches)
		require.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "exactly 7 teams, found 6")
	})

	t.Run("match count", func(t *testing.T) {
		_, err := ValidateStructure(rules, teams, matches[:20])
		require.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "has 21 matches, found 20")
	})

	t.Run("duplicate pair", func(t *testing.T) {
		broken := models.CloneMatches(matches)
		broken[1].HomeTeam, broken[1].AwayTeam = broken[0].AwayTeam, broken[0].HomeTeam
		_, err := ValidateStructure(rules, teams, broken)
		require.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "both pair")
	})

	t.Run("unknown team", func(t *testing.T) {
		broken := models.CloneMatches(matches)
		broken[4].AwayTeam = "ghost"
		_, err := ValidateStructure(rules, teams, broken)
		require.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "unknown away team ghost")
	})

	t.Run("team playing itself", func(t *testing.T) {
		broken := models.CloneMatches(matches)
		broken[2].AwayTeam = broken[2].HomeTeam
		_, err := ValidateStructure(rules, teams, broken)
		require.ErrorIs(t, err, models.ErrValidation)
		assert.Contains(t, err.Error(), "playing itself")
	})
}

func TestValidateStructureReportsCompletion(t *testing.T) {
	s, _, _, matches := newSeason(t)
	for _, m := range matches[:7] {
		_, err := s.RecordResult(m.ID, 1, 0, "")
		require.NoError(t, err)
	}
	report, err := s.Validate()
	require.NoError(t, err)
	assert.Equal(t, 7, report.Played)
	assert.InDelta(t, 1.0/3, report.Completion, 1e-9)
}

func TestCompletionOfEmptySchedule(t *testing.T) {
	assert.Zero(t, Completion(nil))
}
