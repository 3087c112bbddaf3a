package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/models/memory"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to models.Status
		want     bool
	}{
		{models.StatusScheduled, models.StatusPlayed, true},
		{models.StatusScheduled, models.StatusPostponed, true},
		{models.StatusPostponed, models.StatusScheduled, true},
		{models.StatusPostponed, models.StatusPlayed, true},
		{models.StatusPlayed, models.StatusPostponed, true},
		{models.StatusPlayed, models.StatusScheduled, false},
		{models.StatusPlayed, models.StatusPlayed, false},
		{models.StatusScheduled, models.StatusScheduled, false},
		{models.Status("cancelled"), models.StatusPlayed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestRecordResult(t *testing.T) {
	s, store, _, matches := newSeason(t)
	first := matches[0]

	m, err := s.RecordResult(first.ID, 3, 1, "  Yusuf ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlayed, m.Status)
	assert.Equal(t, 3, *m.HomeGoals)
	assert.Equal(t, 1, *m.AwayGoals)
	assert.Equal(t, "Yusuf", m.BestPlayer)
	assert.Equal(t, testNow, m.LastUpdated)

	teams, err := store.LoadTeams()
	require.NoError(t, err)
	home := teams[models.TeamIndex(teams)[first.HomeTeam]]
	away := teams[models.TeamIndex(teams)[first.AwayTeam]]
	assert.Equal(t, models.Statistics{Played: 1, Won: 1, GoalsFor: 3, GoalsAgainst: 1, Points: 3}, home.Statistics)
	assert.Equal(t, models.Statistics{Played: 1, Lost: 1, GoalsFor: 1, GoalsAgainst: 3}, away.Statistics)

	t.Run("played to played is rejected", func(t *testing.T) {
		_, err := s.RecordResult(first.ID, 0, 0, "")
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
		assert.ErrorIs(t, err, models.ErrState)
	})

	t.Run("played to scheduled is rejected", func(t *testing.T) {
		_, err := s.Reschedule(first.ID, 0, "")
		assert.ErrorIs(t, err, models.ErrInvalidTransition)
	})

	t.Run("negative goals", func(t *testing.T) {
		_, err := s.RecordResult(matches[1].ID, -1, 2, "")
		assert.ErrorIs(t, err, models.ErrInvalidGoals)
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("unknown match", func(t *testing.T) {
		_, err := s.RecordResult("nope", 1, 0, "")
		assert.ErrorIs(t, err, models.ErrMatchNotFound)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestRecordResultOnPostponedMatch(t *testing.T) {
	s, _, _, matches := newSeason(t)
	_, err := s.Postpone(matches[0].ID, "storm")
	require.NoError(t, err)

	m, err := s.RecordResult(matches[0].ID, 2, 2, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPlayed, m.Status)
	assert.Nil(t, m.PostponementReason)
}

func TestPostponeRequiresReason(t *testing.T) {
	s, store, _, matches := newSeason(t)
	saves := store.Saves()

	_, err := s.Postpone(matches[0].ID, "   ")
	assert.ErrorIs(t, err, models.ErrReasonRequired)
	assert.Equal(t, saves, store.Saves())
}

func TestPostponePlayedMatchRebuildsStatistics(t *testing.T) {
	s, store, _, matches := newSeason(t)
	for i, m := range matches[:5] {
		_, err := s.RecordResult(m.ID, i%3, 1, "Player")
		require.NoError(t, err)
	}

	corrected := matches[2]
	m, err := s.Postpone(corrected.ID, "wrong score entered")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPostponed, m.Status)
	assert.Nil(t, m.HomeGoals)
	assert.Nil(t, m.AwayGoals)
	assert.Empty(t, m.BestPlayer)
	require.NotNil(t, m.PostponementReason)
	assert.Equal(t, "wrong score entered", *m.PostponementReason)

	teams, err := store.LoadTeams()
	require.NoError(t, err)
	all, err := store.LoadMatches()
	require.NoError(t, err)
	rebuilt, skipped := RebuildStatistics(models.DefaultRules(), teams, all)
	assert.Zero(t, skipped)
	assert.Equal(t, rebuilt, teams, "stored statistics must equal a full replay")

	played := 0
	for _, tm := range teams {
		played += tm.Statistics.Played
	}
	assert.Equal(t, 8, played, "four matches remain played")
}

func TestPostponeScheduledMatchKeepsStatistics(t *testing.T) {
	s, store, _, matches := newSeason(t)
	_, err := s.RecordResult(matches[0].ID, 1, 0, "")
	require.NoError(t, err)
	before, err := store.LoadTeams()
	require.NoError(t, err)

	_, err = s.Postpone(matches[1].ID, "floodlights")
	require.NoError(t, err)

	after, err := store.LoadTeams()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestReschedule(t *testing.T) {
	s, _, _, matches := newSeason(t)
	id := matches[3].ID

	_, err := s.Reschedule(id, 0, "")
	assert.ErrorIs(t, err, models.ErrInvalidTransition, "a scheduled match cannot be rescheduled")

	_, err = s.Postpone(id, "rain")
	require.NoError(t, err)

	_, err = s.Reschedule(id, 30, "")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = s.Reschedule(id, 20, "9pm")
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = s.Reschedule(id, 20, "9:15")
	assert.ErrorIs(t, err, models.ErrValidation)

	m, err := s.Reschedule(id, 20, "22:15")
	require.NoError(t, err)
	assert.Equal(t, models.StatusScheduled, m.Status)
	assert.Equal(t, 20, m.Day)
	assert.Equal(t, "22:15", m.ScheduledTime)
	assert.Nil(t, m.PostponementReason)

	stored, err := s.Match(id)
	require.NoError(t, err)
	assert.Equal(t, m, stored)
}

func TestIncrementalStatisticsMatchFullRebuild(t *testing.T) {
	s, store, _, matches := newSeason(t)
	scores := [][2]int{{2, 1}, {0, 0}, {1, 3}, {4, 4}, {5, 0}, {0, 1}, {2, 2}, {3, 1}}
	for i, sc := range scores {
		_, err := s.RecordResult(matches[i].ID, sc[0], sc[1], "")
		require.NoError(t, err)
	}

	incremental, err := store.LoadTeams()
	require.NoError(t, err)

	require.NoError(t, s.RecalculateStatistics())
	once, err := store.LoadTeams()
	require.NoError(t, err)
	assert.Equal(t, incremental, once)

	require.NoError(t, s.RecalculateStatistics())
	twice, err := store.LoadTeams()
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestRebuildStatisticsIgnoresMatchOrder(t *testing.T) {
	rules := models.DefaultRules()
	teams := makeTeams("Falcons", "Crescent", "Dunes")
	matches := []models.Match{
		playedMatch("m1", 3, "t1", "t2", 2, 0),
		playedMatch("m2", 4, "t2", "t3", 1, 1),
		playedMatch("m3", 5, "t3", "t1", 0, 4),
	}
	reversed := []models.Match{matches[2], matches[1], matches[0]}

	a, _ := RebuildStatistics(rules, teams, matches)
	b, _ := RebuildStatistics(rules, teams, reversed)
	for i := range a {
		assert.Equal(t, a[i].Statistics.Points, b[i].Statistics.Points)
		assert.Equal(t, a[i].Statistics.GoalsFor, b[i].Statistics.GoalsFor)
		assert.Equal(t, a[i].Statistics.Played, b[i].Statistics.Played)
	}
	assert.Zero(t, teams[0].Statistics.Played, "input teams are not modified")
}

func TestRecalculateRepairsDrift(t *testing.T) {
	s, store, _, matches := newSeason(t)
	_, err := s.RecordResult(matches[0].ID, 1, 0, "")
	require.NoError(t, err)

	teams, err := store.LoadTeams()
	require.NoError(t, err)
	teams[0].Statistics.Points = 99
	require.NoError(t, store.SaveTeams(teams))

	require.NoError(t, s.RecalculateStatistics())
	teams, err = store.LoadTeams()
	require.NoError(t, err)
	for _, tm := range teams {
		assert.LessOrEqual(t, tm.Statistics.Points, 3)
		assert.True(t, tm.Statistics.Consistent())
	}
}

func TestApplyResultReportsMissingTeam(t *testing.T) {
	teams := makeTeams("Falcons")
	err := ApplyResult(models.DefaultRules(), teams, playedMatch("m1", 3, "t1", "ghost", 1, 0))
	assert.ErrorIs(t, err, models.ErrIntegrity)
	assert.Zero(t, teams[0].Statistics.Played)
}

func TestFailedSaveLeavesStoreUnchanged(t *testing.T) {
	s, store, _, matches := newSeason(t)
	_, err := s.RecordResult(matches[0].ID, 1, 1, "")
	require.NoError(t, err)

	teamsBefore, err := store.LoadTeams()
	require.NoError(t, err)
	matchesBefore, err := store.LoadMatches()
	require.NoError(t, err)
	saves := store.Saves()

	store.FailSaves(true)
	_, err = s.RecordResult(matches[1].ID, 2, 0, "")
	require.ErrorIs(t, err, memory.ErrInjected)
	assert.ErrorIs(t, err, models.ErrStore)

	_, err = s.Postpone(matches[0].ID, "correction")
	require.ErrorIs(t, err, memory.ErrInjected)

	store.FailSaves(false)
	teamsAfter, err := store.LoadTeams()
	require.NoError(t, err)
	matchesAfter, err := store.LoadMatches()
	require.NoError(t, err)
	assert.Equal(t, teamsBefore, teamsAfter)
	assert.Equal(t, matchesBefore, matchesAfter)
	assert.Equal(t, saves, store.Saves())
}

func TestParseGoals(t *testing.T) {
	for _, text := range []string{"0", "3", " 12 "} {
		_, err := ParseGoals(text)
		assert.NoError(t, err, text)
	}
	n, _ := ParseGoals(" 12 ")
	assert.Equal(t, 12, n)

	for _, text := range []string{"", "-1", "two", "1.5", "3a"} {
		_, err := ParseGoals(text)
		assert.ErrorIs(t, err, models.ErrInvalidGoals, text)
	}
}

func TestProgress(t *testing.T) {
	s, _, _, matches := newSeason(t)
	p, err := s.Progress()
	require.NoError(t, err)
	assert.Zero(t, p)

	for _, m := range matches[:21] {
		_, err := s.RecordResult(m.ID, 0, 0, "")
		require.NoError(t, err)
	}
	p, err = s.Progress()
	require.NoError(t, err)
	assert.Equal(t, 1.0, p)
}
