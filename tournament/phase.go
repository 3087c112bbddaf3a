package tournament

import "github.com/justinjudd/league/models"

// DerivePhase works out the tournament phase from the group matches and the bracket snapshot.
//
// Without a bracket: nothing played is not_started, below the playoff threshold is group_stage,
// and at or above it the playoffs are ready, or pending when there are too few teams to seed.
func DerivePhase(rules models.Rules, teams int, matches []models.Match, b *models.Bracket) models.Phase {
	if b != nil {
		return BracketPhase(b)
	}
	if len(matches) == 0 || countPlayed(matches) == 0 {
		return models.PhaseNotStarted
	}
	if Completion(matches) < rules.PlayoffThreshold {
		return models.PhaseGroupStage
	}
	if teams < 4 {
		return models.PhasePlayoffsPending
	}
	return models.PhasePlayoffsReady
}

// BracketPhase derives the phase of an existing bracket. A snapshot that breaks the progression
// rules reports unknown.
func BracketPhase(b *models.Bracket) models.Phase {
	if len(b.Semifinals) != 2 {
		return models.PhaseUnknown
	}
	resolved := 0
	for _, m := range b.Semifinals {
		if m.Resolved() {
			resolved++
		}
	}

	if b.Final.Status == models.BracketPlayed {
		if resolved != 2 || !b.Final.Resolved() {
			return models.PhaseUnknown
		}
		return models.PhaseCompleted
	}
	if resolved < 2 {
		if b.Final.Status != models.BracketPending {
			return models.PhaseUnknown
		}
		return models.PhaseSemifinalsInProgress
	}
	if b.Final.Status == models.BracketScheduled && b.Final.Ready() {
		return models.PhaseFinalScheduled
	}
	return models.PhaseSemifinalsCompleted
}
