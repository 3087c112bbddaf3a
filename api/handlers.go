package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	league "github.com/justinjudd/league"
	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/tournament"
)

func (s *Server) standings(r *http.Request) (tournament.Table, string, error) {
	day, ok, err := queryInt(r, "day")
	if err != nil {
		return tournament.Table{}, "", err
	}
	if ok {
		table, err := s.season.StandingsAsOf(day)
		return table, fmt.Sprintf("Standings after day %d", day), err
	}
	table, err := s.season.Standings()
	return table, "Standings", err
}

func (s *Server) getStandings(w http.ResponseWriter, r *http.Request) {
	table, _, err := s.standings(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, table)
}

func (s *Server) standingsPage(w http.ResponseWriter, r *http.Request) {
	table, caption, err := s.standings(r)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	body, err := league.StandingsHTML(caption, table)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	writeHTML(w, body)
}

func (s *Server) getTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.season.Teams()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	s.respond(w, r, http.StatusOK, teams)
}

// getMatches lists every match, the matches of one day with ?day=N, or the next matches without
// a result with ?upcoming=N
func (s *Server) getMatches(w http.ResponseWriter, r *http.Request) {
	day, byDay, err := queryInt(r, "day")
	if err != nil {
		s.failure(w, r, err)
		return
	}
	limit, upcoming, err := queryInt(r, "upcoming")
	if err != nil {
		s.failure(w, r, err)
		return
	}

	var matches []models.Match
	switch {
	case byDay:
		matches, err = s.season.MatchesOnDay(day)
	case upcoming:
		matches, err = s.season.Upcoming(limit)
	default:
		matches, err = s.season.Matches()
	}
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if matches == nil {
		matches = []models.Match{}
	}
	s.respond(w, r, http.StatusOK, matches)
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	m, err := s.season.Match(mux.Vars(r)["id"])
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, m)
}

func (s *Server) getPhase(w http.ResponseWriter, r *http.Request) {
	phase, err := s.playoffs.Phase()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	eligible, completion, err := s.playoffs.Eligible()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, envelope{
		"phase":            phase,
		"completion":       completion,
		"playoffsEligible": eligible,
	})
}

func (s *Server) getBracket(w http.ResponseWriter, r *http.Request) {
	b, err := s.playoffs.Bracket()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, b)
}

func (s *Server) bracketPage(w http.ResponseWriter, r *http.Request) {
	b, err := s.playoffs.Bracket()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	teams, err := s.season.Teams()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	body, err := league.BracketHTML("Playoffs", b, league.TeamNames(teams))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	writeHTML(w, body)
}

// getValidation always answers 200, a structural problem is reported in the body
func (s *Server) getValidation(w http.ResponseWriter, r *http.Request) {
	report, err := s.season.Validate()
	if err != nil {
		if models.KindOf(err) != models.KindValidation {
			s.failure(w, r, err)
			return
		}
		s.respond(w, r, http.StatusOK, envelope{"valid": false, "problem": err.Error()})
		return
	}
	s.respond(w, r, http.StatusOK, envelope{"valid": true, "report": report})
}

func (s *Server) addTeam(w http.ResponseWriter, r *http.Request) {
	var input models.Team
	if err := readJSON(w, r, &input); err != nil {
		s.failure(w, r, err)
		return
	}
	team, err := s.season.AddTeam(input)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, team)
}

func (s *Server) addMatch(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Day           int    `json:"day"`
		HomeTeam      string `json:"homeTeam"`
		AwayTeam      string `json:"awayTeam"`
		ScheduledTime string `json:"scheduledTime"`
	}
	if err := readJSON(w, r, &input); err != nil {
		s.failure(w, r, err)
		return
	}
	m, err := s.season.AddMatch(models.Match{
		Day:           input.Day,
		HomeTeam:      input.HomeTeam,
		AwayTeam:      input.AwayTeam,
		ScheduledTime: input.ScheduledTime,
	})
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, m)
}

func (s *Server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := s.season.DeleteMatch(mux.Vars(r)["id"]); err != nil {
		s.failure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recordResult(w http.ResponseWriter, r *http.Request) {
	var input struct {
		HomeGoals  *int   `json:"homeGoals"`
		AwayGoals  *int   `json:"awayGoals"`
		BestPlayer string `json:"bestPlayer"`
	}
	if err := readJSON(w, r, &input); err != nil {
		s.failure(w, r, err)
		return
	}
	home, away, err := requireGoals(input.HomeGoals, input.AwayGoals)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	m, err := s.season.RecordResult(mux.Vars(r)["id"], home, away, input.BestPlayer)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, m)
}

func (s *Server) postpone(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := readJSON(w, r, &input); err != nil {
		s.failure(w, r, err)
		return
	}
	m, err := s.season.Postpone(mux.Vars(r)["id"], input.Reason)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, m)
}

func (s *Server) reschedule(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Day           int    `json:"day"`
		ScheduledTime string `json:"scheduledTime"`
	}
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &input); err != nil {
			s.failure(w, r, err)
			return
		}
	}
	m, err := s.season.Reschedule(mux.Vars(r)["id"], input.Day, input.ScheduledTime)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, m)
}

func (s *Server) generateFixtures(w http.ResponseWriter, r *http.Request) {
	matches, err := s.season.GenerateFixtures()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, matches)
}

// generateBracket refuses to seed the playoffs before enough of the group stage is played unless
// ?force=true is given
func (s *Server) generateBracket(w http.ResponseWriter, r *http.Request) {
	if !queryBool(r, "force") {
		eligible, completion, err := s.playoffs.Eligible()
		if err != nil {
			s.failure(w, r, err)
			return
		}
		if !eligible {
			s.failure(w, r, models.Wrapf(models.ErrNotEligible, "%.0f%% of group matches played", completion*100))
			return
		}
	}
	b, err := s.playoffs.Generate()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusCreated, b)
}

type playoffResult struct {
	HomeGoals *int            `json:"homeGoals"`
	AwayGoals *int            `json:"awayGoals"`
	Penalty   *models.Penalty `json:"penalty"`
}

func (s *Server) resolvePlayoff(w http.ResponseWriter, r *http.Request, resolve func(home, away int, penalty *models.Penalty) (*models.Bracket, error)) {
	var input playoffResult
	if err := readJSON(w, r, &input); err != nil {
		s.failure(w, r, err)
		return
	}
	home, away, err := requireGoals(input.HomeGoals, input.AwayGoals)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	b, err := resolve(home, away, input.Penalty)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, b)
}

func (s *Server) resolveSemifinal(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.resolvePlayoff(w, r, func(home, away int, penalty *models.Penalty) (*models.Bracket, error) {
		return s.playoffs.ResolveSemifinal(id, home, away, penalty)
	})
}

func (s *Server) resolveFinal(w http.ResponseWriter, r *http.Request) {
	s.resolvePlayoff(w, r, s.playoffs.ResolveFinal)
}

func (s *Server) resolveThirdPlace(w http.ResponseWriter, r *http.Request) {
	s.resolvePlayoff(w, r, s.playoffs.ResolveThirdPlace)
}

func (s *Server) resetBracket(w http.ResponseWriter, r *http.Request) {
	if err := s.playoffs.Reset(); err != nil {
		s.failure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recalculate(w http.ResponseWriter, r *http.Request) {
	if err := s.season.RecalculateStatistics(); err != nil {
		s.failure(w, r, err)
		return
	}
	table, err := s.season.Standings()
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.respond(w, r, http.StatusOK, table)
}
