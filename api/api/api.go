/* api.go
 * This file contains the public methods for interacting with this package. For consistent results, functions
 * should only be called from this file, not the sub packages for logic, simulation and store.
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"bracket-bot/api/external"
	"bracket-bot/api/logic"
	"bracket-bot/api/shared"
	"bracket-bot/api/simulation"
	"bracket-bot/api/store"
)

// API provides methods for interacting with the bracket bot data layer
type API struct {
	Store  store.Interface
	Scores *external.ScoresClient
}

// NewAPI creates a new API instance with the provided configuration
func NewAPI(dbName string, mongoURI string, tournament string, scoresCacheFile string) (*API, error) {
	if dbName == "" || tournament == "" {
		return nil, fmt.Errorf("dbName and tournament are required")
	}

	s, err := store.NewStore(dbName, mongoURI, tournament)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &API{
		Store:  s,
		Scores: external.NewScoresClient(scoresCacheFile, 5*time.Minute),
	}, nil
}

func newRng() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// NewBracket creates a fresh bracket for the user from the truth bracket's
// first round field and saves it.
// Preconditions: Receives a user struct that contains userID and userName; a truth bracket must be stored
// Postconditions: Saves the new bracket snapshot, or returns an error if it occurs
func (a *API) NewBracket(user shared.User) error {
	truth, err := a.Store.GetTruthBracket()
	if err != nil {
		return err
	}
	field, err := truth.FirstRoundTeams()
	if err != nil {
		return err
	}
	bracket, err := logic.InitializeBracket(field)
	if err != nil {
		return err
	}
	return a.Store.SaveUserBracket(user, bracket)
}

// GetBracket returns the user's latest saved bracket
func (a *API) GetBracket(user shared.User) (*shared.Bracket, error) {
	record, err := a.Store.GetUserBracket(user.UserID)
	if err != nil {
		return nil, err
	}
	return record.Bracket, nil
}

// ApplyPick applies one pick to the user's latest bracket and saves the
// result. Region, round and team arrive as raw user input and are resolved
// before the pick is applied.
// Preconditions: Receives a user struct and the raw region, round and team strings
// Postconditions: Saves the updated bracket snapshot, or returns an error describing the bad input
func (a *API) ApplyPick(user shared.User, regionInput, roundInput, teamInput string) error {
	bracket, err := a.GetBracket(user)
	if err != nil {
		return err
	}

	teamInput = strings.ReplaceAll(teamInput, "\"", "")
	teamInput = strings.ReplaceAll(teamInput, "“", "")
	teamInput = strings.ReplaceAll(teamInput, "”", "")

	loc, err := logic.ResolvePick(bracket, regionInput, roundInput, teamInput)
	if err != nil {
		return err
	}
	next, err := logic.ApplyPick(bracket, loc.Region, loc.RoundIdx, loc.GameIdx, loc.TeamIdx)
	if err != nil {
		return err
	}
	return a.Store.SaveUserBracket(user, next)
}

// AutoFill completes the user's latest bracket by advancing the better seed
// everywhere and saves the result
func (a *API) AutoFill(user shared.User) error {
	bracket, err := a.GetBracket(user)
	if err != nil {
		return err
	}
	filled, err := logic.AutoFillBracket(bracket, newRng())
	if err != nil {
		return err
	}
	return a.Store.SaveUserBracket(user, filled)
}

// RandomFill discards the user's picks and completes the bracket with coin
// flips, then saves the result
func (a *API) RandomFill(user shared.User) error {
	bracket, err := a.GetBracket(user)
	if err != nil {
		return err
	}
	filled, err := logic.RandomFillBracket(bracket, newRng())
	if err != nil {
		return err
	}
	return a.Store.SaveUserBracket(user, filled)
}

// CheckBracket scores the user's latest bracket against the current truth and
// generates a report string.
// Preconditions: Receives a user struct; a truth bracket must be stored
// Postconditions: Returns a string containing the results of the user's picks, or an error if it occurs
func (a *API) CheckBracket(user shared.User) (string, error) {
	bracket, err := a.GetBracket(user)
	if err != nil {
		return "", err
	}
	truth, err := a.Store.GetTruthBracket()
	if err != nil {
		return "", err
	}
	// The chalk bracket is optional; without it no bonuses are reported
	chalk, err := a.Store.GetChalkBracket()
	if err != nil {
		chalk = nil
	}

	breakdown, err := logic.ScoreBracket(bracket, truth, chalk)
	if err != nil {
		return "", err
	}
	ceiling, err := logic.MaxPossibleScore(bracket, truth, chalk)
	if err != nil {
		ceiling = breakdown.TotalWithBonus
	}

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Score: %d (%d base + %d bonus)\n", breakdown.TotalWithBonus, breakdown.TotalScore, breakdown.TotalBonus))
	response.WriteString(fmt.Sprintf("Picks: %d correct, %d incorrect\n", breakdown.CorrectPicks, breakdown.IncorrectPicks))
	response.WriteString(fmt.Sprintf("Max possible: %d\n", ceiling))
	for _, key := range logic.RoundKeys {
		line := breakdown.Rounds[key]
		if line.Correct == 0 && line.Incorrect == 0 {
			continue
		}
		response.WriteString(fmt.Sprintf("- %s: %d points (+%d bonus), %d correct, %d incorrect\n",
			strings.ReplaceAll(key, "_", " "), line.Points, line.Bonus, line.Correct, line.Incorrect))
	}
	return response.String(), nil
}

// GenerateLeaderboard scores every user's latest bracket against the current
// truth and stores the ranked result.
// Preconditions: Receives receiver pointer to api
// Postconditions: Generates the leaderboard, updates it in the DB and returns nil, or returns an error if it occurs
func (a *API) GenerateLeaderboard() error {
	truth, err := a.Store.GetTruthBracket()
	if err != nil {
		return err
	}
	chalk, err := a.Store.GetChalkBracket()
	if err != nil {
		chalk = nil
	}

	records, err := a.Store.GetAllUserBrackets()
	if err != nil {
		return err
	}
	userBrackets := make(map[string]*shared.Bracket, len(records))
	for _, record := range records {
		if record.Bracket == nil {
			continue
		}
		userBrackets[record.Username] = record.Bracket
	}
	if len(userBrackets) == 0 {
		return fmt.Errorf("no user brackets stored")
	}

	entries, err := logic.CalculateRankings(userBrackets, truth, chalk)
	if err != nil {
		return err
	}
	return a.Store.StoreLeaderboard(entries)
}

// GetLeaderboard fetches the leaderboard from the db and generates a response string
// Preconditions: Receives receiver pointer to api
// Postconditions: Returns a string with the summary of the current leaderboard
func (a *API) GetLeaderboard() (string, error) {
	entries, err := a.Store.FetchLeaderboardFromDB()
	if err != nil {
		return "", err
	}

	var response strings.Builder
	response.WriteString("The users with the best brackets are:\n")
	for _, entry := range entries {
		response.WriteString(fmt.Sprintf("%d. %s, %d points (max possible %d)\n",
			entry.Rank, entry.Username, entry.TotalWithBonus, entry.MaxPossible))
	}
	return response.String(), nil
}

// RunMonteCarlo simulates the rest of the tournament for every user's latest
// bracket, stores the analysis and returns it.
// Preconditions: Receives a context and the number of trials to run (0 uses the default)
// Postconditions: Stores and returns the analysis result, or an error if it occurs
func (a *API) RunMonteCarlo(ctx context.Context, trials int) (*simulation.AnalysisResult, error) {
	truth, err := a.Store.GetTruthBracket()
	if err != nil {
		return nil, err
	}
	chalk, err := a.Store.GetChalkBracket()
	if err != nil {
		chalk = nil
	}

	records, err := a.Store.GetAllUserBrackets()
	if err != nil {
		return nil, err
	}
	userBrackets := make(map[string]*shared.Bracket, len(records))
	for _, record := range records {
		if record.Bracket == nil {
			continue
		}
		userBrackets[record.Username] = record.Bracket
	}

	result, err := simulation.RunSimulation(ctx, truth, chalk, userBrackets, simulation.SimulationConfig{Trials: trials})
	if err != nil {
		return nil, err
	}
	if err := a.Store.StoreAnalysis(result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetAnalysis fetches the stored Monte Carlo analysis and generates a response string
// Preconditions: Receives receiver pointer to api
// Postconditions: Returns a string summarising each user's simulated outlook, or an error if it occurs
func (a *API) GetAnalysis() (string, error) {
	result, err := a.Store.FetchAnalysisFromDB()
	if err != nil {
		return "", err
	}

	usernames := make([]string, 0, len(result.Users))
	for username := range result.Users {
		usernames = append(usernames, username)
	}
	sort.Slice(usernames, func(i, j int) bool {
		si, sj := result.Users[usernames[i]], result.Users[usernames[j]]
		if si.AvgRank != sj.AvgRank {
			return si.AvgRank < sj.AvgRank
		}
		return usernames[i] < usernames[j]
	})

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Simulated outlook over %d trials:\n", result.TrialsCompleted))
	for _, username := range usernames {
		stats := result.Users[username]
		response.WriteString(fmt.Sprintf("- %s: avg rank %.2f, wins %.1f%% of simulations (scores %d-%d)\n",
			username, stats.AvgRank, stats.PctFirstPlace, stats.MinScore, stats.MaxScore))
	}
	return response.String(), nil
}

// GetScores fetches the live scoreboard and generates a response string
// Preconditions: Receives a context used for the upstream request
// Postconditions: Returns a string listing today's games and scores, or an error if it occurs
func (a *API) GetScores(ctx context.Context) (string, error) {
	scoreboard, err := a.Scores.GetTournamentScores(ctx)
	if err != nil {
		return "", err
	}
	if len(scoreboard.Games) == 0 {
		return "No games on the scoreboard right now\n", nil
	}

	var response strings.Builder
	response.WriteString("Scoreboard:\n")
	for _, game := range scoreboard.Games {
		switch game.Status {
		case "STATUS_SCHEDULED":
			response.WriteString(fmt.Sprintf("- %s at %s (%s)\n", game.AwayTeam, game.HomeTeam, game.Date))
		case "STATUS_FINAL":
			response.WriteString(fmt.Sprintf("- %s %s - %s %s [Final]\n", game.AwayTeam, game.AwayScore, game.HomeScore, game.HomeTeam))
		default:
			response.WriteString(fmt.Sprintf("- %s %s - %s %s (period %d, %s)\n",
				game.AwayTeam, game.AwayScore, game.HomeScore, game.HomeTeam, game.Period, game.Clock))
		}
	}
	return response.String(), nil
}

// SetTruthBracket stores a new truth snapshot. Used by the web layer's truth
// webhook; the bracket must at least have the fixed tournament shape.
func (a *API) SetTruthBracket(bracket *shared.Bracket) error {
	if err := bracket.Validate(); err != nil {
		return err
	}
	bracket.Winners = logic.ComputeWinners(bracket)
	return a.Store.StoreTruthBracket(bracket)
}

// EnsureChalkBracket stores the all-favourites reference bracket derived from
// the truth bracket's field, if one is not already stored
func (a *API) EnsureChalkBracket() error {
	if _, err := a.Store.GetChalkBracket(); err == nil {
		return nil
	}
	truth, err := a.Store.GetTruthBracket()
	if err != nil {
		return err
	}
	field, err := truth.FirstRoundTeams()
	if err != nil {
		return err
	}
	bracket, err := logic.InitializeBracket(field)
	if err != nil {
		return err
	}
	chalk, err := logic.AutoFillBracket(bracket, newRng())
	if err != nil {
		return err
	}
	return a.Store.StoreChalkBracket(chalk)
}
