/* scoring.go
 * Contains the scoring engine: compares a candidate bracket against a truth bracket slot by slot, awards base
 * points per stage plus a seed upset bonus measured against the chalk reference bracket, propagates
 * eliminations onto impossible future picks, and aggregates per round / per region / grand totals.
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"log"
	"sort"

	"bracket-bot/api/shared"
)

// Round keys used in score breakdowns. Round 0 is never scored; it is
// pre-filled, not a pick.
const (
	RoundKey1        = "round_1"
	RoundKey2        = "round_2"
	RoundKey3        = "round_3"
	RoundKeyFF       = "final_four"
	RoundKeyChamp    = "championship"
	RoundKeyChampion = "champion"
)

// RoundKeys lists the scored stages in play order.
var RoundKeys = []string{RoundKey1, RoundKey2, RoundKey3, RoundKeyFF, RoundKeyChamp, RoundKeyChampion}

var basePoints = map[string]int{
	RoundKey1:        10,
	RoundKey2:        20,
	RoundKey3:        40,
	RoundKeyFF:       80,
	RoundKeyChamp:    120,
	RoundKeyChampion: 160,
}

var upsetBonusMultipliers = map[string]int{
	RoundKey1:        2,
	RoundKey2:        5,
	RoundKey3:        10,
	RoundKeyFF:       20,
	RoundKeyChamp:    20,
	RoundKeyChampion: 20,
}

// LineScore aggregates one stage of one comparison.
type LineScore struct {
	Points    int `json:"points" bson:"points"`
	Bonus     int `json:"bonus" bson:"bonus"`
	Correct   int `json:"correct" bson:"correct"`
	Incorrect int `json:"incorrect" bson:"incorrect"`
}

// RegionScore aggregates one region of one comparison.
type RegionScore struct {
	Points    int                   `json:"points" bson:"points"`
	Bonus     int                   `json:"bonus" bson:"bonus"`
	Correct   int                   `json:"correct" bson:"correct"`
	Incorrect int                   `json:"incorrect" bson:"incorrect"`
	Rounds    map[string]*LineScore `json:"rounds" bson:"rounds"`
}

// ScoreBreakdown is the full result of comparing a candidate bracket against a
// truth bracket. Annotated carries a copy of the candidate with the per team
// presentation annotations (classes/correct/bonus/isEliminated/truthTeam)
// attached.
type ScoreBreakdown struct {
	TotalScore     int                     `json:"total_score" bson:"total_score"`
	TotalBonus     int                     `json:"total_bonus" bson:"total_bonus"`
	TotalWithBonus int                     `json:"total_with_bonus" bson:"total_with_bonus"`
	CorrectPicks   int                     `json:"correct_picks" bson:"correct_picks"`
	IncorrectPicks int                     `json:"incorrect_picks" bson:"incorrect_picks"`
	Rounds         map[string]*LineScore   `json:"rounds" bson:"rounds"`
	Regions        map[string]*RegionScore `json:"regions" bson:"regions"`
	Annotated      *shared.Bracket         `json:"-" bson:"-"`
}

// slotVisit is called for every scored slot position. truthTeam and chalkTeam
// are the occupants of the same position in the truth and chalk brackets and
// may be nil. region is empty for the Final Four, championship and champion
// positions.
type slotVisit func(team, truthTeam, chalkTeam *shared.Team, region, roundKey, location string)

// walkSlots visits every scored slot of the candidate bracket in play order:
// region rounds 1-3, Final Four, championship, champion.
func walkSlots(candidate, truth, chalk *shared.Bracket, visit slotVisit) {
	at := func(b *shared.Bracket, region string, r, i int) *shared.Team {
		if b == nil {
			return nil
		}
		rounds, err := b.Region(region)
		if err != nil || r >= len(rounds) || i >= len(rounds[r]) {
			return nil
		}
		return rounds[r][i]
	}
	ffAt := func(b *shared.Bracket, i int) *shared.Team {
		if b == nil || i >= len(b.FinalFour) {
			return nil
		}
		return b.FinalFour[i]
	}
	champAt := func(b *shared.Bracket, i int) *shared.Team {
		if b == nil || i >= len(b.Championship) {
			return nil
		}
		return b.Championship[i]
	}

	for _, region := range shared.RegionNames {
		rounds, err := candidate.Region(region)
		if err != nil {
			continue
		}
		for r := 1; r < len(rounds); r++ {
			key := fmt.Sprintf("round_%d", r)
			for i := range rounds[r] {
				loc := fmt.Sprintf("%s round %d slot %d", region, r, i)
				visit(rounds[r][i], at(truth, region, r, i), at(chalk, region, r, i), region, key, loc)
			}
		}
	}
	for i := range candidate.FinalFour {
		loc := fmt.Sprintf("finalFour slot %d", i)
		visit(candidate.FinalFour[i], ffAt(truth, i), ffAt(chalk, i), "", RoundKeyFF, loc)
	}
	for i := range candidate.Championship {
		loc := fmt.Sprintf("championship slot %d", i)
		visit(candidate.Championship[i], champAt(truth, i), champAt(chalk, i), "", RoundKeyChamp, loc)
	}
	var truthChampion, chalkChampion *shared.Team
	if truth != nil {
		truthChampion = truth.Champion
	}
	if chalk != nil {
		chalkChampion = chalk.Champion
	}
	visit(candidate.Champion, truthChampion, chalkChampion, "", RoundKeyChampion, "champion")
}

// ScoreBracket compares candidate against truth and returns the breakdown.
// chalk supplies the upset bonus reference and may be nil, in which case no
// bonuses are attached. Slot level data problems are logged and skipped; they
// never abort the comparison.
// Preconditions: candidate and truth are well formed brackets
// Postconditions: Returns the breakdown with an annotated candidate copy, or an error
func ScoreBracket(candidate, truth, chalk *shared.Bracket) (*ScoreBreakdown, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if err := truth.Validate(); err != nil {
		return nil, err
	}

	out := &ScoreBreakdown{
		Rounds:  make(map[string]*LineScore, len(RoundKeys)),
		Regions: make(map[string]*RegionScore, len(shared.RegionNames)),
	}
	for _, key := range RoundKeys {
		out.Rounds[key] = &LineScore{}
	}
	for _, region := range shared.RegionNames {
		out.Regions[region] = &RegionScore{Rounds: map[string]*LineScore{
			RoundKey1: {}, RoundKey2: {}, RoundKey3: {},
		}}
	}

	annotated := candidate.Clone()
	eliminated := make(map[string]bool)

	markCorrect := func(region, roundKey string, bonus int) {
		out.CorrectPicks++
		out.TotalScore += basePoints[roundKey]
		out.TotalBonus += bonus
		line := out.Rounds[roundKey]
		line.Correct++
		line.Points += basePoints[roundKey]
		line.Bonus += bonus
		if region != "" {
			rs := out.Regions[region]
			rs.Correct++
			rs.Points += basePoints[roundKey]
			rs.Bonus += bonus
			rl := rs.Rounds[roundKey]
			rl.Correct++
			rl.Points += basePoints[roundKey]
			rl.Bonus += bonus
		}
	}
	markIncorrect := func(region, roundKey string) {
		out.IncorrectPicks++
		out.Rounds[roundKey].Incorrect++
		if region != "" {
			out.Regions[region].Incorrect++
			out.Regions[region].Rounds[roundKey].Incorrect++
		}
	}

	// First pass: attach bonuses, decide every slot truth already covers, and
	// collect the names of teams proven out.
	walkSlots(annotated, truth, chalk, func(team, truthTeam, chalkTeam *shared.Team, region, roundKey, location string) {
		if team == nil {
			return
		}
		if team.Name == "" {
			log.Printf("scoring: %v", &shared.MissingTeamDataError{Location: location})
			return
		}

		if chalkTeam != nil {
			bonus := seedDiff(chalkTeam, team) * upsetBonusMultipliers[roundKey]
			team.Bonus = &bonus
		}

		if truthTeam == nil {
			return // pending; the elimination pass may still settle it
		}
		if truthTeam.Name == "" {
			log.Printf("scoring: %v", &shared.MissingTeamDataError{Location: location})
			return
		}

		if team.Equals(truthTeam) {
			correct := true
			team.Correct = &correct
			team.Classes += " correct"
			bonus := 0
			if team.Bonus != nil {
				bonus = *team.Bonus
			}
			markCorrect(region, roundKey, bonus)
		} else {
			correct := false
			team.Correct = &correct
			team.Classes += " incorrect"
			team.TruthTeam = truthTeam.Ref()
			eliminated[team.Name] = true
			markIncorrect(region, roundKey)
		}
	})

	// Second pass: a pick of a team that truth has already knocked out cannot
	// come true, even where truth has no data yet. Only pending slots are
	// touched; settled outcomes are never revisited.
	walkSlots(annotated, truth, chalk, func(team, truthTeam, chalkTeam *shared.Team, region, roundKey, location string) {
		if team == nil || team.Correct != nil || !eliminated[team.Name] {
			return
		}
		correct := false
		team.Correct = &correct
		team.Classes += " incorrect"
		team.IsEliminated = true
		markIncorrect(region, roundKey)
	})

	out.TotalWithBonus = out.TotalScore + out.TotalBonus
	annotated.Winners = ComputeWinners(annotated)
	out.Annotated = annotated
	return out, nil
}

func seedDiff(a, b *shared.Team) int {
	d := a.Seed - b.Seed
	if d < 0 {
		return -d
	}
	return d
}

// MaxPossibleScore returns an upper bound on the candidate's final score:
// the current total plus base and bonus points for every pick truth has not
// decided yet and that is not already impossible.
func MaxPossibleScore(candidate, truth, chalk *shared.Bracket) (int, error) {
	breakdown, err := ScoreBracket(candidate, truth, chalk)
	if err != nil {
		return 0, err
	}
	max := breakdown.TotalWithBonus
	walkSlots(breakdown.Annotated, truth, chalk, func(team, truthTeam, chalkTeam *shared.Team, region, roundKey, location string) {
		if team == nil || truthTeam != nil || team.Correct != nil {
			return
		}
		max += basePoints[roundKey]
		if team.Bonus != nil {
			max += *team.Bonus
		}
	})
	return max, nil
}

// RankingEntry is one row of the current-truth leaderboard.
type RankingEntry struct {
	Username       string `json:"username" bson:"username"`
	Rank           int    `json:"rank" bson:"rank"`
	TotalScore     int    `json:"total_score" bson:"total_score"`
	TotalBonus     int    `json:"total_bonus" bson:"total_bonus"`
	TotalWithBonus int    `json:"total_with_bonus" bson:"total_with_bonus"`
	CorrectPicks   int    `json:"correct_picks" bson:"correct_picks"`
	IncorrectPicks int    `json:"incorrect_picks" bson:"incorrect_picks"`
	MaxPossible    int    `json:"max_possible" bson:"max_possible"`
}

// CalculateRankings scores every user bracket against truth and ranks the
// results with standard competition ranking: tied scores share a rank and the
// next distinct score gets previousRank + numberTied.
// Preconditions: truth is a well formed bracket; user brackets that fail to score are skipped
// Postconditions: Returns the leaderboard entries in rank order
func CalculateRankings(userBrackets map[string]*shared.Bracket, truth, chalk *shared.Bracket) ([]RankingEntry, error) {
	if err := truth.Validate(); err != nil {
		return nil, err
	}

	entries := make([]RankingEntry, 0, len(userBrackets))
	for username, bracket := range userBrackets {
		breakdown, err := ScoreBracket(bracket, truth, chalk)
		if err != nil {
			log.Printf("scoring bracket for %s: %v", username, err)
			continue
		}
		ceiling, err := MaxPossibleScore(bracket, truth, chalk)
		if err != nil {
			ceiling = breakdown.TotalWithBonus
		}
		entries = append(entries, RankingEntry{
			Username:       username,
			TotalScore:     breakdown.TotalScore,
			TotalBonus:     breakdown.TotalBonus,
			TotalWithBonus: breakdown.TotalWithBonus,
			CorrectPicks:   breakdown.CorrectPicks,
			IncorrectPicks: breakdown.IncorrectPicks,
			MaxPossible:    ceiling,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalWithBonus != entries[j].TotalWithBonus {
			return entries[i].TotalWithBonus > entries[j].TotalWithBonus
		}
		return entries[i].Username < entries[j].Username
	})

	currentRank := 1
	for i := range entries {
		if i > 0 && entries[i].TotalWithBonus < entries[i-1].TotalWithBonus {
			currentRank = i + 1
		}
		entries[i].Rank = currentRank
	}
	return entries, nil
}
