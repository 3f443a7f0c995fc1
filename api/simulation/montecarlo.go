/* montecarlo.go
 * Contains the Monte Carlo orchestrator: runs many seed weighted tournament completions against the current
 * truth, scores every user bracket under each completion, ranks the users per trial and aggregates the rank
 * distribution per user. Trials run on a bounded worker pool in batches; failed trials are dropped and
 * cancellation returns the aggregates of whatever completed.
 * Authors: Zachary Bower
 */

package simulation

import (
	"context"
	"log"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"bracket-bot/api/logic"
	"bracket-bot/api/shared"

	"github.com/montanaflynn/stats"
)

// SimulationConfig controls a Monte Carlo run. Zero values fall back to the
// defaults below; a zero Seed is replaced with the wall clock so repeated runs
// differ unless the caller pins one.
type SimulationConfig struct {
	Trials    int
	Workers   int
	BatchSize int
	Seed      int64
}

const (
	defaultTrials    = 1000
	defaultBatchSize = 50
)

func (c SimulationConfig) withDefaults() SimulationConfig {
	if c.Trials <= 0 {
		c.Trials = defaultTrials
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// UserStats is one user's aggregated rank distribution over the completed
// trials. Percentages are 0-100 of completed trials, not requested trials.
type UserStats struct {
	AvgRank       float64 `json:"avg_rank" bson:"avg_rank"`
	MedianRank    float64 `json:"median_rank" bson:"median_rank"`
	PctFirstPlace float64 `json:"pct_first_place" bson:"pct_first_place"`
	PctLastPlace  float64 `json:"pct_last_place" bson:"pct_last_place"`
	MinRank       int     `json:"min_rank" bson:"min_rank"`
	MaxRank       int     `json:"max_rank" bson:"max_rank"`
	MinScore      int     `json:"min_score" bson:"min_score"`
	MaxScore      int     `json:"max_score" bson:"max_score"`
}

// AnalysisResult is the outcome of a Monte Carlo run. TrialsCompleted can be
// lower than TrialsRequested when trials fail or the context is cancelled; all
// per user percentages are relative to TrialsCompleted.
type AnalysisResult struct {
	Users           map[string]UserStats `json:"users" bson:"users"`
	TrialsRequested int                  `json:"trials_requested" bson:"trials_requested"`
	TrialsCompleted int                  `json:"trials_completed" bson:"trials_completed"`
}

type trialResult struct {
	scores []int
	err    error
}

// RunSimulation runs cfg.Trials seed weighted completions of truth, scores
// every user bracket against each completion and aggregates the resulting rank
// distributions. Cancelling ctx stops dispatching new work and returns the
// aggregates of the trials that finished.
// Preconditions: truth is a well formed bracket with round 0 filled
// Postconditions: Returns per user rank statistics over the completed trials
func RunSimulation(ctx context.Context, truth, chalk *shared.Bracket, userBrackets map[string]*shared.Bracket, cfg SimulationConfig) (*AnalysisResult, error) {
	if err := truth.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	result := &AnalysisResult{
		Users:           make(map[string]UserStats, len(userBrackets)),
		TrialsRequested: cfg.Trials,
	}
	if len(userBrackets) == 0 {
		return result, nil
	}

	usernames := make([]string, 0, len(userBrackets))
	for username := range userBrackets {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	brackets := make([]*shared.Bracket, len(usernames))
	for i, username := range usernames {
		brackets[i] = userBrackets[username]
	}

	type batch struct {
		start, count int
	}
	batches := make(chan batch)
	results := make(chan trialResult)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(workerID)))
			for b := range batches {
				for trial := b.start; trial < b.start+b.count; trial++ {
					if ctx.Err() != nil {
						return
					}
					scores, err := runTrial(truth, chalk, brackets, rng)
					if err != nil {
						err = &shared.SimulationTrialError{Trial: trial, Err: err}
					}
					select {
					case results <- trialResult{scores: scores, err: err}:
					case <-ctx.Done():
						return
					}
				}
			}
		}(w)
	}

	go func() {
		defer close(batches)
		for start := 0; start < cfg.Trials; start += cfg.BatchSize {
			count := cfg.BatchSize
			if start+count > cfg.Trials {
				count = cfg.Trials - start
			}
			select {
			case batches <- batch{start: start, count: count}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	n := len(usernames)
	ranksByUser := make([][]float64, n)
	firstCounts := make([]int, n)
	lastCounts := make([]int, n)
	minScores := make([]int, n)
	maxScores := make([]int, n)
	completed := 0

	for r := range results {
		if r.err != nil {
			log.Printf("simulation: dropping trial: %v", r.err)
			continue
		}
		ranks := rankScores(r.scores)
		worst := 0
		for _, rank := range ranks {
			if rank > worst {
				worst = rank
			}
		}
		for i, rank := range ranks {
			ranksByUser[i] = append(ranksByUser[i], float64(rank))
			if rank == 1 {
				firstCounts[i]++
			}
			if rank == worst {
				lastCounts[i]++
			}
			if completed == 0 || r.scores[i] < minScores[i] {
				minScores[i] = r.scores[i]
			}
			if completed == 0 || r.scores[i] > maxScores[i] {
				maxScores[i] = r.scores[i]
			}
		}
		completed++
	}

	result.TrialsCompleted = completed
	if completed == 0 {
		return result, nil
	}

	for i, username := range usernames {
		ranks := ranksByUser[i]
		avg, err := stats.Mean(ranks)
		if err != nil {
			return nil, err
		}
		median, err := stats.Median(ranks)
		if err != nil {
			return nil, err
		}
		minRank, maxRank := int(ranks[0]), int(ranks[0])
		for _, r := range ranks {
			if int(r) < minRank {
				minRank = int(r)
			}
			if int(r) > maxRank {
				maxRank = int(r)
			}
		}
		result.Users[username] = UserStats{
			AvgRank:       avg,
			MedianRank:    median,
			PctFirstPlace: float64(firstCounts[i]) / float64(completed) * 100,
			PctLastPlace:  float64(lastCounts[i]) / float64(completed) * 100,
			MinRank:       minRank,
			MaxRank:       maxRank,
			MinScore:      minScores[i],
			MaxScore:      maxScores[i],
		}
	}
	return result, nil
}

// runTrial generates one completion and scores every user bracket against it.
// Scores are returned in the caller's bracket order.
func runTrial(truth, chalk *shared.Bracket, brackets []*shared.Bracket, rng *rand.Rand) ([]int, error) {
	completion, err := GenerateCompletion(truth, rng)
	if err != nil {
		return nil, err
	}
	scores := make([]int, len(brackets))
	for i, bracket := range brackets {
		breakdown, err := logic.ScoreBracket(bracket, completion, chalk)
		if err != nil {
			return nil, err
		}
		scores[i] = breakdown.TotalWithBonus
	}
	return scores, nil
}

// rankScores assigns standard competition ranks to a score vector: tied scores
// share a rank and the next distinct score's rank is previousRank + numberTied.
func rankScores(scores []int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	ranks := make([]int, len(scores))
	currentRank := 1
	for pos, idx := range order {
		if pos > 0 && scores[idx] < scores[order[pos-1]] {
			currentRank = pos + 1
		}
		ranks[idx] = currentRank
	}
	return ranks
}
