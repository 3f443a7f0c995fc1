/* external.go
 * Contains the logic used to fetch live tournament scores from the ESPN scoreboard api, and return the
 * results to the higher level functions. Responses are cached to a local file with a TTL and outbound
 * requests are rate limited; when a fetch fails the stale cache is served instead.
 * Authors: Zachary Bower
 */

package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

const scoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/basketball/mens-college-basketball/scoreboard"

// ScoresClient fetches the tournament scoreboard. The zero value is not
// usable; construct with NewScoresClient.
type ScoresClient struct {
	HTTPClient *http.Client
	URL        string
	CacheFile  string
	CacheTTL   time.Duration

	limiter *rate.Limiter
	now     func() time.Time
}

// NewScoresClient returns a client caching to cacheFile with the given TTL.
// Requests are limited to one every 10 seconds with a small burst, which keeps
// a chatty Discord channel from hammering the upstream api.
func NewScoresClient(cacheFile string, cacheTTL time.Duration) *ScoresClient {
	return &ScoresClient{
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		URL:        scoreboardURL,
		CacheFile:  cacheFile,
		CacheTTL:   cacheTTL,
		limiter:    rate.NewLimiter(rate.Every(10*time.Second), 2),
		now:        time.Now,
	}
}

// GetTournamentScores returns the current scoreboard, from cache when fresh.
// On a fetch failure the stale cache is returned if one exists.
// Preconditions: Receives a context used for rate limiter waits and the HTTP request
// Postconditions: Returns the scoreboard, or an error if neither the api nor the cache can serve it
func (c *ScoresClient) GetTournamentScores(ctx context.Context) (*Scoreboard, error) {
	if cached, err := c.readCache(); err == nil && c.now().Sub(cached.LastUpdated) < c.CacheTTL {
		return cached, nil
	}

	scoreboard, err := c.fetch(ctx)
	if err != nil {
		// Serve the stale cache rather than nothing
		if cached, cacheErr := c.readCache(); cacheErr == nil {
			return cached, nil
		}
		return nil, fmt.Errorf("error fetching tournament scores: %w", err)
	}

	if err := c.writeCache(scoreboard); err != nil {
		fmt.Println("Failed to write scores cache:", err)
	}
	return scoreboard, nil
}

func (c *ScoresClient) fetch(ctx context.Context) (*Scoreboard, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, "GET", c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	request.Header.Set("User-Agent", "BracketBotScoresFetcher/1.0")

	response, err := c.HTTPClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard api returned status code %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var raw espnScoreboard
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scoreboard response: %w", err)
	}

	return transformScoreboard(raw, c.now()), nil
}

// transformScoreboard converts the upstream response into the compact display
// model. Events without two competitors are dropped.
func transformScoreboard(raw espnScoreboard, fetchedAt time.Time) *Scoreboard {
	scoreboard := &Scoreboard{LastUpdated: fetchedAt}
	for _, event := range raw.Events {
		if len(event.Competitions) == 0 {
			continue
		}
		competition := event.Competitions[0]
		if len(competition.Competitors) < 2 {
			continue
		}

		var home, away espnCompetitor
		for _, competitor := range competition.Competitors {
			switch competitor.HomeAway {
			case "home":
				home = competitor
			case "away":
				away = competitor
			}
		}

		status := event.Status.Type.Name
		if status == "" {
			status = "UNKNOWN"
		}
		scoreboard.Games = append(scoreboard.Games, Game{
			ID:        event.ID,
			Date:      event.Date,
			Status:    status,
			HomeTeam:  teamNameOrUnknown(home),
			AwayTeam:  teamNameOrUnknown(away),
			HomeScore: scoreOrZero(home),
			AwayScore: scoreOrZero(away),
			Period:    competition.Status.Period,
			Clock:     competition.Status.DisplayClock,
		})
	}
	return scoreboard
}

func teamNameOrUnknown(c espnCompetitor) string {
	if c.Team.Name == "" {
		return "Unknown Team"
	}
	return c.Team.Name
}

func scoreOrZero(c espnCompetitor) string {
	if c.Score == "" {
		return "0"
	}
	return c.Score
}

func (c *ScoresClient) readCache() (*Scoreboard, error) {
	data, err := os.ReadFile(c.CacheFile)
	if err != nil {
		return nil, err
	}
	var scoreboard Scoreboard
	if err := json.Unmarshal(data, &scoreboard); err != nil {
		return nil, err
	}
	return &scoreboard, nil
}

func (c *ScoresClient) writeCache(scoreboard *Scoreboard) error {
	if err := os.MkdirAll(filepath.Dir(c.CacheFile), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(scoreboard)
	if err != nil {
		return err
	}
	return os.WriteFile(c.CacheFile, data, 0o644)
}
