/* models.go
 * Contains the structs used for unmarshaling the ESPN scoreboard response and the compact Scoreboard model
 * returned to higher level functions
 * Authors: Zachary Bower
 */

package external

import "time"

// Scoreboard is the compact score feed served to the bot. LastUpdated doubles
// as the cache freshness marker.
type Scoreboard struct {
	LastUpdated time.Time `json:"last_updated"`
	Games       []Game    `json:"games"`
}

// Game is one tournament game in display form
type Game struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore string `json:"home_score"`
	AwayScore string `json:"away_score"`
	Period    int    `json:"period"`
	Clock     string `json:"clock"`
}

// The structs below mirror the slice of the ESPN scoreboard JSON we consume

type espnScoreboard struct {
	Events []espnEvent `json:"events"`
}

type espnEvent struct {
	ID           string            `json:"id"`
	Date         string            `json:"date"`
	Status       espnEventStatus   `json:"status"`
	Competitions []espnCompetition `json:"competitions"`
}

type espnEventStatus struct {
	Type struct {
		Name string `json:"name"`
	} `json:"type"`
}

type espnCompetition struct {
	Status      espnGameStatus   `json:"status"`
	Competitors []espnCompetitor `json:"competitors"`
}

type espnGameStatus struct {
	Period       int    `json:"period"`
	DisplayClock string `json:"displayClock"`
}

type espnCompetitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     struct {
		Name string `json:"name"`
	} `json:"team"`
}
