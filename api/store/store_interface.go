/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"

	"bracket-bot/api/logic"
	"bracket-bot/api/shared"
	"bracket-bot/api/simulation"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	SaveUserBracket(user shared.User, bracket *shared.Bracket) error
	GetUserBracket(userID string) (BracketRecord, error)
	GetAllUserBrackets() ([]BracketRecord, error)
	GetTruthBracket() (*shared.Bracket, error)
	StoreTruthBracket(bracket *shared.Bracket) error
	GetChalkBracket() (*shared.Bracket, error)
	StoreChalkBracket(bracket *shared.Bracket) error
	FetchLeaderboardFromDB() ([]logic.RankingEntry, error)
	StoreLeaderboard(entries []logic.RankingEntry) error
	FetchAnalysisFromDB() (*simulation.AnalysisResult, error)
	StoreAnalysis(result *simulation.AnalysisResult) error

	// Getter methods for accessing fields
	GetDatabase() interface{ Name() string }
	GetTournament() string
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetDatabase returns the database instance
func (s *Store) GetDatabase() interface{ Name() string } {
	return s.Database
}

// GetTournament returns the tournament name
func (s *Store) GetTournament() string {
	return s.Tournament
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
