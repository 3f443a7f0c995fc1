/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"sort"
	"time"

	"bracket-bot/api/logic"
	"bracket-bot/api/shared"
	"bracket-bot/api/simulation"
	"bracket-bot/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	// Storage for mock data
	Brackets    map[string][]store.BracketRecord
	Truth       *shared.Bracket
	Chalk       *shared.Bracket
	Leaderboard []logic.RankingEntry
	Analysis    *simulation.AnalysisResult

	// Error injection for testing error paths
	SaveUserBracketError    error
	GetUserBracketError     error
	GetAllUserBracketsError error
	GetTruthBracketError    error
	StoreTruthBracketError  error
	GetChalkBracketError    error
	StoreChalkBracketError  error
	FetchLeaderboardError   error
	StoreLeaderboardError   error
	FetchAnalysisError      error
	StoreAnalysisError      error

	Tournament string
	Database   interface{ Name() string }
}

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// NewMockStore creates a new MockStore with default values
func NewMockStore() *MockStore {
	return &MockStore{
		Brackets:   make(map[string][]store.BracketRecord),
		Tournament: "test_tournament",
		Database:   &mockDatabase{name: "test_db"},
	}
}

// SaveUserBracket mock implementation
func (m *MockStore) SaveUserBracket(user shared.User, bracket *shared.Bracket) error {
	if m.SaveUserBracketError != nil {
		return m.SaveUserBracketError
	}
	m.Brackets[user.UserID] = append(m.Brackets[user.UserID], store.BracketRecord{
		UserID:     user.UserID,
		Username:   user.Username,
		Tournament: m.Tournament,
		SavedAt:    time.Now().UTC(),
		Bracket:    bracket,
	})
	return nil
}

// GetUserBracket mock implementation
func (m *MockStore) GetUserBracket(userID string) (store.BracketRecord, error) {
	if m.GetUserBracketError != nil {
		return store.BracketRecord{}, m.GetUserBracketError
	}
	records := m.Brackets[userID]
	if len(records) == 0 {
		return store.BracketRecord{}, mongo.ErrNoDocuments
	}
	return records[len(records)-1], nil
}

// GetAllUserBrackets mock implementation
func (m *MockStore) GetAllUserBrackets() ([]store.BracketRecord, error) {
	if m.GetAllUserBracketsError != nil {
		return nil, m.GetAllUserBracketsError
	}
	userIDs := make([]string, 0, len(m.Brackets))
	for userID := range m.Brackets {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	var latest []store.BracketRecord
	for _, userID := range userIDs {
		records := m.Brackets[userID]
		if len(records) > 0 {
			latest = append(latest, records[len(records)-1])
		}
	}
	return latest, nil
}

// GetTruthBracket mock implementation
func (m *MockStore) GetTruthBracket() (*shared.Bracket, error) {
	if m.GetTruthBracketError != nil {
		return nil, m.GetTruthBracketError
	}
	if m.Truth == nil {
		return nil, &shared.DataSourceUnavailableError{Source: "truth bracket", Err: mongo.ErrNoDocuments}
	}
	return m.Truth, nil
}

// StoreTruthBracket mock implementation
func (m *MockStore) StoreTruthBracket(bracket *shared.Bracket) error {
	if m.StoreTruthBracketError != nil {
		return m.StoreTruthBracketError
	}
	m.Truth = bracket
	return nil
}

// GetChalkBracket mock implementation
func (m *MockStore) GetChalkBracket() (*shared.Bracket, error) {
	if m.GetChalkBracketError != nil {
		return nil, m.GetChalkBracketError
	}
	if m.Chalk == nil {
		return nil, &shared.DataSourceUnavailableError{Source: "chalk bracket", Err: mongo.ErrNoDocuments}
	}
	return m.Chalk, nil
}

// StoreChalkBracket mock implementation
func (m *MockStore) StoreChalkBracket(bracket *shared.Bracket) error {
	if m.StoreChalkBracketError != nil {
		return m.StoreChalkBracketError
	}
	m.Chalk = bracket
	return nil
}

// FetchLeaderboardFromDB mock implementation
func (m *MockStore) FetchLeaderboardFromDB() ([]logic.RankingEntry, error) {
	if m.FetchLeaderboardError != nil {
		return nil, m.FetchLeaderboardError
	}
	if m.Leaderboard == nil {
		return nil, mongo.ErrNoDocuments
	}
	return m.Leaderboard, nil
}

// StoreLeaderboard mock implementation
func (m *MockStore) StoreLeaderboard(entries []logic.RankingEntry) error {
	if m.StoreLeaderboardError != nil {
		return m.StoreLeaderboardError
	}
	m.Leaderboard = entries
	return nil
}

// FetchAnalysisFromDB mock implementation
func (m *MockStore) FetchAnalysisFromDB() (*simulation.AnalysisResult, error) {
	if m.FetchAnalysisError != nil {
		return nil, m.FetchAnalysisError
	}
	if m.Analysis == nil {
		return nil, mongo.ErrNoDocuments
	}
	return m.Analysis, nil
}

// StoreAnalysis mock implementation
func (m *MockStore) StoreAnalysis(result *simulation.AnalysisResult) error {
	if m.StoreAnalysisError != nil {
		return m.StoreAnalysisError
	}
	m.Analysis = result
	return nil
}

// Implement getter methods for StoreInterface
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return m.Database
}

func (m *MockStore) GetTournament() string {
	return m.Tournament
}

// mockClient implements minimal client interface
type mockClient struct{}

func (mc *mockClient) Disconnect(ctx context.Context) error {
	return nil
}

func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}

// Ensure MockStore implements the store interface
var _ store.Interface = (*MockStore)(nil)
