/* test_helpers.go
 * Contains test helper functions for store package tests
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"bracket-bot/api/logic"
	"bracket-bot/api/shared"
)

// NewMockStore creates a Store instance for testing purposes.
// This can be used with a real test database or in-memory MongoDB.
func NewMockStore(dbName string, mongoURI string) (*Store, error) {
	return NewStore(dbName, mongoURI, "test_tournament")
}

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewMockStore("test_brackets", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			// Drop test database
			store.Database.Drop(context.TODO())
			// Disconnect client
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}

// CreateSampleField creates a full 64 team field for testing.
func CreateSampleField() map[string][]shared.Team {
	field := make(map[string][]shared.Team, len(shared.RegionNames))
	for _, region := range shared.RegionNames {
		teams := make([]shared.Team, 0, 16)
		for seed := 1; seed <= 16; seed++ {
			teams = append(teams, shared.Team{Name: fmt.Sprintf("%s-%d", region, seed), Seed: seed})
		}
		field[region] = teams
	}
	return field
}

// CreateSampleBracket creates a fully completed sample bracket for testing.
func CreateSampleBracket() (*shared.Bracket, error) {
	bracket, err := logic.InitializeBracket(CreateSampleField())
	if err != nil {
		return nil, err
	}
	return logic.AutoFillBracket(bracket, rand.New(rand.NewSource(1)))
}

// CreateSampleBracketRecord creates sample BracketRecord data for testing.
func CreateSampleBracketRecord(userID, username, tournament string) (BracketRecord, error) {
	bracket, err := CreateSampleBracket()
	if err != nil {
		return BracketRecord{}, err
	}
	return BracketRecord{
		UserID:     userID,
		Username:   username,
		Tournament: tournament,
		SavedAt:    time.Now().UTC(),
		Bracket:    bracket,
	}, nil
}
