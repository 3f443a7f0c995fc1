/* brackets.go
 * Contains the methods for interacting with the user_brackets collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bracket-bot/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SaveUserBracket stores a new snapshot of the user's bracket in the db. Saves
// are append only; older snapshots are kept as history
// Preconditions: Receives the user the bracket belongs to and the bracket to store
// Postconditions: Inserts a new bracket document, or returns an error if the operation was unsuccessful
func (s *Store) SaveUserBracket(user shared.User, bracket *shared.Bracket) error {
	if bracket == nil {
		return fmt.Errorf("bracket cannot be nil")
	}
	record := BracketRecord{
		UserID:     user.UserID,
		Username:   user.Username,
		Tournament: s.Tournament,
		SavedAt:    time.Now().UTC(),
		Bracket:    bracket,
	}
	_, err := s.Collections.Brackets.InsertOne(context.TODO(), record)
	if err != nil {
		return fmt.Errorf("failed to insert user bracket: %w", err)
	}
	return nil
}

// GetUserBracket does DB lookup and gets the most recently saved bracket for a user
// Preconditions: Receives a string containing the userID
// Postconditions: Returns the user's latest bracket record if one exists, or an error if it occurs
func (s *Store) GetUserBracket(userID string) (BracketRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "saved_at", Value: -1}})

	var result BracketRecord
	err := s.Collections.Brackets.FindOne(context.TODO(), bson.M{"userid": userID, "tournament": s.Tournament}, opts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return BracketRecord{}, err
		}
		return BracketRecord{}, fmt.Errorf("error fetching bracket from db: %w", err)
	}

	return result, nil
}

// GetAllUserBrackets does DB lookup and gets the latest bracket for every user in the tournament.
// Used in leaderboard calculations and simulation runs.
// It returns a slice of BracketRecord with one entry per user, or an error if it occurs.
func (s *Store) GetAllUserBrackets() ([]BracketRecord, error) {
	filter := bson.D{{Key: "tournament", Value: s.Tournament}}
	opts := options.Find().SetSort(bson.D{{Key: "saved_at", Value: -1}})

	cursor, err := s.Collections.Brackets.Find(context.TODO(), filter, opts)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching brackets from db: %w", err)
	}

	var all []BracketRecord
	if err = cursor.All(context.TODO(), &all); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of bracket records: %w", err)
	}

	// Documents arrive newest first, so the first record seen per user wins
	seen := make(map[string]bool, len(all))
	var latest []BracketRecord
	for _, record := range all {
		if seen[record.UserID] {
			continue
		}
		seen[record.UserID] = true
		latest = append(latest, record)
	}
	return latest, nil
}
