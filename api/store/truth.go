/* truth.go
 * Contains the methods for interacting with the truth_brackets and chalk_brackets collections. Both hold one
 * reference bracket per tournament: the truth bracket is the actual results so far, the chalk bracket is the
 * all-favourites completion that the upset bonus is measured against
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"time"

	"bracket-bot/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetTruthBracket returns the tournament's truth bracket from the db
// Preconditions: Receives receiver pointer for Store which contains the tournament name
// Postconditions: Returns the truth bracket, or a DataSourceUnavailableError if it cannot be loaded
func (s *Store) GetTruthBracket() (*shared.Bracket, error) {
	return s.getReferenceBracket(s.Collections.TruthBrackets, "truth bracket")
}

// StoreTruthBracket updates the tournament's truth bracket in the db
// Preconditions: Receives the truth bracket to store
// Postconditions: Inserts or updates the single truth document for the tournament, or returns an error
func (s *Store) StoreTruthBracket(bracket *shared.Bracket) error {
	return s.storeReferenceBracket(s.Collections.TruthBrackets, "truth bracket", bracket)
}

// GetChalkBracket returns the tournament's chalk bracket from the db
// Preconditions: Receives receiver pointer for Store which contains the tournament name
// Postconditions: Returns the chalk bracket, or a DataSourceUnavailableError if it cannot be loaded
func (s *Store) GetChalkBracket() (*shared.Bracket, error) {
	return s.getReferenceBracket(s.Collections.ChalkBrackets, "chalk bracket")
}

// StoreChalkBracket updates the tournament's chalk bracket in the db
// Preconditions: Receives the chalk bracket to store
// Postconditions: Inserts or updates the single chalk document for the tournament, or returns an error
func (s *Store) StoreChalkBracket(bracket *shared.Bracket) error {
	return s.storeReferenceBracket(s.Collections.ChalkBrackets, "chalk bracket", bracket)
}

func (s *Store) getReferenceBracket(coll *mongo.Collection, source string) (*shared.Bracket, error) {
	var record TruthRecord
	err := coll.FindOne(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}}).Decode(&record)
	if err != nil {
		return nil, &shared.DataSourceUnavailableError{Source: source, Err: err}
	}
	if record.Bracket == nil {
		return nil, &shared.DataSourceUnavailableError{Source: source, Err: fmt.Errorf("stored record has no bracket")}
	}
	return record.Bracket, nil
}

func (s *Store) storeReferenceBracket(coll *mongo.Collection, source string, bracket *shared.Bracket) error {
	if bracket == nil {
		return fmt.Errorf("%s cannot be nil", source)
	}
	record := TruthRecord{
		Tournament: s.Tournament,
		UpdatedAt:  time.Now().UTC(),
		Bracket:    bracket,
	}

	// Attempt to find an existing document
	var existing TruthRecord
	err := coll.FindOne(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}}).Decode(&existing)
	notFound := err == mongo.ErrNoDocuments

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing %s failed: %w", source, err)
	}

	if notFound {
		_, err := coll.InsertOne(context.TODO(), record)
		if err != nil {
			return fmt.Errorf("%s insert failed: %w", source, err)
		}
		return nil
	}

	filter := bson.M{"tournament": s.Tournament}
	update := bson.D{{Key: "$set", Value: record}}
	_, err = coll.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("%s update failed: %w", source, err)
	}
	return nil
}
