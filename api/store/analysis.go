/* analysis.go
 * Contains the methods for interacting with the analysis collection, which stores the result of the most
 * recent Monte Carlo run per tournament
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bracket-bot/api/simulation"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FetchAnalysisFromDB returns the stored Monte Carlo analysis from the db
// Preconditions: Receives receiver pointer for Store which contains the tournament name
// Postconditions: Returns the stored analysis result, or an error if it occurs
func (s *Store) FetchAnalysisFromDB() (*simulation.AnalysisResult, error) {
	var record AnalysisRecord
	err := s.Collections.Analysis.FindOne(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch analysis from database: %w", err)
	}
	if record.Result == nil {
		return nil, fmt.Errorf("stored analysis record has no result")
	}
	return record.Result, nil
}

// StoreAnalysis updates the Monte Carlo analysis stored in the DB
// Preconditions: Receives the analysis result to be stored
// Postconditions: Inserts or updates the single analysis document for the tournament, or returns an error
func (s *Store) StoreAnalysis(result *simulation.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("analysis result cannot be nil")
	}

	record := AnalysisRecord{
		Tournament: s.Tournament,
		UpdatedAt:  time.Now().UTC(),
		Result:     result,
	}

	var existing AnalysisRecord
	err := s.Collections.Analysis.FindOne(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}}).Decode(&existing)
	notFound := err == mongo.ErrNoDocuments

	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing record failed: %w", err)
	}

	if notFound {
		_, err := s.Collections.Analysis.InsertOne(context.TODO(), record)
		if err != nil {
			return fmt.Errorf("analysis insert failed: %w", err)
		}
		return nil
	}

	filter := bson.M{"tournament": s.Tournament}
	update := bson.D{{Key: "$set", Value: record}}
	_, err = s.Collections.Analysis.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("analysis update failed: %w", err)
	}
	return nil
}
