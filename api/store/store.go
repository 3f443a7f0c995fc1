/* store.go
 * Contains the store struct and NewStore function. The methods for this package were split into four files:
 * brackets, truth, leaderboard and analysis. Each of these files contain methods for interacting with that
 * part of the database
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Tournament  string
	Collections struct {
		Brackets      *mongo.Collection
		TruthBrackets *mongo.Collection
		ChalkBrackets *mongo.Collection
		Leaderboard   *mongo.Collection
		Analysis      *mongo.Collection
	}
}

// Function for initialsing Store. Sets global values and initialises db connection
// Preconditions: Receives strings containing the following: dbName, mongoURI and tournament
// Postconditions: Updates global values, sets collection values, and returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string, tournament string) (*Store, error) {
	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	if tournament == "" {
		return nil, fmt.Errorf("tournament cannot be empty")
	}

	s := &Store{
		Client:     client,
		Database:   db,
		Tournament: tournament,
	}
	s.Collections.Brackets = db.Collection("user_brackets")
	s.Collections.TruthBrackets = db.Collection("truth_brackets")
	s.Collections.ChalkBrackets = db.Collection("chalk_brackets")
	s.Collections.Leaderboard = db.Collection("leaderboard")
	s.Collections.Analysis = db.Collection("analysis")
	return s, nil
}
