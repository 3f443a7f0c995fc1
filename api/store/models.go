/* models.go
 * This file contains the structs that relate to DB objects
 * Authors: Zachary Bower
 */

package store

import (
	"time"

	"bracket-bot/api/logic"
	"bracket-bot/api/shared"
	"bracket-bot/api/simulation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BracketRecord is one saved snapshot of a user's bracket. Every save inserts
// a new document; the newest saved_at per user is the user's current bracket.
type BracketRecord struct {
	Id         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"userid,omitempty"`
	Username   string             `bson:"username,omitempty"`
	Tournament string             `bson:"tournament,omitempty"`
	SavedAt    time.Time          `bson:"saved_at"`
	Bracket    *shared.Bracket    `bson:"bracket,omitempty"`
}

// TruthRecord holds a reference bracket for a tournament: either the truth
// bracket (actual results) or the chalk bracket (pure seed favourites). One
// document per tournament per collection.
type TruthRecord struct {
	Id         primitive.ObjectID `bson:"_id,omitempty"`
	Tournament string             `bson:"tournament,omitempty"`
	UpdatedAt  time.Time          `bson:"updated_at"`
	Bracket    *shared.Bracket    `bson:"bracket,omitempty"`
}

// Leaderboard is the stored current-truth leaderboard for a tournament
type Leaderboard struct {
	Id         primitive.ObjectID   `bson:"_id,omitempty"`
	Tournament string               `bson:"tournament,omitempty"`
	UpdatedAt  time.Time            `bson:"updated_at"`
	Entries    []logic.RankingEntry `bson:"entries,omitempty"`
}

// AnalysisRecord is the stored result of the most recent Monte Carlo run for a
// tournament
type AnalysisRecord struct {
	Id         primitive.ObjectID         `bson:"_id,omitempty"`
	Tournament string                     `bson:"tournament,omitempty"`
	UpdatedAt  time.Time                  `bson:"updated_at"`
	Result     *simulation.AnalysisResult `bson:"result,omitempty"`
}
