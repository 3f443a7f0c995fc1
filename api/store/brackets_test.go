/* brackets_test.go
 * Contains unit tests for brackets.go
 * Authors: Zachary Bower
 */

package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"bracket-bot/api/shared"
)

func newMtStore(mt *mtest.T) *Store {
	store := &Store{
		Client:     mt.Client,
		Database:   mt.DB,
		Tournament: "test_tournament",
	}
	store.Collections.Brackets = mt.Coll
	store.Collections.TruthBrackets = mt.Coll
	store.Collections.ChalkBrackets = mt.Coll
	store.Collections.Leaderboard = mt.Coll
	store.Collections.Analysis = mt.Coll
	return store
}

func TestSaveUserBracket(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("successfully inserts bracket snapshot", func(mt *mtest.T) {
		store := newMtStore(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		bracket, err := CreateSampleBracket()
		require.NoError(mt, err)

		err = store.SaveUserBracket(shared.User{UserID: "user123", Username: "testuser"}, bracket)
		assert.NoError(mt, err)
	})

	mt.Run("rejects nil bracket", func(mt *mtest.T) {
		store := newMtStore(mt)
		err := store.SaveUserBracket(shared.User{UserID: "user123", Username: "testuser"}, nil)
		assert.Error(mt, err)
	})
}

func TestGetUserBracket(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns latest bracket for user", func(mt *mtest.T) {
		store := newMtStore(mt)

		first := mtest.CreateCursorResponse(1, "test.user_brackets", mtest.FirstBatch, bson.D{
			{Key: "userid", Value: "user123"},
			{Key: "username", Value: "testuser"},
			{Key: "tournament", Value: "test_tournament"},
			{Key: "saved_at", Value: time.Now().UTC()},
		})
		getMore := mtest.CreateCursorResponse(0, "test.user_brackets", mtest.NextBatch)
		mt.AddMockResponses(first, getMore)

		record, err := store.GetUserBracket("user123")
		require.NoError(mt, err)
		assert.Equal(mt, "user123", record.UserID)
		assert.Equal(mt, "testuser", record.Username)
	})

	mt.Run("returns ErrNoDocuments when user has no bracket", func(mt *mtest.T) {
		store := newMtStore(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.user_brackets", mtest.FirstBatch))

		_, err := store.GetUserBracket("nobody")
		assert.ErrorIs(mt, err, mongo.ErrNoDocuments)
	})
}

func TestGetAllUserBrackets(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("keeps only the newest record per user", func(mt *mtest.T) {
		store := newMtStore(mt)

		now := time.Now().UTC()
		// Sorted newest first, as the query requests
		first := mtest.CreateCursorResponse(1, "test.user_brackets", mtest.FirstBatch,
			bson.D{
				{Key: "userid", Value: "user1"},
				{Key: "username", Value: "alice"},
				{Key: "saved_at", Value: now},
			},
			bson.D{
				{Key: "userid", Value: "user2"},
				{Key: "username", Value: "bob"},
				{Key: "saved_at", Value: now.Add(-time.Hour)},
			},
			bson.D{
				{Key: "userid", Value: "user1"},
				{Key: "username", Value: "alice"},
				{Key: "saved_at", Value: now.Add(-2 * time.Hour)},
			},
		)
		getMore := mtest.CreateCursorResponse(0, "test.user_brackets", mtest.NextBatch)
		mt.AddMockResponses(first, getMore)

		records, err := store.GetAllUserBrackets()
		require.NoError(mt, err)
		require.Len(mt, records, 2)
		assert.Equal(mt, "user1", records[0].UserID)
		assert.Equal(mt, "user2", records[1].UserID)
	})
}
