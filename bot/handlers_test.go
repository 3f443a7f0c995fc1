/* handlers_test.go
 * Contains unit tests for bot command handlers using the mock Discord session
 * Authors: Zachary Bower
 */

package bot

import (
	"testing"

	"bracket-bot/api/api"
	"bracket-bot/api/shared"
	"bracket-bot/api/store"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestBot creates a Bot instance backed by a mock store with a complete
// truth bracket already stored
func createTestBot(t *testing.T) (*Bot, *api.MockStore) {
	t.Helper()
	mockStore := api.NewMockStore()
	truth, err := store.CreateSampleBracket()
	require.NoError(t, err)
	mockStore.Truth = truth
	mockStore.Chalk = truth

	bot := &Bot{
		BotToken: "test_token",
		APIPtr:   &api.API{Store: mockStore},
	}
	return bot, mockStore
}

// createMockMessage creates a mock Discord message for testing
func createMockMessage(content, userID, username, channelID string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{
		Message: &discordgo.Message{
			Content:   content,
			ChannelID: channelID,
			Author: &discordgo.User{
				ID:       userID,
				Username: username,
			},
		},
	}
}

// region helpMessage tests

func TestHelpMessage_Success(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()
	message := createMockMessage("$help", "user123", "TestUser", "channel123")

	bot.helpMessageHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	msg := mockSession.GetLastMessage()
	assert.Equal(t, "channel123", msg.ChannelID)
	assert.Contains(t, msg.Content, "Bracket Bot")
	assert.Contains(t, msg.Content, "$pick")
	assert.Contains(t, msg.Content, "$check")
	assert.Contains(t, msg.Content, "$leaderboard")
	assert.Contains(t, msg.Content, "$simulate")
}

// endregion

// region newBracket tests

func TestNewBracket_Success(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()
	message := createMockMessage("$new", "user123", "TestUser", "channel123")

	bot.newBracketHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser's bracket has been created")
	assert.Len(t, mockStore.Brackets["user123"], 1)
}

func TestNewBracket_NoTruthStored(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockStore.Truth = nil
	mockSession := NewMockDiscordSession()
	message := createMockMessage("$new", "user123", "TestUser", "channel123")

	bot.newBracketHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "An error occured creating TestUser's bracket")
}

// endregion

// region pick tests

func TestPick_Success(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.newBracketHandler(mockSession, createMockMessage("$new", "user123", "TestUser", "channel123"))
	mockSession.ClearMessages()

	message := createMockMessage("$pick west 1 \"west-1\"", "user123", "TestUser", "channel123")
	bot.pickHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser's bracket has been updated")

	records := mockStore.Brackets["user123"]
	require.Len(t, records, 2)
	rounds, err := records[len(records)-1].Bracket.Region("west")
	require.NoError(t, err)
	require.NotNil(t, rounds[1][0])
	assert.Equal(t, "west-1", rounds[1][0].Name)
}

func TestPick_QuotedTeamNameWithSpaces(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	// seed a truth field containing a multi-word team name
	truth := mockStore.Truth.Clone()
	rounds, err := truth.Region("west")
	require.NoError(t, err)
	rounds[0][0] = &shared.Team{Name: "Michigan State", Seed: 1}
	mockStore.Truth = truth

	bot.newBracketHandler(mockSession, createMockMessage("$new", "user123", "TestUser", "channel123"))
	mockSession.ClearMessages()

	message := createMockMessage("$pick west 1 \"Michigan State\"", "user123", "TestUser", "channel123")
	bot.pickHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser's bracket has been updated")
}

func TestPick_FinalFourForm(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.newBracketHandler(mockSession, createMockMessage("$new", "user123", "TestUser", "channel123"))
	bot.autoFillHandler(mockSession, createMockMessage("$autofill", "user123", "TestUser", "channel123"))
	mockSession.ClearMessages()

	// After an autofill each regional winner is its 1 seed, so east-1 sits in
	// the final four and the two argument pick form can advance it
	message := createMockMessage("$pick ff \"east-1\"", "user123", "TestUser", "channel123")
	bot.pickHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser's bracket has been updated")

	records := mockStore.Brackets["user123"]
	latest := records[len(records)-1].Bracket
	require.NotNil(t, latest.Championship[1])
	assert.Equal(t, "east-1", latest.Championship[1].Name)
}

func TestPick_NoBracketStored(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()
	message := createMockMessage("$pick west 1 \"west-1\"", "user123", "TestUser", "channel123")

	bot.pickHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser does not have a bracket stored. Use $new")
}

func TestPick_WrongArgCount(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()
	message := createMockMessage("$pick west", "user123", "TestUser", "channel123")

	bot.pickHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "Usage: $pick")
}

func TestPick_InvalidRegion(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.newBracketHandler(mockSession, createMockMessage("$new", "user123", "TestUser", "channel123"))
	mockSession.ClearMessages()

	message := createMockMessage("$pick north 1 \"west-1\"", "user123", "TestUser", "channel123")
	bot.pickHandler(mockSession, message)

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "An error occured updating TestUser's bracket")
}

// endregion

// region autofill and random tests

func TestAutoFill_Success(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.newBracketHandler(mockSession, createMockMessage("$new", "user123", "TestUser", "channel123"))
	mockSession.ClearMessages()

	bot.autoFillHandler(mockSession, createMockMessage("$autofill", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser's bracket has been completed")

	records := mockStore.Brackets["user123"]
	latest := records[len(records)-1].Bracket
	require.NotNil(t, latest.Champion)
	assert.Equal(t, 1, latest.Champion.Seed)
}

func TestAutoFill_NoBracketStored(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.autoFillHandler(mockSession, createMockMessage("$autofill", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser does not have a bracket stored. Use $new")
}

func TestRandomFill_Success(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.newBracketHandler(mockSession, createMockMessage("$new", "user123", "TestUser", "channel123"))
	mockSession.ClearMessages()

	bot.randomFillHandler(mockSession, createMockMessage("$random", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser's bracket has been randomised")

	records := mockStore.Brackets["user123"]
	assert.NotNil(t, records[len(records)-1].Bracket.Champion)
}

// endregion

// region bracket tests

func TestBracket_Success(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.newBracketHandler(mockSession, createMockMessage("$new", "user123", "TestUser", "channel123"))
	bot.autoFillHandler(mockSession, createMockMessage("$autofill", "user123", "TestUser", "channel123"))
	mockSession.ClearMessages()

	bot.bracketHandler(mockSession, createMockMessage("$bracket", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	msg := mockSession.GetLastMessage()
	assert.Contains(t, msg.Content, "TestUser's bracket:")
	assert.Contains(t, msg.Content, "**west**")
	assert.Contains(t, msg.Content, "**final four**")
	assert.Contains(t, msg.Content, "**champion**: (1)")
}

func TestBracket_UndecidedSlotsShowTBD(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.newBracketHandler(mockSession, createMockMessage("$new", "user123", "TestUser", "channel123"))
	mockSession.ClearMessages()

	bot.bracketHandler(mockSession, createMockMessage("$bracket", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	msg := mockSession.GetLastMessage()
	assert.Contains(t, msg.Content, "TBD")
	assert.Contains(t, msg.Content, "**champion**: TBD")
}

func TestBracket_NoBracketStored(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.bracketHandler(mockSession, createMockMessage("$bracket", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser does not have a bracket stored. Use $new")
}

// endregion

// region check tests

func TestCheck_Success(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	user := shared.User{UserID: "user123", Username: "TestUser"}
	require.NoError(t, mockStore.SaveUserBracket(user, mockStore.Truth))

	bot.checkBracketHandler(mockSession, createMockMessage("$check", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	msg := mockSession.GetLastMessage()
	assert.Contains(t, msg.Content, "Score: 1680")
	assert.Contains(t, msg.Content, "63 correct")
}

func TestCheck_NoBracketStored(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.checkBracketHandler(mockSession, createMockMessage("$check", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "TestUser does not have a bracket stored. Use $new")
}

// endregion

// region leaderboard tests

func TestLeaderboard_Success(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	user := shared.User{UserID: "user123", Username: "TestUser"}
	require.NoError(t, mockStore.SaveUserBracket(user, mockStore.Truth))
	require.NoError(t, bot.APIPtr.GenerateLeaderboard())

	bot.leaderboardHandler(mockSession, createMockMessage("$leaderboard", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	msg := mockSession.GetLastMessage()
	assert.Contains(t, msg.Content, "The users with the best brackets are:")
	assert.Contains(t, msg.Content, "1. TestUser, 1680")
}

func TestLeaderboard_NoneStored(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.leaderboardHandler(mockSession, createMockMessage("$leaderboard", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "No leaderboard yet")
}

// endregion

// region simulate tests

func TestSimulate_Success(t *testing.T) {
	bot, mockStore := createTestBot(t)
	mockSession := NewMockDiscordSession()

	user := shared.User{UserID: "user123", Username: "TestUser"}
	require.NoError(t, mockStore.SaveUserBracket(user, mockStore.Truth))

	bot.simulateHandler(mockSession, createMockMessage("$simulate 20", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	msg := mockSession.GetLastMessage()
	assert.Contains(t, msg.Content, "20 trials")
	assert.Contains(t, msg.Content, "TestUser")
}

func TestSimulate_InvalidTrials(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.simulateHandler(mockSession, createMockMessage("$simulate lots", "user123", "TestUser", "channel123"))

	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "Trials must be a number")
}

func TestSimulate_NoBrackets(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.simulateHandler(mockSession, createMockMessage("$simulate 20", "user123", "TestUser", "channel123"))

	// With no brackets stored the simulation completes zero trials
	require.Len(t, mockSession.SentMessages, 1)
	assert.Contains(t, mockSession.GetLastMessage().Content, "0 trials")
}

// endregion
