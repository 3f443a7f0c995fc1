/* bot_test.go
 * Contains unit tests for bot creation and command dispatch
 * Authors: Zachary Bower
 */

package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBot_Success(t *testing.T) {
	bot, err := NewBot("test_token", nil)
	require.NoError(t, err)
	assert.Equal(t, "test_token", bot.BotToken)
}

func TestNewBot_MissingToken(t *testing.T) {
	_, err := NewBot("", nil)
	assert.Error(t, err)
}

func TestDispatch_RoutesCommands(t *testing.T) {
	bot, _ := createTestBot(t)

	// Each recognised command produces exactly one response
	commands := []string{"$help", "$new", "$autofill", "$random", "$bracket", "$check", "$leaderboard"}
	for _, command := range commands {
		mockSession := NewMockDiscordSession()
		bot.dispatch(mockSession, createMockMessage(command, "user123", "TestUser", "channel123"))
		assert.Len(t, mockSession.SentMessages, 1, "command %s", command)
	}
}

func TestDispatch_IgnoresUnknownMessages(t *testing.T) {
	bot, _ := createTestBot(t)
	mockSession := NewMockDiscordSession()

	bot.dispatch(mockSession, createMockMessage("hello there", "user123", "TestUser", "channel123"))
	bot.dispatch(mockSession, createMockMessage("$unknown", "user123", "TestUser", "channel123"))

	assert.Empty(t, mockSession.SentMessages)
}

func TestStartsWith(t *testing.T) {
	assert.True(t, startsWith("$pick west 1 \"west-1\"", "$pick"))
	assert.True(t, startsWith("$help", "$help"))
	assert.False(t, startsWith("pick", "$pick"))
	assert.False(t, startsWith("", "$new"))
}
