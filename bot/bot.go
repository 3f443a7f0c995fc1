/* bot.go
 * Contains logic used for creating and running the bot. Requires a discord bot token, and ApiPtr both of which are
 * passed in from main.go
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"bracket-bot/api/api"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	BotToken string
	APIPtr   *api.API
}

func NewBot(botToken string, apiPtr *api.API) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		APIPtr:   apiPtr,
	}, nil
}

func (b *Bot) Run() error {
	// create a session
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}

	// add an event handler
	discord.AddHandler(b.newMessage)

	// open session
	discord.Open()
	defer discord.Close() // close session, after function termination

	// keep bot running until there is NO os interruption (ctrl + C)
	fmt.Println("Bot running....")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	return nil
}

func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	//To prevent bot from responding to its own message, if the message author id matches the bot's then just return
	if message.Author.ID == discord.State.User.ID {
		return
	}
	b.dispatch(discord, message)
}

// dispatch routes a command message to its handler. Split from newMessage so
// tests can drive it with a mock session.
func (b *Bot) dispatch(session DiscordSession, message *discordgo.MessageCreate) {
	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$new"):
		b.newBracketHandler(session, message)

	case startsWith(message.Content, "$pick"):
		b.pickHandler(session, message)

	case startsWith(message.Content, "$autofill"):
		b.autoFillHandler(session, message)

	case startsWith(message.Content, "$random"):
		b.randomFillHandler(session, message)

	case startsWith(message.Content, "$bracket"):
		b.bracketHandler(session, message)

	case startsWith(message.Content, "$check"):
		b.checkBracketHandler(session, message)

	case startsWith(message.Content, "$leaderboard"):
		b.leaderboardHandler(session, message)

	case startsWith(message.Content, "$simulate"):
		b.simulateHandler(session, message)

	case startsWith(message.Content, "$scores"):
		b.scoresHandler(session, message)
	}
}

// Helper function to check if a string starts with a given substring
// Preconditions: Recieves an input string and a substring
// Postconditions: Returns true if the substring is at the start of the string, else returns false
func startsWith(inputString string, substring string) bool {
	return strings.HasPrefix(inputString, substring)
}
