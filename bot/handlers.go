/* handlers.go
 * Contains the handler methods for each bot command. Handlers accept the DiscordSession interface so they can
 * be driven by a mock session in tests
 * Authors: Zachary Bower
 */

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"bracket-bot/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
	"go.mongodb.org/mongo-driver/mongo"
)

// helpMessageHandler handles the $help command
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Bracket Bot v1.0\n")
	res.WriteString("`$new`: Creates a fresh bracket for you from this year's field\n")
	res.WriteString("`$pick region round \"team\"`: Picks a team to win its game in that round. Rounds are 1-4; for the last two stages use `$pick ff \"team\"` and `$pick championship \"team\"`\n")
	res.WriteString("There is fuzzy matching on names, however you should try and have a close match for the best results. Names that contain two or more words need to be encased in \" (e.g. \"Michigan State\")\n")
	res.WriteString("`$autofill`: Completes your remaining games by advancing the better seed\n")
	res.WriteString("`$random`: Throws away your picks and completes the bracket with coin flips\n")
	res.WriteString("`$bracket`: Shows your current bracket\n")
	res.WriteString("`$check`: Scores your bracket against the results so far\n")
	res.WriteString("`$leaderboard`: Shows which users have the best brackets right now\n")
	res.WriteString("`$simulate [trials]`: Simulates the rest of the tournament and shows everyone's chances\n")
	res.WriteString("`$scores`: Shows today's live scoreboard\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// newBracketHandler handles the $new command
func (b *Bot) newBracketHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res := fmt.Sprintf("%s's bracket has been created. Use $pick to fill it in\n", user.Username)

	err := b.APIPtr.NewBracket(user)
	if err != nil {
		log.Println(err)
		res = fmt.Sprintf("An error occured creating %s's bracket: %s", user.Username, err)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// pickHandler handles the $pick command. Expected forms:
// $pick region round "team" for the regional rounds, and
// $pick ff|championship "team" for the last two stages
func (b *Bot) pickHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}

	// we use splitter here instead of go's built in splitter because now we can have team names that contain spaces e.g. "Michigan State" recognised as one team not two
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	args, _ := spaceSplitter.Split(message.Content)

	var region, round, team string
	switch len(args) {
	case 4:
		region, round, team = args[1], args[2], args[3]
	case 3:
		region, team = args[1], args[2]
	default:
		session.ChannelMessageSend(message.ChannelID, "Usage: $pick region round \"team\" (or $pick ff \"team\", $pick championship \"team\")")
		return
	}

	res := fmt.Sprintf("%s's bracket has been updated\n", user.Username)
	err := b.APIPtr.ApplyPick(user, region, round, team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			res = fmt.Sprintf("%s does not have a bracket stored. Use $new to create one\n", user.Username)
		} else {
			log.Println(err)
			res = fmt.Sprintf("An error occured updating %s's bracket: %s", user.Username, err)
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// autoFillHandler handles the $autofill command
func (b *Bot) autoFillHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res := fmt.Sprintf("%s's bracket has been completed with the better seeds\n", user.Username)

	err := b.APIPtr.AutoFill(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			res = fmt.Sprintf("%s does not have a bracket stored. Use $new to create one\n", user.Username)
		} else {
			log.Println(err)
			res = fmt.Sprintf("An error occured filling %s's bracket", user.Username)
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// randomFillHandler handles the $random command
func (b *Bot) randomFillHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res := fmt.Sprintf("%s's bracket has been randomised. Good luck\n", user.Username)

	err := b.APIPtr.RandomFill(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			res = fmt.Sprintf("%s does not have a bracket stored. Use $new to create one\n", user.Username)
		} else {
			log.Println(err)
			res = fmt.Sprintf("An error occured randomising %s's bracket", user.Username)
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// bracketHandler handles the $bracket command
func (b *Bot) bracketHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}

	bracket, err := b.APIPtr.GetBracket(user)
	if err != nil {
		res := fmt.Sprintf("An error occured getting %s's bracket", user.Username)
		if errors.Is(err, mongo.ErrNoDocuments) {
			res = fmt.Sprintf("%s does not have a bracket stored. Use $new to create one\n", user.Username)
		} else {
			log.Println(err)
		}
		session.ChannelMessageSend(message.ChannelID, res)
		return
	}
	session.ChannelMessageSend(message.ChannelID, renderBracket(user.Username, bracket))
}

// checkBracketHandler handles the $check command
func (b *Bot) checkBracketHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res, err := b.APIPtr.CheckBracket(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			res = fmt.Sprintf("%s does not have a bracket stored. Use $new to create one\n", user.Username)
		} else {
			log.Println(err)
			res = fmt.Sprintf("An error occured checking %s's bracket", user.Username)
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// leaderboardHandler handles the $leaderboard command
func (b *Bot) leaderboardHandler(session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.GetLeaderboard()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			res = "No leaderboard yet. It is generated when results come in\n"
		} else {
			log.Println(err)
			res = "An error occured getting the leaderboard"
		}
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// simulateHandler handles the $simulate command. An optional argument sets the
// trial count
func (b *Bot) simulateHandler(session DiscordSession, message *discordgo.MessageCreate) {
	trials := 0
	fields := strings.Fields(message.Content)
	if len(fields) > 1 {
		parsed, err := strconv.Atoi(fields[1])
		if err != nil || parsed < 1 || parsed > 100000 {
			session.ChannelMessageSend(message.ChannelID, "Trials must be a number between 1 and 100000")
			return
		}
		trials = parsed
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := b.APIPtr.RunMonteCarlo(ctx, trials); err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured running the simulation")
		return
	}
	res, err := b.APIPtr.GetAnalysis()
	if err != nil {
		log.Println(err)
		res = "An error occured getting the simulation results"
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// scoresHandler handles the $scores command
func (b *Bot) scoresHandler(session DiscordSession, message *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := b.APIPtr.GetScores(ctx)
	if err != nil {
		log.Println(err)
		res = "An error occured getting the scoreboard"
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// renderBracket generates a compact text rendering of a bracket, round by
// round per region
func renderBracket(username string, bracket *shared.Bracket) string {
	var res strings.Builder
	res.WriteString(fmt.Sprintf("%s's bracket:\n", username))

	teamLabel := func(team *shared.Team) string {
		if team == nil {
			return "TBD"
		}
		return fmt.Sprintf("(%d) %s", team.Seed, team.Name)
	}

	for _, region := range shared.RegionNames {
		rounds, err := bracket.Region(region)
		if err != nil {
			continue
		}
		res.WriteString(fmt.Sprintf("**%s**\n", region))
		for r := 1; r < len(rounds); r++ {
			names := make([]string, 0, len(rounds[r]))
			for _, team := range rounds[r] {
				names = append(names, teamLabel(team))
			}
			res.WriteString(fmt.Sprintf("- round %d: %s\n", r+1, strings.Join(names, ", ")))
		}
	}

	ffNames := make([]string, 0, len(bracket.FinalFour))
	for _, team := range bracket.FinalFour {
		ffNames = append(ffNames, teamLabel(team))
	}
	res.WriteString(fmt.Sprintf("**final four**: %s\n", strings.Join(ffNames, ", ")))

	champNames := make([]string, 0, len(bracket.Championship))
	for _, team := range bracket.Championship {
		champNames = append(champNames, teamLabel(team))
	}
	res.WriteString(fmt.Sprintf("**championship**: %s\n", strings.Join(champNames, ", ")))
	res.WriteString(fmt.Sprintf("**champion**: %s\n", teamLabel(bracket.Champion)))
	return res.String()
}
