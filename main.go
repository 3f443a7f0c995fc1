/* main.go
 * The "main" method for running the bot. For details about the bot see `readme.md`
 * Usage: go run main.go -tournament="<tournament>" -addr="<addr>"
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"bracket-bot/api/api"
	"bracket-bot/bot"
	"bracket-bot/web"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()

	//Flags
	tournamentPtr := flag.String("tournament", "march-madness-2026", "Tournament name, e.g. march-madness-2026")
	dbNamePtr := flag.String("db", "bracketbot", "Mongo database name")
	addrPtr := flag.String("addr", ":8080", "Address for the webhook HTTP server")
	cachePtr := flag.String("scoresCache", "scores_cache.json", "Path to the scoreboard cache file")
	testPtr := flag.String("test", "false", "Use main or test bot: takes true or false as argument")

	flag.Parse()

	if err != nil {
		log.Fatal("Error loading .env file")
	}

	useTestBot, err := convertStrToBool(*testPtr)
	if err != nil {
		fmt.Println("Invalid \"test\" flag. Should be true or false")
		return
	}
	var discordToken string
	if useTestBot {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	} else {
		discordToken = os.Getenv("DISCORD_PROD_TOKEN")
	}

	apiPtr, err := api.NewAPI(*dbNamePtr, os.Getenv("MONGO_PROD_URI"), *tournamentPtr, *cachePtr)
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err = apiPtr.Store.GetClient().Disconnect(context.TODO()); err != nil {
			panic(err)
		}
	}()

	// The chalk bracket is derived once from the stored truth field and reused
	// by scoring and simulation
	if err := apiPtr.EnsureChalkBracket(); err != nil {
		log.Println("could not ensure chalk bracket:", err)
	}

	// Webhook server for truth updates plus read-only leaderboard and analysis endpoints
	go func() {
		if err := web.Start(web.Config{Addr: *addrPtr, API: apiPtr}); err != nil {
			log.Fatalf("web server failed: %v", err)
		}
	}()

	discordBot, err := bot.NewBot(discordToken, apiPtr)
	if err != nil {
		log.Fatalf("failed to initialize bot: %v", err)
	}
	if err := discordBot.Run(); err != nil {
		log.Fatalf("bot exited with error: %v", err)
	}
}
