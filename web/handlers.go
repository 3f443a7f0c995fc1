package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"bracket-bot/api/shared"
)

// TruthEvent is the payload of the truth webhook. The sender pushes the
// current state of the real tournament bracket whenever a game finishes
type TruthEvent struct {
	Tournament string          `json:"tournament"`
	Bracket    *shared.Bracket `json:"bracket"`
}

// TruthWebhookHandler HTTP endpoint that receives the updated truth bracket, used to kick off
// updating stored data and recalculating user scores
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Stores the new truth bracket and kicks off the leaderboard and simulation refresh
func (s *Server) TruthWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var event TruthEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		log.Println("failed to decode webhook:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if event.Bracket == nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := s.api.SetTruthBracket(event.Bracket); err != nil {
		log.Println("SetTruthBracket failed:", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	log.Printf("truth update tournament=%s\n", event.Tournament)

	// Kick async pipeline so the webhook sender is not kept waiting
	go func() {
		if err := s.api.EnsureChalkBracket(); err != nil {
			log.Println("EnsureChalkBracket failed:", err)
		}
		if err := s.api.GenerateLeaderboard(); err != nil {
			log.Println("GenerateLeaderboard failed:", err)
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := s.api.RunMonteCarlo(ctx, 0); err != nil {
			log.Println("RunMonteCarlo failed:", err)
		}
	}()

	w.WriteHeader(http.StatusOK)
}

// LeaderboardHandler HTTP endpoint that returns the stored leaderboard as JSON
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Writes the leaderboard entries, or 404 when none has been generated yet
func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	entries, err := s.api.Store.FetchLeaderboardFromDB()
	if err != nil {
		log.Println("failed to fetch leaderboard:", err)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		log.Println("failed to encode leaderboard:", err)
	}
}

// AnalysisHandler HTTP endpoint that returns the stored Monte Carlo analysis as JSON
// Preconditions: HTTP server has been started, receives HTTP ResponseWriter and Http Request
// Postconditions: Writes the analysis result, or 404 when none has been generated yet
func (s *Server) AnalysisHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := s.api.Store.FetchAnalysisFromDB()
	if err != nil {
		log.Println("failed to fetch analysis:", err)
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		log.Println("failed to encode analysis:", err)
	}
}
