/* input_processing.go
 * Contains the logic for processing user input: normalizing region and round references and resolving team
 * names against the bracket with fuzzy matching
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"strconv"
	"strings"

	"bracket-bot/api/shared"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// PickLocation is a fully resolved pick address, ready for ApplyPick
type PickLocation struct {
	Region   string
	RoundIdx int
	GameIdx  int
	TeamIdx  int
}

// ResolveTeamName matches a user supplied team name against the list of valid
// names using fuzzy matching. An exact (case insensitive) match always wins;
// otherwise the best ranked fuzzy match is used.
// Preconditions: receives the user's input and a slice of valid team names
// Postconditions: returns the canonical team name, or an error when nothing matches
func ResolveTeamName(input string, validTeams []string) (string, error) {
	lowerInput := strings.ToLower(input)

	lookup := make(map[string]string, len(validTeams))
	validLower := make([]string, 0, len(validTeams))
	for _, name := range validTeams {
		lower := strings.ToLower(name)
		lookup[lower] = name
		validLower = append(validLower, lower)
	}

	results := fuzzy.RankFind(lowerInput, validLower)
	if len(results) == 0 {
		return "", fmt.Errorf("no team matching %q", input)
	}
	// If there are multiple matches, check to see if theres an exact match with the input
	best := ""
	for i := range results {
		if results[i].Target == lowerInput {
			best = results[i].Target
		}
	}
	if best == "" {
		best = results[0].Target
	}
	return lookup[best], nil
}

// normalizeRegion maps user input to a canonical region name, accepting the
// four region names plus the finalfour/championship stages
func normalizeRegion(input string) (string, error) {
	cleaned := strings.ToLower(strings.TrimSpace(input))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	switch cleaned {
	case "finalfour", "ff", "semis", "semifinals":
		return shared.RegionFinalFour, nil
	case "championship", "final", "title":
		return shared.RegionChampionship, nil
	}
	for _, region := range shared.RegionNames {
		if cleaned == region {
			return region, nil
		}
	}
	// Allow unambiguous prefixes like "mid" or "w"
	match := ""
	for _, region := range shared.RegionNames {
		if strings.HasPrefix(region, cleaned) && cleaned != "" {
			if match != "" {
				return "", fmt.Errorf("ambiguous region %q", input)
			}
			match = region
		}
	}
	if match == "" {
		return "", fmt.Errorf("unknown region %q", input)
	}
	return match, nil
}

// ResolvePick turns (region, round, team name) user input into a pick address.
// The named team must currently occupy a slot of the given round; picking it
// means it wins that round's game.
// Preconditions: b is a well formed bracket; roundInput is 1-4 for regional rounds
// Postconditions: Returns the resolved PickLocation, or an error describing the bad input
func ResolvePick(b *shared.Bracket, regionInput, roundInput, teamInput string) (PickLocation, error) {
	if err := b.Validate(); err != nil {
		return PickLocation{}, err
	}

	region, err := normalizeRegion(regionInput)
	if err != nil {
		return PickLocation{}, err
	}

	var roundIdx int
	var slots []*shared.Team
	switch region {
	case shared.RegionFinalFour:
		roundIdx = shared.RoundFinalFour
		slots = b.FinalFour
	case shared.RegionChampionship:
		roundIdx = shared.RoundChampionship
		slots = b.Championship
	default:
		round, err := strconv.Atoi(strings.TrimSpace(roundInput))
		if err != nil || round < 1 || round > 4 {
			return PickLocation{}, fmt.Errorf("round must be 1-4, got %q", roundInput)
		}
		roundIdx = round - 1
		rounds, _ := b.Region(region)
		slots = rounds[roundIdx]
	}

	var names []string
	for _, team := range slots {
		if team != nil {
			names = append(names, team.Name)
		}
	}
	if len(names) == 0 {
		return PickLocation{}, fmt.Errorf("no teams have reached that round yet")
	}

	name, err := ResolveTeamName(teamInput, names)
	if err != nil {
		return PickLocation{}, err
	}

	for i, team := range slots {
		if team != nil && team.Name == name {
			loc := PickLocation{Region: region, RoundIdx: roundIdx, GameIdx: i / 2, TeamIdx: i % 2}
			if region == shared.RegionChampionship {
				// The championship pick addresses the slot directly
				loc.GameIdx = i
				loc.TeamIdx = 0
			}
			return loc, nil
		}
	}
	return PickLocation{}, fmt.Errorf("team %q not found in that round", teamInput)
}
