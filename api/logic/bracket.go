/* bracket.go
 * Contains the bracket state engine: initialization, pick application with cascading resets, chalk and random
 * completion, and recomputation of the derived winners markers. All operations are functional: the input
 * bracket is never mutated, a new bracket is returned. A failed operation leaves the caller's bracket in its
 * last known good state.
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"math/rand"

	"bracket-bot/api/shared"
)

// InitializeBracket builds a new bracket with round 0 filled per the standard
// seed pairing order (1v16, 8v9, 5v12, 4v13, 6v11, 3v14, 7v10, 2v15) and every
// other slot empty. Deterministic, no randomness.
// Preconditions: teamsByRegion holds exactly 16 teams per region with unique seeds 1-16
// Postconditions: Returns the initialized bracket, or an InvalidBracketStateError
func InitializeBracket(teamsByRegion map[string][]shared.Team) (*shared.Bracket, error) {
	b := &shared.Bracket{
		FinalFour:    make([]*shared.Team, 4),
		Championship: make([]*shared.Team, 2),
	}
	for _, region := range shared.RegionNames {
		teams, ok := teamsByRegion[region]
		if !ok {
			return nil, &shared.InvalidBracketStateError{Op: "initialize", Detail: fmt.Sprintf("region %s missing from team list", region)}
		}
		if len(teams) != 16 {
			return nil, &shared.InvalidBracketStateError{Op: "initialize", Detail: fmt.Sprintf("region %s has %d teams, want 16", region, len(teams))}
		}

		bySeed := make(map[int]shared.Team, 16)
		for _, t := range teams {
			if t.Seed < 1 || t.Seed > 16 {
				return nil, &shared.InvalidBracketStateError{Op: "initialize", Detail: fmt.Sprintf("region %s team %q has seed %d, want 1-16", region, t.Name, t.Seed)}
			}
			if _, dup := bySeed[t.Seed]; dup {
				return nil, &shared.InvalidBracketStateError{Op: "initialize", Detail: fmt.Sprintf("region %s has duplicate seed %d", region, t.Seed)}
			}
			bySeed[t.Seed] = t
		}

		rounds := make([][]*shared.Team, len(shared.RoundSlots))
		for r, slots := range shared.RoundSlots {
			rounds[r] = make([]*shared.Team, slots)
		}
		for slot, seed := range shared.SeedOrder() {
			t := bySeed[seed]
			rounds[0][slot] = &shared.Team{Name: t.Name, Seed: t.Seed, Abbrev: t.Abbrev}
		}

		if err := setRegion(b, region, rounds); err != nil {
			return nil, err
		}
	}
	b.Winners = ComputeWinners(b)
	return b, nil
}

func setRegion(b *shared.Bracket, name string, rounds [][]*shared.Team) error {
	switch name {
	case "midwest":
		b.Midwest = rounds
	case "west":
		b.West = rounds
	case "south":
		b.South = rounds
	case "east":
		b.East = rounds
	default:
		return &shared.InvalidBracketStateError{Op: "region", Detail: fmt.Sprintf("unknown region %q", name)}
	}
	return nil
}

// ApplyPick selects the team at the given game/side and promotes it to the
// next slot, cascading away any team it displaces. For the regional rounds
// (0-3) a repeat selection is a no-op; for the Final Four and Championship
// sentinel rounds a repeat selection toggles the destination clear instead.
// Preconditions: b is a well formed bracket; region/roundIdx/gameIdx/teamIdx address a slot
// Postconditions: Returns a new bracket with the pick applied and winners recomputed,
// or the original bracket unchanged plus an InvalidBracketStateError
func ApplyPick(b *shared.Bracket, region string, roundIdx, gameIdx, teamIdx int) (*shared.Bracket, error) {
	if err := b.Validate(); err != nil {
		return b, err
	}

	switch {
	case roundIdx >= 0 && roundIdx <= 3:
		return applyRegionPick(b, region, roundIdx, gameIdx, teamIdx)
	case roundIdx == shared.RoundFinalFour:
		return applyFinalFourPick(b, region, gameIdx, teamIdx)
	case roundIdx == shared.RoundChampionship:
		return applyChampionshipPick(b, region, gameIdx)
	}
	return b, &shared.InvalidBracketStateError{Op: "applyPick", Detail: fmt.Sprintf("round index %d out of range", roundIdx)}
}

func applyRegionPick(b *shared.Bracket, region string, roundIdx, gameIdx, teamIdx int) (*shared.Bracket, error) {
	if _, err := b.Region(region); err != nil {
		return b, err
	}
	gamesInRound := shared.RoundSlots[roundIdx] / 2
	if gameIdx < 0 || gameIdx >= gamesInRound {
		return b, &shared.InvalidBracketStateError{Op: "applyPick", Detail: fmt.Sprintf("game index %d out of range for round %d", gameIdx, roundIdx)}
	}
	if teamIdx != 0 && teamIdx != 1 {
		return b, &shared.InvalidBracketStateError{Op: "applyPick", Detail: fmt.Sprintf("team index %d out of range", teamIdx)}
	}

	next := b.Clone()
	rounds, _ := next.Region(region)

	selected := rounds[roundIdx][gameIdx*2+teamIdx]
	if selected == nil {
		// Nothing to promote yet; the feeding game is undecided.
		return next, nil
	}

	if roundIdx < 3 {
		// The winner of game g occupies slot g of the next round.
		nextRound := roundIdx + 1
		nextSlot := gameIdx
		occupant := rounds[nextRound][nextSlot]
		if occupant.Equals(selected) {
			return next, nil
		}
		rounds[nextRound][nextSlot] = selected.Copy()
		if occupant != nil {
			resetTeamCompletely(next, region, occupant, nextRound)
		}
	} else {
		// Regional final: the destination is the region's Final Four slot.
		ffIndex := shared.FinalFourIndex(region)
		occupant := next.FinalFour[ffIndex]
		if occupant.Equals(selected) {
			return next, nil
		}
		next.FinalFour[ffIndex] = selected.Copy()
		if occupant != nil {
			champIdx := shared.ChampionshipIndex(ffIndex)
			if next.Championship[champIdx].Equals(occupant) {
				next.Championship[champIdx] = nil
				if next.Champion.Equals(occupant) {
					next.Champion = nil
				}
			}
		}
	}

	next.Winners = ComputeWinners(next)
	return next, nil
}

// applyFinalFourPick handles a semifinal selection. gameIdx is the semifinal
// (0 or 1), teamIdx the side, so the source Final Four slot is gameIdx*2+teamIdx
// and the destination championship slot is gameIdx. Selecting the team already
// advanced toggles the slot clear.
func applyFinalFourPick(b *shared.Bracket, region string, gameIdx, teamIdx int) (*shared.Bracket, error) {
	if region != shared.RegionFinalFour {
		return b, &shared.InvalidBracketStateError{Op: "applyPick", Detail: fmt.Sprintf("round %d requires region %q, got %q", shared.RoundFinalFour, shared.RegionFinalFour, region)}
	}
	if gameIdx != 0 && gameIdx != 1 {
		return b, &shared.InvalidBracketStateError{Op: "applyPick", Detail: fmt.Sprintf("semifinal index %d out of range", gameIdx)}
	}
	if teamIdx != 0 && teamIdx != 1 {
		return b, &shared.InvalidBracketStateError{Op: "applyPick", Detail: fmt.Sprintf("team index %d out of range", teamIdx)}
	}

	next := b.Clone()
	ffIndex := gameIdx*2 + teamIdx
	selected := next.FinalFour[ffIndex]
	if selected == nil {
		return next, nil
	}

	champIdx := gameIdx
	occupant := next.Championship[champIdx]
	if occupant.Equals(selected) {
		// Toggle: deselect the advanced team.
		next.Championship[champIdx] = nil
		if next.Champion.Equals(occupant) {
			next.Champion = nil
		}
	} else {
		next.Championship[champIdx] = selected.Copy()
		if occupant != nil && next.Champion.Equals(occupant) {
			next.Champion = nil
		}
	}

	next.Winners = ComputeWinners(next)
	return next, nil
}

// applyChampionshipPick handles the title selection. gameIdx doubles as the
// championship slot index. Selecting the current champion toggles it clear.
func applyChampionshipPick(b *shared.Bracket, region string, gameIdx int) (*shared.Bracket, error) {
	if region != shared.RegionChampionship {
		return b, &shared.InvalidBracketStateError{Op: "applyPick", Detail: fmt.Sprintf("round %d requires region %q, got %q", shared.RoundChampionship, shared.RegionChampionship, region)}
	}
	if gameIdx != 0 && gameIdx != 1 {
		return b, &shared.InvalidBracketStateError{Op: "applyPick", Detail: fmt.Sprintf("championship slot %d out of range", gameIdx)}
	}

	next := b.Clone()
	selected := next.Championship[gameIdx]
	if selected == nil {
		return next, nil
	}

	if next.Champion.Equals(selected) {
		next.Champion = nil
	} else {
		next.Champion = selected.Copy()
	}

	next.Winners = ComputeWinners(next)
	return next, nil
}

// resetTeamCompletely clears every slot holding the given team (matched by
// name and seed) from fromRound through the regional final, then follows the
// dependency chain outward: the region's Final Four slot, the linked
// championship slot, and finally the champion. The bracket is mutated in
// place; callers pass a clone.
func resetTeamCompletely(b *shared.Bracket, region string, team *shared.Team, fromRound int) {
	if team == nil {
		return
	}
	rounds, err := b.Region(region)
	if err != nil {
		return
	}

	for r := fromRound; r < len(rounds); r++ {
		for i, t := range rounds[r] {
			if t.Equals(team) {
				rounds[r][i] = nil
			}
		}
	}

	ffIndex := shared.FinalFourIndex(region)
	if !b.FinalFour[ffIndex].Equals(team) {
		return
	}
	b.FinalFour[ffIndex] = nil

	champIdx := shared.ChampionshipIndex(ffIndex)
	if !b.Championship[champIdx].Equals(team) {
		return
	}
	b.Championship[champIdx] = nil

	if b.Champion.Equals(team) {
		b.Champion = nil
	}
}

// AutoFillBracket completes every undecided game by advancing the better
// (lower numbered) seed, breaking equal seeds with a coin flip. Decided slots
// are never touched, so re-running on a full bracket is a no-op.
// Preconditions: b is a well formed bracket, rng is non nil
// Postconditions: Returns a new fully completed bracket with winners recomputed
func AutoFillBracket(b *shared.Bracket, rng *rand.Rand) (*shared.Bracket, error) {
	return fillBracket(b, func(a, c *shared.Team) *shared.Team {
		if a.Seed < c.Seed {
			return a
		}
		if c.Seed < a.Seed {
			return c
		}
		if rng.Float64() < 0.5 {
			return a
		}
		return c
	})
}

// RandomFillBracket clears every pick (rounds 1 onward) and completes the
// bracket with an unweighted coin flip per game, ignoring seeds. This is the
// stress-test/demo completion; Monte Carlo uses the seed weighted generator in
// the simulation package instead.
func RandomFillBracket(b *shared.Bracket, rng *rand.Rand) (*shared.Bracket, error) {
	if err := b.Validate(); err != nil {
		return b, err
	}
	cleared := b.Clone()
	for _, region := range shared.RegionNames {
		rounds, _ := cleared.Region(region)
		for r := 1; r < len(rounds); r++ {
			for i := range rounds[r] {
				rounds[r][i] = nil
			}
		}
	}
	for i := range cleared.FinalFour {
		cleared.FinalFour[i] = nil
	}
	for i := range cleared.Championship {
		cleared.Championship[i] = nil
	}
	cleared.Champion = nil

	return fillBracket(cleared, func(a, c *shared.Team) *shared.Team {
		if rng.Float64() < 0.5 {
			return a
		}
		return c
	})
}

// CompleteBracket fills every empty slot in dependency order, calling choose to
// decide each game where both participants are known. A game with a single
// known participant advances it unopposed without consulting choose. Decided
// slots are never touched.
// Preconditions: b is a well formed bracket
// Postconditions: Returns a new fully completed bracket with winners recomputed
func CompleteBracket(b *shared.Bracket, choose func(a, c *shared.Team) *shared.Team) (*shared.Bracket, error) {
	return fillBracket(b, choose)
}

// fillBracket fills every empty slot in dependency order: region rounds 1-3,
// Final Four, championship, champion. choose picks the winner of a game given
// both participants; if only one participant is known it advances unopposed.
func fillBracket(b *shared.Bracket, choose func(a, c *shared.Team) *shared.Team) (*shared.Bracket, error) {
	if err := b.Validate(); err != nil {
		return b, err
	}
	next := b.Clone()

	decide := func(a, c *shared.Team) *shared.Team {
		if a == nil && c == nil {
			return nil
		}
		if a == nil {
			return c.Copy()
		}
		if c == nil {
			return a.Copy()
		}
		return choose(a, c).Copy()
	}

	for _, region := range shared.RegionNames {
		rounds, _ := next.Region(region)
		for r := 1; r < len(rounds); r++ {
			for slot := range rounds[r] {
				if rounds[r][slot] != nil {
					continue
				}
				rounds[r][slot] = decide(rounds[r-1][slot*2], rounds[r-1][slot*2+1])
			}
		}
		ffIndex := shared.FinalFourIndex(region)
		if next.FinalFour[ffIndex] == nil {
			final := rounds[len(rounds)-1]
			next.FinalFour[ffIndex] = decide(final[0], final[1])
		}
	}

	for c := 0; c < 2; c++ {
		if next.Championship[c] == nil {
			next.Championship[c] = decide(next.FinalFour[c*2], next.FinalFour[c*2+1])
		}
	}
	if next.Champion == nil {
		next.Champion = decide(next.Championship[0], next.Championship[1])
	}

	next.Winners = ComputeWinners(next)
	return next, nil
}

// ComputeWinners derives the winner markers for the whole bracket: for every
// decided game, the index of the source slot whose occupant equals the
// destination slot's occupant. Pure; tolerates partially filled brackets (an
// empty destination simply yields no marker).
func ComputeWinners(b *shared.Bracket) *shared.Winners {
	w := &shared.Winners{
		Regions:      make(map[string][][]int, len(shared.RegionNames)),
		FinalFour:    []int{},
		Championship: []int{},
	}

	for _, region := range shared.RegionNames {
		rounds, err := b.Region(region)
		if err != nil {
			continue
		}
		marks := make([][]int, len(rounds))
		for r := range rounds {
			marks[r] = []int{}
		}
		for r := 0; r < len(rounds)-1; r++ {
			for slot, t := range rounds[r] {
				if t != nil && rounds[r+1][slot/2].Equals(t) {
					marks[r] = append(marks[r], slot)
				}
			}
		}
		// Regional final winners are recorded against the Final Four slot.
		ffIndex := shared.FinalFourIndex(region)
		if ffIndex >= 0 && ffIndex < len(b.FinalFour) {
			final := rounds[len(rounds)-1]
			for slot, t := range final {
				if t != nil && b.FinalFour[ffIndex].Equals(t) {
					marks[len(rounds)-1] = append(marks[len(rounds)-1], slot)
				}
			}
		}
		w.Regions[region] = marks
	}

	for i, t := range b.FinalFour {
		champIdx := shared.ChampionshipIndex(i)
		if t != nil && champIdx < len(b.Championship) && b.Championship[champIdx].Equals(t) {
			w.FinalFour = append(w.FinalFour, i)
		}
	}
	for i, t := range b.Championship {
		if t != nil && b.Champion.Equals(t) {
			w.Championship = append(w.Championship, i)
		}
	}
	return w
}
