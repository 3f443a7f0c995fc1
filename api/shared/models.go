/* models.go
 * This file contains the structs and helper functions that are shared between sub packages: the Team and
 * Bracket value types, the fixed region layout of the tournament, and the derived winners markers.
 * Authors: Zachary Bower
 */

package shared

import "fmt"

type User struct {
	UserID   string
	Username string
}

// RegionNames lists the four regions in Final Four slot order. The index of a
// region in this slice is its Final Four slot index.
var RegionNames = []string{"midwest", "west", "south", "east"}

// seedOrder is the standard first round bracket layout: slots 2g and 2g+1 hold
// the two teams of game g, pairing 1v16, 8v9, 5v12, 4v13, 6v11, 3v14, 7v10, 2v15.
var seedOrder = [16]int{1, 16, 8, 9, 5, 12, 4, 13, 6, 11, 3, 14, 7, 10, 2, 15}

// SeedOrder returns the seed occupying each first round slot.
func SeedOrder() [16]int {
	return seedOrder
}

// RoundSlots holds the number of team slots per region round (rounds 0-3).
var RoundSlots = [4]int{16, 8, 4, 2}

const (
	// Sentinel round indices accepted by ApplyPick for the cross-region stages.
	RoundFinalFour    = 4
	RoundChampionship = 5

	RegionFinalFour    = "finalFour"
	RegionChampionship = "championship"
)

// FinalFourIndex maps a region name to its Final Four slot, or -1 for an
// unknown region.
func FinalFourIndex(region string) int {
	for i, name := range RegionNames {
		if name == region {
			return i
		}
	}
	return -1
}

// ChampionshipIndex maps a Final Four slot to the championship slot its winner
// occupies: slots 0 and 1 feed championship slot 0, slots 2 and 3 feed slot 1.
func ChampionshipIndex(finalFourIndex int) int {
	return finalFourIndex / 2
}

// Team represents a tournament team. Name and seed identify a team; two teams
// are the same team iff both match, regardless of where the values came from.
// The remaining fields are scoring annotations attached by the scoring engine
// and are read-optional on the wire.
type Team struct {
	Name   string `json:"name" bson:"name"`
	Seed   int    `json:"seed" bson:"seed"`
	Abbrev string `json:"abbrev,omitempty" bson:"abbrev,omitempty"`

	Classes      string   `json:"classes,omitempty" bson:"classes,omitempty"`
	Correct      *bool    `json:"correct,omitempty" bson:"correct,omitempty"`
	Bonus        *int     `json:"bonus,omitempty" bson:"bonus,omitempty"`
	IsEliminated bool     `json:"isEliminated,omitempty" bson:"isEliminated,omitempty"`
	TruthTeam    *TeamRef `json:"truthTeam,omitempty" bson:"truthTeam,omitempty"`
}

// TeamRef is a bare reference to a team, used to report which team actually
// occupies a slot when a pick is marked incorrect.
type TeamRef struct {
	Name   string `json:"name" bson:"name"`
	Seed   int    `json:"seed" bson:"seed"`
	Abbrev string `json:"abbrev,omitempty" bson:"abbrev,omitempty"`
}

// Equals reports whether two teams are the same team. Comparison is by value
// (name and seed), never by pointer identity, because deep copies must still
// compare equal.
func (t *Team) Equals(other *Team) bool {
	if t == nil || other == nil {
		return false
	}
	return t.Name == other.Name && t.Seed == other.Seed
}

// Copy returns a fresh copy of the team so that no two bracket slots alias the
// same Team value.
func (t *Team) Copy() *Team {
	if t == nil {
		return nil
	}
	c := *t
	if t.Correct != nil {
		v := *t.Correct
		c.Correct = &v
	}
	if t.Bonus != nil {
		v := *t.Bonus
		c.Bonus = &v
	}
	if t.TruthTeam != nil {
		r := *t.TruthTeam
		c.TruthTeam = &r
	}
	return &c
}

// Ref returns a TeamRef for the team.
func (t *Team) Ref() *TeamRef {
	if t == nil {
		return nil
	}
	return &TeamRef{Name: t.Name, Seed: t.Seed, Abbrev: t.Abbrev}
}

// Winners holds the derived winner markers used for presentation highlighting.
// It records, for every decided game, the index of the slot whose occupant
// advanced. It is never authoritative and can always be recomputed from the
// bracket slots.
type Winners struct {
	Regions      map[string][][]int `json:"regions" bson:"regions"`
	FinalFour    []int              `json:"finalFour" bson:"finalFour"`
	Championship []int              `json:"championship" bson:"championship"`
}

// Bracket is the 63 game elimination tree: four regions of four rounds each,
// the Final Four, the championship game and the champion. Region round r has
// 16>>r slots; a nil slot means the game feeding it has not been decided.
type Bracket struct {
	Midwest      [][]*Team `json:"midwest" bson:"midwest"`
	West         [][]*Team `json:"west" bson:"west"`
	South        [][]*Team `json:"south" bson:"south"`
	East         [][]*Team `json:"east" bson:"east"`
	FinalFour    []*Team   `json:"finalFour" bson:"finalFour"`
	Championship []*Team   `json:"championship" bson:"championship"`
	Champion     *Team     `json:"champion" bson:"champion"`
	Winners      *Winners  `json:"winners,omitempty" bson:"winners,omitempty"`
}

// Region returns the rounds of the named region. The returned slice shares its
// backing with the bracket, so slot assignments through it mutate the bracket.
func (b *Bracket) Region(name string) ([][]*Team, error) {
	switch name {
	case "midwest":
		return b.Midwest, nil
	case "west":
		return b.West, nil
	case "south":
		return b.South, nil
	case "east":
		return b.East, nil
	}
	return nil, &InvalidBracketStateError{Op: "region", Detail: fmt.Sprintf("unknown region %q", name)}
}

// Validate checks that the bracket has the fixed tournament shape: four rounds
// of 16/8/4/2 slots per region, four Final Four slots and two championship
// slots. Slot contents are not checked.
func (b *Bracket) Validate() error {
	if b == nil {
		return &InvalidBracketStateError{Op: "validate", Detail: "bracket is nil"}
	}
	for _, region := range RegionNames {
		rounds, err := b.Region(region)
		if err != nil {
			return err
		}
		if len(rounds) != len(RoundSlots) {
			return &InvalidBracketStateError{Op: "validate", Detail: fmt.Sprintf("region %s has %d rounds, want %d", region, len(rounds), len(RoundSlots))}
		}
		for r, want := range RoundSlots {
			if len(rounds[r]) != want {
				return &InvalidBracketStateError{Op: "validate", Detail: fmt.Sprintf("region %s round %d has %d slots, want %d", region, r, len(rounds[r]), want)}
			}
		}
	}
	if len(b.FinalFour) != 4 {
		return &InvalidBracketStateError{Op: "validate", Detail: fmt.Sprintf("finalFour has %d slots, want 4", len(b.FinalFour))}
	}
	if len(b.Championship) != 2 {
		return &InvalidBracketStateError{Op: "validate", Detail: fmt.Sprintf("championship has %d slots, want 2", len(b.Championship))}
	}
	return nil
}

// Clone returns a deep copy of the bracket. Engine operations never mutate
// their input; they clone, mutate the clone and return it.
func (b *Bracket) Clone() *Bracket {
	if b == nil {
		return nil
	}
	cloneRounds := func(rounds [][]*Team) [][]*Team {
		out := make([][]*Team, len(rounds))
		for r, slots := range rounds {
			out[r] = make([]*Team, len(slots))
			for i, t := range slots {
				out[r][i] = t.Copy()
			}
		}
		return out
	}
	cloneSlots := func(slots []*Team) []*Team {
		out := make([]*Team, len(slots))
		for i, t := range slots {
			out[i] = t.Copy()
		}
		return out
	}
	c := &Bracket{
		Midwest:      cloneRounds(b.Midwest),
		West:         cloneRounds(b.West),
		South:        cloneRounds(b.South),
		East:         cloneRounds(b.East),
		FinalFour:    cloneSlots(b.FinalFour),
		Championship: cloneSlots(b.Championship),
		Champion:     b.Champion.Copy(),
	}
	if b.Winners != nil {
		w := &Winners{
			Regions:      make(map[string][][]int, len(b.Winners.Regions)),
			FinalFour:    append([]int(nil), b.Winners.FinalFour...),
			Championship: append([]int(nil), b.Winners.Championship...),
		}
		for region, rounds := range b.Winners.Regions {
			cp := make([][]int, len(rounds))
			for r, idxs := range rounds {
				cp[r] = append([]int(nil), idxs...)
			}
			w.Regions[region] = cp
		}
		c.Winners = w
	}
	return c
}

// FirstRoundTeams extracts the round 0 field of the bracket, keyed by region.
// Used to seed a fresh user bracket from the truth bracket's field.
func (b *Bracket) FirstRoundTeams() (map[string][]Team, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	out := make(map[string][]Team, len(RegionNames))
	for _, region := range RegionNames {
		rounds, _ := b.Region(region)
		teams := make([]Team, 0, len(rounds[0]))
		for i, t := range rounds[0] {
			if t == nil {
				return nil, &InvalidBracketStateError{Op: "firstRoundTeams", Detail: fmt.Sprintf("region %s round 0 slot %d is empty", region, i)}
			}
			teams = append(teams, Team{Name: t.Name, Seed: t.Seed, Abbrev: t.Abbrev})
		}
		out[region] = teams
	}
	return out, nil
}
