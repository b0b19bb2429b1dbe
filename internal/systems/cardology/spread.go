package cardology

import "fmt"

// Quadrate applies one round of the spread permutation. The deck is dealt
// into thirteen piles and the piles are stacked in order; it is then dealt
// into thirteen piles again and each pile is picked up last card first.
func Quadrate(deck []Card) ([]Card, error) {
	if len(deck) != 52 {
		return nil, fmt.Errorf("%w: got %d", ErrDeckSize, len(deck))
	}
	return deal(deal(deck, 13, false), 13, true), nil
}

func deal(deck []Card, piles int, reverse bool) []Card {
	stacks := make([][]Card, piles)
	for i, c := range deck {
		stacks[i%piles] = append(stacks[i%piles], c)
	}
	out := make([]Card, 0, len(deck))
	for _, s := range stacks {
		if reverse {
			for i := len(s) - 1; i >= 0; i-- {
				out = append(out, s[i])
			}
			continue
		}
		out = append(out, s...)
	}
	return out
}

func mustQuadrate(deck []Card, rounds int) []Card {
	out := deck
	for i := 0; i < rounds; i++ {
		next, err := Quadrate(out)
		if err != nil {
			panic(err)
		}
		out = next
	}
	return out
}

var lifeSpread = mustQuadrate(NaturalDeck(), 1)

// LifeSpread returns a copy of the life spread, the natural deck quadrated once.
func LifeSpread() []Card {
	return append([]Card(nil), lifeSpread...)
}

// YearlySpread returns the spread for a given age: the natural deck
// quadrated age+1 times. Negative ages are treated as zero.
func YearlySpread(age int) []Card {
	if age < 0 {
		age = 0
	}
	return mustQuadrate(NaturalDeck(), age+1)
}

func position(spread []Card, c Card) int {
	for i, s := range spread {
		if s == c {
			return i
		}
	}
	return -1
}

// KarmaCards returns the two karma cards of a birth card: the card that
// occupies the birth card's natural slot in the life spread, and the card
// whose natural slot the birth card occupies. Cards that stay in their own
// slot, and the Joker, have none.
func KarmaCards(birth Card) []Card {
	if birth.IsJoker() {
		return nil
	}
	home := birth.Index() - 1
	pos := position(lifeSpread, birth)
	if pos < 0 || pos == home {
		return nil
	}
	return []Card{lifeSpread[home], CardAt(pos + 1)}
}

// PeriodCards returns the seven cards following the birth card in the
// spread for age, wrapping around the end of the deck. The Joker has none.
func PeriodCards(birth Card, age int) []Card {
	if birth.IsJoker() {
		return nil
	}
	spread := YearlySpread(age)
	pos := position(spread, birth)
	if pos < 0 {
		return nil
	}
	out := make([]Card, len(PeriodPlanets))
	for i := range out {
		out[i] = spread[(pos+1+i)%len(spread)]
	}
	return out
}
