// Package cardology implements the calendrical-card cycle: every birth date
// maps to one of 52 playing cards (or the Joker), and every year of life is
// split into seven 52-day planetary periods, each ruled by a card drawn from
// that year's spread.
package cardology

import (
	"fmt"
	"strconv"

	"cosmic/internal/types"
)

// Suit is a card suit. The Joker has no suit.
type Suit string

const (
	Hearts   Suit = "Hearts"
	Clubs    Suit = "Clubs"
	Diamonds Suit = "Diamonds"
	Spades   Suit = "Spades"
)

var suits = []Suit{Hearts, Clubs, Diamonds, Spades}

var suitSymbols = map[Suit]string{
	Hearts:   "♥",
	Clubs:    "♣",
	Diamonds: "♦",
	Spades:   "♠",
}

// Element returns the suit's elemental affinity. The empty suit (Joker) is ETHER.
func (s Suit) Element() types.Element {
	switch s {
	case Hearts:
		return types.Water
	case Clubs:
		return types.Fire
	case Diamonds:
		return types.Earth
	case Spades:
		return types.Air
	default:
		return types.Ether
	}
}

// Card is a playing card. Rank 0 is the Joker.
type Card struct {
	Rank int  `json:"rank"`
	Suit Suit `json:"suit,omitempty"`
}

// Joker is the card of December 31st.
var Joker = Card{}

var rankNames = map[int]string{1: "Ace", 11: "Jack", 12: "Queen", 13: "King"}

// CardAt returns the card at a natural-order index (1..52). Index 0, or
// anything out of range, is the Joker.
func CardAt(index int) Card {
	if index < 1 || index > 52 {
		return Joker
	}
	return Card{Rank: (index-1)%13 + 1, Suit: suits[(index-1)/13]}
}

// Index is the card's position in the natural order, 1..52; 0 for the Joker.
func (c Card) Index() int {
	if c.IsJoker() {
		return 0
	}
	for i, s := range suits {
		if s == c.Suit {
			return i*13 + c.Rank
		}
	}
	return 0
}

// IsJoker reports whether c is the Joker.
func (c Card) IsJoker() bool { return c.Rank == 0 }

// Name returns e.g. "Queen of Hearts".
func (c Card) Name() string {
	if c.IsJoker() {
		return "Joker"
	}
	return fmt.Sprintf("%s of %s", rankName(c.Rank), c.Suit)
}

// Short returns e.g. "Q♥".
func (c Card) Short() string {
	if c.IsJoker() {
		return "JOKER"
	}
	r := rankName(c.Rank)
	if c.Rank != 10 {
		r = r[:1]
	}
	return r + suitSymbols[c.Suit]
}

func (c Card) String() string { return c.Name() }

func rankName(rank int) string {
	if n, ok := rankNames[rank]; ok {
		return n
	}
	return strconv.Itoa(rank)
}

// NaturalDeck returns a fresh deck in natural order: Ace to King of Hearts,
// then Clubs, Diamonds and Spades.
func NaturalDeck() []Card {
	deck := make([]Card, 52)
	for i := range deck {
		deck[i] = CardAt(i + 1)
	}
	return deck
}

// =============================================================================
// BIRTH CARD
// =============================================================================

var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// SolarValue returns 55 - (2*month + day), which is always in 0..52.
func SolarValue(month, day int) (int, error) {
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("%w: month %d", ErrInvalidMonthDay, month)
	}
	if day < 1 || day > daysInMonth[month] {
		return 0, fmt.Errorf("%w: day %d of month %d", ErrInvalidMonthDay, day, month)
	}
	return 55 - (2*month + day), nil
}

// BirthCard maps a birthday to its card. December 31st is the Joker.
func BirthCard(month, day int) (Card, error) {
	sv, err := SolarValue(month, day)
	if err != nil {
		return Joker, err
	}
	return CardAt(sv), nil
}
