package cardology

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"cosmic/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBirthCardIsTotal(t *testing.T) {
	for month := 1; month <= 12; month++ {
		for day := 1; day <= daysInMonth[month]; day++ {
			c, err := BirthCard(month, day)
			require.NoError(t, err, "%d/%d", month, day)
			assert.GreaterOrEqual(t, c.Rank, 0)
			assert.LessOrEqual(t, c.Rank, 13)
			if c.Rank > 0 {
				assert.NotEmpty(t, c.Suit, "%d/%d has rank but no suit", month, day)
			}
		}
	}
}

func TestBirthCardKnownDates(t *testing.T) {
	tests := []struct {
		month, day int
		want       string
	}{
		{1, 1, "King of Spades"},
		{12, 31, "Joker"},
		{5, 15, "4 of Diamonds"},
		{12, 30, "Ace of Hearts"},
		{2, 29, "9 of Clubs"},
	}
	for _, tt := range tests {
		c, err := BirthCard(tt.month, tt.day)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Name(), "%d/%d", tt.month, tt.day)
	}
}

func TestBirthCardRejectsBadDates(t *testing.T) {
	for _, md := range [][2]int{{0, 1}, {13, 1}, {2, 30}, {4, 31}, {6, 0}} {
		_, err := BirthCard(md[0], md[1])
		assert.True(t, errors.Is(err, ErrInvalidMonthDay), "%v", md)
	}
}

func TestCardIndexRoundTrip(t *testing.T) {
	for i := 1; i <= 52; i++ {
		assert.Equal(t, i, CardAt(i).Index())
	}
	assert.True(t, CardAt(0).IsJoker())
	assert.True(t, CardAt(53).IsJoker())
	assert.Equal(t, "Q♥", CardAt(12).Short())
	assert.Equal(t, "10♠", CardAt(49).Short())
}

func TestQuadrateRejectsWrongSize(t *testing.T) {
	for _, n := range []int{0, 51, 53, 104} {
		_, err := Quadrate(make([]Card, n))
		assert.True(t, errors.Is(err, ErrDeckSize), "size %d", n)
	}
	_, err := Quadrate(nil)
	assert.True(t, errors.Is(err, ErrDeckSize))
}

func TestQuadrateIsPermutation(t *testing.T) {
	out, err := Quadrate(NaturalDeck())
	require.NoError(t, err)
	require.Len(t, out, 52)

	idx := make([]int, len(out))
	for i, c := range out {
		idx[i] = c.Index()
	}
	sort.Ints(idx)
	for i, v := range idx {
		assert.Equal(t, i+1, v)
	}
	assert.NotEqual(t, NaturalDeck(), out)
}

func TestSpreadCycleLength(t *testing.T) {
	assert.Equal(t, NaturalDeck(), YearlySpread(43))
	assert.NotEqual(t, NaturalDeck(), YearlySpread(42))
	assert.Equal(t, LifeSpread(), YearlySpread(0))
	assert.Equal(t, YearlySpread(0), YearlySpread(-3))
}

func TestKarmaCards(t *testing.T) {
	karma := KarmaCards(CardAt(1))
	require.Len(t, karma, 2)
	assert.Equal(t, "10 of Spades", karma[0].Name())
	assert.Equal(t, "4 of Hearts", karma[1].Name())

	assert.Nil(t, KarmaCards(Joker))
	assert.Nil(t, KarmaCards(Card{Rank: 12, Suit: Clubs}))
	assert.Nil(t, KarmaCards(Card{Rank: 2, Suit: Diamonds}))
}

func TestPeriodCards(t *testing.T) {
	birth := CardAt(30)
	cards := PeriodCards(birth, 34)
	require.Len(t, cards, 7)
	for _, c := range cards {
		assert.NotEqual(t, birth, c)
	}
	assert.Nil(t, PeriodCards(Joker, 10))
}

func TestCycleInvariants(t *testing.T) {
	birthdays := [][2]int{{1, 1}, {2, 29}, {3, 1}, {7, 4}, {12, 31}}
	start := time.Date(2019, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, bd := range birthdays {
		for i := 0; i < 60; i++ {
			at := start.AddDate(0, 0, i*29)
			cycle, err := NewCycle(bd[0], bd[1], at)
			require.NoError(t, err)
			require.Len(t, cycle.Periods, 7)

			total := 0
			for j, p := range cycle.Periods {
				if j < 6 {
					assert.Equal(t, 52, p.Days, "period %d", j)
				} else {
					assert.Contains(t, []int{53, 54}, p.Days)
				}
				if j > 0 {
					assert.Equal(t, cycle.Periods[j-1].End.AddDate(0, 0, 1), p.Start, "gap before period %d", j)
				}
				total += p.Days
			}
			assert.Equal(t, cycle.Start, cycle.Periods[0].Start)
			assert.Equal(t, cycle.Next.AddDate(0, 0, -1), cycle.Periods[6].End)
			assert.Equal(t, cycle.Days(), total)
			assert.Contains(t, []int{365, 366}, total)

			idx, p := cycle.Current(at)
			assert.GreaterOrEqual(t, idx, 0)
			assert.True(t, p.Contains(civilDate(at)))
		}
	}
}

func TestLeapDayBirthdayInCommonYear(t *testing.T) {
	cycle, err := NewCycle(2, 29, time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), cycle.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), cycle.Next)
	assert.Equal(t, 366, cycle.Days())
}

func TestCalculatorRequiresBirth(t *testing.T) {
	r, err := New().Calculate(context.Background(), nil, time.Now())
	assert.NoError(t, err)
	assert.Nil(t, r)
}

func TestCalculatorReading(t *testing.T) {
	birth, err := types.NewBirthMoment(time.Date(1990, 5, 15, 14, 30, 0, 0, time.UTC), 40.7, -74, "UTC")
	require.NoError(t, err)

	c := New()
	r, err := c.Calculate(context.Background(), &birth, time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, r)

	assert.Equal(t, "cardology", r.System)
	res := r.Primary.(*Result)
	assert.Equal(t, "4 of Diamonds", res.BirthCard.Name())
	assert.Equal(t, 34, res.Age)
	assert.Equal(t, "Mercury", res.Period.Planet)
	assert.Equal(t, 18, res.PeriodDay)
	assert.Equal(t, 34.0, r.Metric("days_left"))
	assert.Equal(t, PeriodCards(res.BirthCard, 34)[0], res.Period.Card)
	assert.Equal(t, r.Summary, c.Synthesize(r))

	m := c.Archetypes(r)
	assert.Equal(t, "cardology", m.System)
	assert.Contains(t, m.Elements, types.Earth)
	assert.Contains(t, m.Elements, types.Air)
	assert.Contains(t, m.Archetypes, "The Messenger")
}

func TestArchetypesIgnoresForeignPayload(t *testing.T) {
	m := New().Archetypes(&types.Reading{System: "cardology", Primary: "nope"})
	assert.Empty(t, m.Elements)
	assert.Equal(t, "cardology", m.System)
}
