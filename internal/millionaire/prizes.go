package millionaire

import (
	"fmt"
	"sort"
)

// PrizeTable is the static prize schedule for a game: one amount per level,
// strictly increasing, with a subset of levels marked as fireproof
// checkpoints. A failed or timed-out game still pays the last fireproof
// prize reached; a cash-out pays the schedule amount for the last level
// actually cleared.
type PrizeTable struct {
	amounts   []int64
	fireproof []int // sorted ascending
}

// NewPrizeTable validates and builds a prize schedule. Amounts must be
// strictly increasing and fireproof levels must be valid level indexes.
func NewPrizeTable(amounts []int64, fireproof []int) (*PrizeTable, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("prize table: no amounts")
	}
	for i, a := range amounts {
		if a <= 0 {
			return nil, fmt.Errorf("prize table: amount at level %d is not positive", i)
		}
		if i > 0 && a <= amounts[i-1] {
			return nil, fmt.Errorf("prize table: amounts not strictly increasing at level %d", i)
		}
	}
	fp := make([]int, len(fireproof))
	copy(fp, fireproof)
	sort.Ints(fp)
	for i, lvl := range fp {
		if lvl < 0 || lvl >= len(amounts) {
			return nil, fmt.Errorf("prize table: fireproof level %d out of range", lvl)
		}
		if i > 0 && lvl == fp[i-1] {
			return nil, fmt.Errorf("prize table: duplicate fireproof level %d", lvl)
		}
	}

	return &PrizeTable{
		amounts:   append([]int64(nil), amounts...),
		fireproof: fp,
	}, nil
}

// DefaultPrizeTable is the classic 15-step ladder with fireproof
// checkpoints at levels 4, 9 and 14.
func DefaultPrizeTable() *PrizeTable {
	t, err := NewPrizeTable([]int64{
		100, 200, 300, 500, 1000,
		2000, 4000, 8000, 16000, 32000,
		64000, 125000, 250000, 500000, 1000000,
	}, []int{4, 9, 14})
	if err != nil {
		panic(err)
	}
	return t
}

// Levels returns the number of levels in the schedule.
func (t *PrizeTable) Levels() int { return len(t.amounts) }

// PrizeAt returns the schedule amount for a fully-cleared level index.
// Calling it outside 0..Levels()-1 is a contract violation, not a player
// error, and panics.
func (t *PrizeTable) PrizeAt(level int) int64 {
	if level < 0 || level >= len(t.amounts) {
		panic(fmt.Sprintf("millionaire: prize level %d out of range [0,%d)", level, len(t.amounts)))
	}
	return t.amounts[level]
}

// GuaranteedPrize returns the highest fireproof prize at or below
// previousLevel, or 0 if no checkpoint was reached.
func (t *PrizeTable) GuaranteedPrize(previousLevel int) int64 {
	var prize int64
	for _, lvl := range t.fireproof {
		if lvl > previousLevel {
			break
		}
		prize = t.amounts[lvl]
	}
	return prize
}

// FireproofLevels returns the checkpoint levels in ascending order.
func (t *PrizeTable) FireproofLevels() []int {
	return append([]int(nil), t.fireproof...)
}

// Amounts returns the full schedule in level order.
func (t *PrizeTable) Amounts() []int64 {
	return append([]int64(nil), t.amounts...)
}
