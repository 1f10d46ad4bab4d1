// Time allocation for one move of a clocked game, and the time controls we are willing to play

package timecontrol

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type ParamsT struct {
	// How many half moves we expect a game to last
	ExpectedHalfMoves int `json:"expectedHalfMoves"`
	// Never plan for fewer than this many of our moves left
	MinMovesToGo int `json:"minMovesToGo"`
	// Percentage of the increment spent on each move on top of the base share
	IncrementAllowancePercent int `json:"incrementAllowancePercent"`
	// Never spend more than this percentage of the remaining clock on one move
	MaxMovePercent int `json:"maxMovePercent"`
	// Floor for a single move
	MinMoveTimeMs int `json:"minMoveTimeMs"`

	// Acceptable game time controls
	MinInitialTimeSecs int `json:"minInitialTimeSecs"`
	MaxInitialTimeSecs int `json:"maxInitialTimeSecs"`
	MinIncrementSecs   int `json:"minIncrementSecs"`
	MaxIncrementSecs   int `json:"maxIncrementSecs"`
}

func DefaultParams() ParamsT {
	return ParamsT{
		ExpectedHalfMoves:         80,
		MinMovesToGo:              10,
		IncrementAllowancePercent: 75,
		MaxMovePercent:            25,
		MinMoveTimeMs:             10,
		MinInitialTimeSecs:        60,
		MaxInitialTimeSecs:        1800,
		MinIncrementSecs:          0,
		MaxIncrementSecs:          30,
	}
}

// Read params from a JSON file; fields missing from the file keep their defaults
func LoadParams(path string) (ParamsT, error) {
	params := DefaultParams()

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("timecontrol: reading params: %w", err)
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("timecontrol: parsing %s: %w", path, err)
	}
	if err := params.Validate(); err != nil {
		return params, err
	}

	return params, nil
}

func (p ParamsT) Validate() error {
	switch {
	case p.ExpectedHalfMoves <= 0:
		return fmt.Errorf("timecontrol: expectedHalfMoves must be positive, got %d", p.ExpectedHalfMoves)
	case p.MinMovesToGo <= 0:
		return fmt.Errorf("timecontrol: minMovesToGo must be positive, got %d", p.MinMovesToGo)
	case p.MaxMovePercent <= 0 || p.MaxMovePercent > 100:
		return fmt.Errorf("timecontrol: maxMovePercent must be in (0, 100], got %d", p.MaxMovePercent)
	case p.IncrementAllowancePercent < 0 || p.IncrementAllowancePercent > 100:
		return fmt.Errorf("timecontrol: incrementAllowancePercent must be in [0, 100], got %d", p.IncrementAllowancePercent)
	case p.MinInitialTimeSecs > p.MaxInitialTimeSecs:
		return fmt.Errorf("timecontrol: initial time range [%d, %d] is empty", p.MinInitialTimeSecs, p.MaxInitialTimeSecs)
	case p.MinIncrementSecs > p.MaxIncrementSecs:
		return fmt.Errorf("timecontrol: increment range [%d, %d] is empty", p.MinIncrementSecs, p.MaxIncrementSecs)
	}
	return nil
}

// Whether a game with this clock is one we play
func (p ParamsT) Accepts(initial time.Duration, increment time.Duration) bool {
	initialSecs, incSecs := int(initial/time.Second), int(increment/time.Second)
	return p.MinInitialTimeSecs <= initialSecs && initialSecs <= p.MaxInitialTimeSecs &&
		p.MinIncrementSecs <= incSecs && incSecs <= p.MaxIncrementSecs
}

// Time to spend on the next move: an even share of the clock over the moves we expect are left, plus most of the
// increment, capped at MaxMovePercent of the clock. Zero remaining time gets the floor.
func Allocate(p ParamsT, ourTime time.Duration, ourInc time.Duration, halfMovesPlayed int) time.Duration {
	movesToGo := max((p.ExpectedHalfMoves-halfMovesPlayed)/2, p.MinMovesToGo, 1)

	alloc := ourTime/time.Duration(movesToGo) + ourInc*time.Duration(p.IncrementAllowancePercent)/100

	if ceiling := ourTime * time.Duration(p.MaxMovePercent) / 100; alloc > ceiling {
		alloc = ceiling
	}

	return max(alloc, time.Duration(p.MinMoveTimeMs)*time.Millisecond)
}
