package compiler

import (
	"sort"

	"github.com/roach88/rotasim/internal/ir"
)

// TimeContext converts between real (wall) time and game (logical) time for
// one compiled timeline. It is immutable after construction and safe for
// concurrent use.
type TimeContext struct {
	// extensions are ordered by Time ascending. The compiler emits them in
	// source order, which is already non-decreasing in both Time and GameTime.
	extensions []ir.TimeExtension
}

// NewTimeContext builds a TimeContext over a copy of exts.
func NewTimeContext(exts []ir.TimeExtension) *TimeContext {
	sorted := make([]ir.TimeExtension, len(exts))
	copy(sorted, exts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	return &TimeContext{extensions: sorted}
}

// Extensions returns a copy of the freeze windows.
func (c *TimeContext) Extensions() []ir.TimeExtension {
	out := make([]ir.TimeExtension, len(c.extensions))
	copy(out, c.extensions)
	return out
}

// ToGameTime maps a real instant to game time. Inside a freeze window game
// time holds at the freeze's game start.
func (c *TimeContext) ToGameTime(real float64) float64 {
	for _, ext := range c.extensions {
		freezeStart := ext.GameTime + ext.CumulativeFreezeTime
		freezeEnd := freezeStart + ext.Amount
		if real >= freezeStart && real < freezeEnd {
			return ext.GameTime
		}
		if real < freezeStart {
			return ir.Round3(real - ext.CumulativeFreezeTime)
		}
	}
	if n := len(c.extensions); n > 0 {
		last := c.extensions[n-1]
		return ir.Round3(real - (last.CumulativeFreezeTime + last.Amount))
	}
	return real
}

// ToRealTime maps a game instant to real time. A query landing exactly on a
// freeze's game start returns the instant the freeze begins, not the
// instant it ends.
func (c *TimeContext) ToRealTime(game float64) float64 {
	// Last extension whose GameTime <= game.
	i := sort.Search(len(c.extensions), func(i int) bool {
		return c.extensions[i].GameTime > game
	}) - 1
	if i < 0 {
		return game
	}
	ext := c.extensions[i]
	if game == ext.GameTime {
		return ir.Round3(game + ext.CumulativeFreezeTime)
	}
	return ir.Round3(game + ext.CumulativeFreezeTime + ext.Amount)
}

// ShiftedEndTime returns the real end of an interval that starts at the real
// instant start and lasts duration seconds of game time. Every freeze that
// begins inside the growing interval [start, limit) extends it by its
// amount, once per source. The extension whose SourceID equals exclude is
// ignored so an action does not freeze itself.
//
// Extensions are sorted by Time and the limit only grows, so the fixpoint
// is a single forward sweep from the first extension at or after start.
func (c *TimeContext) ShiftedEndTime(start, duration float64, exclude string) float64 {
	limit := ir.Round3(start + duration)
	i := sort.Search(len(c.extensions), func(i int) bool {
		return c.extensions[i].Time >= start
	})
	seen := make(map[string]bool)
	for ; i < len(c.extensions); i++ {
		ext := c.extensions[i]
		if ext.Time >= limit {
			break
		}
		if (exclude != "" && ext.SourceID == exclude) || seen[ext.SourceID] {
			continue
		}
		limit = ir.Round3(limit + ext.Amount)
		seen[ext.SourceID] = true
	}
	return limit
}

// ShiftedTime is ShiftedEndTime with no exclusion. It has the signature the
// engine expects for freeze-extended lock windows.
func (c *TimeContext) ShiftedTime(start, duration float64) float64 {
	return c.ShiftedEndTime(start, duration, "")
}
