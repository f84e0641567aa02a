package state

import "github.com/roach88/rotasim/internal/ir"

// TeamState is the shared SP pool.
type TeamState struct {
	config ir.TeamConfig

	sp          float64
	regenPaused bool
	pauseLeft   float64
}

// TeamSnapshot is a point-in-time view of the team pool.
type TeamSnapshot struct {
	Sp                   float64 `json:"sp"`
	SpRegenRate          float64 `json:"spRegenRate"`
	MaxSp                float64 `json:"maxSp"`
	IsSpRegenPaused      bool    `json:"isSpRegenPaused"`
	SpRegenPauseDuration float64 `json:"spRegenPauseDuration"`
}

// NewTeamState returns a pool holding config.InitialSp.
func NewTeamState(config ir.TeamConfig) *TeamState {
	return &TeamState{config: config, sp: config.InitialSp}
}

// Config returns the pool's configuration.
func (t *TeamState) Config() ir.TeamConfig { return t.config }

// Sp returns the current pool value.
func (t *TeamState) Sp() float64 { return t.sp }

// ModifySp adds amount to the pool and returns the new value. The result is
// not clamped; negative pools and pools above MaxSp are representable.
func (t *TeamState) ModifySp(amount float64) float64 {
	if amount == 0 {
		return t.sp
	}
	t.sp = ir.Round3(t.sp + amount)
	return t.sp
}

// PauseSpRegen suspends regeneration for duration more seconds. Overlapping
// pauses accumulate.
func (t *TeamState) PauseSpRegen(duration float64) {
	t.regenPaused = true
	t.pauseLeft = ir.Round3(t.pauseLeft + duration)
}

// AdvanceTime regenerates SP for dt seconds, consuming any pending pause
// first. Regeneration stops at MaxSp.
func (t *TeamState) AdvanceTime(dt float64) {
	if t.sp >= t.config.MaxSp {
		return
	}

	effective := dt
	if t.regenPaused {
		if dt < t.pauseLeft {
			t.pauseLeft = ir.Round3(t.pauseLeft - dt)
			return
		}
		effective = ir.Round3(dt - t.pauseLeft)
		t.regenPaused = false
		t.pauseLeft = 0
	}

	gain := min(effective*t.config.SpRegenRate, t.config.MaxSp-t.sp)
	t.ModifySp(gain)
}

// Snapshot returns the pool's current view.
func (t *TeamState) Snapshot() TeamSnapshot {
	return TeamSnapshot{
		Sp:                   t.sp,
		SpRegenRate:          t.config.SpRegenRate,
		MaxSp:                t.config.MaxSp,
		IsSpRegenPaused:      t.regenPaused,
		SpRegenPauseDuration: t.pauseLeft,
	}
}
