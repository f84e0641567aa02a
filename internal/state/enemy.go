package state

import (
	"math"

	"github.com/roach88/rotasim/internal/ir"
)

// Shifter extends a real-time interval by the freezes it overlaps and returns
// its real end time.
type Shifter func(start, duration float64) float64

// Unshifted is a Shifter for timelines without freezes.
func Unshifted(start, duration float64) float64 {
	return ir.Round3(start + duration)
}

// StaggerResult reports what a stagger increment did.
//
// NodeReachedIndex and NodeEndTime are set only when a node was crossed;
// BreakEndTime only when the increment broke the enemy.
type StaggerResult struct {
	Broken           bool     `json:"broken"`
	BreakEndTime     *float64 `json:"breakEnd,omitempty"`
	NodeReachedIndex *int     `json:"nodeReachedIndex,omitempty"`
	NodeEndTime      *float64 `json:"nodeEndTime,omitempty"`
}

// EnemyState is the adversary: its stagger meter and its effects.
type EnemyState struct {
	config ir.EnemyConfig
	shift  Shifter

	stagger      float64
	breakEndTime float64
	lockEndTime  float64
	nodeStep     float64
	currentTime  float64

	Effects *EffectManager
}

// EnemySnapshot is a point-in-time view of the enemy.
type EnemySnapshot struct {
	Stagger      float64            `json:"stagger"`
	IsBroken     bool               `json:"isBroken"`
	IsLocked     bool               `json:"isLocked"`
	BreakEndTime float64            `json:"breakEndTime"`
	LockEndTime  float64            `json:"lockEndTime"`
	Effects      []InstanceSnapshot `json:"effects"`
}

// NewEnemyState returns an unstaggered enemy. Break and node windows are
// extended through shift; a nil shift means no freezes.
func NewEnemyState(config ir.EnemyConfig, shift Shifter) *EnemyState {
	if shift == nil {
		shift = Unshifted
	}
	return &EnemyState{
		config:      config,
		shift:       shift,
		lockEndTime: -1,
		nodeStep:    config.MaxStagger / float64(config.StaggerNodeCount+1),
		Effects:     NewEffectManager(),
	}
}

// Config returns the enemy's configuration.
func (e *EnemyState) Config() ir.EnemyConfig { return e.config }

// Stagger returns the current meter value.
func (e *EnemyState) Stagger() float64 { return e.stagger }

// NodeStep returns the stagger distance between nodes.
func (e *EnemyState) NodeStep() float64 { return e.nodeStep }

// BreakEndTime returns when the current or last break ends.
func (e *EnemyState) BreakEndTime() float64 { return e.breakEndTime }

// IsBroken reports whether a break window is open at now.
func (e *EnemyState) IsBroken(now float64) bool {
	return now < e.breakEndTime-ir.Epsilon
}

// IsLocked reports whether a break or node lock is open at now.
func (e *EnemyState) IsLocked(now float64) bool {
	return now < e.lockEndTime-ir.Epsilon
}

// AddStagger applies a stagger increment at now.
//
// Increments during a break or a node lock are dropped without touching the
// meter. Reaching MaxStagger resets the meter and opens a break window;
// crossing a node boundary opens a shorter lock.
func (e *EnemyState) AddStagger(amount, now float64) StaggerResult {
	if e.IsBroken(now) {
		return StaggerResult{Broken: true}
	}
	if e.IsLocked(now) {
		return StaggerResult{}
	}

	old := e.stagger
	e.stagger = max(0, ir.Round3(e.stagger+amount))

	if e.stagger >= e.config.MaxStagger-ir.Epsilon {
		e.stagger = 0
		end := e.shift(now, e.config.StaggerBreakDuration)
		e.breakEndTime = end
		e.lockEndTime = end
		return StaggerResult{Broken: true, BreakEndTime: &end}
	}

	if e.config.StaggerNodeCount > 0 {
		prev := e.nodeIndex(old)
		curr := e.nodeIndex(e.stagger)
		if curr > prev {
			end := e.shift(now, e.config.StaggerNodeDuration)
			e.lockEndTime = end
			return StaggerResult{NodeReachedIndex: &curr, NodeEndTime: &end}
		}
	}

	return StaggerResult{}
}

func (e *EnemyState) nodeIndex(stagger float64) int {
	return int(math.Floor(stagger/e.nodeStep + ir.Epsilon))
}

// AdvanceTime records the engine's clock for snapshots.
func (e *EnemyState) AdvanceTime(now float64) {
	e.currentTime = now
}

// Snapshot returns the enemy's current view.
func (e *EnemyState) Snapshot() EnemySnapshot {
	return EnemySnapshot{
		Stagger:      e.stagger,
		IsBroken:     e.IsBroken(e.currentTime),
		IsLocked:     e.IsLocked(e.currentTime),
		BreakEndTime: e.breakEndTime,
		LockEndTime:  e.lockEndTime,
		Effects:      e.Effects.Snapshot(),
	}
}
