package compiler

import (
	"fmt"
	"math"
	"sort"

	"github.com/roach88/rotasim/internal/ir"
)

// ResolvedTimeline is the output of CompileTimeline. Actions are in logical
// start order; ActionMap and EffectMap index the same pointers.
type ResolvedTimeline struct {
	Actions        []*ir.ResolvedAction          `json:"actions"`
	ActionMap      map[string]*ir.ResolvedAction `json:"-"`
	EffectMap      map[string]*ir.ResolvedEffect `json:"-"`
	TimeExtensions []ir.TimeExtension            `json:"timeExtensions"`
	TimeContext    *TimeContext                  `json:"-"`
	Meta           TimelineMeta                  `json:"meta"`
}

// TimelineMeta carries timeline-wide derived values.
type TimelineMeta struct {
	TotalDuration float64 `json:"totalDuration"`
}

// Action returns the resolved action with the given instance id.
func (t *ResolvedTimeline) Action(id string) (*ir.ResolvedAction, bool) {
	a, ok := t.ActionMap[id]
	return a, ok
}

// shiftContext is the placement of one freeze source.
type shiftContext struct {
	shift     float64
	amount    float64
	realStart float64
	realEnd   float64
}

// CompileTimeline resolves authored actions to real time.
//
// The compiler never fails: connections that reference unknown actions or
// effects are ignored.
func CompileTimeline(actions []ir.ActionNode, connections []ir.Connection) *ResolvedTimeline {
	sorted := make([]ir.ActionNode, len(actions))
	copy(sorted, actions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Action.StartTime < sorted[j].Action.StartTime
	})

	sources, shifts, exts := computeTimeShifts(sorted)
	tc := NewTimeContext(exts)

	tl := &ResolvedTimeline{
		Actions:        make([]*ir.ResolvedAction, 0, len(sorted)),
		ActionMap:      make(map[string]*ir.ResolvedAction, len(sorted)),
		EffectMap:      make(map[string]*ir.ResolvedEffect),
		TimeExtensions: exts,
		TimeContext:    tc,
	}

	for _, node := range sorted {
		ra := resolveAction(node, sources, shifts, tc)
		tl.Actions = append(tl.Actions, ra)
		tl.ActionMap[ra.ID] = ra
		for _, eff := range ra.Effects {
			tl.EffectMap[eff.ID] = eff
		}
	}

	if len(connections) > 0 {
		resolveConsumption(tl, connections)
	}

	for _, a := range tl.Actions {
		tl.Meta.TotalDuration = math.Max(tl.Meta.TotalDuration, a.RealEndTime())
	}
	return tl
}

// computeTimeShifts places every freeze source on the real timeline.
// Sources never overlap: each starts no earlier than the previous one ends.
func computeTimeShifts(sorted []ir.ActionNode) ([]ir.ActionNode, map[string]shiftContext, []ir.TimeExtension) {
	var sources []ir.ActionNode
	for _, n := range sorted {
		if n.Action.IsFreezeSource() {
			sources = append(sources, n)
		}
	}

	shifts := make(map[string]shiftContext, len(sources))
	exts := make([]ir.TimeExtension, 0, len(sources))

	var lastRealEnd, cumulative float64
	for i, src := range sources {
		gameStart := src.Action.StartTime
		realStart := ir.Round3(math.Max(gameStart, lastRealEnd))
		amount := freezeAmount(sources, i)

		shifts[src.ID] = shiftContext{
			shift:     ir.Round3(realStart - gameStart),
			amount:    amount,
			realStart: realStart,
			realEnd:   ir.Round3(realStart + amount),
		}
		exts = append(exts, ir.TimeExtension{
			Time:                 realStart,
			GameTime:             gameStart,
			Amount:               amount,
			SourceID:             src.ID,
			LogicalTime:          gameStart,
			CumulativeFreezeTime: cumulative,
		})

		cumulative = ir.Round3(cumulative + amount)
		lastRealEnd = ir.Round3(realStart + amount)
	}
	return sources, shifts, exts
}

// Link freeze bounds. A link followed by another source compresses its
// freeze to the logical gap, clamped to [linkFreezeMin, linkFreezeMax].
const (
	linkFreezeMin = 0.1
	linkFreezeMax = 0.5
)

func freezeAmount(sources []ir.ActionNode, i int) float64 {
	a := sources[i].Action
	if a.Type == ir.ActionUltimate {
		if a.AnimationTime != 0 {
			return a.AnimationTime
		}
		return ir.DefaultUltimateAnimation
	}
	if i+1 < len(sources) {
		gap := ir.Round3(sources[i+1].Action.StartTime - a.StartTime)
		return math.Min(linkFreezeMax, math.Max(linkFreezeMin, gap))
	}
	return linkFreezeMax
}

func resolveAction(node ir.ActionNode, sources []ir.ActionNode, shifts map[string]shiftContext, tc *TimeContext) *ir.ResolvedAction {
	a := node.Action
	start := a.StartTime
	realStart := start

	// Latest source whose logical start is not after this action's.
	governing := -1
	for i := len(sources) - 1; i >= 0; i-- {
		if sources[i].Action.StartTime <= start {
			governing = i
			break
		}
	}
	if governing >= 0 {
		src := sources[governing]
		ctx := shifts[src.ID]
		if src.ID == node.ID {
			realStart = ir.Round3(ctx.realStart)
		} else {
			realStart = ir.Round3(math.Max(start+ctx.shift, ctx.realEnd))
		}
	}

	realEnd := tc.ShiftedEndTime(realStart, a.Duration, node.ID)
	realDuration := ir.Round3(realEnd - realStart)

	ra := &ir.ResolvedAction{
		ActionNode:      node,
		StartTime:       start,
		RealStartTime:   realStart,
		Duration:        a.Duration,
		RealDuration:    realDuration,
		ExtensionAmount: ir.Round3(realDuration - a.Duration),
		TriggerWindow: ir.TriggerWindow{
			HasWindow: !a.IsGhost(),
			Duration:  math.Abs(a.TriggerWindow),
		},
		Effects:             resolveEffects(node, realStart, tc),
		ResolvedDamageTicks: resolveTicks(node, realStart, tc),
	}
	if ctx, ok := shifts[node.ID]; ok {
		amount := ctx.amount
		ra.FreezeDuration = &amount
	}
	return ra
}

func resolveEffects(node ir.ActionNode, realStart float64, tc *TimeContext) []*ir.ResolvedEffect {
	var out []*ir.ResolvedEffect
	flat := 0
	for row, cols := range node.Action.PhysicalAnomaly {
		for col, anomaly := range cols {
			start := tc.ShiftedEndTime(realStart, anomaly.Offset, node.ID)
			end := tc.ShiftedEndTime(start, anomaly.Duration, node.ID)
			dur := ir.Round3(end - start)
			out = append(out, &ir.ResolvedEffect{
				ID:              anomaly.ID,
				UniqueID:        fmt.Sprintf("%s_%d", anomaly.ID, flat),
				ActionID:        node.ID,
				RowIndex:        row,
				ColIndex:        col,
				FlatIndex:       flat,
				Anomaly:         anomaly,
				RealStartTime:   start,
				RealDuration:    dur,
				DisplayDuration: dur,
				ExtensionAmount: ir.Round3(dur - anomaly.Duration),
			})
			flat++
		}
	}
	return out
}

func resolveTicks(node ir.ActionNode, realStart float64, tc *TimeContext) []ir.ResolvedDamageTick {
	ticks := make([]ir.ResolvedDamageTick, 0, len(node.Action.DamageTicks))
	for _, tick := range node.Action.DamageTicks {
		realTime := tc.ShiftedEndTime(realStart, tick.Offset, node.ID)
		ticks = append(ticks, ir.ResolvedDamageTick{
			DamageTick: tick,
			RealTime:   realTime,
			RealOffset: ir.Round3(realTime - realStart),
			Time:       tc.ToGameTime(realTime),
		})
	}
	return ticks
}

// resolveConsumption truncates the display duration of every effect named by
// an isConsumption connection to the gap before its consumer starts. A
// consumer that starts before the effect leaves it untouched.
func resolveConsumption(tl *ResolvedTimeline, connections []ir.Connection) {
	for _, producer := range tl.Actions {
		for _, eff := range producer.Effects {
			conn, ok := consumptionFor(connections, eff.ID)
			if !ok || conn.To == "" {
				continue
			}
			consumer, ok := tl.ActionMap[conn.To]
			if !ok {
				continue
			}
			at := consumer.RealStartTime - conn.ConsumptionOffset
			cut := ir.Round3(at - eff.RealStartTime)
			if cut >= 0 {
				eff.DisplayDuration = math.Min(eff.DisplayDuration, cut)
				eff.IsConsumed = true
			}
		}
	}
}

func consumptionFor(connections []ir.Connection, effectID string) (ir.Connection, bool) {
	for _, c := range connections {
		if c.IsConsumption && c.FromEffectID == effectID {
			return c, true
		}
	}
	return ir.Connection{}, false
}
