package sim

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/rotasim/internal/engine"
)

// FormatLogEntry renders one log entry as "[t.ttt] [TYPE] message".
func FormatLogEntry(entry engine.LogEntry) string {
	return fmt.Sprintf("[%.3f] [%s] %s", entry.At(), entry.Type(), message(entry))
}

// FormatLog renders a whole log, one entry per line.
func FormatLog(log []engine.LogEntry) string {
	var b strings.Builder
	for _, entry := range log {
		b.WriteString(FormatLogEntry(entry))
		b.WriteByte('\n')
	}
	return b.String()
}

func message(entry engine.LogEntry) string {
	switch e := entry.(type) {
	case engine.ActionStartEntry:
		return "action start " + e.SkillID
	case engine.ActionEndEntry:
		return "action end " + e.SkillID
	case engine.DamageTickEntry:
		return fmt.Sprintf("damage %s (stagger %s)", num(e.Damage), num(e.Stagger))
	case engine.StaggerEntry:
		msg := fmt.Sprintf("%s %s %.1f (%.1f)", e.ActorID, e.ActionID, e.Stagger, e.Amount)
		if e.IsBroken {
			msg += " (BROKEN)"
		}
		return msg
	case engine.SpChangeEntry:
		return fmt.Sprintf("sp change %s -> %s (%s)", num(e.Change), num(e.Sp), e.Reason)
	case engine.SpRegenPauseEntry:
		return fmt.Sprintf("sp regen paused for %.3fs", e.Duration)
	case engine.EffectStartEntry:
		return "effect start " + e.Effect.ID
	case engine.EffectAppliedEntry:
		return fmt.Sprintf("%s %s x%d", e.TargetID, e.InstanceID, e.Stacks)
	case engine.EffectEndEntry:
		return fmt.Sprintf("%s %s", e.InstanceID, e.Reason)
	case engine.ReactionEntry:
		return fmt.Sprintf("%s %s", e.TargetID, e.ReactionName)
	default:
		return ""
	}
}

// num prints a float the shortest way that round-trips, so whole numbers
// carry no decimals.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
