package engine

import (
	"encoding/json"
	"fmt"
)

// Record is the serialised form of a LogEntry.
type Record struct {
	Type    LogType         `json:"type"`
	Time    float64         `json:"time"`
	Payload json.RawMessage `json:"payload"`
}

// EncodeLog converts entries to records, preserving order.
func EncodeLog(entries []LogEntry) ([]Record, error) {
	out := make([]Record, 0, len(entries))
	for i, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encode log entry %d (%s): %w", i, e.Type(), err)
		}
		out = append(out, Record{Type: e.Type(), Time: e.At(), Payload: payload})
	}
	return out, nil
}

// DecodeLog converts records back to entries.
func DecodeLog(records []Record) ([]LogEntry, error) {
	out := make([]LogEntry, 0, len(records))
	for i, r := range records {
		e, err := decodeRecord(r)
		if err != nil {
			return nil, fmt.Errorf("decode log record %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func decodeRecord(r Record) (LogEntry, error) {
	switch r.Type {
	case LogActionStart:
		return decodeAs[ActionStartEntry](r, func(e *ActionStartEntry) { e.Time = r.Time })
	case LogActionEnd:
		return decodeAs[ActionEndEntry](r, func(e *ActionEndEntry) { e.Time = r.Time })
	case LogDamageTick:
		return decodeAs[DamageTickEntry](r, func(e *DamageTickEntry) { e.Time = r.Time })
	case LogSpChange:
		return decodeAs[SpChangeEntry](r, func(e *SpChangeEntry) { e.Time = r.Time })
	case LogSpRegenPause:
		return decodeAs[SpRegenPauseEntry](r, func(e *SpRegenPauseEntry) { e.Time = r.Time })
	case LogStagger:
		return decodeAs[StaggerEntry](r, func(e *StaggerEntry) { e.Time = r.Time })
	case LogEffectStart:
		return decodeAs[EffectStartEntry](r, func(e *EffectStartEntry) { e.Time = r.Time })
	case LogReactionOccurred:
		return decodeAs[ReactionEntry](r, func(e *ReactionEntry) { e.Time = r.Time })
	case LogEffectApplied:
		return decodeAs[EffectAppliedEntry](r, func(e *EffectAppliedEntry) { e.Time = r.Time })
	case LogEffectEnd:
		return decodeAs[EffectEndEntry](r, func(e *EffectEndEntry) { e.Time = r.Time })
	default:
		return nil, fmt.Errorf("unknown log type %q", r.Type)
	}
}

func decodeAs[E LogEntry](r Record, setTime func(*E)) (LogEntry, error) {
	var e E
	if err := json.Unmarshal(r.Payload, &e); err != nil {
		return nil, fmt.Errorf("%s payload: %w", r.Type, err)
	}
	setTime(&e)
	return e, nil
}
