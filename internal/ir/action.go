package ir

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ActionType classifies an authored action.
type ActionType string

const (
	ActionSkill     ActionType = "skill"
	ActionLink      ActionType = "link"
	ActionUltimate  ActionType = "ultimate"
	ActionAttack    ActionType = "attack"
	ActionExecution ActionType = "execution"
)

// ValidActionTypes lists every recognised action type.
var ValidActionTypes = map[ActionType]bool{
	ActionSkill:     true,
	ActionLink:      true,
	ActionUltimate:  true,
	ActionAttack:    true,
	ActionExecution: true,
}

// IsFreezeType reports whether actions of this type stop game time.
func (t ActionType) IsFreezeType() bool {
	return t == ActionLink || t == ActionUltimate
}

// DefaultUltimateAnimation is the freeze length of an ultimate that does not
// declare its own animationTime.
const DefaultUltimateAnimation = 1.5

// DamageTick is one hit inside an action, offset from the action start.
type DamageTick struct {
	Offset       float64  `json:"offset" yaml:"offset"`
	SP           float64  `json:"sp" yaml:"sp"`
	Stagger      float64  `json:"stagger" yaml:"stagger"`
	BoundEffects []string `json:"boundEffects,omitempty" yaml:"boundEffects,omitempty"`
}

// StackCount is a stack number that authoring tools sometimes emit as a
// numeric string.
type StackCount int

// UnmarshalJSON accepts both 2 and "2".
func (s *StackCount) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n, err := parseStackCount(raw)
	if err != nil {
		return err
	}
	*s = n
	return nil
}

// UnmarshalYAML accepts both 2 and "2".
func (s *StackCount) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	n, err := parseStackCount(raw)
	if err != nil {
		return err
	}
	*s = n
	return nil
}

func parseStackCount(raw any) (StackCount, error) {
	switch v := raw.(type) {
	case nil:
		return 0, nil
	case float64:
		return StackCount(v), nil
	case int:
		return StackCount(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return 0, nil
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("stacks: %q is not numeric", v)
		}
		return StackCount(n), nil
	default:
		return 0, fmt.Errorf("stacks: unsupported value %v", raw)
	}
}

// Anomaly is an authored status template attached to an action.
type Anomaly struct {
	ID       string     `json:"_id" yaml:"_id"`
	Type     string     `json:"type" yaml:"type"`
	Offset   float64    `json:"offset" yaml:"offset"`
	Duration float64    `json:"duration" yaml:"duration"`
	Stacks   StackCount `json:"stacks" yaml:"stacks"`
	SP       float64    `json:"sp,omitempty" yaml:"sp,omitempty"`
	Stagger  float64    `json:"stagger,omitempty" yaml:"stagger,omitempty"`
}

// Action is an authored action as placed on a track.
type Action struct {
	ID               string       `json:"id" yaml:"id"`
	InstanceID       string       `json:"instanceId" yaml:"instanceId"`
	Type             ActionType   `json:"type" yaml:"type"`
	Name             string       `json:"name,omitempty" yaml:"name,omitempty"`
	StartTime        float64      `json:"startTime" yaml:"startTime"`
	LogicalStartTime float64      `json:"logicalStartTime,omitempty" yaml:"logicalStartTime,omitempty"`
	Duration         float64      `json:"duration" yaml:"duration"`
	Cooldown         float64      `json:"cooldown,omitempty" yaml:"cooldown,omitempty"`
	SpCost           float64      `json:"spCost,omitempty" yaml:"spCost,omitempty"`
	SpGain           float64      `json:"spGain,omitempty" yaml:"spGain,omitempty"`
	Element          string       `json:"element,omitempty" yaml:"element,omitempty"`
	GaugeCost        float64      `json:"gaugeCost,omitempty" yaml:"gaugeCost,omitempty"`
	GaugeGain        float64      `json:"gaugeGain,omitempty" yaml:"gaugeGain,omitempty"`
	TeamGaugeGain    float64      `json:"teamGaugeGain,omitempty" yaml:"teamGaugeGain,omitempty"`
	AnimationTime    float64      `json:"animationTime,omitempty" yaml:"animationTime,omitempty"`
	TriggerWindow    float64      `json:"triggerWindow,omitempty" yaml:"triggerWindow,omitempty"`
	IsDisabled       bool         `json:"isDisabled,omitempty" yaml:"isDisabled,omitempty"`
	DamageTicks      []DamageTick `json:"damageTicks,omitempty" yaml:"damageTicks,omitempty"`
	PhysicalAnomaly  [][]Anomaly  `json:"physicalAnomaly,omitempty" yaml:"physicalAnomaly,omitempty"`
}

// IsGhost reports whether the action has a negative trigger window and is
// therefore excluded from freeze generation.
func (a Action) IsGhost() bool {
	return a.TriggerWindow < 0
}

// IsFreezeSource reports whether the action generates a time freeze.
func (a Action) IsFreezeSource() bool {
	return a.Type.IsFreezeType() && !a.IsGhost() && !a.IsDisabled
}

// ActionNode is an authored action placed on a specific track. ID is the
// action's instance id.
type ActionNode struct {
	ID         string `json:"id"`
	TrackIndex int    `json:"trackIndex"`
	TrackID    string `json:"trackId"`
	Action     Action `json:"node"`
}
