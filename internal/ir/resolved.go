package ir

// TimeExtension describes one freeze window.
//
// Time is the real instant the freeze starts, GameTime the logical start of
// the source action, Amount the freeze length and CumulativeFreezeTime the
// sum of every freeze that happened strictly before this one.
type TimeExtension struct {
	Time                 float64 `json:"time"`
	GameTime             float64 `json:"gameTime"`
	Amount               float64 `json:"amount"`
	SourceID             string  `json:"sourceId"`
	LogicalTime          float64 `json:"logicalTime"`
	CumulativeFreezeTime float64 `json:"cumulativeFreezeTime"`
}

// RealEnd returns the real instant the freeze window closes.
func (e TimeExtension) RealEnd() float64 {
	return Round3(e.Time + e.Amount)
}

// ResolvedDamageTick is a damage tick placed in real time.
type ResolvedDamageTick struct {
	DamageTick
	RealTime   float64 `json:"realTime"`
	RealOffset float64 `json:"realOffset"`
	// Time is the logical (game) time of the tick.
	Time float64 `json:"time"`
}

// ResolvedEffect is an anomaly instance placed on the timeline.
type ResolvedEffect struct {
	ID        string  `json:"id"`
	UniqueID  string  `json:"uniqueId"`
	ActionID  string  `json:"actionId"`
	RowIndex  int     `json:"rowIndex"`
	ColIndex  int     `json:"colIndex"`
	FlatIndex int     `json:"flatIndex"`
	Anomaly   Anomaly `json:"node"`

	RealStartTime   float64 `json:"realStartTime"`
	RealDuration    float64 `json:"realDuration"`
	DisplayDuration float64 `json:"displayDuration"`
	IsConsumed      bool    `json:"isConsumed"`
	ExtensionAmount float64 `json:"extensionAmount"`
}

// TriggerWindow summarises the authored trigger window of an action.
type TriggerWindow struct {
	HasWindow bool    `json:"hasWindow"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
}

// ResolvedAction is an action with every time resolved to real time.
type ResolvedAction struct {
	ActionNode

	StartTime           float64              `json:"startTime"`
	RealStartTime       float64              `json:"realStartTime"`
	Duration            float64              `json:"duration"`
	RealDuration        float64              `json:"realDuration"`
	IsInterrupted       bool                 `json:"isInterrupted"`
	Effects             []*ResolvedEffect    `json:"effects"`
	TriggerWindow       TriggerWindow        `json:"triggerWindow"`
	ResolvedDamageTicks []ResolvedDamageTick `json:"resolvedDamageTicks"`
	ExtensionAmount     float64              `json:"extensionAmount"`
	// FreezeDuration is set only when the action is itself a freeze source.
	FreezeDuration *float64 `json:"freezeDuration,omitempty"`
}

// RealEndTime returns the real instant the action finishes.
func (a *ResolvedAction) RealEndTime() float64 {
	return Round3(a.RealStartTime + a.RealDuration)
}
