package contracts

// Signal is the final screening verdict for a symbol on a run date.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalWait Signal = "WAIT"
	SignalPass Signal = "PASS"
)

// Stage is the Weinstein-style lifecycle stage of a trend.
type Stage int

const (
	StageUnknown   Stage = 0
	StageBasing    Stage = 1
	StageAdvancing Stage = 2
	StageTopping   Stage = 3
	StageDeclining Stage = 4
)

// String returns the display name used in reports and API payloads.
func (s Stage) String() string {
	switch s {
	case StageBasing:
		return "Stage 1 - Basing"
	case StageAdvancing:
		return "Stage 2 - Advancing"
	case StageTopping:
		return "Stage 3 - Topping"
	case StageDeclining:
		return "Stage 4 - Declining"
	default:
		return "Unknown"
	}
}

// EntryRange is the actionable buy zone around a pivot.
type EntryRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// SellTargets are the profit-taking levels derived from entry and stop:
// the 2R minimum, the primary target (lower of 3R and +25%), the +25%
// aggressive level, the +20% partial-profit level, and the climax warning
// at 70% above the 200-day MA.
type SellTargets struct {
	Conservative    float64  `json:"conservative"`
	Primary         float64  `json:"primary"`
	Aggressive      float64  `json:"aggressive"`
	PartialProfitAt float64  `json:"partial_profit_at"`
	ClimaxWarning   *float64 `json:"climax_warning,omitempty"`
	RiskReward      float64  `json:"risk_reward"`
	RiskPct         float64  `json:"risk_pct"`
}

// SignalResult is the trade plan attached to a snapshot.
type SignalResult struct {
	Signal   Signal       `json:"signal"`
	Reasons  []string     `json:"reasons,omitempty"`
	Entry    *EntryRange  `json:"entry,omitempty"`
	StopLoss *float64     `json:"stop_loss,omitempty"`
	Targets  *SellTargets `json:"targets,omitempty"`
}
