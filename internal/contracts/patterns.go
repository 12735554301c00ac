package contracts

import "time"

// PatternType labels the base structure found for a symbol.
type PatternType string

const (
	PatternNone         PatternType = "NONE"
	PatternVCPOnly      PatternType = "VCP_ONLY"
	PatternCupHandle    PatternType = "CUP_HANDLE"
	PatternCupHandleVCP PatternType = "CUP_HANDLE_VCP"
)

// Contraction is one pullback leg inside a consolidation: a swing high
// followed by the next swing low.
type Contraction struct {
	HighDate  time.Time `json:"high_date"`
	High      float64   `json:"high"`
	LowDate   time.Time `json:"low_date"`
	Low       float64   `json:"low"`
	RangePct  float64   `json:"range_pct"`
	AvgVolume float64   `json:"avg_volume"`
}

// VCPResult is the volatility contraction analysis for one symbol.
type VCPResult struct {
	Detected         bool          `json:"detected"`
	Score            int           `json:"score"`
	ContractionCount int           `json:"contraction_count"`
	Contractions     []Contraction `json:"contractions,omitempty"`
	Pivot            *float64      `json:"pivot,omitempty"`
	BaseDepthPct     *float64      `json:"base_depth_pct,omitempty"`
	PriorUptrendPct  *float64      `json:"prior_uptrend_pct,omitempty"`
	VolumeDryUp      bool          `json:"volume_dry_up"`
}

// CupHandleResult is the cup-and-handle analysis over the wider window.
type CupHandleResult struct {
	CupDetected       bool     `json:"cup_detected"`
	HandleDetected    bool     `json:"handle_detected"`
	HandleHasVCP      bool     `json:"handle_has_vcp"`
	CupDepthPct       *float64 `json:"cup_depth_pct,omitempty"`
	CupDurationWks    *float64 `json:"cup_duration_weeks,omitempty"`
	HandleDepthPct    *float64 `json:"handle_depth_pct,omitempty"`
	HandleDurationWks *float64 `json:"handle_duration_weeks,omitempty"`
	Pivot             *float64 `json:"pivot,omitempty"`
}

// PatternResult is the combined base analysis stored on the snapshot.
type PatternResult struct {
	Type PatternType `json:"pattern_type"`
	VCP  VCPResult   `json:"vcp"`
	Cup  CupHandleResult `json:"cup_handle"`
	// Score is the VCP score plus cup-and-handle bonuses, capped at 100.
	Score int      `json:"score"`
	Pivot *float64 `json:"pivot,omitempty"`
}

// Primary base status for recently listed names.
type PrimaryBaseStatus string

const (
	BaseTooEarly PrimaryBaseStatus = "TOO_EARLY"
	BaseForming  PrimaryBaseStatus = "FORMING"
	BaseComplete PrimaryBaseStatus = "COMPLETE"
	BaseFailed   PrimaryBaseStatus = "FAILED"
)

// PrimaryBaseResult is the first-base analysis for a new issue.
type PrimaryBaseResult struct {
	Status        PrimaryBaseStatus `json:"status"`
	HasBase       bool              `json:"has_base"`
	PeakDate      *time.Time        `json:"peak_date,omitempty"`
	PeakPrice     *float64          `json:"peak_price,omitempty"`
	CorrectionPct *float64          `json:"correction_pct,omitempty"`
	BaseWeeks     *float64          `json:"base_weeks,omitempty"`
	Reason        string            `json:"reason,omitempty"`
}
