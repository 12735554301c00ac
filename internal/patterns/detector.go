package patterns

import "github.com/wonny/sepa/backend/internal/contracts"

// Analyze runs VCP and cup-and-handle detection and combines them into one
// pattern verdict. A completed cup adds up to 20 bonus points to the VCP
// score; a handle that itself contracts is the strongest setup.
func (d *Detector) Analyze(bars contracts.Bars) contracts.PatternResult {
	vcp := d.DetectVCP(bars)
	cup := d.DetectCupHandle(bars)

	res := contracts.PatternResult{
		Type: contracts.PatternNone,
		VCP:  vcp,
		Cup:  cup,
	}

	score := vcp.Score
	if cup.CupDetected {
		score += 10
	}
	if cup.HandleDetected {
		score += 5
	}
	if cup.HandleHasVCP {
		score += 5
	}
	if score > 100 {
		score = 100
	}
	res.Score = score

	switch {
	case cup.CupDetected && cup.HandleDetected && cup.HandleHasVCP:
		res.Type = contracts.PatternCupHandleVCP
	case cup.CupDetected && cup.HandleDetected:
		res.Type = contracts.PatternCupHandle
	case vcp.Detected:
		res.Type = contracts.PatternVCPOnly
	}

	// The handle high is the actionable pivot when a handle exists;
	// otherwise the last contraction high.
	if cup.HandleDetected && cup.Pivot != nil {
		res.Pivot = cup.Pivot
	} else if vcp.Pivot != nil {
		res.Pivot = vcp.Pivot
	}

	return res
}
