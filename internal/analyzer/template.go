package analyzer

import (
	"github.com/wonny/sepa/backend/internal/strategyconfig"
)

// The nine discrete trend-template checks, in reporting order. The book's
// eight criteria expand to nine checks because two of them compare against
// a pair of moving averages; the RS rank check is tracked separately.
var templateChecks = []string{
	"price_above_150ma",
	"price_above_200ma",
	"ma_150_above_200",
	"ma_200_trending_up",
	"ma_50_above_150",
	"ma_50_above_200",
	"price_above_50ma",
	"above_30pct_52w_low",
	"within_25pct_of_high",
}

const rsCheck = "rs_above_min"

type templateInput struct {
	Close         float64
	SMA50         float64
	SMA150        float64
	SMA200        float64
	MA200TrendPct *float64
	PctFromHigh   float64
	PctAboveLow   float64
	RSRank        *int
}

type templateResult struct {
	Criteria map[string]bool
	Passed   int
	Passes   bool
	Failed   []string
}

// evaluateTemplate runs the nine trend checks plus the RS filter. Passed
// counts only the nine core checks; Passes requires all of them and the RS
// filter. Failed lists every miss, RS included, in stable order.
func evaluateTemplate(cfg strategyconfig.TrendTemplate, in templateInput) templateResult {
	criteria := map[string]bool{
		"price_above_150ma":    in.Close > in.SMA150,
		"price_above_200ma":    in.Close > in.SMA200,
		"ma_150_above_200":     in.SMA150 > in.SMA200,
		"ma_200_trending_up":   in.MA200TrendPct != nil && *in.MA200TrendPct > 0,
		"ma_50_above_150":      in.SMA50 > in.SMA150,
		"ma_50_above_200":      in.SMA50 > in.SMA200,
		"price_above_50ma":     in.Close > in.SMA50,
		"above_30pct_52w_low":  in.PctAboveLow >= cfg.MinPctAboveLow,
		"within_25pct_of_high": in.PctFromHigh >= -cfg.MaxPctFromHigh,
	}

	res := templateResult{Criteria: criteria}
	for _, name := range templateChecks {
		if criteria[name] {
			res.Passed++
		} else {
			res.Failed = append(res.Failed, name)
		}
	}

	rsOK := in.RSRank != nil && *in.RSRank >= cfg.RSRankMin
	if !rsOK {
		res.Failed = append(res.Failed, rsCheck)
	}

	res.Passes = res.Passed == len(templateChecks) && rsOK
	return res
}
