package strategyconfig

// Default returns the standard US equity strategy. The YAML file under
// config/strategy mirrors these values; Default exists so tests and ad-hoc
// tooling can run without a file on disk.
func Default() *Config {
	return &Config{
		Meta: Meta{
			StrategyID: "sepa-us-equity",
			Version:    "1.0.0",
			Market:     "US",
		},
		Universe: Universe{
			MarketCapMinUSD: 100_000_000,
			MicroCapMaxUSD:  300_000_000,
			MicroCapRSMin:   80,
			LookbackDays:    760,
		},
		TrendTemplate: TrendTemplate{
			MinPctAboveLow:    30,
			MaxPctFromHigh:    25,
			RSRankMin:         70,
			RSRankPreferred:   80,
			MATrendWindowDays: 30,
		},
		RelativeStrength: RelativeStrength{
			Benchmarks: map[string]float64{
				"SPY": 0.35,
				"DIA": 0.15,
				"QQQ": 0.25,
				"VTI": 0.20,
				"VT":  0.05,
			},
			QuarterWeights:     []float64{0.40, 0.20, 0.20, 0.20},
			QuarterDays:        91,
			MarketLookbackDays: 90,
		},
		Patterns: Patterns{
			VCP: VCP{
				LookbackBars:     120,
				MinScore:         50,
				MinContractions:  2,
				MinBaseDepthPct:  10,
				MaxBaseDepthPct:  50,
				MinPostPeakBars:  15,
				MinPriorGainPct:  20,
				VolumeDryUpRatio: 0.70,
			},
			CupHandle: CupHandle{
				MinWindowDays:     180,
				MinCupDepthPct:    12,
				MaxCupDepthPct:    50,
				MinCupWeeks:       4,
				MaxCupWeeks:       65,
				MaxHandleDepthPct: 20,
				MaxHandleWeeks:    8,
			},
			PrimaryBase: PrimaryBase{
				NewIssueMaxDays:      730,
				MinBaseWeeks:         3,
				BreakoutProximityPct: 15,
			},
		},
		Earnings: Earnings{
			MinScore:         40,
			StrongEPSYoYPct:  25,
			GoodEPSYoYPct:    15,
			ModestEPSYoYPct:  5,
			StatementsNeeded: 8,
			SurprisesNeeded:  4,
		},
		Signals: Signals{
			MaxChasePct:          5,
			MinPivotDistancePct:  -2,
			StopLossMinPct:       3,
			StopLossMaxPct:       8,
			EarningsBlackoutDays: 14,
			RSRankBuyMin:         80,
		},
	}
}
