package scoring

import (
	"fmt"
	"math"
)

// Sample adjustment methods.
const (
	MethodLinear = "linear"
	MethodCI     = "ci"
	MethodEB     = "eb"
	MethodNone   = "none"
)

// Reliability factor bounds. No single statistical correction may move a score
// by more than 50% in either direction.
const (
	minFactor = 0.5
	maxFactor = 1.5
)

var defaultZTable = map[string]float64{
	"0.90": 1.645,
	"0.95": 1.96,
	"0.99": 2.576,
}

// EstimateSampleAdjustment produces the multiplicative reliability factor for
// one (supplier, category) sample. The caller is expected to have filtered
// out non-numeric values already; scores arrive clean.
func EstimateSampleAdjustment(sampleSize int, scores []float64, cfg SampleAdjustmentConfig) SampleAdjustment {
	if !cfg.Enable || sampleSize == 0 || len(scores) == 0 {
		return SampleAdjustment{
			SampleSize:  sampleSize,
			Method:      MethodNone,
			Factor:      1.0,
			Reliability: 1.0,
		}
	}

	var adj SampleAdjustment
	switch {
	case cfg.Method == MethodCI && sampleSize > 1:
		adj = estimateCILowerBound(sampleSize, scores, cfg)
	case cfg.Method == MethodEB:
		adj = estimateEmpiricalBayes(sampleSize, scores, cfg)
	default:
		adj = estimateLinear(sampleSize, scores, cfg)
	}

	adj.Factor = clamp(adj.Factor, minFactor, maxFactor)
	return adj
}

// estimateCILowerBound discounts the mean to the lower bound of its confidence
// interval: small noisy samples earn a factor below 1.
func estimateCILowerBound(n int, scores []float64, cfg SampleAdjustmentConfig) SampleAdjustment {
	m := mean(scores)
	sd := stddev(scores)
	se := sd / math.Sqrt(float64(n))

	z := lookupZ(cfg)
	ciLower := clamp(m-z*se, 1, 5)

	factor := 1.0
	if m != 0 {
		factor = ciLower / m
	}

	return SampleAdjustment{
		SampleSize:  n,
		Method:      MethodCI,
		Factor:      factor,
		Reliability: float64(n) / float64(n+1),
		Mean:        m,
		StdDev:      sd,
		StdErr:      se,
		CILower:     ciLower,
	}
}

// estimateEmpiricalBayes shrinks the sample mean toward a configured prior
// with strength lambda.
func estimateEmpiricalBayes(n int, scores []float64, cfg SampleAdjustmentConfig) SampleAdjustment {
	m := mean(scores)
	lambda := cfg.EBLambda
	shrunk := (float64(n)*m + lambda*cfg.EBPriorMean) / (float64(n) + lambda)

	factor := 1.0
	if m != 0 {
		factor = shrunk / m
	}

	return SampleAdjustment{
		SampleSize:  n,
		Method:      MethodEB,
		Factor:      factor,
		Reliability: float64(n) / (float64(n) + lambda),
		Mean:        m,
		ShrunkMean:  shrunk,
	}
}

// estimateLinear is the default heuristic: penalize below the minimum sample
// size, interpolate a half-strength bonus up to the optimal size, and award a
// logarithmic excess bonus beyond it. The boundary n == min sits in the first
// regime so it yields exactly no penalty and full reliability.
func estimateLinear(n int, scores []float64, cfg SampleAdjustmentConfig) SampleAdjustment {
	minSize := cfg.MinSampleSize
	optSize := cfg.OptimalSampleSize

	var factor, reliability float64
	switch {
	case n <= minSize:
		reliability = float64(n) / float64(minSize)
		penalty := (1 - reliability) * cfg.MaxPenalty
		factor = 1 - penalty
	case n < optSize:
		progress := float64(n-minSize) / float64(optSize-minSize)
		bonus := progress * cfg.MaxBonus * 0.5
		factor = 1 + bonus
		reliability = 0.8 + 0.2*progress
	default:
		excess := float64(n-optSize) / float64(optSize)
		bonus := math.Min(math.Log(1+excess)*0.2, cfg.MaxBonus)
		factor = 1 + bonus
		reliability = 1.0
	}

	adj := SampleAdjustment{
		SampleSize:  n,
		Method:      MethodLinear,
		Factor:      factor,
		Reliability: reliability,
	}

	// Consistency nudge: tight samples earn a little extra trust, scattered
	// ones lose some.
	if n > 1 {
		m := mean(scores)
		sd := stddev(scores)
		adj.Mean = m
		adj.StdDev = sd
		if m > 0 {
			cv := sd / m
			switch {
			case cv < 0.15:
				adj.Factor += 0.02
			case cv < 0.3:
				adj.Factor += 0.01
			case cv > 0.5:
				adj.Factor -= 0.02
			}
		}
	}

	return adj
}

func lookupZ(cfg SampleAdjustmentConfig) float64 {
	key := fmt.Sprintf("%.2f", cfg.ConfidenceLevel)
	table := cfg.ZTable
	if len(table) == 0 {
		table = defaultZTable
	}
	if z, ok := table[key]; ok {
		return z
	}
	return 1.96
}
