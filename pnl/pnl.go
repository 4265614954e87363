// Package pnl holds the pure money math: realized profit/loss for a
// direction, and the per-unit risk/reward figures the entry form shows.
package pnl

import "math"

// Direction of a position. The string values are part of the on-disk
// contract and must not change.
type Direction string

const (
	Long  Direction = "Long"
	Short Direction = "Short"
)

// PnL returns the realized profit/loss for closing size units entered at
// entry and exited at exit. Returns 0 when size, entry, or exit is
// non-positive rather than producing a nonsense figure. No rounding is
// applied; callers round for display and storage.
func PnL(dir Direction, entry, exit, size float64) float64 {
	if size <= 0 || entry <= 0 || exit <= 0 {
		return 0
	}
	if dir == Short {
		return (entry - exit) * size
	}
	return (exit - entry) * size
}

// RiskPerUnit is the adverse move to the stop, floored at zero when the
// stop sits on the wrong side of the entry.
func RiskPerUnit(dir Direction, entry, stop float64) float64 {
	if dir == Short {
		return math.Max(stop-entry, 0)
	}
	return math.Max(entry-stop, 0)
}

// RewardPerUnit is the favorable move to the target, floored at zero.
func RewardPerUnit(dir Direction, entry, target float64) float64 {
	if dir == Short {
		return math.Max(entry-target, 0)
	}
	return math.Max(target-entry, 0)
}

// RR is the reward:risk ratio for the planned trade. Returns 0 when the
// per-unit risk is 0 so a stop at the entry never divides by zero.
func RR(dir Direction, entry, stop, target float64) float64 {
	risk := RiskPerUnit(dir, entry, stop)
	if risk == 0 {
		return 0
	}
	return RewardPerUnit(dir, entry, target) / risk
}

// RiskAmount is the absolute currency amount lost if the stop is hit.
func RiskAmount(entry, stop, size float64) float64 {
	return math.Abs(entry-stop) * size
}

// RiskPct expresses riskAmount as a percentage of balance, 0 when the
// balance is not positive.
func RiskPct(riskAmount, balance float64) float64 {
	if balance <= 0 {
		return 0
	}
	return riskAmount / balance * 100
}

// Round2 rounds to 2 decimal places, the precision used for stored
// prices and position values.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
