package graph

import "math"

// WeightTotal is the sum every normalized sibling weight set must reach.
const WeightTotal = 100

// ZeroSumPolicy decides what Normalize does with a set whose weights sum to 0.
type ZeroSumPolicy string

const (
	// ZeroSumLeave returns an all-zero set unchanged. Callers are expected to
	// reject such sets before saving.
	ZeroSumLeave ZeroSumPolicy = "leave"
	// ZeroSumEqual splits WeightTotal evenly across the entries.
	ZeroSumEqual ZeroSumPolicy = "equal"
)

// Weight is one entry of a sibling weight set.
type Weight struct {
	ID    string  `json:"id"`
	Value float64 `json:"value"`
}

// Weights is an ordered sibling weight set. Order is significant: rounding
// residue is always charged to the first entry.
type Weights []Weight

// WeightsFromLinks copies the weights of links, preserving order.
func WeightsFromLinks(links []Link) Weights {
	w := make(Weights, len(links))
	for i, l := range links {
		w[i] = Weight{ID: l.ID, Value: l.Weight}
	}
	return w
}

// Links converts w back into links, preserving order.
func (w Weights) Links() []Link {
	out := make([]Link, len(w))
	for i, e := range w {
		out[i] = Link{ID: e.ID, Weight: e.Value}
	}
	return out
}

// Sum returns the total of all values.
func (w Weights) Sum() float64 {
	var sum float64
	for _, e := range w {
		sum += e.Value
	}
	return sum
}

// Normalized reports whether w already sums to exactly WeightTotal.
func (w Weights) Normalized() bool {
	return len(w) > 0 && w.Sum() == WeightTotal
}

// Get returns the value for id and whether it is present.
func (w Weights) Get(id string) (float64, bool) {
	for _, e := range w {
		if e.ID == id {
			return e.Value, true
		}
	}
	return 0, false
}

// Normalize rescales w so its values are integers summing to WeightTotal,
// leaving all-zero sets untouched. See NormalizeWith.
func Normalize(w Weights) Weights {
	return NormalizeWith(w, ZeroSumLeave)
}

// NormalizeWith rescales w proportionally to WeightTotal and returns a new set.
// The input is never modified.
//
// Empty sets and sets already summing to WeightTotal come back unchanged,
// which makes the operation idempotent. Each value becomes
// round(v / sum * 100); any rounding residue is added to the first entry.
// All-zero sets are handled according to policy.
func NormalizeWith(w Weights, policy ZeroSumPolicy) Weights {
	out := make(Weights, len(w))
	copy(out, w)
	if len(out) == 0 {
		return out
	}

	sum := out.Sum()
	if sum == WeightTotal {
		return out
	}
	if sum == 0 {
		if policy == ZeroSumEqual {
			share := math.Floor(WeightTotal / float64(len(out)))
			for i := range out {
				out[i].Value = share
			}
			out[0].Value += WeightTotal - share*float64(len(out))
		}
		return out
	}

	var total float64
	for i := range out {
		out[i].Value = math.Round(out[i].Value / sum * WeightTotal)
		total += out[i].Value
	}
	if residual := WeightTotal - total; residual != 0 {
		out[0].Value += residual
	}
	return out
}
