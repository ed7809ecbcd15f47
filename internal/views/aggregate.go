// Package views derives read-only statistics and chart series from record
// collections. Every function is pure and returns 0 or an empty series for
// empty input, never NaN.
package views

import "math"

// Slice is one chart bucket.
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// AverageOfRatio returns the mean over items of score/max*100. Items whose
// max is not positive are skipped.
func AverageOfRatio[T any](items []T, score, outOf func(T) float64) float64 {
	var sum float64
	n := 0
	for _, item := range items {
		m := outOf(item)
		if m <= 0 {
			continue
		}
		sum += score(item) / m * 100
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// PooledRatio returns sum(score)/sum(max)*100, weighting each item by its
// max. Items whose max is not positive are skipped.
func PooledRatio[T any](items []T, score, outOf func(T) float64) float64 {
	var scored, possible float64
	for _, item := range items {
		m := outOf(item)
		if m <= 0 {
			continue
		}
		scored += score(item)
		possible += m
	}
	if possible == 0 {
		return 0
	}
	return scored / possible * 100
}

// Mean returns the arithmetic mean of value over items.
func Mean[T any](items []T, value func(T) float64) float64 {
	if len(items) == 0 {
		return 0
	}
	return Sum(items, value) / float64(len(items))
}

// Sum adds value over items.
func Sum[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return total
}

// Count returns how many items match.
func Count[T any](items []T, match func(T) bool) int {
	n := 0
	for _, item := range items {
		if match(item) {
			n++
		}
	}
	return n
}

// Rate returns the percentage of items matching, 0 for an empty input.
func Rate[T any](items []T, match func(T) bool) float64 {
	if len(items) == 0 {
		return 0
	}
	return float64(Count(items, match)) / float64(len(items)) * 100
}

// Distribution counts items per key. Buckets appear in first-seen order.
func Distribution[T any](items []T, key func(T) string) []Slice {
	return Accumulate(items, key, func(T) float64 { return 1 })
}

// Accumulate sums value per key. Buckets appear in first-seen order.
func Accumulate[T any](items []T, key func(T) string, value func(T) float64) []Slice {
	out := []Slice{}
	index := make(map[string]int)
	for _, item := range items {
		k := key(item)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, Slice{Name: k})
		}
		out[i].Value += value(item)
	}
	return out
}

// GroupAverage computes AverageOfRatio per key in first-seen key order.
func GroupAverage[T any](items []T, key func(T) string, score, outOf func(T) float64) []Slice {
	groups := make(map[string][]T)
	var order []string
	for _, item := range items {
		k := key(item)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], item)
	}
	out := make([]Slice, 0, len(order))
	for _, k := range order {
		out = append(out, Slice{Name: k, Value: Round1(AverageOfRatio(groups[k], score, outOf))})
	}
	return out
}

// Round1 rounds to one decimal place. NaN and infinities become 0.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*10) / 10
}
