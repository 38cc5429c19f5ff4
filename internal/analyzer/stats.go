package analyzer

import (
	"math"
	"strconv"
)

// describe computes per-column summary statistics in the shape of a
// dataframe describe() table: count/unique/top/freq for every column,
// mean/std/min/max only where all present values parse as numbers.
func describe(f *frame) *frame {
	statNames := []string{"count", "unique", "top", "freq", "mean", "std", "min", "max"}
	out := &frame{columns: append([]string{""}, f.columns...)}
	cells := make(map[string][]string, len(f.columns))
	for ci := range f.columns {
		cells[f.columns[ci]] = columnStats(columnValues(f, ci))
	}
	for si, name := range statNames {
		row := make([]string, 0, len(out.columns))
		row = append(row, name)
		for _, c := range f.columns {
			row = append(row, cells[c][si])
		}
		out.rows = append(out.rows, row)
	}
	return out
}

func columnValues(f *frame, ci int) []string {
	var vals []string
	for _, row := range f.rows {
		if ci < len(row) && row[ci] != "" {
			vals = append(vals, row[ci])
		}
	}
	return vals
}

// columnStats returns the eight cells for one column, aligned with the
// stat-name order in describe. Empty string stands in for "not applicable".
func columnStats(vals []string) []string {
	count := strconv.Itoa(len(vals))
	uniq := map[string]int{}
	top, freq := "", 0
	for _, v := range vals {
		uniq[v]++
		if uniq[v] > freq {
			top, freq = v, uniq[v]
		}
	}
	unique := strconv.Itoa(len(uniq))
	freqCell := ""
	if freq > 0 {
		freqCell = strconv.Itoa(freq)
	}

	nums := make([]float64, 0, len(vals))
	for _, v := range vals {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			nums = nil
			break
		}
		nums = append(nums, n)
	}
	mean, std, min, max := "", "", "", ""
	if len(nums) > 0 {
		sum := 0.0
		lo, hi := nums[0], nums[0]
		for _, n := range nums {
			sum += n
			if n < lo {
				lo = n
			}
			if n > hi {
				hi = n
			}
		}
		m := sum / float64(len(nums))
		mean = formatFloat(m)
		min = formatFloat(lo)
		max = formatFloat(hi)
		if len(nums) > 1 {
			ss := 0.0
			for _, n := range nums {
				ss += (n - m) * (n - m)
			}
			std = formatFloat(math.Sqrt(ss / float64(len(nums)-1)))
		}
	}
	return []string{count, unique, top, freqCell, mean, std, min, max}
}
