// Package cpa implements correlation power analysis against the first
// AES SubBytes operation.
//
// The leakage model predicts that the power drawn while the S-box output
// is handled grows with its Hamming weight. For every key byte guess k
// the hypothesis HW(SubByte(p ^ k)) is computed over all plaintext bytes
// p, and the guess whose hypothesis column correlates best (Pearson) with
// some sample point of the measured traces is taken as the key byte.
//
// Loading traces from disk is left to the caller.
package cpa

import (
	"errors"
	"fmt"
	"math"
	"math/bits"

	"github.com/davecgh/go-spew/spew"
	"github.com/unitrium/02255-projects/rijndael"
)

// Guesses is the number of key byte candidates.
const Guesses = 256

var (
	// ErrNoTraces is returned when no measurements are supplied.
	ErrNoTraces = errors.New("cpa: no traces")

	// ErrTraceCount is returned when the number of traces differs from
	// the number of plaintext bytes.
	ErrTraceCount = errors.New("cpa: trace count does not match " +
		"plaintext count")

	// ErrRaggedTraces is returned when traces have differing lengths.
	ErrRaggedTraces = errors.New("cpa: traces have differing sample " +
		"counts")
)

// Result is the outcome of an attack on one key byte.
type Result struct {
	// Key is the most likely key byte.
	Key byte

	// Coefficient is the Pearson correlation achieved by Key.
	Coefficient float64

	// Sample is the trace sample index where Coefficient was reached.
	Sample int
}

// HammingWeight returns the number of set bits in b.
func HammingWeight(b byte) int {
	return bits.OnesCount8(b)
}

// Hypotheses builds the hypothesis matrix: row i, column k holds
// HW(SubByte(plaintexts[i] ^ k)).
func Hypotheses(plaintexts []byte) [][Guesses]float64 {
	h := make([][Guesses]float64, len(plaintexts))
	for i, p := range plaintexts {
		for k := 0; k < Guesses; k++ {
			h[i][k] = float64(HammingWeight(
				rijndael.SubByte(p ^ byte(k)),
			))
		}
	}
	return h
}

// Correlation returns the Pearson correlation coefficient of x and y,
// which must have the same length. It is 0 when either series is
// constant.
func Correlation(x, y []float64) float64 {
	n := float64(len(x))
	if n == 0 {
		return 0
	}

	var sumX, sumY float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
	}
	avgX, avgY := sumX/n, sumY/n

	var num, denX, denY float64
	for i := range x {
		dx, dy := x[i]-avgX, y[i]-avgY
		num += dx * dy
		denX += dx * dx
		denY += dy * dy
	}

	den := math.Sqrt(denX * denY)
	if den == 0 {
		return 0
	}
	return num / den
}

// validate checks the shape of the inputs and returns the number of
// samples per trace.
func validate(plaintexts []byte, traces [][]float64) (int, error) {
	if len(traces) == 0 {
		return 0, ErrNoTraces
	}
	if len(traces) != len(plaintexts) {
		return 0, fmt.Errorf("%d traces, %d plaintexts: %w",
			len(traces), len(plaintexts), ErrTraceCount)
	}

	samples := len(traces[0])
	if samples == 0 {
		return 0, ErrNoTraces
	}
	for i, tr := range traces {
		if len(tr) != samples {
			return 0, fmt.Errorf("trace %d has %d samples, want "+
				"%d: %w", i, len(tr), samples, ErrRaggedTraces)
		}
	}

	return samples, nil
}

// Scores returns, for every key guess, the highest correlation between
// its hypothesis column and any sample point, along with that sample.
// traces[i] is the measurement taken while plaintexts[i] was processed.
func Scores(plaintexts []byte, traces [][]float64) ([Guesses]Result,
	error) {

	var scores [Guesses]Result

	samples, err := validate(plaintexts, traces)
	if err != nil {
		return scores, err
	}

	h := Hypotheses(plaintexts)

	// Transpose once so each column is contiguous.
	cols := make([][]float64, samples)
	for s := range cols {
		cols[s] = make([]float64, len(traces))
		for i := range traces {
			cols[s][i] = traces[i][s]
		}
	}

	hyp := make([]float64, len(plaintexts))
	for k := 0; k < Guesses; k++ {
		for i := range h {
			hyp[i] = h[i][k]
		}

		best := Result{Key: byte(k), Coefficient: math.Inf(-1)}
		for s, col := range cols {
			c := Correlation(hyp, col)
			if c > best.Coefficient {
				best.Coefficient = c
				best.Sample = s
			}
		}
		scores[k] = best
	}

	return scores, nil
}

// Attack returns the key byte guess with the highest correlation.
func Attack(plaintexts []byte, traces [][]float64) (Result, error) {
	scores, err := Scores(plaintexts, traces)
	if err != nil {
		return Result{}, err
	}

	best := scores[0]
	for _, r := range scores[1:] {
		if r.Coefficient > best.Coefficient {
			best = r
		}
	}

	log.Debugf("Most likely key byte 0x%02x with coefficient %.4f at "+
		"sample %d over %d traces", best.Key, best.Coefficient,
		best.Sample, len(traces))
	log.Tracef("All scores: %v", newLogClosure(func() string {
		return spew.Sdump(scores)
	}))

	return best, nil
}
