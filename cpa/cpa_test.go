package cpa

import (
	"math/rand"
	"os"
	"testing"

	"github.com/btcsuite/btclog/v2"
	"github.com/stretchr/testify/require"
	"github.com/unitrium/02255-projects/rijndael"
	"pgregory.net/rapid"
)

const (
	numTraces  = 200
	numSamples = 5
)

// leakyTraces simulates a device that leaks HW(SubByte(p ^ key)) plus
// Gaussian noise at sample leak and pure noise everywhere else.
func leakyTraces(rng *rand.Rand, key byte, leak int) ([]byte,
	[][]float64) {

	plaintexts := make([]byte, numTraces)
	traces := make([][]float64, numTraces)
	for i := range traces {
		plaintexts[i] = byte(rng.Intn(256))

		traces[i] = make([]float64, numSamples)
		for s := range traces[i] {
			traces[i][s] = rng.NormFloat64()
		}

		hw := HammingWeight(rijndael.SubByte(plaintexts[i] ^ key))
		traces[i][leak] += float64(hw)
	}

	return plaintexts, traces
}

func TestAttackRecoversKey(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.Byte().Draw(rt, "key")
		leak := rapid.IntRange(0, numSamples-1).Draw(rt, "leak")
		seed := rapid.Int64().Draw(rt, "seed")

		plaintexts, traces := leakyTraces(
			rand.New(rand.NewSource(seed)), key, leak,
		)

		res, err := Attack(plaintexts, traces)
		require.NoError(rt, err)
		require.Equal(rt, key, res.Key)
		require.Equal(rt, leak, res.Sample)
		require.Greater(rt, res.Coefficient, 0.5)
	})
}

func TestScoresRankTrueKey(t *testing.T) {
	t.Parallel()

	const key = 0x3c
	plaintexts, traces := leakyTraces(rand.New(rand.NewSource(1)), key, 2)

	scores, err := Scores(plaintexts, traces)
	require.NoError(t, err)

	for k, r := range scores {
		require.Equal(t, byte(k), r.Key)
		if k == key {
			continue
		}
		require.Less(t, r.Coefficient, scores[key].Coefficient)
	}
}

func TestHammingWeight(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, HammingWeight(0x00))
	require.Equal(t, 1, HammingWeight(0x80))
	require.Equal(t, 4, HammingWeight(0x0f))
	require.Equal(t, 8, HammingWeight(0xff))
}

func TestHypotheses(t *testing.T) {
	t.Parallel()

	h := Hypotheses([]byte{0x00, 0x53})
	require.Len(t, h, 2)

	// SubByte(0x00) = 0x63 has weight 4, SubByte(0x53) = 0xed has 6.
	require.Equal(t, 4.0, h[0][0])
	require.Equal(t, 6.0, h[1][0])

	// p ^ k = 0 gives SubByte(0) = 0x63 in every row.
	require.Equal(t, 4.0, h[1][0x53])
}

func TestCorrelation(t *testing.T) {
	t.Parallel()

	x := []float64{1, 2, 3, 4, 5}

	require.InDelta(t, 1.0, Correlation(x, []float64{2, 4, 6, 8, 10}),
		1e-12)
	require.InDelta(t, -1.0, Correlation(x, []float64{5, 4, 3, 2, 1}),
		1e-12)
	require.Zero(t, Correlation(x, []float64{7, 7, 7, 7, 7}))
	require.Zero(t, Correlation(nil, nil))

	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(2, 50).Draw(rt, "n")
		a := make([]float64, n)
		b := make([]float64, n)
		for i := 0; i < n; i++ {
			a[i] = float64(rapid.IntRange(-1000, 1000).Draw(rt, "a"))
			b[i] = float64(rapid.IntRange(-1000, 1000).Draw(rt, "b"))
		}

		c := Correlation(a, b)
		require.LessOrEqual(rt, c, 1.0+1e-9)
		require.GreaterOrEqual(rt, c, -1.0-1e-9)
		require.InDelta(rt, c, Correlation(b, a), 1e-9)
	})
}

func TestInvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Attack(nil, nil)
	require.ErrorIs(t, err, ErrNoTraces)

	_, err = Attack([]byte{1}, [][]float64{{}})
	require.ErrorIs(t, err, ErrNoTraces)

	_, err = Attack([]byte{1, 2}, [][]float64{{0.5}})
	require.ErrorIs(t, err, ErrTraceCount)

	_, err = Attack([]byte{1, 2}, [][]float64{{0.5, 1}, {0.5}})
	require.ErrorIs(t, err, ErrRaggedTraces)
}

func TestLogging(t *testing.T) {
	logger := btclog.NewSLogger(btclog.NewDefaultHandler(os.Stdout))
	logger.SetLevel(btclog.LevelTrace)

	UseLogger(logger)
	defer DisableLog()

	plaintexts, traces := leakyTraces(rand.New(rand.NewSource(7)), 0xa5, 0)

	res, err := Attack(plaintexts, traces)
	require.NoError(t, err)
	require.Equal(t, byte(0xa5), res.Key)
}
