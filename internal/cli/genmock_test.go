package cli

import (
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/sentiment-map/internal/domain"
)

func TestGenmock_DeterministicForSeed(t *testing.T) {
	first, err := execute(t, "genmock", "--seed", "42", "--max-mentions", "200")
	require.NoError(t, err)
	second, err := execute(t, "genmock", "--seed", "42", "--max-mentions", "200")
	require.NoError(t, err)
	other, err := execute(t, "genmock", "--seed", "43", "--max-mentions", "200")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestGenmock_OutputParsesAsSentimentSource(t *testing.T) {
	out, err := execute(t, "genmock", "--seed", "7", "--max-mentions", "300", "--names")
	require.NoError(t, err)

	raw, err := domain.ParseSentimentSource([]byte(out))
	require.NoError(t, err)
	assert.Len(t, raw, len(domain.DepartmentCodes()))

	for code, rec := range raw {
		assert.Equal(t, rec.Positive+rec.Negative+rec.Neutral, rec.TotalMentions, code)
		assert.GreaterOrEqual(t, rec.TotalMentions, 20, code)
		assert.Less(t, rec.TotalMentions, 300, code)
		assert.GreaterOrEqual(t, rec.RawScore, -1.0, code)
		assert.LessOrEqual(t, rec.RawScore, 1.0, code)
	}
	assert.Equal(t, "Paris", raw["75"].Name)
}

func TestGenmock_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "department_sentiment_analysis.json")

	out, err := execute(t, "genmock", "--seed", "3", "--coverage", "0.5", "--max-mentions", "100", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries map[string]mockEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.NotEmpty(t, entries)
	assert.Less(t, len(entries), len(domain.DepartmentCodes()))
}

func TestGenmock_RejectsBadRanges(t *testing.T) {
	_, err := execute(t, "genmock", "--min-mentions", "50", "--max-mentions", "50")
	require.Error(t, err)

	_, err = execute(t, "genmock", "--coverage", "1.5")
	require.Error(t, err)
}

func TestSimulateDepartment_Buckets(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	e := simulateDepartment(rng, 500)

	assert.Equal(t, 500, e.Mentions)
	assert.Equal(t, 500, e.Distribution.Positive+e.Distribution.Neutral+e.Distribution.Negative)
	assert.Positive(t, e.Distribution.Positive)
	assert.Positive(t, e.Distribution.Negative)
	assert.Positive(t, e.Distribution.Neutral)
}

func TestSimulateDepartment_NoMentions(t *testing.T) {
	e := simulateDepartment(rand.New(rand.NewPCG(1, 2)), 0)
	assert.Zero(t, e.AvgSentiment)
	assert.Zero(t, e.Distribution)
}
