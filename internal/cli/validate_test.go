package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRegions = `{"type":"FeatureCollection","features":[
  {"type":"Feature","properties":{"code":"75","nom":"Paris"},
   "geometry":{"type":"Polygon","coordinates":[[[2.22,48.81],[2.47,48.81],[2.47,48.90],[2.22,48.90],[2.22,48.81]]]}},
  {"type":"Feature","properties":{"code":"13","nom":"Bouches-du-Rhône"},
   "geometry":{"type":"Polygon","coordinates":[[[4.23,43.16],[5.81,43.16],[5.81,43.92],[4.23,43.92],[4.23,43.16]]]}},
  {"type":"Feature","properties":{"code":"69","nom":"Rhône"},
   "geometry":{"type":"Polygon","coordinates":[[[4.24,45.45],[5.16,45.45],[5.16,46.30],[4.24,46.30],[4.24,45.45]]]}}
]}`

const validSentiment = `{
  "75": {"name": "Paris", "mentions": 10, "avg_sentiment": 0.05,
         "sentiment_distribution": {"positive": 4, "neutral": 5, "negative": 1}},
  "13": {"name": "Bouches-du-Rhône", "mentions": 6, "avg_sentiment": -0.02,
         "sentiment_distribution": {"positive": 1, "neutral": 3, "negative": 2}}
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestValidate_Passes(t *testing.T) {
	sentiment := writeTemp(t, "sentiment.json", validSentiment)
	regions := writeTemp(t, "departments.geojson", validRegions)

	out, err := execute(t, "validate", "--sentiment", sentiment, "--regions", regions)
	require.NoError(t, err)

	assert.Contains(t, out, "All validations passed.")
	assert.NotContains(t, out, "FAIL")
	assert.Contains(t, out, "Departments: 2 with sentiment, 3 with boundaries")
	assert.Contains(t, out, "1 of 3 departments have no sentiment data")
}

func TestValidate_SentimentWithoutBoundary(t *testing.T) {
	sentiment := writeTemp(t, "sentiment.json", `{
  "29": {"mentions": 3, "avg_sentiment": 0.1,
         "sentiment_distribution": {"positive": 1, "neutral": 1, "negative": 1}}
}`)
	regions := writeTemp(t, "departments.geojson", validRegions)

	out, err := execute(t, "validate", "--sentiment", sentiment, "--regions", regions)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "department 29 has sentiment but no boundary")
	assert.Contains(t, out, "Validation FAILED.")
}

func TestValidate_MalformedSentiment(t *testing.T) {
	sentiment := writeTemp(t, "sentiment.json", `[1, 2, 3]`)
	regions := writeTemp(t, "departments.geojson", validRegions)

	out, err := execute(t, "validate", "--sentiment", sentiment, "--regions", regions)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "Phase 1: Sentiment schema")
	assert.Contains(t, out, "not a JSON object")
	assert.Contains(t, out, "skipped: a source failed to parse")
}

func TestValidate_DuplicateAndUnknownCodes(t *testing.T) {
	sentiment := writeTemp(t, "sentiment.json", `{
  "99": {"mentions": 1, "avg_sentiment": 0.3,
         "sentiment_distribution": {"positive": 1, "neutral": 0, "negative": 0}}
}`)
	regions := writeTemp(t, "departments.geojson", `{"type":"FeatureCollection","features":[
  {"type":"Feature","properties":{"code":"75"},"geometry":{"type":"Polygon","coordinates":[[[2.2,48.8],[2.4,48.8],[2.4,48.9],[2.2,48.8]]]}},
  {"type":"Feature","properties":{"code":"75"},"geometry":{"type":"Polygon","coordinates":[[[2.2,48.8],[2.4,48.8],[2.4,48.9],[2.2,48.8]]]}}
]}`)

	out, err := execute(t, "validate", "--sentiment", sentiment, "--regions", regions)
	require.ErrorIs(t, err, ErrValidationFailed)
	assert.Contains(t, out, "department 99: unknown department code")
	assert.Contains(t, out, "department 75: duplicate feature")
	assert.Contains(t, out, "department 75: feature has no nom")
}

func TestValidate_MissingFile(t *testing.T) {
	regions := writeTemp(t, "departments.geojson", validRegions)

	_, err := execute(t, "validate", "--sentiment", filepath.Join(t.TempDir(), "absent.json"), "--regions", regions)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidationFailed)
}

func TestValidateNormalization_Degenerate(t *testing.T) {
	raw, p := validateSentimentSchema([]byte(`{
  "75": {"mentions": 1, "avg_sentiment": 0.2, "sentiment_distribution": {"positive": 1, "neutral": 0, "negative": 0}}
}`))
	require.True(t, p.passed())

	norm := validateNormalization(raw)
	assert.True(t, norm.passed())
	require.Len(t, norm.notes, 1)
	assert.Contains(t, norm.notes[0], "every department scores 0.5")
}
