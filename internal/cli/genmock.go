package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/sentiment-map/internal/domain"
)

// Comment polarity above polarityCutoff counts as positive, below its
// negation as negative, and neutral otherwise.
const polarityCutoff = 0.1

type mockDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type mockEntry struct {
	Name         string           `json:"name,omitempty"`
	Mentions     int              `json:"mentions"`
	Distribution mockDistribution `json:"sentiment_distribution"`
	AvgSentiment float64          `json:"avg_sentiment"`
}

type mockOptions struct {
	seed        uint64
	minMentions int
	maxMentions int
	coverage    float64
	names       bool
}

var genmockOpts mockOptions

var genmockCmd = &cobra.Command{
	Use:   "genmock",
	Short: "Generate a mock department_sentiment_analysis.json",
	Long: `genmock simulates per-comment polarity for every French department and
aggregates it the way the comment analysis does: each comment is bucketed as
positive, negative, or neutral around ±0.1, and avg_sentiment is the mean
polarity. The same seed always produces the same file.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, _ := cmd.Flags().GetString("out")

		entries, err := generateMock(genmockOpts)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("encode mock data: %w", err)
		}
		data = append(data, '\n')

		if out == "" || out == "-" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		logger.Info("mock sentiment data written", "path", out, "departments", len(entries), "seed", genmockOpts.seed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(genmockCmd)

	f := genmockCmd.Flags()
	f.String("out", "-", "output path, - for stdout")
	f.Uint64Var(&genmockOpts.seed, "seed", 1, "random seed")
	f.IntVar(&genmockOpts.minMentions, "min-mentions", 20, "minimum comments per department")
	f.IntVar(&genmockOpts.maxMentions, "max-mentions", 2000, "maximum comments per department (exclusive)")
	f.Float64Var(&genmockOpts.coverage, "coverage", 1, "fraction of departments to include, 0-1")
	f.BoolVar(&genmockOpts.names, "names", false, "include department names")
}

func generateMock(opts mockOptions) (map[string]mockEntry, error) {
	if opts.minMentions < 0 || opts.maxMentions <= opts.minMentions {
		return nil, errors.New("need 0 <= min-mentions < max-mentions")
	}
	if opts.coverage < 0 || opts.coverage > 1 {
		return nil, errors.New("coverage must be between 0 and 1")
	}

	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x5eed))
	entries := make(map[string]mockEntry)

	for _, code := range domain.DepartmentCodes() {
		if rng.Float64() >= opts.coverage {
			continue
		}
		entry := simulateDepartment(rng, opts.minMentions+rng.IntN(opts.maxMentions-opts.minMentions))
		if opts.names {
			entry.Name, _ = domain.DepartmentName(code)
		}
		entries[code] = entry
	}
	return entries, nil
}

func simulateDepartment(rng *rand.Rand, mentions int) mockEntry {
	bias := rng.NormFloat64() * 0.06

	var (
		e   mockEntry
		sum float64
	)
	e.Mentions = mentions
	for range mentions {
		p := math.Max(-1, math.Min(1, bias+rng.NormFloat64()*0.25))
		sum += p
		switch {
		case p > polarityCutoff:
			e.Distribution.Positive++
		case p < -polarityCutoff:
			e.Distribution.Negative++
		default:
			e.Distribution.Neutral++
		}
	}
	if mentions > 0 {
		e.AvgSentiment = math.Round(sum/float64(mentions)*1e6) / 1e6
	}
	return e
}
