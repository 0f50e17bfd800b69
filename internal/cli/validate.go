package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/sentiment-map/internal/adapter/source"
	"github.com/couchcryptid/sentiment-map/internal/domain"
)

// ErrValidationFailed is returned when at least one phase reports errors.
var ErrValidationFailed = errors.New("validation failed")

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

var validateOpts struct {
	sentiment string
	regions   string
	timeout   time.Duration
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the sentiment and boundary sources before serving them",
	Long: `validate fetches both sources (local path or http(s) URL), decodes them
with the same parsers the service uses, and reports each check as PASS or FAIL.
It exits non-zero when any check fails.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		fmt.Fprintln(w, "=== Sentiment Map Source Validation ===")
		fmt.Fprintln(w)

		sentimentData, err := source.New(validateOpts.sentiment, validateOpts.timeout, logger).Fetch(ctx)
		if err != nil {
			return fmt.Errorf("load sentiment source: %w", err)
		}
		regionData, err := source.New(validateOpts.regions, validateOpts.timeout, logger).Fetch(ctx)
		if err != nil {
			return fmt.Errorf("load region source: %w", err)
		}

		raw, sentimentPhase := validateSentimentSchema(sentimentData)
		regions, regionPhase := validateRegionSchema(regionData)
		phases := []*phase{
			sentimentPhase,
			regionPhase,
			validateCoverage(raw, regions),
			validateNormalization(raw),
		}

		if !report(w, phases, len(raw), len(regions)) {
			return ErrValidationFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	f := validateCmd.Flags()
	f.StringVar(&validateOpts.sentiment, "sentiment",
		sharedcfg.EnvOrDefault("SENTIMENT_SOURCE", "./department_sentiment_analysis.json"), "sentiment analysis path or URL")
	f.StringVar(&validateOpts.regions, "regions",
		sharedcfg.EnvOrDefault("REGION_SOURCE", "./data/departments.geojson"), "department GeoJSON path or URL")
	f.DurationVar(&validateOpts.timeout, "timeout", 30*time.Second, "fetch timeout for URL sources")
}

func report(w io.Writer, phases []*phase, records, regions int) bool {
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-40s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Departments: %d with sentiment, %d with boundaries\n", records, regions)

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.notes) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Fprintf(w, "  note: %s\n", n)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
	} else {
		fmt.Fprintln(w, "\nValidation FAILED.")
	}
	return allPassed
}

// ── Phase 1: Sentiment schema ──

func validateSentimentSchema(data []byte) (map[string]domain.RawSentimentRecord, *phase) {
	p := &phase{name: "Phase 1: Sentiment schema"}

	raw, err := domain.ParseSentimentSource(data)
	if err != nil {
		p.errorf("%v", err)
		return nil, p
	}
	if len(raw) == 0 {
		p.notef("source is an empty object; every department will be synthesized or grey")
	}
	for _, code := range sortedCodes(raw) {
		rec := raw[code]
		if _, ok := domain.DepartmentName(code); !ok {
			p.errorf("department %s: unknown department code", code)
		}
		if sum := rec.Positive + rec.Negative + rec.Neutral; sum != rec.TotalMentions {
			p.notef("department %s: mentions %d differ from distribution total %d", code, rec.TotalMentions, sum)
		}
	}
	return raw, p
}

// ── Phase 2: Region schema ──

func validateRegionSchema(data []byte) ([]domain.RegionFeature, *phase) {
	p := &phase{name: "Phase 2: Region schema (GeoJSON)"}

	regions, err := domain.ParseRegionCollection(data)
	if err != nil {
		p.errorf("%v", err)
		return nil, p
	}
	if len(regions) == 0 {
		p.errorf("feature collection has no departments")
	}

	seen := make(map[string]bool, len(regions))
	for _, r := range regions {
		if seen[r.Code] {
			p.errorf("department %s: duplicate feature", r.Code)
		}
		seen[r.Code] = true
		if r.Geometry.Bounds().IsEmpty() {
			p.errorf("department %s: geometry has no coordinates", r.Code)
		}
		if r.Name == "" {
			p.notef("department %s: feature has no nom", r.Code)
		}
	}
	return regions, p
}

// ── Phase 3: Coverage ──

func validateCoverage(raw map[string]domain.RawSentimentRecord, regions []domain.RegionFeature) *phase {
	p := &phase{name: "Phase 3: Coverage (sentiment vs boundaries)"}
	if raw == nil || regions == nil {
		p.errorf("skipped: a source failed to parse")
		return p
	}

	drawn := make(map[string]bool, len(regions))
	var missing int
	for _, r := range regions {
		drawn[r.Code] = true
		if _, ok := raw[r.Code]; !ok {
			missing++
		}
	}
	for _, code := range sortedCodes(raw) {
		if !drawn[code] {
			p.errorf("department %s has sentiment but no boundary", code)
		}
	}
	if missing > 0 {
		p.notef("%d of %d departments have no sentiment data", missing, len(regions))
	}
	return p
}

// ── Phase 4: Normalisation ──

func validateNormalization(raw map[string]domain.RawSentimentRecord) *phase {
	p := &phase{name: "Phase 4: Normalisation bounds"}
	if len(raw) == 0 {
		return p
	}

	scored := domain.Normalize(raw)
	rng, _ := domain.RawScoreRange(raw)
	best, worst, _ := domain.Extremes(scored)

	for _, code := range sortedCodes(scored) {
		if s := scored[code].Score; s < 0 || s > 1 {
			p.errorf("department %s: score %g outside [0, 1]", code, s)
		}
	}
	if rng.Degenerate() {
		p.notef("all raw scores equal %g; every department scores %g", rng.Min, domain.DegenerateScore)
		return p
	}
	if best.Score != 1 {
		p.errorf("highest raw score maps to %g, want 1", best.Score)
	}
	if worst.Score != 0 {
		p.errorf("lowest raw score maps to %g, want 0", worst.Score)
	}
	return p
}

func sortedCodes[V any](m map[string]V) []string {
	codes := make([]string, 0, len(m))
	for code := range m {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}
