package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/couchcryptid/sentiment-map/internal/domain"
)

// Detail is the info panel content for one selected department.
type Detail struct {
	Code        string             `json:"code"`
	Name        string             `json:"name"`
	HasData     bool               `json:"has_data"`
	Synthesized bool               `json:"synthesized,omitempty"`
	Description string             `json:"description,omitempty"`
	Score       float64            `json:"score"`
	Percent     string             `json:"percent,omitempty"`
	Background  string             `json:"background,omitempty"`
	TextColor   string             `json:"text_color,omitempty"`
	RawScore    string             `json:"raw_score,omitempty"`
	Total       int                `json:"total_mentions"`
	Positive    int                `json:"positive"`
	Negative    int                `json:"negative"`
	Neutral     int                `json:"neutral"`
	Label       *domain.LabelPoint `json:"label,omitempty"`
}

// Detail builds the view for a department code. found is false when the code
// matches neither a region nor a record; the returned view then carries no
// data and uses the code as its name.
func (r *Renderer) Detail(code string) (d Detail, found bool) {
	region, hasRegion := r.regions.Lookup(code)

	var (
		rec     domain.SentimentRecord
		hasData bool
	)
	if hasRegion {
		rec, hasData = r.resolve(code, region.Name)
	} else {
		rec, hasData = r.records.Lookup(code)
	}

	d = Detail{Code: code, Name: region.Name, Label: region.Label}
	if d.Name == "" {
		d.Name = rec.Name
	}
	if d.Name == "" {
		d.Name = code
	}
	if !hasData {
		return d, hasRegion
	}

	total := rec.TotalMentions
	if total == 0 {
		total = rec.Positive + rec.Negative + rec.Neutral
	}

	d.HasData = true
	d.Synthesized = rec.Synthesized
	d.Description = domain.Describe(rec.Score)
	d.Score = rec.Score
	d.Percent = fmt.Sprintf("%.1f%%", rec.Score*100)
	d.Background = rec.Color.Hex()
	d.TextColor = domain.ContrastText(rec.Score)
	d.RawScore = fmt.Sprintf("%.3f", rec.RawScore)
	d.Total = total
	d.Positive = rec.Positive
	d.Negative = rec.Negative
	d.Neutral = rec.Neutral
	return d, true
}

var panelTemplate = template.Must(template.New("panel").Parse(`<h3>{{.Name}} ({{.Code}})</h3>
{{- if .HasData}}
<div class="sentiment-score" style="background-color: {{.Background}}; color: {{.TextColor}}">
    Sentiment: {{.Description}} ({{.Percent}})
</div>
<div class="stats">
    <div class="stat-item"><span>Raw sentiment score:</span><span>{{.RawScore}}</span></div>
    <div class="stat-item"><span>Total mentions:</span><span>{{.Total}}</span></div>
    <div class="stat-item"><span>Positive mentions:</span><span>{{.Positive}}</span></div>
    <div class="stat-item"><span>Negative mentions:</span><span>{{.Negative}}</span></div>
    <div class="stat-item"><span>Neutral mentions:</span><span>{{.Neutral}}</span></div>
</div>
{{- if .Synthesized}}
<p class="synthesized">Simulated data: this department is missing from the analysis.</p>
{{- end}}
{{- else}}
<p>No sentiment data available for this department.</p>
{{- end}}
`))

// Panel renders a detail view as the info panel HTML fragment.
func Panel(d Detail) ([]byte, error) {
	var buf bytes.Buffer
	if err := panelTemplate.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render panel for %s: %w", d.Code, err)
	}
	return buf.Bytes(), nil
}
