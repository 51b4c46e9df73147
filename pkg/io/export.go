package io

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

// Report is the serialized outcome of one analysis run.
type Report struct {
	RunID      string          `json:"run_id"`
	Object     string          `json:"object"`
	ParamsHash string          `json:"params_hash"`
	CreatedAt  time.Time       `json:"created_at"`
	Points     []ReportPoint   `json:"support_points"`
	Parts      []ReportPart    `json:"partial_objects"`
	Issues     []ReportIssue   `json:"issues"`
	Stats      stability.Stats `json:"stats"`
}

// ReportPoint is a support point.
type ReportPoint struct {
	Cause      stability.Cause `json:"cause"`
	Position   [3]float64      `json:"position"`
	SpotRadius float64         `json:"spot_radius"`
}

// ReportPart is a part that existed while printing.
type ReportPart struct {
	Centroid       [3]float64 `json:"centroid"`
	Volume         float64    `json:"volume"`
	ConnectedToBed bool       `json:"connected_to_bed"`
}

// ReportIssue summarizes one failure mode.
type ReportIssue struct {
	Cause       stability.Cause `json:"cause"`
	Description string          `json:"description"`
	Critical    bool            `json:"critical"`
	Points      int             `json:"points"`
	Parts       int             `json:"parts"`
}

// NewReport converts an analysis result.
func NewReport(runID, object, paramsHash string, res stability.Result, issues []stability.Issue) *Report {
	r := &Report{
		RunID:      runID,
		Object:     object,
		ParamsHash: paramsHash,
		CreatedAt:  time.Now().UTC(),
		Points:     make([]ReportPoint, len(res.SupportPoints)),
		Parts:      make([]ReportPart, len(res.PartialObjects)),
		Issues:     make([]ReportIssue, len(issues)),
		Stats:      res.Stats,
	}
	for i, p := range res.SupportPoints {
		r.Points[i] = ReportPoint{Cause: p.Cause, Position: vec3(p.Position), SpotRadius: p.SpotRadius}
	}
	for i, p := range res.PartialObjects {
		r.Parts[i] = ReportPart{Centroid: vec3(p.Centroid), Volume: p.Volume, ConnectedToBed: p.ConnectedToBed}
	}
	for i, is := range issues {
		r.Issues[i] = ReportIssue{
			Cause:       is.Cause,
			Description: is.Cause.Description(),
			Critical:    is.Critical,
			Points:      len(is.Points),
			Parts:       len(is.Parts),
		}
	}
	return r
}

// SupportPoints converts the report points back.
func (r *Report) SupportPoints() []stability.SupportPoint {
	out := make([]stability.SupportPoint, len(r.Points))
	for i, p := range r.Points {
		out[i] = stability.SupportPoint{
			Cause:      p.Cause,
			Position:   r3.Vec{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]},
			SpotRadius: p.SpotRadius,
		}
	}
	return out
}

func vec3(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// WriteReport encodes r as indented JSON.
func WriteReport(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode report")
	}
	return nil
}

// ExportReport writes r to a JSON file at path.
func ExportReport(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	defer f.Close()
	return WriteReport(r, f)
}

// ReadReport decodes a report written by [WriteReport].
func ReadReport(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode report")
	}
	return &r, nil
}
