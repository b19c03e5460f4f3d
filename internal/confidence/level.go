// SPDX-FileCopyrightText: 2026 api2spec
// SPDX-License-Identifier: FSL-1.1-MIT

package confidence

import "github.com/api2spec/docs2sdk/pkg/types"

// Level is a coarse classification of a confidence score.
type Level int

const (
	MissingData Level = iota
	ReviewNeeded
	Complete
)

// LevelFor classifies score.
func LevelFor(score float64) Level {
	switch {
	case score >= CompleteThreshold:
		return Complete
	case score >= ReviewNeededThreshold:
		return ReviewNeeded
	default:
		return MissingData
	}
}

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case Complete:
		return "Complete"
	case ReviewNeeded:
		return "Review Needed"
	default:
		return "Missing Data"
	}
}

// Color returns the traffic-light color presentation layers use for the level.
func (l Level) Color() string {
	switch l {
	case Complete:
		return "green"
	case ReviewNeeded:
		return "yellow"
	default:
		return "red"
	}
}

// EndpointScore is the score of one endpoint within a Report.
type EndpointScore struct {
	Method string
	Path   string
	Score  float64
	Level  Level
}

// Report summarizes the scores of a specification.
type Report struct {
	Endpoints []EndpointScore
	Score     float64
	Level     Level
}

// Apply scores every endpoint of spec, stores each score in the endpoint's
// ConfidenceScore field and returns the full report.
func Apply(spec *types.APISpecification) Report {
	report := Report{Endpoints: make([]EndpointScore, 0, len(spec.Endpoints))}

	for i := range spec.Endpoints {
		score := ScoreEndpoint(spec.Endpoints[i])
		spec.Endpoints[i].ConfidenceScore = score
		report.Endpoints = append(report.Endpoints, EndpointScore{
			Method: string(spec.Endpoints[i].Method),
			Path:   spec.Endpoints[i].Path,
			Score:  score,
			Level:  LevelFor(score),
		})
	}

	report.Score = ScoreSpecification(spec)
	report.Level = LevelFor(report.Score)
	return report
}

// LowConfidence returns the endpoints whose level is below Complete.
func (r Report) LowConfidence() []EndpointScore {
	var low []EndpointScore
	for _, e := range r.Endpoints {
		if e.Level != Complete {
			low = append(low, e)
		}
	}
	return low
}
