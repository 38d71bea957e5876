package registration

import (
	"context"

	"github.com/Stranger261/hospital-er-api/internal/model"
)

// FaceMatcher compares a captured image against stored patient face data and
// returns the best candidate with a confidence score. Implementations wrap
// an external recognition provider; the service only consumes scores.
type FaceMatcher interface {
	BestMatch(ctx context.Context, imageBase64 string, candidates []*model.Patient) (*model.Patient, float64, error)
}

// NoopMatcher never matches. Used when no recognition provider is
// configured; recognition endpoints then always report no match.
type NoopMatcher struct{}

func (NoopMatcher) BestMatch(context.Context, string, []*model.Patient) (*model.Patient, float64, error) {
	return nil, 0, nil
}
