package httpapi

import (
	"context"

	"github.com/lakbay-tourism/itinerary-api/internal/domain"
)

type subjectKey struct{}

// WithSubject stores the authenticated subject in the request context.
func WithSubject(ctx context.Context, subject domain.SubjectID) context.Context {
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromContext returns the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (domain.SubjectID, bool) {
	v, ok := ctx.Value(subjectKey{}).(domain.SubjectID)
	return v, ok && v != ""
}
