package domain

// SubjectID is the authenticated subject extracted from JWT claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the IdP.
type SubjectID string

// ItineraryID identifies an itinerary. A draft starts with a client-generated value;
// it may be replaced by a server-assigned value after the first successful remote save.
type ItineraryID string

// SpotID identifies a spot entry placed into a trip day.
type SpotID string
