package itineraryclient

import "errors"

var ErrNotFound = errors.New("itinerary not found")
