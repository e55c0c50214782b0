package domain

import "sort"

// SpotEntry is a tourism location placed into a trip day.
//
// The JSON tags define the wire and draft-slot serialization shape. Optional numeric
// fields are pointers so "absent" stays distinguishable from zero.
type SpotEntry struct {
	ID       SpotID   `json:"id"`
	Title    string   `json:"title"`
	Image    string   `json:"image,omitempty"`
	Location string   `json:"location,omitempty"`
	// Rating is domain-free at this layer; no 0-5 bound is enforced.
	Rating *float64 `json:"rating,omitempty"`
	// Time is a display time in "HH:mm"; empty means unset. Defaulting, if any,
	// happens at higher layers, never at storage level.
	Time string `json:"time,omitempty"`
	// PricePerNight is the cached nightly cost. When nil, cost projections use
	// FallbackPricePerNight(Title); the fallback is never written back here.
	PricePerNight *float64 `json:"pricePerNight,omitempty"`
	Latitude      *float64 `json:"lat,omitempty"`
	Longitude     *float64 `json:"lng,omitempty"`
}

// DaySpots maps a 1-based day index to the ordered spots of that day.
// Order within a day is display/visit order; no implicit sort is applied.
type DaySpots map[int][]SpotEntry

// Itinerary is the aggregate trip draft: dates plus day-indexed spot lists.
type Itinerary struct {
	ID    ItineraryID `json:"id"`
	Title string      `json:"title,omitempty"`
	// Start and End are ISO calendar dates ("YYYY-MM-DD"). Empty means unset.
	// Unparseable values are tolerated; derived helpers fall back (see schedule.go).
	Start string   `json:"start,omitempty"`
	End   string   `json:"end,omitempty"`
	Days  DaySpots `json:"days"`
}

// Normalized returns a deep copy with Days defaulted to {1: []} when absent.
// It changes nothing else and is idempotent.
func (it Itinerary) Normalized() Itinerary {
	out := it.Clone()
	if len(out.Days) == 0 {
		out.Days = DaySpots{1: []SpotEntry{}}
	}
	return out
}

// Clone deep-copies the itinerary. Mutating operations always work on clones so a
// previously returned value is never changed underneath its holder.
func (it Itinerary) Clone() Itinerary {
	cp := it
	cp.Days = it.Days.Clone()
	return cp
}

// Clone deep-copies the day mapping, preserving in-day order.
func (d DaySpots) Clone() DaySpots {
	if d == nil {
		return nil
	}
	out := make(DaySpots, len(d))
	for day, spots := range d {
		cs := make([]SpotEntry, len(spots))
		for i, s := range spots {
			cs[i] = s.Clone()
		}
		out[day] = cs
	}
	return out
}

// SortedDays returns the day indices in ascending order.
func (d DaySpots) SortedDays() []int {
	out := make([]int, 0, len(d))
	for day := range d {
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}

// Clone copies the entry, including its pointer-held optional fields.
func (s SpotEntry) Clone() SpotEntry {
	cp := s
	cp.Rating = cloneFloatPtr(s.Rating)
	cp.PricePerNight = cloneFloatPtr(s.PricePerNight)
	cp.Latitude = cloneFloatPtr(s.Latitude)
	cp.Longitude = cloneFloatPtr(s.Longitude)
	return cp
}

func cloneFloatPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
