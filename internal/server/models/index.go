package models

// ApplicationStats holds per-status counts. Total is the number of
// applications ever created and equals the sum of the per-status counts.
type ApplicationStats struct {
	Total     int `json:"total"`
	Draft     int `json:"draft"`
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
	Rejected  int `json:"rejected"`
	Withdrawn int `json:"withdrawn"`
}

func (s *ApplicationStats) counter(st Status) *int {
	switch st {
	case StatusDraft:
		return &s.Draft
	case StatusApplied:
		return &s.Applied
	case StatusInterview:
		return &s.Interview
	case StatusOffer:
		return &s.Offer
	case StatusRejected:
		return &s.Rejected
	case StatusWithdrawn:
		return &s.Withdrawn
	}
	return nil
}

// Count returns the counter for st (0 for unknown statuses).
func (s ApplicationStats) Count(st Status) int {
	if c := s.counter(st); c != nil {
		return *c
	}
	return 0
}

// Inc counts one more application in st.
func (s *ApplicationStats) Inc(st Status) {
	s.Total++
	if c := s.counter(st); c != nil {
		*c++
	}
}

// ByStatus returns the counts keyed by status name.
func (s ApplicationStats) ByStatus() map[Status]int {
	out := make(map[Status]int, len(AllStatuses))
	for _, st := range AllStatuses {
		out[st] = s.Count(st)
	}
	return out
}

// ApplicationIndex is the per-user rollup kept next to the records.
//
// Statuses holds the last known status of every indexed application and
// Stats is always recounted from it, so applying the same update twice or
// in a different order converges on the same index.
type ApplicationIndex struct {
	UserID         string            `json:"userId"`
	ApplicationIDs []string          `json:"applicationIds"`
	Statuses       map[string]Status `json:"statuses"`
	Stats          ApplicationStats  `json:"stats"`
}

func NewApplicationIndex(userID string) *ApplicationIndex {
	return &ApplicationIndex{UserID: userID, ApplicationIDs: []string{}, Statuses: map[string]Status{}}
}

func (x *ApplicationIndex) recount() {
	x.Stats = ApplicationStats{}
	for _, id := range x.ApplicationIDs {
		x.Stats.Inc(x.Statuses[id])
	}
}

func (x *ApplicationIndex) Contains(id string) bool {
	for _, v := range x.ApplicationIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Add registers a new application. Adding a known id is a no-op and
// reports false.
func (x *ApplicationIndex) Add(id string, status Status) bool {
	if x.Contains(id) {
		return false
	}
	if x.Statuses == nil {
		x.Statuses = map[string]Status{}
	}
	x.ApplicationIDs = append(x.ApplicationIDs, id)
	x.Statuses[id] = status
	x.recount()
	return true
}

// SetStatus records id's current status. known is false when the index
// does not track id; changed is false when it already had that status.
func (x *ApplicationIndex) SetStatus(id string, status Status) (changed, known bool) {
	cur, ok := x.Statuses[id]
	if !ok || !x.Contains(id) {
		return false, false
	}
	if cur == status {
		return false, true
	}
	x.Statuses[id] = status
	x.recount()
	return true, true
}

// RebuildIndex recomputes an index from the user's records. Order follows
// creation time, ties broken by id.
func RebuildIndex(userID string, apps []*Application) *ApplicationIndex {
	sorted := make([]*Application, len(apps))
	copy(sorted, apps)
	sortByCreated(sorted, false)

	x := NewApplicationIndex(userID)
	for _, a := range sorted {
		if a.UserID != userID {
			continue
		}
		x.Add(a.ID, a.Status)
	}
	return x
}

// Equal compares ids (in order), per-application statuses and counts.
func (x *ApplicationIndex) Equal(o *ApplicationIndex) bool {
	if x.UserID != o.UserID || x.Stats != o.Stats || len(x.ApplicationIDs) != len(o.ApplicationIDs) {
		return false
	}
	if len(x.Statuses) != len(o.Statuses) {
		return false
	}
	for i, id := range x.ApplicationIDs {
		if o.ApplicationIDs[i] != id {
			return false
		}
		if st, ok := o.Statuses[id]; !ok || st != x.Statuses[id] {
			return false
		}
	}
	return true
}
