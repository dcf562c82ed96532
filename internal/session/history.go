package session

import "time"

// Record is a completed timer or stopwatch session.
type Record struct {
	ID        int64
	Duration  int64 // seconds
	Timestamp time.Time
	Label     string
	Logged    bool
}

func (r Record) End() time.Time {
	return r.Timestamp.Add(time.Duration(r.Duration) * time.Second)
}

// History keeps completed sessions newest first. IDs derive from the creation
// time in milliseconds and are strictly increasing.
type History struct {
	records []Record
	lastID  int64
}

func (h *History) Add(duration int64, ts time.Time, label string) Record {
	id := ts.UnixMilli()
	if id <= h.lastID {
		id = h.lastID + 1
	}
	h.lastID = id

	r := Record{ID: id, Duration: duration, Timestamp: ts, Label: label}
	h.records = append([]Record{r}, h.records...)
	return r
}

func (h *History) All() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) Len() int { return len(h.records) }

func (h *History) Get(id int64) (Record, bool) {
	if i := h.index(id); i >= 0 {
		return h.records[i], true
	}
	return Record{}, false
}

// Update rewrites the start, duration and label of a record.
func (h *History) Update(id int64, start time.Time, duration int64, label string) bool {
	i := h.index(id)
	if i < 0 || duration < 0 {
		return false
	}
	h.records[i].Timestamp = start
	h.records[i].Duration = duration
	h.records[i].Label = label
	return true
}

func (h *History) MarkLogged(id int64) bool {
	i := h.index(id)
	if i < 0 {
		return false
	}
	h.records[i].Logged = true
	return true
}

func (h *History) Delete(id int64) bool {
	i := h.index(id)
	if i < 0 {
		return false
	}
	h.records = append(h.records[:i], h.records[i+1:]...)
	return true
}

func (h *History) index(id int64) int {
	for i, r := range h.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
