package sim

import (
	"sort"
	"time"
)

// Record is a single cleaned event-log row as delivered by the ingestion
// layer: timestamps already comparable, End >= Start, Activity non-empty.
type Record struct {
	CaseID   string    `json:"case_id"`
	Activity string    `json:"activity"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// DurationMinutes returns the record's duration in minutes.
func (r Record) DurationMinutes() float64 {
	return r.End.Sub(r.Start).Minutes()
}

// ActivityInstance is one timed occurrence of an activity within a case.
type ActivityInstance struct {
	Activity string    `json:"activity"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Duration returns End - Start. Non-negative for any instance that passed
// ingestion cleaning.
func (a ActivityInstance) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// DurationMinutes returns the instance duration in minutes, the unit used
// by all duration statistics in this package.
func (a ActivityInstance) DurationMinutes() float64 {
	return a.Duration().Minutes()
}

// Case is one end-to-end process instance: a non-empty sequence of
// activity instances ordered by start time (ties keep original log order).
type Case struct {
	ID        string             `json:"id"`
	Instances []ActivityInstance `json:"instances"`
}

// TotalDurationMinutes sums the durations of all instances in the case.
func (c Case) TotalDurationMinutes() float64 {
	total := 0.0
	for _, inst := range c.Instances {
		total += inst.DurationMinutes()
	}
	return total
}

// Activities returns the case's activity sequence in time order.
func (c Case) Activities() []string {
	names := make([]string, len(c.Instances))
	for i, inst := range c.Instances {
		names[i] = inst.Activity
	}
	return names
}

// EventLog is an ordered, immutable collection of cases. Build one with
// NewEventLog and treat it as read-only for the rest of the session.
type EventLog struct {
	Cases []Case `json:"cases"`
}

// NewEventLog groups flat records into cases. Cases appear in order of
// first occurrence in the input; within a case, instances are sorted by
// start time with a stable sort, so equal timestamps keep input order.
func NewEventLog(records []Record) *EventLog {
	byCase := make(map[string]int)
	log := &EventLog{}

	for _, rec := range records {
		idx, ok := byCase[rec.CaseID]
		if !ok {
			idx = len(log.Cases)
			byCase[rec.CaseID] = idx
			log.Cases = append(log.Cases, Case{ID: rec.CaseID})
		}
		log.Cases[idx].Instances = append(log.Cases[idx].Instances, ActivityInstance{
			Activity: rec.Activity,
			Start:    rec.Start,
			End:      rec.End,
		})
	}

	for i := range log.Cases {
		insts := log.Cases[i].Instances
		sort.SliceStable(insts, func(a, b int) bool {
			return insts[a].Start.Before(insts[b].Start)
		})
	}

	return log
}

// NumEvents returns the total number of activity instances across cases.
func (l *EventLog) NumEvents() int {
	n := 0
	for _, c := range l.Cases {
		n += len(c.Instances)
	}
	return n
}

// ActivityNames returns the distinct activity names in the log, sorted.
func (l *EventLog) ActivityNames() []string {
	seen := make(map[string]struct{})
	for _, c := range l.Cases {
		for _, inst := range c.Instances {
			seen[inst.Activity] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
