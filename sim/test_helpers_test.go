package sim

import "time"

var testBase = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

// rec builds a Record offset from testBase, with start offset and duration
// both in minutes.
func rec(caseID, activity string, startMin, durMin float64) Record {
	start := testBase.Add(time.Duration(startMin * float64(time.Minute)))
	return Record{
		CaseID:   caseID,
		Activity: activity,
		Start:    start,
		End:      start.Add(time.Duration(durMin * float64(time.Minute))),
	}
}

// claimLog is the canonical two-case fixture used across the engine tests:
//
//	case 1: A(10) -> B(5) -> C(3)
//	case 2: A(8)  -> B(6) -> D(2)
//
// Start distribution {A:1}; from A {B:1}; from B {C:0.5, D:0.5}; C and D
// terminal.
func claimLog() *EventLog {
	return NewEventLog([]Record{
		rec("case-1", "A", 0, 10),
		rec("case-1", "B", 10, 5),
		rec("case-1", "C", 15, 3),
		rec("case-2", "A", 0, 8),
		rec("case-2", "B", 8, 6),
		rec("case-2", "D", 14, 2),
	})
}

// claimModel builds the transition table and profiles for claimLog.
func claimModel() (*EventLog, *TransitionTable, map[string]DurationProfile) {
	log := claimLog()
	table, profiles, err := BuildModel(log)
	if err != nil {
		panic(err)
	}
	return log, table, profiles
}
