// Package delays summarizes departure delays from a vesselhistory table.
//
// A delay is ActualDepart minus ScheduledDepart, in minutes. Routes lists the
// departing/arriving terminal pairs seen in the history; Summarize reports the
// trip count, mean and sample standard deviation of delay for one of them.
package delays
