package event

import (
	"strconv"

	apperrors "github.com/louisbranch/alchemists/internal/platform/errors"
)

// Log is the ordered, append-only sequence of recorded events. The only
// mutation besides Append is deleting an entry by index.
type Log struct {
	events []Event
}

// NewLog returns a log holding events in order.
func NewLog(events ...Event) *Log {
	l := &Log{}
	l.events = append(l.events, events...)
	return l
}

// Append adds evt to the end of the log and returns its index.
func (l *Log) Append(evt Event) int {
	l.events = append(l.events, evt)
	return len(l.events) - 1
}

// Delete removes the event at index, keeping the order of the rest.
func (l *Log) Delete(index int) (Event, error) {
	if index < 0 || index >= len(l.events) {
		return nil, apperrors.Newf(apperrors.CodeEventIndexOutOfRange,
			map[string]string{"index": strconv.Itoa(index), "length": strconv.Itoa(len(l.events))},
			"event index %d out of range [0, %d)", index, len(l.events))
	}
	removed := l.events[index]
	l.events = append(l.events[:index:index], l.events[index+1:]...)
	return removed, nil
}

// Len returns the number of events.
func (l *Log) Len() int {
	return len(l.events)
}

// Events returns a snapshot of the log. Callers may keep the slice; later
// appends and deletes do not affect it.
func (l *Log) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}
