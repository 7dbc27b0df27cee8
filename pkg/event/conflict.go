package event

import "time"

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) overlap. An event ending exactly when another starts
// does not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ConflictsWith reports whether any occurrence of e overlaps any
// occurrence of other. The check is symmetric.
func (e *Event) ConflictsWith(other *Event) (bool, error) {
	mine, err := e.Occurrences()
	if err != nil {
		return false, err
	}
	theirs, err := other.Occurrences()
	if err != nil {
		return false, err
	}
	for _, a := range mine {
		for _, b := range theirs {
			if Overlaps(a.Start, a.End, b.Start, b.End) {
				return true, nil
			}
		}
	}
	return false, nil
}

// ActiveAt reports whether the instant t falls strictly inside the
// occurrence's interval. Boundary instants are not active; this is
// intentionally stricter than Overlaps.
func (e *Event) ActiveAt(t time.Time) bool {
	return e.Start.Before(t) && e.End.After(t)
}
