package diagnostic

import (
	"sort"
	"strings"

	"lathe/internal/services"
)

// Parse extracts structured events of the given kind from a tool's diagnostic
// stream. It is a pure function: identical input yields identical output.
//
// An empty event slice with a nil error means the tool ran and found nothing,
// which is a valid, common outcome. A parse failure is returned only when the
// text does not match the tool's diagnostic grammar at all, such as a tool
// that crashed before producing any output.
func Parse(stderrText string, kind Kind) ([]Event, error) {
	if strings.TrimSpace(stderrText) == "" {
		return nil, services.Wrap(services.ErrParse, string(kind), "parse", "empty diagnostic stream", nil)
	}

	var events []Event
	var err error
	switch kind {
	case KindSilence:
		events = parseSilence(stderrText)
	case KindScene:
		events = parseScene(stderrText)
	case KindLoudness:
		events, err = parseLoudness(stderrText)
	default:
		return nil, services.Wrap(services.ErrParse, string(kind), "parse", "unknown diagnostic kind", nil)
	}
	if err != nil {
		return nil, err
	}

	sortEvents(events)
	return events, nil
}

func sortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		switch {
		case a.HasTimestamp && b.HasTimestamp:
			if a.Timestamp != b.Timestamp {
				return a.Timestamp < b.Timestamp
			}
			// When a region ends at the same instant the next one starts,
			// the end marker must close its region before the new one opens.
			return markerOrder(a) < markerOrder(b)
		case a.HasTimestamp:
			return true
		default:
			return false
		}
	})
}

func markerOrder(ev Event) int {
	if ev.Field(FieldMarker) == MarkerSilenceEnd {
		return 0
	}
	return 1
}
