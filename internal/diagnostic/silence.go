package diagnostic

import (
	"regexp"
	"strconv"
)

// silencedetect writes lines such as
//
//	[silencedetect @ 0x55d1] silence_start: 2.0
//	[silencedetect @ 0x55d1] silence_end: 5.0 | silence_duration: 3.0
//
// to stderr, interleaved with unrelated progress output.
var (
	silenceStartRe = regexp.MustCompile(`silence_start:\s*(-?\d+(?:\.\d+)?)`)
	silenceEndRe   = regexp.MustCompile(`silence_end:\s*(-?\d+(?:\.\d+)?)`)
)

func parseSilence(text string) []Event {
	var events []Event
	seen := map[string]struct{}{}

	appendMarker := func(marker string, raw string) {
		ts, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return
		}
		// A tool restart can repeat markers; keep the first occurrence.
		key := marker + ":" + raw
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		events = append(events, Event{
			Kind:         KindSilence,
			Timestamp:    ts,
			HasTimestamp: true,
			Fields:       []Field{{Key: FieldMarker, Value: marker}},
		})
	}

	for _, match := range silenceStartRe.FindAllStringSubmatch(text, -1) {
		appendMarker(MarkerSilenceStart, match[1])
	}
	for _, match := range silenceEndRe.FindAllStringSubmatch(text, -1) {
		appendMarker(MarkerSilenceEnd, match[1])
	}
	return events
}
