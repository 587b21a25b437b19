package diagnostic

import (
	"regexp"
	"strconv"
)

// scdet writes lines such as
//
//	[scdet @ 0x5653] lavfi.scdet.score: 14.385, lavfi.scdet.time: 3.3
//
// to stderr for every detected cut.
var (
	sceneTimeRe  = regexp.MustCompile(`lavfi\.scdet\.time:\s*(\d+(?:\.\d+)?)`)
	sceneScoreRe = regexp.MustCompile(`lavfi\.scdet\.score:\s*(\d+(?:\.\d+)?)`)
)

func parseScene(text string) []Event {
	var events []Event
	seen := map[float64]struct{}{}

	lines := splitLines(text)
	for _, line := range lines {
		match := sceneTimeRe.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		ts, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if _, dup := seen[ts]; dup {
			continue
		}
		seen[ts] = struct{}{}

		var fields []Field
		if score := sceneScoreRe.FindStringSubmatch(line); score != nil {
			fields = append(fields, Field{Key: "score", Value: score[1]})
		}
		events = append(events, Event{
			Kind:         KindScene,
			Timestamp:    ts,
			HasTimestamp: true,
			Fields:       fields,
		})
	}
	return events
}

func splitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' || text[i] == '\r' {
			if i > start {
				lines = append(lines, text[start:i])
			}
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
