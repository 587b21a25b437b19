package plan

import (
	"fmt"

	"lathe/internal/diagnostic"
	"lathe/internal/services"
)

// Segment is one keep/drop interval on the media timeline.
type Segment struct {
	Start float64
	End   float64
	Keep  bool
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// SegmentPlan partitions [0, totalDuration] into keep and drop intervals.
// A plan is built once per job and never mutated afterwards.
type SegmentPlan struct {
	Total    float64
	Segments []Segment
}

// KeepSegments returns only the kept intervals, in timeline order.
func (p SegmentPlan) KeepSegments() []Segment {
	var kept []Segment
	for _, seg := range p.Segments {
		if seg.Keep {
			kept = append(kept, seg)
		}
	}
	return kept
}

// Passthrough reports whether the plan keeps the entire timeline untouched,
// which callers must translate into a stream-copy apply, never an empty
// selection filter.
func (p SegmentPlan) Passthrough() bool {
	return len(p.Segments) == 1 && p.Segments[0].Keep
}

// Empty reports whether the plan keeps nothing at all.
func (p SegmentPlan) Empty() bool {
	return len(p.KeepSegments()) == 0
}

// BuildSegmentPlan reduces temporal diagnostic events into a timeline
// partition. Silence events are paired drop-region markers: the region
// between a start and its end is dropped, everything else kept. Scene events
// are cut boundaries: every interval between consecutive cuts is kept.
//
// The result is sorted, non-overlapping, and covers exactly
// [0, totalDuration]. Segments shorter than minSegment are treated as
// detector noise and merged into the adjacent kept region. An empty event
// list yields a single keep segment spanning the whole duration.
func BuildSegmentPlan(events []diagnostic.Event, totalDuration, minSegment float64) (SegmentPlan, error) {
	if totalDuration <= 0 {
		return SegmentPlan{}, services.Wrap(services.ErrValidation, "plan", "segments",
			fmt.Sprintf("total duration must be positive, got %v", totalDuration), nil)
	}
	if minSegment < 0 {
		minSegment = 0
	}

	kind := diagnostic.KindSilence
	for _, ev := range events {
		if !ev.HasTimestamp {
			return SegmentPlan{}, services.Wrap(services.ErrValidation, "plan", "segments", "segment plans require temporal events", nil)
		}
		kind = ev.Kind
	}

	var drops []Segment
	switch kind {
	case diagnostic.KindScene:
		drops = nil // scene cuts drop nothing; they only partition
	default:
		drops = dropRegions(events, totalDuration)
	}

	var segments []Segment
	if kind == diagnostic.KindScene {
		segments = boundarySegments(events, totalDuration)
	} else {
		segments = walkTimeline(drops, totalDuration)
	}

	segments = coalesce(mergeShort(segments, minSegment))
	if len(segments) == 0 {
		segments = []Segment{{Start: 0, End: totalDuration, Keep: true}}
	}
	return SegmentPlan{Total: totalDuration, Segments: segments}, nil
}

// dropRegions pairs silence_start/silence_end markers into drop intervals. A
// start without a matching end extends to the end of the timeline. Region
// starts are clamped to the previous region's end so unordered or duplicated
// markers can never produce overlapping drops.
func dropRegions(events []diagnostic.Event, total float64) []Segment {
	var drops []Segment
	lastEnd := 0.0
	var openStart *float64
	for _, ev := range events {
		switch ev.Field(diagnostic.FieldMarker) {
		case diagnostic.MarkerSilenceStart:
			if openStart == nil {
				ts := clamp(ev.Timestamp, lastEnd, total)
				openStart = &ts
			}
		case diagnostic.MarkerSilenceEnd:
			if openStart == nil {
				if len(drops) > 0 {
					// A stray end after regions have closed has no usable
					// start; discard it.
					continue
				}
				// End without a start: silence began at the head of the file.
				zero := 0.0
				openStart = &zero
			}
			end := clamp(ev.Timestamp, *openStart, total)
			if end > *openStart {
				drops = append(drops, Segment{Start: *openStart, End: end})
				lastEnd = end
			}
			openStart = nil
		}
	}
	if openStart != nil && *openStart < total {
		drops = append(drops, Segment{Start: *openStart, End: total})
	}
	return drops
}

// walkTimeline emits alternating keep/drop segments covering [0, total].
func walkTimeline(drops []Segment, total float64) []Segment {
	var segments []Segment
	cursor := 0.0
	for _, drop := range drops {
		if drop.Start > cursor {
			segments = append(segments, Segment{Start: cursor, End: drop.Start, Keep: true})
		}
		segments = append(segments, Segment{Start: drop.Start, End: drop.End, Keep: false})
		cursor = drop.End
	}
	if cursor < total {
		segments = append(segments, Segment{Start: cursor, End: total, Keep: true})
	}
	return segments
}

// boundarySegments turns cut timestamps into an all-keep partition.
func boundarySegments(events []diagnostic.Event, total float64) []Segment {
	cuts := make([]float64, 0, len(events)+2)
	cuts = append(cuts, 0)
	for _, ev := range events {
		ts := clamp(ev.Timestamp, 0, total)
		if ts > cuts[len(cuts)-1] {
			cuts = append(cuts, ts)
		}
	}
	if cuts[len(cuts)-1] < total {
		cuts = append(cuts, total)
	}

	segments := make([]Segment, 0, len(cuts)-1)
	for i := 0; i+1 < len(cuts); i++ {
		segments = append(segments, Segment{Start: cuts[i], End: cuts[i+1], Keep: true})
	}
	return segments
}

// mergeShort removes sub-minimum segments by folding them into a neighbour so
// the partition still covers the full timeline with no gaps.
func mergeShort(segments []Segment, minSegment float64) []Segment {
	if minSegment <= 0 || len(segments) < 2 {
		return segments
	}
	out := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.Duration() >= minSegment || len(out) == 0 {
			out = append(out, seg)
			continue
		}
		// Fold detector noise into the previous segment.
		out[len(out)-1].End = seg.End
	}
	// A short leading segment folds forward instead.
	if len(out) >= 2 && out[0].Duration() < minSegment {
		out[1].Start = out[0].Start
		out = out[1:]
	}
	return coalesce(out)
}

// coalesce joins adjacent segments that share a keep flag after merging.
func coalesce(segments []Segment) []Segment {
	if len(segments) < 2 {
		return segments
	}
	out := segments[:1]
	for _, seg := range segments[1:] {
		last := &out[len(out)-1]
		if last.Keep == seg.Keep {
			last.End = seg.End
			continue
		}
		out = append(out, seg)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
