package diagnostic_test

import (
	"errors"
	"reflect"
	"testing"

	"lathe/internal/diagnostic"
	"lathe/internal/services"
)

const silenceStderr = `ffmpeg version 7.1 Copyright (c) 2000-2024 the FFmpeg developers
Input #0, mov,mp4,m4a, from 'talk.mp4':
  Duration: 00:00:10.00, start: 0.000000, bitrate: 1208 kb/s
[silencedetect @ 0x55d1f2] silence_start: 2
size=N/A time=00:00:04.96 bitrate=N/A speed= 312x
[silencedetect @ 0x55d1f2] silence_end: 5 | silence_duration: 3
size=N/A time=00:00:10.00 bitrate=N/A speed= 308x
`

func TestParseSilencePairsAndSorts(t *testing.T) {
	events, err := diagnostic.Parse(silenceStderr, diagnostic.KindSilence)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Timestamp != 2 || events[0].Field(diagnostic.FieldMarker) != diagnostic.MarkerSilenceStart {
		t.Fatalf("unexpected first event: %#v", events[0])
	}
	if events[1].Timestamp != 5 || events[1].Field(diagnostic.FieldMarker) != diagnostic.MarkerSilenceEnd {
		t.Fatalf("unexpected second event: %#v", events[1])
	}
}

func TestParseSilenceMissingTrailingEnd(t *testing.T) {
	text := "Input #0\n[silencedetect] silence_start: 7.25\n"
	events, err := diagnostic.Parse(text, diagnostic.KindSilence)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 || events[0].Field(diagnostic.FieldMarker) != diagnostic.MarkerSilenceStart {
		t.Fatalf("expected lone start marker, got %#v", events)
	}
}

func TestParseSilenceDeduplicatesMarkers(t *testing.T) {
	text := "banner\nsilence_start: 1.5\nsilence_start: 1.5\nsilence_end: 2.5\n"
	events, err := diagnostic.Parse(text, diagnostic.KindSilence)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected duplicates collapsed, got %d events", len(events))
	}
}

func TestParseSilenceNoMarkersIsEmptyNotError(t *testing.T) {
	text := "ffmpeg version 7.1\nInput #0, mov, from 'loud.mp4':\nsize=N/A time=00:00:10.00\n"
	events, err := diagnostic.Parse(text, diagnostic.KindSilence)
	if err != nil {
		t.Fatalf("expected nil error for marker-free output, got %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestParseEmptyStreamIsParseFailure(t *testing.T) {
	_, err := diagnostic.Parse("   \n", diagnostic.KindSilence)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParseIsPure(t *testing.T) {
	first, err := diagnostic.Parse(silenceStderr, diagnostic.KindSilence)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	second, err := diagnostic.Parse(silenceStderr, diagnostic.KindSilence)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical event lists from identical input")
	}
}

const sceneStderr = `ffmpeg version 7.1
[scdet @ 0x5653] lavfi.scdet.score: 24.105, lavfi.scdet.time: 7.1
[scdet @ 0x5653] lavfi.scdet.score: 14.385, lavfi.scdet.time: 3.3
frame= 270 fps=0.0 q=-0.0 size=N/A
`

func TestParseSceneSortsUnorderedCuts(t *testing.T) {
	events, err := diagnostic.Parse(sceneStderr, diagnostic.KindScene)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Timestamp != 3.3 || events[1].Timestamp != 7.1 {
		t.Fatalf("expected events sorted by timestamp, got %v then %v", events[0].Timestamp, events[1].Timestamp)
	}
	if events[0].Field("score") != "14.385" {
		t.Fatalf("expected score field carried through, got %#v", events[0].Fields)
	}
}

const loudnessStderr = `ffmpeg version 7.1
[Parsed_loudnorm_0 @ 0x560]
{
        "input_i" : "-27.23",
        "input_tp" : "-10.95",
        "input_lra" : "5.90",
        "input_thresh" : "-37.43",
        "output_i" : "-23.02",
        "target_offset" : "0.02"
}
`

func TestParseLoudnessBlock(t *testing.T) {
	events, err := diagnostic.Parse(loudnessStderr, diagnostic.KindLoudness)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected single stats event, got %d", len(events))
	}
	ev := events[0]
	if ev.HasTimestamp {
		t.Fatal("loudness stats must not carry a timestamp")
	}
	if got := ev.Field("input_i"); got != "-27.23" {
		t.Fatalf("expected input_i -27.23, got %q", got)
	}
	if got := ev.Field("target_offset"); got != "0.02" {
		t.Fatalf("expected target_offset 0.02, got %q", got)
	}
}

func TestParseLoudnessMissingBlockIsParseFailure(t *testing.T) {
	_, err := diagnostic.Parse("ffmpeg version 7.1\nno stats here\n", diagnostic.KindLoudness)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}
