package probe_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lathe/internal/media/probe"
)

func stubFFprobe(t *testing.T, payload any) string {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	script := fmt.Sprintf("#!/bin/sh\ncat <<'EOF'\n%s\nEOF\n", data)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestInspectDecodesProperties(t *testing.T) {
	binary := stubFFprobe(t, map[string]any{
		"streams": []map[string]any{
			{"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "avg_frame_rate": "30000/1001"},
			{"index": 1, "codec_type": "audio", "codec_name": "aac", "sample_rate": "48000", "channels": 2},
		},
		"format": map[string]any{"filename": "clip.mp4", "nb_streams": 2, "duration": "10.5"},
	})

	result, err := probe.Inspect(context.Background(), binary, "clip.mp4", 5*time.Second)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	props := result.Properties()
	if props.Duration != 10.5 {
		t.Fatalf("expected duration 10.5, got %v", props.Duration)
	}
	if !props.HasVideo || !props.HasAudio {
		t.Fatalf("expected both streams detected, got %#v", props)
	}
	if props.Width != 1920 || props.Height != 1080 {
		t.Fatalf("unexpected dimensions: %#v", props)
	}
	if props.FrameRate < 29.9 || props.FrameRate > 30.0 {
		t.Fatalf("expected ~29.97 fps, got %v", props.FrameRate)
	}
	if props.SampleRate != 48000 || props.Channels != 2 {
		t.Fatalf("unexpected audio properties: %#v", props)
	}
	if result.VideoStreamCount() != 1 || result.AudioStreamCount() != 1 {
		t.Fatal("unexpected stream counts")
	}
}

func TestInspectAudioOnly(t *testing.T) {
	binary := stubFFprobe(t, map[string]any{
		"streams": []map[string]any{
			{"index": 0, "codec_type": "audio", "codec_name": "mp3", "sample_rate": "44100", "channels": 2},
		},
		"format": map[string]any{"filename": "song.mp3", "nb_streams": 1, "duration": "180.0"},
	})

	result, err := probe.Inspect(context.Background(), binary, "song.mp3", 5*time.Second)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	props := result.Properties()
	if props.HasVideo {
		t.Fatal("expected no video stream")
	}
	if !props.HasAudio || props.SampleRate != 44100 {
		t.Fatalf("unexpected audio properties: %#v", props)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := probe.Inspect(context.Background(), "ffprobe", "  ", time.Second); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestInspectSurfacesToolFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffprobe")
	script := "#!/bin/sh\necho 'clip.mp4: No such file or directory' >&2\nexit 1\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	_, err := probe.Inspect(context.Background(), path, "clip.mp4", time.Second)
	if err == nil {
		t.Fatal("expected error from failing probe")
	}
}
