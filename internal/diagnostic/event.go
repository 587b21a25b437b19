package diagnostic

// Kind identifies which diagnostic grammar an event was extracted from.
type Kind string

const (
	// KindSilence marks silencedetect start/end events.
	KindSilence Kind = "silence"
	// KindScene marks scdet scene-cut events.
	KindScene Kind = "scene"
	// KindLoudness marks the loudnorm measured-statistics block.
	KindLoudness Kind = "loudness"
)

// Field is a single ordered key/value pair carried by an event.
type Field struct {
	Key   string
	Value string
}

// Event is one structured fact extracted from a tool's diagnostic stream.
// Events are immutable once returned; temporal events carry a timestamp in
// seconds, aggregate statistics do not.
type Event struct {
	Kind         Kind
	Timestamp    float64
	HasTimestamp bool
	Fields       []Field
}

// Field returns the value for key, or "" when absent.
func (e Event) Field(key string) string {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Marker keys used by silence events.
const (
	FieldMarker        = "marker"
	MarkerSilenceStart = "silence_start"
	MarkerSilenceEnd   = "silence_end"
)
