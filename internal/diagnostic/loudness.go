package diagnostic

import (
	"regexp"

	"lathe/internal/services"
)

// loudnorm with print_format=json emits one brace-delimited block of quoted
// key/value pairs on stderr, after (and interleaved with) unrelated log
// lines:
//
//	{
//	        "input_i" : "-27.23",
//	        "input_tp" : "-10.95",
//	        ...
//	}
//
// The values are strings in the tool's output, not JSON numbers, and the
// block is not guaranteed to be strict JSON across engine versions, so the
// pairs are extracted individually.
var (
	loudnessBlockRe = regexp.MustCompile(`\{[^{}]*\}`)
	loudnessPairRe  = regexp.MustCompile(`"([a-z_]+)"\s*:\s*"?(-?\d+(?:\.\d+)?|-inf)"?`)
)

func parseLoudness(text string) ([]Event, error) {
	block := loudnessBlockRe.FindString(text)
	if block == "" {
		return nil, services.Wrap(services.ErrParse, string(KindLoudness), "parse", "no statistics block in diagnostic stream", nil)
	}

	pairs := loudnessPairRe.FindAllStringSubmatch(block, -1)
	if len(pairs) == 0 {
		return nil, services.Wrap(services.ErrParse, string(KindLoudness), "parse", "statistics block carries no key/value pairs", nil)
	}

	fields := make([]Field, 0, len(pairs))
	seen := map[string]struct{}{}
	for _, pair := range pairs {
		key, value := pair[1], pair[2]
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fields = append(fields, Field{Key: key, Value: value})
	}

	return []Event{{Kind: KindLoudness, Fields: fields}}, nil
}
