package plan

import (
	"math"
	"sort"
	"strconv"

	"lathe/internal/diagnostic"
	"lathe/internal/services"
)

// Parameter keys shared between the analysis pass and the corrective pass.
// The measured_* keys are what the engine's normalization filter expects in
// its second invocation; the target_* keys carry the caller's goals.
const (
	ParamMeasuredI      = "measured_i"
	ParamMeasuredLRA    = "measured_lra"
	ParamMeasuredTP     = "measured_tp"
	ParamMeasuredThresh = "measured_thresh"
	ParamTargetOffset   = "target_offset"
	ParamTargetI        = "target_i"
	ParamTargetLRA      = "target_lra"
	ParamTargetTP       = "target_tp"
)

// measuredFromAnalysis maps the analysis pass's reported field names to the
// parameter names the corrective pass consumes.
var measuredFromAnalysis = map[string]string{
	ParamMeasuredI:      "input_i",
	ParamMeasuredLRA:    "input_lra",
	ParamMeasuredTP:     "input_tp",
	ParamMeasuredThresh: "input_thresh",
	ParamTargetOffset:   "target_offset",
}

// ParameterPlan carries the combined measured/target values the corrective
// second pass needs. Missing lists measured fields that were absent from the
// analysis output and defaulted to zero; callers log these as a
// degraded-accuracy condition rather than failing the job.
type ParameterPlan struct {
	Params  map[string]float64
	Missing []string
}

// BuildParameterPlan combines measured loudness statistics with the caller's
// target values into the exact parameter set the corrective pass requires.
// The corrective filter needs both halves to run a linear single-pass
// correction instead of a second blind analysis.
func BuildParameterPlan(events []diagnostic.Event, targets map[string]float64) (ParameterPlan, error) {
	var stats *diagnostic.Event
	for i := range events {
		if events[i].Kind == diagnostic.KindLoudness {
			stats = &events[i]
			break
		}
	}
	if stats == nil {
		return ParameterPlan{}, services.Wrap(services.ErrValidation, "plan", "parameters", "no loudness statistics event", nil)
	}

	params := make(map[string]float64, len(measuredFromAnalysis)+len(targets))
	var missing []string
	for param, field := range measuredFromAnalysis {
		raw := stats.Field(field)
		value, err := strconv.ParseFloat(raw, 64)
		// Digitally silent audio measures -inf; the corrective filter rejects
		// non-finite options, so such fields default like absent ones.
		if raw == "" || err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
			params[param] = 0.0
			missing = append(missing, param)
			continue
		}
		params[param] = value
	}
	sort.Strings(missing)

	for key, value := range targets {
		params[key] = value
	}

	return ParameterPlan{Params: params, Missing: missing}, nil
}
