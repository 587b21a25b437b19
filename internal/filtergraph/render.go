package filtergraph

import (
	"strings"
	"time"

	"lathe/internal/plan"
	"lathe/internal/services"
	"lathe/internal/services/ffmpeg"
)

// Renderer turns transform plans into engine invocations for one job.
type Renderer struct {
	Binary  string
	Input   string
	Output  string
	Timeout time.Duration
}

// SelectionExpr builds the keep predicate: the logical OR of
// between(t, start, end) over every kept segment.
func SelectionExpr(kept []plan.Segment) string {
	parts := make([]string, 0, len(kept))
	for _, seg := range kept {
		parts = append(parts, "between(t,"+FormatSeconds(seg.Start)+","+FormatSeconds(seg.End)+")")
	}
	return strings.Join(parts, "+")
}

// SegmentSpec renders a segment plan into the apply invocation. The same
// selection expression is applied to the video and audio streams so both drop
// exactly the same wall-clock intervals, and timestamps are rebased to zero
// afterwards to keep the streams frame-accurate and in sync post-cut.
//
// A pass-through plan renders as a stream copy, never an empty selection.
func (r Renderer) SegmentSpec(p plan.SegmentPlan, hasVideo, hasAudio bool) (ffmpeg.InvocationSpec, error) {
	if !hasVideo && !hasAudio {
		return ffmpeg.InvocationSpec{}, services.Wrap(services.ErrValidation, "render", "segments", "input carries no video or audio stream", nil)
	}
	if p.Passthrough() {
		return r.CopySpec(), nil
	}
	kept := p.KeepSegments()
	if len(kept) == 0 {
		return ffmpeg.InvocationSpec{}, services.Wrap(services.ErrValidation, "render", "segments", "plan keeps no segments", nil)
	}

	expr := SelectionExpr(kept)
	args := []string{"-y", "-i", r.Input}
	if hasVideo {
		video := Chain{
			NewFilter("select", Arg{Value: expr}),
			NewFilter("setpts", Arg{Value: "PTS-STARTPTS"}),
		}
		args = append(args, "-vf", video.Render())
	}
	if hasAudio {
		audio := Chain{
			NewFilter("aselect", Arg{Value: expr}),
			NewFilter("asetpts", Arg{Value: "PTS-STARTPTS"}),
		}
		args = append(args, "-af", audio.Render())
	}
	args = append(args, r.Output)

	return ffmpeg.InvocationSpec{
		Binary:  r.Binary,
		Args:    args,
		Timeout: r.Timeout,
		Label:   "select-filter",
	}, nil
}

// ParameterSpec renders the corrective second pass for a parameter plan with
// the combined measured/target values substituted.
func (r Renderer) ParameterSpec(p plan.ParameterPlan, linear bool) ffmpeg.InvocationSpec {
	label := "loudnorm-linear"
	if !linear {
		label = "loudnorm-dynamic"
	}
	return ffmpeg.InvocationSpec{
		Binary:  r.Binary,
		Args:    []string{"-y", "-i", r.Input, "-af", LoudnormFilter(p, linear), r.Output},
		Timeout: r.Timeout,
		Label:   label,
	}
}

// LoudnormFilter renders the corrective loudnorm stage. The filter requires
// both the measured and target halves to perform a linear single-pass
// correction instead of a second blind analysis.
func LoudnormFilter(p plan.ParameterPlan, linear bool) string {
	args := []Arg{
		{Key: "I", Value: FormatValue(p.Params[plan.ParamTargetI])},
		{Key: "LRA", Value: FormatValue(p.Params[plan.ParamTargetLRA])},
		{Key: "TP", Value: FormatValue(p.Params[plan.ParamTargetTP])},
		{Key: "measured_I", Value: FormatValue(p.Params[plan.ParamMeasuredI])},
		{Key: "measured_LRA", Value: FormatValue(p.Params[plan.ParamMeasuredLRA])},
		{Key: "measured_TP", Value: FormatValue(p.Params[plan.ParamMeasuredTP])},
		{Key: "measured_thresh", Value: FormatValue(p.Params[plan.ParamMeasuredThresh])},
		{Key: "offset", Value: FormatValue(p.Params[plan.ParamTargetOffset])},
	}
	if linear {
		args = append(args, Arg{Key: "linear", Value: "true"})
	}
	return NewFilter("loudnorm", args...).Render()
}

// CopySpec renders the identity operation: remux with both streams copied.
func (r Renderer) CopySpec() ffmpeg.InvocationSpec {
	return ffmpeg.InvocationSpec{
		Binary:  r.Binary,
		Args:    []string{"-y", "-i", r.Input, "-c", "copy", r.Output},
		Timeout: r.Timeout,
		Label:   "stream-copy",
	}
}

// ReencodeSpec renders the degraded alternative to a stream copy: a full
// re-encode with the engine's default codecs.
func (r Renderer) ReencodeSpec() ffmpeg.InvocationSpec {
	return ffmpeg.InvocationSpec{
		Binary:  r.Binary,
		Args:    []string{"-y", "-i", r.Input, r.Output},
		Timeout: r.Timeout,
		Label:   "re-encode",
	}
}

// ExtractSpecs renders the copy-then-reencode chain for one time window,
// used per segment by scene splitting and by trims.
func (r Renderer) ExtractSpecs(start, end float64) ffmpeg.Chain {
	window := []string{"-ss", FormatSeconds(start), "-to", FormatSeconds(end)}
	copyArgs := append([]string{"-y"}, window...)
	copyArgs = append(copyArgs, "-i", r.Input, "-c", "copy", r.Output)
	encodeArgs := append([]string{"-y"}, window...)
	encodeArgs = append(encodeArgs, "-i", r.Input, r.Output)
	return ffmpeg.Chain{
		{Binary: r.Binary, Args: copyArgs, Timeout: r.Timeout, Label: "stream-copy"},
		{Binary: r.Binary, Args: encodeArgs, Timeout: r.Timeout, Label: "re-encode"},
	}
}

// VidstabDetectSpec renders the motion-analysis pass, writing transform
// coefficients to resultPath for the second pass to consume by reference.
func (r Renderer) VidstabDetectSpec(resultPath string) ffmpeg.InvocationSpec {
	filter := NewFilter("vidstabdetect",
		Arg{Key: "result", Value: resultPath},
		Arg{Key: "show", Value: "0"},
	)
	return ffmpeg.InvocationSpec{
		Binary:            r.Binary,
		Args:              []string{"-i", r.Input, "-vf", filter.Render(), "-f", "null", "-"},
		StderrDiagnostics: true,
		Timeout:           r.Timeout,
		Label:             "vidstab-detect",
	}
}

// VidstabTransformSpecs renders the stabilization apply chain: audio copied
// first, full re-encode as the degraded alternative.
func (r Renderer) VidstabTransformSpecs(resultPath string, smoothing, zoom int) ffmpeg.Chain {
	filter := NewFilter("vidstabtransform",
		Arg{Key: "input", Value: resultPath},
		Arg{Key: "zoom", Value: FormatSeconds(float64(zoom))},
		Arg{Key: "smoothing", Value: FormatSeconds(float64(smoothing))},
	).Render()
	return ffmpeg.Chain{
		{
			Binary:  r.Binary,
			Args:    []string{"-y", "-i", r.Input, "-vf", filter, "-acodec", "copy", r.Output},
			Timeout: r.Timeout,
			Label:   "audio-copy",
		},
		{
			Binary:  r.Binary,
			Args:    []string{"-y", "-i", r.Input, "-vf", filter, r.Output},
			Timeout: r.Timeout,
			Label:   "audio-reencode",
		},
	}
}
