package backend

import "vidgen/internal/domain"

// Each builder returns the backend-specific "input" block. Field names track
// the upstream model schemas, which do not agree with each other on what a
// guidance scale is called.

func buildLTX(cfg Config, prompt string, opts domain.TuningOptions) map[string]any {
	// LTX-Video has no prompt rewriting; the enhance flag is dropped.
	return map[string]any{
		"prompt":          prompt,
		"negative_prompt": "low quality, worst quality, deformed, distorted",
		"aspect_ratio":    "16:9",
		"cfg":             cfg.guidance(opts),
	}
}

func buildWan(cfg Config, prompt string, opts domain.TuningOptions) map[string]any {
	input := map[string]any{
		"prompt":             prompt,
		"sample_guide_scale": cfg.guidance(opts),
		"sample_shift":       8,
	}
	if opts.PromptEnhance {
		input["prompt_extend"] = true
	}
	return input
}

func buildHunyuan(cfg Config, prompt string, opts domain.TuningOptions) map[string]any {
	return map[string]any{
		"prompt":                  prompt,
		"embedded_guidance_scale": cfg.guidance(opts),
	}
}

func buildMiniMax(cfg Config, prompt string, opts domain.TuningOptions) map[string]any {
	// video-01 exposes no guidance parameter.
	return map[string]any{
		"prompt":           prompt,
		"prompt_optimizer": opts.PromptEnhance,
	}
}
