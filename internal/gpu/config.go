package gpu

import "github.com/gogpu/gputypes"

// PipelineConfig holds the render target properties every pipeline is
// compiled against. All pipelines drawn into one pass must share it.
type PipelineConfig struct {
	ColorFormat  gputypes.TextureFormat
	DepthFormat  gputypes.TextureFormat
	DepthCompare gputypes.CompareFunction
	SampleCount  uint32

	// SPIRV compiles shaders to SPIR-V with naga instead of handing WGSL
	// to the HAL.
	SPIRV bool
}

// DefaultPipelineConfig returns a single-sampled BGRA8 target with a
// depth/stencil attachment and less-or-equal depth testing, so that of two
// fragments at equal depth the one drawn last wins.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ColorFormat:  gputypes.TextureFormatBGRA8Unorm,
		DepthFormat:  gputypes.TextureFormatDepth24PlusStencil8,
		DepthCompare: gputypes.CompareFunctionLessEqual,
		SampleCount:  1,
	}
}

func (c PipelineConfig) samples() uint32 {
	if c.SampleCount == 0 {
		return 1
	}
	return c.SampleCount
}
