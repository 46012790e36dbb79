// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/kit2d"
	"github.com/gogpu/kit2d/internal/gpu"
	"github.com/pelletier/go-toml/v2"
)

// Backend names accepted by Config.Backend.
const (
	BackendVulkan = "vulkan"
	BackendNoop   = "noop"
)

// Adapter preferences accepted by Config.Adapter.
const (
	AdapterDiscrete   = "discrete"
	AdapterIntegrated = "integrated"
	AdapterAny        = "any"
)

// Shader formats accepted by Config.ShaderFormat.
const (
	ShaderWGSL  = "wgsl"
	ShaderSPIRV = "spirv"
)

// Config configures a Renderer. The zero value is not valid; start from
// DefaultConfig or load a TOML file with LoadConfig.
//
//	backend = "vulkan"
//	adapter = "discrete"
//	color_format = "bgra8"
//	origin = "top-left"
//	linear = false
//	sample_count = 1
//	shader_format = "wgsl"
//	depth_compare = "less-equal"
//	initial_transforms = 64
//	max_transforms = 4096
type Config struct {
	// Backend selects the HAL backend Open creates an instance on.
	Backend string `toml:"backend"`
	// Adapter is the preferred adapter type. Open falls back to any
	// adapter of the other GPU type when the preferred one is missing.
	Adapter string `toml:"adapter"`
	// ColorFormat is the render target format: "bgra8" or "rgba8".
	ColorFormat string `toml:"color_format"`
	// Origin is the world origin of the orthographic projection and of
	// sprite texture coordinates: "top-left" or "bottom-left".
	Origin string `toml:"origin"`
	// Linear selects sRGB texture and target formats. Batches drawn with
	// it should be built with WithLinearColor.
	Linear bool `toml:"linear"`
	// SampleCount is the MSAA sample count: 1 or 4.
	SampleCount uint32 `toml:"sample_count"`
	// ShaderFormat chooses whether shaders reach the HAL as WGSL or as
	// SPIR-V compiled by naga.
	ShaderFormat string `toml:"shader_format"`
	// DepthCompare is the depth test of depth pipelines: "less-equal",
	// "less" or "always".
	DepthCompare string `toml:"depth_compare"`
	// InitialTransforms and MaxTransforms size the per-frame transform
	// buffer.
	InitialTransforms int `toml:"initial_transforms"`
	MaxTransforms     int `toml:"max_transforms"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Backend:           BackendVulkan,
		Adapter:           AdapterDiscrete,
		ColorFormat:       "bgra8",
		Origin:            "top-left",
		SampleCount:       1,
		ShaderFormat:      ShaderWGSL,
		DepthCompare:      "less-equal",
		InitialTransforms: 64,
		MaxTransforms:     gpu.DefaultMaxTransforms,
	}
}

// LoadConfig reads a TOML file over DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("kit2d: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes TOML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", kit2d.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the configuration as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports the first invalid field, wrapping kit2d.ErrInvalidConfig.
func (c Config) Validate() error {
	invalid := func(field string, v any) error {
		return fmt.Errorf("%w: %s %v", kit2d.ErrInvalidConfig, field, v)
	}
	switch c.Backend {
	case BackendVulkan, BackendNoop:
	default:
		return invalid("backend", c.Backend)
	}
	switch c.Adapter {
	case AdapterDiscrete, AdapterIntegrated, AdapterAny:
	default:
		return invalid("adapter", c.Adapter)
	}
	if _, err := c.colorFormat(); err != nil {
		return err
	}
	if _, err := c.origin(); err != nil {
		return err
	}
	if c.SampleCount != 1 && c.SampleCount != 4 {
		return invalid("sample_count", c.SampleCount)
	}
	switch c.ShaderFormat {
	case ShaderWGSL, ShaderSPIRV:
	default:
		return invalid("shader_format", c.ShaderFormat)
	}
	if _, err := c.depthCompare(); err != nil {
		return err
	}
	if c.MaxTransforms <= 0 {
		return invalid("max_transforms", c.MaxTransforms)
	}
	if c.InitialTransforms <= 0 || c.InitialTransforms > c.MaxTransforms {
		return invalid("initial_transforms", c.InitialTransforms)
	}
	return nil
}

func (c Config) colorFormat() (gputypes.TextureFormat, error) {
	switch c.ColorFormat {
	case "bgra8":
		if c.Linear {
			return gputypes.TextureFormatBGRA8UnormSrgb, nil
		}
		return gputypes.TextureFormatBGRA8Unorm, nil
	case "rgba8":
		if c.Linear {
			return gputypes.TextureFormatRGBA8UnormSrgb, nil
		}
		return gputypes.TextureFormatRGBA8Unorm, nil
	default:
		return gputypes.TextureFormatUndefined, fmt.Errorf("%w: color_format %q", kit2d.ErrInvalidConfig, c.ColorFormat)
	}
}

func (c Config) origin() (kit2d.Origin, error) {
	switch c.Origin {
	case "top-left":
		return kit2d.TopLeft, nil
	case "bottom-left":
		return kit2d.BottomLeft, nil
	default:
		return kit2d.TopLeft, fmt.Errorf("%w: origin %q", kit2d.ErrInvalidConfig, c.Origin)
	}
}

func (c Config) depthCompare() (gputypes.CompareFunction, error) {
	switch c.DepthCompare {
	case "less-equal":
		return gputypes.CompareFunctionLessEqual, nil
	case "less":
		return gputypes.CompareFunctionLess, nil
	case "always":
		return gputypes.CompareFunctionAlways, nil
	default:
		return gputypes.CompareFunctionAlways, fmt.Errorf("%w: depth_compare %q", kit2d.ErrInvalidConfig, c.DepthCompare)
	}
}

// textureFormat is the format of sampled textures.
func (c Config) textureFormat() gputypes.TextureFormat {
	if c.Linear {
		return gputypes.TextureFormatRGBA8UnormSrgb
	}
	return gputypes.TextureFormatRGBA8Unorm
}

// pipelineConfig converts a validated Config.
func (c Config) pipelineConfig() gpu.PipelineConfig {
	pc := gpu.DefaultPipelineConfig()
	pc.ColorFormat, _ = c.colorFormat()
	pc.DepthCompare, _ = c.depthCompare()
	pc.SampleCount = c.SampleCount
	pc.SPIRV = c.ShaderFormat == ShaderSPIRV
	return pc
}
