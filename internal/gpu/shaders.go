package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/shape.wgsl
var shapeShaderSource string

//go:embed shaders/sprite.wgsl
var spriteShaderSource string

//go:embed shaders/textured.wgsl
var texturedShaderSource string

//go:embed shaders/post.wgsl
var postShaderSource string

// ShaderSources returns every embedded WGSL source by pipeline name.
func ShaderSources() map[string]string {
	return map[string]string{
		"shape":    shapeShaderSource,
		"sprite":   spriteShaderSource,
		"textured": texturedShaderSource,
		"post":     postShaderSource,
	}
}

// CompileSPIRV compiles WGSL to SPIR-V words with naga.
func CompileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not a multiple of 4", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// createShaderModule creates a shader module from WGSL source, handing the
// HAL either the source itself or naga's SPIR-V output.
func createShaderModule(device hal.Device, label, wgsl string, spirv bool) (hal.ShaderModule, error) {
	if wgsl == "" {
		return nil, fmt.Errorf("%s: shader source is empty", label)
	}
	src := hal.ShaderSource{WGSL: wgsl}
	if spirv {
		words, err := CompileSPIRV(wgsl)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		src = hal.ShaderSource{SPIRV: words}
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return module, nil
}
