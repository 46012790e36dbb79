// Package gpu holds the GPU side of kit2d: render pipelines for shapes,
// sprites, textured quads and post-processing, the per-frame transform
// buffer, vertex buffer uploads and render targets.
//
// Everything here talks to the gogpu wgpu HAL directly. Pipelines are
// created from embedded WGSL, optionally compiled to SPIR-V with naga first.
//
// # Bind groups
//
// All pipelines share the bind group layouts in [Layouts]:
//
//	Globals  { ortho: mat4, transform: mat4 }       group 0 (shape, sprite, textured)
//	Model    { transform: mat4 }, dynamic offset    group 1 (shape), group 2 (sprite)
//	Texture  texture_2d<f32> + sampler              group 1 (sprite, textured, post)
//	Post     { color: vec4 }                        group 0 (post)
//
// Model transforms live in a [TransformBuffer], one 256-byte slot per
// registered transform, addressed with a dynamic uniform offset.
package gpu
