// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render draws kit2d batches with the gogpu wgpu HAL.
//
// A [Renderer] either opens its own device ([Open]) or draws with one the
// host application owns ([New], [NewFromProvider]). It creates pipelines
// lazily and keeps them for its lifetime.
//
// # Frames
//
// Each frame renders into one texture view:
//
//	frame := r.BeginFrame(view, w, h)
//	buf, _ := frame.Upload(data)
//	pipe, _ := r.ShapePipeline(true)
//	err := frame.Pass(
//	    render.Clear{Color: kit2d.Black},
//	    render.DrawBatch{Pipeline: pipe, Buffer: buf, Transform: model},
//	)
//	err = frame.Submit()
//
// Pass validates its ops and Submit encodes every pass into one command
// buffer, submits it and waits for the GPU. Model transforms are collected
// into a single uniform buffer per frame and addressed by dynamic offset;
// share one *kit2d.Transform between draws that use the same matrix.
//
// # Offscreen rendering
//
// [Renderer.NewCanvas] creates a texture frames can render into. A later
// frame can sample it, for example through [DrawPost], and
// [Texture.ReadPixels] copies it back to the CPU.
//
// # Configuration
//
// [Config] is loaded from TOML with [LoadConfig] or [ParseConfig]. Invalid
// values are reported as errors wrapping kit2d.ErrInvalidConfig.
package render
