// Package kit2d provides the data model for batched 2D rendering on top of
// the gogpu wgpu HAL.
//
// # Overview
//
// kit2d sits one level above the GPU API. It does not hide pipelines,
// buffers or bind groups; it gives them well defined vertex streams to
// consume. The root package holds the pieces every batch shares:
//
//   - Colors: [Rgba], [Rgba8], [Bgra8] and sRGB linearization
//   - Geometry: [Point2], [Rect], [Line] and [Matrix4]
//   - Vertex layouts: [VertexLayout] with the five named layouts used by
//     the shape, sprite and post-process pipelines
//   - [VertexData]: the immutable snapshot a batch produces on Finalize
//   - [Animation]: frame sequences advanced by accumulated time
//   - [Transform]: a model transform handle registered once per frame
//
// # Quick Start
//
//	batch := shape2d.NewBatch()
//	batch.AddRect(kit2d.NewRect[float32](0, 0, 10, 10), 0, shape2d.Rotation{}, kit2d.White)
//	data, n := batch.Finalize()
//
//	r, err := render.Open(render.DefaultConfig())
//	if errors.Is(err, kit2d.ErrNoAdapter) {
//	    // no GPU available
//	}
//	frame := r.BeginFrame(view, 800, 600)
//	buf, _ := frame.Upload(data)
//	pipe, _ := r.ShapePipeline(true)
//	_ = frame.Pass(render.Clear{Color: kit2d.Black}, render.DrawBatch{Pipeline: pipe, Buffer: buf})
//	_ = frame.Submit()
//
// # Architecture
//
// Data flows one way: caller → batch builder (shape2d, sprite2d) →
// [VertexData] → render.Renderer upload → pipeline bind → submission.
//
// Batches are not safe for concurrent use. A frame is built on a single
// goroutine; only the logger and the renderer's pipeline cache may be
// touched from several goroutines.
//
// # Logging
//
// kit2d is silent by default. Call [SetLogger] to route diagnostics to any
// [log/slog] handler.
package kit2d
