package kit2d

import "errors"

// Configuration errors.
var (
	// ErrNoAdapter is returned when no suitable graphics adapter is found.
	// It is recoverable: callers may fall back or report it to the user.
	ErrNoAdapter = errors.New("kit2d: a suitable graphics adapter was not found")

	// ErrInvalidConfig is returned when a renderer configuration fails validation.
	ErrInvalidConfig = errors.New("kit2d: invalid configuration")
)

// Layout errors.
var (
	// ErrLayoutMismatch is returned when vertex data is bound to a pipeline
	// whose vertex layout differs from the layout the data was built for.
	// It always indicates a programming error.
	ErrLayoutMismatch = errors.New("kit2d: vertex layout does not match pipeline")
)

// Capacity errors.
var (
	// ErrTransformCapacity is returned when the transform buffer cannot grow.
	ErrTransformCapacity = errors.New("kit2d: transform buffer capacity exceeded")

	// ErrVertexCapacity is returned when vertex or index data cannot be
	// allocated on the GPU.
	ErrVertexCapacity = errors.New("kit2d: vertex buffer allocation failed")
)

// Lifecycle errors.
var (
	// ErrRendererDestroyed is returned by operations on a destroyed renderer.
	ErrRendererDestroyed = errors.New("kit2d: renderer destroyed")

	// ErrFrameSubmitted is returned when a frame is used after Submit.
	ErrFrameSubmitted = errors.New("kit2d: frame already submitted")
)
