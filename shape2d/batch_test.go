package shape2d

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/kit2d"
)

// decode reads vertices back from finalized data in either shape layout.
func decode(t *testing.T, data kit2d.VertexData) []Vertex {
	t.Helper()
	stride := int(data.Layout.Stride)
	if len(data.Vertices) != stride*data.VertexCount {
		t.Fatalf("vertex bytes = %d, want %d", len(data.Vertices), stride*data.VertexCount)
	}
	f := func(b []byte, off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	out := make([]Vertex, data.VertexCount)
	for i := range out {
		b := data.Vertices[i*stride : (i+1)*stride]
		v := &out[i]
		v.Position[0], v.Position[1] = f(b, 0), f(b, 4)
		off := 8
		if data.Layout.Matches(kit2d.Shape3DLayout) {
			v.Position[2] = f(b, 8)
			off = 12
		}
		v.Angle = f(b, off)
		v.Center = [2]float32{f(b, off+4), f(b, off+8)}
		c := b[off+12:]
		v.Color = kit2d.Rgba8{R: c[0], G: c[1], B: c[2], A: c[3]}
	}
	return out
}

func TestFinalizeEmpty(t *testing.T) {
	for _, b := range []*Batch{NewBatch(), NewBatch(WithLayout2D())} {
		data, n := b.Finalize()
		if n != 0 || data.VertexCount != 0 || len(data.Vertices) != 0 || !data.IsEmpty() {
			t.Errorf("empty batch finalized to %d elements, %d vertices", n, data.VertexCount)
		}
		if !data.Layout.Matches(b.Layout()) {
			t.Errorf("empty data layout = %v, want %v", data.Layout, b.Layout())
		}
	}
}

func TestAddRectWhiteSquare(t *testing.T) {
	b := NewBatch()
	b.AddRect(kit2d.NewRect[float32](0, 0, 10, 10), 0, Rotation{}, kit2d.White)

	data, n := b.Finalize()
	if n != 6 {
		t.Errorf("elements = %d, want 6 indices", n)
	}
	verts := decode(t, data)
	if len(verts) != 4 {
		t.Fatalf("vertices = %d, want 4", len(verts))
	}

	wantCorners := [][2]float32{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	for i, v := range verts {
		if v.Color != kit2d.White {
			t.Errorf("vertex %d color = %v, want opaque white", i, v.Color)
		}
		if v.Position[2] != 0 {
			t.Errorf("vertex %d depth = %v, want 0", i, v.Position[2])
		}
		if v.Angle != 0 {
			t.Errorf("vertex %d angle = %v, want 0", i, v.Angle)
		}
		x, y, _ := kit2d.Identity().Apply(v.Position[0], v.Position[1], 0)
		if x != wantCorners[i][0] || y != wantCorners[i][1] {
			t.Errorf("vertex %d at (%v, %v), want %v", i, x, y, wantCorners[i])
		}
	}
	wantIdx := []uint32{0, 1, 2, 2, 3, 0}
	for i, idx := range data.Indices {
		if idx != wantIdx[i] {
			t.Errorf("index %d = %d, want %d", i, idx, wantIdx[i])
		}
	}
}

func TestAddRectSharesDepthAndRotation(t *testing.T) {
	b := NewBatch()
	rot := Rotate(0.5, kit2d.Pt[float32](5, 5))
	b.AddRect(kit2d.NewRect[float32](0, 0, 10, 10), 0.25, rot, kit2d.Red)

	data, _ := b.Finalize()
	for i, v := range decode(t, data) {
		if v.Position[2] != 0.25 || v.Angle != 0.5 || v.Center != [2]float32{5, 5} || v.Color != kit2d.Red {
			t.Errorf("vertex %d = %+v", i, v)
		}
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	b := NewBatch()
	b.AddRect(kit2d.NewRect[float32](1, 2, 3, 4), 0.5, Rotation{}, kit2d.Blue)
	b.AddLine(kit2d.Pt[float32](0, 0), kit2d.Pt[float32](10, 0), kit2d.Green, 2)

	first, n1 := b.Finalize()
	second, n2 := b.Finalize()
	if n1 != n2 || first.VertexCount != second.VertexCount {
		t.Fatalf("counts differ: %d/%d vs %d/%d", n1, first.VertexCount, n2, second.VertexCount)
	}
	if !bytes.Equal(first.Vertices, second.Vertices) {
		t.Error("vertex bytes differ between Finalize calls")
	}
	if !bytes.Equal(first.IndexBytes(), second.IndexBytes()) {
		t.Error("index bytes differ between Finalize calls")
	}
}

func TestFinalizeAfterMutation(t *testing.T) {
	b := NewBatch()
	b.AddRect(kit2d.NewRect[float32](0, 0, 1, 1), 0, Rotation{}, kit2d.White)
	first, _ := b.Finalize()
	firstBytes := bytes.Clone(first.Vertices)

	b.AddRect(kit2d.NewRect[float32](2, 2, 3, 3), 0, Rotation{}, kit2d.Black)
	second, n := b.Finalize()
	if second.VertexCount != 8 || n != 12 {
		t.Errorf("after mutation: %d vertices %d elements, want 8 and 12", second.VertexCount, n)
	}
	if !bytes.Equal(first.Vertices, firstBytes) {
		t.Error("earlier snapshot was modified by a later Finalize")
	}

	b.Clear()
	cleared, n := b.Finalize()
	if n != 0 || cleared.VertexCount != 0 {
		t.Errorf("after Clear: %d elements", n)
	}
}

func TestEmissionOrder(t *testing.T) {
	b := NewBatch()
	b.AddRect(kit2d.NewRect[float32](0, 0, 1, 1), 0, Rotation{}, kit2d.Red)
	b.AddRect(kit2d.NewRect[float32](0, 0, 1, 1), 0, Rotation{}, kit2d.Blue)

	data, _ := b.Finalize()
	verts := decode(t, data)
	if verts[0].Color != kit2d.Red || verts[4].Color != kit2d.Blue {
		t.Error("shapes not emitted in insertion order")
	}
	if data.Indices[6] != 4 {
		t.Errorf("second quad indices start at %d, want 4", data.Indices[6])
	}
}

func TestAddLine(t *testing.T) {
	b := NewBatch()
	b.AddLine(kit2d.Pt[float32](0, 5), kit2d.Pt[float32](10, 5), kit2d.White, 4)

	data, n := b.Finalize()
	if n != 6 {
		t.Fatalf("elements = %d, want 6", n)
	}
	verts := decode(t, data)
	want := [][2]float32{{0, 7}, {0, 3}, {10, 3}, {10, 7}}
	for i, v := range verts {
		if v.Position[0] != want[i][0] || v.Position[1] != want[i][1] {
			t.Errorf("vertex %d = (%v, %v), want %v", i, v.Position[0], v.Position[1], want[i])
		}
	}
}

func TestAddLineDefaultThickness(t *testing.T) {
	b := NewBatch()
	b.AddLine(kit2d.Pt[float32](0, 0), kit2d.Pt[float32](0, 10), kit2d.White, 0)
	verts := decode(t, mustFinalize(b))
	if w := verts[1].Position[0] - verts[0].Position[0]; w != 1 && w != -1 {
		t.Errorf("line width = %v, want 1", w)
	}
}

func mustFinalize(b *Batch) kit2d.VertexData {
	d, _ := b.Finalize()
	return d
}

func TestLayout2D(t *testing.T) {
	b := NewBatch(WithLayout2D())
	b.AddRect(kit2d.NewRect[float32](0, 0, 4, 4), 0.9, Rotation{}, kit2d.White)

	data, _ := b.Finalize()
	if data.Layout.Stride != 24 || len(data.Vertices) != 4*24 {
		t.Fatalf("2D layout: stride %d, %d bytes", data.Layout.Stride, len(data.Vertices))
	}
	verts := decode(t, data)
	if verts[2].Position[0] != 4 || verts[2].Position[1] != 4 || verts[2].Color != kit2d.White {
		t.Errorf("vertex 2 = %+v", verts[2])
	}
}

func TestLinearColor(t *testing.T) {
	gray := kit2d.Rgba8{R: 128, G: 128, B: 128, A: 128}
	b := NewBatch(WithLinearColor())
	b.AddRect(kit2d.NewRect[float32](0, 0, 1, 1), 0, Rotation{}, gray)

	for _, v := range decode(t, mustFinalize(b)) {
		if v.Color != gray.ToLinear() {
			t.Errorf("color = %v, want %v linearized once", v.Color, gray.ToLinear())
		}
	}
}

func TestShapes(t *testing.T) {
	tests := []struct {
		name       string
		shape      Shape
		vertices   int
		elements   int
		firstColor kit2d.Rgba8
	}{
		{
			name:     "line",
			shape:    Line{Line: kit2d.NewLine[float32](0, 0, 5, 5), Stroke: NewStroke(2, kit2d.Red)},
			vertices: 4, elements: 6, firstColor: kit2d.Red,
		},
		{
			name:     "filled rectangle",
			shape:    Rectangle{Rect: kit2d.NewRect[float32](0, 0, 8, 8), Fill: Solid(kit2d.Blue)},
			vertices: 4, elements: 6, firstColor: kit2d.Blue,
		},
		{
			name: "filled and stroked rectangle",
			shape: Rectangle{
				Rect:   kit2d.NewRect[float32](0, 0, 8, 8),
				Fill:   Solid(kit2d.Blue),
				Stroke: NewStroke(1, kit2d.White),
			},
			vertices: 20, elements: 30, firstColor: kit2d.Blue,
		},
		{
			name:     "empty rectangle",
			shape:    Rectangle{Rect: kit2d.NewRect[float32](0, 0, 8, 8)},
			vertices: 0, elements: 0,
		},
		{
			name:     "filled circle",
			shape:    Circle{Center: kit2d.Pt[float32](5, 5), Radius: 5, Sides: 8, Fill: Solid(kit2d.Green)},
			vertices: 9, elements: 24, firstColor: kit2d.Green,
		},
		{
			name:     "stroked circle default sides",
			shape:    Circle{Center: kit2d.Pt[float32](5, 5), Radius: 5, Stroke: NewStroke(1, kit2d.Red)},
			vertices: 2 * DefaultCircleSides, elements: 6 * DefaultCircleSides, firstColor: kit2d.Red,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBatch()
			b.Add(tt.shape)
			data, n := b.Finalize()
			if data.VertexCount != tt.vertices || n != tt.elements {
				t.Fatalf("got %d vertices %d elements, want %d and %d", data.VertexCount, n, tt.vertices, tt.elements)
			}
			if tt.vertices > 0 {
				if c := decode(t, data)[0].Color; c != tt.firstColor {
					t.Errorf("first color = %v, want %v", c, tt.firstColor)
				}
			}
			for _, idx := range data.Indices {
				if int(idx) >= data.VertexCount {
					t.Fatalf("index %d out of range", idx)
				}
			}
		})
	}
}

func TestStrokeInsideRectangle(t *testing.T) {
	rc := kit2d.NewRect[float32](0, 0, 10, 6)
	b := NewBatch()
	b.Add(Rectangle{Rect: rc, Stroke: NewStroke(2, kit2d.White)})
	for i, v := range decode(t, mustFinalize(b)) {
		if !rc.Contains(kit2d.Pt(v.Position[0], v.Position[1])) {
			t.Errorf("stroke vertex %d at %v lies outside the rectangle", i, v.Position)
		}
	}
}
