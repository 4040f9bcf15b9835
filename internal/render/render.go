// Package render defines the boundary to the 2D rasterization
// collaborator. The engine hands it a sprite list and a view; the
// renderer fills a caller-sized BGRA frame. Engines never depend on how
// pixels are produced, only on the 4-byte BGRA channel order.
package render

// Sprite is one draw command: an axis-aligned box in world units with a
// type tag and a theme index selecting its visual variant.
type Sprite struct {
	X, Y   float32
	RX, RY float32
	Type   int32
	Theme  int32
}

// View maps world coordinates to the frame. Span is the number of world
// units covered by the frame's width; the view is centered on
// (CenterX, CenterY).
type View struct {
	CenterX float32
	CenterY float32
	Span    float32
}

// Renderer rasterizes one frame.
//
// dst must hold w*h*4 bytes and is written row-major in
// blue-green-red-alpha byte order. The renderer must not retain dst.
type Renderer interface {
	Draw(dst []byte, w, h int, view View, backgroundTheme int32, sprites []Sprite)
}
