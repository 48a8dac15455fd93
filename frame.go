package pixui

// FrameContext is the per-frame state the vertex kernels read from a
// uniform buffer: the animation frame counter and the window size used for
// the pixel to NDC transform. The UI advances CurrentFrame once per
// rendered frame; nothing else mutates it.
type FrameContext struct {
	CurrentFrame uint32
	WindowWidth  float32
	WindowHeight float32
}

// NDC converts a window-pixel position to normalized device coordinates,
// mirroring the transform in the vertex kernels:
//
//	x' = px/w*2 - 1
//	y' = 1 - py/h*2
//
// (0,0) is the window's top-left corner and maps to (-1, 1).
func (f FrameContext) NDC(px, py float32) (x, y float32) {
	return px/f.WindowWidth*2 - 1, 1 - py/f.WindowHeight*2
}
