package canvas

// ToBoardSpace converts a screen point to board space. origin is the screen
// position of the canvas' top-left corner.
func ToBoardSpace(screen, origin Point, v Viewport) Point {
	return screen.Sub(origin).Sub(v.Offset).Div(v.Zoom)
}

// ToScreenSpace is the inverse of ToBoardSpace.
func ToScreenSpace(board, origin Point, v Viewport) Point {
	return board.Mul(v.Zoom).Add(v.Offset).Add(origin)
}

// ScreenDelta converts a pointer movement into the board-space distance it covers.
func ScreenDelta(delta Point, v Viewport) Point {
	return delta.Div(v.Zoom)
}
