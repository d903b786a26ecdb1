package render

import "errors"

// ErrInvalidFigure reports a figure that cannot be drawn.
var ErrInvalidFigure = errors.New("invalid figure")
