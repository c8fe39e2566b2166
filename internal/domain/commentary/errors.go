package commentary

import "errors"

// ErrFormat is returned when a template cannot be filled in. The renderer
// still returns the raw template alongside it.
var ErrFormat = errors.New("commentary template format failed")
