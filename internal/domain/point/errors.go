package point

import "errors"

var (
	ErrPointNotFound   = errors.New("attendance point not found")
	ErrPointNotActive  = errors.New("attendance point is already excused or expired")
	ErrExcuseNoReason  = errors.New("excusing a point requires a reason")
	ErrExcuseNoActor   = errors.New("excusing a point requires an acting operator")
)
