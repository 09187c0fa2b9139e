package colors

import (
	"fmt"

	tberrors "github.com/tessro/tuneboard/internal/errors"
)

// ImageLoadError reports that artwork could not be fetched or decoded.
// Callers keep their previous or default colors.
type ImageLoadError struct {
	Source string
	Err    error
}

func (e *ImageLoadError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("load image: %v", e.Err)
	}
	return fmt.Sprintf("load image %s: %v", e.Source, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrImageLoad.
func (e *ImageLoadError) Is(target error) bool {
	return target == tberrors.ErrImageLoad
}
