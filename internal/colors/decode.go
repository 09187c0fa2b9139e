package colors

import (
	"errors"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"io"
)

var errEmptyImage = errors.New("image has no pixels")

// Decode reads an encoded image. Any failure is an *ImageLoadError.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, &ImageLoadError{Err: err}
	}
	if img.Bounds().Empty() {
		return nil, &ImageLoadError{Err: errEmptyImage}
	}
	return img, nil
}
