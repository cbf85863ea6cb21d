// Package camera defines the frame-producer boundary. The pipeline only
// sees this interface; the gocv-backed RTSP source lives in the rtsp
// subpackage so the rest of the tree stays pure Go.
package camera

import (
	"errors"
	"image"
)

// ErrStreamEnded reports that the source cannot produce further frames.
// The pipeline terminates on it; reconnect policy belongs to the camera
// driver, not to this application.
var ErrStreamEnded = errors.New("camera stream ended")

// Source produces a sequence of raw video frames. Read blocks until the
// next frame is available and returns ErrStreamEnded (possibly wrapped)
// once the stream is unreadable.
type Source interface {
	Read() (image.Image, error)
	Close() error
}
