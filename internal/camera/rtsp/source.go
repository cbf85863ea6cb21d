// Package rtsp opens network camera streams through OpenCV's VideoCapture.
package rtsp

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/catwatch/cat-tracker/internal/camera"
)

// Source reads frames from an RTSP (or any OpenCV-supported) stream URL.
// Read and Close must be called from a single goroutine; the pipeline owns
// the source exclusively.
type Source struct {
	url string
	cap *gocv.VideoCapture
	mat gocv.Mat
}

// Open connects to the stream and fails when it cannot be opened.
func Open(url string) (*Source, error) {
	cap, err := gocv.OpenVideoCapture(url)
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w", url, err)
	}
	if !cap.IsOpened() {
		_ = cap.Close()
		return nil, fmt.Errorf("open stream %s: %w", url, camera.ErrStreamEnded)
	}
	return &Source{
		url: url,
		cap: cap,
		mat: gocv.NewMat(),
	}, nil
}

// Read blocks for the next frame and decodes it into an image.Image.
func (s *Source) Read() (image.Image, error) {
	if !s.cap.Read(&s.mat) {
		return nil, fmt.Errorf("read frame from %s: %w", s.url, camera.ErrStreamEnded)
	}
	if s.mat.Empty() {
		return nil, fmt.Errorf("empty frame from %s: %w", s.url, camera.ErrStreamEnded)
	}
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}

// Close releases the capture handle and frame buffer.
func (s *Source) Close() error {
	s.mat.Close()
	return s.cap.Close()
}
