package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"time"

	"github.com/catwatch/cat-tracker/internal/logger"
)

// keepAliveInterval is how long a viewer waits for a fresh frame before a
// placeholder is sent to keep the multipart connection open.
const keepAliveInterval = 5 * time.Second

func writeSSE(w http.ResponseWriter, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// blankJPEG renders the placeholder shown before the camera produces its
// first frame.
func blankJPEG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	dark := color.RGBA{R: 24, G: 24, B: 28, A: 255}
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.Set(x, y, dark)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// streamMJPEG writes a multipart/x-mixed-replace stream from the viewer's
// frame channel until the client disconnects or the channel closes.
func streamMJPEG(w http.ResponseWriter, r *http.Request, frameCh <-chan []byte) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")

	blank, err := blankJPEG()
	if err != nil {
		http.Error(w, "Failed to render frame", http.StatusInternalServerError)
		return
	}

	keepAlive := time.NewTimer(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		var frame []byte
		select {
		case data, ok := <-frameCh:
			if !ok {
				return
			}
			frame = data
		case <-keepAlive.C:
			// No frame yet; keep the connection alive with the placeholder.
			frame = blank
		case <-r.Context().Done():
			return
		}
		if !keepAlive.Stop() {
			select {
			case <-keepAlive.C:
			default:
			}
		}
		keepAlive.Reset(keepAliveInterval)

		if _, err := w.Write([]byte("--frame\r\nContent-Type: image/jpeg\r\n\r\n")); err != nil {
			logger.Debug("MJPEG", "viewer disconnected: %v", err)
			return
		}
		if _, err := w.Write(frame); err != nil {
			logger.Debug("MJPEG", "viewer disconnected mid-frame: %v", err)
			return
		}
		if _, err := w.Write([]byte("\r\n")); err != nil {
			logger.Debug("MJPEG", "viewer disconnected at delimiter: %v", err)
			return
		}
		flusher.Flush()
	}
}
