// Package dnn wraps an OpenCV DNN object detection model behind the
// detect.Detector interface. It is the only detection code that touches
// gocv; everything above it works with plain detect.Detection values.
package dnn

import (
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	"github.com/catwatch/cat-tracker/internal/detect"
)

const inputSize = 300 // SSD MobileNet fixed input resolution

// Detector runs a pretrained SSD network on single frames.
type Detector struct {
	net           gocv.Net
	confThreshold float64
	iouThreshold  float64
}

// NewDetector loads the frozen model and its config, failing fast when
// either file is missing or the network cannot be constructed.
func NewDetector(modelPath, configPath string, confThreshold, iouThreshold float64) (*Detector, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}
	if _, err := os.Stat(configPath); err != nil {
		return nil, fmt.Errorf("model config file: %w", err)
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", modelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return nil, fmt.Errorf("set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return nil, fmt.Errorf("set target: %w", err)
	}

	return &Detector{
		net:           net,
		confThreshold: confThreshold,
		iouThreshold:  iouThreshold,
	}, nil
}

// Detect runs one inference pass and returns the detections above the
// confidence threshold after non-maximum suppression.
func (d *Detector) Detect(img image.Image) ([]detect.Detection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, fmt.Errorf("empty frame")
	}

	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(inputSize, inputSize),
		gocv.NewScalar(127.5, 127.5, 127.5, 0), false, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	// SSD output rows are [imageID, classID, confidence, x1, y1, x2, y2]
	// with normalized coordinates.
	rows := output.Total() / 7
	results := output.Reshape(1, rows)
	defer results.Close()

	cols := float32(mat.Cols())
	rowsPx := float32(mat.Rows())

	var dets []detect.Detection
	for i := 0; i < results.Rows(); i++ {
		confidence := float64(results.GetFloatAt(i, 2))
		if confidence < d.confThreshold {
			continue
		}
		classID := int(results.GetFloatAt(i, 1))
		x1 := int(results.GetFloatAt(i, 3) * cols)
		y1 := int(results.GetFloatAt(i, 4) * rowsPx)
		x2 := int(results.GetFloatAt(i, 5) * cols)
		y2 := int(results.GetFloatAt(i, 6) * rowsPx)

		dets = append(dets, detect.Detection{
			ClassName:  className(classID),
			Confidence: confidence,
			BBox: detect.BoundingBox{
				X: x1,
				Y: y1,
				W: x2 - x1,
				H: y2 - y1,
			},
		})
	}

	return detect.NonMaxSuppression(dets, d.iouThreshold), nil
}

// Close releases the underlying network.
func (d *Detector) Close() error {
	return d.net.Close()
}
