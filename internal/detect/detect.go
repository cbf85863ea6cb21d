package detect

import (
	"image"
	"sort"
)

// BoundingBox is an axis-aligned box in pixel coordinates.
type BoundingBox struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect converts the box to an image.Rectangle.
func (b BoundingBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Detection is one classification result for a single frame.
type Detection struct {
	ClassName  string      `json:"class_name"`
	Confidence float64     `json:"confidence"`
	BBox       BoundingBox `json:"bbox"`
}

// Detector runs object detection on a single frame. Implementations wrap a
// pretrained model; a failed inference is reported as an error and treated
// by callers as "no detections this frame".
type Detector interface {
	Detect(img image.Image) ([]Detection, error)
	Close() error
}

// IoU returns the intersection-over-union of two boxes, 0 when disjoint.
func IoU(a, b BoundingBox) float64 {
	inter := a.Rect().Intersect(b.Rect())
	if inter.Empty() {
		return 0
	}
	interArea := inter.Dx() * inter.Dy()
	union := a.W*a.H + b.W*b.H - interArea
	if union <= 0 {
		return 0
	}
	return float64(interArea) / float64(union)
}

// NonMaxSuppression drops detections of the same class that overlap a
// higher-confidence detection by more than iouThreshold. The survivors are
// returned ordered by descending confidence.
func NonMaxSuppression(dets []Detection, iouThreshold float64) []Detection {
	if len(dets) <= 1 {
		return dets
	}
	sorted := make([]Detection, len(dets))
	copy(sorted, dets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	kept := sorted[:0]
	for _, d := range sorted {
		suppressed := false
		for _, k := range kept {
			if k.ClassName == d.ClassName && IoU(k.BBox, d.BBox) > iouThreshold {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, d)
		}
	}
	return kept
}

// CountClass returns how many detections carry the given class name.
func CountClass(dets []Detection, class string) int {
	n := 0
	for _, d := range dets {
		if d.ClassName == class {
			n++
		}
	}
	return n
}
