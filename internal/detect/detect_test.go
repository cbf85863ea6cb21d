package detect

import (
	"math"
	"testing"
)

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b BoundingBox
		want float64
	}{
		{
			name: "identical",
			a:    BoundingBox{X: 0, Y: 0, W: 10, H: 10},
			b:    BoundingBox{X: 0, Y: 0, W: 10, H: 10},
			want: 1,
		},
		{
			name: "disjoint",
			a:    BoundingBox{X: 0, Y: 0, W: 10, H: 10},
			b:    BoundingBox{X: 20, Y: 20, W: 10, H: 10},
			want: 0,
		},
		{
			name: "touching edges",
			a:    BoundingBox{X: 0, Y: 0, W: 10, H: 10},
			b:    BoundingBox{X: 10, Y: 0, W: 10, H: 10},
			want: 0,
		},
		{
			name: "half overlap",
			a:    BoundingBox{X: 0, Y: 0, W: 10, H: 10},
			b:    BoundingBox{X: 5, Y: 0, W: 10, H: 10},
			// intersection 50, union 150
			want: 1.0 / 3.0,
		},
		{
			name: "contained",
			a:    BoundingBox{X: 0, Y: 0, W: 10, H: 10},
			b:    BoundingBox{X: 2, Y: 2, W: 5, H: 5},
			want: 0.25,
		},
		{
			name: "degenerate",
			a:    BoundingBox{X: 0, Y: 0, W: 0, H: 0},
			b:    BoundingBox{X: 0, Y: 0, W: 10, H: 10},
			want: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := IoU(tc.a, tc.b)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("IoU = %v, want %v", got, tc.want)
			}
			// IoU is symmetric.
			if rev := IoU(tc.b, tc.a); math.Abs(rev-got) > 1e-9 {
				t.Fatalf("IoU not symmetric: %v vs %v", got, rev)
			}
		})
	}
}

func TestNonMaxSuppression(t *testing.T) {
	cat := func(conf float64, x int) Detection {
		return Detection{
			ClassName:  "cat",
			Confidence: conf,
			BBox:       BoundingBox{X: x, Y: 0, W: 10, H: 10},
		}
	}

	t.Run("overlapping same class collapses to best", func(t *testing.T) {
		dets := []Detection{cat(0.7, 0), cat(0.9, 1), cat(0.8, 2)}
		got := NonMaxSuppression(dets, 0.45)
		if len(got) != 1 {
			t.Fatalf("kept %d detections, want 1", len(got))
		}
		if got[0].Confidence != 0.9 {
			t.Fatalf("kept confidence %v, want 0.9", got[0].Confidence)
		}
	})

	t.Run("distinct boxes survive", func(t *testing.T) {
		dets := []Detection{cat(0.9, 0), cat(0.8, 100)}
		got := NonMaxSuppression(dets, 0.45)
		if len(got) != 2 {
			t.Fatalf("kept %d detections, want 2", len(got))
		}
	})

	t.Run("different classes never suppress each other", func(t *testing.T) {
		dets := []Detection{
			cat(0.9, 0),
			{ClassName: "dog", Confidence: 0.8, BBox: BoundingBox{X: 0, Y: 0, W: 10, H: 10}},
		}
		got := NonMaxSuppression(dets, 0.45)
		if len(got) != 2 {
			t.Fatalf("kept %d detections, want 2", len(got))
		}
	})

	t.Run("empty and single pass through", func(t *testing.T) {
		if got := NonMaxSuppression(nil, 0.45); len(got) != 0 {
			t.Fatalf("kept %d detections from nil", len(got))
		}
		one := []Detection{cat(0.5, 0)}
		if got := NonMaxSuppression(one, 0.45); len(got) != 1 {
			t.Fatalf("kept %d detections from one", len(got))
		}
	})
}

func TestCountClass(t *testing.T) {
	dets := []Detection{
		{ClassName: "cat"},
		{ClassName: "dog"},
		{ClassName: "cat"},
	}
	if got := CountClass(dets, "cat"); got != 2 {
		t.Fatalf("CountClass(cat) = %d, want 2", got)
	}
	if got := CountClass(dets, "bird"); got != 0 {
		t.Fatalf("CountClass(bird) = %d, want 0", got)
	}
	if got := CountClass(nil, "cat"); got != 0 {
		t.Fatalf("CountClass(nil) = %d, want 0", got)
	}
}
