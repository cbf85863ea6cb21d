// Package pipeline runs the frame loop: pull frames from the camera, run
// detection, annotate, persist snapshots for target-class hits, and fan the
// annotated frames out to stream viewers.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"time"

	"github.com/catwatch/cat-tracker/internal/annotate"
	"github.com/catwatch/cat-tracker/internal/camera"
	"github.com/catwatch/cat-tracker/internal/detect"
	"github.com/catwatch/cat-tracker/internal/event"
	"github.com/catwatch/cat-tracker/internal/logger"
	"github.com/catwatch/cat-tracker/internal/metrics"
	"github.com/catwatch/cat-tracker/internal/snapshot"
)

// Pipeline owns the single detection loop shared by all viewers.
type Pipeline struct {
	source      camera.Source
	detector    detect.Detector
	events      *event.Store
	snapshots   *snapshot.Store
	broadcaster *Broadcaster
	metrics     *metrics.Metrics
	targetClass string
	jpegQuality int
	now         func() time.Time
}

// New wires a pipeline. The broadcaster is created here and shared with the
// HTTP surface through Broadcaster().
func New(
	source camera.Source,
	detector detect.Detector,
	events *event.Store,
	snapshots *snapshot.Store,
	m *metrics.Metrics,
	targetClass string,
	jpegQuality int,
) *Pipeline {
	return &Pipeline{
		source:      source,
		detector:    detector,
		events:      events,
		snapshots:   snapshots,
		broadcaster: NewBroadcaster(),
		metrics:     m,
		targetClass: targetClass,
		jpegQuality: jpegQuality,
		now:         time.Now,
	}
}

// Broadcaster returns the frame fan-out shared with stream handlers.
func (p *Pipeline) Broadcaster() *Broadcaster {
	return p.broadcaster
}

// Run executes the frame loop until the context is canceled or the camera
// stream ends. The stream ending is terminal: reconnecting is the camera
// driver's job, not ours.
func (p *Pipeline) Run(ctx context.Context) error {
	logger.Info("Pipeline", "frame loop started (target class %q)", p.targetClass)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Pipeline", "frame loop stopped: %v", ctx.Err())
			return ctx.Err()
		default:
		}

		img, err := p.source.Read()
		if err != nil {
			if errors.Is(err, camera.ErrStreamEnded) {
				p.metrics.ReadErrors.Add(1)
				logger.Error("Pipeline", "camera stream ended: %v", err)
				return err
			}
			// A single undecodable frame is skipped; the loop continues.
			p.metrics.ReadErrors.Add(1)
			logger.Warn("Pipeline", "skipping frame: %v", err)
			continue
		}
		p.metrics.FramesRead.Add(1)

		p.processFrame(img)
	}
}

func (p *Pipeline) processFrame(img image.Image) {
	dets, err := p.detector.Detect(img)
	if err != nil {
		// A failed inference degrades to "no detections this frame".
		p.metrics.DetectErrors.Add(1)
		logger.Warn("Pipeline", "detection failed: %v", err)
		dets = nil
	}

	annotated := annotate.Draw(img, dets, p.targetClass)
	frame, err := p.encodeJPEG(annotated)
	if err != nil {
		p.metrics.EncodeErrors.Add(1)
		logger.Warn("Pipeline", "frame encode failed: %v", err)
		return
	}

	if matches := detect.CountClass(dets, p.targetClass); matches > 0 {
		p.recordEvent(frame, matches)
	}

	drops := p.broadcaster.Publish(frame)
	p.metrics.FramesPublished.Add(1)
	if drops > 0 {
		p.metrics.FramesDropped.Add(uint64(drops))
	}
}

// recordEvent persists the snapshot before registering the event so an
// event is never visible through the API without its image on disk.
func (p *Pipeline) recordEvent(frame []byte, matches int) {
	now := p.now()
	name := event.Filename(now)

	path, err := p.snapshots.Save(name, frame)
	if err != nil {
		logger.Error("Pipeline", "snapshot save failed, event dropped: %v", err)
		return
	}
	p.metrics.SnapshotBytes.Add(uint64(len(frame)))

	p.events.Append(event.Event{
		Timestamp: now.Format(event.TimestampLayout),
		Filename:  name,
		Path:      path,
		Count:     matches,
	})
	p.metrics.DetectionsTotal.Add(uint64(matches))
	p.metrics.EventsRecorded.Add(1)
	logger.Info("Pipeline", "recorded %d %s(s): %s", matches, p.targetClass, name)
}

func (p *Pipeline) encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
