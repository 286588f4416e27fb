//go:build gstreamer

package player

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-gst/go-gst/gst"
	"go.uber.org/zap"
)

// Driver implements Player on GStreamer via a pipeline template. The
// template may reference {url} and {device}.
type Driver struct {
	log      *zap.Logger
	mu       sync.Mutex
	template string
	device   string
	uri      string
	current  *gst.Element
	events   chan Event
}

var gstInitOnce sync.Once

// NewDriver creates a GStreamer driver from a pipeline template.
func NewDriver(log *zap.Logger, template string, device string) (*Driver, error) {
	if strings.TrimSpace(template) == "" {
		template = "playbin uri={url}"
	}
	gstInitOnce.Do(func() {
		gst.Init(nil)
	})

	return &Driver{
		log:      log,
		template: template,
		device:   device,
		events:   make(chan Event, 16),
	}, nil
}

// SetURI stages the next stream address. Takes effect on Play.
func (d *Driver) SetURI(uri string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if strings.TrimSpace(uri) == "" {
		return errors.New("uri required")
	}
	d.uri = uri
	return nil
}

// Play starts playback of the staged URI, replacing any current
// pipeline.
func (d *Driver) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.uri == "" {
		return errors.New("no uri set")
	}

	pipeline := d.template
	pipeline = strings.ReplaceAll(pipeline, "{url}", d.uri)
	pipeline = strings.ReplaceAll(pipeline, "{device}", d.device)

	el, err := gst.ParseLaunch(pipeline)
	if err != nil {
		return err
	}
	if err := el.SetState(gst.StatePlaying); err != nil {
		return err
	}

	d.stopCurrentLocked()
	d.current = el
	d.emitStateLocked(StatePlaying)
	return nil
}

// Pause pauses the current pipeline.
func (d *Driver) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current == nil {
		return errors.New("not playing")
	}
	if err := d.current.SetState(gst.StatePaused); err != nil {
		return err
	}
	d.emitStateLocked(StatePaused)
	return nil
}

// Stop tears down the current pipeline.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopCurrentLocked()
	d.emitStateLocked(StateStopped)
	return nil
}

// Seek seeks within the current pipeline.
func (d *Driver) Seek(positionMS int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.current == nil {
		return errors.New("not playing")
	}
	positionNS := positionMS * int64(time.Millisecond)
	return d.current.SeekSimple(gst.FormatTime, gst.SeekFlagFlush|gst.SeekFlagKeyUnit, positionNS)
}

// Events returns the playback event stream. Emissions are dropped
// rather than blocking when no receiver keeps up.
func (d *Driver) Events() <-chan Event { return d.events }

// Close stops playback and closes the event stream.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopCurrentLocked()
	close(d.events)
	return nil
}

func (d *Driver) stopCurrentLocked() {
	if d.current == nil {
		return
	}
	if err := d.current.SetState(gst.StateNull); err != nil {
		d.log.Warn("pipeline teardown failed", zap.Error(err))
	}
	d.current = nil
}

func (d *Driver) emitStateLocked(state State) {
	select {
	case d.events <- Event{State: state}:
	default:
	}
}
