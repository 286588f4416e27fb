//go:build !gstreamer

package player

import (
	"errors"

	"go.uber.org/zap"
)

var errNotBuilt = errors.New("gstreamer build tag not enabled")

// Driver is a stub when the gstreamer tag is not enabled.
type Driver struct{}

// NewDriver returns an error when the gstreamer build tag is missing.
func NewDriver(log *zap.Logger, template string, device string) (*Driver, error) {
	return nil, errNotBuilt
}

func (d *Driver) SetURI(uri string) error     { return errNotBuilt }
func (d *Driver) Play() error                 { return errNotBuilt }
func (d *Driver) Pause() error                { return errNotBuilt }
func (d *Driver) Stop() error                 { return errNotBuilt }
func (d *Driver) Seek(positionMS int64) error { return errNotBuilt }
func (d *Driver) Events() <-chan Event        { return nil }
func (d *Driver) Close() error                { return nil }
