// Package gonoop is the telemetry sink used when telemetry is disabled
// or the real sink cannot be constructed.
package gonoop

import (
	"context"

	"github.com/textforge/humanizer/tlmt"
)

type service struct{}

func New() tlmt.Telemetry {
	return &service{}
}

func (s *service) Send(context.Context, tlmt.Event) error {
	return nil
}

func (s *service) Close() error {
	return nil
}
