// Package grpctransport runs call attempts against a gRPC stub.
package grpctransport

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/janhicken/cloud-bigtable-client/internal/call"
)

// Transport submits attempts by running the request's invoke closure
// on its own goroutine. Each attempt gets a derived context carrying
// the per-attempt deadline and the call's outgoing metadata, and the
// invoke result is translated into the engine's message/terminal
// callback pair via the gRPC status vocabulary.
type Transport struct{}

// New returns a gRPC-backed Transport.
func New() *Transport {
	return &Transport{}
}

// Submit implements call.Transport. The returned stop function cancels
// the attempt context; the invoke then ends with a Canceled status,
// which the engine discards as stale.
func (t *Transport) Submit(ctx context.Context, req call.Request, ac call.AttemptContext, cb call.Callbacks) func() {
	actx := ctx
	var cancel context.CancelFunc
	if ac.Timeout > 0 {
		actx, cancel = context.WithTimeout(actx, ac.Timeout)
	} else {
		actx, cancel = context.WithCancel(actx)
	}
	if len(ac.Metadata) > 0 {
		actx = metadata.NewOutgoingContext(actx, ac.Metadata)
	}

	go func() {
		v, err := req.Invoke(actx)
		if err != nil {
			s := status.Convert(err)
			cb.OnTerminal(s.Code(), nil, err)
			cancel()
			return
		}
		if cb.OnMessage != nil {
			cb.OnMessage(v)
		}
		cb.OnTerminal(codes.OK, nil, nil)
		cancel()
	}()

	return cancel
}
