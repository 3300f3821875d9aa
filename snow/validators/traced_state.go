// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validators

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ava-labs/sharedmemory/ids"
	"github.com/ava-labs/sharedmemory/trace"
)

var _ State = (*tracedState)(nil)

type tracedState struct {
	s           State
	getSubnetID string
	tracer      trace.Tracer
}

func Trace(s State, name string, tracer trace.Tracer) State {
	return &tracedState{
		s:           s,
		getSubnetID: fmt.Sprintf("%s.GetSubnetID", name),
		tracer:      tracer,
	}
}

func (s *tracedState) GetSubnetID(ctx context.Context, chainID ids.ID) (ids.ID, error) {
	ctx, span := s.tracer.Start(ctx, s.getSubnetID, oteltrace.WithAttributes(
		attribute.Stringer("chainID", chainID),
	))
	defer span.End()

	return s.s.GetSubnetID(ctx, chainID)
}
