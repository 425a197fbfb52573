// Package origintest provides a testify mock of origin.Handler.
package origintest

import (
	"context"

	"github.com/arthur-debert/mtcollect/pkg/types"
	"github.com/stretchr/testify/mock"
)

// MockHandler is a mock origin.Handler. Materialize and Refresh run the
// optional hooks before returning the recorded error, so tests can create
// the destination the way a real handler would.
type MockHandler struct {
	mock.Mock
	OriginKind    types.OriginKind
	OnMaterialize func(ref types.PackageRef, dest string)
	OnRefresh     func(ref types.PackageRef, dest string)
}

// NewMockHandler creates a mock serving kind.
func NewMockHandler(kind types.OriginKind) *MockHandler {
	return &MockHandler{OriginKind: kind}
}

func (m *MockHandler) Kind() types.OriginKind {
	return m.OriginKind
}

func (m *MockHandler) Materialize(ctx context.Context, ref types.PackageRef, dest string) error {
	args := m.Called(ctx, ref, dest)
	if m.OnMaterialize != nil && args.Error(0) == nil {
		m.OnMaterialize(ref, dest)
	}
	return args.Error(0)
}

func (m *MockHandler) Refresh(ctx context.Context, ref types.PackageRef, dest string) error {
	args := m.Called(ctx, ref, dest)
	if m.OnRefresh != nil && args.Error(0) == nil {
		m.OnRefresh(ref, dest)
	}
	return args.Error(0)
}
