// Package mocks holds testify mocks for the market-svc service interfaces,
// written in the shape mockery generates.
package mocks

import "github.com/stretchr/testify/mock"

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

func get[T any](args mock.Arguments, i int) T {
	var zero T
	if v := args.Get(i); v != nil {
		return v.(T)
	}
	return zero
}
