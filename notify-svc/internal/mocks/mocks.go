// Package mocks holds testify mocks for the notify-svc service interfaces.
package mocks

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type Broadcaster struct {
	mock.Mock
}

func NewBroadcaster(t testingT) *Broadcaster {
	m := &Broadcaster{}
	register(&m.Mock, t)
	return m
}

// Guard is not recorded; tests assert on Broadcast.
func (m *Broadcaster) Guard(int) func() {
	return func() {}
}

func (m *Broadcaster) Broadcast(restaurantID int, frame []byte) int {
	return m.Called(restaurantID, frame).Int(0)
}

type Buffer struct {
	mock.Mock
}

func NewBuffer(t testingT) *Buffer {
	m := &Buffer{}
	register(&m.Mock, t)
	return m
}

func (m *Buffer) Push(ctx context.Context, restaurantID int, frame []byte) error {
	return m.Called(ctx, restaurantID, frame).Error(0)
}

func (m *Buffer) Drain(ctx context.Context, restaurantID int) ([]json.RawMessage, error) {
	ret := m.Called(ctx, restaurantID)
	var frames []json.RawMessage
	if v := ret.Get(0); v != nil {
		frames = v.([]json.RawMessage)
	}
	return frames, ret.Error(1)
}

type MessageReader struct {
	mock.Mock
}

func NewMessageReader(t testingT) *MessageReader {
	m := &MessageReader{}
	register(&m.Mock, t)
	return m
}

func (m *MessageReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	ret := m.Called(ctx)
	return ret.Get(0).(kafka.Message), ret.Error(1)
}
