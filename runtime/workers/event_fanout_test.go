package workers

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"village-chat/domain"
	"village-chat/domain/event"
	"village-chat/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestEventFanoutWorker_Fanout(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	mockSink := mocks.NewMockEventSink(ctrl)
	mockSink1 := mocks.NewMockEventSink(ctrl)
	fanout := NewEventFanout(log, 10, time.Second)
	fanout.Subscribe(mockSink, mockSink1)

	evt := event.MessageAppended{Message: domain.Message{Seq: 1, Sender: domain.SenderMe, Text: "hi"}}

	// Given both sinks consume the event, even if the first one fails
	mockSink.EXPECT().Consume(gomock.Any(), evt).Return(errors.New("closed")).Times(1)
	mockSink1.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	// When an event is handled by worker
	fanout.Fanout(context.Background(), evt)
}

func TestEventFanoutWorker_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)

	mockSink := mocks.NewMockEventSink(ctrl)
	fanout := NewEventFanout(log, 10, 20*time.Millisecond)
	fanout.Subscribe(mockSink)

	// Given a sink waiting for its context to end
	mockSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ event.DomainEvent) error {
			<-ctx.Done()
			return ctx.Err()
		}).
		Times(1)

	// When an event is handled
	start := time.Now()
	fanout.Fanout(context.Background(), event.StatusChanged{Status: domain.StatusReady})

	// Then the fanout was released by the timeout
	req.Less(time.Since(start), time.Second)
}

func TestEventFanoutWorker_Run_Delivers_In_Order(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	mockSink := mocks.NewMockEventSink(ctrl)
	fanout := NewEventFanout(slog.Default(), 10, time.Second)
	fanout.Subscribe(mockSink)

	received := make(chan string, 3)
	mockSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e event.DomainEvent) error {
			received <- e.(event.StatusChanged).Status
			return nil
		}).
		Times(3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = fanout.Run(ctx) }()

	for _, s := range []string{"one", "two", "three"} {
		fanout.Publish(event.StatusChanged{Status: s})
	}

	var got []string
	for i := 0; i < 3; i++ {
		select {
		case s := <-received:
			got = append(got, s)
		case <-time.After(time.Second):
			req.FailNow("event not delivered")
		}
	}
	req.Equal([]string{"one", "two", "three"}, got)
}

func TestEventFanoutWorker_Publish_Never_Blocks(t *testing.T) {
	req := require.New(t)
	fanout := NewEventFanout(slog.Default(), 1, time.Second)

	// Given nobody runs the fanout, the buffer fills up
	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			fanout.Publish(event.StatusChanged{Status: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Publish blocked")
	}
}
