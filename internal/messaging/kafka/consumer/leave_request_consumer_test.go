package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-leave/internal/events"
	"go-leave/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeReader serves msgs in order, then cancels the consumer.
type fakeReader struct {
	msgs      []kafkago.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		return kafkago.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

type fakeRecorder struct {
	recordFn func(ctx context.Context, e events.LeaveRequestEvent) (bool, error)
	seen     []string
}

func (f *fakeRecorder) Record(ctx context.Context, e events.LeaveRequestEvent) (bool, error) {
	f.seen = append(f.seen, e.LeaveRequestID)
	return f.recordFn(ctx, e)
}

func message(t *testing.T, offset int64, e events.LeaveRequestEvent) kafkago.Message {
	t.Helper()
	b, err := json.Marshal(e)
	assert.NoError(t, err)
	return kafkago.Message{Offset: offset, Value: b}
}

func TestConsumeLeaveRequestLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{
		cancel: cancel,
		msgs: []kafkago.Message{
			message(t, 1, events.LeaveRequestEvent{EventType: events.LeaveRequestApproved, LeaveRequestID: "req-1", UserID: "emp1"}),
			{Offset: 2, Value: []byte("not json")},
			message(t, 3, events.LeaveRequestEvent{EventType: events.LeaveRequestRejected, LeaveRequestID: "req-2", UserID: "emp2"}),
			message(t, 4, events.LeaveRequestEvent{EventType: events.LeaveRequestSubmitted, LeaveRequestID: "req-3", UserID: "emp1"}),
		},
	}
	recorder := &fakeRecorder{
		recordFn: func(_ context.Context, e events.LeaveRequestEvent) (bool, error) {
			if e.LeaveRequestID == "req-2" {
				return false, errors.New("redis down")
			}
			return e.Decision(), nil
		},
	}

	consumer.ConsumeLeaveRequestLifecycle(ctx, reader, recorder, zap.NewNop())

	assert.Equal(t, []string{"req-1", "req-2", "req-3"}, recorder.seen)
	assert.Equal(t, []int64{1, 2, 4}, reader.committed)
}
