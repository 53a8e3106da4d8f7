package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/lexrank/config"
	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/gateway"
	"github.com/c360/lexrank/metric"
	"github.com/c360/lexrank/natsclient"
	"github.com/c360/lexrank/summarizer"
)

const petsText = "Cats and dogs are pets. Cats are independent. Dogs are loyal. Rockets reach orbit."

type fakeSubscriber struct {
	subject string
	queue   string
	handler natsclient.MsgHandler
	err     error
}

func (f *fakeSubscriber) QueueSubscribe(_ context.Context, subject, queue string, handler natsclient.MsgHandler) error {
	if f.err != nil {
		return f.err
	}
	f.subject, f.queue, f.handler = subject, queue, handler
	return nil
}

func newTestResponder(t *testing.T, sub Subscriber, opts ...Option) *Responder {
	t.Helper()
	s, err := summarizer.New(nil, summarizer.DefaultConfig())
	require.NoError(t, err)

	r, err := NewResponder(sub, s, config.Default().NATS, opts...)
	require.NoError(t, err)
	return r
}

func TestNewResponder_Validation(t *testing.T) {
	s, err := summarizer.New(nil, summarizer.DefaultConfig())
	require.NoError(t, err)

	_, err = NewResponder(nil, s, config.Default().NATS)
	assert.True(t, errors.IsFatal(err))

	_, err = NewResponder(&fakeSubscriber{}, nil, config.Default().NATS)
	assert.True(t, errors.IsFatal(err))

	cfg := config.Default().NATS
	cfg.Subject = ""
	_, err = NewResponder(&fakeSubscriber{}, s, cfg)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestStart_SubscribesToQueueGroup(t *testing.T) {
	sub := &fakeSubscriber{}
	r := newTestResponder(t, sub)

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, "lexrank.summarize", sub.subject)
	assert.Equal(t, "lexrank", sub.queue)
	assert.NotNil(t, sub.handler)
}

func TestStart_SubscribeError(t *testing.T) {
	sub := &fakeSubscriber{err: errors.WrapTransient(errors.ErrNotConnected, "Client", "QueueSubscribe", "check connection")}
	r := newTestResponder(t, sub)

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrNotConnected)
}

func TestHandle_Success(t *testing.T) {
	r := newTestResponder(t, &fakeSubscriber{})

	reply, err := r.Handle(context.Background(), "req-1", []byte(fmt.Sprintf(`{"text":%q,"ratio":0.5}`, petsText)))
	require.NoError(t, err)

	var res summarizer.Result
	require.NoError(t, json.Unmarshal(reply, &res))
	assert.Equal(t, summarizer.StateRanked, res.State)
	assert.Equal(t, []int{0, 3}, res.Selected)
	assert.Equal(t, "Cats and dogs are pets. Rockets reach orbit.", res.SummaryText)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantError string
	}{
		{"zero ratio selects default", `{"text":"A. B.","ratio":0}`, ""},
		{"ratio above one", `{"text":"A. B.","ratio":1.01}`, "summary ratio must be in (0, 1]"},
		{"empty text", `{"text":""}`, "text is empty"},
		{"not json", `summarize this`, "invalid data format"},
	}

	r := newTestResponder(t, &fakeSubscriber{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := r.Handle(context.Background(), "req-2", []byte(tt.body))
			if tt.wantError == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsInvalid(err))

			var resp gateway.ErrorResponse
			require.NoError(t, json.Unmarshal(reply, &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Equal(t, "invalid", resp.Class)
			assert.Equal(t, "req-2", resp.RequestID)
		})
	}
}

func TestHandle_Metrics(t *testing.T) {
	m := metric.NewMetrics()
	r := newTestResponder(t, &fakeSubscriber{}, WithMetrics(m))

	_, err := r.Handle(context.Background(), "a", []byte(fmt.Sprintf(`{"text":%q}`, petsText)))
	require.NoError(t, err)
	_, err = r.Handle(context.Background(), "b", []byte(`{"text":" "}`))
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("nats", "ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("nats", "invalid")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("nats", "invalid")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.InFlight.WithLabelValues("nats")))
}

func TestHandleMsg_NoReplySubject(t *testing.T) {
	m := metric.NewMetrics()
	r := newTestResponder(t, &fakeSubscriber{}, WithMetrics(m))

	// Published without a reply subject: nothing is processed.
	r.handleMsg(context.Background(), &nats.Msg{Subject: "lexrank.summarize", Data: []byte(`{"text":"A. B."}`)})
	assert.Equal(t, 0, testutil.CollectAndCount(m.RequestsTotal))
}
