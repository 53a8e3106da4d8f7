package gateway

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/lexrank/errors"
	"github.com/c360/lexrank/summarizer"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *SummarizeRequest
		wantErr bool
	}{
		{name: "text and ratio", body: `{"text":"A. B.","ratio":0.5}`, want: &SummarizeRequest{Text: "A. B.", Ratio: 0.5}},
		{name: "ratio omitted", body: `{"text":"A. B."}`, want: &SummarizeRequest{Text: "A. B."}},
		{name: "trailing whitespace", body: "{\"text\":\"A.\"}\n", want: &SummarizeRequest{Text: "A."}},
		{name: "empty body", body: "", wantErr: true},
		{name: "malformed", body: `{"text":`, wantErr: true},
		{name: "unknown field", body: `{"text":"A.","summary_ratio":0.3}`, wantErr: true},
		{name: "wrong type", body: `{"text":42}`, wantErr: true},
		{name: "trailing object", body: `{"text":"A."}{"text":"B."}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalid(err))
				assert.ErrorIs(t, err, errors.ErrInvalidData)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRatioOr(t *testing.T) {
	assert.Equal(t, 0.3, (&SummarizeRequest{}).RatioOr(0.3))
	assert.Equal(t, 0.5, (&SummarizeRequest{Ratio: 0.5}).RatioOr(0.3))
	// Out of range values pass through for the summarizer to reject.
	assert.Equal(t, -1.0, (&SummarizeRequest{Ratio: -1}).RatioOr(0.3))
}

func TestRequestID(t *testing.T) {
	assert.Equal(t, "abc", RequestID("abc"))

	generated := RequestID("")
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.NotEqual(t, generated, RequestID(""))
}

func TestPublicMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "invalid ratio keeps sentinel text",
			err:  errors.WrapInvalid(errors.ErrInvalidRatio, "Summarizer", "Summarize", "validate ratio"),
			want: errors.ErrInvalidRatio.Error(),
		},
		{
			name: "empty text",
			err:  errors.WrapInvalid(errors.ErrEmptyText, "Summarizer", "Summarize", "validate text"),
			want: errors.ErrEmptyText.Error(),
		},
		{
			name: "decode detail is hidden",
			err:  errors.WrapInvalid(fmt.Errorf("%w: unexpected EOF", errors.ErrInvalidData), "Gateway", "DecodeRequest", "decode body"),
			want: errors.ErrInvalidData.Error(),
		},
		{
			name: "deadline",
			err:  errors.WrapTransient(context.DeadlineExceeded, "Summarizer", "Summarize", "rank"),
			want: "request timeout",
		},
		{
			name: "transient",
			err:  errors.WrapTransient(errors.ErrNotConnected, "Client", "Request", "check connection"),
			want: "service temporarily unavailable",
		},
		{
			name: "fatal",
			err:  errors.WrapFatal(errors.ErrInvalidConfig, "Summarizer", "New", "validate config"),
			want: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicMessage(tt.err))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	err := errors.WrapInvalid(errors.ErrInvalidRatio, "Summarizer", "Summarize", "validate ratio")

	resp := NewErrorResponse(err, "req-1")
	assert.Equal(t, ErrorResponse{
		Error:     "summary ratio must be in (0, 1]",
		Class:     "invalid",
		RequestID: "req-1",
	}, resp)
}

func TestProcess(t *testing.T) {
	s, err := summarizer.New(nil, summarizer.DefaultConfig())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("default ratio", func(t *testing.T) {
		body := `{"text":"Cats and dogs are pets. Cats are independent. Dogs are loyal. Rockets reach orbit."}`
		res, err := Process(ctx, s, []byte(body))
		require.NoError(t, err)
		assert.Equal(t, summarizer.StateRanked, res.State)
		// floor(4 * 0.3) = 1
		assert.Len(t, res.Selected, 1)
		assert.Len(t, res.RankedEntries, 4)
	})

	t.Run("invalid ratio", func(t *testing.T) {
		_, err := Process(ctx, s, []byte(`{"text":"A. B.","ratio":1.5}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrInvalidRatio)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := Process(ctx, s, []byte(`{"text":"   "}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrEmptyText)
	})
}
