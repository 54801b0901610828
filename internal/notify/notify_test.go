package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogSenderLogsInsteadOfSending(t *testing.T) {
	var buf bytes.Buffer
	s := &LogSender{Log: slog.New(slog.NewJSONHandler(&buf, nil))}

	err := s.Send(context.Background(), Message{
		To:      "ops@example.com",
		Subject: "Booking b-1 moved to confirmed",
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "ops@example.com")
	assert.Equal(t, "log", s.Name())
}
