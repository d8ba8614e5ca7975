package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCannedResponderInterpolatesUserText(t *testing.T) {
	responder := NewCannedResponder(0, 0)

	reply, err := responder.GenerateReply(context.Background(), "analyze my contracts")
	require.NoError(t, err)
	assert.Contains(t, reply, "analyze my contracts")
	assert.NotEmpty(t, strings.TrimSpace(reply))
}

func TestCannedResponderRepliesComeFromTemplateSet(t *testing.T) {
	responder := NewCannedResponder(0, 0)
	userText := "some question"

	expected := make(map[string]bool, len(cannedReplies))
	for _, tmpl := range cannedReplies {
		expected[fmt.Sprintf(tmpl, userText)] = true
	}

	for i := 0; i < 25; i++ {
		reply, err := responder.GenerateReply(context.Background(), userText)
		require.NoError(t, err)
		assert.True(t, expected[reply], "reply not built from a known template")
	}
}

func TestCannedResponderCancellation(t *testing.T) {
	responder := NewCannedResponder(time.Minute, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := responder.GenerateReply(ctx, "slow question")
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("responder ignored cancellation")
	}
}

func TestCannedResponderZeroDelayResolvesPromptly(t *testing.T) {
	responder := NewCannedResponder(0, 0)

	start := time.Now()
	_, err := responder.GenerateReply(context.Background(), "quick question")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestCannedResponderSwappedMaxDelay(t *testing.T) {
	// A max below min must not panic the delay computation.
	responder := NewCannedResponder(time.Millisecond, 0)

	_, err := responder.GenerateReply(context.Background(), "question")
	require.NoError(t, err)
}
