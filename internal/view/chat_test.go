package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatResult struct {
	reply string
	err   error
}

type gatedSender struct {
	calls chan *senderCall
}

type senderCall struct {
	message string
	done    chan chatResult
}

func newGatedSender() *gatedSender {
	return &gatedSender{calls: make(chan *senderCall, 16)}
}

func (s *gatedSender) Chat(_ context.Context, message string) (string, error) {
	c := &senderCall{message: message, done: make(chan chatResult, 1)}
	s.calls <- c
	res := <-c.done
	return res.reply, res.err
}

func (s *gatedSender) nextCall(t *testing.T) *senderCall {
	t.Helper()
	select {
	case c := <-s.calls:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a chat call")
		return nil
	}
}

func TestSubmitWhitespaceOnlyNeverHitsNetwork(t *testing.T) {
	sender := newGatedSender()
	c := NewChatController(sender)

	c.SetDraft("   ")
	c.Submit(context.Background())

	state := c.State()
	assert.Equal(t, Failure, state.Phase)
	assert.Equal(t, ValidationMessage, state.Err)
	select {
	case <-sender.calls:
		t.Fatal("validation failure must not issue a request")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubmitStoresReplyVerbatim(t *testing.T) {
	sender := newGatedSender()
	c := NewChatController(sender)

	c.SetDraft("spent $25.50 on lunch today")
	c.Submit(context.Background())
	assert.True(t, c.State().IsLoading())

	call := sender.nextCall(t)
	assert.Equal(t, "spent $25.50 on lunch today", call.message)
	call.done <- chatResult{reply: "Recorded $25.50 for Food."}

	require.Eventually(t, func() bool {
		return c.State().Phase == Success
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Recorded $25.50 for Food.", c.State().Data)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	sender := newGatedSender()
	c := NewChatController(sender)

	c.SetDraft("how much did I spend?")
	c.Submit(context.Background())
	sender.nextCall(t).done <- chatResult{err: errors.New("backend returned status 500")}

	require.Eventually(t, func() bool {
		return c.State().Phase == Failure
	}, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, c.State().Err, "500")
	assert.Equal(t, "how much did I spend?", c.Draft(), "draft survives so the user can retry")
}

func TestOverlappingSubmissionsResolveLastWins(t *testing.T) {
	sender := newGatedSender()
	c := NewChatController(sender)

	c.SetDraft("first message")
	c.Submit(context.Background())
	first := sender.nextCall(t)

	c.SetDraft("second message")
	c.Submit(context.Background())
	second := sender.nextCall(t)

	second.done <- chatResult{reply: "second reply"}
	require.Eventually(t, func() bool {
		return c.State().Phase == Success
	}, 2*time.Second, 5*time.Millisecond)

	// The superseded submission resolves late; it must not overwrite.
	first.done <- chatResult{reply: "first reply"}
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, "second reply", c.State().Data)
}

func TestSubmitTrimsForValidationOnly(t *testing.T) {
	sender := newGatedSender()
	c := NewChatController(sender)

	c.SetDraft("  spent $5 on coffee  ")
	c.Submit(context.Background())

	call := sender.nextCall(t)
	assert.Equal(t, "spent $5 on coffee", call.message)
	call.done <- chatResult{reply: "ok"}
}
