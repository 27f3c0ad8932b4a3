package notifications

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_RegisterAndIsOnline(t *testing.T) {
	hub := NewHub()

	assert.False(t, hub.IsOnline(7))

	client, err := hub.Register(7, nil)
	assert.NoError(t, err)
	assert.True(t, hub.IsOnline(7))

	hub.UnregisterClient(client)
	assert.False(t, hub.IsOnline(7))

	_ = hub.Shutdown(context.Background())
}

func TestHub_PerUserConnectionLimit(t *testing.T) {
	hub := NewHub()

	for i := 0; i < maxConnsPerUser; i++ {
		_, err := hub.Register(3, nil)
		assert.NoError(t, err)
	}

	_, err := hub.Register(3, nil)
	assert.Error(t, err)

	// Other users are unaffected by one user's limit.
	_, err = hub.Register(4, nil)
	assert.NoError(t, err)

	_ = hub.Shutdown(context.Background())
}

func TestHub_UnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()

	client, err := hub.Register(9, nil)
	assert.NoError(t, err)

	hub.UnregisterClient(client)
	hub.UnregisterClient(client)

	assert.False(t, hub.IsOnline(9))
	assert.Equal(t, 0, hub.totalConns)

	_ = hub.Shutdown(context.Background())
}

func TestHub_BroadcastTargetsSingleUser(t *testing.T) {
	hub := NewHub()

	target, err := hub.Register(1, nil)
	assert.NoError(t, err)
	other, err := hub.Register(2, nil)
	assert.NoError(t, err)

	hub.Broadcast(1, `{"type":"comment_created"}`)

	select {
	case msg := <-target.Send:
		assert.JSONEq(t, `{"type":"comment_created"}`, string(msg))
	default:
		t.Fatal("expected message for target user")
	}

	select {
	case <-other.Send:
		t.Fatal("unexpected message for other user")
	default:
	}

	_ = hub.Shutdown(context.Background())
}

func TestHub_BroadcastAllReachesEveryClient(t *testing.T) {
	hub := NewHub()

	a, err := hub.Register(1, nil)
	assert.NoError(t, err)
	b, err := hub.Register(2, nil)
	assert.NoError(t, err)

	hub.BroadcastAll("hello")

	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			assert.Equal(t, "hello", string(msg))
		default:
			t.Fatal("expected broadcast message")
		}
	}

	_ = hub.Shutdown(context.Background())
}

func TestClient_TrySendDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	client, err := hub.Register(5, nil)
	assert.NoError(t, err)

	for i := 0; i < cap(client.Send); i++ {
		client.Send <- []byte("fill")
	}

	// Must not block or panic; the message is dropped.
	client.TrySend([]byte("overflow"))
	assert.Len(t, client.Send, cap(client.Send))

	_ = hub.Shutdown(context.Background())
}
