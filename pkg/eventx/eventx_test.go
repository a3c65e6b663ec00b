package eventx

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventEncode(t *testing.T) {
	e := Event{
		Type:       TypeSignupCompleted,
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		TenantID:   "ten-1",
		UserID:     "usr-1",
		Email:      "a@example.com",
	}

	b, err := e.Encode()
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, e, decoded)
}

func TestEventKeyPrefersEmail(t *testing.T) {
	withEmail := Event{Type: TypeLoginStarted, Email: "a@example.com"}
	require.Equal(t, []byte("a@example.com"), withEmail.Key())

	withoutEmail := Event{Type: TypeSessionRevoked}
	require.Equal(t, []byte(TypeSessionRevoked), withoutEmail.Key())
}

func TestMemoryPublisher(t *testing.T) {
	p := NewMemoryPublisher()
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, Event{Type: TypeSignupStarted, Email: "a@example.com"}))
	require.NoError(t, p.Publish(ctx, Event{Type: TypeSignupCompleted, Email: "a@example.com"}))
	require.NoError(t, p.Publish(ctx, Event{Type: TypeLoginStarted, Email: "b@example.com"}))

	require.Len(t, p.Events(), 3)
	require.Len(t, p.ByType(TypeSignupCompleted), 1)
	require.Empty(t, p.ByType(TypeSessionRevoked))
}
