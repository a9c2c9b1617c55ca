package feed

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesOnlyTargets(t *testing.T) {
	h := NewHub()
	alice, bob := uuid.New(), uuid.New()

	a1 := h.Subscribe(alice)
	a2 := h.Subscribe(alice)
	b := h.Subscribe(bob)
	require.Equal(t, 2, h.Subscribers(alice))

	h.Publish([]uuid.UUID{alice, alice}, Event{Type: EventMessageNew, Data: "hi"})

	require.Equal(t, EventMessageNew, (<-a1.C).Type)
	require.Equal(t, EventMessageNew, (<-a2.C).Type)
	require.Len(t, a1.C, 0)
	require.Len(t, b.C, 0)
}

func TestPublishDropsWhenFull(t *testing.T) {
	h := NewHub()
	h.buffer = 1
	uid := uuid.New()
	s := h.Subscribe(uid)

	h.Publish([]uuid.UUID{uid}, Event{Type: "first"})
	h.Publish([]uuid.UUID{uid}, Event{Type: "second"})

	require.Equal(t, "first", (<-s.C).Type)
	require.Len(t, s.C, 0)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewHub()
	uid := uuid.New()
	s := h.Subscribe(uid)

	h.Unsubscribe(s)
	h.Unsubscribe(s)
	_, ok := <-s.C
	require.False(t, ok)
	require.Equal(t, 0, h.Subscribers(uid))

	// публикация после отписки не паникует
	h.Publish([]uuid.UUID{uid}, Event{Type: "late"})
}

func TestCloseSessionEndsOnlyThatSession(t *testing.T) {
	h := NewHub()
	uid := uuid.New()
	session, other := uuid.New(), uuid.New()
	s1 := h.SubscribeSession(uid, session)
	s2 := h.SubscribeSession(uid, session)
	keep := h.SubscribeSession(uid, other)

	require.Equal(t, 2, h.CloseSession(uid, session))
	_, ok := <-s1.C
	require.False(t, ok)
	_, ok = <-s2.C
	require.False(t, ok)
	require.Equal(t, 1, h.Subscribers(uid))

	// отписка после закрытия безопасна
	h.Unsubscribe(s1)
	h.Publish([]uuid.UUID{uid}, Event{Type: EventChatUpdated})
	require.Equal(t, EventChatUpdated, (<-keep.C).Type)
	require.Equal(t, 0, h.CloseSession(uid, uuid.Nil))
}
