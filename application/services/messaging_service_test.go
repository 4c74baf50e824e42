package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aurelia-hq/aurelia-backend/infrastructure/persistence/memory"
	"github.com/aurelia-hq/aurelia-backend/pkg/errors"
)

func newMessagingFixture(t *testing.T) (*MessagingService, *memory.ProfileRepository) {
	t.Helper()
	profiles := memory.NewProfileRepository()
	svc := NewMessagingService(
		memory.NewConversationRepository(),
		memory.NewMessageRepository(),
		profiles,
		zap.NewNop(),
	)
	return svc, profiles
}

func TestGetOrCreateConversation_RejectsSelf(t *testing.T) {
	svc, _ := newMessagingFixture(t)

	_, err := svc.GetOrCreateConversation(context.Background(), "alice", "alice")

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, "Cannot create conversation with yourself", errors.GetAppError(err).Message)
}

func TestGetOrCreateConversation_IdempotentAcrossDirections(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	seedProfile(t, profiles, "alice", "Alice")
	seedProfile(t, profiles, "bob", "Bob")

	first, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	// Opening from the other side resolves to the same conversation.
	second, err := svc.GetOrCreateConversation(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, "bob", first.OtherUser.ID)
	assert.Equal(t, "Bob", first.OtherUser.Name)
	assert.Equal(t, "alice", second.OtherUser.ID)
}

func TestSendMessage_RequiresContent(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	seedProfile(t, profiles, "alice", "Alice")
	seedProfile(t, profiles, "bob", "Bob")

	conv, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), "alice", conv.ID, "   \n")
	require.Error(t, err)
	assert.Equal(t, "Message content is required", errors.GetAppError(err).Message)
}

func TestSendMessage_RejectsNonParticipant(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	seedProfile(t, profiles, "alice", "Alice")
	seedProfile(t, profiles, "bob", "Bob")

	conv, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), "mallory", conv.ID, "hi")
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.Equal(t, "Unauthorized", errors.GetAppError(err).Message)
}

func TestSendMessage_UnknownConversationIsNotFound(t *testing.T) {
	svc, _ := newMessagingFixture(t)

	_, err := svc.SendMessage(context.Background(), "alice", "nope", "hi")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestSendMessage_TrimsContent(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	seedProfile(t, profiles, "alice", "Alice")
	seedProfile(t, profiles, "bob", "Bob")

	conv, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	msg, err := svc.SendMessage(context.Background(), "alice", conv.ID, "  hello bob  ")
	require.NoError(t, err)
	assert.Equal(t, "hello bob", msg.Content)
	assert.Equal(t, "alice", msg.SenderID)
	assert.False(t, msg.IsRead)
}

func TestListMessages_MarksIncomingRead(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	seedProfile(t, profiles, "alice", "Alice")
	seedProfile(t, profiles, "bob", "Bob")

	conv, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), "alice", conv.ID, "hello")
	require.NoError(t, err)

	unread, err := svc.UnreadCount(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	msgs, err := svc.ListMessages(context.Background(), "bob", conv.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello", msgs[0].Content)

	unread, err = svc.UnreadCount(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func TestListMessages_RejectsNonParticipant(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	seedProfile(t, profiles, "alice", "Alice")
	seedProfile(t, profiles, "bob", "Bob")

	conv, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	_, err = svc.ListMessages(context.Background(), "mallory", conv.ID, 50, 0)
	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
}

func TestUnreadCount_SumsAcrossConversations(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	for _, id := range []string{"alice", "bob", "carol"} {
		seedProfile(t, profiles, id, id)
	}

	withBob, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	withCarol, err := svc.GetOrCreateConversation(context.Background(), "alice", "carol")
	require.NoError(t, err)

	_, err = svc.SendMessage(context.Background(), "bob", withBob.ID, "one")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "bob", withBob.ID, "two")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "carol", withCarol.ID, "three")
	require.NoError(t, err)
	// Outgoing messages never count as unread for the sender.
	_, err = svc.SendMessage(context.Background(), "alice", withBob.ID, "reply")
	require.NoError(t, err)

	unread, err := svc.UnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), unread)
}

func TestListConversations_IncludesLastMessageAndUnread(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	seedProfile(t, profiles, "alice", "Alice")
	seedProfile(t, profiles, "bob", "Bob")

	conv, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "bob", conv.ID, "first")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "bob", conv.ID, "second")
	require.NoError(t, err)

	views, err := svc.ListConversations(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, conv.ID, views[0].ID)
	assert.Equal(t, "bob", views[0].OtherUser.ID)
	assert.Equal(t, "Bob", views[0].OtherUser.Name)
	require.NotNil(t, views[0].LastMessage)
	assert.Equal(t, "second", views[0].LastMessage.Content)
	assert.Equal(t, int64(2), views[0].UnreadCount)
}

func TestMarkConversationRead(t *testing.T) {
	svc, profiles := newMessagingFixture(t)
	seedProfile(t, profiles, "alice", "Alice")
	seedProfile(t, profiles, "bob", "Bob")

	conv, err := svc.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), "bob", conv.ID, "ping")
	require.NoError(t, err)

	require.NoError(t, svc.MarkConversationRead(context.Background(), "alice", conv.ID))

	unread, err := svc.UnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}
