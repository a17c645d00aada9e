package services

import (
	"testing"

	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConversationIsIdempotentPerParticipantSet(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)

	first, created, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.True(t, created)

	// Same set, reversed order: must come back as the same conversation.
	second, created, err := CreateConversation(db, []uuid.UUID{bob.ID, alice.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateConversationSurvivesInsertRace(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)

	// Simulate a racing writer that wins between the existence check
	// and our insert: the row is already there under the same key.
	key := ParticipantKey([]uuid.UUID{alice.ID, bob.ID})
	winner := models.Conversation{
		ParticipantKey: key,
		Participants:   []*models.User{alice, bob},
	}
	require.NoError(t, db.Create(&winner).Error)

	conversation, created, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, conversation.ID)
}

func TestCreateConversationValidation(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)

	_, _, err := CreateConversation(db, []uuid.UUID{alice.ID, alice.ID})
	assert.ErrorIs(t, err, ErrInvalidParticipants)

	_, _, err = CreateConversation(db, []uuid.UUID{alice.ID, uuid.New()})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserConversationsReturnsOnlyMemberships(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)
	carol := createTestUser(t, db, "carol", models.RolePatient)

	aliceBob, _, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)
	_, _, err = CreateConversation(db, []uuid.UUID{bob.ID, carol.ID})
	require.NoError(t, err)

	conversations, err := GetUserConversations(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	assert.Equal(t, aliceBob.ID, conversations[0].ID)
	assert.Len(t, conversations[0].Participants, 2)

	conversations, err = GetUserConversations(db, bob.ID)
	require.NoError(t, err)
	assert.Len(t, conversations, 2)

	conversations, err = GetUserConversations(db, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestCreateMessageUpdatesLastMessagePointer(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)
	conversation, _, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)

	first, err := CreateMessage(db, conversation.ID, alice.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Content)
	assert.Equal(t, alice.ID, first.Sender.ID)

	var reloaded models.Conversation
	require.NoError(t, db.First(&reloaded, "id = ?", conversation.ID).Error)
	require.NotNil(t, reloaded.LastMessageID)
	assert.Equal(t, first.ID, *reloaded.LastMessageID)

	second, err := CreateMessage(db, conversation.ID, bob.ID, "hi there")
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, "id = ?", conversation.ID).Error)
	assert.Equal(t, second.ID, *reloaded.LastMessageID)

	// The preview in the conversation list resolves the sender too.
	conversations, err := GetUserConversations(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 1)
	require.NotNil(t, conversations[0].LastMessage)
	assert.Equal(t, "hi there", conversations[0].LastMessage.Content)
	assert.Equal(t, bob.ID, conversations[0].LastMessage.Sender.ID)
}

func TestCreateMessageValidation(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)
	conversation, _, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)

	_, err = CreateMessage(db, conversation.ID, alice.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = CreateMessage(db, uuid.New(), alice.ID, "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = CreateMessage(db, conversation.ID, uuid.New(), "hello")
	assert.ErrorIs(t, err, ErrNotFound)

	// Nothing was stored by the failed attempts.
	messages, err := GetMessages(db, conversation.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestCreateMessageRequiresParticipant(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)
	carol := createTestUser(t, db, "carol", models.RolePatient)
	conversation, _, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)

	_, err = CreateMessage(db, conversation.ID, carol.ID, "let me in")
	assert.ErrorIs(t, err, ErrNotParticipant)

	messages, err := GetMessages(db, conversation.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestGetConversationForUserEnforcesMembership(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)
	carol := createTestUser(t, db, "carol", models.RolePatient)
	conversation, _, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)

	found, err := GetConversationForUser(db, conversation.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, conversation.ID, found.ID)

	_, err = GetConversationForUser(db, conversation.ID, carol.ID)
	assert.ErrorIs(t, err, ErrNotParticipant)

	_, err = GetConversationForUser(db, uuid.New(), alice.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateMessageSeqUniqueAcrossSenders(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)
	conversation, _, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)

	// Interleaved senders: each insert takes the conversation row lock,
	// so seq values stay unique and dense even when writes overlap.
	senders := []uuid.UUID{alice.ID, bob.ID, alice.ID, bob.ID}
	for i, senderID := range senders {
		message, err := CreateMessage(db, conversation.ID, senderID, "msg")
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), message.Seq)
	}

	seen := make(map[int64]bool)
	messages, err := GetMessages(db, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, len(senders))
	for _, message := range messages {
		assert.False(t, seen[message.Seq], "duplicate seq %d", message.Seq)
		seen[message.Seq] = true
	}
}

func TestGetMessagesOrderIsStableUnderTimestampTies(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)
	conversation, _, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)

	// Created back to back, these easily land on the same timestamp at
	// coarse granularity; seq must keep insertion order regardless.
	contents := []string{"one", "two", "three", "four", "five"}
	for _, content := range contents {
		_, err := CreateMessage(db, conversation.ID, alice.ID, content)
		require.NoError(t, err)
	}

	messages, err := GetMessages(db, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, len(contents))

	seen := make(map[uuid.UUID]bool)
	for i, message := range messages {
		assert.Equal(t, contents[i], message.Content)
		assert.Equal(t, int64(i+1), message.Seq)
		assert.False(t, seen[message.ID], "message returned more than once")
		seen[message.ID] = true
	}
}

func TestMarkMessagesAsReadIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	alice := createTestUser(t, db, "alice", models.RolePatient)
	bob := createTestUser(t, db, "bob", models.RoleDentist)
	conversation, _, err := CreateConversation(db, []uuid.UUID{alice.ID, bob.ID})
	require.NoError(t, err)

	_, err = CreateMessage(db, conversation.ID, alice.ID, "from alice")
	require.NoError(t, err)
	_, err = CreateMessage(db, conversation.ID, bob.ID, "from bob")
	require.NoError(t, err)

	require.NoError(t, MarkMessagesAsRead(db, conversation.ID, bob.ID))
	require.NoError(t, MarkMessagesAsRead(db, conversation.ID, bob.ID))

	messages, err := GetMessages(db, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	for _, message := range messages {
		if message.SenderID == alice.ID {
			assert.True(t, message.IsRead, "peer's message should be read")
		} else {
			assert.False(t, message.IsRead, "own message stays unread")
		}
	}
}

func TestParticipantKeyIsOrderInsensitive(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	c := uuid.New()

	assert.Equal(t, ParticipantKey([]uuid.UUID{a, b, c}), ParticipantKey([]uuid.UUID{c, a, b}))
	assert.NotEqual(t, ParticipantKey([]uuid.UUID{a, b}), ParticipantKey([]uuid.UUID{a, c}))
}
