package services

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dlGuiri/Dental-Lens/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ParticipantKey canonicalizes a participant set: sorted ids joined
// with ":". Two calls with the same set in any order produce the same
// key, which the unique index on conversations enforces.
func ParticipantKey(participantIDs []uuid.UUID) string {
	ids := make([]string, 0, len(participantIDs))
	for _, id := range participantIDs {
		ids = append(ids, id.String())
	}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

func dedupeParticipants(participantIDs []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(participantIDs))
	out := make([]uuid.UUID, 0, len(participantIDs))
	for _, id := range participantIDs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// CreateConversation returns the existing conversation for the exact
// participant set if there is one, otherwise creates it. Concurrent
// callers racing on the same set both end up with the same row: the
// loser of the insert race hits the unique key and refetches.
func CreateConversation(db *gorm.DB, participantIDs []uuid.UUID) (*models.Conversation, bool, error) {
	participantIDs = dedupeParticipants(participantIDs)
	if len(participantIDs) < 2 {
		return nil, false, ErrInvalidParticipants
	}
	key := ParticipantKey(participantIDs)

	var existing models.Conversation
	err := db.Preload("Participants").Preload("LastMessage.Sender").
		Where("participant_key = ?", key).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	var participants []*models.User
	if err := db.Where("id IN ?", participantIDs).Find(&participants).Error; err != nil {
		return nil, false, err
	}
	if len(participants) != len(participantIDs) {
		return nil, false, ErrNotFound
	}

	conversation := models.Conversation{
		ParticipantKey: key,
		Participants:   participants,
	}
	if err := db.Create(&conversation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another caller created it between our check and insert.
			var winner models.Conversation
			if ferr := db.Preload("Participants").Preload("LastMessage.Sender").
				Where("participant_key = ?", key).First(&winner).Error; ferr != nil {
				return nil, false, ferr
			}
			return &winner, false, nil
		}
		return nil, false, err
	}

	return &conversation, true, nil
}

// GetUserConversations returns every conversation the user belongs to,
// most recently updated first, with participants and the last message's
// sender resolved for the conversation-list preview.
func GetUserConversations(db *gorm.DB, userID uuid.UUID) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := db.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
		Preload("Participants").
		Preload("LastMessage.Sender").
		Order("conversations.updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

func GetConversationByID(db *gorm.DB, conversationID uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	err := db.Preload("Participants").Preload("LastMessage.Sender").
		First(&conversation, "id = ?", conversationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversationForUser loads the conversation and verifies userID is
// one of its participants. Every read or write scoped to a conversation
// goes through this membership check.
func GetConversationForUser(db *gorm.DB, conversationID, userID uuid.UUID) (*models.Conversation, error) {
	conversation, err := GetConversationByID(db, conversationID)
	if err != nil {
		return nil, err
	}
	if !hasParticipant(conversation, userID) {
		return nil, ErrNotParticipant
	}
	return conversation, nil
}

func hasParticipant(conversation *models.Conversation, userID uuid.UUID) bool {
	for _, participant := range conversation.Participants {
		if participant.ID == userID {
			return true
		}
	}
	return false
}

// CreateMessage stores a message and moves the conversation's
// last-message pointer. Only participants may write. The conversation
// row is locked for the duration of the insert so concurrent senders
// serialize on seq assignment, the insert commits before the pointer
// moves, and the pointer update is a single-row field set, so
// concurrent senders never clobber each other with a stale read.
func CreateMessage(db *gorm.DB, conversationID, senderID uuid.UUID, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	var message models.Message
	err := db.Transaction(func(tx *gorm.DB) error {
		var conversation models.Conversation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Participants").
			First(&conversation, "id = ?", conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var sender models.User
		if err := tx.First(&sender, "id = ?", senderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if !hasParticipant(&conversation, senderID) {
			return ErrNotParticipant
		}

		var lastSeq int64
		if err := tx.Model(&models.Message{}).
			Where("conversation_id = ?", conversationID).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&lastSeq).Error; err != nil {
			return err
		}

		message = models.Message{
			ConversationID: conversationID,
			SenderID:       senderID,
			Content:        content,
			Seq:            lastSeq + 1,
		}
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		message.Sender = sender

		return updateLastMessage(tx, conversationID, message.ID)
	})
	if err != nil {
		return nil, err
	}

	return &message, nil
}

func updateLastMessage(tx *gorm.DB, conversationID, messageID uuid.UUID) error {
	return tx.Model(&models.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"last_message_id": messageID,
			"updated_at":      time.Now(),
		}).Error
}

// GetMessages returns the conversation's full history in creation
// order. Seq breaks ties between messages created within the same
// timestamp granularity.
func GetMessages(db *gorm.DB, conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := db.Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, seq ASC").
		Find(&messages).Error
	return messages, err
}

// MarkMessagesAsRead flips is_read on every message in the
// conversation that the user did not send. Safe to call repeatedly.
func MarkMessagesAsRead(db *gorm.DB, conversationID, userID uuid.UUID) error {
	return db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, userID, false).
		Update("is_read", true).Error
}
