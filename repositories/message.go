//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"bytes"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"otr-lab/domain"
	"otr-lab/errors"
	"otr-lab/messagestore"
	pb "otr-lab/proto/storage"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	messagePrefix     = "message:"
	destructionPrefix = "destruction:"
)

type IMessageRepository interface {
	StoreMessage(message *messagestore.ClientMessage) error
	GetMessage(conversationID, nonce uuid.UUID) (*messagestore.ClientMessage, error)
	FetchMessage(conversationID, nonce uuid.UUID) (domain.Message, error)
	DeleteMessage(conversationID, nonce uuid.UUID) error
	IsZombie(conversationID, nonce uuid.UUID) (bool, error)
	GetPendingDestructions() ([]PendingDestruction, error)
}

// PendingDestruction is a message whose destruction deadline is persisted.
type PendingDestruction struct {
	ConversationID uuid.UUID
	MessageID      uuid.UUID
	Deadline       time.Time
}

type MessageRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMessageRepository(db *badger.DB, log *slog.Logger) MessageRepository {
	return MessageRepository{db: db, log: log}
}

// StoreMessage persists the message under "message:{conversation}:{nonce}".
// An entry "destruction:{deadline_padded}:{conversation}:{nonce}" is kept in the
// same transaction while the message has a destruction deadline so pending
// destructions are read back in deadline order.
func (m MessageRepository) StoreMessage(message *messagestore.ClientMessage) error {
	record := fromClientMessage(message)
	value, err := record.Marshal()
	if err != nil {
		return err
	}
	key := messageKey(message.ConversationID, message.Nonce)
	return m.db.Update(func(txn *badger.Txn) error {
		previous, err := readRecord(txn, key)
		switch {
		case err == nil:
			if previous.DestructionDeadline != nil {
				if err := txn.Delete(destructionKey(previous.DestructionDeadline.AsTime(), message.ConversationID, message.Nonce)); err != nil {
					return err
				}
			}
		case !stdErrors.Is(err, errors.ErrMessageNotFound):
			return err
		}
		if err := txn.Set(key, value); err != nil {
			return err
		}
		if message.DestructionDeadline != nil {
			return txn.Set(destructionKey(*message.DestructionDeadline, message.ConversationID, message.Nonce), nil)
		}
		return nil
	})
}

func (m MessageRepository) GetMessage(conversationID, nonce uuid.UUID) (*messagestore.ClientMessage, error) {
	var record *pb.MessageRecord
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		record, err = readRecord(txn, messageKey(conversationID, nonce))
		return err
	})
	if err != nil {
		return nil, err
	}
	return toClientMessage(record)
}

// FetchMessage returns the metadata of a stored message.
func (m MessageRepository) FetchMessage(conversationID, nonce uuid.UUID) (domain.Message, error) {
	message, err := m.GetMessage(conversationID, nonce)
	if err != nil {
		return domain.Message{}, err
	}
	return message.Message, nil
}

// DeleteMessage removes the content and the sender of a message. The record is
// kept as a tombstone so late destruction timers see a zombie.
func (m MessageRepository) DeleteMessage(conversationID, nonce uuid.UUID) error {
	message, err := m.GetMessage(conversationID, nonce)
	if err != nil {
		return err
	}
	message.ClearContent()
	message.SenderID = uuid.Nil
	message.DestructionDeadline = nil
	message.Deleted = true
	m.log.Debug("Message deleted", "conversation", conversationID, "message", nonce)
	return m.StoreMessage(message)
}

// IsZombie is true for a deleted message or one that is no longer stored.
func (m MessageRepository) IsZombie(conversationID, nonce uuid.UUID) (bool, error) {
	message, err := m.FetchMessage(conversationID, nonce)
	if stdErrors.Is(err, errors.ErrMessageNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return message.IsZombie(), nil
}

// GetPendingDestructions lists messages with a destruction deadline, earliest first.
func (m MessageRepository) GetPendingDestructions() ([]PendingDestruction, error) {
	var pending []PendingDestruction
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(destructionPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			destruction, err := parseDestructionKey(it.Item().Key())
			if err != nil {
				m.log.Warn("Skipping invalid destruction entry", "key", string(it.Item().Key()), "error", err)
				continue
			}
			pending = append(pending, destruction)
		}
		return nil
	})
	return pending, err
}

func readRecord(txn *badger.Txn, key []byte) (*pb.MessageRecord, error) {
	item, err := txn.Get(key)
	if stdErrors.Is(err, badger.ErrKeyNotFound) {
		return nil, errors.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}
	record := &pb.MessageRecord{}
	err = item.Value(func(value []byte) error {
		return record.Unmarshal(value)
	})
	return record, err
}

func messageKey(conversationID, nonce uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%s:%s", messagePrefix, conversationID, nonce))
}

// destructionKey pads the deadline on 19 digits so keys sort chronologically.
func destructionKey(deadline time.Time, conversationID, nonce uuid.UUID) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s:%s", destructionPrefix, deadline.UnixNano(), conversationID, nonce))
}

func parseDestructionKey(key []byte) (PendingDestruction, error) {
	parts := strings.Split(string(bytes.TrimPrefix(key, []byte(destructionPrefix))), ":")
	if len(parts) != 3 {
		return PendingDestruction{}, fmt.Errorf("unexpected destruction key %q", key)
	}
	var nanos int64
	if _, err := fmt.Sscanf(parts[0], "%d", &nanos); err != nil {
		return PendingDestruction{}, err
	}
	conversationID, err := uuid.Parse(parts[1])
	if err != nil {
		return PendingDestruction{}, err
	}
	nonce, err := uuid.Parse(parts[2])
	if err != nil {
		return PendingDestruction{}, err
	}
	return PendingDestruction{
		ConversationID: conversationID,
		MessageID:      nonce,
		Deadline:       time.Unix(0, nanos).UTC(),
	}, nil
}

func fromClientMessage(message *messagestore.ClientMessage) pb.MessageRecord {
	record := pb.MessageRecord{
		Nonce:            message.Nonce.String(),
		ConversationId:   message.ConversationID.String(),
		IsObfuscated:     message.IsObfuscated,
		Fragments:        message.Fragments(),
		LinkPreviewState: int32(message.LinkPreviewState),
		Deleted:          message.Deleted,
		IsSent:           message.IsSent,
	}
	if message.HasSender() {
		record.SenderId = message.SenderID.String()
	}
	if !message.ServerTimestamp.IsZero() {
		record.ServerTimestamp = message.ServerTimestamp.UnixNano()
	}
	if message.DestructionDeadline != nil {
		record.DestructionDeadline = timestamppb.New(*message.DestructionDeadline)
	}
	return record
}

func toClientMessage(record *pb.MessageRecord) (*messagestore.ClientMessage, error) {
	nonce, err := uuid.Parse(record.Nonce)
	if err != nil {
		return nil, err
	}
	conversationID, err := uuid.Parse(record.ConversationId)
	if err != nil {
		return nil, err
	}
	meta := domain.Message{
		Nonce:            nonce,
		ConversationID:   conversationID,
		IsSent:           record.IsSent,
		IsObfuscated:     record.IsObfuscated,
		LinkPreviewState: domain.LinkPreviewState(record.LinkPreviewState),
		Deleted:          record.Deleted,
	}
	if record.SenderId != "" {
		if meta.SenderID, err = uuid.Parse(record.SenderId); err != nil {
			return nil, err
		}
	}
	if record.ServerTimestamp != 0 {
		meta.ServerTimestamp = time.Unix(0, record.ServerTimestamp).UTC()
	}
	if record.DestructionDeadline != nil {
		deadline := record.DestructionDeadline.AsTime()
		meta.DestructionDeadline = &deadline
	}
	return messagestore.Restore(meta, record.Fragments), nil
}
