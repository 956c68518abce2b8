package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"otr-lab/contract"
	"otr-lab/domain"
	"otr-lab/domain/event"
	"otr-lab/errors"
	"otr-lab/observability/metrics"
	"otr-lab/proto/messages"
	"otr-lab/repositories"

	"github.com/google/uuid"
)

// Scheduler is a destruction timer bound to one execution context.
type Scheduler interface {
	ExecutionContext() domain.ExecutionContext
	StartAt(kind domain.TimerKind, conversationID, messageID uuid.UUID, fireAt time.Time) error
	Stop(messageID uuid.UUID) bool
	StopAll()
}

type IDestructionService interface {
	MarkAsSent(ctx context.Context, conversationID, nonce uuid.UUID) error
	StartDeletionIfNeeded(ctx context.Context, conversationID, nonce uuid.UUID) error
	Resume(ctx context.Context) error
	Stop(messageID uuid.UUID) bool
	Suspend()
	contract.TimerHandler
}

// DestructionService drives the self destruction of ephemeral messages:
// the sender obfuscates its own copy, receivers delete theirs.
type DestructionService struct {
	log        *slog.Logger
	repository repositories.IMessageRepository
	sink       contract.EventSink
	selfID     uuid.UUID
	now        func() time.Time

	sender   Scheduler
	receiver Scheduler
}

func NewDestructionService(log *slog.Logger, repository repositories.IMessageRepository, sink contract.EventSink, selfID uuid.UUID) *DestructionService {
	return &DestructionService{
		log:        log,
		repository: repository,
		sink:       sink,
		selfID:     selfID,
		now:        time.Now,
	}
}

// UseSchedulers binds the timers. They are built with the service as handler,
// so binding happens once both exist.
func (s *DestructionService) UseSchedulers(sender, receiver Scheduler) error {
	if sender.ExecutionContext() != domain.Sender || receiver.ExecutionContext() != domain.Receiver {
		return errors.ErrWrongExecutionContext
	}
	s.sender, s.receiver = sender, receiver
	return nil
}

// MarkAsSent flags the message as delivered to the backend and starts the
// obfuscation timer of an ephemeral message. A message waiting for its link
// preview is only timed once the preview went out.
func (s *DestructionService) MarkAsSent(_ context.Context, conversationID, nonce uuid.UUID) error {
	message, err := s.repository.GetMessage(conversationID, nonce)
	if err != nil {
		return err
	}
	message.IsSent = true

	if message.IsZombie() || message.IsObfuscated || message.DestructionDeadline != nil ||
		!message.IsEphemeral() || message.LinkPreviewState.Pending() {
		return s.repository.StoreMessage(message)
	}

	deadline := s.now().Add(message.DeletionTimeout())
	message.DestructionDeadline = &deadline
	if err := s.repository.StoreMessage(message); err != nil {
		return err
	}
	return s.sender.StartAt(domain.Obfuscation, conversationID, nonce, deadline)
}

// StartDeletionIfNeeded starts the deletion timer of an ephemeral message
// received from someone else. Calling it again keeps the first deadline.
func (s *DestructionService) StartDeletionIfNeeded(_ context.Context, conversationID, nonce uuid.UUID) error {
	message, err := s.repository.GetMessage(conversationID, nonce)
	if err != nil {
		return err
	}
	if message.IsZombie() || message.IsSentBy(s.selfID) {
		return nil
	}
	if !message.IsEphemeral() {
		return errors.ErrNotEphemeral
	}
	if message.DestructionDeadline != nil {
		return s.receiver.StartAt(domain.Deletion, conversationID, nonce, *message.DestructionDeadline)
	}

	deadline := s.now().Add(message.DeletionTimeout())
	message.DestructionDeadline = &deadline
	if err := s.repository.StoreMessage(message); err != nil {
		return err
	}
	return s.receiver.StartAt(domain.Deletion, conversationID, nonce, deadline)
}

// OnTimerFired performs the destruction. A message deleted meanwhile is skipped.
func (s *DestructionService) OnTimerFired(ctx context.Context, entry domain.DestructionTimerEntry) error {
	zombie, err := s.repository.IsZombie(entry.ConversationID, entry.MessageID)
	if err != nil {
		return err
	}
	if zombie {
		s.log.Debug("Destruction skipped, message already deleted", "message", entry.MessageID)
		return nil
	}

	metrics.DestructionsFiredTotal.WithLabelValues(entry.Kind.String()).Inc()
	switch entry.Kind {
	case domain.Obfuscation:
		return s.obfuscate(ctx, entry)
	case domain.Deletion:
		return s.delete(ctx, entry)
	default:
		return fmt.Errorf("unknown timer kind %d", entry.Kind)
	}
}

func (s *DestructionService) obfuscate(ctx context.Context, entry domain.DestructionTimerEntry) error {
	message, err := s.repository.GetMessage(entry.ConversationID, entry.MessageID)
	if err != nil {
		return err
	}
	if !message.Obfuscate() {
		message.DestructionDeadline = nil
		return s.repository.StoreMessage(message)
	}
	if err := s.repository.StoreMessage(message); err != nil {
		return err
	}
	s.log.Info("Message obfuscated", "conversation", entry.ConversationID, "message", entry.MessageID)
	return s.sink.Consume(ctx, event.MessageObfuscated{
		MessageID:    entry.MessageID,
		Conversation: entry.ConversationID,
		At:           s.now(),
	})
}

func (s *DestructionService) delete(ctx context.Context, entry domain.DestructionTimerEntry) error {
	message, err := s.repository.FetchMessage(entry.ConversationID, entry.MessageID)
	if err != nil {
		return err
	}
	if err := s.repository.DeleteMessage(entry.ConversationID, entry.MessageID); err != nil {
		return err
	}
	s.log.Info("Message deleted", "conversation", entry.ConversationID, "message", entry.MessageID)
	return s.sink.Consume(ctx, event.MessageDeletedForEveryone{
		MessageID:      entry.MessageID,
		Conversation:   entry.ConversationID,
		OriginalSender: message.SenderID,
		Delete:         messages.NewGenericMessage(&messages.MessageDelete{MessageID: entry.MessageID.String()}, uuid.New(), 0),
		At:             s.now(),
	})
}

// Resume restores the persisted deadlines after a restart. Expired ones are
// destroyed right away, the others are scheduled on their original deadline.
func (s *DestructionService) Resume(ctx context.Context) error {
	pending, err := s.repository.GetPendingDestructions()
	if err != nil {
		return err
	}
	now := s.now()
	resumed, fired := 0, 0
	for _, destruction := range pending {
		message, err := s.repository.FetchMessage(destruction.ConversationID, destruction.MessageID)
		if err != nil {
			s.log.Warn("Unable to resume destruction", "message", destruction.MessageID, "error", err)
			continue
		}
		kind, scheduler := domain.Deletion, s.receiver
		if message.IsSentBy(s.selfID) {
			kind, scheduler = domain.Obfuscation, s.sender
		}
		entry := domain.DestructionTimerEntry{
			ConversationID: destruction.ConversationID,
			MessageID:      destruction.MessageID,
			FireAt:         destruction.Deadline,
			Kind:           kind,
		}
		if !destruction.Deadline.After(now) {
			if err := s.OnTimerFired(ctx, entry); err != nil {
				s.log.Error("Expired destruction failed", "message", entry.MessageID, "error", err)
			}
			fired++
			continue
		}
		if err := scheduler.StartAt(kind, entry.ConversationID, entry.MessageID, entry.FireAt); err != nil {
			return err
		}
		resumed++
	}
	s.log.Info("Destructions resumed", "scheduled", resumed, "expired", fired)
	return nil
}

// Stop cancels the timer of a message in both contexts without touching its deadline.
func (s *DestructionService) Stop(messageID uuid.UUID) bool {
	stopped := s.sender.Stop(messageID)
	return s.receiver.Stop(messageID) || stopped
}

// Suspend cancels every running timer, the deadlines stay persisted for Resume.
func (s *DestructionService) Suspend() {
	s.sender.StopAll()
	s.receiver.StopAll()
}
