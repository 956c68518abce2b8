package services

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"otr-lab/domain"
	"otr-lab/domain/event"
	"otr-lab/errors"
	"otr-lab/messagestore"
	"otr-lab/mocks"
	"otr-lab/proto/messages"
	"otr-lab/repositories"
	"otr-lab/runtime/workers"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	t          *testing.T
	req        *require.Assertions
	repository repositories.MessageRepository
	sink       *mocks.MockEventSink
	selfID     uuid.UUID
	conv       uuid.UUID
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })
	ctrl := gomock.NewController(t)
	return &fixture{
		t:          t,
		req:        req,
		repository: repositories.NewMessageRepository(db, slog.Default()),
		sink:       mocks.NewMockEventSink(ctrl),
		selfID:     uuid.New(),
		conv:       uuid.New(),
		now:        time.Now(),
	}
}

// service builds a service with timers that are not running, as after a restart.
func (f *fixture) service(at time.Time) (*DestructionService, *workers.DestructionTimer, *workers.DestructionTimer) {
	svc := NewDestructionService(slog.Default(), f.repository, f.sink, f.selfID)
	svc.now = func() time.Time { return at }
	sender := workers.NewDestructionTimer(slog.Default(), domain.Sender, svc)
	receiver := workers.NewDestructionTimer(slog.Default(), domain.Receiver, svc)
	f.req.NoError(svc.UseSchedulers(sender, receiver))
	return svc, sender, receiver
}

func (f *fixture) store(sender uuid.UUID, content messages.Content, expiresAfter time.Duration) *messagestore.ClientMessage {
	nonce := uuid.New()
	message := messagestore.NewClientMessage(domain.Message{Nonce: nonce, ConversationID: f.conv, SenderID: sender})
	f.req.NoError(message.Add(messages.NewGenericMessage(content, nonce, expiresAfter).Marshal()))
	f.req.NoError(f.repository.StoreMessage(message))
	return message
}

func TestDestructionService_MarkAsSent(t *testing.T) {
	t.Run("should persist the deadline and start the obfuscation timer", func(t *testing.T) {
		f := newFixture(t)
		svc, sender, receiver := f.service(f.now)
		message := f.store(f.selfID, &messages.Text{Content: "bye"}, 15*time.Second)

		f.req.NoError(svc.MarkAsSent(context.Background(), f.conv, message.Nonce))

		stored, err := f.repository.GetMessage(f.conv, message.Nonce)
		f.req.NoError(err)
		f.req.True(stored.IsSent)
		f.req.True(f.now.Add(15 * time.Second).Equal(*stored.DestructionDeadline))
		f.req.True(sender.IsTimerRunning(message.Nonce))
		f.req.False(receiver.IsTimerRunning(message.Nonce))
	})

	t.Run("should wait for a pending link preview", func(t *testing.T) {
		f := newFixture(t)
		svc, sender, _ := f.service(f.now)
		message := f.store(f.selfID, &messages.Text{Content: "see https://example.com"}, 15*time.Second)
		message.LinkPreviewState = domain.LinkPreviewWaitingToBeProcessed
		f.req.NoError(f.repository.StoreMessage(message))

		f.req.NoError(svc.MarkAsSent(context.Background(), f.conv, message.Nonce))

		stored, err := f.repository.GetMessage(f.conv, message.Nonce)
		f.req.NoError(err)
		f.req.True(stored.IsSent)
		f.req.Nil(stored.DestructionDeadline)
		f.req.False(sender.IsTimerRunning(message.Nonce))
	})

	t.Run("should not time a regular message", func(t *testing.T) {
		f := newFixture(t)
		svc, sender, _ := f.service(f.now)
		message := f.store(f.selfID, &messages.Text{Content: "stays"}, 0)

		f.req.NoError(svc.MarkAsSent(context.Background(), f.conv, message.Nonce))

		f.req.False(sender.IsTimerRunning(message.Nonce))
	})
}

func TestDestructionService_StartDeletionIfNeeded(t *testing.T) {
	f := newFixture(t)
	svc, sender, receiver := f.service(f.now)
	peer := uuid.New()

	t.Run("should start the deletion timer of a received ephemeral message", func(t *testing.T) {
		message := f.store(peer, &messages.Knock{}, 5*time.Second)

		f.req.NoError(svc.StartDeletionIfNeeded(context.Background(), f.conv, message.Nonce))

		f.req.True(receiver.IsTimerRunning(message.Nonce))
		f.req.False(sender.IsTimerRunning(message.Nonce))
		pending, err := f.repository.GetPendingDestructions()
		f.req.NoError(err)
		f.req.Len(pending, 1)
	})

	t.Run("should ignore own messages", func(t *testing.T) {
		message := f.store(f.selfID, &messages.Knock{}, 5*time.Second)

		f.req.NoError(svc.StartDeletionIfNeeded(context.Background(), f.conv, message.Nonce))

		f.req.False(receiver.IsTimerRunning(message.Nonce))
	})

	t.Run("should refuse a regular message", func(t *testing.T) {
		message := f.store(peer, &messages.Text{Content: "regular"}, 0)

		err := svc.StartDeletionIfNeeded(context.Background(), f.conv, message.Nonce)

		f.req.ErrorIs(err, errors.ErrNotEphemeral)
	})
}

func TestDestructionService_OnTimerFired(t *testing.T) {
	t.Run("should obfuscate and notify on the sender side", func(t *testing.T) {
		f := newFixture(t)
		svc, _, _ := f.service(f.now)
		deadline := f.now
		message := f.store(f.selfID, &messages.Text{Content: "secret"}, 5*time.Second)
		message.DestructionDeadline = &deadline
		f.req.NoError(f.repository.StoreMessage(message))
		f.sink.EXPECT().Consume(gomock.Any(), event.MessageObfuscated{
			MessageID: message.Nonce, Conversation: f.conv, At: f.now,
		}).Return(nil).Times(1)

		err := svc.OnTimerFired(context.Background(), domain.DestructionTimerEntry{
			ConversationID: f.conv, MessageID: message.Nonce, FireAt: deadline, Kind: domain.Obfuscation,
		})

		f.req.NoError(err)
		stored, err := f.repository.GetMessage(f.conv, message.Nonce)
		f.req.NoError(err)
		f.req.True(stored.IsObfuscated)
		f.req.Nil(stored.DestructionDeadline)
		f.req.NotEqual("secret", stored.MergedView().Text().Content)
	})

	t.Run("should delete for everyone on the receiver side", func(t *testing.T) {
		f := newFixture(t)
		svc, _, _ := f.service(f.now)
		peer := uuid.New()
		message := f.store(peer, &messages.Text{Content: "secret"}, 5*time.Second)
		var received event.MessageDeletedForEveryone
		f.sink.EXPECT().Consume(gomock.Any(), gomock.AssignableToTypeOf(event.MessageDeletedForEveryone{})).
			DoAndReturn(func(_ context.Context, e event.DomainEvent) error {
				received = e.(event.MessageDeletedForEveryone)
				return nil
			}).Times(1)

		err := svc.OnTimerFired(context.Background(), domain.DestructionTimerEntry{
			ConversationID: f.conv, MessageID: message.Nonce, Kind: domain.Deletion,
		})

		f.req.NoError(err)
		f.req.Equal(peer, received.OriginalSender)
		f.req.Equal(message.Nonce.String(), received.Delete.Deleted().MessageID)
		zombie, err := f.repository.IsZombie(f.conv, message.Nonce)
		f.req.NoError(err)
		f.req.True(zombie)
	})

	t.Run("should do nothing for a zombie", func(t *testing.T) {
		f := newFixture(t)
		svc, _, _ := f.service(f.now)
		message := f.store(uuid.New(), &messages.Text{Content: "gone"}, 5*time.Second)
		f.req.NoError(f.repository.DeleteMessage(f.conv, message.Nonce))
		f.sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Times(0)

		err := svc.OnTimerFired(context.Background(), domain.DestructionTimerEntry{
			ConversationID: f.conv, MessageID: message.Nonce, Kind: domain.Deletion,
		})

		f.req.NoError(err)
	})
}

func TestDestructionService_StopThenResumeFiresOnce(t *testing.T) {
	f := newFixture(t)
	svc, sender, _ := f.service(f.now)
	message := f.store(f.selfID, &messages.Text{Content: "self destruct"}, 5*time.Second)
	var fired atomic.Int32
	f.sink.EXPECT().Consume(gomock.Any(), gomock.AssignableToTypeOf(event.MessageObfuscated{})).
		DoAndReturn(func(context.Context, event.DomainEvent) error {
			fired.Add(1)
			return nil
		}).AnyTimes()

	// Given a started timer stopped before firing, as on suspension
	f.req.NoError(svc.MarkAsSent(context.Background(), f.conv, message.Nonce))
	f.req.True(svc.Stop(message.Nonce))
	f.req.False(sender.IsTimerRunning(message.Nonce))

	// When the process restarts after the deadline
	restarted, restartedSender, _ := f.service(f.now.Add(time.Minute))
	f.req.NoError(restarted.Resume(context.Background()))

	// Then the destruction happened exactly once and synchronously
	f.req.Equal(int32(1), fired.Load())
	f.req.False(restartedSender.IsTimerRunning(message.Nonce))

	// And resuming again finds nothing left to do
	f.req.NoError(restarted.Resume(context.Background()))
	f.req.Equal(int32(1), fired.Load())
}

func TestDestructionService_ResumeKeepsDeadline(t *testing.T) {
	f := newFixture(t)
	svc, _, _ := f.service(f.now)
	peer := uuid.New()
	message := f.store(peer, &messages.Knock{}, 5*time.Minute)
	f.req.NoError(svc.StartDeletionIfNeeded(context.Background(), f.conv, message.Nonce))

	// When restarting one minute later
	restarted, restartedSender, restartedReceiver := f.service(f.now.Add(time.Minute))
	f.req.NoError(restarted.Resume(context.Background()))

	// Then the receiver timer is back on the persisted deadline
	f.req.True(restartedReceiver.IsTimerRunning(message.Nonce))
	f.req.False(restartedSender.IsTimerRunning(message.Nonce))
	stored, err := f.repository.GetMessage(f.conv, message.Nonce)
	f.req.NoError(err)
	f.req.True(f.now.Add(5 * time.Minute).Equal(*stored.DestructionDeadline))
}

func TestDestructionService_UseSchedulers_WrongContext(t *testing.T) {
	f := newFixture(t)
	svc := NewDestructionService(slog.Default(), f.repository, f.sink, f.selfID)
	sender := workers.NewDestructionTimer(slog.Default(), domain.Sender, svc)

	err := svc.UseSchedulers(sender, sender)

	f.req.ErrorIs(err, errors.ErrWrongExecutionContext)
}

func TestDestructionService_ResumeWithMockRepository(t *testing.T) {
	t.Run("should fail when the pending destructions cannot be listed", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repository := mocks.NewMockIMessageRepository(ctrl)
		repository.EXPECT().GetPendingDestructions().Return(nil, errors.ErrMalformedData)

		svc := NewDestructionService(slog.Default(), repository, mocks.NewMockEventSink(ctrl), uuid.New())
		sender := workers.NewDestructionTimer(slog.Default(), domain.Sender, svc)
		receiver := workers.NewDestructionTimer(slog.Default(), domain.Receiver, svc)
		req.NoError(svc.UseSchedulers(sender, receiver))

		req.ErrorIs(svc.Resume(context.Background()), errors.ErrMalformedData)
	})

	t.Run("should skip a destruction whose message cannot be read", func(t *testing.T) {
		req := require.New(t)
		ctrl := gomock.NewController(t)
		repository := mocks.NewMockIMessageRepository(ctrl)
		pending := repositories.PendingDestruction{ConversationID: uuid.New(), MessageID: uuid.New(), Deadline: time.Now().Add(time.Hour)}
		repository.EXPECT().GetPendingDestructions().Return([]repositories.PendingDestruction{pending}, nil)
		repository.EXPECT().FetchMessage(pending.ConversationID, pending.MessageID).Return(domain.Message{}, errors.ErrMessageNotFound)

		svc := NewDestructionService(slog.Default(), repository, mocks.NewMockEventSink(ctrl), uuid.New())
		sender := workers.NewDestructionTimer(slog.Default(), domain.Sender, svc)
		receiver := workers.NewDestructionTimer(slog.Default(), domain.Receiver, svc)
		req.NoError(svc.UseSchedulers(sender, receiver))

		req.NoError(svc.Resume(context.Background()))
		req.Zero(sender.Pending())
		req.Zero(receiver.Pending())
	})
}
