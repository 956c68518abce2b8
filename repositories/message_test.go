package repositories

import (
	"log/slog"
	"testing"
	"time"

	"otr-lab/domain"
	"otr-lab/errors"
	"otr-lab/messagestore"
	"otr-lab/proto/messages"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func openDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func textMessage(t *testing.T, conversationID uuid.UUID, content string, deadline *time.Time) *messagestore.ClientMessage {
	t.Helper()
	nonce := uuid.New()
	m := messagestore.NewClientMessage(domain.Message{
		Nonce:               nonce,
		ConversationID:      conversationID,
		SenderID:            uuid.New(),
		ServerTimestamp:     time.Now().UTC().Truncate(time.Millisecond),
		DestructionDeadline: deadline,
	})
	require.NoError(t, m.Add(messages.NewGenericMessage(&messages.Text{Content: content}, nonce, 5*time.Second).Marshal()))
	return m
}

func TestMessageRepository_StoreAndGet(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default())
	deadline := time.Now().Add(time.Minute).UTC()
	message := textMessage(t, uuid.New(), "this message will self destruct in 5 seconds", &deadline)

	req.NoError(repository.StoreMessage(message))
	stored, err := repository.GetMessage(message.ConversationID, message.Nonce)

	req.NoError(err)
	req.Equal(message.Message.Nonce, stored.Nonce)
	req.Equal(message.SenderID, stored.SenderID)
	req.True(message.ServerTimestamp.Equal(stored.ServerTimestamp))
	req.True(deadline.Equal(*stored.DestructionDeadline))
	req.Equal(message.Fragments(), stored.Fragments())
	req.Equal("this message will self destruct in 5 seconds", stored.MergedView().Text().Content)
}

func TestMessageRepository_GetMessage_NotFound(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default())

	_, err := repository.GetMessage(uuid.New(), uuid.New())
	req.ErrorIs(err, errors.ErrMessageNotFound)

	zombie, err := repository.IsZombie(uuid.New(), uuid.New())
	req.NoError(err)
	req.True(zombie)
}

func TestMessageRepository_DeleteMessage(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default())
	deadline := time.Now().Add(time.Minute)
	message := textMessage(t, uuid.New(), "secret", &deadline)
	req.NoError(repository.StoreMessage(message))

	// When deleting the message
	req.NoError(repository.DeleteMessage(message.ConversationID, message.Nonce))

	// Then a tombstone remains without content, sender nor pending destruction
	stored, err := repository.GetMessage(message.ConversationID, message.Nonce)
	req.NoError(err)
	req.True(stored.Deleted)
	req.Empty(stored.Fragments())
	req.False(stored.HasSender())
	req.Nil(stored.MergedView())
	zombie, err := repository.IsZombie(message.ConversationID, message.Nonce)
	req.NoError(err)
	req.True(zombie)
	pending, err := repository.GetPendingDestructions()
	req.NoError(err)
	req.Empty(pending)
}

func TestMessageRepository_GetPendingDestructions(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default())
	conversationID := uuid.New()
	now := time.Now().UTC()
	late, early := now.Add(time.Hour), now.Add(time.Minute)

	// Given two ephemeral messages stored out of deadline order and a regular one
	lateMessage := textMessage(t, conversationID, "late", &late)
	earlyMessage := textMessage(t, conversationID, "early", &early)
	req.NoError(repository.StoreMessage(lateMessage))
	req.NoError(repository.StoreMessage(earlyMessage))
	req.NoError(repository.StoreMessage(textMessage(t, conversationID, "regular", nil)))

	// When the deadline of the late message is moved before the other one
	sooner := now.Add(time.Second)
	lateMessage.DestructionDeadline = &sooner
	req.NoError(repository.StoreMessage(lateMessage))

	// Then destructions come back earliest first and the old entry is gone
	pending, err := repository.GetPendingDestructions()
	req.NoError(err)
	req.Len(pending, 2)
	req.Equal(lateMessage.Nonce, pending[0].MessageID)
	req.True(sooner.Equal(pending[0].Deadline))
	req.Equal(earlyMessage.Nonce, pending[1].MessageID)
	req.Equal(conversationID, pending[1].ConversationID)

	// And clearing the deadline removes the entry
	earlyMessage.DestructionDeadline = nil
	req.NoError(repository.StoreMessage(earlyMessage))
	pending, err = repository.GetPendingDestructions()
	req.NoError(err)
	req.Len(pending, 1)
}

func TestMessageRepository_FetchMessage(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default())
	message := textMessage(t, uuid.New(), "hello", nil)
	req.NoError(repository.StoreMessage(message))

	meta, err := repository.FetchMessage(message.ConversationID, message.Nonce)

	req.NoError(err)
	req.Equal(message.SenderID, meta.SenderID)
	req.Nil(meta.DestructionDeadline)
}

func TestSessionFailureRepository(t *testing.T) {
	req := require.New(t)
	repository := NewSessionFailureRepository(openDB(t), slog.Default())

	failed, err := repository.HasFailed("alice_phone")
	req.NoError(err)
	req.False(failed)

	req.NoError(repository.MarkFailed("alice_phone"))
	req.NoError(repository.MarkFailed("bob_phone"))
	failed, err = repository.HasFailed("alice_phone")
	req.NoError(err)
	req.True(failed)

	req.NoError(repository.Reset("alice_phone", "bob_phone", "unknown"))
	for _, id := range []string{"alice_phone", "bob_phone"} {
		failed, err = repository.HasFailed(id)
		req.NoError(err)
		req.False(failed)
	}
	req.NoError(repository.Reset())
}

func TestUserClientRepository(t *testing.T) {
	req := require.New(t)
	repository := NewUserClientRepository(openDB(t), slog.Default())
	alice, bob := uuid.New(), uuid.New()

	// Given two devices for alice and one for bob
	req.NoError(repository.AddClient(domain.Client{ID: "phone", UserID: alice}))
	req.NoError(repository.AddClient(domain.Client{ID: "laptop", UserID: alice}))
	req.NoError(repository.AddClient(domain.Client{ID: "tablet", UserID: bob}))

	// When listing alice's devices
	clients, err := repository.ClientsOf(alice)

	// Then only hers are returned, ordered by ID
	req.NoError(err)
	req.Equal([]domain.Client{{ID: "laptop", UserID: alice}, {ID: "phone", UserID: alice}}, clients)

	// And a removed device is gone
	req.NoError(repository.RemoveClient(domain.Client{ID: "phone", UserID: alice}))
	clients, err = repository.ClientsOf(alice)
	req.NoError(err)
	req.Equal([]domain.Client{{ID: "laptop", UserID: alice}}, clients)

	clients, err = repository.ClientsOf(uuid.New())
	req.NoError(err)
	req.Empty(clients)
}
