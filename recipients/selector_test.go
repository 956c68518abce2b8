package recipients

import (
	"log/slog"
	"testing"
	"time"

	"otr-lab/domain"
	"otr-lab/errors"
	"otr-lab/mocks"
	"otr-lab/proto/messages"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func user(name string) domain.User {
	id := uuid.New()
	return domain.User{ID: id, Name: name, Clients: []domain.Client{{ID: name + "-phone", UserID: id}}}
}

func service(name string) domain.User {
	u := user(name)
	u.IsService = true
	return u
}

func ids(users []domain.User) []uuid.UUID {
	return lo.Map(users, func(u domain.User, _ int) uuid.UUID { return u.ID })
}

func TestSelector_Confirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockMessageFetcher(ctrl)
	selector := NewSelector(slog.Default(), fetcher, false)
	self, peer := user("self"), user("peer")
	conv := domain.Conversation{ID: uuid.New(), Type: domain.OneOnOne, ConnectedUser: &peer, Participants: []domain.User{self, peer}}

	t.Run("should send the confirmation to the sender of the confirmed message", func(t *testing.T) {
		req := require.New(t)
		confirmed := uuid.New()
		fetcher.EXPECT().FetchMessage(conv.ID, confirmed).
			Return(domain.Message{Nonce: confirmed, SenderID: peer.ID}, nil).
			Times(1)

		msg := messages.NewGenericMessage(&messages.Confirmation{FirstMessageID: confirmed.String()}, uuid.New(), 0)
		recipients, strategy, err := selector.SelectRecipients(msg, conv, self)

		req.NoError(err)
		req.Equal([]uuid.UUID{peer.ID}, ids(recipients))
		req.Equal(domain.IgnoreAllMissingClientsNotFromUsers, strategy.Policy)
		req.Equal([]uuid.UUID{peer.ID}, strategy.Users)
	})

	t.Run("should fall back to the connected user when the message is unknown", func(t *testing.T) {
		req := require.New(t)
		fetcher.EXPECT().FetchMessage(conv.ID, gomock.Any()).Return(domain.Message{}, errors.ErrMessageNotFound).Times(1)

		msg := messages.NewGenericMessage(&messages.Confirmation{FirstMessageID: uuid.NewString()}, uuid.New(), 0)
		recipients, _, err := selector.SelectRecipients(msg, conv, self)

		req.NoError(err)
		req.Equal([]uuid.UUID{peer.ID}, ids(recipients))
	})

	t.Run("should fall back to the other human participants of a group", func(t *testing.T) {
		req := require.New(t)
		alice, bot := user("alice"), service("bot")
		groupConv := domain.Conversation{ID: uuid.New(), Type: domain.Group, Participants: []domain.User{self, alice, bot}}
		// Given the confirmed message is unknown
		fetcher.EXPECT().FetchMessage(groupConv.ID, gomock.Any()).Return(domain.Message{}, errors.ErrMessageNotFound).Times(1)

		// When
		msg := messages.NewGenericMessage(&messages.Confirmation{FirstMessageID: uuid.NewString()}, uuid.New(), 0)
		recipients, _, err := selector.SelectRecipients(msg, groupConv, self)

		// Then neither self nor the service receive it
		req.NoError(err)
		req.Equal([]uuid.UUID{alice.ID}, ids(recipients))
	})

	t.Run("should fail when self is the only participant", func(t *testing.T) {
		req := require.New(t)
		alone := domain.Conversation{ID: uuid.New(), Type: domain.Group, Participants: []domain.User{self}}
		fetcher.EXPECT().FetchMessage(alone.ID, gomock.Any()).Return(domain.Message{}, errors.ErrMessageNotFound).Times(1)

		msg := messages.NewGenericMessage(&messages.Confirmation{FirstMessageID: uuid.NewString()}, uuid.New(), 0)
		_, _, err := selector.SelectRecipients(msg, alone, self)

		req.ErrorIs(err, errors.ErrMissingRecipientForConfirmation)
	})

	t.Run("should fail when nobody can receive the confirmation", func(t *testing.T) {
		req := require.New(t)
		fetcher.EXPECT().FetchMessage(gomock.Any(), gomock.Any()).Return(domain.Message{}, errors.ErrMessageNotFound).Times(1)
		empty := domain.Conversation{ID: uuid.New(), Type: domain.Group}

		msg := messages.NewGenericMessage(&messages.Confirmation{FirstMessageID: uuid.NewString()}, uuid.New(), 0)
		_, _, err := selector.SelectRecipients(msg, empty, self)

		req.ErrorIs(err, errors.ErrMissingRecipientForConfirmation)
	})
}

func TestSelector_DeletedEphemeral(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockMessageFetcher(ctrl)
	selector := NewSelector(slog.Default(), fetcher, false)
	self, alice, bob := user("self"), user("alice"), user("bob")
	conv := domain.Conversation{ID: uuid.New(), Type: domain.Group, Participants: []domain.User{self, alice, bob}}
	deadline := time.Now().Add(-time.Second)
	deleteOf := func(nonce uuid.UUID) *messages.GenericMessage {
		return messages.NewGenericMessage(&messages.MessageDelete{MessageID: nonce.String()}, uuid.New(), 0)
	}

	t.Run("should only notify the sender and self for a destructed message of someone else", func(t *testing.T) {
		req := require.New(t)
		// Given an ephemeral message of alice already past its deadline
		nonce := uuid.New()
		fetcher.EXPECT().FetchMessage(conv.ID, nonce).
			Return(domain.Message{Nonce: nonce, SenderID: alice.ID, DestructionDeadline: &deadline}, nil)

		// When self deletes it
		recipients, strategy, err := selector.SelectRecipients(deleteOf(nonce), conv, self)

		// Then bob is left out
		req.NoError(err)
		req.ElementsMatch([]uuid.UUID{alice.ID, self.ID}, ids(recipients))
		req.Equal(domain.IgnoreAllMissingClientsNotFromUsers, strategy.Policy)
	})

	t.Run("should notify everyone when self deletes its own message", func(t *testing.T) {
		req := require.New(t)
		nonce := uuid.New()
		fetcher.EXPECT().FetchMessage(conv.ID, nonce).
			Return(domain.Message{Nonce: nonce, SenderID: self.ID, DestructionDeadline: &deadline}, nil)

		recipients, strategy, err := selector.SelectRecipients(deleteOf(nonce), conv, self)

		req.NoError(err)
		req.ElementsMatch(ids(conv.Participants), ids(recipients))
		req.Equal(domain.DoNotIgnoreAnyMissingClient, strategy.Policy)
	})

	t.Run("should only notify self when the sender was cleared", func(t *testing.T) {
		req := require.New(t)
		nonce := uuid.New()
		fetcher.EXPECT().FetchMessage(conv.ID, nonce).
			Return(domain.Message{Nonce: nonce, DestructionDeadline: &deadline}, nil)

		recipients, _, err := selector.SelectRecipients(deleteOf(nonce), conv, self)

		req.NoError(err)
		req.Equal([]uuid.UUID{self.ID}, ids(recipients))
	})

	t.Run("should notify everyone for a regular message", func(t *testing.T) {
		req := require.New(t)
		nonce := uuid.New()
		fetcher.EXPECT().FetchMessage(conv.ID, nonce).
			Return(domain.Message{Nonce: nonce, SenderID: alice.ID}, nil)

		recipients, _, err := selector.SelectRecipients(deleteOf(nonce), conv, self)

		req.NoError(err)
		req.Len(recipients, 3)
	})
}

func TestSelector_Default(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fetcher := mocks.NewMockMessageFetcher(ctrl)
	self, alice, bot := user("self"), user("alice"), service("bot")
	group := domain.Conversation{ID: uuid.New(), Type: domain.Group, Participants: []domain.User{self, alice, bot}}

	t.Run("should send to the connected user and self in one to one", func(t *testing.T) {
		req := require.New(t)
		conv := domain.Conversation{ID: uuid.New(), Type: domain.OneOnOne, ConnectedUser: &alice, Participants: []domain.User{self, alice}}

		recipients, strategy, err := NewSelector(slog.Default(), fetcher, false).
			SelectRecipients(messages.NewGenericMessage(&messages.Text{Content: "hi"}, uuid.New(), 0), conv, self)

		req.NoError(err)
		req.Equal([]uuid.UUID{alice.ID, self.ID}, ids(recipients))
		req.Equal(domain.DoNotIgnoreAnyMissingClient, strategy.Policy)
	})

	t.Run("should include services when mentions are not required", func(t *testing.T) {
		req := require.New(t)

		recipients, strategy, err := NewSelector(slog.Default(), fetcher, false).
			SelectRecipients(messages.NewGenericMessage(&messages.Text{Content: "hi"}, uuid.New(), 0), group, self)

		req.NoError(err)
		req.ElementsMatch(ids(group.Participants), ids(recipients))
		req.Equal(domain.DoNotIgnoreAnyMissingClient, strategy.Policy)
	})

	t.Run("should leave out services that are not mentioned", func(t *testing.T) {
		req := require.New(t)

		recipients, strategy, err := NewSelector(slog.Default(), fetcher, true).
			SelectRecipients(messages.NewGenericMessage(&messages.Text{Content: "hi"}, uuid.New(), 0), group, self)

		req.NoError(err)
		req.ElementsMatch([]uuid.UUID{self.ID, alice.ID}, ids(recipients))
		req.Equal(domain.IgnoreAllMissingClientsNotFromUsers, strategy.Policy)
		req.ElementsMatch([]uuid.UUID{self.ID, alice.ID}, strategy.Users)
	})

	t.Run("should include mentioned services", func(t *testing.T) {
		req := require.New(t)
		text := &messages.Text{Content: "@bot hi", Mentions: []*messages.Mention{{Start: 0, Length: 4, UserID: bot.ID.String()}}}

		recipients, _, err := NewSelector(slog.Default(), fetcher, true).
			SelectRecipients(messages.NewGenericMessage(text, uuid.New(), 0), group, self)

		req.NoError(err)
		req.ElementsMatch(ids(group.Participants), ids(recipients))
	})
}
