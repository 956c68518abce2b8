// Package recipients decides who receives a message and how strict the
// backend must be about clients missing from the envelope.
package recipients

import (
	"log/slog"

	"otr-lab/contract"
	"otr-lab/domain"
	"otr-lab/errors"
	"otr-lab/proto/messages"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Selector struct {
	log                     *slog.Logger
	fetcher                 contract.MessageFetcher
	servicesMustBeMentioned bool
}

// NewSelector builds a selector. When servicesMustBeMentioned is set, services
// only receive text messages that mention them.
func NewSelector(log *slog.Logger, fetcher contract.MessageFetcher, servicesMustBeMentioned bool) *Selector {
	return &Selector{
		log:                     log,
		fetcher:                 fetcher,
		servicesMustBeMentioned: servicesMustBeMentioned,
	}
}

// SelectRecipients returns the users the message has to be encrypted for and
// the strategy to apply when the backend reports missing clients.
func (s *Selector) SelectRecipients(msg *messages.GenericMessage, conv domain.Conversation, self domain.User) ([]domain.User, domain.MissingClientsStrategy, error) {
	var recipients []domain.User

	if confirmation := msg.Confirmation(); confirmation != nil {
		recipients = s.forConfirmation(confirmation, conv, self)
		if recipients == nil {
			recipients = s.forOtherUsers(conv, self)
		}
		if recipients == nil {
			s.log.Error("Confirmation needs a recipient",
				"conversation", conv.ID,
				"conversation_type", conv.Type.String(),
				"first_message_id", confirmation.FirstMessageID)
			return nil, domain.MissingClientsStrategy{}, errors.ErrMissingRecipientForConfirmation
		}
	} else if deleted := s.forDeletedEphemeral(msg, conv, self); deleted != nil {
		recipients = deleted
	} else {
		recipients = s.allAuthorized(msg, conv, self)
	}

	recipients = lo.UniqBy(recipients, func(u domain.User) uuid.UUID { return u.ID })
	return recipients, strategyFor(recipients, conv), nil
}

func (s *Selector) forConfirmation(confirmation *messages.Confirmation, conv domain.Conversation, self domain.User) []domain.User {
	nonce, err := uuid.Parse(confirmation.FirstMessageID)
	if err != nil {
		return nil
	}
	confirmed, err := s.fetcher.FetchMessage(conv.ID, nonce)
	if err != nil || !confirmed.HasSender() {
		return nil
	}
	return []domain.User{s.user(confirmed.SenderID, conv, self)}
}

func (s *Selector) forOtherUsers(conv domain.Conversation, self domain.User) []domain.User {
	if conv.ConnectedUser != nil {
		return []domain.User{*conv.ConnectedUser}
	}
	humans := lo.Reject(conv.OtherUsers(self.ID), func(u domain.User, _ int) bool { return u.IsService })
	if len(humans) == 0 {
		return nil
	}
	return humans
}

// forDeletedEphemeral limits the audience of a delete for an ephemeral group
// message that already started to self destruct.
func (s *Selector) forDeletedEphemeral(msg *messages.GenericMessage, conv domain.Conversation, self domain.User) []domain.User {
	deleted := msg.Deleted()
	if deleted == nil || conv.Type != domain.Group {
		return nil
	}
	nonce, err := uuid.Parse(deleted.MessageID)
	if err != nil {
		return nil
	}
	original, err := s.fetcher.FetchMessage(conv.ID, nonce)
	if err != nil || original.DestructionDeadline == nil {
		return nil
	}
	if !original.HasSender() {
		s.log.Error("Sender of deleted ephemeral message is already cleared",
			"message", deleted.MessageID,
			"conversation", conv.ID,
			"conversation_type", conv.Type.String())
		return []domain.User{self}
	}
	// Self deleting its own message deletes it for everyone.
	if original.SenderID == self.ID {
		return nil
	}
	return []domain.User{s.user(original.SenderID, conv, self), self}
}

func (s *Selector) allAuthorized(msg *messages.GenericMessage, conv domain.Conversation, self domain.User) []domain.User {
	if conv.ConnectedUser != nil {
		return []domain.User{*conv.ConnectedUser, self}
	}
	services, humans := lo.FilterReject(conv.Participants, func(u domain.User, _ int) bool { return u.IsService })
	if s.servicesMustBeMentioned {
		services = lo.Filter(services, func(service domain.User, _ int) bool {
			return mentions(msg, service.ID)
		})
	}
	return append(append(humans, services...), self)
}

func (s *Selector) user(id uuid.UUID, conv domain.Conversation, self domain.User) domain.User {
	if id == self.ID {
		return self
	}
	if u, ok := conv.Participant(id); ok {
		return u
	}
	// A user who left the conversation is still a valid recipient, the
	// transport will fetch its clients.
	return domain.User{ID: id}
}

func mentions(msg *messages.GenericMessage, userID uuid.UUID) bool {
	text := msg.Text()
	if text == nil {
		return false
	}
	return lo.ContainsBy(text.Mentions, func(m *messages.Mention) bool {
		return m.UserID == userID.String()
	})
}

func strategyFor(recipients []domain.User, conv domain.Conversation) domain.MissingClientsStrategy {
	expected := len(conv.Participants)
	if conv.ConnectedUser != nil {
		expected = 2
	}
	if len(recipients) == expected {
		return domain.DoNotIgnoreAnyMissingClientStrategy()
	}
	return domain.IgnoreAllMissingClientsNotFromUsersStrategy(
		lo.Map(recipients, func(u domain.User, _ int) uuid.UUID { return u.ID }),
	)
}
