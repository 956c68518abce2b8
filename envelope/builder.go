// Package envelope builds the per device encrypted payload of an outgoing
// message and opens the payload of an incoming one.
package envelope

import (
	"fmt"
	"log/slog"

	"otr-lab/contract"
	"otr-lab/domain"
	"otr-lab/errors"
	"otr-lab/external"
	"otr-lab/keystore"
	"otr-lab/observability/metrics"
	"otr-lab/proto/messages"

	"github.com/samber/lo"
)

// DefaultExternalThreshold is the envelope size above which the payload moves
// to an external blob.
const DefaultExternalThreshold = 256 * 1024

// FailedToCreateEncryptedMessagePayload is sent to a device whose session
// could not be established, so it sees a message it can't decrypt instead of nothing.
const FailedToCreateEncryptedMessagePayload = "💣"

const (
	modeDirect   = "direct"
	modeExternal = "external"
)

type RecipientSelector interface {
	SelectRecipients(msg *messages.GenericMessage, conv domain.Conversation, self domain.User) ([]domain.User, domain.MissingClientsStrategy, error)
}

// Envelope is the encrypted message ready to be posted.
// Data is the serialized Message, the external blob if any is Message.Blob.
type Envelope struct {
	Message *messages.NewOtrMessage
	Data    []byte
}

func (e Envelope) IsExternal() bool {
	return e.Message != nil && len(e.Message.Blob) > 0
}

// ContextProvider hands out the current encryption context. The context
// changes when the identity is reset, so it is resolved on every build.
type ContextProvider interface {
	EncryptionContext() *keystore.EncryptionContext
}

type Builder struct {
	log       *slog.Logger
	keys      ContextProvider
	selector  RecipientSelector
	failures  contract.SessionFailureTracker
	threshold int
}

func NewBuilder(log *slog.Logger, keys ContextProvider, selector RecipientSelector,
	failures contract.SessionFailureTracker, threshold int) *Builder {
	if threshold <= 0 {
		threshold = DefaultExternalThreshold
	}
	return &Builder{
		log:       log,
		keys:      keys,
		selector:  selector,
		failures:  failures,
		threshold: threshold,
	}
}

// BuildEnvelope encrypts msg for every recipient device of the conversation.
// The returned strategy tells the transport which missing clients it may ignore.
func (b *Builder) BuildEnvelope(msg *messages.GenericMessage, conv domain.Conversation, self domain.SelfClient) (Envelope, domain.MissingClientsStrategy, error) {
	if !self.IsRegistered() {
		return Envelope{}, domain.MissingClientsStrategy{}, errors.ErrNoSelfSession
	}
	recipients, strategy, err := b.selector.SelectRecipients(msg, conv, self.User)
	if err != nil {
		return Envelope{}, domain.MissingClientsStrategy{}, err
	}

	envelope, err := b.encryptedPayload(msg, recipients, self)
	if err != nil {
		return Envelope{}, domain.MissingClientsStrategy{}, err
	}

	if err := b.failures.Reset(sessionIDs(recipients)...); err != nil {
		b.log.Warn("Unable to reset failed sessions", "error", err)
	}
	return envelope, strategy, nil
}

func (b *Builder) encryptedPayload(msg *messages.GenericMessage, recipients []domain.User, self domain.SelfClient) (Envelope, error) {
	var envelope Envelope
	err := b.keys.EncryptionContext().Perform(func(directory contract.SessionDirectory) error {
		otr := b.otrMessage(directory, msg, recipients, self, nil)
		data := otr.Marshal()
		mode := modeDirect

		if len(data) > b.threshold {
			// Roll back the chains advanced for the payload being dropped.
			directory.DiscardCache()
			if msg.External() != nil {
				return errors.ErrNestedExternal
			}
			encrypted, err := external.Encrypt(msg)
			if err != nil {
				return fmt.Errorf("%w: %v", errors.ErrEncryptionFailed, err)
			}
			wrapper := external.ExternalMessage(msg.MessageID, encrypted.Keys)
			otr = b.otrMessage(directory, wrapper, recipients, self, encrypted.Data)
			data = otr.Marshal()
			mode = modeExternal

			if headers := len(data) - len(encrypted.Data); headers > b.threshold {
				b.log.Warn("External envelope is still over the threshold",
					"message", msg.MessageID,
					"recipients", len(recipients),
					"size", headers)
			}
		}

		metrics.EnvelopesBuiltTotal.WithLabelValues(mode).Inc()
		metrics.EnvelopeBytes.WithLabelValues(mode).Observe(float64(len(data)))
		envelope = Envelope{Message: otr, Data: data}
		return nil
	})
	return envelope, err
}

func (b *Builder) otrMessage(directory contract.SessionDirectory, msg *messages.GenericMessage,
	recipients []domain.User, self domain.SelfClient, blob []byte) *messages.NewOtrMessage {
	plaintext := msg.Marshal()

	entries := lo.FilterMap(recipients, func(user domain.User, _ int) (*messages.UserEntry, bool) {
		if user.IsAccountDeleted {
			return nil, false
		}
		clients := lo.FilterMap(user.Clients, func(client domain.Client, _ int) (*messages.ClientEntry, bool) {
			if client.UserID == self.User.ID && client.ID == self.ClientID {
				return nil, false
			}
			data, ok := b.clientPayload(directory, plaintext, client)
			if !ok {
				return nil, false
			}
			return &messages.ClientEntry{Client: &messages.ClientID{Client: client.ID}, Text: data}, true
		})
		if len(clients) == 0 {
			return nil, false
		}
		return &messages.UserEntry{User: messages.NewUserID(user.ID), Clients: clients}, true
	})

	return &messages.NewOtrMessage{
		Sender:     &messages.ClientID{Client: self.ClientID},
		Recipients: entries,
		// Delivery receipts do not trigger a notification.
		NativePush: msg.Confirmation() == nil,
		Blob:       blob,
	}
}

// clientPayload returns what a single device receives. A device without session
// is skipped until its prekeys are fetched, unless establishing it already failed.
func (b *Builder) clientPayload(directory contract.SessionDirectory, plaintext []byte, client domain.Client) ([]byte, bool) {
	sessionID := client.SessionID()
	if !directory.HasSession(sessionID) {
		failed, err := b.failures.HasFailed(sessionID)
		if err != nil {
			b.log.Warn("Unable to read session failure", "session", sessionID, "error", err)
		}
		if failed {
			metrics.DeviceEncryptionFailuresTotal.WithLabelValues("failed_session").Inc()
			return []byte(FailedToCreateEncryptedMessagePayload), true
		}
		return nil, false
	}

	data, err := directory.Encrypt(plaintext, sessionID)
	if err != nil {
		metrics.DeviceEncryptionFailuresTotal.WithLabelValues("encrypt").Inc()
		b.log.Warn("Skipping device", "session", sessionID, "error", fmt.Errorf("%w: %v", errors.ErrEncryptionFailed, err))
		return nil, false
	}
	return data, true
}

func sessionIDs(users []domain.User) []string {
	return lo.FlatMap(users, func(u domain.User, _ int) []string {
		return lo.Map(u.Clients, func(c domain.Client, _ int) string { return c.SessionID() })
	})
}
