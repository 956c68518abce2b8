package workers

import (
	"context"
	"log/slog"
	"time"

	"otr-lab/domain"
	"otr-lab/domain/event"
	"otr-lab/envelope"
	"otr-lab/proto/messages"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type OutboundSource interface {
	DrainOutbound() []*event.MessageDeletedForEveryone
}

type EnvelopeBuilder interface {
	BuildEnvelope(msg *messages.GenericMessage, conv domain.Conversation, self domain.SelfClient) (envelope.Envelope, domain.MissingClientsStrategy, error)
}

// ClientLookup resolves the known devices of a user.
type ClientLookup interface {
	ClientsOf(userID uuid.UUID) ([]domain.Client, error)
}

// Poster hands a built envelope over to the transport.
type Poster interface {
	Post(ctx context.Context, conversationID string, env envelope.Envelope, strategy domain.MissingClientsStrategy) error
}

// OutboundWorker encrypts the delete messages raised by expired ephemeral
// messages and posts them to the original sender and the other self devices.
type OutboundWorker struct {
	log      *slog.Logger
	source   OutboundSource
	clients  ClientLookup
	builder  EnvelopeBuilder
	poster   Poster
	self     domain.SelfClient
	interval time.Duration
}

func NewOutboundWorker(log *slog.Logger, source OutboundSource, clients ClientLookup, builder EnvelopeBuilder, poster Poster,
	self domain.SelfClient, interval time.Duration) *OutboundWorker {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &OutboundWorker{
		log:      log,
		source:   source,
		clients:  clients,
		builder:  builder,
		poster:   poster,
		self:     self,
		interval: interval,
	}
}

func (w *OutboundWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

// Flush builds and posts every pending delete message. A failed message is
// logged and dropped, the receiver already removed it locally.
func (w *OutboundWorker) Flush(ctx context.Context) int {
	posted := 0
	for _, evt := range w.source.DrainOutbound() {
		conv, self, err := w.conversation(evt)
		if err != nil {
			w.log.Error("Cannot resolve delete recipients", "message_id", evt.MessageID, "error", err)
			continue
		}
		env, strategy, err := w.builder.BuildEnvelope(evt.Delete, conv, self)
		if err != nil {
			w.log.Error("Cannot build delete envelope", "message_id", evt.MessageID, "error", err)
			continue
		}
		if err := w.poster.Post(ctx, evt.Conversation.String(), env, strategy); err != nil {
			w.log.Error("Cannot post delete envelope", "message_id", evt.MessageID, "error", err)
			continue
		}
		posted++
	}
	return posted
}

// conversation addresses the original sender and the other self devices.
func (w *OutboundWorker) conversation(evt *event.MessageDeletedForEveryone) (domain.Conversation, domain.SelfClient, error) {
	senderClients, err := w.clients.ClientsOf(evt.OriginalSender)
	if err != nil {
		return domain.Conversation{}, domain.SelfClient{}, err
	}
	selfClients, err := w.clients.ClientsOf(w.self.User.ID)
	if err != nil {
		return domain.Conversation{}, domain.SelfClient{}, err
	}
	self := w.self
	self.User.Clients = lo.UniqBy(append(append([]domain.Client(nil), w.self.User.Clients...), selfClients...),
		func(c domain.Client) string { return c.ID })
	conv := domain.Conversation{
		ID:           evt.Conversation,
		Type:         domain.Group,
		Participants: []domain.User{{ID: evt.OriginalSender, Clients: senderClients}, self.User},
	}
	return conv, self, nil
}

// LogPoster only logs envelopes, used when no transport is attached.
type LogPoster struct {
	log *slog.Logger
}

func NewLogPoster(log *slog.Logger) LogPoster {
	return LogPoster{log: log}
}

func (p LogPoster) Post(_ context.Context, conversationID string, env envelope.Envelope, strategy domain.MissingClientsStrategy) error {
	p.log.Info("Envelope ready",
		"conversation_id", conversationID,
		"bytes", len(env.Data),
		"external", env.IsExternal(),
		"ignore_missing_users", len(strategy.Users),
	)
	return nil
}
