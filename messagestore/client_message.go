// Package messagestore accumulates the raw fragments a message is made of and
// exposes their merged view.
package messagestore

import (
	"fmt"
	"time"

	"otr-lab/domain"
	"otr-lab/obfuscation"
	"otr-lab/proto/messages"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ClientMessage is a stored message and its ordered fragments.
// It is not safe for concurrent use, a message belongs to one context at a time.
type ClientMessage struct {
	domain.Message

	fragments [][]byte

	merged      *messages.GenericMessage
	mergedValid bool
	asset       *messages.GenericMessage
	assetValid  bool
}

func NewClientMessage(meta domain.Message) *ClientMessage {
	return &ClientMessage{Message: meta}
}

// Restore rebuilds a message loaded from storage.
func Restore(meta domain.Message, fragments [][]byte) *ClientMessage {
	m := NewClientMessage(meta)
	m.fragments = fragments
	return m
}

func (m *ClientMessage) Fragments() [][]byte {
	return lo.Map(m.fragments, func(f []byte, _ int) []byte {
		return append([]byte(nil), f...)
	})
}

// Add stores a new fragment. An image fragment replaces the fragment holding
// the same image format, everything else is appended.
func (m *ClientMessage) Add(data []byte) error {
	fragment, err := messages.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("invalid fragment: %w", err)
	}
	data = append([]byte(nil), data...)

	replaced := false
	if format, ok := fragment.ImageFormat(); ok {
		for i, existing := range m.decoded() {
			if f, ok := existing.ImageFormat(); ok && f == format {
				m.fragments[i] = data
				replaced = true
				break
			}
		}
	}
	if !replaced {
		m.fragments = append(m.fragments, data)
	}

	if m.Nonce == uuid.Nil {
		if nonce, ok := fragment.Nonce(); ok {
			m.Nonce = nonce
		}
	}
	m.invalidate()
	return nil
}

// Reload replaces every fragment, for instance after the record was refreshed from storage.
func (m *ClientMessage) Reload(fragments [][]byte) {
	m.fragments = fragments
	m.invalidate()
}

// ClearContent drops every fragment.
func (m *ClientMessage) ClearContent() {
	m.fragments = nil
	m.invalidate()
}

// MergedView merges the known, non image, fragments in insertion order.
// It is nil for a deleted message or when no fragment qualifies.
func (m *ClientMessage) MergedView() *messages.GenericMessage {
	if m.IsZombie() {
		return nil
	}
	if !m.mergedValid {
		m.merged = m.merge(func(f *messages.GenericMessage) bool {
			return f.KnownMessage() && f.ImageAsset() == nil
		})
		m.mergedValid = true
	}
	return m.merged
}

// AssetView merges the fragments carrying asset content.
func (m *ClientMessage) AssetView() *messages.GenericMessage {
	if m.IsZombie() {
		return nil
	}
	if !m.assetValid {
		m.asset = m.merge(func(f *messages.GenericMessage) bool {
			return f.Asset() != nil
		})
		m.assetValid = true
	}
	return m.asset
}

// ImageFragment returns the fragment holding the given image format.
func (m *ClientMessage) ImageFragment(format messages.ImageFormat) *messages.GenericMessage {
	fragment, ok := lo.Find(m.decoded(), func(f *messages.GenericMessage) bool {
		got, ok := f.ImageFormat()
		return ok && got == format
	})
	if !ok {
		return nil
	}
	return fragment
}

func (m *ClientMessage) CompositeItems() []*messages.CompositeItem {
	if composite := m.MergedView().Composite(); composite != nil {
		return composite.Items
	}
	return nil
}

// IsEphemeral is true while and after the message self destructs.
func (m *ClientMessage) IsEphemeral() bool {
	return m.DestructionDeadline != nil || m.IsObfuscated || m.MergedView().IsEphemeral() || m.ephemeralImage() != nil
}

func (m *ClientMessage) DeletionTimeout() time.Duration {
	if timeout := m.MergedView().ExpiresAfter(); timeout > 0 {
		return timeout
	}
	return m.ephemeralImage().ExpiresAfter()
}

// ApplyLinkPreviewUpdate takes only the link previews of a later update,
// any other field of the update is ignored.
func (m *ClientMessage) ApplyLinkPreviewUpdate(update *messages.GenericMessage) error {
	current := m.MergedView()
	if current == nil || current.Text() == nil || update.Text() == nil {
		return nil
	}
	next, err := messages.Unmarshal(current.Marshal())
	if err != nil {
		return err
	}
	next.Text().LinkPreviews = update.Text().LinkPreviews

	images := lo.Filter(m.fragments, func(f []byte, _ int) bool {
		decoded, err := messages.Unmarshal(f)
		return err == nil && decoded.ImageAsset() != nil
	})
	m.fragments = append([][]byte{next.Marshal()}, images...)
	m.invalidate()
	return nil
}

// Obfuscate scrubs an expired ephemeral message. It reports whether anything
// changed, a second call is a no-op.
func (m *ClientMessage) Obfuscate() bool {
	if m.IsObfuscated {
		return false
	}
	merged := m.MergedView()
	if merged == nil || !merged.IsEphemeral() {
		return m.obfuscateImages()
	}
	if merged.Knock() == nil {
		obfuscated := obfuscation.Message(merged)
		if obfuscated == nil {
			return false
		}
		m.fragments = [][]byte{obfuscated.Marshal()}
		m.invalidate()
	}
	m.IsObfuscated = true
	m.DestructionDeadline = nil
	return true
}

// obfuscateImages scrubs legacy image fragments, each format keeps its own fragment.
func (m *ClientMessage) obfuscateImages() bool {
	if m.IsZombie() || m.ephemeralImage() == nil {
		return false
	}
	m.fragments = lo.FilterMap(m.decoded(), func(f *messages.GenericMessage, i int) ([]byte, bool) {
		if f.ImageAsset() == nil || !f.IsEphemeral() {
			return m.fragments[i], true
		}
		obfuscated := obfuscation.Message(f)
		if obfuscated == nil {
			return nil, false
		}
		return obfuscated.Marshal(), true
	})
	m.invalidate()
	m.IsObfuscated = true
	m.DestructionDeadline = nil
	return true
}

// ephemeralImage returns the first ephemeral legacy image fragment.
func (m *ClientMessage) ephemeralImage() *messages.GenericMessage {
	if m.IsZombie() {
		return nil
	}
	image, ok := lo.Find(m.decoded(), func(f *messages.GenericMessage) bool {
		return f.ImageAsset() != nil && f.IsEphemeral()
	})
	if !ok {
		return nil
	}
	return image
}

func (m *ClientMessage) merge(keep func(*messages.GenericMessage) bool) *messages.GenericMessage {
	var merged *messages.GenericMessage
	for i, fragment := range m.decoded() {
		if !keep(fragment) {
			continue
		}
		if merged == nil {
			merged = &messages.GenericMessage{}
		}
		_ = merged.Merge(m.fragments[i])
	}
	return merged
}

// decoded keeps indexes aligned with fragments, undecodable ones become empty messages.
func (m *ClientMessage) decoded() []*messages.GenericMessage {
	return lo.Map(m.fragments, func(f []byte, _ int) *messages.GenericMessage {
		decoded, err := messages.Unmarshal(f)
		if err != nil {
			return &messages.GenericMessage{}
		}
		return decoded
	})
}

func (m *ClientMessage) invalidate() {
	m.merged, m.mergedValid = nil, false
	m.asset, m.assetValid = nil, false
}
