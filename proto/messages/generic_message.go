// Package messages is the protocol buffer model of the messages exchanged
// between clients. Encoding is done field by field with protowire so the
// model stays a closed set of Go types.
package messages

import (
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldMessageID    protowire.Number = 1
	fieldText         protowire.Number = 2
	fieldImage        protowire.Number = 3
	fieldKnock        protowire.Number = 4
	fieldLastRead     protowire.Number = 6
	fieldCleared      protowire.Number = 7
	fieldExternal     protowire.Number = 8
	fieldCalling      protowire.Number = 10
	fieldAsset        protowire.Number = 11
	fieldHidden       protowire.Number = 12
	fieldLocation     protowire.Number = 13
	fieldDeleted      protowire.Number = 14
	fieldEdited       protowire.Number = 15
	fieldConfirmation protowire.Number = 16
	fieldReaction     protowire.Number = 17
	fieldEphemeral    protowire.Number = 18
	fieldAvailability protowire.Number = 19
	fieldComposite    protowire.Number = 20
	fieldButtonAction protowire.Number = 21
)

// Content is the closed set of message kinds a GenericMessage can carry.
type Content interface {
	marshaler
	unmarshaler
	field() protowire.Number
}

// EphemeralContent is the subset of kinds that can be wrapped into an Ephemeral.
type EphemeralContent interface {
	Content
	ephemeralField() protowire.Number
}

// GenericMessage is the unit exchanged between clients.
// A nil Content means the kind is unknown to this client.
type GenericMessage struct {
	MessageID string
	Content   Content

	unknownFields []byte
}

// NewGenericMessage builds a message with the given nonce. A positive expiresAfter
// wraps ephemeral capable content into an Ephemeral.
func NewGenericMessage(content Content, nonce uuid.UUID, expiresAfter time.Duration) *GenericMessage {
	if c, ok := content.(EphemeralContent); ok && expiresAfter > 0 {
		content = &Ephemeral{ExpireAfterMillis: expiresAfter.Milliseconds(), Content: c}
	}
	return &GenericMessage{MessageID: nonce.String(), Content: content}
}

// Unmarshal decodes a single serialized message.
func Unmarshal(b []byte) (*GenericMessage, error) {
	m := &GenericMessage{}
	if err := m.Merge(b); err != nil {
		return nil, err
	}
	return m, nil
}

// Marshal encodes the message, unknown fields are written back as received.
func (m *GenericMessage) Marshal() []byte {
	return m.marshal()
}

// Merge decodes b on top of m. Populated scalar fields overwrite, embedded
// messages are merged, repeated fields are appended and a different kind
// replaces the current content.
func (m *GenericMessage) Merge(b []byte) error {
	return m.unmarshal(b)
}

func (m *GenericMessage) marshal() []byte {
	e := encoder{}
	e.string(fieldMessageID, m.MessageID)
	if m.Content != nil {
		e.message(m.Content.field(), m.Content)
	}
	e.raw(m.unknownFields)
	return e.b
}

func (m *GenericMessage) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case fieldMessageID:
			if id := d.string(); id != "" {
				m.MessageID = id
			}
		case fieldText:
			mergeContent[Text](m, d)
		case fieldImage:
			mergeContent[ImageAsset](m, d)
		case fieldKnock:
			mergeContent[Knock](m, d)
		case fieldLastRead:
			mergeContent[LastRead](m, d)
		case fieldCleared:
			mergeContent[Cleared](m, d)
		case fieldExternal:
			mergeContent[External](m, d)
		case fieldCalling:
			mergeContent[Calling](m, d)
		case fieldAsset:
			mergeContent[Asset](m, d)
		case fieldHidden:
			mergeContent[MessageHide](m, d)
		case fieldLocation:
			mergeContent[Location](m, d)
		case fieldDeleted:
			mergeContent[MessageDelete](m, d)
		case fieldEdited:
			mergeContent[MessageEdit](m, d)
		case fieldConfirmation:
			mergeContent[Confirmation](m, d)
		case fieldReaction:
			mergeContent[Reaction](m, d)
		case fieldEphemeral:
			mergeContent[Ephemeral](m, d)
		case fieldAvailability:
			mergeContent[Availability](m, d)
		case fieldComposite:
			mergeContent[Composite](m, d)
		case fieldButtonAction:
			mergeContent[ButtonAction](m, d)
		default:
			d.unknown(&m.unknownFields)
		}
	}
	return d.err
}

func mergeContent[T any, P interface {
	*T
	Content
}](m *GenericMessage, d *decoder) {
	c, ok := m.Content.(P)
	if !ok {
		c = P(new(T))
		m.Content = c
	}
	d.message(c)
}

// KnownMessage reports whether the kind is understood by this client.
func (m *GenericMessage) KnownMessage() bool {
	return m != nil && m.Content != nil
}

func (m *GenericMessage) Nonce() (uuid.UUID, bool) {
	id, err := uuid.Parse(m.MessageID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (m *GenericMessage) content() Content {
	if m == nil {
		return nil
	}
	return m.Content
}

func (m *GenericMessage) IsEphemeral() bool {
	_, ok := m.content().(*Ephemeral)
	return ok
}

// ExpiresAfter is the ephemeral lifetime, zero for regular messages.
func (m *GenericMessage) ExpiresAfter() time.Duration {
	if e, ok := m.content().(*Ephemeral); ok {
		return time.Duration(e.ExpireAfterMillis) * time.Millisecond
	}
	return 0
}

// unwrapped returns the content, looking inside an Ephemeral wrapper.
func (m *GenericMessage) unwrapped() Content {
	if e, ok := m.content().(*Ephemeral); ok {
		if e.Content == nil {
			return nil
		}
		return e.Content
	}
	return m.content()
}

func (m *GenericMessage) Text() *Text {
	t, _ := m.unwrapped().(*Text)
	return t
}

func (m *GenericMessage) Knock() *Knock {
	k, _ := m.unwrapped().(*Knock)
	return k
}

func (m *GenericMessage) Location() *Location {
	l, _ := m.unwrapped().(*Location)
	return l
}

func (m *GenericMessage) ImageAsset() *ImageAsset {
	i, _ := m.unwrapped().(*ImageAsset)
	return i
}

func (m *GenericMessage) Asset() *Asset {
	a, _ := m.unwrapped().(*Asset)
	return a
}

func (m *GenericMessage) Confirmation() *Confirmation {
	c, _ := m.content().(*Confirmation)
	return c
}

func (m *GenericMessage) Deleted() *MessageDelete {
	d, _ := m.content().(*MessageDelete)
	return d
}

func (m *GenericMessage) External() *External {
	e, _ := m.content().(*External)
	return e
}

func (m *GenericMessage) Composite() *Composite {
	c, _ := m.content().(*Composite)
	return c
}

// ImageFormat returns the format tag of image bearing content.
func (m *GenericMessage) ImageFormat() (ImageFormat, bool) {
	if image := m.ImageAsset(); image != nil {
		return ImageFormatFromTag(image.Tag), true
	}
	if asset := m.Asset(); asset != nil && asset.Original != nil && asset.Original.Image != nil && asset.Original.Image.Tag != "" {
		return ImageFormatFromTag(asset.Original.Image.Tag), true
	}
	return ImageFormatInvalid, false
}
