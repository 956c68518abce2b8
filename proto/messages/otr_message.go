package messages

import (
	"github.com/google/uuid"
)

// NewOtrMessage is the envelope posted to the backend: one ciphertext per
// recipient device, plus an optional blob for oversized payloads.
type NewOtrMessage struct {
	Sender     *ClientID
	Recipients []*UserEntry
	NativePush bool
	Blob       []byte

	unknownFields []byte
}

type ClientID struct {
	Client string

	unknownFields []byte
}

type UserID struct {
	UUID []byte

	unknownFields []byte
}

type UserEntry struct {
	User    *UserID
	Clients []*ClientEntry

	unknownFields []byte
}

type ClientEntry struct {
	Client *ClientID
	Text   []byte

	unknownFields []byte
}

func NewUserID(id uuid.UUID) *UserID {
	return &UserID{UUID: id[:]}
}

func (u *UserID) ID() (uuid.UUID, error) {
	return uuid.FromBytes(u.UUID)
}

func (m *NewOtrMessage) Marshal() []byte {
	return m.marshal()
}

func UnmarshalOtrMessage(b []byte) (*NewOtrMessage, error) {
	m := &NewOtrMessage{}
	if err := m.unmarshal(b); err != nil {
		return nil, err
	}
	return m, nil
}

// CiphertextFor returns the ciphertext addressed to a device.
func (m *NewOtrMessage) CiphertextFor(userID uuid.UUID, clientID string) ([]byte, bool) {
	for _, entry := range m.Recipients {
		if entry.User == nil {
			continue
		}
		id, err := entry.User.ID()
		if err != nil || id != userID {
			continue
		}
		for _, client := range entry.Clients {
			if client.Client != nil && client.Client.Client == clientID {
				return client.Text, true
			}
		}
	}
	return nil, false
}

func (m *NewOtrMessage) marshal() []byte {
	e := encoder{}
	if m.Sender != nil {
		e.message(1, m.Sender)
	}
	for _, r := range m.Recipients {
		e.message(2, r)
	}
	e.bool(3, m.NativePush)
	e.bytes(4, m.Blob)
	e.raw(m.unknownFields)
	return e.b
}

func (m *NewOtrMessage) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			if m.Sender == nil {
				m.Sender = &ClientID{}
			}
			d.message(m.Sender)
		case 2:
			entry := &UserEntry{}
			d.message(entry)
			m.Recipients = append(m.Recipients, entry)
		case 3:
			m.NativePush = d.bool()
		case 4:
			m.Blob = d.bytes()
		default:
			d.unknown(&m.unknownFields)
		}
	}
	return d.err
}

func (c *ClientID) marshal() []byte {
	e := encoder{}
	e.string(1, c.Client)
	e.raw(c.unknownFields)
	return e.b
}

func (c *ClientID) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			c.Client = d.string()
		default:
			d.unknown(&c.unknownFields)
		}
	}
	return d.err
}

func (u *UserID) marshal() []byte {
	e := encoder{}
	e.bytes(1, u.UUID)
	e.raw(u.unknownFields)
	return e.b
}

func (u *UserID) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			u.UUID = d.bytes()
		default:
			d.unknown(&u.unknownFields)
		}
	}
	return d.err
}

func (u *UserEntry) marshal() []byte {
	e := encoder{}
	if u.User != nil {
		e.message(1, u.User)
	}
	for _, c := range u.Clients {
		e.message(2, c)
	}
	e.raw(u.unknownFields)
	return e.b
}

func (u *UserEntry) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			if u.User == nil {
				u.User = &UserID{}
			}
			d.message(u.User)
		case 2:
			entry := &ClientEntry{}
			d.message(entry)
			u.Clients = append(u.Clients, entry)
		default:
			d.unknown(&u.unknownFields)
		}
	}
	return d.err
}

func (c *ClientEntry) marshal() []byte {
	e := encoder{}
	if c.Client != nil {
		e.message(1, c.Client)
	}
	e.bytes(2, c.Text)
	e.raw(c.unknownFields)
	return e.b
}

func (c *ClientEntry) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			if c.Client == nil {
				c.Client = &ClientID{}
			}
			d.message(c.Client)
		case 2:
			c.Text = d.bytes()
		default:
			d.unknown(&c.unknownFields)
		}
	}
	return d.err
}
