package messages

import "google.golang.org/protobuf/encoding/protowire"

type Text struct {
	Content                 string
	LinkPreviews            []*LinkPreview
	Mentions                []*Mention
	ExpectsReadConfirmation bool

	unknownFields []byte
}

func (*Text) field() protowire.Number          { return fieldText }
func (*Text) ephemeralField() protowire.Number { return ephemeralText }

func (t *Text) marshal() []byte {
	e := encoder{}
	e.string(1, t.Content)
	for _, lp := range t.LinkPreviews {
		e.message(3, lp)
	}
	for _, mention := range t.Mentions {
		e.message(4, mention)
	}
	e.bool(6, t.ExpectsReadConfirmation)
	e.raw(t.unknownFields)
	return e.b
}

func (t *Text) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			t.Content = d.string()
		case 3:
			lp := &LinkPreview{}
			d.message(lp)
			t.LinkPreviews = append(t.LinkPreviews, lp)
		case 4:
			mention := &Mention{}
			d.message(mention)
			t.Mentions = append(t.Mentions, mention)
		case 6:
			t.ExpectsReadConfirmation = d.bool()
		default:
			d.unknown(&t.unknownFields)
		}
	}
	return d.err
}

type Mention struct {
	Start  int32
	Length int32
	UserID string

	unknownFields []byte
}

func (m *Mention) marshal() []byte {
	e := encoder{}
	e.int32(1, m.Start)
	e.int32(2, m.Length)
	e.string(3, m.UserID)
	e.raw(m.unknownFields)
	return e.b
}

func (m *Mention) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			m.Start = d.int32()
		case 2:
			m.Length = d.int32()
		case 3:
			m.UserID = d.string()
		default:
			d.unknown(&m.unknownFields)
		}
	}
	return d.err
}

type LinkPreview struct {
	URL          string
	URLOffset    int32
	PermanentURL string
	Title        string
	Summary      string
	Image        *Asset
	Tweet        *Tweet

	unknownFields []byte
}

func (l *LinkPreview) marshal() []byte {
	e := encoder{}
	e.string(1, l.URL)
	e.int32(2, l.URLOffset)
	e.string(5, l.PermanentURL)
	e.string(6, l.Title)
	e.string(7, l.Summary)
	if l.Image != nil {
		e.message(8, l.Image)
	}
	if l.Tweet != nil {
		e.message(9, l.Tweet)
	}
	e.raw(l.unknownFields)
	return e.b
}

func (l *LinkPreview) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			l.URL = d.string()
		case 2:
			l.URLOffset = d.int32()
		case 5:
			l.PermanentURL = d.string()
		case 6:
			l.Title = d.string()
		case 7:
			l.Summary = d.string()
		case 8:
			if l.Image == nil {
				l.Image = &Asset{}
			}
			d.message(l.Image)
		case 9:
			if l.Tweet == nil {
				l.Tweet = &Tweet{}
			}
			d.message(l.Tweet)
		default:
			d.unknown(&l.unknownFields)
		}
	}
	return d.err
}

type Tweet struct {
	Author   string
	Username string

	unknownFields []byte
}

func (t *Tweet) marshal() []byte {
	e := encoder{}
	e.string(1, t.Author)
	e.string(2, t.Username)
	e.raw(t.unknownFields)
	return e.b
}

func (t *Tweet) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			t.Author = d.string()
		case 2:
			t.Username = d.string()
		default:
			d.unknown(&t.unknownFields)
		}
	}
	return d.err
}

type Knock struct {
	HotKnock bool

	unknownFields []byte
}

func (*Knock) field() protowire.Number          { return fieldKnock }
func (*Knock) ephemeralField() protowire.Number { return ephemeralKnock }

func (k *Knock) marshal() []byte {
	e := encoder{}
	e.bool(1, k.HotKnock)
	e.raw(k.unknownFields)
	return e.b
}

func (k *Knock) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			k.HotKnock = d.bool()
		default:
			d.unknown(&k.unknownFields)
		}
	}
	return d.err
}

type Location struct {
	Longitude float32
	Latitude  float32
	Name      string
	Zoom      int32

	unknownFields []byte
}

func (*Location) field() protowire.Number          { return fieldLocation }
func (*Location) ephemeralField() protowire.Number { return ephemeralLocation }

func (l *Location) marshal() []byte {
	e := encoder{}
	e.float(1, l.Longitude)
	e.float(2, l.Latitude)
	e.string(3, l.Name)
	e.int32(4, l.Zoom)
	e.raw(l.unknownFields)
	return e.b
}

func (l *Location) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			l.Longitude = d.float()
		case 2:
			l.Latitude = d.float()
		case 3:
			l.Name = d.string()
		case 4:
			l.Zoom = d.int32()
		default:
			d.unknown(&l.unknownFields)
		}
	}
	return d.err
}

// ImageAsset is the legacy image kind, one fragment per image format.
type ImageAsset struct {
	Tag            string
	Width          int32
	Height         int32
	OriginalWidth  int32
	OriginalHeight int32
	MimeType       string
	Size           int32
	OtrKey         []byte
	Sha256         []byte

	unknownFields []byte
}

func (*ImageAsset) field() protowire.Number          { return fieldImage }
func (*ImageAsset) ephemeralField() protowire.Number { return ephemeralImage }

func (i *ImageAsset) marshal() []byte {
	e := encoder{}
	e.string(1, i.Tag)
	e.int32(2, i.Width)
	e.int32(3, i.Height)
	e.int32(4, i.OriginalWidth)
	e.int32(5, i.OriginalHeight)
	e.string(6, i.MimeType)
	e.int32(7, i.Size)
	e.bytes(8, i.OtrKey)
	e.bytes(11, i.Sha256)
	e.raw(i.unknownFields)
	return e.b
}

func (i *ImageAsset) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			i.Tag = d.string()
		case 2:
			i.Width = d.int32()
		case 3:
			i.Height = d.int32()
		case 4:
			i.OriginalWidth = d.int32()
		case 5:
			i.OriginalHeight = d.int32()
		case 6:
			i.MimeType = d.string()
		case 7:
			i.Size = d.int32()
		case 8:
			i.OtrKey = d.bytes()
		case 11:
			i.Sha256 = d.bytes()
		default:
			d.unknown(&i.unknownFields)
		}
	}
	return d.err
}

type ConfirmationType int32

const (
	Delivered ConfirmationType = iota
	Read
)

type Confirmation struct {
	Type           ConfirmationType
	FirstMessageID string
	MoreMessageIDs []string

	unknownFields []byte
}

func (*Confirmation) field() protowire.Number { return fieldConfirmation }

func (c *Confirmation) marshal() []byte {
	e := encoder{}
	e.int32(1, int32(c.Type))
	e.string(2, c.FirstMessageID)
	for _, id := range c.MoreMessageIDs {
		e.b = protowire.AppendTag(e.b, 3, protowire.BytesType)
		e.b = protowire.AppendString(e.b, id)
	}
	e.raw(c.unknownFields)
	return e.b
}

func (c *Confirmation) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			c.Type = ConfirmationType(d.int32())
		case 2:
			c.FirstMessageID = d.string()
		case 3:
			c.MoreMessageIDs = append(c.MoreMessageIDs, d.string())
		default:
			d.unknown(&c.unknownFields)
		}
	}
	return d.err
}

type Reaction struct {
	Emoji     string
	MessageID string

	unknownFields []byte
}

func (*Reaction) field() protowire.Number { return fieldReaction }

func (r *Reaction) marshal() []byte {
	e := encoder{}
	e.string(1, r.Emoji)
	e.string(2, r.MessageID)
	e.raw(r.unknownFields)
	return e.b
}

func (r *Reaction) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			r.Emoji = d.string()
		case 2:
			r.MessageID = d.string()
		default:
			d.unknown(&r.unknownFields)
		}
	}
	return d.err
}

type MessageDelete struct {
	MessageID string

	unknownFields []byte
}

func (*MessageDelete) field() protowire.Number { return fieldDeleted }

func (m *MessageDelete) marshal() []byte {
	e := encoder{}
	e.string(1, m.MessageID)
	e.raw(m.unknownFields)
	return e.b
}

func (m *MessageDelete) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			m.MessageID = d.string()
		default:
			d.unknown(&m.unknownFields)
		}
	}
	return d.err
}

type MessageEdit struct {
	ReplacingMessageID string
	Text               *Text

	unknownFields []byte
}

func (*MessageEdit) field() protowire.Number { return fieldEdited }

func (m *MessageEdit) marshal() []byte {
	e := encoder{}
	e.string(1, m.ReplacingMessageID)
	if m.Text != nil {
		e.message(2, m.Text)
	}
	e.raw(m.unknownFields)
	return e.b
}

func (m *MessageEdit) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			m.ReplacingMessageID = d.string()
		case 2:
			if m.Text == nil {
				m.Text = &Text{}
			}
			d.message(m.Text)
		default:
			d.unknown(&m.unknownFields)
		}
	}
	return d.err
}

type MessageHide struct {
	ConversationID string
	MessageID      string

	unknownFields []byte
}

func (*MessageHide) field() protowire.Number { return fieldHidden }

func (m *MessageHide) marshal() []byte {
	e := encoder{}
	e.string(1, m.ConversationID)
	e.string(2, m.MessageID)
	e.raw(m.unknownFields)
	return e.b
}

func (m *MessageHide) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			m.ConversationID = d.string()
		case 2:
			m.MessageID = d.string()
		default:
			d.unknown(&m.unknownFields)
		}
	}
	return d.err
}

// External points to a payload sent out of band, encrypted with OtrKey.
type External struct {
	OtrKey []byte
	Sha256 []byte

	unknownFields []byte
}

func (*External) field() protowire.Number { return fieldExternal }

func (x *External) marshal() []byte {
	e := encoder{}
	e.bytes(1, x.OtrKey)
	e.bytes(2, x.Sha256)
	e.raw(x.unknownFields)
	return e.b
}

func (x *External) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			x.OtrKey = d.bytes()
		case 2:
			x.Sha256 = d.bytes()
		default:
			d.unknown(&x.unknownFields)
		}
	}
	return d.err
}

const (
	ephemeralText     protowire.Number = 2
	ephemeralImage    protowire.Number = 3
	ephemeralKnock    protowire.Number = 4
	ephemeralAsset    protowire.Number = 5
	ephemeralLocation protowire.Number = 6
)

type Ephemeral struct {
	ExpireAfterMillis int64
	Content           EphemeralContent

	unknownFields []byte
}

func (*Ephemeral) field() protowire.Number { return fieldEphemeral }

func (x *Ephemeral) marshal() []byte {
	e := encoder{}
	e.int64(1, x.ExpireAfterMillis)
	if x.Content != nil {
		e.message(x.Content.ephemeralField(), x.Content)
	}
	e.raw(x.unknownFields)
	return e.b
}

func (x *Ephemeral) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			x.ExpireAfterMillis = d.int64()
		case ephemeralText:
			mergeEphemeral[Text](x, d)
		case ephemeralImage:
			mergeEphemeral[ImageAsset](x, d)
		case ephemeralKnock:
			mergeEphemeral[Knock](x, d)
		case ephemeralAsset:
			mergeEphemeral[Asset](x, d)
		case ephemeralLocation:
			mergeEphemeral[Location](x, d)
		default:
			d.unknown(&x.unknownFields)
		}
	}
	return d.err
}

func mergeEphemeral[T any, P interface {
	*T
	EphemeralContent
}](x *Ephemeral, d *decoder) {
	c, ok := x.Content.(P)
	if !ok {
		c = P(new(T))
		x.Content = c
	}
	d.message(c)
}

type Composite struct {
	Items                   []*CompositeItem
	ExpectsReadConfirmation bool

	unknownFields []byte
}

func (*Composite) field() protowire.Number { return fieldComposite }

func (c *Composite) marshal() []byte {
	e := encoder{}
	for _, item := range c.Items {
		e.message(1, item)
	}
	e.bool(2, c.ExpectsReadConfirmation)
	e.raw(c.unknownFields)
	return e.b
}

func (c *Composite) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			item := &CompositeItem{}
			d.message(item)
			c.Items = append(c.Items, item)
		case 2:
			c.ExpectsReadConfirmation = d.bool()
		default:
			d.unknown(&c.unknownFields)
		}
	}
	return d.err
}

// CompositeItem holds either a text or a button.
type CompositeItem struct {
	Text   *Text
	Button *Button

	unknownFields []byte
}

func (c *CompositeItem) marshal() []byte {
	e := encoder{}
	if c.Text != nil {
		e.message(1, c.Text)
	}
	if c.Button != nil {
		e.message(2, c.Button)
	}
	e.raw(c.unknownFields)
	return e.b
}

func (c *CompositeItem) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			c.Text, c.Button = &Text{}, nil
			d.message(c.Text)
		case 2:
			c.Text, c.Button = nil, &Button{}
			d.message(c.Button)
		default:
			d.unknown(&c.unknownFields)
		}
	}
	return d.err
}

type Button struct {
	Text string
	ID   string

	unknownFields []byte
}

func (x *Button) marshal() []byte {
	e := encoder{}
	e.string(1, x.Text)
	e.string(2, x.ID)
	e.raw(x.unknownFields)
	return e.b
}

func (x *Button) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			x.Text = d.string()
		case 2:
			x.ID = d.string()
		default:
			d.unknown(&x.unknownFields)
		}
	}
	return d.err
}

type ButtonAction struct {
	ButtonID           string
	ReferenceMessageID string

	unknownFields []byte
}

func (*ButtonAction) field() protowire.Number { return fieldButtonAction }

func (x *ButtonAction) marshal() []byte {
	e := encoder{}
	e.string(1, x.ButtonID)
	e.string(2, x.ReferenceMessageID)
	e.raw(x.unknownFields)
	return e.b
}

func (x *ButtonAction) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			x.ButtonID = d.string()
		case 2:
			x.ReferenceMessageID = d.string()
		default:
			d.unknown(&x.unknownFields)
		}
	}
	return d.err
}

type AvailabilityType int32

const (
	AvailabilityNone AvailabilityType = iota
	AvailabilityAvailable
	AvailabilityAway
	AvailabilityBusy
)

type Availability struct {
	Type AvailabilityType

	unknownFields []byte
}

func (*Availability) field() protowire.Number { return fieldAvailability }

func (x *Availability) marshal() []byte {
	e := encoder{}
	e.int32(1, int32(x.Type))
	e.raw(x.unknownFields)
	return e.b
}

func (x *Availability) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			x.Type = AvailabilityType(d.int32())
		default:
			d.unknown(&x.unknownFields)
		}
	}
	return d.err
}

type LastRead struct {
	ConversationID    string
	LastReadTimestamp int64

	unknownFields []byte
}

func (*LastRead) field() protowire.Number { return fieldLastRead }

func (x *LastRead) marshal() []byte {
	e := encoder{}
	e.string(1, x.ConversationID)
	e.int64(2, x.LastReadTimestamp)
	e.raw(x.unknownFields)
	return e.b
}

func (x *LastRead) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			x.ConversationID = d.string()
		case 2:
			x.LastReadTimestamp = d.int64()
		default:
			d.unknown(&x.unknownFields)
		}
	}
	return d.err
}

type Cleared struct {
	ConversationID   string
	ClearedTimestamp int64

	unknownFields []byte
}

func (*Cleared) field() protowire.Number { return fieldCleared }

func (x *Cleared) marshal() []byte {
	e := encoder{}
	e.string(1, x.ConversationID)
	e.int64(2, x.ClearedTimestamp)
	e.raw(x.unknownFields)
	return e.b
}

func (x *Cleared) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			x.ConversationID = d.string()
		case 2:
			x.ClearedTimestamp = d.int64()
		default:
			d.unknown(&x.unknownFields)
		}
	}
	return d.err
}

type Calling struct {
	Content string

	unknownFields []byte
}

func (*Calling) field() protowire.Number { return fieldCalling }

func (x *Calling) marshal() []byte {
	e := encoder{}
	e.string(1, x.Content)
	e.raw(x.unknownFields)
	return e.b
}

func (x *Calling) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			x.Content = d.string()
		default:
			d.unknown(&x.unknownFields)
		}
	}
	return d.err
}
