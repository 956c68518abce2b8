package messages

import "google.golang.org/protobuf/encoding/protowire"

type ImageFormat string

const (
	ImageFormatInvalid  ImageFormat = ""
	ImageFormatPreview  ImageFormat = "preview"
	ImageFormatMedium   ImageFormat = "medium"
	ImageFormatOriginal ImageFormat = "original"
	ImageFormatProfile  ImageFormat = "smallProfile"
)

func ImageFormatFromTag(tag string) ImageFormat {
	switch ImageFormat(tag) {
	case ImageFormatPreview, ImageFormatMedium, ImageFormatOriginal, ImageFormatProfile:
		return ImageFormat(tag)
	default:
		return ImageFormatInvalid
	}
}

type AssetNotUploaded int32

const (
	AssetNotUploadedUnset AssetNotUploaded = iota
	AssetCancelled
	AssetFailed
)

// Asset is a file, image, audio or video message. The status is either
// NotUploaded or Uploaded.
type Asset struct {
	Original    *AssetOriginal
	Preview     *AssetPreview
	NotUploaded AssetNotUploaded
	Uploaded    *RemoteData

	unknownFields []byte
}

func (*Asset) field() protowire.Number          { return fieldAsset }
func (*Asset) ephemeralField() protowire.Number { return ephemeralAsset }

func (a *Asset) marshal() []byte {
	e := encoder{}
	if a.Original != nil {
		e.message(1, a.Original)
	}
	if a.Preview != nil {
		e.message(2, a.Preview)
	}
	e.int32(3, int32(a.NotUploaded))
	if a.Uploaded != nil {
		e.message(4, a.Uploaded)
	}
	e.raw(a.unknownFields)
	return e.b
}

func (a *Asset) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			if a.Original == nil {
				a.Original = &AssetOriginal{}
			}
			d.message(a.Original)
		case 2:
			if a.Preview == nil {
				a.Preview = &AssetPreview{}
			}
			d.message(a.Preview)
		case 3:
			a.NotUploaded, a.Uploaded = AssetNotUploaded(d.int32()), nil
		case 4:
			a.NotUploaded = AssetNotUploadedUnset
			if a.Uploaded == nil {
				a.Uploaded = &RemoteData{}
			}
			d.message(a.Uploaded)
		default:
			d.unknown(&a.unknownFields)
		}
	}
	return d.err
}

// HasUploaded reports whether the asset already points to remote data.
func (a *Asset) HasUploaded() bool {
	return a.Uploaded != nil
}

type AssetOriginal struct {
	MimeType string
	Size     uint64
	Name     string
	Image    *ImageMetaData
	Video    *VideoMetaData
	Audio    *AudioMetaData

	unknownFields []byte
}

func (o *AssetOriginal) marshal() []byte {
	e := encoder{}
	e.string(1, o.MimeType)
	e.uint64(2, o.Size)
	e.string(3, o.Name)
	if o.Image != nil {
		e.message(4, o.Image)
	}
	if o.Video != nil {
		e.message(5, o.Video)
	}
	if o.Audio != nil {
		e.message(6, o.Audio)
	}
	e.raw(o.unknownFields)
	return e.b
}

func (o *AssetOriginal) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			o.MimeType = d.string()
		case 2:
			o.Size = d.uint64()
		case 3:
			o.Name = d.string()
		case 4:
			if o.Image == nil {
				o.Image = &ImageMetaData{}
			}
			d.message(o.Image)
		case 5:
			if o.Video == nil {
				o.Video = &VideoMetaData{}
			}
			d.message(o.Video)
		case 6:
			if o.Audio == nil {
				o.Audio = &AudioMetaData{}
			}
			d.message(o.Audio)
		default:
			d.unknown(&o.unknownFields)
		}
	}
	return d.err
}

type AssetPreview struct {
	MimeType string
	Size     uint64
	Remote   *RemoteData
	Image    *ImageMetaData

	unknownFields []byte
}

func (p *AssetPreview) marshal() []byte {
	e := encoder{}
	e.string(1, p.MimeType)
	e.uint64(2, p.Size)
	if p.Remote != nil {
		e.message(3, p.Remote)
	}
	if p.Image != nil {
		e.message(4, p.Image)
	}
	e.raw(p.unknownFields)
	return e.b
}

func (p *AssetPreview) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			p.MimeType = d.string()
		case 2:
			p.Size = d.uint64()
		case 3:
			if p.Remote == nil {
				p.Remote = &RemoteData{}
			}
			d.message(p.Remote)
		case 4:
			if p.Image == nil {
				p.Image = &ImageMetaData{}
			}
			d.message(p.Image)
		default:
			d.unknown(&p.unknownFields)
		}
	}
	return d.err
}

type ImageMetaData struct {
	Width  int32
	Height int32
	Tag    string

	unknownFields []byte
}

func (i *ImageMetaData) marshal() []byte {
	e := encoder{}
	e.int32(1, i.Width)
	e.int32(2, i.Height)
	e.string(3, i.Tag)
	e.raw(i.unknownFields)
	return e.b
}

func (i *ImageMetaData) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			i.Width = d.int32()
		case 2:
			i.Height = d.int32()
		case 3:
			i.Tag = d.string()
		default:
			d.unknown(&i.unknownFields)
		}
	}
	return d.err
}

type VideoMetaData struct {
	Width            int32
	Height           int32
	DurationInMillis uint64

	unknownFields []byte
}

func (v *VideoMetaData) marshal() []byte {
	e := encoder{}
	e.int32(1, v.Width)
	e.int32(2, v.Height)
	e.uint64(3, v.DurationInMillis)
	e.raw(v.unknownFields)
	return e.b
}

func (v *VideoMetaData) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			v.Width = d.int32()
		case 2:
			v.Height = d.int32()
		case 3:
			v.DurationInMillis = d.uint64()
		default:
			d.unknown(&v.unknownFields)
		}
	}
	return d.err
}

type AudioMetaData struct {
	DurationInMillis   uint64
	NormalizedLoudness []byte

	unknownFields []byte
}

func (a *AudioMetaData) marshal() []byte {
	e := encoder{}
	e.uint64(1, a.DurationInMillis)
	e.bytes(3, a.NormalizedLoudness)
	e.raw(a.unknownFields)
	return e.b
}

func (a *AudioMetaData) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			a.DurationInMillis = d.uint64()
		case 3:
			a.NormalizedLoudness = d.bytes()
		default:
			d.unknown(&a.unknownFields)
		}
	}
	return d.err
}

type RemoteData struct {
	OtrKey     []byte
	Sha256     []byte
	AssetID    string
	AssetToken string

	unknownFields []byte
}

func (r *RemoteData) marshal() []byte {
	e := encoder{}
	e.bytes(1, r.OtrKey)
	e.bytes(2, r.Sha256)
	e.string(3, r.AssetID)
	e.string(5, r.AssetToken)
	e.raw(r.unknownFields)
	return e.b
}

func (r *RemoteData) unmarshal(b []byte) error {
	d := newDecoder(b)
	for d.next() {
		switch d.num {
		case 1:
			r.OtrKey = d.bytes()
		case 2:
			r.Sha256 = d.bytes()
		case 3:
			r.AssetID = d.string()
		case 5:
			r.AssetToken = d.string()
		default:
			d.unknown(&r.unknownFields)
		}
	}
	return d.err
}
