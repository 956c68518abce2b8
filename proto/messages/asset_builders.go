package messages

import (
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// NewFileAsset describes a file about to be uploaded. The MIME type is sniffed
// from the content rather than trusted from the file name.
func NewFileAsset(name string, content []byte) *Asset {
	return &Asset{
		Original: &AssetOriginal{
			MimeType: mimetype.Detect(content).String(),
			Size:     uint64(len(content)),
			Name:     name,
		},
	}
}

func NewImageAsset(content []byte, width, height int32, format ImageFormat) *Asset {
	asset := NewFileAsset("", content)
	asset.Original.Image = &ImageMetaData{Width: width, Height: height, Tag: string(format)}
	return asset
}

func NewAudioAsset(name string, content []byte, duration time.Duration, loudness []byte) *Asset {
	asset := NewFileAsset(name, content)
	asset.Original.Audio = &AudioMetaData{
		DurationInMillis:   uint64(duration.Milliseconds()),
		NormalizedLoudness: loudness,
	}
	return asset
}

func NewVideoAsset(name string, content []byte, duration time.Duration, width, height int32) *Asset {
	asset := NewFileAsset(name, content)
	asset.Original.Video = &VideoMetaData{
		Width:            width,
		Height:           height,
		DurationInMillis: uint64(duration.Milliseconds()),
	}
	return asset
}

// MarkUploaded switches the asset status to uploaded with the given remote data.
func (a *Asset) MarkUploaded(remote RemoteData) *Asset {
	a.NotUploaded = AssetNotUploadedUnset
	a.Uploaded = &remote
	return a
}

func (a *Asset) MarkNotUploaded(reason AssetNotUploaded) *Asset {
	a.Uploaded = nil
	a.NotUploaded = reason
	return a
}
