// Package obfuscation scrubs the content of ephemeral messages once they expired
// on the sender side. The shape of the message survives, so it still renders as
// a placeholder of the right kind, but nothing readable is left.
package obfuscation

import (
	"math/rand/v2"
	"strings"
	"unicode"

	"otr-lab/proto/messages"
)

// Replacement letters, 'w' excluded.
const alphabet = "abcdefghijklmnopqrstuvxyz"

const (
	obfuscatedAssetSize = 10
	obfuscatedImageSize = 1
)

// String replaces every non whitespace character by a random lowercase letter.
func String(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

// Message returns the obfuscated, non ephemeral, version of an ephemeral message.
// It returns nil when there is nothing to obfuscate: no message ID, regular
// content or an ephemeral kind without payload such as a knock.
func Message(m *messages.GenericMessage) *messages.GenericMessage {
	if m == nil || !m.IsEphemeral() {
		return nil
	}
	if _, ok := m.Nonce(); !ok {
		return nil
	}

	var content messages.Content
	switch {
	case m.Text() != nil:
		content = Text(m.Text())
	case m.Asset() != nil:
		content = Asset(m.Asset())
	case m.ImageAsset() != nil:
		content = ImageAsset(m.ImageAsset())
	case m.Location() != nil:
		content = &messages.Location{}
	default:
		return nil
	}
	return &messages.GenericMessage{MessageID: m.MessageID, Content: content}
}

// Text obfuscates the content, drops mentions and rebuilds link previews on
// top of the obfuscated content so offsets stay valid.
func Text(t *messages.Text) *messages.Text {
	content := String(t.Content)
	var previews []*messages.LinkPreview
	if len(t.LinkPreviews) > 0 {
		runes := []rune(content)
		offset := int(t.LinkPreviews[0].URLOffset)
		url := content
		if offset >= 0 && offset <= len(runes) {
			url = string(runes[offset:])
		}
		for _, lp := range t.LinkPreviews {
			previews = append(previews, LinkPreview(lp, url))
		}
	}
	return &messages.Text{Content: content, LinkPreviews: previews}
}

func LinkPreview(lp *messages.LinkPreview, url string) *messages.LinkPreview {
	obfuscated := &messages.LinkPreview{
		URL:          url,
		URLOffset:    lp.URLOffset,
		PermanentURL: String(lp.PermanentURL),
		Title:        String(lp.Title),
		Summary:      String(lp.Summary),
	}
	if lp.Image != nil {
		obfuscated.Image = Asset(lp.Image)
	}
	if lp.Tweet != nil {
		obfuscated.Tweet = &messages.Tweet{
			Author:   String(lp.Tweet.Author),
			Username: String(lp.Tweet.Username),
		}
	}
	return obfuscated
}

// Asset keeps the image geometry and the MIME type, the name is obfuscated
// and audio or video metadata is dropped. Remote data is never kept.
func Asset(a *messages.Asset) *messages.Asset {
	obfuscated := &messages.Asset{}
	if a.Original != nil {
		obfuscated.Original = &messages.AssetOriginal{
			MimeType: a.Original.MimeType,
			Size:     obfuscatedAssetSize,
			Name:     String(a.Original.Name),
			Image:    imageMetaData(a.Original.Image),
		}
	}
	if a.Preview != nil {
		obfuscated.Preview = &messages.AssetPreview{
			MimeType: a.Preview.MimeType,
			Size:     obfuscatedAssetSize,
			Image:    imageMetaData(a.Preview.Image),
		}
	}
	return obfuscated
}

func ImageAsset(i *messages.ImageAsset) *messages.ImageAsset {
	return &messages.ImageAsset{
		Tag:            i.Tag,
		Width:          i.Width,
		Height:         i.Height,
		OriginalWidth:  i.OriginalWidth,
		OriginalHeight: i.OriginalHeight,
		MimeType:       i.MimeType,
		Size:           obfuscatedImageSize,
	}
}

func imageMetaData(i *messages.ImageMetaData) *messages.ImageMetaData {
	if i == nil {
		return nil
	}
	return &messages.ImageMetaData{Width: i.Width, Height: i.Height, Tag: i.Tag}
}
