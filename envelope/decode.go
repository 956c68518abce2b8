package envelope

import (
	"fmt"

	"otr-lab/errors"
	"otr-lab/external"
	"otr-lab/proto/messages"
)

// Decode turns the decrypted payload of a device into the message it carries,
// opening the external blob when the payload only references it.
// A blob that fails its checksum drops the message.
func Decode(plaintext []byte, blob []byte) (*messages.GenericMessage, error) {
	msg, err := messages.Unmarshal(plaintext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrMalformedData, err)
	}
	ext := msg.External()
	if ext == nil {
		return msg, nil
	}
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: external message without blob", errors.ErrMalformedData)
	}
	inner, err := external.DecryptMessage(blob, ext)
	if err != nil {
		return nil, err
	}
	return inner, nil
}
