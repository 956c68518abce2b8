// Package external encrypts message payloads too large to be sent inline.
// The payload travels as a separate blob, each recipient only receives the
// key and checksum of that blob.
package external

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"otr-lab/errors"
	"otr-lab/proto/messages"
)

const keySize = 32

var randReader io.Reader = rand.Reader

// KeyWithChecksum is what a recipient needs to open an external blob.
type KeyWithChecksum struct {
	AESKey []byte
	SHA256 []byte
}

type EncryptedDataWithKeys struct {
	Data []byte
	Keys KeyWithChecksum
}

// Encrypt serializes the message and encrypts it with a fresh key.
func Encrypt(message *messages.GenericMessage) (EncryptedDataWithKeys, error) {
	return EncryptData(message.Marshal())
}

func EncryptData(plaintext []byte) (EncryptedDataWithKeys, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(randReader, key); err != nil {
		return EncryptedDataWithKeys{}, fmt.Errorf("generate key: %w", err)
	}
	data, err := encryptPrefixingIV(key, plaintext)
	if err != nil {
		return EncryptedDataWithKeys{}, err
	}
	digest := sha256.Sum256(data)
	return EncryptedDataWithKeys{
		Data: data,
		Keys: KeyWithChecksum{AESKey: key, SHA256: digest[:]},
	}, nil
}

// ExternalMessage wraps the keys into the message every recipient gets.
func ExternalMessage(nonce string, keys KeyWithChecksum) *messages.GenericMessage {
	return &messages.GenericMessage{
		MessageID: nonce,
		Content:   &messages.External{OtrKey: keys.AESKey, Sha256: keys.SHA256},
	}
}

// Decrypt verifies the checksum of data before decrypting it.
func Decrypt(data []byte, keys KeyWithChecksum) ([]byte, error) {
	digest := sha256.Sum256(data)
	if !bytes.Equal(digest[:], keys.SHA256) {
		return nil, errors.ErrChecksumMismatch
	}
	return decryptPrefixedIV(keys.AESKey, data)
}

// DecryptMessage opens the blob referenced by ext and decodes the inner message.
func DecryptMessage(data []byte, ext *messages.External) (*messages.GenericMessage, error) {
	plaintext, err := Decrypt(data, KeyWithChecksum{AESKey: ext.OtrKey, SHA256: ext.Sha256})
	if err != nil {
		return nil, err
	}
	return messages.Unmarshal(plaintext)
}

func encryptPrefixingIV(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidKey, err)
	}
	padded := pad(plaintext, aes.BlockSize)
	out := make([]byte, aes.BlockSize+len(padded))
	iv := out[:aes.BlockSize]
	if _, err := io.ReadFull(randReader, iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[aes.BlockSize:], padded)
	return out, nil
}

func decryptPrefixedIV(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidKey, err)
	}
	if len(data) < 2*aes.BlockSize || len(data)%aes.BlockSize != 0 {
		return nil, errors.ErrMalformedData
	}
	iv, body := data[:aes.BlockSize], data[aes.BlockSize:]
	plaintext := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)
	return unpad(plaintext, aes.BlockSize)
}

// PKCS#7
func pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(append([]byte(nil), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.ErrMalformedData
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errors.ErrMalformedData
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.ErrMalformedData
		}
	}
	return b[:len(b)-n], nil
}
