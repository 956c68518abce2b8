package sessions

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	hkdfInfoSession = "otr-lab-session"
	hkdfInfoAEAD    = "otr-lab-aead"
)

func deriveChains(secret []byte) ([32]byte, [32]byte, error) {
	hk := hkdf.New(sha256.New, secret, nil, []byte(hkdfInfoSession))
	var first, second [32]byte
	if _, err := io.ReadFull(hk, first[:]); err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	if _, err := io.ReadFull(hk, second[:]); err != nil {
		return [32]byte{}, [32]byte{}, err
	}
	return first, second, nil
}

// kdfChain returns the next chain key and the message key.
func kdfChain(chain [32]byte) ([32]byte, [32]byte) {
	var next, msg [32]byte
	copy(next[:], hmacSHA256(chain[:], []byte{0x01}))
	copy(msg[:], hmacSHA256(chain[:], []byte{0x02}))
	return next, msg
}

func hmacSHA256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

func deriveCipherParams(mk [32]byte) ([32]byte, [12]byte, error) {
	hk := hkdf.New(sha256.New, mk[:], nil, []byte(hkdfInfoAEAD))
	var key [32]byte
	var nonce [12]byte
	if _, err := io.ReadFull(hk, key[:]); err != nil {
		return [32]byte{}, [12]byte{}, err
	}
	if _, err := io.ReadFull(hk, nonce[:]); err != nil {
		return [32]byte{}, [12]byte{}, err
	}
	return key, nonce, nil
}

func seal(mk [32]byte, header, plaintext []byte) ([]byte, error) {
	key, nonce, err := deriveCipherParams(mk)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce[:], plaintext, header), nil
}

func openSealed(mk [32]byte, header, ciphertext []byte) ([]byte, error) {
	key, nonce, err := deriveCipherParams(mk)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce[:], ciphertext, header)
}
