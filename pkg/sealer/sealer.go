package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultKey = "Qm9vazVsb3RPZmZlclRva2VuS2V5MzJCeXRlc0xvbmc="

func sealKey() string {
	if k := os.Getenv("OFFER_TOKEN_KEY"); k != "" {
		return k
	}
	return defaultKey
}

// SealOffer encodes a doctor/slot pair into an opaque token embedded in
// waitlist offer notifications, so the link a patient follows cannot be
// tampered with to claim a different slot.
func SealOffer(doctorID string, startsAt time.Time) (string, error) {
	plaintext := []byte(doctorID + ":" + strconv.FormatInt(startsAt.Unix(), 10))

	key, err := base64.StdEncoding.DecodeString(sealKey())
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := aesgcm.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// OpenOffer decodes a token produced by SealOffer back into the doctor ID
// and slot start time.
func OpenOffer(token string) (string, time.Time, error) {
	key, err := base64.StdEncoding.DecodeString(sealKey())
	if err != nil {
		return "", time.Time{}, err
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", time.Time{}, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", time.Time{}, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", time.Time{}, err
	}

	if len(data) < aesgcm.NonceSize() {
		return "", time.Time{}, fmt.Errorf("token too short")
	}

	nonce, ct := data[:aesgcm.NonceSize()], data[aesgcm.NonceSize():]
	plaintext, err := aesgcm.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid offer token: %w", err)
	}

	doctorID, unixStr, found := strings.Cut(string(plaintext), ":")
	if !found || doctorID == "" {
		return "", time.Time{}, fmt.Errorf("malformed offer token payload")
	}

	unix, err := strconv.ParseInt(unixStr, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("malformed offer token timestamp: %w", err)
	}

	return doctorID, time.Unix(unix, 0).UTC(), nil
}
