package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	selectorBytes = 8
	secretBytes   = 32
)

// ResetCredentials is a recovery selector and its secret token, both hex.
// The selector is stored in clear text; the token is never stored.
type ResetCredentials struct {
	Selector string
	Token    string
}

type Generator interface {
	ResetCredentials() (ResetCredentials, error)
}

type randomGenerator struct{}

func NewGenerator() Generator {
	return randomGenerator{}
}

func (randomGenerator) ResetCredentials() (ResetCredentials, error) {
	selector, err := randomHex(selectorBytes)
	if err != nil {
		return ResetCredentials{}, err
	}
	secret, err := randomHex(secretBytes)
	if err != nil {
		return ResetCredentials{}, err
	}
	return ResetCredentials{Selector: selector, Token: secret}, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
