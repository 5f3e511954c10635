package common

import (
	"fmt"
)

const (
	CountryCodeLen = 2
	PartyIDLen     = 3
)

// PartyKey 由国家码和参与方id组成，按字节比较，不做大小写归一化
type PartyKey struct {
	CountryCode [CountryCodeLen]byte
	PartyID     [PartyIDLen]byte
}

func NewPartyKey(countryCode, partyID []byte) (PartyKey, error) {
	var key PartyKey
	if len(countryCode) != CountryCodeLen {
		return key, InvalidArgf("country code must be %d bytes, got %d", CountryCodeLen, len(countryCode))
	}
	if len(partyID) != PartyIDLen {
		return key, InvalidArgf("party id must be %d bytes, got %d", PartyIDLen, len(partyID))
	}
	copy(key.CountryCode[:], countryCode)
	copy(key.PartyID[:], partyID)
	return key, nil
}

// MustPartyKey is NewPartyKey for constant keys, panics on bad length
func MustPartyKey(countryCode, partyID string) PartyKey {
	key, err := NewPartyKey([]byte(countryCode), []byte(partyID))
	if err != nil {
		panic(err)
	}
	return key
}

// Bytes return countryCode ∥ partyID
func (k PartyKey) Bytes() []byte {
	b := make([]byte, 0, CountryCodeLen+PartyIDLen)
	b = append(b, k.CountryCode[:]...)
	return append(b, k.PartyID[:]...)
}

func (k PartyKey) String() string {
	return fmt.Sprintf("%s/%s", k.CountryCode[:], k.PartyID[:])
}
