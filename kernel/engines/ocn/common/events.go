package common

import (
	"encoding/json"

	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/xuperchain/ocnledger/kernel/contract"
)

const (
	EventOwnershipChanged = "OwnershipChanged"
	EventRecordChanged    = "RecordChanged"
	EventRecordRemoved    = "RecordRemoved"
	EventAppUpdated       = "AppUpdated"
	EventAgreementFormed  = "AgreementFormed"
)

type OwnershipChanged struct {
	Previous ethcommon.Address `json:"previous"`
	New      ethcommon.Address `json:"new"`
}

type RecordChanged struct {
	CountryCode string            `json:"countryCode"`
	PartyID     string            `json:"partyId"`
	Owner       ethcommon.Address `json:"owner"`
	URL         string            `json:"url"`
	NodeAddress ethcommon.Address `json:"nodeAddress"`
}

type RecordRemoved struct {
	CountryCode   string            `json:"countryCode"`
	PartyID       string            `json:"partyId"`
	PreviousOwner ethcommon.Address `json:"previousOwner"`
}

type AppUpdated struct {
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	Permissions []uint64          `json:"permissions"`
	Provider    ethcommon.Address `json:"provider"`
}

type AgreementFormed struct {
	User     ethcommon.Address `json:"user"`
	Provider ethcommon.Address `json:"provider"`
}

// NewEvent 以json编码事件内容
func NewEvent(contractName, name string, payload interface{}) (*contract.Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &contract.Event{
		Contract: contractName,
		Name:     name,
		Body:     body,
	}, nil
}
