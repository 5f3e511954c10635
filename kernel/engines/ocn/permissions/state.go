package permissions

import (
	"encoding/json"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/kernel/contract/sandbox"
	"github.com/xuperchain/ocnledger/lib/storage/kvdb"
)

var flagSet = []byte{1}

// getJSON 返回key是否存在
func getJSON(state contract.XMReader, key []byte, out interface{}) (bool, error) {
	value, err := state.Get(ContractName, key)
	if err != nil && !kvdb.ErrNotFound(err) && !errors.Is(err, sandbox.ErrHasDel) {
		return false, errors.Wrapf(err, "get %s failed", key)
	}
	if len(value) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(value, out); err != nil {
		return false, errors.Wrapf(err, "unmarshal %s failed", key)
	}
	return true, nil
}

func putJSON(state contract.XMState, key []byte, v interface{}) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := state.Put(ContractName, key, value); err != nil {
		return errors.Wrapf(err, "put %s failed", key)
	}
	return nil
}

func hasFlag(state contract.XMReader, key []byte) (bool, error) {
	value, err := state.Get(ContractName, key)
	if err != nil && !kvdb.ErrNotFound(err) && !errors.Is(err, sandbox.ErrHasDel) {
		return false, errors.Wrapf(err, "get %s failed", key)
	}
	return len(value) > 0, nil
}

func setFlag(state contract.XMState, key []byte) error {
	if err := state.Put(ContractName, key, flagSet); err != nil {
		return errors.Wrapf(err, "put %s failed", key)
	}
	return nil
}

func getAddresses(state contract.XMReader, key []byte) ([]ethcommon.Address, error) {
	addrs := []ethcommon.Address{}
	if _, err := getJSON(state, key, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

func appendAddress(state contract.StateSandbox, key []byte, addr ethcommon.Address) error {
	addrs, err := getAddresses(state, key)
	if err != nil {
		return err
	}
	return putJSON(state, key, append(addrs, addr))
}

// appendOnce 在flag未设置时追加到序列并设置flag
func appendOnce(state contract.StateSandbox, flagKey, seqKey []byte, addr ethcommon.Address) error {
	seen, err := hasFlag(state, flagKey)
	if err != nil || seen {
		return err
	}
	if err := appendAddress(state, seqKey, addr); err != nil {
		return err
	}
	return setFlag(state, flagKey)
}
