package registry

import (
	ethcommon "github.com/ethereum/go-ethereum/common"

	"github.com/xuperchain/ocnledger/kernel/engines/ocn/common"
)

const (
	ContractName = "Registry"

	Register          = "register"
	RegisterRaw       = "registerRaw"
	UpdateInfo        = "updateInfo"
	UpdateInfoRaw     = "updateInfoRaw"
	OverwriteInfo     = "overwriteInfo"
	OverwriteInfoRaw  = "overwriteInfoRaw"
	SetNodeAddress    = "setNodeAddress"
	SetNodeAddressRaw = "setNodeAddressRaw"
	Deregister        = "deregister"
	DeregisterRaw     = "deregisterRaw"
	AdminOverwrite    = "adminOverwrite"

	OwnerOf       = "ownerOf"
	URLOf         = "urlOf"
	NodeAddressOf = "nodeAddressOf"
	GetParty      = "getParty"
)

const prefixParty = "party/"

// PartyRecord 一个参与方的登记信息，Owner是唯一能修改和注销它的账户
type PartyRecord struct {
	Owner ethcommon.Address `json:"owner"`
	URL   string            `json:"url"`
	// 参与方使用的OCN节点运营地址，可以不设置
	NodeAddress ethcommon.Address `json:"nodeAddress"`
}

func keyOfParty(key common.PartyKey) []byte {
	return append([]byte(prefixParty), key.Bytes()...)
}
