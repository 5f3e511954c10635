package permissions

import (
	ethcommon "github.com/ethereum/go-ethereum/common"
)

const (
	ContractName = "Permissions"

	SetApp             = "setApp"
	SetAppRaw          = "setAppRaw"
	CreateAgreement    = "createAgreement"
	CreateAgreementRaw = "createAgreementRaw"

	GetApp            = "getApp"
	GetProviders      = "getProviders"
	ProviderAt        = "providerAt"
	GetUserAgreements = "getUserAgreements"
	GetProviderUsers  = "getProviderUsers"
	GetUsers          = "getUsers"
)

// 状态key布局，序列以json数组保存，flag用于去重
const (
	prefixApp           = "app/"
	prefixProviderFlag  = "providerFlag/"
	prefixUserFlag      = "userFlag/"
	prefixAgreements    = "agreements/"
	prefixAgreementFlag = "agreementFlag/"
	prefixProviderUsers = "providerUsers/"

	keyProviders = "providers"
	keyUsers     = "users"
)

// AppRecord provider发布的应用描述，权限保持提交时的顺序
type AppRecord struct {
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Permissions []uint64 `json:"permissions"`
}

func keyOf(prefix string, ids ...ethcommon.Address) []byte {
	key := []byte(prefix)
	for _, id := range ids {
		key = append(key, id.Bytes()...)
	}
	return key
}
