package ownership

const (
	ContractName = "Ownership"

	Owner             = "owner"
	IsOwner           = "isOwner"
	TransferOwnership = "transferOwnership"
	RenounceOwnership = "renounceOwnership"
)

// 存在即表示已初始化，值为20字节地址，放弃所有权后为全零
var keyOwner = []byte("owner")
