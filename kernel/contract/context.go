package contract

const (
	// StatusOK is used when contract successfully ends.
	StatusOK = 200
	// StatusErrorThreshold is the status dividing line for the normal operation of the contract
	StatusErrorThreshold = 400
	// StatusError is used when contract fails.
	StatusError = 500
)

// Response is the result of the contract run
type Response struct {
	// Status 用于反映合约的运行结果的错误码
	Status int `json:"status"`
	// Message 用于携带一些有用的debug信息
	Message string `json:"message"`
	// Body 字段用于存储合约执行的结果
	Body []byte `json:"body"`
}

// Event is a notification emitted by a contract method
type Event struct {
	Contract string `json:"contract"`
	Name     string `json:"name"`
	Body     []byte `json:"body"`
}
