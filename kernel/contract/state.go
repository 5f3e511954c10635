package contract

// XMReader 已提交状态的只读接口，sandbox在其之上缓存写集
type XMReader interface {
	Get(bucket string, key []byte) ([]byte, error)
}

// XMState 合约可见的状态读写接口
type XMState interface {
	XMReader
	Put(bucket string, key, value []byte) error
	Del(bucket string, key []byte) error
}

// StateSandbox 在沙盒环境里面执行状态修改操作，最终生成写集
type StateSandbox interface {
	XMState
	RWSet() *RWSet
}

type PureData struct {
	Bucket string
	Key    []byte
	// Value为nil表示删除
	Value []byte
}

// IsDelete reports whether the write removes the key
func (p *PureData) IsDelete() bool {
	return p.Value == nil
}

type RWSet struct {
	WSet []*PureData
}
