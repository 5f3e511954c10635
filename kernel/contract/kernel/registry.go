package kernel

import (
	"fmt"
	"sync"

	"github.com/xuperchain/ocnledger/kernel/contract"
)

type registryImpl struct {
	mutex   sync.RWMutex
	methods map[string]map[string]contract.KernMethod
}

// NewRegistry 每个引擎实例持有独立的原生合约方法表
func NewRegistry() contract.KernRegistry {
	return &registryImpl{
		methods: make(map[string]map[string]contract.KernMethod),
	}
}

func (r *registryImpl) RegisterKernMethod(contractName, method string, handler contract.KernMethod) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	contractMap, ok := r.methods[contractName]
	if !ok {
		contractMap = make(map[string]contract.KernMethod)
		r.methods[contractName] = contractMap
	}
	if _, ok = contractMap[method]; ok {
		panic(fmt.Sprintf("kernel method %s for %s exists", method, contractName))
	}
	contractMap[method] = handler
}

func (r *registryImpl) GetKernMethod(contractName, method string) (contract.KernMethod, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	contractMap, ok := r.methods[contractName]
	if !ok {
		return nil, fmt.Errorf("kernel contract %s not found", contractName)
	}
	contractMethod, ok := contractMap[method]
	if !ok {
		return nil, fmt.Errorf("kernel method %s for %s not found", method, contractName)
	}
	return contractMethod, nil
}
