package metrics

import (
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	Namespace = "ocnledger"

	SubsystemContract = "contract"
	SubsystemState    = "state"
	SubsystemEvent    = "event"
	SubsystemSigAuth  = "sigauth"

	LabelContractName   = "contract_name"
	LabelContractMethod = "contract_method"
	LabelContractCode   = "contract_code"

	LabelEventName = "event"
	LabelSinkName  = "sink"
	LabelResult    = "result"
)

// contract
var (
	ContractInvokeCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemContract,
			Name:      "invoke_total",
			Help:      "Total number of contract invocations.",
		},
		[]string{LabelContractName, LabelContractMethod, LabelContractCode})
	ContractInvokeHistogram = prom.NewHistogramVec(
		prom.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemContract,
			Name:      "invoke_seconds",
			Help:      "Histogram of contract invocation latency.",
			Buckets:   prom.DefBuckets,
		},
		[]string{LabelContractName, LabelContractMethod})
)

// state
var (
	StateCommitCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemState,
			Name:      "commit_total",
			Help:      "Total number of state write set commits.",
		},
		[]string{LabelResult})
	StateWriteKeysHistogram = prom.NewHistogram(
		prom.HistogramOpts{
			Namespace: Namespace,
			Subsystem: SubsystemState,
			Name:      "write_keys",
			Help:      "Histogram of keys written per commit.",
			Buckets:   prom.LinearBuckets(1, 2, 8),
		})
)

// event
var (
	EventEmitCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemEvent,
			Name:      "emit_total",
			Help:      "Total number of emitted events.",
		},
		[]string{LabelEventName})
	EventSinkErrorCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemEvent,
			Name:      "sink_error_total",
			Help:      "Total number of event sink delivery failures.",
		},
		[]string{LabelSinkName})
)

// sigauth
var (
	SigRecoverCounter = prom.NewCounterVec(
		prom.CounterOpts{
			Namespace: Namespace,
			Subsystem: SubsystemSigAuth,
			Name:      "recover_total",
			Help:      "Total number of signature recoveries.",
		},
		[]string{LabelResult})
)

var registerOnce sync.Once

// RegisterMetrics 注册到prometheus默认registry，重复调用无副作用
func RegisterMetrics() {
	registerOnce.Do(func() {
		// contract
		prom.MustRegister(ContractInvokeCounter)
		prom.MustRegister(ContractInvokeHistogram)
		// state
		prom.MustRegister(StateCommitCounter)
		prom.MustRegister(StateWriteKeysHistogram)
		// event
		prom.MustRegister(EventEmitCounter)
		prom.MustRegister(EventSinkErrorCounter)
		// sigauth
		prom.MustRegister(SigRecoverCounter)
	})
}
