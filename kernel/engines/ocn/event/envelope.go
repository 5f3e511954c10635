package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/xuperchain/ocnledger/kernel/contract"
)

// Envelope 已提交的事件，Seq在进程内单调递增
type Envelope struct {
	Seq       uint64          `json:"seq"`
	ID        string          `json:"id"`
	Contract  string          `json:"contract"`
	Name      string          `json:"name"`
	Body      json.RawMessage `json:"body"`
	Timestamp int64           `json:"timestamp"`
}

func newEnvelope(seq uint64, e *contract.Event) *Envelope {
	return &Envelope{
		Seq:       seq,
		ID:        uuid.NewString(),
		Contract:  e.Contract,
		Name:      e.Name,
		Body:      json.RawMessage(e.Body),
		Timestamp: time.Now().UnixNano(),
	}
}

// Decode 解析事件内容到payload
func (e *Envelope) Decode(payload interface{}) error {
	return json.Unmarshal(e.Body, payload)
}
