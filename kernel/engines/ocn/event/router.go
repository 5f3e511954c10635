package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/gammazero/deque"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/xuperchain/ocnledger/kernel/contract"
	"github.com/xuperchain/ocnledger/lib/logs"
	"github.com/xuperchain/ocnledger/lib/metrics"
)

const (
	DefBacklogSize  = 1024
	DefSubscribeBuf = 64
)

// Sink 事件投递目标，同一个sink按Seq顺序收到事件
type Sink interface {
	Name() string
	Deliver(ctx context.Context, envs []*Envelope) error
}

// Router 给事件编号并分发到所有sink，保留最近的事件供后来的订阅者补齐
type Router struct {
	log logs.Logger

	mu          sync.Mutex
	seq         uint64
	backlog     deque.Deque
	backlogSize int
	sinks       []Sink
}

func NewRouter(backlogSize int, log logs.Logger) *Router {
	if backlogSize <= 0 {
		backlogSize = DefBacklogSize
	}
	return &Router{
		log:         log,
		backlogSize: backlogSize,
	}
}

func (r *Router) AddSink(sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, sink)
}

func (r *Router) removeSink(sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropSinkLocked(sink)
}

func (r *Router) dropSinkLocked(sink Sink) {
	for i, s := range r.sinks {
		if s == sink {
			r.sinks = append(r.sinks[:i], r.sinks[i+1:]...)
			return
		}
	}
}

// LastSeq 最近一个事件的编号，没有事件时为0
func (r *Router) LastSeq() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// Publish 按顺序编号事件并投递，sink失败不影响其他sink，也不影响已提交的状态
func (r *Router) Publish(ctx context.Context, events []*contract.Event) ([]*Envelope, error) {
	if len(events) == 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	envs := make([]*Envelope, 0, len(events))
	for _, e := range events {
		r.seq++
		env := newEnvelope(r.seq, e)
		envs = append(envs, env)

		r.backlog.PushBack(env)
		for r.backlog.Len() > r.backlogSize {
			r.backlog.PopFront()
		}
		metrics.EventEmitCounter.WithLabelValues(e.Name).Inc()
	}

	// 各sink独立投递，一个sink失败不会取消其他sink
	var (
		g        errgroup.Group
		lagMu    sync.Mutex
		laggards []Sink
	)
	for _, sink := range r.sinks {
		sink := sink
		g.Go(func() error {
			err := sink.Deliver(ctx, envs)
			if err == nil {
				return nil
			}
			if errors.Is(err, ErrSubscriberLagged) {
				lagMu.Lock()
				laggards = append(laggards, sink)
				lagMu.Unlock()
				return nil
			}
			metrics.EventSinkErrorCounter.WithLabelValues(sink.Name()).Inc()
			if r.log != nil {
				r.log.Warn("deliver events failed", "sink", sink.Name(),
					"firstSeq", envs[0].Seq, "count", len(envs), "err", err)
			}
			return fmt.Errorf("sink %s: %v", sink.Name(), err)
		})
	}
	err := g.Wait()

	for _, sink := range laggards {
		r.dropSinkLocked(sink)
		if r.log != nil {
			r.log.Warn("subscriber lagged, subscription closed", "lastSeq", r.seq)
		}
	}
	return envs, err
}

// Backlog 返回Seq大于afterSeq且仍在缓存中的事件
func (r *Router) Backlog(afterSeq uint64) []*Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backlogAfter(afterSeq)
}

func (r *Router) backlogAfter(afterSeq uint64) []*Envelope {
	var envs []*Envelope
	for i := 0; i < r.backlog.Len(); i++ {
		env := r.backlog.At(i).(*Envelope)
		if env.Seq > afterSeq {
			envs = append(envs, env)
		}
	}
	return envs
}

// Subscribe 先补齐afterSeq之后的缓存事件，再接收新事件，调用cancel结束订阅
// 投递从不等待订阅者，缓冲区满时订阅被关闭，订阅者可以用最后收到的Seq重新订阅补齐
func (r *Router) Subscribe(afterSeq uint64, bufSize int) (<-chan *Envelope, func()) {
	r.mu.Lock()
	replay := r.backlogAfter(afterSeq)
	if bufSize <= 0 {
		bufSize = DefSubscribeBuf
	}
	if bufSize < len(replay) {
		bufSize = len(replay)
	}
	sub := newChanSink(bufSize)
	for _, env := range replay {
		sub.ch <- env
	}
	r.sinks = append(r.sinks, sub)
	r.mu.Unlock()

	cancel := func() {
		sub.close()
		r.removeSink(sub)
	}
	return sub.ch, cancel
}
