package event

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/xuperchain/ocnledger/lib/logs"
)

// LogSink 每个事件输出一行结构化日志
type LogSink struct {
	log logs.Logger
}

func NewLogSink(log logs.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string {
	return "log"
}

func (s *LogSink) Deliver(_ context.Context, envs []*Envelope) error {
	for _, env := range envs {
		s.log.Info("event", "seq", env.Seq, "id", env.ID, "contract", env.Contract,
			"name", env.Name, "body", string(env.Body))
	}
	return nil
}

// Publisher *redis.Client实现了该接口
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink 把事件以json发布到redis频道
type RedisSink struct {
	client  Publisher
	channel string
	closer  func() error
}

func NewRedisSink(client Publisher, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

// DialRedisSink 根据redis url创建连接并检查可用性
func DialRedisSink(ctx context.Context, url, channel string) (*RedisSink, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url failed")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "redis ping failed")
	}

	sink := NewRedisSink(client, channel)
	sink.closer = client.Close
	return sink, nil
}

func (s *RedisSink) Name() string {
	return "redis"
}

func (s *RedisSink) Deliver(ctx context.Context, envs []*Envelope) error {
	for _, env := range envs {
		msg, err := json.Marshal(env)
		if err != nil {
			return err
		}
		if err := s.client.Publish(ctx, s.channel, msg).Err(); err != nil {
			return errors.Wrapf(err, "publish event %d failed", env.Seq)
		}
	}
	return nil
}

func (s *RedisSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// ErrSubscriberLagged 订阅者没有及时取走事件，缓冲区已满
var ErrSubscriberLagged = errors.New("subscriber lagged")

// chanSink 进程内订阅者，投递不阻塞，缓冲区满时关闭通道
type chanSink struct {
	mu        sync.Mutex
	ch        chan *Envelope
	done      chan struct{}
	closeOnce sync.Once
}

func newChanSink(bufSize int) *chanSink {
	return &chanSink{
		ch:   make(chan *Envelope, bufSize),
		done: make(chan struct{}),
	}
}

func (s *chanSink) Name() string {
	return "subscriber"
}

func (s *chanSink) Deliver(_ context.Context, envs []*Envelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, env := range envs {
		select {
		case <-s.done:
			return nil
		default:
		}
		select {
		case s.ch <- env:
		default:
			s.closeLocked()
			return ErrSubscriberLagged
		}
	}
	return nil
}

func (s *chanSink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *chanSink) closeLocked() {
	s.closeOnce.Do(func() {
		close(s.done)
		close(s.ch)
	})
}
