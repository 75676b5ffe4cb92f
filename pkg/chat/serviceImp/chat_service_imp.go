package serviceImp

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"micampo/entities"
	"micampo/pkg/ai"
	"micampo/pkg/chat/service"
	"micampo/pkg/metrics"
)

type chatSvc struct {
	client ai.Client
	src    ai.SnapshotSource
	mode   string
	log    *zap.Logger
	m      *metrics.Metrics
	now    func() time.Time

	mu       sync.Mutex
	messages []entities.ChatMessage
	inflight int
	lastErr  string
	gen      uint64 // bumped by Clear
}

// NewChatService wires the completion client. mode labels replies in
// metrics ("api" or "rules").
func NewChatService(c ai.Client, src ai.SnapshotSource, mode string, log *zap.Logger, m *metrics.Metrics) service.ChatService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &chatSvc{client: c, src: src, mode: mode, log: log.Named("chat"), m: m, now: time.Now}
	s.messages = []entities.ChatMessage{s.msg(entities.RoleAssistant, service.WelcomeMessage)}
	return s
}

func (s *chatSvc) msg(role entities.ChatRole, content string) entities.ChatMessage {
	return entities.ChatMessage{Role: role, Content: content, Timestamp: s.now()}
}

func (s *chatSvc) State() entities.ChatState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return entities.ChatState{
		Messages: append([]entities.ChatMessage(nil), s.messages...),
		Loading:  s.inflight > 0,
		Error:    s.lastErr,
	}
}

func (s *chatSvc) Send(ctx context.Context, text string) (entities.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return entities.ChatMessage{}, service.ErrEmptyMessage
	}

	s.mu.Lock()
	s.messages = append(s.messages, s.msg(entities.RoleUser, text))
	transcript := append([]entities.ChatMessage(nil), s.messages...)
	s.inflight++
	gen := s.gen
	s.mu.Unlock()

	reply, err := s.client.Complete(ctx, ai.BuildMessages(s.src.Snapshot(), transcript))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight--
	if gen != s.gen {
		s.log.Debug("dropping reply for cleared transcript")
		return entities.ChatMessage{}, service.ErrSuperseded
	}
	if err != nil {
		s.log.Warn("completion failed", zap.Error(err))
		s.lastErr = err.Error()
		out := s.msg(entities.RoleAssistant, service.ApologyMessage)
		s.messages = append(s.messages, out)
		s.m.ChatReply("error")
		return out, err
	}
	s.lastErr = ""
	out := s.msg(entities.RoleAssistant, reply)
	s.messages = append(s.messages, out)
	s.m.ChatReply(s.mode)
	return out, nil
}

func (s *chatSvc) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = []entities.ChatMessage{s.msg(entities.RoleAssistant, service.ClearedMessage)}
	s.lastErr = ""
	s.gen++
}
