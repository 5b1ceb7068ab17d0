// Package signaling is a small mailbox that lets two browsers of the same
// vault exchange WebRTC offers, answers and ICE candidates.
//
// Sessions live in memory only. They expire after an idle TTL and both the
// number of sessions and the messages per session are bounded.
package signaling

import (
	"encoding/json"
	"regexp"
	"sync"
	"time"

	"github.com/dmitrijs2005/storjvault/internal/common"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultTTL         = 10 * time.Minute
	DefaultMaxSessions = 1024
	DefaultMaxMessages = 256
	MaxPayloadBytes    = 64 << 10
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

var kinds = map[string]struct{}{"offer": {}, "answer": {}, "candidate": {}}

// Message is one signaling envelope. Seq starts at 1 within a session.
type Message struct {
	Seq     int64           `json:"seq"`
	Kind    string          `json:"kind"`
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
	At      time.Time       `json:"at"`
}

type session struct {
	messages []Message
	next     int64
}

type Relay struct {
	mu          sync.Mutex
	sessions    *cache.Cache
	ttl         time.Duration
	maxSessions int
	maxMessages int
	now         func() time.Time
}

func NewRelay(ttl time.Duration, maxSessions, maxMessages int) *Relay {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	return &Relay{
		sessions:    cache.New(ttl, ttl/2),
		ttl:         ttl,
		maxSessions: maxSessions,
		maxMessages: maxMessages,
		now:         time.Now,
	}
}

// NewSessionID returns a random id suitable for Post.
func NewSessionID() string {
	return uuid.NewString()
}

func sessionKey(vault, id string) (string, error) {
	if !sessionIDPattern.MatchString(id) {
		return "", common.Errorf(common.ErrorValidation, "Invalid signaling session id")
	}
	return vault + "/" + id, nil
}

// Post appends a message to the session, creating it on first use, and
// resets its idle timer.
func (r *Relay) Post(vault, id, kind, from string, payload json.RawMessage) (*Message, error) {
	key, err := sessionKey(vault, id)
	if err != nil {
		return nil, err
	}
	if _, ok := kinds[kind]; !ok {
		return nil, common.Errorf(common.ErrorValidation, "Kind must be one of offer, answer, candidate")
	}
	if len(payload) > MaxPayloadBytes {
		return nil, common.Errorf(common.ErrorTooLarge, "Signaling payload exceeds %d bytes", MaxPayloadBytes)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var s *session
	if v, ok := r.sessions.Get(key); ok {
		s = v.(*session)
	} else {
		if r.sessions.ItemCount() >= r.maxSessions {
			r.sessions.DeleteExpired()
			if r.sessions.ItemCount() >= r.maxSessions {
				return nil, common.Errorf(common.ErrorLimitExceeded, "Too many open signaling sessions")
			}
		}
		s = &session{}
	}
	if len(s.messages) >= r.maxMessages {
		return nil, common.Errorf(common.ErrorLimitExceeded, "Signaling session is full")
	}

	s.next++
	m := Message{Seq: s.next, Kind: kind, From: from, Payload: payload, At: r.now().UTC()}
	s.messages = append(s.messages, m)
	r.sessions.Set(key, s, r.ttl)
	return &m, nil
}

// Messages returns the messages with a sequence above after. An unknown or
// expired session has no messages. Polling keeps a session alive.
func (r *Relay) Messages(vault, id string, after int64) ([]Message, error) {
	key, err := sessionKey(vault, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.sessions.Get(key)
	if !ok {
		return []Message{}, nil
	}
	s := v.(*session)
	r.sessions.Set(key, s, r.ttl)
	out := []Message{}
	for _, m := range s.messages {
		if m.Seq > after {
			out = append(out, m)
		}
	}
	return out, nil
}

// Close drops the session.
func (r *Relay) Close(vault, id string) error {
	key, err := sessionKey(vault, id)
	if err != nil {
		return err
	}
	r.sessions.Delete(key)
	return nil
}

// Sessions is the number of live sessions, expired ones included until the
// next cleanup.
func (r *Relay) Sessions() int {
	return r.sessions.ItemCount()
}
