package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL es la ventana de expiración deslizante por defecto.
const DefaultSessionTTL = 72 * time.Hour

// SessionStore asocia un token opaco con un principal por un tiempo acotado.
// Validar o extender una sesión corre la expiración hacia adelante; una
// sesión inactiva más de un TTL deja de existir.
type SessionStore interface {
	// Create devuelve el token de sesión del principal. Si ya existe una
	// sesión viva devuelve el mismo token en lugar de emitir un duplicado.
	Create(ctx context.Context, principalID string) (string, error)
	// Validate devuelve el principal asociado o ErrNotFound si el token
	// no existe o expiró.
	Validate(ctx context.Context, token string) (string, error)
	// Extend corre la expiración a ahora+TTL, o ErrNotFound bajo la misma
	// condición que Validate.
	Extend(ctx context.Context, token string) error
	// Remove borra la sesión; borrar un token ausente no es error.
	Remove(ctx context.Context, token string) error
}

type redisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore crea un SessionStore respaldado por redis.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) SessionStore {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &redisSessionStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

// El token deriva del principal, así dos logins concurrentes del mismo
// usuario resuelven al mismo token y SETNX garantiza a lo sumo un registro.
func (s *redisSessionStore) Create(ctx context.Context, principalID string) (string, error) {
	if strings.TrimSpace(principalID) == "" {
		return "", ErrNotFound
	}
	token := principalID
	if _, err := s.client.SetNX(ctx, s.prefix+token, principalID, s.ttl).Result(); err != nil {
		return "", storeErr(err)
	}
	return token, nil
}

func (s *redisSessionStore) Validate(ctx context.Context, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", ErrNotFound
	}
	principalID, err := s.client.Get(ctx, s.prefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", storeErr(err)
	}
	return principalID, nil
}

func (s *redisSessionStore) Extend(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrNotFound
	}
	ok, err := s.client.Expire(ctx, s.prefix+token, s.ttl).Result()
	if err != nil {
		return storeErr(err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *redisSessionStore) Remove(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return storeErr(err)
	}
	return nil
}

func storeErr(err error) error {
	return errors.Join(ErrUnavailable, err)
}

type memorySession struct {
	principalID string
	expiresAt   time.Time
}

type memorySessionStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memorySession
}

// NewMemorySessionStore crea un SessionStore en memoria para tests y
// desarrollo sin redis.
func NewMemorySessionStore(ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &memorySessionStore{
		ttl:   ttl,
		now:   func() time.Time { return time.Now().UTC() },
		items: make(map[string]memorySession),
	}
}

func (s *memorySessionStore) Create(_ context.Context, principalID string) (string, error) {
	if strings.TrimSpace(principalID) == "" {
		return "", ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	token := principalID
	if sess, ok := s.items[token]; ok && s.now().Before(sess.expiresAt) {
		return token, nil
	}
	s.items[token] = memorySession{
		principalID: principalID,
		expiresAt:   s.now().Add(s.ttl),
	}
	return token, nil
}

func (s *memorySessionStore) Validate(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[token]
	if !ok {
		return "", ErrNotFound
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.items, token)
		return "", ErrNotFound
	}
	return sess.principalID, nil
}

func (s *memorySessionStore) Extend(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[token]
	if !ok {
		return ErrNotFound
	}
	if !s.now().Before(sess.expiresAt) {
		delete(s.items, token)
		return ErrNotFound
	}
	sess.expiresAt = s.now().Add(s.ttl)
	s.items[token] = sess
	return nil
}

func (s *memorySessionStore) Remove(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}
