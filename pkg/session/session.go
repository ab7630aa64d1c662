package session

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrInvalidToken    = errors.New("invalid session token")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptySecret     = errors.New("session secret is empty")
)

// Session: данные сессии. Values отдается копией, менять через Store.Set.
type Session struct {
	ID        string
	Values    map[string]any
	ExpiresAt time.Time
}

// Store хранит сессии в памяти с TTL, наружу отдает подписанный токен.
// Токен: HS256 JWT, jti которого указывает на запись в кеше.
type Store struct {
	cache  *gocache.Cache
	secret []byte
	ttl    time.Duration
	mu     sync.Mutex
}

func NewStore(secret string, ttl, cleanupInterval time.Duration) (*Store, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Store{
		cache:  gocache.New(ttl, cleanupInterval),
		secret: []byte(secret),
		ttl:    ttl,
	}, nil
}

// Create заводит сессию и возвращает токен для cookie
func (s *Store) Create(values map[string]any) (string, error) {
	id := uuid.NewString()
	expiresAt := time.Now().Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	if values == nil {
		values = map[string]any{}
	}
	s.cache.Set(id, &Session{ID: id, Values: maps.Clone(values), ExpiresAt: expiresAt}, s.ttl)
	return signed, nil
}

func (s *Store) Get(token string) (*Session, error) {
	id, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookup(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &Session{ID: sess.ID, Values: maps.Clone(sess.Values), ExpiresAt: sess.ExpiresAt}, nil
}

// Set меняет одно значение сессии, срок жизни не продлевается
func (s *Store) Set(token, key string, value any) error {
	id, err := s.parse(token)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	sess.Values[key] = value
	return nil
}

func (s *Store) Destroy(token string) error {
	id, err := s.parse(token)
	if err != nil {
		return err
	}
	s.cache.Delete(id)
	return nil
}

func (s *Store) lookup(id string) (*Session, bool) {
	x, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	sess, ok := x.(*Session)
	return sess, ok
}

func (s *Store) parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
