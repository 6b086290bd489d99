package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
)

const (
	userKeyPrefix    = "pp:user:"    // by user id
	userIdxKeyPrefix = "pp:useridx:" // email/phone -> user id
	usersSetKey      = "pp:users"
	sessionKeyPrefix = "pp:session:"
	otpKeyPrefix     = "pp:otp:"
)

// RedisStore implements the user, session and OTP stores on one Redis
// client. Sessions and OTP codes expire via key TTLs.
type RedisStore struct {
	client *redis.Client
}

// storedUser carries the password hash, which the domain model deliberately
// excludes from JSON.
type storedUser struct {
	models.User
	PasswordHash string `json:"passwordHash"`
}

func toStored(u models.User) storedUser {
	return storedUser{User: u, PasswordHash: u.PasswordHash}
}

func (su storedUser) toModel() models.User {
	u := su.User
	u.PasswordHash = su.PasswordHash
	return u
}

// NewRedisStore connects and pings the Redis instance.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

// --- UserStore ---

func (s *RedisStore) Add(ctx context.Context, u models.User) error {
	b, err := json.Marshal(toStored(u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKeyPrefix+u.ID, b, 0)
	pipe.Set(ctx, userIdxKeyPrefix+u.Email, u.ID, 0)
	pipe.Set(ctx, userIdxKeyPrefix+u.Phone, u.ID, 0)
	pipe.SAdd(ctx, usersSetKey, u.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Update(ctx context.Context, u models.User) error {
	b, err := json.Marshal(toStored(u))
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.client.Set(ctx, userKeyPrefix+u.ID, b, 0).Err()
}

func (s *RedisStore) FindByID(ctx context.Context, id string) (models.User, error) {
	return s.loadUser(ctx, id)
}

func (s *RedisStore) FindByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	id, err := s.client.Get(ctx, userIdxKeyPrefix+identifier).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.User{}, drepo.ErrNotFound
		}
		return models.User{}, err
	}
	return s.loadUser(ctx, id)
}

func (s *RedisStore) List(ctx context.Context) ([]models.User, error) {
	ids, err := s.client.SMembers(ctx, usersSetKey).Result()
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.loadUser(ctx, id)
		if err != nil {
			if errors.Is(err, drepo.ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *RedisStore) loadUser(ctx context.Context, id string) (models.User, error) {
	b, err := s.client.Get(ctx, userKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.User{}, drepo.ErrNotFound
		}
		return models.User{}, err
	}
	var su storedUser
	if err := json.Unmarshal(b, &su); err != nil {
		return models.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return su.toModel(), nil
}

// --- SessionStore ---

func (s *RedisStore) Get(ctx context.Context, token string) (models.Session, error) {
	b, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, drepo.ErrNotFound
		}
		return models.Session{}, err
	}
	var sess models.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return models.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) Put(ctx context.Context, sess models.Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionKeyPrefix+sess.Token, b, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

// --- OTP store (separate view so the interfaces stay narrow) ---

// OTPView exposes the RedisStore as an OTPStore.
type OTPView struct{ *RedisStore }

func (s *RedisStore) OTP() OTPView { return OTPView{s} }

func (v OTPView) Put(ctx context.Context, token, code string, ttl time.Duration) error {
	return v.client.Set(ctx, otpKeyPrefix+token, code, ttl).Err()
}

func (v OTPView) Get(ctx context.Context, token string) (string, error) {
	code, err := v.client.Get(ctx, otpKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", drepo.ErrNotFound
		}
		return "", err
	}
	return code, nil
}

func (v OTPView) Delete(ctx context.Context, token string) error {
	return v.client.Del(ctx, otpKeyPrefix+token).Err()
}

var (
	_ drepo.UserStore    = (*RedisStore)(nil)
	_ drepo.SessionStore = (*RedisStore)(nil)
	_ drepo.OTPStore     = OTPView{}
)
