package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"PatternPulse/internal/domain/models"
	drepo "PatternPulse/internal/domain/repository"
	"PatternPulse/internal/services/market"
	xlogger "PatternPulse/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUser      = errors.New("account with this email or phone already exists")
	ErrInvalidPhone       = errors.New("phone number must have at least 10 digits")
	ErrInvalidOTP         = errors.New("invalid verification code")
	ErrNotVerified        = errors.New("whatsapp number not verified")
)

var nonDigits = regexp.MustCompile(`\D`)

// AuthService implements signup, login, sessions and the WhatsApp OTP
// verification flow over injected stores.
type AuthService struct {
	users    drepo.UserStore
	sessions drepo.SessionStore
	otps     drepo.OTPStore
	sender   drepo.WhatsAppSender
	src      market.Source
	logger   *xlogger.Logger

	sessionTTL time.Duration
	otpTTL     time.Duration
}

func NewAuthService(
	users drepo.UserStore,
	sessions drepo.SessionStore,
	otps drepo.OTPStore,
	sender drepo.WhatsAppSender,
	src market.Source,
	logger *xlogger.Logger,
	sessionTTL, otpTTL time.Duration,
) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		otps:       otps,
		sender:     sender,
		src:        src,
		logger:     logger,
		sessionTTL: sessionTTL,
		otpTTL:     otpTTL,
	}
}

// Signup registers a new account and logs it in.
func (a *AuthService) Signup(ctx context.Context, req models.SignupRequest) (models.Session, error) {
	phone := nonDigits.ReplaceAllString(req.Phone, "")
	if len(phone) < 10 {
		return models.Session{}, ErrInvalidPhone
	}

	for _, id := range []string{req.Email, phone} {
		if _, err := a.users.FindByIdentifier(ctx, id); err == nil {
			return models.Session{}, ErrDuplicateUser
		} else if !errors.Is(err, drepo.ErrNotFound) {
			return models.Session{}, fmt.Errorf("lookup user: %w", err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Session{}, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	if err := a.users.Add(ctx, u); err != nil {
		return models.Session{}, fmt.Errorf("add user: %w", err)
	}

	a.logger.Info("user registered", xlogger.String("user_id", u.ID))
	return a.createSession(ctx, u)
}

// Login authenticates by email or phone. The hardcoded admin/admin pair
// short-circuits the store, matching the original demo behavior.
func (a *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.Session, error) {
	if req.Identifier == "admin" && req.Password == "admin" {
		return a.createSession(ctx, models.User{ID: "admin", Role: "admin"})
	}

	u, err := a.users.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return models.Session{}, ErrInvalidCredentials
		}
		return models.Session{}, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return models.Session{}, ErrInvalidCredentials
	}
	return a.createSession(ctx, u)
}

// Logout deletes the session.
func (a *AuthService) Logout(ctx context.Context, token string) error {
	return a.sessions.Delete(ctx, token)
}

// Session resolves a bearer token.
func (a *AuthService) Session(ctx context.Context, token string) (models.Session, error) {
	return a.sessions.Get(ctx, token)
}

// RequestOTP draws a fresh 4-digit code, stores it with a TTL keyed by the
// session, and hands it to the WhatsApp sender.
func (a *AuthService) RequestOTP(ctx context.Context, sess models.Session) error {
	code := fmt.Sprintf("%04d", a.src.Intn(10000))
	if err := a.otps.Put(ctx, sess.Token, code, a.otpTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if err := a.sender.SendOTP(ctx, sess.Phone, code); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	a.logger.Info("otp requested", xlogger.String("user_id", sess.UserID))
	return nil
}

// VerifyOTP checks the code and marks both the session and the user record
// as WhatsApp-verified.
func (a *AuthService) VerifyOTP(ctx context.Context, sess models.Session, code string) (models.Session, error) {
	stored, err := a.otps.Get(ctx, sess.Token)
	if err != nil {
		if errors.Is(err, drepo.ErrNotFound) {
			return models.Session{}, ErrInvalidOTP
		}
		return models.Session{}, fmt.Errorf("load otp: %w", err)
	}
	if stored != code {
		return models.Session{}, ErrInvalidOTP
	}
	_ = a.otps.Delete(ctx, sess.Token)

	sess.WhatsAppVerified = true
	if err := a.sessions.Put(ctx, sess, a.sessionTTL); err != nil {
		return models.Session{}, fmt.Errorf("update session: %w", err)
	}

	if u, err := a.users.FindByID(ctx, sess.UserID); err == nil {
		u.WhatsAppVerified = true
		if err := a.users.Update(ctx, u); err != nil {
			a.logger.Warn("persist verification flag", xlogger.Error(err))
		}
	}

	a.logger.Info("whatsapp verified", xlogger.String("user_id", sess.UserID))
	return sess, nil
}

func (a *AuthService) createSession(ctx context.Context, u models.User) (models.Session, error) {
	sess := models.Session{
		Token:            uuid.NewString(),
		UserID:           u.ID,
		Role:             u.Role,
		Phone:            u.Phone,
		WhatsAppVerified: u.WhatsAppVerified,
		CreatedAt:        time.Now(),
	}
	if err := a.sessions.Put(ctx, sess, a.sessionTTL); err != nil {
		return models.Session{}, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}
