package user

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/zjoart/instantpay-wallet/internal/apperr"
	"github.com/zjoart/instantpay-wallet/internal/notification"
	"github.com/zjoart/instantpay-wallet/pkg/config"
	"github.com/zjoart/instantpay-wallet/pkg/logger"
	"github.com/zjoart/instantpay-wallet/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	referralCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	referralCodeLength   = 6
)

// Referrals is the part of the referral engine that signup drives.
type Referrals interface {
	Enroll(ctx context.Context, tx *gorm.DB, newUser *User, code string) ([]notification.Notification, error)
}

type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, title, message string, action notification.ActionType) (*notification.Notification, error)
	Dispatch(ctx context.Context, notes ...notification.Notification)
}

type RegisterInput struct {
	FullName     string `json:"full_name" validate:"required"`
	Phone        string `json:"phone" validate:"required,wallet_phone"`
	Email        string `json:"email" validate:"required,email_lite"`
	Pin          string `json:"pin" validate:"required,pin"`
	ReferralCode string `json:"referral_code"`
}

var registerMessages = map[string]string{
	"full_name": "Name is required",
	"phone":     "Invalid phone (11 digits)",
	"email":     "Invalid email",
	"pin":       "PIN must be 4 digits",
}

type Service struct {
	Config    config.Config
	DB        *gorm.DB
	Repo      Repository
	Referrals Referrals
	Notifier  Notifier

	// NewCode produces one referral code candidate.
	NewCode func() (string, error)

	dummyHash []byte
}

func NewService(cfg config.Config, db *gorm.DB, repo Repository, referrals Referrals, notifier Notifier) *Service {
	dummy, err := bcrypt.GenerateFromPassword([]byte("0000"), bcryptCost(cfg))
	if err != nil {
		panic(err)
	}

	return &Service{
		Config:    cfg,
		DB:        db,
		Repo:      repo,
		Referrals: referrals,
		Notifier:  notifier,
		NewCode:   RandomReferralCode,
		dummyHash: dummy,
	}
}

// Register creates an unverified user with the signup bonus as opening
// balance. Every invalid field is reported in one *apperr.ValidationError.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	in.FullName = utils.SanitizeString(in.FullName)
	in.Phone = utils.SanitizeString(in.Phone)
	in.Email = strings.ToLower(utils.SanitizeString(in.Email))
	in.ReferralCode = strings.ToUpper(utils.SanitizeString(in.ReferralCode))

	verr, err := s.validateRegistration(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	pinHash, err := HashPin(s.Config, in.Pin)
	if err != nil {
		return nil, fmt.Errorf("hash pin: %w", err)
	}

	code, err := s.GenerateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	usr := &User{
		FullName:     in.FullName,
		Phone:        in.Phone,
		Email:        in.Email,
		PinHash:      pinHash,
		Balance:      s.Config.SignupBonus,
		ReferralCode: code,
	}
	if in.ReferralCode != "" {
		referredBy := in.ReferralCode
		usr.ReferredBy = &referredBy
	}

	var notes []notification.Notification
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.WithTx(tx).CreateUser(ctx, usr); err != nil {
			return err
		}

		welcome, err := s.Notifier.Notify(ctx, tx, usr.ID, "Welcome to InstantPay!",
			fmt.Sprintf("%s welcome bonus credited", utils.FormatNaira(s.Config.SignupBonus)), notification.ActionTransaction)
		if err != nil {
			return err
		}
		notes = append(notes, *welcome)

		if in.ReferralCode == "" || s.Referrals == nil {
			return nil
		}

		emitted, err := s.Referrals.Enroll(ctx, tx, usr, in.ReferralCode)
		if err != nil {
			return fmt.Errorf("enroll referral: %w", err)
		}
		notes = append(notes, emitted...)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a race with a concurrent signup; report it the same way
			if verr, verrErr := s.validateRegistration(ctx, in); verrErr == nil && !verr.Empty() {
				return nil, verr
			}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Notifier.Dispatch(ctx, notes...)

	logger.Info("User registered", logger.Fields{
		logger.UserIdKey: usr.ID.String(),
		"referred":       usr.ReferredBy != nil,
	})

	return usr, nil
}

func (s *Service) validateRegistration(ctx context.Context, in RegisterInput) (*apperr.ValidationError, error) {
	verr := apperr.NewValidationError()

	if err := utils.ValidateStruct(in); err != nil {
		for field, msg := range utils.FormatValidationError(err, registerMessages) {
			verr.Add(field, msg)
		}
	}

	if utils.ValidatePhone(in.Phone) {
		exists, err := s.Repo.PhoneExists(ctx, in.Phone)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Set("phone", "Phone already registered")
		}
	}

	if utils.ValidateEmail(in.Email) {
		exists, err := s.Repo.EmailExists(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Set("email", "Email already registered")
		}
	}

	if in.ReferralCode != "" {
		exists, err := s.Repo.ReferralCodeExists(ctx, in.ReferralCode)
		if err != nil {
			return nil, err
		}
		if !exists {
			verr.Set("referral_code", "Invalid referral code")
		}
	}

	return verr, nil
}

// GenerateReferralCode draws candidates until one is unused, giving up with
// apperr.ErrCodeGeneration after the configured number of attempts.
func (s *Service) GenerateReferralCode(ctx context.Context) (string, error) {
	attempts := s.Config.ReferralCodeMaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for i := 0; i < attempts; i++ {
		code, err := s.NewCode()
		if err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}

		taken, err := s.Repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}

		logger.Debug("Referral code collision", logger.Fields{"attempt": i + 1})
	}

	return "", fmt.Errorf("%w after %d attempts", apperr.ErrCodeGeneration, attempts)
}

// RandomReferralCode returns six characters from A-Z0-9.
func RandomReferralCode() (string, error) {
	max := big.NewInt(int64(len(referralCodeAlphabet)))
	code := make([]byte, referralCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = referralCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}

// Authenticate checks phone and PIN. Unknown phones still pay for a bcrypt
// comparison so both failures take the same time.
func (s *Service) Authenticate(ctx context.Context, phone, pin string) (*User, error) {
	usr, err := s.Repo.FindByPhone(ctx, utils.SanitizeString(phone))
	if errors.Is(err, apperr.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(pin))
		return nil, fmt.Errorf("%w: invalid phone or PIN", apperr.ErrAuth)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PinHash), []byte(pin)); err != nil {
		return nil, fmt.Errorf("%w: invalid phone or PIN", apperr.ErrAuth)
	}

	return usr, nil
}

// AuthenticateForAction is the PIN gate in front of every balance mutation.
func (s *Service) AuthenticateForAction(ctx context.Context, userID uuid.UUID, pin string) (*User, error) {
	usr, err := s.Repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usr.PinHash), []byte(pin)); err != nil {
		return nil, fmt.Errorf("%w: incorrect PIN", apperr.ErrAuth)
	}

	return usr, nil
}

// Verify marks the user verified. Only the first call notifies.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID) (*User, error) {
	var notes []notification.Notification

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		changed, err := s.Repo.WithTx(tx).MarkVerified(ctx, userID)
		if err != nil || !changed {
			return err
		}

		n, err := s.Notifier.Notify(ctx, tx, userID, "Account Verified!", "Your InstantPay account is ready", notification.ActionAccount)
		if err != nil {
			return err
		}
		notes = append(notes, *n)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Dispatch(ctx, notes...)

	return s.Repo.FindByID(ctx, userID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *Service) FindByPhone(ctx context.Context, phone string) (*User, error) {
	return s.Repo.FindByPhone(ctx, phone)
}

// HashPin hashes a PIN with the configured bcrypt cost.
func HashPin(cfg config.Config, pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcryptCost(cfg))
	return string(hash), err
}

func bcryptCost(cfg config.Config) int {
	if cfg.BcryptCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return cfg.BcryptCost
}
