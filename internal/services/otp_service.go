package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/workbenchflow/workbench-api/internal/constants"
	"github.com/workbenchflow/workbench-api/internal/models"
	"github.com/workbenchflow/workbench-api/internal/repository"
	"github.com/workbenchflow/workbench-api/internal/utils"
)

var (
	ErrOtpNotFound          = errors.New("otp not found")
	ErrOtpExpired           = errors.New("otp expired")
	ErrOtpAttemptsExhausted = errors.New("no attempts left")
)

// CodeMismatchError reports a wrong code together with the attempts the
// user has left.
type CodeMismatchError struct {
	AttemptsLeft int
}

func (e *CodeMismatchError) Error() string {
	return fmt.Sprintf("invalid otp code, %d attempts left", e.AttemptsLeft)
}

// ResendCooldownError reports how long the caller must wait before a
// new code may be issued.
type ResendCooldownError struct {
	WaitSeconds int
}

func (e *ResendCooldownError) Error() string {
	return fmt.Sprintf("please wait %d seconds before resending", e.WaitSeconds)
}

// OtpService owns the lifecycle of one-time confirmation codes: at most
// one live code per user, fixed attempt budget, short expiry, resend
// cooldown.
type OtpService struct {
	userRepo repository.UserRepository
	otpRepo  repository.OtpRepository
	ttl      time.Duration
	cooldown time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewOtpService creates a new OtpService.
func NewOtpService(userRepo repository.UserRepository, otpRepo repository.OtpRepository, ttl, cooldown time.Duration, logger zerolog.Logger) *OtpService {
	return &OtpService{
		userRepo: userRepo,
		otpRepo:  otpRepo,
		ttl:      ttl,
		cooldown: cooldown,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock overrides the time source (used for testing expiry and
// cooldown boundaries).
func (s *OtpService) WithClock(now func() time.Time) *OtpService {
	s.now = now
	return s
}

// Generate builds an unsaved OTP row with a fresh random code.
func (s *OtpService) Generate() (*models.Otp, error) {
	code, err := utils.GenerateOtpCode()
	if err != nil {
		return nil, err
	}

	return &models.Otp{
		Code:      code,
		Attempts:  constants.OtpMaxAttempts,
		CreatedAt: s.now(),
	}, nil
}

// Issue supersedes the user's live OTP (if any) with a fresh one and
// returns the new code for out-of-band delivery.
func (s *OtpService) Issue(user *models.User) (string, error) {
	otp, err := s.Generate()
	if err != nil {
		return "", err
	}

	if err := s.otpRepo.Replace(user, otp); err != nil {
		return "", fmt.Errorf("failed to replace otp: %w", err)
	}

	s.logger.Debug().Uint64("user_id", user.ID).Msg("issued otp")
	return otp.Code, nil
}

// Verify checks a submitted code against the user's live OTP. The check
// order is fixed: existence, expiry, attempts, match. Attempts are
// consumed only by wrong-code submissions. A match deletes the OTP and
// clears the user's OtpID, which is the sole transition confirming the
// account.
func (s *OtpService) Verify(email, code string) error {
	user, otp, err := s.findLive(email)
	if err != nil {
		return err
	}

	if s.now().Sub(otp.CreatedAt) > s.ttl {
		return ErrOtpExpired
	}

	if otp.Attempts <= 0 {
		return ErrOtpAttemptsExhausted
	}

	if otp.Code != code {
		otp.Attempts--
		if err := s.otpRepo.Update(otp); err != nil {
			return fmt.Errorf("failed to record failed attempt: %w", err)
		}
		return &CodeMismatchError{AttemptsLeft: otp.Attempts}
	}

	if err := s.otpRepo.Consume(user, otp); err != nil {
		return fmt.Errorf("failed to consume otp: %w", err)
	}

	s.logger.Info().Uint64("user_id", user.ID).Msg("account confirmed")
	return nil
}

// CanResend reports whether a new code may be issued for the user. A
// missing live OTP always allows it; otherwise the cooldown since the
// current code's creation must have elapsed.
func (s *OtpService) CanResend(email string) error {
	_, otp, err := s.findLive(email)
	if err != nil {
		if errors.Is(err, ErrOtpNotFound) {
			return nil
		}
		return err
	}

	elapsed := s.now().Sub(otp.CreatedAt)
	if elapsed < s.cooldown {
		wait := int((s.cooldown - elapsed + time.Second - 1) / time.Second)
		return &ResendCooldownError{WaitSeconds: wait}
	}

	return nil
}

func (s *OtpService) findLive(email string) (*models.User, *models.Otp, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOtpNotFound
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.OtpID == nil {
		return nil, nil, ErrOtpNotFound
	}

	otp, err := s.otpRepo.FindByID(*user.OtpID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrOtpNotFound
		}
		return nil, nil, fmt.Errorf("failed to find otp: %w", err)
	}

	return user, otp, nil
}
