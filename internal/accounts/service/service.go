package service

import (
	"context"

	"blog_backend/internal/accounts/transport"
	"blog_backend/platform/logger"
	"blog_backend/platform/validator"
)

// Service checks account payloads against the password and plain-text policies.
type Service struct {
	val *validator.Validator
	log *logger.Logger
}

// New creates a new accounts service.
func New(val *validator.Validator, log *logger.Logger) *Service {
	return &Service{val: val, log: log}
}

// CheckAccount validates a registration payload.
func (s *Service) CheckAccount(ctx context.Context, req transport.CheckAccountRequest) (validator.Outcome, error) {
	return s.check(ctx, "accounts.check", req)
}

// CheckPassword validates a new password.
func (s *Service) CheckPassword(ctx context.Context, req transport.CheckPasswordRequest) (validator.Outcome, error) {
	return s.check(ctx, "accounts.password.check", req)
}

// CheckProfile validates the fields present in a profile update.
func (s *Service) CheckProfile(ctx context.Context, req transport.CheckProfileRequest) (validator.Outcome, error) {
	return s.check(ctx, "accounts.profile.check", req)
}

func (s *Service) check(ctx context.Context, op string, req interface{}) (validator.Outcome, error) {
	out, err := s.val.Check(req)
	if err != nil {
		return validator.Outcome{}, err
	}
	log := s.log.WithContext(ctx)
	for _, v := range out.Violations {
		log.ValidationRejected(op, v.Field, v.Reason)
	}
	return out, nil
}
