package service

import (
	"context"
	"log/slog"

	"blog_backend/internal/posts/transport"
	"blog_backend/internal/richtext"
	"blog_backend/platform/logger"
	"blog_backend/platform/validator"
)

// Service checks post, comment and report payloads.
type Service struct {
	val     *validator.Validator
	checker *richtext.Checker
	log     *logger.Logger
}

// New creates a new posts service. checker must be the instance behind the
// richtext validation tag so findings match verdicts.
func New(val *validator.Validator, checker *richtext.Checker, log *logger.Logger) *Service {
	return &Service{val: val, checker: checker, log: log}
}

// CheckPost validates a post and returns its sanitised content when valid.
func (s *Service) CheckPost(ctx context.Context, req transport.CheckPostRequest) (validator.Outcome, string, error) {
	out, err := s.val.Check(req)
	if err != nil {
		return validator.Outcome{}, "", err
	}
	if !out.IsValid() {
		s.logViolations(ctx, "posts.check", out)
		if finding, safe := s.checker.Check(req.Content); !safe {
			s.log.WithContext(ctx).Info("unsafe_block",
				slog.Int("block_index", finding.BlockIndex),
				slog.String("block_type", finding.BlockType),
				slog.String("path", finding.Path),
				slog.String("pattern", string(finding.Pattern)),
			)
		}
		return out, "", nil
	}
	return out, s.checker.SanitizeString(req.Content), nil
}

// CheckComment validates a comment.
func (s *Service) CheckComment(ctx context.Context, req transport.CheckCommentRequest) (validator.Outcome, error) {
	return s.check(ctx, "posts.comments.check", req)
}

// CheckReport validates an abuse report.
func (s *Service) CheckReport(ctx context.Context, req transport.CheckReportRequest) (validator.Outcome, error) {
	return s.check(ctx, "posts.reports.check", req)
}

func (s *Service) check(ctx context.Context, op string, req interface{}) (validator.Outcome, error) {
	out, err := s.val.Check(req)
	if err != nil {
		return validator.Outcome{}, err
	}
	s.logViolations(ctx, op, out)
	return out, nil
}

func (s *Service) logViolations(ctx context.Context, op string, out validator.Outcome) {
	log := s.log.WithContext(ctx)
	for _, v := range out.Violations {
		log.ValidationRejected(op, v.Field, v.Reason)
	}
}
