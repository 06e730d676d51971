package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vaultpass/passgen/internal/crypto"
	"github.com/vaultpass/passgen/internal/metrics"
	"github.com/vaultpass/passgen/internal/model"
	"github.com/vaultpass/passgen/internal/policy"
)

const (
	DefaultLength = 10
	MaxCount      = 100

	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

var (
	ErrInvalidCount       = fmt.Errorf("count must be between 1 and %d", MaxCount)
	ErrHistoryUnavailable = errors.New("generation history is not available")
)

// GenerationRecorder stores generation audit records.
type GenerationRecorder interface {
	Insert(ctx context.Context, rec *model.GenerationRecord) error
	ListRecent(ctx context.Context, limit int) ([]model.GenerationRecord, error)
}

// GeneratorService handles password generation. It owns a single random
// source and serializes access to it.
type GeneratorService struct {
	mu  sync.Mutex
	src crypto.Source

	recorder      GenerationRecorder
	metrics       *metrics.Metrics
	defaultLength int
	now           func() time.Time
}

// Option configures a GeneratorService.
type Option func(*GeneratorService)

// WithRecorder enables the generation audit log.
func WithRecorder(r GenerationRecorder) Option {
	return func(s *GeneratorService) { s.recorder = r }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *GeneratorService) { s.metrics = m }
}

// WithDefaultLength sets the length used when a request omits it.
func WithDefaultLength(n int) Option {
	return func(s *GeneratorService) {
		if n > 0 {
			s.defaultLength = n
		}
	}
}

// NewGeneratorService creates a new GeneratorService drawing from src.
func NewGeneratorService(src crypto.Source, opts ...Option) *GeneratorService {
	s := &GeneratorService{
		src:           src,
		defaultLength: DefaultLength,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate validates req and produces the requested number of passwords. Validation happens
// before the first draw, so an error never comes with partial output.
func (s *GeneratorService) Generate(ctx context.Context, channel string, req model.GenerateRequest) (model.GenerateResponse, error) {
	resolved, count, err := s.resolve(req)
	if err != nil {
		s.metrics.ObserveRejected(rejectReason(err))
		return model.GenerateResponse{}, err
	}

	passwords := s.draw(resolved, count)

	policyName := policyLabel(resolved.Policy)
	s.metrics.ObserveGenerated(policyName, channel, resolved.Length, count)
	s.record(ctx, channel, resolved, count)

	return model.GenerateResponse{
		Passwords:    passwords,
		Length:       resolved.Length,
		Policy:       policyName,
		Classes:      resolved.Spec.Names(),
		AlphabetSize: resolved.Spec.Size(),
	}, nil
}

func (s *GeneratorService) resolve(req model.GenerateRequest) (policy.Resolved, int, error) {
	length := s.defaultLength
	if req.Length != nil {
		length = *req.Length
	}

	count := 1
	if req.Count != nil {
		count = *req.Count
	}
	if count < 1 || count > MaxCount {
		return policy.Resolved{}, 0, ErrInvalidCount
	}

	named, err := policy.ParseNamedPolicy(req.Type)
	if err != nil {
		return policy.Resolved{}, 0, err
	}

	toggles := policy.Toggles{
		Numbers:     req.Numbers,
		Symbols:     req.Symbols,
		Capitalized: req.Capitalized,
	}
	if named != policy.None && toggles.Any() {
		slog.Warn("named policy overrides class toggles", "policy", string(named))
	}

	resolved, err := policy.Resolve(length, named, toggles)
	if err != nil {
		return policy.Resolved{}, 0, err
	}
	return resolved, count, nil
}

func (s *GeneratorService) draw(r policy.Resolved, count int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	passwords := make([]string, count)
	for i := range passwords {
		passwords[i] = crypto.Generate(r, s.src)
	}
	return passwords
}

// record writes the audit entry. Failures are logged: the passwords already
// exist and are returned regardless.
func (s *GeneratorService) record(ctx context.Context, channel string, r policy.Resolved, count int) {
	if s.recorder == nil {
		return
	}

	rec := &model.GenerationRecord{
		ID:           uuid.NewString(),
		Policy:       policyLabel(r.Policy),
		Classes:      r.Spec.String(),
		Length:       r.Length,
		AlphabetSize: r.Spec.Size(),
		Count:        count,
		Channel:      channel,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.recorder.Insert(ctx, rec); err != nil {
		s.metrics.ObserveAuditFailure()
		slog.Error("failed to record generation", "id", rec.ID, "error", err)
	}
}

// History returns the most recent generation records.
func (s *GeneratorService) History(ctx context.Context, limit int) ([]model.GenerationRecordResponse, error) {
	if s.recorder == nil {
		return nil, ErrHistoryUnavailable
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	records, err := s.recorder.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return recordsToResponse(records), nil
}

// Policies describes every named policy.
func (s *GeneratorService) Policies() []model.PolicyResponse {
	policies := policy.Policies()
	out := make([]model.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		spec, _ := p.Spec()
		out = append(out, model.PolicyResponse{
			Name:         string(p),
			Classes:      spec.Names(),
			AlphabetSize: spec.Size(),
		})
	}
	return out
}

// IsValidationError reports whether err comes from request validation.
func IsValidationError(err error) bool {
	return errors.Is(err, policy.ErrInvalidLength) ||
		errors.Is(err, policy.ErrUnknownPolicy) ||
		errors.Is(err, ErrInvalidCount)
}

func recordsToResponse(records []model.GenerationRecord) []model.GenerationRecordResponse {
	out := make([]model.GenerationRecordResponse, 0, len(records))
	for _, r := range records {
		out = append(out, model.GenerationRecordResponse{
			ID:           r.ID,
			Policy:       r.Policy,
			Classes:      r.Classes,
			Length:       r.Length,
			AlphabetSize: r.AlphabetSize,
			Count:        r.Count,
			Channel:      r.Channel,
			CreatedAt:    r.CreatedAt,
		})
	}
	return out
}

func policyLabel(p policy.NamedPolicy) string {
	if p == policy.None {
		return "custom"
	}
	return string(p)
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, policy.ErrLengthTooLong):
		return "length_too_long"
	case errors.Is(err, policy.ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, policy.ErrUnknownPolicy):
		return "unknown_policy"
	case errors.Is(err, ErrInvalidCount):
		return "invalid_count"
	default:
		return "other"
	}
}
