package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sifan077/tinyurl/internal/app/model"
	"github.com/sifan077/tinyurl/internal/app/repository"
	"github.com/sifan077/tinyurl/internal/app/shortcode"
	metrics "github.com/sifan077/tinyurl/internal/infra/prometheus"
	"go.uber.org/zap"
)

// maxGenerateAttempts bounds how often a colliding generated code is replaced.
const maxGenerateAttempts = 5

// LinkService defines behaviour-level operations on links.
type LinkService interface {
	CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error)
	GetLink(ctx context.Context, code string) (*model.Link, error)
	ListLinks(ctx context.Context, limit, offset int) ([]model.Link, error)
	DeleteLink(ctx context.Context, code string) error
	Resolve(ctx context.Context, code string) (string, error)
}

// LinkServiceDeps groups dependencies of the link service. Only Links is required.
type LinkServiceDeps struct {
	Links  repository.LinkRepository
	Logger *zap.Logger
	// Filter lets creation skip the existence pre-check for codes never seen.
	Filter *shortcode.Filter
	// Events receives created/deleted notifications; nil disables publishing.
	Events EventPublisher
	// Generate overrides shortcode.Generate.
	Generate func() (string, error)
}

type linkService struct {
	repo     repository.LinkRepository
	logger   *zap.Logger
	filter   *shortcode.Filter
	events   EventPublisher
	generate func() (string, error)
}

// NewLinkService returns a service implementation backed by the given repository.
func NewLinkService(deps LinkServiceDeps) LinkService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	generate := deps.Generate
	if generate == nil {
		generate = shortcode.Generate
	}
	return &linkService{
		repo:     deps.Links,
		logger:   logger,
		filter:   deps.Filter,
		events:   deps.Events,
		generate: generate,
	}
}

// CreateLinkInput captures data required to create a link. An empty Code
// asks the service to generate one.
type CreateLinkInput struct {
	URL  string `validate:"required,weburl"`
	Code string `validate:"omitempty,shortcode"`
}

func (s *linkService) CreateLink(ctx context.Context, input CreateLinkInput) (*model.Link, error) {
	input.URL = strings.TrimSpace(input.URL)
	if err := ValidateCreate(input); err != nil {
		return nil, err
	}

	if input.Code != "" {
		link, err := s.insert(ctx, input.Code, input.URL)
		if err != nil {
			return nil, fmt.Errorf("create link: %w", err)
		}
		metrics.LinksCreated.WithLabelValues("custom").Inc()
		return link, nil
	}

	for attempt := 1; ; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		link, err := s.insert(ctx, code, input.URL)
		if err == nil {
			metrics.LinksCreated.WithLabelValues("generated").Inc()
			return link, nil
		}
		if !errors.Is(err, repository.ErrDuplicateCode) || attempt == maxGenerateAttempts {
			return nil, fmt.Errorf("create link: %w", err)
		}
		s.logger.Debug("generated code collided, retrying",
			zap.String("code", code),
			zap.Int("attempt", attempt),
		)
	}
}

// insert pre-checks the code for a quick answer, then inserts. The unique
// constraint is authoritative: a concurrent insert that slipped past the
// pre-check is reported as ErrDuplicateCode as well.
func (s *linkService) insert(ctx context.Context, code, url string) (*model.Link, error) {
	if s.filter == nil || s.filter.MayContain(code) {
		exists, err := s.repo.Exists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check code: %w", err)
		}
		if exists {
			metrics.CodeCollisions.WithLabelValues("precheck").Inc()
			return nil, repository.ErrDuplicateCode
		}
	}

	link := &model.Link{Code: code, URL: url}
	if err := s.repo.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			metrics.CodeCollisions.WithLabelValues("constraint").Inc()
			if s.filter != nil {
				s.filter.Add(code)
			}
		}
		return nil, err
	}

	if s.filter != nil {
		s.filter.Add(code)
	}
	s.publish(model.LinkEventCreated, link.Code, link.URL)
	return link, nil
}

func (s *linkService) GetLink(ctx context.Context, code string) (*model.Link, error) {
	link, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

func (s *linkService) ListLinks(ctx context.Context, limit, offset int) ([]model.Link, error) {
	links, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

func (s *linkService) DeleteLink(ctx context.Context, code string) error {
	if err := s.repo.Delete(ctx, code); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	s.publish(model.LinkEventDeleted, code, "")
	return nil
}

// Resolve returns the destination of code and counts the click.
func (s *linkService) Resolve(ctx context.Context, code string) (string, error) {
	url, err := s.repo.ResolveAndTrack(ctx, code)
	switch {
	case err == nil:
		metrics.Redirects.WithLabelValues(metrics.ResultFound).Inc()
		return url, nil
	case errors.Is(err, repository.ErrLinkNotFound):
		metrics.Redirects.WithLabelValues(metrics.ResultNotFound).Inc()
	default:
		metrics.Redirects.WithLabelValues(metrics.ResultError).Inc()
	}
	return "", fmt.Errorf("resolve link: %w", err)
}

func (s *linkService) publish(eventType, code, url string) {
	if s.events == nil {
		return
	}
	go func() {
		if err := s.events.Publish(eventType, code, url); err != nil {
			s.logger.Error("failed to publish link event",
				zap.String("type", eventType),
				zap.String("code", code),
				zap.Error(err),
			)
		}
	}()
}
