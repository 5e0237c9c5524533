package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/contentforge/backend/configs"
	"github.com/contentforge/backend/internal/models"
	"github.com/contentforge/backend/internal/provider"
	"github.com/contentforge/backend/internal/repository"
	"github.com/contentforge/backend/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrNoProvider maps to 400 at the API layer.
var ErrNoProvider = errors.New("no active provider for the requested content type")

type GenerationService interface {
	Generate(ctx context.Context, userID int64, req transfer.GenerationRequest) (*transfer.GenerationResponse, error)
	ListProviders(ctx context.Context) ([]*models.AIProvider, error)
}

type generationService struct {
	cfg      config.Config
	registry *provider.Registry
	pr       repository.ProviderRepository
	cs       CreditService
	ss       SettingsService
	storage  *StorageService
}

func NewGenerationService(cfg config.Config, registry *provider.Registry, pr repository.ProviderRepository, cs CreditService, ss SettingsService, storage *StorageService) GenerationService {
	return &generationService{
		cfg:      cfg,
		registry: registry,
		pr:       pr,
		cs:       cs,
		ss:       ss,
		storage:  storage,
	}
}

func (s *generationService) Generate(ctx context.Context, userID int64, req transfer.GenerationRequest) (*transfer.GenerationResponse, error) {
	if req.Prompt == "" {
		err := errors.New("Prompt is empty")
		slog.Info(err.Error())
		return nil, err
	}

	switch req.Type {
	case models.ContentTypeText, models.ContentTypeImage, models.ContentTypeAudio, models.ContentTypeVideo:
	default:
		err := fmt.Errorf("Unknown content type: %s", req.Type)
		slog.Info(err.Error())
		return nil, err
	}

	p, err := s.pr.GetDefaultActive(ctx, req.Type)
	if err != nil {
		return nil, err
	}
	if p == nil {
		slog.Info(ErrNoProvider.Error())
		return nil, ErrNoProvider
	}

	// One priced unit is the minimum any generation can cost, so a
	// balance below that fails before the provider is called.
	minCharge := s.charge(p.CostPerUnit, 1)
	if minCharge <= 0 {
		err := fmt.Errorf("Provider %s has no usable pricing", p.Name)
		slog.Info(err.Error())
		return nil, err
	}
	enough, _, err := s.cs.HasBalance(ctx, userID, minCharge)
	if err != nil {
		return nil, err
	}
	if !enough {
		return nil, ErrInsufficientCredits
	}

	if req.Options.Tone == "" {
		settings, err := s.ss.GetSettingsInfo(ctx, userID)
		if err == nil && settings.Tone != "" {
			req.Options.Tone = settings.Tone
		}
	}

	model := req.Options.Model
	if model == "" {
		model = p.Model
	}

	client, err := s.registry.Resolve(p.Name)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	result, err := client.Generate(ctx, model, req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("Error generating content")
	}

	content := result.Text
	if len(result.Media) > 0 {
		url, err := s.storage.StoreMedia(ctx, result.Media, result.MimeType)
		if err != nil {
			return nil, fmt.Errorf("Error storing generated media")
		}
		content = url
	}

	charge := s.charge(p.CostPerUnit, result.Units)

	referenceID, err := gonanoid.New()
	if err != nil {
		referenceID = ""
	}

	deduct, err := s.cs.DeductForGeneration(ctx, userID, charge, fmt.Sprintf("%s generation via %s", req.Type, p.Name), referenceID)
	if err != nil || !deduct.Success {
		// The provider already produced the content, so the orphaned
		// generation is flagged for reconciliation before failing the
		// request. An uncharged success must never reach the caller.
		slog.Error("generation completed but charge failed",
			"user_id", userID,
			"provider", p.Name,
			"charge", charge,
			"reference_id", referenceID,
		)
		if err != nil {
			return nil, fmt.Errorf("Error charging for generation")
		}
		return nil, ErrInsufficientCredits
	}

	return &transfer.GenerationResponse{
		Content:       content,
		Charge:        charge,
		CostPerUnit:   p.CostPerUnit,
		ProfitPercent: s.cfg.ProfitPercent,
		Provider:      p.Name,
		ContentType:   req.Type,
	}, nil
}

func (s *generationService) charge(costPerUnit, units float64) float64 {
	if units < 1 {
		units = 1
	}
	return costPerUnit * units * (1 + s.cfg.ProfitPercent/100)
}

func (s *generationService) ListProviders(ctx context.Context) ([]*models.AIProvider, error) {
	return s.pr.List(ctx)
}
