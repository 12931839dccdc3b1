// Package services contains the business logic layer of the ad tracker
package services

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/imagestore"
	"github.com/axellelanca/adtracker/internal/logger"
	"github.com/axellelanca/adtracker/internal/metrics"
	"github.com/axellelanca/adtracker/internal/models"
	"github.com/axellelanca/adtracker/internal/repository"
)

// AdvertConfig holds the ledger amounts and the proof reference written to the click log.
type AdvertConfig struct {
	StartingBudget float64
	ClickCost      float64
	ProofReference string
}

// AdvertService runs the click and publish workflows on top of the ledger, the click log
// and the image store.
type AdvertService struct {
	db     *gorm.DB
	ads    repository.AdvertisementRepository
	clicks repository.ClickRepository
	users  repository.UserRepository
	images *imagestore.Store
	cfg    AdvertConfig
	now    func() time.Time
}

// NewAdvertService creates and returns a new instance of AdvertService.
func NewAdvertService(
	db *gorm.DB,
	ads repository.AdvertisementRepository,
	clicks repository.ClickRepository,
	users repository.UserRepository,
	images *imagestore.Store,
	cfg AdvertConfig,
) *AdvertService {
	return &AdvertService{
		db:     db,
		ads:    ads,
		clicks: clicks,
		users:  users,
		images: images,
		cfg:    cfg,
		now:    time.Now,
	}
}

// ClickRequest is one click-through on an advertisement.
type ClickRequest struct {
	Name          string
	Identity      Identity
	OriginAddress string
}

// ClickResult is the ledger state after a successful click and the log entry it produced.
type ClickResult struct {
	Advertisement models.Advertisement
	Operation     models.ClickOperation
}

// Click debits the advertisement, counts the click and appends it to the click log,
// all in one transaction. It returns ErrAdvertisementNotFound for unknown names and
// ErrBudgetExhausted, with nothing written, when the budget cannot cover the click.
func (s *AdvertService) Click(ctx context.Context, req ClickRequest) (*ClickResult, error) {
	var result ClickResult
	err := repository.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		ad, err := s.ads.DebitAndCount(ctx, req.Name, s.cfg.ClickCost)
		if err != nil {
			return err
		}
		op := &models.ClickOperation{
			AdvertisementName: req.Name,
			ActingUser:        req.Identity.ActingUser(),
			ProofReference:    s.cfg.ProofReference,
			OriginAddress:     req.OriginAddress,
			Timestamp:         s.now(),
		}
		if err := s.clicks.AppendClick(ctx, op); err != nil {
			return err
		}
		result = ClickResult{Advertisement: *ad, Operation: *op}
		return nil
	})

	switch {
	case err == nil:
		metrics.ClicksTotal.WithLabelValues(metrics.OutcomeClicked).Inc()
		return &result, nil
	case errors.Is(err, apperrors.ErrBudgetExhausted):
		metrics.ClicksTotal.WithLabelValues(metrics.OutcomeGone).Inc()
	case errors.Is(err, apperrors.ErrAdvertisementNotFound):
		metrics.ClicksTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
	default:
		metrics.ClicksTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		err = apperrors.Persistence("click", err)
	}
	return nil, err
}

// PublishRequest carries an uploaded advertisement image.
type PublishRequest struct {
	Filename string
	Content  io.Reader
	Identity Identity
}

// Publish stores the image under the next free id and opens its ledger row with the
// starting budget. The image is removed again if the ledger row cannot be created.
func (s *AdvertService) Publish(ctx context.Context, req PublishRequest) (*models.Advertisement, error) {
	img, err := s.images.Save(req.Filename, req.Content)
	if err != nil {
		return nil, err
	}

	ad, err := s.ads.CreateAdvertisement(ctx, img.ID, s.cfg.StartingBudget, 0)
	if err != nil {
		if rmErr := s.images.Remove(img); rmErr != nil {
			logger.Log.Error("failed to remove orphan image", zap.String("file", img.File), zap.Error(rmErr))
		}
		return nil, apperrors.Persistence("publish", err)
	}

	metrics.PublishedTotal.Inc()
	logger.Log.Info("advertisement published",
		zap.String("advertisement", ad.Name),
		zap.String("file", img.File),
		zap.String("publisher", req.Identity.Username))
	return ad, nil
}

// Seed opens a ledger row for every numeric stored image that does not have one yet.
// It returns the names of the advertisements created.
func (s *AdvertService) Seed(ctx context.Context) ([]string, error) {
	images, err := s.images.List()
	if err != nil {
		return nil, err
	}

	var created []string
	err = repository.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		for _, img := range images {
			if _, err := strconv.Atoi(img.ID); err != nil {
				continue
			}
			_, err := s.ads.GetAdvertisement(ctx, img.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, apperrors.ErrAdvertisementNotFound) {
				return err
			}
			if _, err := s.ads.CreateAdvertisement(ctx, img.ID, s.cfg.StartingBudget, 0); err != nil {
				return err
			}
			created = append(created, img.ID)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Persistence("seed", err)
	}
	return created, nil
}

// Gallery returns the stored advertisement images for the home page.
func (s *AdvertService) Gallery() ([]imagestore.Image, error) {
	return s.images.List()
}

// Overview is the administrative listing of every table.
type Overview struct {
	Users          []models.User
	Advertisements []models.Advertisement
	Operations     []models.ClickOperation
}

// Overview returns all users, advertisements and click operations.
func (s *AdvertService) Overview(ctx context.Context) (*Overview, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	ads, err := s.ads.GetAllAdvertisements(ctx)
	if err != nil {
		return nil, err
	}
	ops, err := s.clicks.GetAllClicks(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{Users: users, Advertisements: ads, Operations: ops}, nil
}

// Stats retrieves the ledger row of name and the number of click operations logged for it.
func (s *AdvertService) Stats(ctx context.Context, name string) (*models.Advertisement, int, error) {
	ad, err := s.ads.GetAdvertisement(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	logged, err := s.clicks.CountClicksByAdvertisement(ctx, name)
	if err != nil {
		return nil, 0, err
	}
	return ad, logged, nil
}
