package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/axellelanca/adtracker/internal/database"
	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/axellelanca/adtracker/internal/imagestore"
	"github.com/axellelanca/adtracker/internal/models"
	"github.com/axellelanca/adtracker/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const proofPath = "proofs/clKnownValues_proof.xml"

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

type fixture struct {
	db      *gorm.DB
	dir     string
	auth    *AuthService
	adverts *AdvertService
	ads     *repository.GormAdvertisementRepository
	clicks  *repository.GormClickRepository
}

func setup(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	db, err := database.OpenAndMigrate(filepath.Join(root, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	dir := filepath.Join(root, "static")
	images, err := imagestore.New(dir, 0)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	ads := repository.NewAdvertisementRepository(db)
	clicks := repository.NewClickRepository(db)
	sessions := repository.NewSessionRepository(db)

	return &fixture{
		db:   db,
		dir:  dir,
		auth: NewAuthService(users, sessions, time.Hour),
		adverts: NewAdvertService(db, ads, clicks, users, images, AdvertConfig{
			StartingBudget: 10000.00,
			ClickCost:      10.0,
			ProofReference: proofPath,
		}),
		ads:    ads,
		clicks: clicks,
	}
}

func (f *fixture) addImages(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(f.dir, n), pngBytes, 0o644))
	}
}

func TestRegister(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	req := RegisterRequest{Username: "alice", Password: "secret", PhoneNumber: "0600000000", OriginAddress: "10.0.0.1"}

	require.NoError(t, f.auth.Register(ctx, req))

	err := f.auth.Register(ctx, req)
	assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists)

	var users []models.User
	require.NoError(t, f.db.Where("username = ?", "alice").Find(&users).Error)
	require.Len(t, users, 1)
	assert.NotEqual(t, "secret", users[0].PasswordHash)
	assert.Equal(t, "10.0.0.1", users[0].RegistrationAddress)
}

func TestVerify(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, RegisterRequest{Username: "alice", Password: "secret", PhoneNumber: "1"}))

	assert.NoError(t, f.auth.Verify(ctx, "alice", "secret"))
	assert.ErrorIs(t, f.auth.Verify(ctx, "alice", "wrong"), apperrors.ErrWrongPassword)
	assert.ErrorIs(t, f.auth.Verify(ctx, "bob", "secret"), apperrors.ErrUserNotFound)
}

func TestLoginLogout(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, RegisterRequest{Username: "alice", Password: "secret", PhoneNumber: "1"}))

	_, err := f.auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperrors.ErrWrongPassword)

	_, err = f.auth.Login(ctx, "bob", "secret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	token, err := f.auth.Login(ctx, "alice", "secret")
	require.NoError(t, err)

	id, err := f.auth.RequireLogin(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", id.Username)

	require.NoError(t, f.auth.Logout(ctx, token))
	require.NoError(t, f.auth.Logout(ctx, token))
	require.NoError(t, f.auth.Logout(ctx, ""))

	_, err = f.auth.RequireLogin(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrNotLoggedIn)

	id, err = f.auth.Identify(ctx, "unknown-token")
	require.NoError(t, err)
	assert.True(t, id.Anonymous())
}

func TestClick(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.ads.CreateAdvertisement(ctx, "1", 10000.00, 0)
	require.NoError(t, err)

	res, err := f.adverts.Click(ctx, ClickRequest{Name: "1", Identity: Identity{Username: "alice"}, OriginAddress: "10.0.0.2"})
	require.NoError(t, err)
	assert.Equal(t, 9990.00, res.Advertisement.RemainingBudget)
	assert.Equal(t, int64(1), res.Advertisement.ClickCount)

	ops, err := f.clicks.GetAllClicks(ctx)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, "1", ops[0].AdvertisementName)
	assert.Equal(t, "alice", ops[0].ActingUser)
	assert.Equal(t, proofPath, ops[0].ProofReference)
	assert.Equal(t, "10.0.0.2", ops[0].OriginAddress)
}

func TestAnonymousClick(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.ads.CreateAdvertisement(ctx, "1", 10000.00, 0)
	require.NoError(t, err)

	res, err := f.adverts.Click(ctx, ClickRequest{Name: "1"})
	require.NoError(t, err)
	assert.Equal(t, models.AnonymousUser, res.Operation.ActingUser)
}

func TestClickUnknownAdvertisement(t *testing.T) {
	f := setup(t)

	_, err := f.adverts.Click(context.Background(), ClickRequest{Name: "42"})
	assert.ErrorIs(t, err, apperrors.ErrAdvertisementNotFound)
}

func TestClickUntilBudgetExhausted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.ads.CreateAdvertisement(ctx, "1", 10000.00, 0)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		_, err := f.adverts.Click(ctx, ClickRequest{Name: "1"})
		require.NoError(t, err, "click %d", i+1)
	}

	ad, err := f.ads.GetAdvertisement(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, ad.RemainingBudget)
	assert.Equal(t, int64(1000), ad.ClickCount)

	_, err = f.adverts.Click(ctx, ClickRequest{Name: "1", Identity: Identity{Username: "alice"}})
	assert.ErrorIs(t, err, apperrors.ErrBudgetExhausted)

	after, err := f.ads.GetAdvertisement(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, ad.RemainingBudget, after.RemainingBudget)
	assert.Equal(t, ad.ClickCount, after.ClickCount)

	logged, err := f.clicks.CountClicksByAdvertisement(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 1000, logged)
}

func TestConcurrentClicksNeverOverspend(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	_, err := f.ads.CreateAdvertisement(ctx, "1", 50.0, 0)
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.adverts.Click(ctx, ClickRequest{Name: "1"}); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, succeeded)
	budget, err := f.ads.GetBudget(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, budget)

	logged, err := f.clicks.CountClicksByAdvertisement(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 5, logged)
}

func TestPublish(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addImages(t, "1.jpg", "2.jpg", "3.jpg")

	ad, err := f.adverts.Publish(ctx, PublishRequest{
		Filename: "new.png",
		Content:  bytes.NewReader(pngBytes),
		Identity: Identity{Username: "alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, "4", ad.Name)
	assert.Equal(t, 10000.00, ad.RemainingBudget)
	assert.Equal(t, int64(0), ad.ClickCount)

	_, err = os.Stat(filepath.Join(f.dir, "4.png"))
	assert.NoError(t, err)
}

func TestPublishInvalidImage(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.adverts.Publish(ctx, PublishRequest{Filename: "doc.pdf", Content: bytes.NewReader([]byte("%PDF-1.4"))})
	assert.ErrorIs(t, err, apperrors.ErrInvalidImageFormat)

	ads, err := f.ads.GetAllAdvertisements(ctx)
	require.NoError(t, err)
	assert.Empty(t, ads)
}

func TestPublishRemovesImageWhenLedgerFails(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	// A ledger row without an image makes the next id collide with the unique index.
	_, err := f.ads.CreateAdvertisement(ctx, "1", 10000.00, 0)
	require.NoError(t, err)

	_, err = f.adverts.Publish(ctx, PublishRequest{Filename: "a.png", Content: bytes.NewReader(pngBytes)})
	require.Error(t, err)
	assert.True(t, apperrors.IsPersistence(err))

	_, err = os.Stat(filepath.Join(f.dir, "1.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestSeed(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.addImages(t, "1.jpg", "2.jpg")
	_, err := f.ads.CreateAdvertisement(ctx, "1", 500.0, 3)
	require.NoError(t, err)

	created, err := f.adverts.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, created)

	ad, err := f.ads.GetAdvertisement(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, ad.RemainingBudget)

	created, err = f.adverts.Seed(ctx)
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestOverviewAndStats(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	require.NoError(t, f.auth.Register(ctx, RegisterRequest{Username: "alice", Password: "secret", PhoneNumber: "1"}))
	_, err := f.ads.CreateAdvertisement(ctx, "1", 10000.00, 0)
	require.NoError(t, err)
	_, err = f.adverts.Click(ctx, ClickRequest{Name: "1", Identity: Identity{Username: "alice"}})
	require.NoError(t, err)

	overview, err := f.adverts.Overview(ctx)
	require.NoError(t, err)
	assert.Len(t, overview.Users, 1)
	assert.Len(t, overview.Advertisements, 1)
	assert.Len(t, overview.Operations, 1)

	ad, logged, err := f.adverts.Stats(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), ad.ClickCount)
	assert.Equal(t, 1, logged)

	_, _, err = f.adverts.Stats(ctx, "9")
	assert.ErrorIs(t, err, apperrors.ErrAdvertisementNotFound)
}
