package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/myroutine-backend/internal/config"
	"github.com/iliyamo/myroutine-backend/internal/database/dbtest"
	"github.com/iliyamo/myroutine-backend/internal/imagestore"
	"github.com/iliyamo/myroutine-backend/internal/logging"
	"github.com/iliyamo/myroutine-backend/internal/model"
	"github.com/iliyamo/myroutine-backend/internal/queue"
	"github.com/iliyamo/myroutine-backend/internal/repository"
	"github.com/iliyamo/myroutine-backend/internal/utils"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeImages struct {
	mu      sync.Mutex
	n       int
	deleted []string
	failOn  map[string]bool
}

func (f *fakeImages) Upload(_ context.Context, body io.Reader, _ string) (imagestore.Image, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return imagestore.Image{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	id := fmt.Sprintf("img-%d", f.n)
	return imagestore.Image{PublicID: id, URL: "https://cdn.test/" + id}, nil
}

func (f *fakeImages) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	if f.failOn[publicID] {
		return errors.New("image store unavailable")
	}
	return nil
}

type fakeEmail struct{ sent []queue.EmailMessage }

func (f *fakeEmail) Send(_ context.Context, msg queue.EmailMessage) error {
	f.sent = append(f.sent, msg)
	return nil
}

type testEnv struct {
	db      *sql.DB
	store   *repository.Store
	tokens  *utils.TokenService
	clock   *fakeClock
	images  *fakeImages
	email   *fakeEmail
	auth    *AuthService
	session *SessionService
	deleter *DeletionService
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.Open(t)
	store := repository.NewStore(db)
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	tokens := utils.NewTokenService(config.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     2 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		ResetTTL:      10 * time.Minute,
	})
	tokens.Now = clock.Now
	images := &fakeImages{failOn: map[string]bool{}}
	email := &fakeEmail{}
	log := logging.Discard()

	return &testEnv{
		db:     db,
		store:  store,
		tokens: tokens,
		clock:  clock,
		images: images,
		email:  email,
		auth: &AuthService{
			Store: store, Tokens: tokens, Email: email, Images: images,
			FrontendURL: "https://app.test", BcryptCost: 4, Log: log,
		},
		session: &SessionService{
			Tokens: tokens, Credentials: store.Credentials, Ledger: store.InvalidTokens, Users: store.Users, Log: log,
		},
		deleter: &DeletionService{Store: store, Images: images, Log: log},
	}
}

func (e *testEnv) register(t *testing.T, email string) (model.User, utils.TokenPair) {
	t.Helper()
	u, pair, err := e.auth.Register(context.Background(), RegisterInput{
		Email: email, Password: "Secret123!", Name: "Ana", LastName: "Lopez",
	})
	require.NoError(t, err)
	return u, pair
}

func (e *testEnv) exercise(t *testing.T, userID uint64, name string) uint64 {
	t.Helper()
	ex := &model.Exercise{UserID: userID, Name: name, Intensity: 2}
	require.NoError(t, e.store.Exercises.Create(context.Background(), ex))
	return ex.ID
}

func (e *testEnv) routine(t *testing.T, userID uint64, name string) uint64 {
	t.Helper()
	rt := &model.Routine{UserID: userID, Name: name}
	require.NoError(t, e.store.Routines.Create(context.Background(), rt))
	return rt.ID
}

func (e *testEnv) set(t *testing.T, userID, exerciseID uint64, typ, quantity string) model.SetDetail {
	t.Helper()
	svc := &SetService{Store: e.store}
	d, err := svc.Create(context.Background(), userID, SetInput{
		ExerciseID: exerciseID, Weight: 20, RestAfterSet: 60, SetOrder: 1, Type: typ, Quantity: []byte(quantity),
	})
	require.NoError(t, err)
	return d
}

func (e *testEnv) photo(t *testing.T, userID, exerciseID uint64, publicID string) {
	t.Helper()
	require.NoError(t, e.store.Photos.Create(context.Background(), model.Photo{
		UserID: userID, ExerciseID: exerciseID, PublicID: publicID, URL: "https://cdn.test/" + publicID,
	}))
}

func upload(data string) *Upload {
	return &Upload{Body: bytes.NewReader([]byte(data)), ContentType: "image/png"}
}
