package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Logesh-Devops/caconnect-clientui/pkg/api"
	"github.com/Logesh-Devops/caconnect-clientui/pkg/models"
)

// fakeService is a scriptable Service for manager tests.
type fakeService struct {
	loginResp   *api.LoginResponse
	loginErr    error
	profile     *models.Principal
	profileErr  error
	entities    []models.Entity
	entitiesErr error
	verifyErr   error

	token      string
	verifyOTPs []string
}

func (f *fakeService) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeService) GetProfile(ctx context.Context) (*models.Principal, error) {
	return f.profile, f.profileErr
}

func (f *fakeService) GetEntities(ctx context.Context) ([]models.Entity, error) {
	return f.entities, f.entitiesErr
}

func (f *fakeService) Verify2FA(ctx context.Context, otp string) error {
	f.verifyOTPs = append(f.verifyOTPs, otp)
	return f.verifyErr
}

func (f *fakeService) UpdateName(ctx context.Context, firstName, lastName string) error {
	return nil
}

func (f *fakeService) UpdatePassword(ctx context.Context, current, newPassword, confirm string) error {
	return nil
}

func (f *fakeService) Toggle2FA(ctx context.Context, enable bool) error { return nil }

func (f *fakeService) SetAuthToken(token string) { f.token = token }

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "user@example.com"}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	require.NoError(t, err)
	return token
}

func clientService() *fakeService {
	return &fakeService{
		loginResp: &api.LoginResponse{AccessToken: "tok-1", Role: models.RoleClientUser},
		profile:   &models.Principal{Sub: "user@example.com", Name: "Asha", Role: models.RoleClientUser},
		entities:  []models.Entity{{ID: "e1", Name: "Acme"}},
	}
}

func TestLoginSuccess(t *testing.T) {
	svc := clientService()
	store := &MemStore{}
	mgr := NewManager(svc, store)

	pending, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)
	assert.False(t, pending)
	assert.Equal(t, StateAuthenticated, mgr.State())
	assert.Equal(t, "tok-1", svc.token)

	sess := mgr.Session()
	require.NotNil(t, sess)
	assert.Equal(t, "Asha", sess.Name)
	assert.Len(t, sess.Entities, 1)

	// Write-through: the store holds the session immediately.
	persisted, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.Equal(t, "tok-1", persisted.AccessToken)
}

func TestLoginCarriesOrganizationFallback(t *testing.T) {
	svc := clientService()
	svc.profile.OrganizationID = "org-1"
	svc.profile.OrganizationName = "Acme Holdings"
	svc.entities = nil
	mgr := NewManager(svc, &MemStore{})

	_, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)

	sess := mgr.Session()
	require.NotNil(t, sess)
	assert.Empty(t, sess.Entities)
	assert.Equal(t, "org-1", sess.OrganizationID)
	assert.Equal(t, "Acme Holdings", sess.OrganizationName)
}

func TestLoginAgainstRemoteService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/login/":
			io.WriteString(w, `{"access_token":"tok-1","role":"CLIENT_USER"}`)
		case "/profile/":
			io.WriteString(w, `{"sub":"user@example.com","name":"Asha","role":"CLIENT_USER",
				"organization_id":"org-1","organization_name":"Acme Holdings"}`)
		case "/api/entities/":
			http.Error(w, `{"detail":"No entities"}`, http.StatusNotFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := api.New(api.Config{IdentityURL: srv.URL, FinanceURL: srv.URL})
	mgr := NewManager(client, &MemStore{})

	pending, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)
	assert.False(t, pending)

	// A user with no entity memberships still resolves an entity through
	// the organization carried on the profile payload.
	sess := mgr.Session()
	require.NotNil(t, sess)
	assert.Empty(t, sess.Entities)
	assert.Equal(t, "org-1", sess.OrganizationID)
	assert.Equal(t, "Acme Holdings", sess.OrganizationName)
	assert.Equal(t, "tok-1", client.AuthToken())
}

func TestLoginRejectsNonClientRole(t *testing.T) {
	svc := clientService()
	svc.loginResp.Role = models.RoleCAAccountant
	mgr := NewManager(svc, &MemStore{})

	_, err := mgr.Login(context.Background(), "acct@example.com", "pw")
	assert.ErrorIs(t, err, api.ErrPermissionDenied)
	assert.Equal(t, StateLoading, mgr.State())
	assert.Empty(t, svc.token, "token must not be applied for rejected roles")
}

func TestLoginProfileFailureClearsToken(t *testing.T) {
	svc := clientService()
	svc.profileErr = errors.New("boom")
	store := &MemStore{}
	mgr := NewManager(svc, store)

	_, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.Error(t, err)
	assert.Empty(t, svc.token)
	persisted, _ := store.Load()
	assert.Nil(t, persisted)
}

func TestLoginTwoFactorHeldUntilVerify(t *testing.T) {
	svc := clientService()
	svc.profile.Is2FAEnabled = true
	store := &MemStore{}
	mgr := NewManager(svc, store)

	pending, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, pending)
	assert.NotEqual(t, StateAuthenticated, mgr.State())

	persisted, _ := store.Load()
	assert.Nil(t, persisted, "nothing persists before OTP verification")

	require.NoError(t, mgr.VerifyOTP(context.Background(), "123456"))
	assert.Equal(t, []string{"123456"}, svc.verifyOTPs)
	assert.Equal(t, StateAuthenticated, mgr.State())

	persisted, _ = store.Load()
	require.NotNil(t, persisted)
	assert.True(t, persisted.Is2FAEnabled)
}

func TestVerifyOTPWithoutPendingLogin(t *testing.T) {
	mgr := NewManager(clientService(), &MemStore{})
	err := mgr.VerifyOTP(context.Background(), "123456")
	assert.ErrorIs(t, err, ErrNoPendingLogin)
}

func TestVerifyOTPFailureKeepsPending(t *testing.T) {
	svc := clientService()
	svc.profile.Is2FAEnabled = true
	mgr := NewManager(svc, &MemStore{})

	_, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)

	svc.verifyErr = errors.New("bad otp")
	require.Error(t, mgr.VerifyOTP(context.Background(), "000000"))

	// A second attempt with a good code still completes.
	svc.verifyErr = nil
	require.NoError(t, mgr.VerifyOTP(context.Background(), "123456"))
	assert.Equal(t, StateAuthenticated, mgr.State())
}

func TestLoadValidSession(t *testing.T) {
	svc := clientService()
	store := &MemStore{}
	require.NoError(t, store.Save(&models.Session{
		Principal:   models.Principal{Sub: "user@example.com", Role: models.RoleClientUser},
		AccessToken: signedToken(t, time.Now().Add(time.Hour)),
	}))

	mgr := NewManager(svc, store)
	require.NoError(t, mgr.Load(context.Background()))
	assert.Equal(t, StateAuthenticated, mgr.State())
	assert.NotEmpty(t, svc.token)
}

func TestLoadExpiredSessionDiscarded(t *testing.T) {
	store := &MemStore{}
	require.NoError(t, store.Save(&models.Session{
		Principal:   models.Principal{Sub: "user@example.com"},
		AccessToken: signedToken(t, time.Now().Add(-time.Hour)),
	}))

	mgr := NewManager(clientService(), store)
	require.NoError(t, mgr.Load(context.Background()))
	assert.Equal(t, StateUnauthenticated, mgr.State())

	persisted, _ := store.Load()
	assert.Nil(t, persisted, "expired sessions are cleared from the store")
}

func TestLoadMalformedToken(t *testing.T) {
	store := &MemStore{}
	require.NoError(t, store.Save(&models.Session{AccessToken: "not-a-jwt"}))

	mgr := NewManager(clientService(), store)
	require.NoError(t, mgr.Load(context.Background()))
	assert.Equal(t, StateUnauthenticated, mgr.State())
}

func TestLoadEmptyStore(t *testing.T) {
	mgr := NewManager(clientService(), &MemStore{})
	require.NoError(t, mgr.Load(context.Background()))
	assert.Equal(t, StateUnauthenticated, mgr.State())
	assert.Nil(t, mgr.Session())
}

func TestLogoutClearsEverything(t *testing.T) {
	svc := clientService()
	store := &MemStore{}
	mgr := NewManager(svc, store)

	_, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(context.Background()))
	assert.Equal(t, StateUnauthenticated, mgr.State())
	assert.Nil(t, mgr.Session())
	assert.Empty(t, svc.token)

	persisted, _ := store.Load()
	assert.Nil(t, persisted)
}

func TestUpdateNameRePersists(t *testing.T) {
	svc := clientService()
	store := &MemStore{}
	mgr := NewManager(svc, store)

	_, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, mgr.UpdateName(context.Background(), "Asha", "Rao"))
	assert.Equal(t, "Asha Rao", mgr.Session().Name)

	persisted, _ := store.Load()
	require.NotNil(t, persisted)
	assert.Equal(t, "Asha Rao", persisted.Name)
}

func TestMutationsRequireSession(t *testing.T) {
	mgr := NewManager(clientService(), &MemStore{})
	ctx := context.Background()

	assert.ErrorIs(t, mgr.UpdateName(ctx, "A", "B"), ErrNotAuthenticated)
	assert.ErrorIs(t, mgr.UpdatePassword(ctx, "a", "b", "b"), ErrNotAuthenticated)
	assert.ErrorIs(t, mgr.SetTwoFactor(ctx, true), ErrNotAuthenticated)
}

func TestSetTwoFactorPatchesSession(t *testing.T) {
	svc := clientService()
	store := &MemStore{}
	mgr := NewManager(svc, store)

	_, err := mgr.Login(context.Background(), "user@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, mgr.SetTwoFactor(context.Background(), true))
	assert.True(t, mgr.Session().Is2FAEnabled)

	persisted, _ := store.Load()
	require.NotNil(t, persisted)
	assert.True(t, persisted.Is2FAEnabled)
}

func TestTokenUsable(t *testing.T) {
	assert.False(t, tokenUsable(""))
	assert.False(t, tokenUsable("garbage"))
	assert.False(t, tokenUsable(signedToken(t, time.Now().Add(-time.Minute))))
	assert.True(t, tokenUsable(signedToken(t, time.Now().Add(time.Minute))))
	assert.True(t, tokenUsable(signedToken(t, time.Time{})), "tokens without exp are accepted")
}
