package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/thehfhotel/loyalty-backend/internal/auth"
)

type mockRepository struct {
	mu      sync.Mutex
	created []*auth.Credential

	createFn       func(ctx context.Context, cred *auth.Credential) error
	getByIDFn      func(ctx context.Context, id uuid.UUID) (*auth.Credential, error)
	findByPrefixFn func(ctx context.Context, prefix string) ([]auth.Credential, error)
	listFn         func(ctx context.Context) ([]auth.Credential, error)
	revokeFn       func(ctx context.Context, id uuid.UUID) error
	countAllFn     func(ctx context.Context) (int, error)
}

func (m *mockRepository) Create(ctx context.Context, cred *auth.Credential) error {
	m.mu.Lock()
	m.created = append(m.created, cred)
	m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(ctx, cred)
	}
	cred.ID = uuid.New()
	return nil
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*auth.Credential, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, auth.ErrCredentialNotFound
}

func (m *mockRepository) FindByPrefix(ctx context.Context, prefix string) ([]auth.Credential, error) {
	if m.findByPrefixFn != nil {
		return m.findByPrefixFn(ctx, prefix)
	}
	return nil, nil
}

func (m *mockRepository) List(ctx context.Context) ([]auth.Credential, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, id)
	}
	return nil
}

func (m *mockRepository) CountAll(ctx context.Context) (int, error) {
	if m.countAllFn != nil {
		return m.countAllFn(ctx)
	}
	return 0, nil
}

func (m *mockRepository) createdCreds() []*auth.Credential {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*auth.Credential, len(m.created))
	copy(out, m.created)
	return out
}

// bcrypt.MinCost keeps the hashing rounds cheap in tests.
func newTestService(repo auth.Repository) *auth.Service {
	return auth.NewService(repo, bcrypt.MinCost)
}

// --- GenerateKey Tests ---

func TestGenerateKey_Format(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockRepository{})

	rawKey, prefix, hash, err := svc.GenerateKey()

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rawKey, "hfl_"))
	// 4 chars of "hfl_" plus 43 chars of unpadded base64 over 32 bytes.
	assert.Len(t, rawKey, 47)
	assert.Len(t, prefix, 8)
	assert.Equal(t, rawKey[:8], prefix)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawKey)))
}

func TestGenerateKey_KeysAreUnique(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockRepository{})

	first, _, _, err := svc.GenerateKey()
	require.NoError(t, err)
	second, _, _, err := svc.GenerateKey()
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

// --- Authenticate Tests ---

func TestAuthenticate_Success(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil)
	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	customerID := uuid.New()
	cred := auth.Credential{
		ID:           uuid.New(),
		Name:         "mobile-app",
		CustomerID:   &customerID,
		Role:         auth.RoleCustomer,
		ApiKeyPrefix: prefix,
		ApiKeyHash:   hash,
	}

	var seenPrefix string
	repo := &mockRepository{
		findByPrefixFn: func(_ context.Context, p string) ([]auth.Credential, error) {
			seenPrefix = p
			return []auth.Credential{cred}, nil
		},
	}
	svc = newTestService(repo)

	identity, err := svc.Authenticate(context.Background(), rawKey)

	require.NoError(t, err)
	assert.Equal(t, prefix, seenPrefix)
	assert.Equal(t, cred.ID, identity.CredentialID)
	assert.Equal(t, "mobile-app", identity.Name)
	assert.Equal(t, auth.RoleCustomer, identity.Role)
	require.NotNil(t, identity.CustomerID)
	assert.Equal(t, customerID, *identity.CustomerID)
}

func TestAuthenticate_PicksMatchingCandidate(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil)
	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	otherHash, err := bcrypt.GenerateFromPassword([]byte("hfl_someOtherKey"), bcrypt.MinCost)
	require.NoError(t, err)

	match := auth.Credential{ID: uuid.New(), Name: "right", Role: auth.RoleService, ApiKeyPrefix: prefix, ApiKeyHash: hash}
	decoy := auth.Credential{ID: uuid.New(), Name: "wrong", Role: auth.RoleAdmin, ApiKeyPrefix: prefix, ApiKeyHash: string(otherHash)}

	repo := &mockRepository{
		findByPrefixFn: func(_ context.Context, _ string) ([]auth.Credential, error) {
			return []auth.Credential{decoy, match}, nil
		},
	}
	svc = newTestService(repo)

	identity, err := svc.Authenticate(context.Background(), rawKey)

	require.NoError(t, err)
	assert.Equal(t, match.ID, identity.CredentialID)
	assert.Equal(t, "right", identity.Name)
}

func TestAuthenticate_UnknownKey(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		findByPrefixFn: func(_ context.Context, _ string) ([]auth.Credential, error) {
			return []auth.Credential{}, nil
		},
	}
	svc := newTestService(repo)

	identity, err := svc.Authenticate(context.Background(), "hfl_doesNotExistAnywhere")

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestAuthenticate_WrongKeySamePrefix(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil)
	rawKey, prefix, hash, err := svc.GenerateKey()
	require.NoError(t, err)

	repo := &mockRepository{
		findByPrefixFn: func(_ context.Context, _ string) ([]auth.Credential, error) {
			return []auth.Credential{{ID: uuid.New(), ApiKeyPrefix: prefix, ApiKeyHash: hash}}, nil
		},
	}
	svc = newTestService(repo)

	identity, err := svc.Authenticate(context.Background(), rawKey[:len(rawKey)-1]+"X")

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
}

func TestAuthenticate_TooShort(t *testing.T) {
	t.Parallel()

	called := false
	repo := &mockRepository{
		findByPrefixFn: func(_ context.Context, _ string) ([]auth.Credential, error) {
			called = true
			return nil, nil
		},
	}
	svc := newTestService(repo)

	identity, err := svc.Authenticate(context.Background(), "hfl_")

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, auth.ErrInvalidKey)
	assert.False(t, called)
}

func TestAuthenticate_RepositoryError(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("connection refused")
	repo := &mockRepository{
		findByPrefixFn: func(_ context.Context, _ string) ([]auth.Credential, error) {
			return nil, repoErr
		},
	}
	svc := newTestService(repo)

	identity, err := svc.Authenticate(context.Background(), "hfl_longEnoughKey")

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, repoErr)
	assert.NotErrorIs(t, err, auth.ErrInvalidKey)
}

// --- BootstrapAdmin Tests ---

func TestBootstrapAdmin_CreatesFirstCredential(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		countAllFn: func(_ context.Context) (int, error) { return 0, nil },
	}
	svc := newTestService(repo)

	rawKey, err := svc.BootstrapAdmin(context.Background())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rawKey, "hfl_"))

	created := repo.createdCreds()
	require.Len(t, created, 1)
	cred := created[0]
	assert.Equal(t, "bootstrap-admin", cred.Name)
	assert.Equal(t, auth.RoleAdmin, cred.Role)
	assert.Nil(t, cred.CustomerID)
	assert.Equal(t, rawKey[:8], cred.ApiKeyPrefix)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(cred.ApiKeyHash), []byte(rawKey)))
}

func TestBootstrapAdmin_NoopWhenCredentialsExist(t *testing.T) {
	t.Parallel()

	repo := &mockRepository{
		countAllFn: func(_ context.Context) (int, error) { return 3, nil },
	}
	svc := newTestService(repo)

	rawKey, err := svc.BootstrapAdmin(context.Background())

	require.NoError(t, err)
	assert.Empty(t, rawKey)
	assert.Empty(t, repo.createdCreds())
}

func TestBootstrapAdmin_CountError(t *testing.T) {
	t.Parallel()

	countErr := errors.New("relation does not exist")
	repo := &mockRepository{
		countAllFn: func(_ context.Context) (int, error) { return 0, countErr },
	}
	svc := newTestService(repo)

	rawKey, err := svc.BootstrapAdmin(context.Background())

	assert.Empty(t, rawKey)
	assert.ErrorIs(t, err, countErr)
}

func TestValidRole(t *testing.T) {
	t.Parallel()

	assert.True(t, auth.ValidRole(auth.RoleAdmin))
	assert.True(t, auth.ValidRole(auth.RoleService))
	assert.True(t, auth.ValidRole(auth.RoleCustomer))
	assert.False(t, auth.ValidRole("superuser"))
	assert.False(t, auth.ValidRole(""))
}
