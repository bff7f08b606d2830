package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gitify-app/gitify-cli/internal/model"
)

// mockSessionRepo is an in-memory stand-in for the sqlite-backed
// repository. loadErr/saveErr/clearErr simulate a broken disk.
type mockSessionRepo struct {
	user     *model.User
	loadErr  error
	saveErr  error
	clearErr error

	saveCalls  int
	clearCalls int
}

func (m *mockSessionRepo) SaveUser(_ context.Context, user *model.User) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.user = user
	return nil
}

func (m *mockSessionRepo) LoadUser(_ context.Context) (*model.User, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.user, nil
}

func (m *mockSessionRepo) Clear(_ context.Context) error {
	m.clearCalls++
	if m.clearErr != nil {
		return m.clearErr
	}
	m.user = nil
	return nil
}

func newTestStore(t *testing.T, repo *mockSessionRepo) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, logger)
}

func testUser() *model.User {
	return &model.User{ID: "u1", Username: "alice", Email: "alice@example.com"}
}

// =========================================================================
// STATE TRANSITION TESTS
// =========================================================================

func TestNew_StartsLoading(t *testing.T) {
	s := newTestStore(t, &mockSessionRepo{})
	snap := s.Snapshot()
	if !snap.IsLoading {
		t.Error("fresh store should be loading")
	}
	if snap.IsAuthenticated || snap.User != nil {
		t.Error("fresh store should not be authenticated")
	}
}

func TestSetUser_AuthenticatesAndPersists(t *testing.T) {
	repo := &mockSessionRepo{}
	s := newTestStore(t, repo)

	s.SetUser(context.Background(), testUser())

	snap := s.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil {
		t.Fatal("SetUser should authenticate")
	}
	if snap.IsLoading {
		t.Error("SetUser should end loading")
	}
	if repo.saveCalls != 1 {
		t.Errorf("saveCalls = %d, want 1", repo.saveCalls)
	}
}

func TestCheckAuth_RestoresPersistedUser(t *testing.T) {
	repo := &mockSessionRepo{user: testUser()}
	s := newTestStore(t, repo)

	s.CheckAuth(context.Background())

	snap := s.Snapshot()
	if !snap.IsAuthenticated {
		t.Fatal("CheckAuth should restore the persisted user")
	}
	if snap.User.Username != "alice" {
		t.Errorf("Username = %q, want alice", snap.User.Username)
	}
	if snap.IsLoading {
		t.Error("CheckAuth should end loading")
	}
}

func TestCheckAuth_NoPersistedUser(t *testing.T) {
	s := newTestStore(t, &mockSessionRepo{})

	s.CheckAuth(context.Background())

	snap := s.Snapshot()
	if snap.IsAuthenticated || snap.User != nil {
		t.Error("empty storage should resolve to logged out")
	}
	if snap.IsLoading {
		t.Error("CheckAuth should end loading even when logged out")
	}
}

// Storage failure resolves to logged out — never an error, never a hang.
func TestCheckAuth_StorageError(t *testing.T) {
	repo := &mockSessionRepo{user: testUser(), loadErr: errors.New("disk gone")}
	s := newTestStore(t, repo)

	s.CheckAuth(context.Background())

	snap := s.Snapshot()
	if snap.IsAuthenticated {
		t.Error("storage error should resolve to logged out")
	}
	if snap.IsLoading {
		t.Error("storage error should still end loading")
	}
}

// =========================================================================
// LOGOUT TESTS
// =========================================================================

// Logout must leave the state self-consistent: no user, not
// authenticated, not loading, persisted record gone.
func TestLogout_SelfConsistent(t *testing.T) {
	repo := &mockSessionRepo{}
	s := newTestStore(t, repo)
	s.SetUser(context.Background(), testUser())

	s.Logout(context.Background())

	snap := s.Snapshot()
	if snap.User != nil {
		t.Error("Logout should drop the user")
	}
	if snap.IsAuthenticated {
		t.Error("Logout should deauthenticate")
	}
	if snap.IsLoading {
		t.Error("Logout should not leave the store loading")
	}
	if repo.clearCalls != 1 {
		t.Errorf("clearCalls = %d, want 1", repo.clearCalls)
	}
	if repo.user != nil {
		t.Error("persisted record should be gone")
	}
}

// A fresh store over the same (cleared) repo must come up logged out —
// the other half of the logout guarantee.
func TestLogout_DoesNotResurrect(t *testing.T) {
	repo := &mockSessionRepo{}
	s1 := newTestStore(t, repo)
	s1.SetUser(context.Background(), testUser())
	s1.Logout(context.Background())

	s2 := newTestStore(t, repo)
	s2.CheckAuth(context.Background())
	if s2.Snapshot().IsAuthenticated {
		t.Error("session must not survive logout across processes")
	}
}

func TestLogout_ClearErrorStillLogsOut(t *testing.T) {
	repo := &mockSessionRepo{user: testUser(), clearErr: errors.New("disk gone")}
	s := newTestStore(t, repo)
	s.CheckAuth(context.Background())

	s.Logout(context.Background())

	if s.Snapshot().IsAuthenticated {
		t.Error("in-memory logout must succeed even when the disk fails")
	}
}

// =========================================================================
// PERSISTENCE FAILURE TESTS
// =========================================================================

func TestSetUser_PersistFailureKeepsSession(t *testing.T) {
	repo := &mockSessionRepo{saveErr: errors.New("disk full")}
	s := newTestStore(t, repo)

	s.SetUser(context.Background(), testUser())

	if !s.Snapshot().IsAuthenticated {
		t.Error("the in-memory session must survive a persistence failure")
	}
}

// =========================================================================
// INVARIANT AND SUBSCRIPTION TESTS
// =========================================================================

// IsAuthenticated must equal (User != nil) through every transition.
func TestInvariant_AuthenticatedIffUser(t *testing.T) {
	s := newTestStore(t, &mockSessionRepo{})
	ctx := context.Background()

	check := func(step string) {
		t.Helper()
		snap := s.Snapshot()
		if snap.IsAuthenticated != (snap.User != nil) {
			t.Errorf("%s: IsAuthenticated=%v but User=%v", step, snap.IsAuthenticated, snap.User)
		}
	}

	check("fresh")
	s.CheckAuth(ctx)
	check("checkauth empty")
	s.SetUser(ctx, testUser())
	check("set user")
	s.SetLoading(true)
	check("loading")
	s.Logout(ctx)
	check("logout")
}

func TestSubscribe_DeliversLatestSnapshot(t *testing.T) {
	s := newTestStore(t, &mockSessionRepo{})
	ch := s.Subscribe()

	ctx := context.Background()
	s.SetUser(ctx, testUser())
	s.Logout(ctx) // overwrites the undelivered snapshot

	snap := <-ch
	if snap.IsAuthenticated {
		t.Error("a slow subscriber should see the latest state, not a backlog")
	}
}
