package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/quota"
	"godev-candidate-bot/internal/storage"
	"godev-candidate-bot/internal/storage/memory"
	"godev-candidate-bot/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type backend struct {
	mu          sync.Mutex
	applyStatus int
	applyDelay  time.Duration
	applies     []godev.CreateApplicationPayload
	auth        []string
	resumes     []godev.Resume
}

func (b *backend) applyCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.applies)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
		"meta":    map[string]interface{}{"timestamp": "2025-03-10T12:00:00Z", "durationMs": 1},
	})
}

func writeFailure(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"data":    nil,
		"message": msg,
	})
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()

	b := &backend{resumes: []godev.Resume{{
		ID:           "R1",
		Filename:     "cv-123.pdf",
		OriginalName: "cv.pdf",
		Size:         2048,
		UploadedAt:   "2025-03-01T12:00:00Z",
	}}}

	user := godev.APIUser{ID: "U1", Name: "Ana", Email: "ana@example.com", Role: godev.RoleCandidate}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var p godev.LoginPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		if p.Password != "secret1" {
			writeFailure(w, http.StatusUnauthorized, "Credenciais inválidas")
			return
		}
		writeData(w, http.StatusOK, godev.AuthResult{User: user, Token: "tok-1"})
	})
	mux.HandleFunc("PUT /users/me", func(w http.ResponseWriter, r *http.Request) {
		var p godev.UpdateProfilePayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		updated := user
		updated.Name = p.Name
		writeData(w, http.StatusOK, updated)
	})
	mux.HandleFunc("GET /resumes", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeData(w, http.StatusOK, godev.Page[godev.Resume]{
			Items: b.resumes,
			Meta:  godev.PaginationMeta{Total: len(b.resumes), Page: 1, Limit: 50, TotalPages: 1},
		})
	})
	mux.HandleFunc("POST /applications", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		delay := b.applyDelay
		b.mu.Unlock()
		time.Sleep(delay)

		b.mu.Lock()
		defer b.mu.Unlock()

		b.auth = append(b.auth, r.Header.Get("Authorization"))
		if b.applyStatus != 0 {
			writeFailure(w, b.applyStatus, "Erro interno")
			return
		}

		var p godev.CreateApplicationPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		b.applies = append(b.applies, p)
		writeData(w, http.StatusCreated, godev.Application{
			ID:       "A1",
			JobID:    p.JobID,
			ResumeID: p.ResumeID,
			Status:   godev.StatusPending,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return b, srv
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newWorkspace(t *testing.T, url string, port storage.Port, c *clock) *Workspace {
	t.Helper()
	client := godev.New(url, 5*time.Second, zap.NewNop(), godev.WithBackoff(time.Millisecond))
	w := New("tg:1", port, client, Options{Clock: c.Now}, zap.NewNop(), nil)
	w.Open(context.Background())
	return w
}

func TestQuickApplyDailyQuota(t *testing.T) {
	b, srv := newBackend(t)
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)}
	w := newWorkspace(t, srv.URL, memory.New(), c)
	ctx := context.Background()
	free := quota.Plan{}

	assert.True(t, w.CanSubmitQuickApply(ctx))

	res, err := w.QuickApply(ctx, QuickApplyForm{JobID: "J1", ResumeID: "R1", CoverLetter: "  Olá!  "}, free)
	require.NoError(t, err)
	assert.Equal(t, MsgApplied, res.Message)
	assert.Equal(t, "A1", res.Application.ID)
	assert.Equal(t, 0, res.Remaining)
	require.Len(t, b.applies, 1)
	assert.Equal(t, godev.CreateApplicationPayload{JobID: "J1", ResumeID: "R1", CoverLetter: "Olá!"}, b.applies[0])

	_, err = w.QuickApply(ctx, QuickApplyForm{JobID: "J2", ResumeID: "R1"}, free)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 1, b.applyCount())

	c.now = c.now.Add(24 * time.Hour)
	_, err = w.QuickApply(ctx, QuickApplyForm{JobID: "J2", ResumeID: "R1"}, free)
	require.NoError(t, err)
	assert.Equal(t, 2, b.applyCount())
	assert.Empty(t, b.applies[1].CoverLetter)
}

func TestQuickApplyConcurrentTapsConsumeQuotaOnce(t *testing.T) {
	b, srv := newBackend(t)
	b.applyDelay = 100 * time.Millisecond
	port := memory.New()
	w := newWorkspace(t, srv.URL, port, &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)})
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = w.QuickApply(ctx, QuickApplyForm{JobID: "J1", ResumeID: "R1"}, quota.Plan{})
		}(i)
	}
	wg.Wait()

	var succeeded, denied int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrQuotaExceeded):
			denied++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, denied)
	assert.Equal(t, 1, b.applyCount())

	raw, err := port.Get(ctx, quota.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dateKey":"2025-03-10","count":1}`, string(raw))
}

func TestQuickApplyRequiresResume(t *testing.T) {
	b, srv := newBackend(t)
	w := newWorkspace(t, srv.URL, memory.New(), &clock{now: time.Now()})

	_, err := w.QuickApply(context.Background(), QuickApplyForm{JobID: "J1"}, quota.Plan{})
	assert.ErrorIs(t, err, ErrResumeRequired)
	assert.Equal(t, "Selecione um currículo para enviar.", err.Error())
	assert.Zero(t, b.applyCount())
	assert.True(t, w.Quota.CanApply(context.Background(), quota.Plan{}).OK)
}

func TestQuickApplyFailureKeepsQuota(t *testing.T) {
	b, srv := newBackend(t)
	b.applyStatus = http.StatusInternalServerError
	w := newWorkspace(t, srv.URL, memory.New(), &clock{now: time.Now()})
	ctx := context.Background()

	_, err := w.QuickApply(ctx, QuickApplyForm{JobID: "J1", ResumeID: "R1"}, quota.Plan{})
	require.Error(t, err)
	assert.Equal(t, MsgApplyFailed, err.Error())

	var apiErr *godev.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)

	b.mu.Lock()
	assert.Len(t, b.auth, 1)
	b.mu.Unlock()
	assert.True(t, w.Quota.CanApply(ctx, quota.Plan{}).OK)
}

func TestQuickApplyPremiumIsUnlimited(t *testing.T) {
	b, srv := newBackend(t)
	w := newWorkspace(t, srv.URL, memory.New(), &clock{now: time.Now()})
	premium := quota.Plan{IsPremium: true}

	for i := 0; i < 3; i++ {
		_, err := w.QuickApply(context.Background(), QuickApplyForm{JobID: "J1", ResumeID: "R1"}, premium)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, b.applyCount())
	assert.True(t, w.Quota.CanApply(context.Background(), quota.Plan{}).OK)
}

func TestLoginPersistsSession(t *testing.T) {
	b, srv := newBackend(t)
	port := memory.New()
	ctx := context.Background()
	c := &clock{now: time.Now()}

	w := newWorkspace(t, srv.URL, port, c)
	_, err := w.Login(ctx, "ana@example.com", "wrong12")
	require.Error(t, err)
	assert.Equal(t, "Credenciais inválidas", UserMessage(err, "Erro ao entrar"))
	assert.False(t, w.Session.IsAuthenticated())

	user, err := w.Login(ctx, " ana@example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "U1", user.ID)

	restored := newWorkspace(t, srv.URL, port, c)
	require.True(t, restored.Session.IsAuthenticated())
	assert.Equal(t, "Ana", restored.Session.User().Name)

	_, err = restored.QuickApply(ctx, QuickApplyForm{JobID: "J1", ResumeID: "R1"}, quota.Plan{})
	require.NoError(t, err)
	b.mu.Lock()
	assert.Equal(t, []string{"Bearer tok-1"}, b.auth)
	b.mu.Unlock()

	updated, err := restored.UpdateProfile(ctx, "Ana Maria", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Equal(t, "Ana Maria", restored.Session.User().Name)

	restored.Logout(ctx)
	assert.False(t, newWorkspace(t, srv.URL, port, c).Session.IsAuthenticated())

	_, err = restored.UpdateProfile(ctx, "Ana", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCanSubmitQuickApplyWithoutResumes(t *testing.T) {
	b, srv := newBackend(t)
	b.resumes = nil
	w := newWorkspace(t, srv.URL, memory.New(), &clock{now: time.Now()})

	assert.False(t, w.CanSubmitQuickApply(context.Background()))
	assert.True(t, w.Resumes.FetchedOnce())
	assert.Empty(t, w.ResumeOptions(context.Background()))
}

func TestRegistryIsolatesCandidates(t *testing.T) {
	_, srv := newBackend(t)
	port := memory.New()
	client := godev.New(srv.URL, 5*time.Second, zap.NewNop())
	reg := NewRegistry(port, client, Options{}, zap.NewNop(), nil)

	var opened []int64
	reg.OnOpen(func(_ context.Context, userID int64, _ *Workspace) {
		opened = append(opened, userID)
	})

	ctx := context.Background()
	first := reg.Get(ctx, 1)
	assert.Same(t, first, reg.Get(ctx, 1))
	second := reg.Get(ctx, 2)
	assert.NotSame(t, first, second)
	assert.Equal(t, []int64{1, 2}, opened)
	assert.Equal(t, 2, reg.Len())

	_, err := first.QuickApply(ctx, QuickApplyForm{JobID: "J1", ResumeID: "R1"}, quota.Plan{})
	require.NoError(t, err)
	assert.False(t, first.Quota.CanApply(ctx, quota.Plan{}).OK)
	assert.True(t, second.Quota.CanApply(ctx, quota.Plan{}).OK)

	_, err = port.Get(ctx, "tg:1:"+quota.StorageKey)
	assert.NoError(t, err)

	_, ok := reg.Peek(3)
	assert.False(t, ok)
}

func TestRegistryOpensOncePerUser(t *testing.T) {
	_, srv := newBackend(t)
	client := godev.New(srv.URL, 5*time.Second, zap.NewNop())
	reg := NewRegistry(memory.New(), client, Options{}, zap.NewNop(), nil)

	var mu sync.Mutex
	opens := make(map[int64]int)
	reg.OnOpen(func(_ context.Context, userID int64, _ *Workspace) {
		time.Sleep(20 * time.Millisecond)
		mu.Lock()
		opens[userID]++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	got := make([]*Workspace, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = reg.Get(context.Background(), int64(i%2)+1)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, map[int64]int{1: 1, 2: 1}, opens)
	for i := range got {
		assert.Same(t, got[i%2], got[i])
	}
	assert.Equal(t, 2, reg.Len())
}

func TestRegistryEvictsIdleWorkspaces(t *testing.T) {
	b, srv := newBackend(t)
	port := memory.New()
	c := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)}
	client := godev.New(srv.URL, 5*time.Second, zap.NewNop())
	reg := NewRegistry(port, client, Options{Clock: c.Now}, zap.NewNop(), nil)
	ctx := context.Background()

	idle := reg.Get(ctx, 1)
	_, err := idle.Login(ctx, "ana@example.com", "secret1")
	require.NoError(t, err)
	_, err = idle.QuickApply(ctx, QuickApplyForm{JobID: "J1", ResumeID: "R1"}, quota.Plan{})
	require.NoError(t, err)

	c.now = c.now.Add(2 * time.Hour)
	active := reg.Get(ctx, 2)

	assert.Equal(t, 1, reg.Evict(time.Hour))
	_, ok := reg.Peek(1)
	assert.False(t, ok)
	got, ok := reg.Peek(2)
	require.True(t, ok)
	assert.Same(t, active, got)

	reopened := reg.Get(ctx, 1)
	assert.NotSame(t, idle, reopened)
	assert.True(t, reopened.Session.IsAuthenticated())
	assert.False(t, reopened.Quota.CanApply(ctx, quota.Plan{}).OK)
	assert.Equal(t, 1, b.applyCount())
}

func TestUserMessage(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want string
	}{
		{name: "notice", err: ErrQuotaExceeded, want: ErrQuotaExceeded.Text},
		{name: "file", err: store.ErrFileNotPDF, want: "Apenas arquivos PDF são permitidos."},
		{name: "api", err: &godev.APIError{Status: 409, Message: "Você já se candidatou"}, want: "Você já se candidatou"},
		{name: "validation", err: &godev.ValidationError{Fields: []godev.ErrorDetail{{Field: "email"}}}, want: "Campo inválido: email"},
		{name: "other", err: errors.New("dial tcp"), want: "fallback"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, UserMessage(tc.err, "fallback"))
		})
	}
}
