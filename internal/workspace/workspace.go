package workspace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/metrics"
	"godev-candidate-bot/internal/quota"
	"godev-candidate-bot/internal/session"
	"godev-candidate-bot/internal/storage"
	"godev-candidate-bot/internal/store"
	"godev-candidate-bot/internal/viewmodel"

	"go.uber.org/zap"
)

const (
	MsgApplied     = "Candidatura enviada com sucesso!"
	MsgApplyFailed = "Não foi possível enviar sua candidatura."
)

// Notice is an error whose text is shown to the candidate as is.
type Notice struct {
	Text string
	Err  error
}

func (n *Notice) Error() string {
	return n.Text
}

func (n *Notice) Unwrap() error {
	return n.Err
}

var (
	ErrResumeRequired   = &Notice{Text: "Selecione um currículo para enviar."}
	ErrQuotaExceeded    = &Notice{Text: "Você atingiu o limite diário de candidaturas rápidas."}
	ErrNotAuthenticated = &Notice{Text: "Faça login para continuar."}
)

type Options struct {
	JobsLimit         int
	ApplicationsLimit int
	QuotaLimit        int
	Clock             func() time.Time
}

// Workspace is everything one candidate needs: session, an authenticated
// client and the stores, all persisted under one storage namespace.
type Workspace struct {
	ID string

	Session      *session.Session
	Jobs         *store.JobsStore
	Applications *store.ApplicationsStore
	Resumes      *store.ResumesStore
	Dashboard    *store.DashboardStore
	Quota        *quota.Limiter

	// held from the quota check until the apply is registered
	applyMu sync.Mutex

	client *godev.Client
	logger *zap.Logger
}

func New(id string, port storage.Port, client *godev.Client, opts Options, logger *zap.Logger, m *metrics.Metrics) *Workspace {
	logger = logger.With(zap.String("workspace", id))

	sess := session.New(port, logger)
	authed := client.WithTokens(sess)

	quotaOpts := []quota.Option{quota.WithMetrics(m)}
	if opts.QuotaLimit > 0 {
		quotaOpts = append(quotaOpts, quota.WithLimit(opts.QuotaLimit))
	}
	if opts.Clock != nil {
		quotaOpts = append(quotaOpts, quota.WithClock(opts.Clock))
	}

	return &Workspace{
		ID:           id,
		Session:      sess,
		Jobs:         store.NewJobsStore(authed, opts.JobsLimit, logger, m),
		Applications: store.NewApplicationsStore(authed, opts.ApplicationsLimit, logger, m),
		Resumes:      store.NewResumesStore(authed, logger, m),
		Dashboard:    store.NewDashboardStore(authed, logger, m),
		Quota:        quota.New(port, logger, quotaOpts...),
		client:       authed,
		logger:       logger,
	}
}

// Open restores the persisted session.
func (w *Workspace) Open(ctx context.Context) {
	w.Session.Init(ctx)
	w.logger.Debug("workspace opened", zap.Bool("authenticated", w.Session.IsAuthenticated()))
}

func (w *Workspace) Client() *godev.Client {
	return w.client
}

func (w *Workspace) Login(ctx context.Context, email, password string) (*godev.AuthUser, error) {
	result, err := w.client.Login(ctx, godev.LoginPayload{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}

	return w.startSession(ctx, result), nil
}

func (w *Workspace) Register(ctx context.Context, name, email, password string) (*godev.AuthUser, error) {
	result, err := w.client.Register(ctx, godev.RegisterPayload{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
		Role:     godev.RoleCandidate,
	})
	if err != nil {
		return nil, err
	}

	return w.startSession(ctx, result), nil
}

func (w *Workspace) startSession(ctx context.Context, result *godev.AuthResult) *godev.AuthUser {
	user := result.User.AuthUser()
	w.Session.SetAccessToken(ctx, result.Token)
	w.Session.SetUser(ctx, &user)
	w.logger.Info("candidate signed in", zap.String("user_id", user.ID))
	return &user
}

func (w *Workspace) Logout(ctx context.Context) {
	w.Session.Reset(ctx)
	w.logger.Info("candidate signed out")
}

// UpdateProfile changes name and/or password and keeps the session user in sync.
func (w *Workspace) UpdateProfile(ctx context.Context, name, password string) (*godev.AuthUser, error) {
	if !w.Session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	updated, err := w.client.UpdateMyProfile(ctx, godev.UpdateProfilePayload{
		Name:     strings.TrimSpace(name),
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	user := updated.AuthUser()
	w.Session.SetUser(ctx, &user)
	return &user, nil
}

type QuickApplyForm struct {
	JobID       string
	ResumeID    string
	CoverLetter string
}

type QuickApplyResult struct {
	Application *godev.Application
	Message     string
	Remaining   int
}

// QuickApply submits an application with one of the candidate's resumes.
// The quota is checked before the request and consumed only when it succeeds.
// Concurrent calls on the same workspace run one at a time.
func (w *Workspace) QuickApply(ctx context.Context, form QuickApplyForm, plan quota.Plan) (*QuickApplyResult, error) {
	if form.ResumeID == "" {
		return nil, ErrResumeRequired
	}

	w.applyMu.Lock()
	defer w.applyMu.Unlock()

	if decision := w.Quota.CanApply(ctx, plan); !decision.OK {
		w.logger.Info("quick apply denied by quota", zap.String("job_id", form.JobID))
		return nil, ErrQuotaExceeded
	}

	app, err := w.client.CreateApplication(ctx, godev.CreateApplicationPayload{
		JobID:       form.JobID,
		ResumeID:    form.ResumeID,
		CoverLetter: strings.TrimSpace(form.CoverLetter),
	})
	if err != nil {
		w.logger.Warn("quick apply failed", zap.String("job_id", form.JobID), zap.Error(err))
		return nil, &Notice{Text: MsgApplyFailed, Err: err}
	}

	w.Quota.RegisterApply(ctx, plan)
	w.Jobs.MarkApplied(form.JobID)

	return &QuickApplyResult{
		Application: app,
		Message:     MsgApplied,
		Remaining:   w.Quota.CanApply(ctx, plan).Remaining,
	}, nil
}

// ResumeOptions loads the resumes on first use.
func (w *Workspace) ResumeOptions(ctx context.Context) []viewmodel.ResumeOption {
	if !w.Resumes.FetchedOnce() {
		w.Resumes.Fetch(ctx)
	}
	return w.Resumes.Options()
}

func (w *Workspace) CanSubmitQuickApply(ctx context.Context) bool {
	return len(w.ResumeOptions(ctx)) > 0
}

func (w *Workspace) ResumeDownloadURL(ctx context.Context, resumeID string) (string, error) {
	u, err := w.client.ResumeDownloadURL(ctx, resumeID)
	if err != nil {
		return "", fmt.Errorf("download resume %s: %w", resumeID, err)
	}
	return u, nil
}

// UserMessage is the text to show for err, falling back when it carries none.
func UserMessage(err error, fallback string) string {
	var notice *Notice
	if errors.As(err, &notice) {
		return notice.Text
	}
	var fileErr *store.FileError
	if errors.As(err, &fileErr) {
		return fileErr.Error()
	}
	var verr *godev.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		return fmt.Sprintf("Campo inválido: %s", verr.Fields[0].Field)
	}
	return godev.Message(err, fallback)
}
