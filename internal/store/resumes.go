package store

import (
	"context"
	"io"

	"godev-candidate-bot/internal/api/godev"
	"godev-candidate-bot/internal/metrics"
	"godev-candidate-bot/internal/viewmodel"

	"github.com/ecodeclub/ekit/slice"
	"go.uber.org/zap"
)

const (
	MaxResumeSize  = 15 * 1024 * 1024
	ResumeMimeType = "application/pdf"

	resumesPageLimit = 50
)

type ResumesAPI interface {
	ListResumes(ctx context.Context, page, limit int) (*godev.Page[godev.Resume], error)
	UploadResume(ctx context.Context, filename, mimeType string, content io.Reader) (*godev.Resume, error)
	DeleteResume(ctx context.Context, resumeID string) error
}

// FileError rejects an upload before it reaches the network. The message is
// meant for the candidate.
type FileError struct {
	msg string
}

func (e *FileError) Error() string {
	return e.msg
}

var (
	ErrFileRequired = &FileError{msg: "Envie ou arraste um arquivo de currículo (PDF)."}
	ErrFileNotPDF   = &FileError{msg: "Apenas arquivos PDF são permitidos."}
	ErrFileTooLarge = &FileError{msg: "O arquivo deve ter no máximo 15 MB."}
)

type File struct {
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
}

// ValidateFile applies the client-side upload rules.
func ValidateFile(f *File) error {
	if f == nil || f.Content == nil || f.Size <= 0 {
		return ErrFileRequired
	}
	if f.MimeType != ResumeMimeType {
		return ErrFileNotPDF
	}
	if f.Size > MaxResumeSize {
		return ErrFileTooLarge
	}
	return nil
}

type resumesQuery struct {
	page  int
	limit int
}

type ResumesStore struct {
	api ResumesAPI
	res *Resource[resumesQuery, []godev.Resume]
}

func NewResumesStore(api ResumesAPI, logger *zap.Logger, m *metrics.Metrics) *ResumesStore {
	return &ResumesStore{
		api: api,
		res: NewResource(ResourceConfig[resumesQuery, []godev.Resume]{
			Name:     "resumes",
			Fallback: "Erro ao carregar currículos",
			Load: func(ctx context.Context, q resumesQuery) ([]godev.Resume, error) {
				page, err := api.ListResumes(ctx, q.page, q.limit)
				if err != nil {
					return nil, err
				}
				if page.Items == nil {
					return []godev.Resume{}, nil
				}
				return page.Items, nil
			},
			Logger:  logger,
			Metrics: m,
		}),
	}
}

func (s *ResumesStore) Fetch(ctx context.Context) {
	s.res.Fetch(ctx, resumesQuery{page: 1, limit: resumesPageLimit})
}

// Upload validates f, sends it and puts the created resume first.
func (s *ResumesStore) Upload(ctx context.Context, f *File) (*godev.Resume, error) {
	if err := ValidateFile(f); err != nil {
		s.res.SetError(err.Error())
		return nil, err
	}

	var created *godev.Resume
	err := s.res.Do(ctx, "Erro ao enviar currículo.", func(ctx context.Context) (func([]godev.Resume) []godev.Resume, error) {
		r, err := s.api.UploadResume(ctx, f.Name, f.MimeType, f.Content)
		if err != nil {
			return nil, err
		}
		created = r
		return func(list []godev.Resume) []godev.Resume {
			return append([]godev.Resume{*r}, list...)
		}, nil
	})
	if err != nil {
		return nil, err
	}

	s.res.MarkFetched()
	return created, nil
}

func (s *ResumesStore) Delete(ctx context.Context, id string) error {
	return s.res.Do(ctx, "Erro ao excluir currículo.", func(ctx context.Context) (func([]godev.Resume) []godev.Resume, error) {
		if err := s.api.DeleteResume(ctx, id); err != nil {
			return nil, err
		}
		return func(list []godev.Resume) []godev.Resume {
			return slice.FindAll(list, func(r godev.Resume) bool { return r.ID != id })
		}, nil
	})
}

func (s *ResumesStore) State() State[[]godev.Resume] {
	return s.res.Snapshot()
}

func (s *ResumesStore) Resumes() []godev.Resume {
	return s.res.Snapshot().Data
}

func (s *ResumesStore) FetchedOnce() bool {
	return s.res.Snapshot().FetchedOnce
}

func (s *ResumesStore) Options() []viewmodel.ResumeOption {
	return viewmodel.ResumesToOptions(s.Resumes())
}
