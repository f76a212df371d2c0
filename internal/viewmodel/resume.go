package viewmodel

import (
	"godev-candidate-bot/internal/api/godev"

	"github.com/ecodeclub/ekit/slice"
)

type ResumeOption struct {
	ID          string
	DisplayName string
	FileName    string
	FileSize    string
	UploadedAt  string
}

func ResumeToOption(r godev.Resume) ResumeOption {
	name := r.OriginalName
	if name == "" {
		name = r.Filename
	}

	return ResumeOption{
		ID:          r.ID,
		DisplayName: name,
		FileName:    r.Filename,
		FileSize:    FormatSize(r.Size),
		UploadedAt:  FormatDate(ParseTime(r.UploadedAt)),
	}
}

func ResumesToOptions(resumes []godev.Resume) []ResumeOption {
	return slice.Map(resumes, func(_ int, r godev.Resume) ResumeOption {
		return ResumeToOption(r)
	})
}
