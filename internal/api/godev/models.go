package godev

// Timestamps are kept as the backend's ISO strings; view-model mapping parses them.

type PaginationMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type Page[T any] struct {
	Items []T            `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}

type Company struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Website     *string      `json:"website"`
	Description *string      `json:"description"`
	Industry    *string      `json:"industry"`
	Size        *CompanySize `json:"size"`
	LogoURL     *string      `json:"logoUrl"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
	DeletedAt   *string      `json:"deletedAt"`
}

type Job struct {
	ID                   string         `json:"id"`
	CompanyID            string         `json:"companyId"`
	Company              Company        `json:"company"`
	AppliedByCurrentUser bool           `json:"appliedByCurrentUser"`
	Title                string         `json:"title"`
	Slug                 string         `json:"slug"`
	Description          string         `json:"description"`
	EmploymentType       EmploymentType `json:"employmentType"`
	WorkModel            WorkModel      `json:"workModel"`
	Location             *string        `json:"location"`
	SalaryMin            *float64       `json:"salaryMin"`
	SalaryMax            *float64       `json:"salaryMax"`
	TechStack            []string       `json:"techStack"`
	Responsibilities     []string       `json:"responsibilities"`
	RequirementsMust     []string       `json:"requirementsMust"`
	RequirementsNice     []string       `json:"requirementsNice"`
	Benefits             []string       `json:"benefits"`
	ViewsCount           int            `json:"viewsCount"`
	ApplicationsCount    int            `json:"applicationsCount"`
	IsActive             bool           `json:"isActive"`
	CreatedAt            string         `json:"createdAt"`
	UpdatedAt            string         `json:"updatedAt"`
	PublishedAt          string         `json:"publishedAt"`
	DeletedAt            *string        `json:"deletedAt"`
}

// APIUser is the user shape returned by auth and user endpoints.
type APIUser struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Role      UserRole `json:"role"`
	CompanyID *string  `json:"companyId"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
	DeletedAt *string  `json:"deletedAt"`
}

// AuthUser is the subset of a user kept in the session.
type AuthUser struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      UserRole `json:"role"`
	CompanyID *string  `json:"companyId"`
}

func (u APIUser) AuthUser() AuthUser {
	return AuthUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CompanyID: u.CompanyID,
	}
}

type Resume struct {
	ID           string  `json:"id"`
	UserID       string  `json:"userId"`
	Filename     string  `json:"filename"`
	OriginalName string  `json:"originalName"`
	MimeType     string  `json:"mimeType"`
	Size         int64   `json:"size"`
	StorageURL   string  `json:"storageUrl"`
	UploadedAt   string  `json:"uploadedAt"`
	DeletedAt    *string `json:"deletedAt"`
}

type Application struct {
	ID          string            `json:"id"`
	CandidateID string            `json:"candidateId"`
	JobID       string            `json:"jobId"`
	ResumeID    string            `json:"resumeId"`
	Status      ApplicationStatus `json:"status"`
	CoverLetter *string           `json:"coverLetter"`
	AppliedAt   string            `json:"appliedAt"`
	UpdatedAt   string            `json:"updatedAt"`
	DeletedAt   *string           `json:"deletedAt"`
	Job         Job               `json:"job"`
	Candidate   APIUser           `json:"candidate"`
	Resume      Resume            `json:"resume"`
}

type DashboardKPIs struct {
	TotalActive int `json:"totalActive"`
	UnderReview int `json:"underReview"`
	Interviews  int `json:"interviews"`
	NewMessages int `json:"newMessages"`
}

type MonthlyApplications struct {
	Month int `json:"month"` // 1-12
	Total int `json:"total"`
}

type LastApplication struct {
	ID             string            `json:"id"`
	JobTitle       string            `json:"jobTitle"`
	CompanyName    *string           `json:"companyName"`
	CompanyLogoURL *string           `json:"companyLogoUrl"`
	Location       *string           `json:"location"`
	EmploymentType *EmploymentType   `json:"employmentType"`
	WorkModel      *WorkModel        `json:"workModel"`
	Status         ApplicationStatus `json:"status"`
	CoverLetter    *string           `json:"coverLetter"`
	AppliedAt      string            `json:"appliedAt"`
	UpdatedAt      string            `json:"updatedAt"`
}

type ApplicationsOverview struct {
	KPIs                DashboardKPIs         `json:"kpis"`
	MonthlyApplications []MonthlyApplications `json:"monthlyApplications"`
	LastApplications    []LastApplication     `json:"lastApplications"`
}
