package godev

type EmploymentType string

const (
	EmploymentCLT        EmploymentType = "CLT"
	EmploymentPJ         EmploymentType = "PJ"
	EmploymentFreelance  EmploymentType = "FREELANCE"
	EmploymentInternship EmploymentType = "INTERNSHIP"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentCLT, EmploymentPJ, EmploymentFreelance, EmploymentInternship:
		return true
	}
	return false
}

type WorkModel string

const (
	WorkModelRemote WorkModel = "REMOTE"
	WorkModelHybrid WorkModel = "HYBRID"
	WorkModelOnSite WorkModel = "ON_SITE"
)

func (m WorkModel) Valid() bool {
	switch m {
	case WorkModelRemote, WorkModelHybrid, WorkModelOnSite:
		return true
	}
	return false
}

type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "PENDING"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusInterview   ApplicationStatus = "INTERVIEW"
	StatusApproved    ApplicationStatus = "APPROVED"
	StatusRejected    ApplicationStatus = "REJECTED"
	StatusWithdrawn   ApplicationStatus = "WITHDRAWN"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusUnderReview, StatusInterview, StatusApproved, StatusRejected, StatusWithdrawn:
		return true
	}
	return false
}

type UserRole string

const (
	RoleCandidate    UserRole = "CANDIDATE"
	RoleRecruiter    UserRole = "RECRUITER"
	RoleCompanyAdmin UserRole = "COMPANY_ADMIN"
	RoleAdmin        UserRole = "ADMIN"
)

type CompanySize string

const (
	CompanySmall      CompanySize = "SMALL"
	CompanyMedium     CompanySize = "MEDIUM"
	CompanyLarge      CompanySize = "LARGE"
	CompanyEnterprise CompanySize = "ENTERPRISE"
)

type JobsSortBy string

const (
	SortByCreatedAt         JobsSortBy = "createdAt"
	SortBySalaryMin         JobsSortBy = "salaryMin"
	SortBySalaryMax         JobsSortBy = "salaryMax"
	SortByApplicationsCount JobsSortBy = "applicationsCount"
)

type ApplicationsSortBy string

const (
	SortByAppliedAt ApplicationsSortBy = "appliedAt"
	SortByUpdatedAt ApplicationsSortBy = "updatedAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
