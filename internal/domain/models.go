package domain

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStudent Role = "student"
)

func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleStudent
}

// Session is the identity handle issued by the identity provider. It may be
// unverified; callers decide what an unverified session is allowed to do.
type Session struct {
	ID            string
	Email         string
	DisplayName   string
	EmailVerified bool

	// Token is the provider credential backing this session. Verification
	// emails and display-name updates are issued against it; it is never
	// exposed to the presentation layer.
	Token string
}

type UserProfile struct {
	UserID          string
	Name            string
	About           string
	Email           string
	Role            Role
	ProfileImageURL string
}

// DefaultProfile is the in-memory profile used before any document exists.
// No document is written until an explicit save.
func DefaultProfile(userID string) UserProfile {
	return UserProfile{UserID: userID, Role: RoleStudent}
}

type JobType string

const (
	JobTypeFullTime   JobType = "Full-time"
	JobTypePartTime   JobType = "Part-time"
	JobTypeContract   JobType = "Contract"
	JobTypeInternship JobType = "Internship"
	JobTypeRemote     JobType = "Remote"
)

type JobPosting struct {
	ID           string
	Title        string
	Company      string
	Location     string
	Description  string
	Requirements []string
	Salary       string
	Type         JobType
	PostedBy     string
	PostedDate   time.Time
	Deadline     *time.Time
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationAccepted ApplicationStatus = "Accepted"
	ApplicationDeclined ApplicationStatus = "Declined"
)

func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationDeclined:
		return true
	}
	return false
}

type JobApplication struct {
	ID             string
	JobID          string
	ApplicantID    string
	ApplicantName  string
	ApplicantEmail string
	CoverLetter    string
	ResumeURL      string
	Status         ApplicationStatus
	AppliedDate    time.Time
}
