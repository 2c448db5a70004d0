// Package jobs implements job postings and applications over the document
// store: creation, editing, and live full-list snapshot views.
package jobs

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"alumnihub/internal/docstore"
	"alumnihub/internal/domain"
)

const (
	postingsCollection     = "job_postings"
	applicationsCollection = "job_applications"
)

type Service struct {
	store  docstore.Store
	logger *slog.Logger

	Now func() time.Time
}

func NewService(store docstore.Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger, Now: time.Now}
}

// PostingInput carries the editable posting fields. Requirements is free text
// and is split on commas.
type PostingInput struct {
	Title        string
	Company      string
	Location     string
	Description  string
	Requirements string
	Salary       string
	Type         domain.JobType
	Deadline     *time.Time
}

func (in PostingInput) validate() error {
	fields := map[string]string{}
	for name, v := range map[string]string{
		"title":        in.Title,
		"company":      in.Company,
		"location":     in.Location,
		"description":  in.Description,
		"requirements": in.Requirements,
		"salary":       in.Salary,
	} {
		if strings.TrimSpace(v) == "" {
			fields[name] = "required"
		}
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ParseRequirements splits free-text requirements on commas, trimming each
// segment and dropping empty ones.
func ParseRequirements(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CreatePosting stamps the creator and creation time; both are immutable
// afterwards.
func (s *Service) CreatePosting(ctx context.Context, actor domain.Session, in PostingInput) (domain.JobPosting, error) {
	if actor.ID == "" {
		return domain.JobPosting{}, domain.ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return domain.JobPosting{}, err
	}

	p := domain.JobPosting{
		Title:        in.Title,
		Company:      in.Company,
		Location:     in.Location,
		Description:  in.Description,
		Requirements: ParseRequirements(in.Requirements),
		Salary:       in.Salary,
		Type:         in.Type,
		PostedBy:     actor.Email,
		PostedDate:   s.Now(),
		Deadline:     in.Deadline,
	}
	id, err := s.store.Add(ctx, postingsCollection, encodePosting(p))
	if err != nil {
		return domain.JobPosting{}, err
	}
	p.ID = id
	s.logger.Info("posting created", "posting_id", id, "posted_by", p.PostedBy)
	return p, nil
}

// UpdatePosting replaces the editable fields of an existing posting. Only the
// user who created a posting may edit it; postedBy and postedDate are never
// touched.
func (s *Service) UpdatePosting(ctx context.Context, actor domain.Session, id string, in PostingInput) error {
	if err := s.requirePostingOwner(ctx, actor, id); err != nil {
		return err
	}
	if err := in.validate(); err != nil {
		return err
	}

	fields := map[string]any{
		"title":        in.Title,
		"company":      in.Company,
		"location":     in.Location,
		"description":  in.Description,
		"requirements": ParseRequirements(in.Requirements),
		"salary":       in.Salary,
		"type":         string(in.Type),
	}
	if in.Deadline != nil {
		fields["deadline"] = docstore.EncodeTime(*in.Deadline)
	} else {
		fields["deadline"] = nil
	}
	return s.store.Update(ctx, postingsCollection, id, fields)
}

func (s *Service) DeletePosting(ctx context.Context, actor domain.Session, id string) error {
	if err := s.requirePostingOwner(ctx, actor, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, postingsCollection, id)
}

// ApplicationInput carries a new application. Applicant identity comes from
// the session, not the caller.
type ApplicationInput struct {
	JobID       string
	CoverLetter string
	ResumeURL   string
}

func (s *Service) SubmitApplication(ctx context.Context, actor domain.Session, in ApplicationInput) (domain.JobApplication, error) {
	if actor.ID == "" {
		return domain.JobApplication{}, domain.ErrUnauthorized
	}
	fields := map[string]string{}
	if strings.TrimSpace(in.JobID) == "" {
		fields["jobId"] = "required"
	}
	if strings.TrimSpace(in.CoverLetter) == "" {
		fields["coverLetter"] = "required"
	}
	if strings.TrimSpace(in.ResumeURL) == "" {
		fields["resumeUrl"] = "required"
	}
	if len(fields) > 0 {
		return domain.JobApplication{}, &domain.ValidationError{Fields: fields}
	}

	a := domain.JobApplication{
		JobID:          in.JobID,
		ApplicantID:    actor.ID,
		ApplicantName:  actor.DisplayName,
		ApplicantEmail: actor.Email,
		CoverLetter:    in.CoverLetter,
		ResumeURL:      in.ResumeURL,
		Status:         domain.ApplicationPending,
		AppliedDate:    s.Now(),
	}
	id, err := s.store.Add(ctx, applicationsCollection, encodeApplication(a))
	if err != nil {
		return domain.JobApplication{}, err
	}
	a.ID = id
	s.logger.Info("application submitted", "application_id", id, "job_id", a.JobID)
	return a, nil
}

// UpdateApplicationStatus writes the single status field. Any valid status is
// accepted regardless of the current one.
func (s *Service) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) error {
	if !domain.ValidApplicationStatus(status) {
		return &domain.ValidationError{Fields: map[string]string{"status": "unknown status"}}
	}
	return s.store.Update(ctx, applicationsCollection, id, map[string]any{
		"status": string(status),
	})
}

func (s *Service) DeleteApplication(ctx context.Context, id string) error {
	return s.store.Delete(ctx, applicationsCollection, id)
}

func (s *Service) requirePostingOwner(ctx context.Context, actor domain.Session, id string) error {
	if actor.ID == "" {
		return domain.ErrUnauthorized
	}
	doc, ok, err := s.store.Get(ctx, postingsCollection, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	postedBy, err := docstore.String(doc.Fields, "postedBy")
	if err != nil {
		return err
	}
	if postedBy != actor.Email {
		return domain.ErrForbidden
	}
	return nil
}

func encodePosting(p domain.JobPosting) map[string]any {
	fields := map[string]any{
		"title":        p.Title,
		"company":      p.Company,
		"location":     p.Location,
		"description":  p.Description,
		"requirements": p.Requirements,
		"salary":       p.Salary,
		"type":         string(p.Type),
		"postedBy":     p.PostedBy,
		"postedDate":   docstore.EncodeTime(p.PostedDate),
	}
	if p.Deadline != nil {
		fields["deadline"] = docstore.EncodeTime(*p.Deadline)
	}
	return fields
}

func encodeApplication(a domain.JobApplication) map[string]any {
	return map[string]any{
		"jobId":          a.JobID,
		"applicantId":    a.ApplicantID,
		"applicantName":  a.ApplicantName,
		"applicantEmail": a.ApplicantEmail,
		"coverLetter":    a.CoverLetter,
		"resumeUrl":      a.ResumeURL,
		"status":         string(a.Status),
		"appliedDate":    docstore.EncodeTime(a.AppliedDate),
	}
}
