package jobs

import (
	"context"

	"alumnihub/internal/docstore"
	"alumnihub/internal/domain"
)

// ListPostings returns the current postings, newest first.
func (s *Service) ListPostings(ctx context.Context) ([]domain.JobPosting, error) {
	docs, err := s.store.List(ctx, postingsCollection, "postedDate", docstore.Descending)
	if err != nil {
		return nil, err
	}
	return s.decodePostings(docs), nil
}

func (s *Service) ListApplications(ctx context.Context) ([]domain.JobApplication, error) {
	docs, err := s.store.List(ctx, applicationsCollection, "appliedDate", docstore.Descending)
	if err != nil {
		return nil, err
	}
	return s.decodeApplications(docs), nil
}

// WatchPostings opens a live view over the postings collection. Every emission
// is the full list, newest first; a slow consumer sees only the latest
// snapshot. The channel closes when ctx is cancelled.
func (s *Service) WatchPostings(ctx context.Context) (<-chan []domain.JobPosting, error) {
	sub, err := s.store.Subscribe(ctx, postingsCollection, "postedDate", docstore.Descending)
	if err != nil {
		return nil, err
	}
	out := make(chan []domain.JobPosting, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		for docs := range sub.Snapshots() {
			send(out, s.decodePostings(docs))
		}
	}()
	return out, nil
}

func (s *Service) WatchApplications(ctx context.Context) (<-chan []domain.JobApplication, error) {
	sub, err := s.store.Subscribe(ctx, applicationsCollection, "appliedDate", docstore.Descending)
	if err != nil {
		return nil, err
	}
	out := make(chan []domain.JobApplication, 1)
	go func() {
		defer close(out)
		defer sub.Close()
		for docs := range sub.Snapshots() {
			send(out, s.decodeApplications(docs))
		}
	}()
	return out, nil
}

// send replaces a pending snapshot rather than queueing behind it.
func send[T any](ch chan []T, snapshot []T) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snapshot:
	default:
	}
}

// decodePostings drops individual malformed documents instead of failing the
// snapshot.
func (s *Service) decodePostings(docs []docstore.Document) []domain.JobPosting {
	out := make([]domain.JobPosting, 0, len(docs))
	for _, doc := range docs {
		p, err := decodePosting(doc)
		if err != nil {
			s.logger.Warn("posting document malformed", "posting_id", doc.ID, "err", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *Service) decodeApplications(docs []docstore.Document) []domain.JobApplication {
	out := make([]domain.JobApplication, 0, len(docs))
	for _, doc := range docs {
		a, err := decodeApplication(doc)
		if err != nil {
			s.logger.Warn("application document malformed", "application_id", doc.ID, "err", err)
			continue
		}
		out = append(out, a)
	}
	return out
}

func decodePosting(doc docstore.Document) (domain.JobPosting, error) {
	p := domain.JobPosting{ID: doc.ID}
	var err error
	if p.Title, err = docstore.String(doc.Fields, "title"); err != nil {
		return domain.JobPosting{}, err
	}
	if p.Company, err = docstore.String(doc.Fields, "company"); err != nil {
		return domain.JobPosting{}, err
	}
	if p.Location, err = docstore.String(doc.Fields, "location"); err != nil {
		return domain.JobPosting{}, err
	}
	if p.Description, err = docstore.String(doc.Fields, "description"); err != nil {
		return domain.JobPosting{}, err
	}
	if p.Requirements, err = docstore.StringSlice(doc.Fields, "requirements"); err != nil {
		return domain.JobPosting{}, err
	}
	if p.Salary, err = docstore.String(doc.Fields, "salary"); err != nil {
		return domain.JobPosting{}, err
	}
	typ, err := docstore.String(doc.Fields, "type")
	if err != nil {
		return domain.JobPosting{}, err
	}
	p.Type = domain.JobType(typ)
	if p.PostedBy, err = docstore.String(doc.Fields, "postedBy"); err != nil {
		return domain.JobPosting{}, err
	}
	if p.PostedDate, err = docstore.Time(doc.Fields, "postedDate"); err != nil {
		return domain.JobPosting{}, err
	}
	if p.Deadline, err = docstore.TimePtr(doc.Fields, "deadline"); err != nil {
		return domain.JobPosting{}, err
	}
	return p, nil
}

func decodeApplication(doc docstore.Document) (domain.JobApplication, error) {
	a := domain.JobApplication{ID: doc.ID}
	var err error
	if a.JobID, err = docstore.String(doc.Fields, "jobId"); err != nil {
		return domain.JobApplication{}, err
	}
	if a.ApplicantID, err = docstore.String(doc.Fields, "applicantId"); err != nil {
		return domain.JobApplication{}, err
	}
	if a.ApplicantName, err = docstore.String(doc.Fields, "applicantName"); err != nil {
		return domain.JobApplication{}, err
	}
	if a.ApplicantEmail, err = docstore.String(doc.Fields, "applicantEmail"); err != nil {
		return domain.JobApplication{}, err
	}
	if a.CoverLetter, err = docstore.String(doc.Fields, "coverLetter"); err != nil {
		return domain.JobApplication{}, err
	}
	if a.ResumeURL, err = docstore.String(doc.Fields, "resumeUrl"); err != nil {
		return domain.JobApplication{}, err
	}
	status, err := docstore.String(doc.Fields, "status")
	if err != nil {
		return domain.JobApplication{}, err
	}
	a.Status = domain.ApplicationStatus(status)
	if a.AppliedDate, err = docstore.Time(doc.Fields, "appliedDate"); err != nil {
		return domain.JobApplication{}, err
	}
	return a, nil
}
