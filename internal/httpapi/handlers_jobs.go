package httpapi

import (
	"net/http"
	"time"

	"alumnihub/internal/domain"
	"alumnihub/internal/jobs"
)

type postingRequest struct {
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements"`
	Salary       string     `json:"salary"`
	Type         string     `json:"type"`
	Deadline     *time.Time `json:"deadline"`
}

func (req postingRequest) input() jobs.PostingInput {
	return jobs.PostingInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary:       req.Salary,
		Type:         domain.JobType(req.Type),
		Deadline:     req.Deadline,
	}
}

type postingResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Description  string     `json:"description"`
	Requirements []string   `json:"requirements"`
	Salary       string     `json:"salary"`
	Type         string     `json:"type"`
	PostedBy     string     `json:"postedBy"`
	PostedDate   time.Time  `json:"postedDate"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

func toPostingResponse(p domain.JobPosting) postingResponse {
	return postingResponse{
		ID:           p.ID,
		Title:        p.Title,
		Company:      p.Company,
		Location:     p.Location,
		Description:  p.Description,
		Requirements: p.Requirements,
		Salary:       p.Salary,
		Type:         string(p.Type),
		PostedBy:     p.PostedBy,
		PostedDate:   p.PostedDate,
		Deadline:     p.Deadline,
	}
}

func toPostingResponses(ps []domain.JobPosting) []postingResponse {
	out := make([]postingResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPostingResponse(p))
	}
	return out
}

func (a *api) handleJobsList(w http.ResponseWriter, r *http.Request) {
	postings, err := a.jobsSvc.ListPostings(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"postings": toPostingResponses(postings)})
}

func (a *api) handleJobsStream(w http.ResponseWriter, r *http.Request) {
	sse, err := newSSEWriter(w)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported")
		return
	}
	ch, err := a.jobsSvc.WatchPostings(r.Context())
	if err != nil {
		a.logger.Error("postings stream failed", "err", err)
		return
	}
	for snapshot := range ch {
		if err := sse.writeEvent("postings", toPostingResponses(snapshot)); err != nil {
			return
		}
	}
}

func (a *api) handleJobCreate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireSession(w)
	if !ok {
		return
	}

	var req postingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	p, err := a.jobsSvc.CreatePosting(r.Context(), sess, req.input())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toPostingResponse(p))
}

func (a *api) handleJobUpdate(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireSession(w)
	if !ok {
		return
	}

	var req postingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.jobsSvc.UpdatePosting(r.Context(), sess, r.PathValue("id"), req.input()); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleJobDelete(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireSession(w)
	if !ok {
		return
	}

	if err := a.jobsSvc.DeletePosting(r.Context(), sess, r.PathValue("id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
