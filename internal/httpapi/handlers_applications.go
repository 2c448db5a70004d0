package httpapi

import (
	"net/http"
	"time"

	"alumnihub/internal/domain"
	"alumnihub/internal/jobs"
)

type applicationResponse struct {
	ID             string    `json:"id"`
	JobID          string    `json:"jobId"`
	ApplicantID    string    `json:"applicantId"`
	ApplicantName  string    `json:"applicantName"`
	ApplicantEmail string    `json:"applicantEmail"`
	CoverLetter    string    `json:"coverLetter"`
	ResumeURL      string    `json:"resumeUrl"`
	Status         string    `json:"status"`
	AppliedDate    time.Time `json:"appliedDate"`
}

func toApplicationResponse(a domain.JobApplication) applicationResponse {
	return applicationResponse{
		ID:             a.ID,
		JobID:          a.JobID,
		ApplicantID:    a.ApplicantID,
		ApplicantName:  a.ApplicantName,
		ApplicantEmail: a.ApplicantEmail,
		CoverLetter:    a.CoverLetter,
		ResumeURL:      a.ResumeURL,
		Status:         string(a.Status),
		AppliedDate:    a.AppliedDate,
	}
}

func toApplicationResponses(as []domain.JobApplication) []applicationResponse {
	out := make([]applicationResponse, 0, len(as))
	for _, a := range as {
		out = append(out, toApplicationResponse(a))
	}
	return out
}

type applicationSubmitRequest struct {
	CoverLetter string `json:"coverLetter"`
	ResumeURL   string `json:"resumeUrl"`
}

func (a *api) handleApplicationSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireSession(w)
	if !ok {
		return
	}

	var req applicationSubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	app, err := a.jobsSvc.SubmitApplication(r.Context(), sess, jobs.ApplicationInput{
		JobID:       r.PathValue("id"),
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, toApplicationResponse(app))
}

func (a *api) handleApplicationsList(w http.ResponseWriter, r *http.Request) {
	apps, err := a.jobsSvc.ListApplications(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"applications": toApplicationResponses(apps)})
}

func (a *api) handleApplicationsStream(w http.ResponseWriter, r *http.Request) {
	sse, err := newSSEWriter(w)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported")
		return
	}
	ch, err := a.jobsSvc.WatchApplications(r.Context())
	if err != nil {
		a.logger.Error("applications stream failed", "err", err)
		return
	}
	for snapshot := range ch {
		if err := sse.writeEvent("applications", toApplicationResponses(snapshot)); err != nil {
			return
		}
	}
}

type applicationStatusRequest struct {
	Status string `json:"status"`
}

func (a *api) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireSession(w); !ok {
		return
	}

	var req applicationStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if err := a.jobsSvc.UpdateApplicationStatus(r.Context(), r.PathValue("id"), domain.ApplicationStatus(req.Status)); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleApplicationDelete(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireSession(w); !ok {
		return
	}

	if err := a.jobsSvc.DeleteApplication(r.Context(), r.PathValue("id")); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
