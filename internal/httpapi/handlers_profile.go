package httpapi

import (
	"net/http"

	"alumnihub/internal/domain"
	"alumnihub/internal/profile"
)

type profileResponse struct {
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	About           string `json:"about"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

func toProfileResponse(p domain.UserProfile) profileResponse {
	return profileResponse{
		UserID:          p.UserID,
		Name:            p.Name,
		About:           p.About,
		Email:           p.Email,
		Role:            string(p.Role),
		ProfileImageURL: p.ProfileImageURL,
	}
}

// requireSession resolves the acting identity. Unverified sessions pass; the
// session machine already gates what they can reach.
func (a *api) requireSession(w http.ResponseWriter) (domain.Session, bool) {
	sess, ok := a.machine.CurrentSession()
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return domain.Session{}, false
	}
	return sess, true
}

func (a *api) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireSession(w)
	if !ok {
		return
	}

	if err := a.profileSvc.Fetch(r.Context(), sess.ID); err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toProfileResponse(a.profileSvc.Profile()))
}

type profileSaveRequest struct {
	Name            string `json:"name"`
	About           string `json:"about"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	ProfileImageURL string `json:"profileImageUrl"`
}

func (a *api) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := a.requireSession(w)
	if !ok {
		return
	}

	var req profileSaveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	err := a.profileSvc.Save(r.Context(), profile.SaveInput{
		UserID:          sess.ID,
		Name:            req.Name,
		About:           req.About,
		Email:           req.Email,
		Role:            domain.Role(req.Role),
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, toProfileResponse(a.profileSvc.Profile()))
}

func (a *api) handleProfileStream(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.requireSession(w); !ok {
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported")
		return
	}
	for p := range a.profileSvc.Watch(r.Context()) {
		if err := sse.writeEvent("profile", toProfileResponse(p)); err != nil {
			return
		}
	}
}
