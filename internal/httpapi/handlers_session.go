package httpapi

import (
	"net/http"

	"alumnihub/internal/domain"
)

type sessionStateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func stateResponse(st domain.SessionState) sessionStateResponse {
	return sessionStateResponse{Status: string(st.Status), Message: st.Message}
}

func (a *api) writeState(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, stateResponse(a.machine.State()))
}

func (a *api) handleSessionState(w http.ResponseWriter, _ *http.Request) {
	a.writeState(w)
}

func (a *api) handleSessionStream(w http.ResponseWriter, r *http.Request) {
	sse, err := newSSEWriter(w)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "streaming_unsupported", "streaming not supported")
		return
	}
	for st := range a.machine.Watch(r.Context()) {
		if err := sse.writeEvent("session", stateResponse(st)); err != nil {
			return
		}
	}
}

type signUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

func (a *api) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	a.machine.SignUp(r.Context(), req.Email, req.Password, req.DisplayName)
	a.writeState(w)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *api) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	a.machine.SignIn(r.Context(), req.Email, req.Password)
	a.writeState(w)
}

type idTokenRequest struct {
	IDToken string `json:"idToken"`
}

func (a *api) handleSignInGoogle(w http.ResponseWriter, r *http.Request) {
	var req idTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	a.machine.SignInWithGoogle(r.Context(), req.IDToken)
	a.writeState(w)
}

func (a *api) handleSignInApple(w http.ResponseWriter, r *http.Request) {
	var req idTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	a.machine.SignInWithApple(r.Context(), req.IDToken)
	a.writeState(w)
}

func (a *api) handleSignOut(w http.ResponseWriter, _ *http.Request) {
	a.machine.SignOut()
	a.writeState(w)
}

func (a *api) handleSendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	a.machine.SendVerificationEmail(r.Context())
	a.writeState(w)
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

func (a *api) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	a.machine.ResetPassword(r.Context(), req.Email)
	a.writeState(w)
}
