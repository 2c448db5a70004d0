package domain

type SessionStatus string

const (
	StatusUnauthenticated       SessionStatus = "unauthenticated"
	StatusAuthenticated         SessionStatus = "authenticated"
	StatusLoading               SessionStatus = "loading"
	StatusVerificationEmailSent SessionStatus = "verification_email_sent"
	StatusResetPasswordSent     SessionStatus = "reset_password_sent"
	StatusError                 SessionStatus = "error"
)

// SessionState is the single observable value published by the session
// machine. Exactly one status is active at a time; Message is set only for
// StatusError and carries the human-readable reason.
type SessionState struct {
	Status  SessionStatus
	Message string
}

func Unauthenticated() SessionState { return SessionState{Status: StatusUnauthenticated} }

func Authenticated() SessionState { return SessionState{Status: StatusAuthenticated} }

func Loading() SessionState { return SessionState{Status: StatusLoading} }

func VerificationEmailSent() SessionState {
	return SessionState{Status: StatusVerificationEmailSent}
}

func ResetPasswordSent() SessionState { return SessionState{Status: StatusResetPasswordSent} }

func ErrorState(message string) SessionState {
	return SessionState{Status: StatusError, Message: message}
}
