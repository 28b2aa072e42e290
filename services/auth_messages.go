package services

// AuthErrorKind groups provider error codes into the cases users are told apart
type AuthErrorKind string

const (
	AuthInvalidCredentials AuthErrorKind = "invalid_credentials"
	AuthEmailInUse         AuthErrorKind = "email_in_use"
	AuthWeakPassword       AuthErrorKind = "weak_password"
	AuthSessionExpired     AuthErrorKind = "session_expired"
	AuthUnknown            AuthErrorKind = "unknown"
)

var authErrorKinds = map[string]AuthErrorKind{
	// OAuth / token errors
	"invalid_grant":         AuthInvalidCredentials,
	"access_denied":         AuthInvalidCredentials,
	"unauthorized":          AuthInvalidCredentials,
	"invalid_user_password": AuthInvalidCredentials,
	"wrong_password":        AuthInvalidCredentials,
	"user_not_found":        AuthInvalidCredentials,

	// a rejected or expired access token is not a credentials problem
	"invalid_token": AuthSessionExpired,
	"expired_token": AuthSessionExpired,

	// signup errors
	"user_exists":     AuthEmailInUse,
	"username_exists": AuthEmailInUse,
	"email_in_use":    AuthEmailInUse,

	"invalid_password":            AuthWeakPassword,
	"password_strength_error":     AuthWeakPassword,
	"password_too_short":          AuthWeakPassword,
	"password_dictionary_error":   AuthWeakPassword,
	"password_no_user_info_error": AuthWeakPassword,
}

var authErrorMessages = map[AuthErrorKind]string{
	AuthInvalidCredentials: "Ongeldige e-mail of wachtwoord.",
	AuthEmailInUse:         "Dit e-mailadres is al in gebruik.",
	AuthWeakPassword:       "Wachtwoord moet minimaal 6 tekens lang zijn.",
	AuthSessionExpired:     "Je sessie is verlopen. Log opnieuw in.",
	AuthUnknown:            "Er is een onbekende fout opgetreden.",
}

// ClassifyAuthError maps a provider error code to its kind
func ClassifyAuthError(code string) AuthErrorKind {
	if kind, ok := authErrorKinds[code]; ok {
		return kind
	}
	return AuthUnknown
}

// AuthErrorMessage returns the user-facing message for a provider error code
func AuthErrorMessage(code string) string {
	return authErrorMessages[ClassifyAuthError(code)]
}
