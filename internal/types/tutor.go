package types

// AuthProvider is how a tutor signed up
type AuthProvider string

const (
	AuthProviderEmail  AuthProvider = "email"
	AuthProviderGoogle AuthProvider = "google"
	AuthProviderKakao  AuthProvider = "kakao"
)
