package domain

// SessionInfo is the authenticated-user summary a session token
// resolves to.
type SessionInfo struct {
	UserID   string
	Username string
	Email    string
}

// Credentials is the transient login input. It is never persisted and
// never logged.
type Credentials struct {
	Username string
	Password string
}
