package domain

// Credentials is an admin login attempt.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Session is the persisted client-side auth state. It survives restarts
// and is mutated only by login and logout.
type Session struct {
	Authenticated bool       `json:"authenticated"`
	Admin         *AdminUser `json:"admin,omitempty"`
	Token         string     `json:"token,omitempty"`
	// ClientID is a per-install identifier used for request correlation
	// in debug logs. Generated on first run.
	ClientID string `json:"client_id,omitempty"`
}

// Result is the uniform outcome of a state-changing operation. Failures
// of any kind (transport, HTTP, validation) are carried in Message; no
// error escapes a Result-returning boundary.
type Result struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
}
