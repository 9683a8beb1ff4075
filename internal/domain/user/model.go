package user

// Principal identifies the authenticated caller as resolved by the account
// service introspection.
type Principal struct {
	UserID string
	Email  string
	Role   string
}

const (
	RoleAdmin   = "admin"
	RoleCapture = "capture"
	RoleViewer  = "viewer"
)
