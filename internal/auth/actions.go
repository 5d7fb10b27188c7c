package auth

// Action names one operation the UI may expose for the current identity.
type Action string

const (
	ActionLogin            Action = "login"
	ActionLogout           Action = "logout"
	ActionViewSubmissions  Action = "view_submissions"
	ActionDeleteSubmission Action = "delete_submission"
	ActionExportCSV        Action = "export_csv"
)

// VisibleActions maps (session, role) to the set of actions the caller may
// see. Keeping this a pure function replaces scattered role conditionals:
// anyone rendering navigation asks here and nowhere else.
func VisibleActions(session *Session, isAdmin bool) []Action {
	if session == nil {
		return []Action{ActionLogin}
	}
	if !isAdmin {
		return []Action{ActionLogout}
	}
	return []Action{
		ActionViewSubmissions,
		ActionDeleteSubmission,
		ActionExportCSV,
		ActionLogout,
	}
}
