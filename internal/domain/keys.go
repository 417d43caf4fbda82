package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	// KeyRecruiterSecret holds the raw recruiter token taken from the request.
	KeyRecruiterSecret CtxKey = "RecruiterSecret"
)

// ViewerID returns the authenticated user stored in ctx, or "" for anonymous requests.
func ViewerID(ctx interface{ Value(any) any }) string {
	id, _ := ctx.Value(KeyUserID).(string)
	return id
}
