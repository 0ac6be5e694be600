package domain

type EnforceRequest struct {
	UserID   string
	Resource string
	Action   string
}
