package model

// Session 当前登录身份 — 持久化于 currentUser 单槽。
// 仅保存 Account 的展示投影，绝不包含密码；同一时刻至多一个会话。
type Session struct {
	AccountID      string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           Role   `json:"userType"`
	ProfilePicture string `json:"profilePicture"`
}

// NewSession 由账号构造会话投影
func NewSession(acct *Account) *Session {
	return &Session{
		AccountID:      acct.ID,
		Name:           acct.Name,
		Email:          acct.Email,
		Role:           acct.Role,
		ProfilePicture: acct.ProfilePicture,
	}
}
