package model

import "time"

// PasswordResetRequest 密码重置请求 — 持久化于 otpData 单槽。
// 同一时刻至多一条在途请求；新请求直接覆盖旧请求，成功消费后清空。
type PasswordResetRequest struct {
	Email     string    `json:"email"`
	Code      string    `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Empty 单槽是否为空（无在途请求）
func (r *PasswordResetRequest) Empty() bool {
	return r == nil || r.Code == ""
}

// ExpiredAt 在 now 时刻请求是否已过期（严格晚于失效时刻）
func (r *PasswordResetRequest) ExpiredAt(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
