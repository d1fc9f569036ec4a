package model

import "time"

// Activity 操作动态，讲师端首页按时间倒序展示
type Activity struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
