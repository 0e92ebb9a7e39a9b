package model

import "time"

// Session is an audit row in the `sessions` table recording a login.
// LogoutTime stays null until the user logs out explicitly.  Sessions are
// never consulted for access decisions; authorization is carried entirely
// by the access token.
type Session struct {
    ID         uint64     `json:"id"`
    UserID     uint64     `json:"user_id"`
    LoginTime  time.Time  `json:"login_time"`
    LogoutTime *time.Time `json:"logout_time"`
    IPAddress  string     `json:"ip_address"`
}
