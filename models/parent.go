package models

import "time"

// MetaFCMToken is the metadata key holding the parent's push token.
const MetaFCMToken = "fcm_token"

// Parent keeps whatever the parent device sent on registration in Meta.
type Parent struct {
	UID       string                 `json:"uid"`
	Meta      map[string]interface{} `json:"meta"`
	CreatedAt time.Time              `json:"created_at"`
}

// FCMToken returns the registered push token, or "" when none is set.
func (p Parent) FCMToken() string {
	if p.Meta == nil {
		return ""
	}
	token, _ := p.Meta[MetaFCMToken].(string)
	return token
}
