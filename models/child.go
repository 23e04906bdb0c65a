package models

import "time"

// Child is a registered child device owner.
type Child struct {
	UID            string    `json:"uid"`
	Name           string    `json:"name"`
	DOB            string    `json:"dob,omitempty"`
	Address        string    `json:"address,omitempty"`
	BloodGroup     string    `json:"blood_group,omitempty"`
	ParentUID      string    `json:"parent_uid"`
	ParentContacts []string  `json:"parent_contacts"`
	CreatedAt      time.Time `json:"created_at"`
}

// EmailContacts returns the parent contacts that look like e-mail addresses.
func (c Child) EmailContacts() []string {
	var out []string
	for _, contact := range c.ParentContacts {
		if isEmail(contact) {
			out = append(out, contact)
		}
	}
	return out
}

func isEmail(s string) bool {
	at := -1
	for i, r := range s {
		if r == '@' {
			if at >= 0 {
				return false
			}
			at = i
		}
		if r == ' ' {
			return false
		}
	}
	return at > 0 && at < len(s)-1
}
