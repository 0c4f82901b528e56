package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Marketing-site section keys editable through the admin CMS.
const (
	WebsiteSectionHome    = "home"
	WebsiteSectionAbout   = "about"
	WebsiteSectionContact = "contact"
	WebsiteSectionSocial  = "social"
)

// WebsiteSection is one editable content block of the public marketing
// site. Content is free-form JSON: the CMS owns its shape, the backend
// only stores and serves it.
type WebsiteSection struct {
	gorm.Model
	Section string          `gorm:"size:30;uniqueIndex;not null" json:"section"`
	Content json.RawMessage `gorm:"type:text"                    json:"content"`
}

// ValidWebsiteSection reports whether s is a known content block key.
func ValidWebsiteSection(s string) bool {
	switch s {
	case WebsiteSectionHome, WebsiteSectionAbout, WebsiteSectionContact, WebsiteSectionSocial:
		return true
	}
	return false
}

// PublicService is an offering shown on the marketing site. It is
// independent of the quoting catalogue: ordering and visibility are
// managed by the admin CMS.
type PublicService struct {
	gorm.Model
	Title       string `gorm:"size:255;not null"                    json:"title"`
	Description string `gorm:"type:text"                            json:"description"`
	Category    string `gorm:"size:120"                             json:"category"`
	Order       int    `gorm:"column:sort_order;not null;default:0" json:"order"`
	Active      bool   `gorm:"not null;default:true"                json:"active"`
}
