package domain

import "time"

// Category is one section of the vault that counts toward completion.
type Category string

const (
	CategoryContacts    Category = "contacts"
	CategoryAccounts    Category = "accounts"
	CategoryDevices     Category = "devices"
	CategoryEstates     Category = "estates"
	CategoryDocuments   Category = "documents"
	CategoryFamilyKnows Category = "family_knows"
)

// Categories lists every category in onboarding order.
var Categories = []Category{
	CategoryContacts,
	CategoryAccounts,
	CategoryDevices,
	CategoryEstates,
	CategoryDocuments,
	CategoryFamilyKnows,
}

// DisplayName returns a human label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryContacts:
		return "Contacts"
	case CategoryAccounts:
		return "Digital Accounts"
	case CategoryDevices:
		return "Devices"
	case CategoryEstates:
		return "Estate Documents"
	case CategoryDocuments:
		return "Important Documents"
	case CategoryFamilyKnows:
		return "Family Needs to Know"
	default:
		return string(c)
	}
}

// Counts holds the number of entries per category.
type Counts map[Category]int

// Snapshot is a recorded completion for a profile.
type Snapshot struct {
	Profile    string    `json:"profile"`
	Counts     Counts    `json:"counts"`
	Completion int       `json:"completion"`
	Filled     int       `json:"filled"`
	TakenAt    time.Time `json:"taken_at"`
}
