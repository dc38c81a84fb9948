package domain

// Guest is one invitee from the guest spreadsheet, with a personal deep link.
type Guest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Link     string `json:"link"`
}

// GuestCategory summarises how many guests share a category.
type GuestCategory struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
