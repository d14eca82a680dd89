package models

type Listing struct {
	JsonModel
	Title       string      `json:"title"`
	Description *string     `gorm:"type:text" json:"description"`
	Category    string      `json:"category"` // e.g. sofa, chair, table
	Condition   string      `json:"condition"`
	Price       *float64    `json:"price"`
	Currency    string      `json:"currency"`
	Owner       UserAccount `json:"-"`
	OwnerID     uint        `json:"-"`
	Status      string      `json:"status"` // draft, active, sold
	ImageURL    *string     `json:"image_url"`
}
