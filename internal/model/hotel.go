package model

import "time"

// Hotel mirrors the 'hotels' table.  A hotel is a lead/client record; the
// category field distinguishes non-hotel business types.  Optional columns
// are pointers so an absent value round-trips as JSON null.
type Hotel struct {
	ID                    int64      `json:"id"`
	Name                  string     `json:"name"`
	Address               *string    `json:"address"`
	Latitude              *float64   `json:"latitude"`
	Longitude             *float64   `json:"longitude"`
	LocationFetchedAt     *time.Time `json:"location_fetched_at"`
	Category              string     `json:"category"`
	HotelEmail            *string    `json:"hotel_email"`
	GSTNumber             *string    `json:"gst_number"`
	State                 *string    `json:"state"`
	City                  *string    `json:"city"`
	Pincode               *string    `json:"pincode"`
	OwnerName             *string    `json:"owner_name"`
	OwnerPhone            *string    `json:"owner_phone"`
	OwnerAltPhone         *string    `json:"owner_alt_phone"`
	ContactPersonName     *string    `json:"contact_person_name"`
	ContactPersonPhone    *string    `json:"contact_person_phone"`
	ContactPersonAltPhone *string    `json:"contact_person_alt_phone"`
	CreatedBy             *int64     `json:"created_by"`
	IsDeleted             bool       `json:"is_deleted"`
	DeletedAt             *time.Time `json:"deleted_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// HotelRow is the list/detail projection: the stored row plus creator info
// and visit aggregates derived from LEFT JOINs.
type HotelRow struct {
	Hotel
	CreatedByName  *string    `json:"created_by_name"`
	CreatedByEmail *string    `json:"created_by_email"`
	TotalVisits    int64      `json:"total_visits"`
	LastVisitDate  *time.Time `json:"last_visit_date"`
}

// Categories accepted in the hotels.category column.
var HotelCategories = map[string]bool{
	"hotel":      true,
	"restaurant": true,
	"cafe":       true,
	"resort":     true,
	"lodge":      true,
	"banquet":    true,
	"other":      true,
}
