package model

import "time"

// Visit mirrors the append-only 'visits' table.  Visits have no lifecycle
// operations of their own; they are read through aggregation only (per-hotel
// totals and the per-user dashboard activity feed).
type Visit struct {
	ID        int64     `json:"id"`
	HotelID   int64     `json:"hotel_id"`
	VisitedBy *int64    `json:"visited_by"`
	VisitDate time.Time `json:"visit_date"`
}
