package repository

import (
	"context"
	"database/sql"
	"time"
)

// DashboardRepo computes the read-only rollups behind GET /dashboard. Both
// views are computed fresh per request; nothing here is cached.
type DashboardRepo struct{ DB *sql.DB }

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{DB: db} }

// Summary is the dashboard header block. The admin view covers the whole
// system; the per-user view covers only records the caller created, with the
// user-wide fields zeroed.
type Summary struct {
	TotalHotels        int64      `json:"total_hotels"`
	ActiveHotels       int64      `json:"active_hotels"`
	DeletedHotels      int64      `json:"deleted_hotels"`
	TotalUsers         int64      `json:"total_users"`
	HotelsAddedToday   int64      `json:"hotels_added_today"`
	HotelsAddedWeek    int64      `json:"hotels_added_week"`
	HotelsAddedMonth   int64      `json:"hotels_added_month"`
	LastHotelAdded     *time.Time `json:"last_hotel_added"`
	LastUserRegistered *time.Time `json:"last_user_registered"`
	GeneratedAt        time.Time  `json:"dashboard_generated_at"`
}

// Activity is one entry of the recent-activity feed.
type Activity struct {
	ActivityType string    `json:"activity_type"` // hotel_created | user_registered | visit_recorded
	RefID        int64     `json:"id"`
	Label        string    `json:"label"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// hotelSummarySQL computes the hotel counters in a single pass. The window
// predicates use the database clock: "today" and "this month" are calendar
// truncations, "week" is a rolling 7-day window.
const hotelSummarySQL = `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE NOT is_deleted),
		COUNT(*) FILTER (WHERE is_deleted),
		COUNT(*) FILTER (WHERE created_at >= date_trunc('day', now())),
		COUNT(*) FILTER (WHERE created_at >= now() - interval '7 days'),
		COUNT(*) FILTER (WHERE created_at >= date_trunc('month', now())),
		MAX(created_at)
	FROM hotels`

// AdminSummary returns the system-wide counters.
func (r *DashboardRepo) AdminSummary(ctx context.Context) (Summary, error) {
	var s Summary
	err := r.DB.QueryRowContext(ctx, hotelSummarySQL).Scan(
		&s.TotalHotels, &s.ActiveHotels, &s.DeletedHotels,
		&s.HotelsAddedToday, &s.HotelsAddedWeek, &s.HotelsAddedMonth,
		&s.LastHotelAdded)
	if err != nil {
		return Summary{}, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), MAX(created_at) FROM users WHERE role <> 'admin' AND NOT is_deleted").
		Scan(&s.TotalUsers, &s.LastUserRegistered)
	if err != nil {
		return Summary{}, err
	}
	s.GeneratedAt = time.Now().UTC()
	return s, nil
}

// UserSummary returns the same counter shape scoped to records the caller
// created. The user-registration fields are not meaningful per user and
// stay zero.
func (r *DashboardRepo) UserSummary(ctx context.Context, actorID int64) (Summary, error) {
	var s Summary
	err := r.DB.QueryRowContext(ctx, hotelSummarySQL+" WHERE created_by = $1", actorID).Scan(
		&s.TotalHotels, &s.ActiveHotels, &s.DeletedHotels,
		&s.HotelsAddedToday, &s.HotelsAddedWeek, &s.HotelsAddedMonth,
		&s.LastHotelAdded)
	if err != nil {
		return Summary{}, err
	}
	s.GeneratedAt = time.Now().UTC()
	return s, nil
}

// AdminRecentActivity returns the 10 most recent creation/registration
// events across both entity types, newest first.
func (r *DashboardRepo) AdminRecentActivity(ctx context.Context) ([]Activity, error) {
	return r.activities(ctx,
		`SELECT activity_type, ref_id, label, occurred_at FROM (
			SELECT 'hotel_created' AS activity_type, id AS ref_id, name AS label, created_at AS occurred_at
			FROM hotels
			UNION ALL
			SELECT 'user_registered', id, full_name, created_at
			FROM users WHERE role <> 'admin'
		) ev
		ORDER BY occurred_at DESC
		LIMIT 10`)
}

// UserRecentActivity returns the caller's own hotel creations and recorded
// visits within the last 7 days, newest first, capped at 10 entries.
func (r *DashboardRepo) UserRecentActivity(ctx context.Context, actorID int64) ([]Activity, error) {
	return r.activities(ctx,
		`SELECT activity_type, ref_id, label, occurred_at FROM (
			SELECT 'hotel_created' AS activity_type, h.id AS ref_id, h.name AS label, h.created_at AS occurred_at
			FROM hotels h
			WHERE h.created_by = $1 AND h.created_at >= now() - interval '7 days'
			UNION ALL
			SELECT 'visit_recorded', v.id, h.name, v.visit_date
			FROM visits v
			JOIN hotels h ON h.id = v.hotel_id
			WHERE v.visited_by = $1 AND v.visit_date >= now() - interval '7 days'
		) ev
		ORDER BY occurred_at DESC
		LIMIT 10`, actorID)
}

func (r *DashboardRepo) activities(ctx context.Context, sqlText string, args ...any) ([]Activity, error) {
	rows, err := r.DB.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Activity{}
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ActivityType, &a.RefID, &a.Label, &a.OccurredAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
