package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hotel-lead-crm/internal/config"
	"hotel-lead-crm/internal/logger"
	"hotel-lead-crm/internal/model"
	"hotel-lead-crm/internal/repository"
	"hotel-lead-crm/internal/utils"
)

// HotelHandler serves the hotel lead CRUD surface. Role scoping lives in the
// repository; the handler's job is input validation and response shaping.
type HotelHandler struct {
	Cfg    config.Config
	Hotels *repository.HotelRepo
}

func NewHotelHandler(cfg config.Config, r *repository.HotelRepo) *HotelHandler {
	return &HotelHandler{Cfg: cfg, Hotels: r}
}

type hotelReq struct {
	Name                  *string  `json:"name"`
	Address               *string  `json:"address"`
	Latitude              *float64 `json:"latitude"`
	Longitude             *float64 `json:"longitude"`
	Category              *string  `json:"category"`
	HotelEmail            *string  `json:"hotel_email"`
	GSTNumber             *string  `json:"gst_number"`
	State                 *string  `json:"state"`
	City                  *string  `json:"city"`
	Pincode               *string  `json:"pincode"`
	OwnerName             *string  `json:"owner_name"`
	OwnerPhone            *string  `json:"owner_phone"`
	OwnerAltPhone         *string  `json:"owner_alt_phone"`
	ContactPersonName     *string  `json:"contact_person_name"`
	ContactPersonPhone    *string  `json:"contact_person_phone"`
	ContactPersonAltPhone *string  `json:"contact_person_alt_phone"`
}

// trimmed returns nil when the pointer is nil or the value is blank after
// trimming, so empty strings never land in the database.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// normPhone validates and normalizes an optional phone field. ok is false
// only when a non-blank value fails the 10-digit rule.
func normPhone(s *string) (*string, bool) {
	s = trimmed(s)
	if s == nil {
		return nil, true
	}
	norm, ok := utils.NormalizePhone(*s)
	if !ok {
		return nil, false
	}
	return &norm, true
}

// validateOptional checks the optional identity fields shared by create and
// update. An empty message means everything passed.
func validateOptional(email, gst, pincode *string) string {
	if email != nil && !utils.ValidEmail(*email) {
		return "Invalid hotel email format"
	}
	if gst != nil && !utils.ValidGST(*gst) {
		return "Invalid GST number format"
	}
	if pincode != nil && !utils.ValidPincode(*pincode) {
		return "Invalid pincode format"
	}
	return ""
}

// Add creates a hotel lead owned by the caller. Name, both coordinates and
// the category are mandatory; at least one phone number must survive
// normalization.
func (h *HotelHandler) Add(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	name := trimmed(req.Name)
	if name == nil || req.Latitude == nil || req.Longitude == nil {
		return fail(c, http.StatusBadRequest, "Hotel name, latitude, and longitude are required")
	}
	if !utils.ValidLatitude(*req.Latitude) || !utils.ValidLongitude(*req.Longitude) {
		return fail(c, http.StatusBadRequest, "Invalid latitude or longitude values")
	}
	catPtr := trimmed(req.Category)
	if catPtr == nil {
		return fail(c, http.StatusBadRequest, "Hotel category is required")
	}
	category := strings.ToLower(*catPtr)
	if !model.HotelCategories[category] {
		return fail(c, http.StatusBadRequest, "Invalid hotel category")
	}
	email := trimmed(req.HotelEmail)
	gst := trimmed(req.GSTNumber)
	pincode := trimmed(req.Pincode)
	if msg := validateOptional(email, gst, pincode); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	ownerPhone, ok1 := normPhone(req.OwnerPhone)
	ownerAlt, ok2 := normPhone(req.OwnerAltPhone)
	contactPhone, ok3 := normPhone(req.ContactPersonPhone)
	contactAlt, ok4 := normPhone(req.ContactPersonAltPhone)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return fail(c, http.StatusBadRequest, "Phone numbers must be 10 digits")
	}
	if ownerPhone == nil && ownerAlt == nil && contactPhone == nil && contactAlt == nil {
		return fail(c, http.StatusBadRequest, "At least one contact phone number is required")
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	hotel, err := h.Hotels.Create(ctx, repository.CreateHotelParams{
		Name:                  *name,
		Address:               trimmed(req.Address),
		Latitude:              *req.Latitude,
		Longitude:             *req.Longitude,
		Category:              category,
		HotelEmail:            email,
		GSTNumber:             gst,
		State:                 trimmed(req.State),
		City:                  trimmed(req.City),
		Pincode:               pincode,
		OwnerName:             trimmed(req.OwnerName),
		OwnerPhone:            ownerPhone,
		OwnerAltPhone:         ownerAlt,
		ContactPersonName:     trimmed(req.ContactPersonName),
		ContactPersonPhone:    contactPhone,
		ContactPersonAltPhone: contactAlt,
	}, actor.ID)
	if err != nil {
		logger.FromEcho(c).Error("create hotel failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Hotel added successfully",
		"hotel":   hotel,
	})
}

// Update applies a partial edit. Coordinates must come as a pair; sending no
// recognized field at all is rejected rather than silently succeeding.
func (h *HotelHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid hotel ID")
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	if (req.Latitude == nil) != (req.Longitude == nil) {
		return fail(c, http.StatusBadRequest, "Latitude and longitude must be updated together")
	}
	if req.Latitude != nil && (!utils.ValidLatitude(*req.Latitude) || !utils.ValidLongitude(*req.Longitude)) {
		return fail(c, http.StatusBadRequest, "Invalid latitude or longitude values")
	}
	var category *string
	if v := trimmed(req.Category); v != nil {
		lc := strings.ToLower(*v)
		if !model.HotelCategories[lc] {
			return fail(c, http.StatusBadRequest, "Invalid hotel category")
		}
		category = &lc
	}
	email := trimmed(req.HotelEmail)
	gst := trimmed(req.GSTNumber)
	pincode := trimmed(req.Pincode)
	if msg := validateOptional(email, gst, pincode); msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}
	ownerPhone, ok1 := normPhone(req.OwnerPhone)
	ownerAlt, ok2 := normPhone(req.OwnerAltPhone)
	contactPhone, ok3 := normPhone(req.ContactPersonPhone)
	contactAlt, ok4 := normPhone(req.ContactPersonAltPhone)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return fail(c, http.StatusBadRequest, "Phone numbers must be 10 digits")
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	hotel, err := h.Hotels.Update(ctx, id, repository.UpdateHotelParams{
		Name:                  trimmed(req.Name),
		Address:               trimmed(req.Address),
		Latitude:              req.Latitude,
		Longitude:             req.Longitude,
		Category:              category,
		HotelEmail:            email,
		GSTNumber:             gst,
		State:                 trimmed(req.State),
		City:                  trimmed(req.City),
		Pincode:               pincode,
		OwnerName:             trimmed(req.OwnerName),
		OwnerPhone:            ownerPhone,
		OwnerAltPhone:         ownerAlt,
		ContactPersonName:     trimmed(req.ContactPersonName),
		ContactPersonPhone:    contactPhone,
		ContactPersonAltPhone: contactAlt,
	}, actor)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			return fail(c, http.StatusBadRequest, "No fields to update")
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "Hotel not found or already deleted")
		}
		logger.FromEcho(c).Error("update hotel failed", zap.Error(err), zap.Int64("id", id))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Hotel updated successfully",
		"hotel":   hotel,
	})
}

// List serves the paginated, searchable, role-scoped hotel listing.
func (h *HotelHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	q := repository.ListQuery{
		Search:         strings.TrimSpace(c.QueryParam("search")),
		SortBy:         c.QueryParam("sort_by"),
		SortOrder:      c.QueryParam("sort_order"),
		IncludeDeleted: c.QueryParam("include_deleted") == "true",
	}
	q.Page, _ = strconv.Atoi(c.QueryParam("page"))
	q.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if v := c.QueryParam("created_by"); v != "" {
		q.CreatedBy, _ = strconv.ParseInt(v, 10, 64)
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	rows, total, err := h.Hotels.List(ctx, q, actor)
	if err != nil {
		logger.FromEcho(c).Error("list hotels failed", zap.Error(err))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	norm := q.Normalize(nil)
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"total":      total,
		"page":       norm.Page,
		"limit":      norm.Limit,
		"totalPages": repository.TotalPages(total, norm.Limit),
		"hotels":     rows,
	})
}

// GetByID returns one active hotel with creator and visit enrichment.
func (h *HotelHandler) GetByID(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid hotel ID")
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	row, err := h.Hotels.GetByID(ctx, id, actor)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fail(c, http.StatusNotFound, "Hotel not found or has been deleted")
		}
		logger.FromEcho(c).Error("get hotel failed", zap.Error(err), zap.Int64("id", id))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "hotel": row})
}

// Delete soft-deletes a hotel. Deleting twice is a client error.
func (h *HotelHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid hotel ID")
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	hotel, err := h.Hotels.SoftDelete(ctx, id, actor)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyDeleted):
			return fail(c, http.StatusBadRequest, "Hotel is already deleted")
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "Hotel not found")
		}
		logger.FromEcho(c).Error("delete hotel failed", zap.Error(err), zap.Int64("id", id))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Hotel deleted successfully",
		"hotel":   hotel,
	})
}

// Restore reactivates a soft-deleted hotel.
func (h *HotelHandler) Restore(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid hotel ID")
	}

	ctx, cancel := queryCtx(c, h.Cfg.QueryTimeout)
	defer cancel()

	hotel, err := h.Hotels.Restore(ctx, id, actor)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotDeleted):
			return fail(c, http.StatusBadRequest, "Hotel is not deleted")
		case errors.Is(err, repository.ErrNotFound):
			return fail(c, http.StatusNotFound, "Hotel not found")
		}
		logger.FromEcho(c).Error("restore hotel failed", zap.Error(err), zap.Int64("id", id))
		return fail(c, http.StatusInternalServerError, "Internal Server Error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Hotel restored successfully",
		"hotel":   hotel,
	})
}
