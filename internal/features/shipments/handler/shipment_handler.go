package handler

import (
	"errors"
	"net/http"
	"strings"

	"shipment-portal/internal/core/httpclient"
	"shipment-portal/internal/core/logger"
	"shipment-portal/internal/core/validate"
	"shipment-portal/internal/features/shipments/domain"
	"shipment-portal/internal/features/shipments/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// invalidTransitionMessage is shown for every transition the table forbids,
// including updates to delivered shipments.
const invalidTransitionMessage = "Invalid status transition. Please select an allowed next status."

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	shipmentService *service.ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(shipmentService *service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// CreateShipmentRequest represents the request body for creating a shipment.
type CreateShipmentRequest struct {
	Origin                string `json:"origin"`
	Destination           string `json:"destination"`
	EstimatedDeliveryDate string `json:"estimatedDeliveryDate"` // Format: 2006-01-02
}

// UpdateStatusRequest represents the request body for a status update. The
// status may arrive as a number, a numeric string, or a label.
type UpdateStatusRequest struct {
	Status   interface{} `json:"status"`
	Location string      `json:"location"`
}

// LastViewedResponse wraps the last-viewed memo for the API.
type LastViewedResponse struct {
	TrackingID string           `json:"trackingId"`
	Shipment   *domain.Shipment `json:"shipment"`
}

// TrackShipment godoc
// @Summary Track a shipment
// @Description Retrieves a shipment with its milestone history by tracking ID
// @Tags shipments
// @Produce json
// @Param trackingId path string true "Tracking ID (DHL followed by 6 digits)"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /shipment/{trackingId} [get]
func (h *ShipmentHandler) TrackShipment(c *fiber.Ctx) error {
	trackingID := strings.TrimSpace(c.Params("trackingId"))

	failures := validate.Check(trackingID, validate.Required(), validate.TrackingID())
	if !failures.OK() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldTrackingID, failures),
			RayID:   rayID(c),
		})
	}

	shipment, err := h.shipmentService.Track(c.Context(), trackingID)
	if err != nil {
		return h.upstreamError(c, err)
	}

	return c.JSON(shipment)
}

// CreateShipment godoc
// @Summary Create a shipment
// @Description Registers a new shipment; the backend forces the initial status to Created
// @Tags shipments
// @Accept json
// @Produce json
// @Param shipment body CreateShipmentRequest true "Shipment details"
// @Success 201 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Router /shipment [post]
func (h *ShipmentHandler) CreateShipment(c *fiber.Ctx) error {
	var req CreateShipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	placeRules := []validate.Rule{
		validate.Required(),
		validate.MinLength(2),
		validate.MaxLength(100),
		validate.LettersSpacesHyphens(),
	}

	if failures := validate.Check(req.Origin, placeRules...); !failures.OK() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldOrigin, failures),
			RayID:   rayID(c),
		})
	}
	if failures := validate.Check(req.Destination, placeRules...); !failures.OK() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldDestination, failures),
			RayID:   rayID(c),
		})
	}
	if failures := validate.Check(req.EstimatedDeliveryDate, validate.Required(), validate.FutureDate()); !failures.OK() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldDate, failures),
			RayID:   rayID(c),
		})
	}

	shipment, err := h.shipmentService.Create(c.Context(), req.Origin, req.Destination, req.EstimatedDeliveryDate)
	if err != nil {
		return h.upstreamError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(shipment)
}

// UpdateShipmentStatus godoc
// @Summary Update a shipment's status
// @Description Appends one milestone after guarding the status transition client-side
// @Tags shipments
// @Accept json
// @Produce json
// @Param trackingId path string true "Tracking ID"
// @Param update body UpdateStatusRequest true "Target status and current location"
// @Success 200 {object} domain.Shipment
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /shipment/{trackingId}/status [put]
func (h *ShipmentHandler) UpdateShipmentStatus(c *fiber.Ctx) error {
	trackingID := strings.TrimSpace(c.Params("trackingId"))

	failures := validate.Check(trackingID, validate.Required(), validate.TrackingID())
	if !failures.OK() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldTrackingID, failures),
			RayID:   rayID(c),
		})
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID(c),
		})
	}

	if req.Status == nil || req.Status == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldStatus, validate.Failures{validate.KeyRequired: true}),
			RayID:   rayID(c),
		})
	}

	status, err := domain.Coerce(req.Status)
	if err != nil || !status.Valid() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldStatus, validate.Failures{}),
			RayID:   rayID(c),
		})
	}

	locationRules := []validate.Rule{
		validate.Required(),
		validate.MinLength(2),
		validate.MaxLength(100),
		validate.LettersSpacesHyphens(),
	}
	if failures := validate.Check(req.Location, locationRules...); !failures.OK() {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: validate.Message(validate.FieldLocation, failures),
			RayID:   rayID(c),
		})
	}

	shipment, err := h.shipmentService.UpdateStatus(c.Context(), trackingID, status, req.Location)
	if err != nil {
		if errors.Is(err, service.ErrShipmentDelivered) || errors.Is(err, service.ErrInvalidTransition) {
			return c.Status(http.StatusConflict).JSON(ErrorResponse{
				Message: invalidTransitionMessage,
				RayID:   rayID(c),
			})
		}
		return h.upstreamError(c, err)
	}

	return c.JSON(shipment)
}

// ListAdminShipments godoc
// @Summary List all shipments
// @Description Returns the admin listing; concurrent requests share one upstream call
// @Tags shipments
// @Produce json
// @Success 200 {array} domain.Shipment
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /shipments [get]
func (h *ShipmentHandler) ListAdminShipments(c *fiber.Ctx) error {
	shipments, err := h.shipmentService.AdminCreatedShipments(c.Context())
	if err != nil {
		return h.upstreamError(c, err)
	}

	if shipments == nil {
		shipments = []domain.Shipment{}
	}
	return c.JSON(shipments)
}

// LastViewedShipment godoc
// @Summary Get the last viewed shipment
// @Description Returns the most recently updated-and-viewed shipment, if any
// @Tags shipments
// @Produce json
// @Success 200 {object} LastViewedResponse
// @Failure 404 {object} ErrorResponse
// @Router /shipments/last-viewed [get]
func (h *ShipmentHandler) LastViewedShipment(c *fiber.Ctx) error {
	trackingID, shipment, ok := h.shipmentService.LastViewed()
	if !ok {
		return c.Status(http.StatusNotFound).JSON(ErrorResponse{
			Message: "No shipments found",
			RayID:   rayID(c),
		})
	}

	return c.JSON(LastViewedResponse{
		TrackingID: trackingID,
		Shipment:   shipment,
	})
}

// upstreamError surfaces a transport failure as-is: upstream status code and
// extracted message, no retry.
func (h *ShipmentHandler) upstreamError(c *fiber.Ctx, err error) error {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.StatusCode).JSON(ErrorResponse{
			Message: apiErr.Message,
			RayID:   rayID(c),
		})
	}

	logger.Get().Error("Upstream request failed", zap.Error(err))
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Message: validate.SomethingWentWrong,
		RayID:   rayID(c),
	})
}

// rayID returns the request correlation ID when the middleware provided one.
func rayID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
