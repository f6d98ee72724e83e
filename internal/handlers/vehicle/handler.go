package vehicle

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"fleet/infras/otel"
	"fleet/internal/domains/vehicle/model"
	"fleet/internal/domains/vehicle/model/dto"
	"fleet/internal/domains/vehicle/service"
	"fleet/shared/constant"
	gDto "fleet/shared/dto"
	"fleet/shared/validator"
	"fleet/transport/http/response"
)

type Handler struct {
	service service.Vehicle
	otel    otel.Otel
}

func New(service service.Vehicle, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/vehicles", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateVehicle)
		routerGroup.Get("/", handler.GetVehicles)
		routerGroup.Get("/{id}", handler.GetVehicleByID)
		routerGroup.Patch("/{id}", handler.UpdateVehicle)
		routerGroup.Delete("/{id}", handler.DeleteVehicle)
	})
}

// CreateVehicle adds a vehicle to the catalog.
// @Summary Create a new vehicle
// @Description Add a vehicle to the rental catalog. Admin only.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param request body dto.CreateVehicleRequest true "Vehicle details"
// @Success 201 {object} response.Message "Vehicle created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles [post]
// @Security BearerAuth
func (handler *Handler) CreateVehicle(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateVehicle")
	defer scope.End()

	var req dto.CreateVehicleRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create vehicle")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusCreated, "Vehicle created successfully")
}

// GetVehicles lists catalog vehicles.
// @Summary Get all vehicles
// @Description Retrieve vehicles with optional filtering and pagination.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param vehicle_name query string false "Filter by name"
// @Param type query string false "Filter by type"
// @Param availability_status query string false "Filter by availability"
// @Success 200 {object} response.Data[dto.GetVehiclesResponse] "List of vehicles"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles [get]
// @Security BearerAuth
func (handler *Handler) GetVehicles(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicles")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, true)

	filters := []any{}

	if name := request.URL.Query().Get(model.FieldVehicleName); name != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldVehicleName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	if vehicleType := request.URL.Query().Get(model.FieldType); vehicleType != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldType,
			Operator: gDto.FilterOperatorEq,
			Value:    vehicleType,
			Table:    model.TableName,
		})
	}

	if availability := request.URL.Query().Get(model.FieldAvailabilityStatus); availability != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldAvailabilityStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    availability,
			Table:    model.TableName,
		})
	}

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}

	res, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicles")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetVehicleByID fetches a single vehicle.
// @Summary Get vehicle by ID
// @Tags Vehicle
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Data[dto.VehicleResponse]
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetVehicleByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetVehicleByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	res, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get vehicle")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// UpdateVehicle applies a partial catalog update. The availability flag is
// not part of the request shape and cannot be written here.
// @Summary Update vehicle
// @Description Partially update a catalog vehicle. Admin only.
// @Tags Vehicle
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID"
// @Param request body dto.UpdateVehicleRequest true "Fields to update"
// @Success 200 {object} response.Message "Vehicle updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateVehicle(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateVehicle")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	var req dto.UpdateVehicleRequest
	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update vehicle")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Vehicle updated successfully")
}

// DeleteVehicle removes a vehicle from the catalog.
// @Summary Delete vehicle
// @Description Delete a catalog vehicle. Rejected while an active booking references it. Admin only.
// @Tags Vehicle
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} response.Message "Vehicle deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/vehicles/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteVehicle(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteVehicle")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete vehicle")

		response.WithError(writer, err)

		return
	}

	response.WithMessage(writer, http.StatusOK, "Vehicle deleted successfully")
}
