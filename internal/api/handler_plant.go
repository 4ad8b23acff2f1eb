package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/verdant-io/planttracker/internal/plant"
)

// --- Huma Input/Output types ---

type PlantBody struct {
	Owner                 string      `json:"ownerUsername,omitempty" doc:"Owner username; required on create, ignored on update"`
	Name                  string      `json:"name,omitempty" doc:"Display name"`
	Species               string      `json:"species,omitempty" doc:"Species"`
	LastWatered           *plant.Date `json:"lastWateredDate,omitempty" doc:"Last watering date"`
	WateringFrequencyDays int         `json:"wateringFrequencyDays,omitempty" doc:"Days between waterings" minimum:"0"`
	SoilType              string      `json:"soilType,omitempty" doc:"Soil type"`
	Fertilizer            string      `json:"fertilizer,omitempty" doc:"Fertilizer"`
	SunExposure           string      `json:"sunExposure,omitempty" doc:"Sun exposure"`
	IdealTemperature      string      `json:"idealTemperature,omitempty" doc:"Ideal temperature range"`
	Notes                 string      `json:"notes,omitempty" doc:"Free-form notes"`
	Public                bool        `json:"isPublic,omitempty" doc:"Publicly visible"`
}

func (b PlantBody) toPlant() plant.Plant {
	return plant.Plant{
		Owner:                 b.Owner,
		Name:                  b.Name,
		Species:               b.Species,
		LastWatered:           b.LastWatered,
		WateringFrequencyDays: b.WateringFrequencyDays,
		SoilType:              b.SoilType,
		Fertilizer:            b.Fertilizer,
		SunExposure:           b.SunExposure,
		IdealTemperature:      b.IdealTemperature,
		Notes:                 b.Notes,
		Public:                b.Public,
	}
}

type CommentResponse struct {
	Username  string    `json:"username" doc:"Comment author"`
	Text      string    `json:"comment" doc:"Comment text"`
	Timestamp time.Time `json:"timestamp" doc:"Creation time"`
}

type LogResponse struct {
	PhotoURL  string            `json:"photoUrl,omitempty" doc:"Photo URL"`
	Note      string            `json:"note" doc:"Log note"`
	Timestamp time.Time         `json:"timestamp" doc:"Creation time"`
	Comments  []CommentResponse `json:"comments" doc:"Comments on this log"`
}

type PlantResponse struct {
	ID                    uuid.UUID     `json:"id" doc:"Plant ID"`
	Owner                 string        `json:"ownerUsername" doc:"Owner username"`
	Name                  string        `json:"name,omitempty"`
	Species               string        `json:"species,omitempty"`
	LastWatered           *plant.Date   `json:"lastWateredDate,omitempty"`
	WateringFrequencyDays int           `json:"wateringFrequencyDays,omitempty"`
	SoilType              string        `json:"soilType,omitempty"`
	Fertilizer            string        `json:"fertilizer,omitempty"`
	SunExposure           string        `json:"sunExposure,omitempty"`
	IdealTemperature      string        `json:"idealTemperature,omitempty"`
	Notes                 string        `json:"notes,omitempty"`
	Logs                  []LogResponse `json:"logs" doc:"Journal entries, oldest first"`
	Overdue               bool          `json:"overdue" doc:"Watering interval has elapsed"`
	Public                bool          `json:"isPublic"`
}

func plantToResponse(p *plant.Plant) PlantResponse {
	logs := make([]LogResponse, len(p.Logs))
	for i, l := range p.Logs {
		comments := make([]CommentResponse, len(l.Comments))
		for j, c := range l.Comments {
			comments[j] = CommentResponse{Username: c.Username, Text: c.Text, Timestamp: c.Timestamp}
		}
		logs[i] = LogResponse{PhotoURL: l.PhotoURL, Note: l.Note, Timestamp: l.Timestamp, Comments: comments}
	}
	return PlantResponse{
		ID:                    p.ID,
		Owner:                 p.Owner,
		Name:                  p.Name,
		Species:               p.Species,
		LastWatered:           p.LastWatered,
		WateringFrequencyDays: p.WateringFrequencyDays,
		SoilType:              p.SoilType,
		Fertilizer:            p.Fertilizer,
		SunExposure:           p.SunExposure,
		IdealTemperature:      p.IdealTemperature,
		Notes:                 p.Notes,
		Logs:                  logs,
		Overdue:               p.Overdue,
		Public:                p.Public,
	}
}

func plantsToResponse(plants []plant.Plant) []PlantResponse {
	resp := make([]PlantResponse, len(plants))
	for i := range plants {
		resp[i] = plantToResponse(&plants[i])
	}
	return resp
}

type ListPlantsInput struct {
	Username string `query:"username" required:"true" doc:"Owner whose plants to list"`
}

type PlantListOutput struct {
	Body []PlantResponse
}

type GetPlantInput struct {
	ID       string `path:"id" doc:"Plant ID" format:"uuid"`
	Username string `query:"username" required:"false" doc:"Caller username, if any"`
}

type PlantOutput struct {
	Body PlantResponse
}

type CreatePlantInput struct {
	Body PlantBody
}

type UpdatePlantInput struct {
	ID       string `path:"id" doc:"Plant ID" format:"uuid"`
	Username string `query:"username" required:"true" doc:"Caller username"`
	Body     PlantBody
}

type DeletePlantInput struct {
	ID       string `path:"id" doc:"Plant ID" format:"uuid"`
	Username string `query:"username" required:"true" doc:"Caller username"`
}

type WaterPlantInput struct {
	ID       string `path:"id" doc:"Plant ID" format:"uuid"`
	Username string `query:"username" required:"true" doc:"Caller username"`
}

// --- Handler ---

type PlantHandler struct {
	plants *plant.Service
	logger *slog.Logger
}

func NewPlantHandler(plants *plant.Service, logger *slog.Logger) *PlantHandler {
	return &PlantHandler{plants: plants, logger: logger}
}

func registerPlantRoutes(api huma.API, h *PlantHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-plants",
		Method:      http.MethodGet,
		Path:        "/api/plants",
		Summary:     "List a user's plants",
		Tags:        []string{"plants"},
	}, h.ListPlants)

	huma.Register(api, huma.Operation{
		OperationID: "list-public-plants",
		Method:      http.MethodGet,
		Path:        "/api/plants/public-plants",
		Summary:     "List publicly visible plants",
		Tags:        []string{"plants"},
	}, h.ListPublicPlants)

	huma.Register(api, huma.Operation{
		OperationID: "get-plant",
		Method:      http.MethodGet,
		Path:        "/api/plants/{id}",
		Summary:     "Get a plant",
		Tags:        []string{"plants"},
	}, h.GetPlant)

	huma.Register(api, huma.Operation{
		OperationID:   "create-plant",
		Method:        http.MethodPost,
		Path:          "/api/plants",
		Summary:       "Register a plant",
		Tags:          []string{"plants"},
		DefaultStatus: http.StatusCreated,
	}, h.CreatePlant)

	huma.Register(api, huma.Operation{
		OperationID: "update-plant",
		Method:      http.MethodPut,
		Path:        "/api/plants/{id}",
		Summary:     "Update a plant",
		Tags:        []string{"plants"},
	}, h.UpdatePlant)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-plant",
		Method:        http.MethodDelete,
		Path:          "/api/plants/{id}",
		Summary:       "Delete a plant",
		Tags:          []string{"plants"},
		DefaultStatus: http.StatusNoContent,
	}, h.DeletePlant)

	huma.Register(api, huma.Operation{
		OperationID: "water-plant",
		Method:      http.MethodPost,
		Path:        "/api/plants/{id}/water",
		Summary:     "Record a watering now",
		Tags:        []string{"plants"},
	}, h.WaterPlant)
}

func (h *PlantHandler) ListPlants(ctx context.Context, input *ListPlantsInput) (*PlantListOutput, error) {
	plants, err := h.plants.ListByOwner(ctx, input.Username)
	if err != nil {
		return nil, plantError(h.logger, err, "list plants")
	}
	return &PlantListOutput{Body: plantsToResponse(plants)}, nil
}

func (h *PlantHandler) ListPublicPlants(ctx context.Context, _ *struct{}) (*PlantListOutput, error) {
	plants, err := h.plants.ListPublic(ctx)
	if err != nil {
		return nil, plantError(h.logger, err, "list public plants")
	}
	return &PlantListOutput{Body: plantsToResponse(plants)}, nil
}

func (h *PlantHandler) GetPlant(ctx context.Context, input *GetPlantInput) (*PlantOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid plant id")
	}
	p, err := h.plants.Get(ctx, id, plant.CallerFor(input.Username))
	if err != nil {
		return nil, plantError(h.logger, err, "get plant")
	}
	return &PlantOutput{Body: plantToResponse(p)}, nil
}

func (h *PlantHandler) CreatePlant(ctx context.Context, input *CreatePlantInput) (*PlantOutput, error) {
	p, err := h.plants.Create(ctx, input.Body.toPlant())
	if err != nil {
		return nil, plantError(h.logger, err, "create plant")
	}
	return &PlantOutput{Body: plantToResponse(p)}, nil
}

func (h *PlantHandler) UpdatePlant(ctx context.Context, input *UpdatePlantInput) (*PlantOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid plant id")
	}
	p, err := h.plants.Update(ctx, id, input.Body.toPlant(), plant.CallerFor(input.Username))
	if err != nil {
		return nil, plantError(h.logger, err, "update plant")
	}
	return &PlantOutput{Body: plantToResponse(p)}, nil
}

func (h *PlantHandler) DeletePlant(ctx context.Context, input *DeletePlantInput) (*struct{}, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid plant id")
	}
	if err := h.plants.Delete(ctx, id, plant.CallerFor(input.Username)); err != nil {
		return nil, plantError(h.logger, err, "delete plant")
	}
	return &struct{}{}, nil
}

func (h *PlantHandler) WaterPlant(ctx context.Context, input *WaterPlantInput) (*PlantOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid plant id")
	}
	p, err := h.plants.Water(ctx, id, plant.CallerFor(input.Username))
	if err != nil {
		return nil, plantError(h.logger, err, "water plant")
	}
	return &PlantOutput{Body: plantToResponse(p)}, nil
}
