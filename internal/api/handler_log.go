package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/verdant-io/planttracker/internal/plant"
)

type LogBody struct {
	Note     string `json:"note" doc:"Journal note text"`
	PhotoURL string `json:"photoUrl,omitempty" doc:"Optional photo URL already uploaded"`
}

type CommentBody struct {
	Text string `json:"comment" doc:"Comment text"`
}

type AddLogInput struct {
	ID       string `path:"id" doc:"Plant ID" format:"uuid"`
	Username string `query:"username" required:"true" doc:"Caller username"`
	Body     LogBody
}

type AddCommentInput struct {
	ID       string `path:"id" doc:"Plant ID" format:"uuid"`
	LogIndex int    `path:"logIndex" doc:"Zero-based log position" minimum:"0"`
	Username string `query:"username" required:"true" doc:"Comment author"`
	Body     CommentBody
}

type DeleteLogInput struct {
	ID       string `path:"id" doc:"Plant ID" format:"uuid"`
	LogIndex int    `path:"logIndex" doc:"Zero-based log position" minimum:"0"`
	Username string `query:"username" required:"true" doc:"Caller username"`
}

func registerLogRoutes(api huma.API, h *PlantHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-plant-log",
		Method:        http.MethodPost,
		Path:          "/api/plants/{id}/logs",
		Summary:       "Append a journal entry",
		Tags:          []string{"logs"},
		DefaultStatus: http.StatusCreated,
	}, h.AddLog)

	huma.Register(api, huma.Operation{
		OperationID:   "add-log-comment",
		Method:        http.MethodPost,
		Path:          "/api/plants/{id}/logs/{logIndex}/comments",
		Summary:       "Comment on a journal entry",
		Tags:          []string{"logs"},
		DefaultStatus: http.StatusCreated,
	}, h.AddComment)

	huma.Register(api, huma.Operation{
		OperationID: "delete-plant-log",
		Method:      http.MethodDelete,
		Path:        "/api/plants/{id}/logs/{logIndex}",
		Summary:     "Delete a journal entry",
		Tags:        []string{"logs"},
	}, h.DeleteLog)
}

func (h *PlantHandler) AddLog(ctx context.Context, input *AddLogInput) (*PlantOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid plant id")
	}
	entry := plant.Log{Note: input.Body.Note, PhotoURL: input.Body.PhotoURL}
	p, err := h.plants.AddLog(ctx, id, entry, plant.CallerFor(input.Username))
	if err != nil {
		return nil, plantError(h.logger, err, "add log")
	}
	return &PlantOutput{Body: plantToResponse(p)}, nil
}

func (h *PlantHandler) AddComment(ctx context.Context, input *AddCommentInput) (*PlantOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid plant id")
	}
	c := plant.Comment{Username: input.Username, Text: input.Body.Text}
	p, err := h.plants.AddComment(ctx, id, input.LogIndex, c, plant.CallerFor(input.Username))
	if err != nil {
		return nil, plantError(h.logger, err, "add comment")
	}
	return &PlantOutput{Body: plantToResponse(p)}, nil
}

func (h *PlantHandler) DeleteLog(ctx context.Context, input *DeleteLogInput) (*PlantOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid plant id")
	}
	p, err := h.plants.DeleteLog(ctx, id, input.LogIndex, plant.CallerFor(input.Username))
	if err != nil {
		return nil, plantError(h.logger, err, "delete log")
	}
	return &PlantOutput{Body: plantToResponse(p)}, nil
}
