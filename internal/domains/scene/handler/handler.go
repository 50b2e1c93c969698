package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"scenes-backend/internal/domains/scene/model"
	"scenes-backend/internal/domains/scene/service"
	"scenes-backend/internal/shared/response"
	"scenes-backend/internal/shared/utils"
)

// =====================================================
// SCENE HANDLER
// =====================================================

type SceneHandler struct {
	sceneService service.ServiceInterface
}

func NewSceneHandler(sceneService service.ServiceInterface) *SceneHandler {
	return &SceneHandler{
		sceneService: sceneService,
	}
}

// RegisterRoutes mounts the scene routes on rg (normally /scenes).
func (h *SceneHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/new/:characterId", h.CreateScene)
	rg.GET("/character/:characterId", h.ListByCharacter)
	rg.GET("/users/:userId", h.ListByUser)
	rg.GET("/explore/:userId", h.ExploreOwn)
	rg.GET("/explore/feed/:userId", h.ExploreFeed)
	rg.DELETE("/delete/:id", h.DeleteScene)
	rg.GET("/:id", h.GetScene)
}

// CreateScene runs the scene pipeline for a character
// POST /scenes/new/:characterId
func (h *SceneHandler) CreateScene(c *gin.Context) {
	// Step 1: Parse character ID
	characterID, ok := parseIDParam(c, "characterId")
	if !ok {
		return
	}

	// Step 2: Bind + validate body
	var req model.CreateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Invalid create scene body")
		response.BadRequest(c, model.ErrCodeInvalidRequest)
		return
	}
	if err := req.Validate(); err != nil {
		log.Debug().Err(err).Msg("Create scene validation failed")
		response.BadRequest(c, model.ErrCodeInvalidRequest)
		return
	}

	// Step 3: Call service
	scene, err := h.sceneService.CreateScene(c.Request.Context(), characterID, req.Prompt)
	if err != nil {
		respondSceneError(c, err)
		return
	}

	// Step 4: Return success
	response.JSON(c, http.StatusCreated, model.CreateSceneResponse{
		SceneID:  scene.ID.String(),
		NewScene: scene,
	})
}

// GetScene returns one scene with its character
// GET /scenes/:id
func (h *SceneHandler) GetScene(c *gin.Context) {
	sceneID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.sceneService.GetByID(c.Request.Context(), sceneID)
	if err != nil {
		respondSceneError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, detail)
}

// ListByCharacter
// GET /scenes/character/:characterId
func (h *SceneHandler) ListByCharacter(c *gin.Context) {
	characterID, ok := parseIDParam(c, "characterId")
	if !ok {
		return
	}

	scenes, err := h.sceneService.ByCharacter(c.Request.Context(), characterID)
	respondList(c, scenes, err)
}

// ListByUser
// GET /scenes/users/:userId
func (h *SceneHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	scenes, err := h.sceneService.ByUser(c.Request.Context(), userID)
	respondList(c, scenes, err)
}

// ExploreOwn lists the user's scenes, newest first
// GET /scenes/explore/:userId
func (h *SceneHandler) ExploreOwn(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	scenes, err := h.sceneService.ExploreOwn(c.Request.Context(), userID)
	respondList(c, scenes, err)
}

// ExploreFeed lists other users' scenes, newest first
// GET /scenes/explore/feed/:userId
func (h *SceneHandler) ExploreFeed(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	scenes, err := h.sceneService.ExploreFeed(c.Request.Context(), userID)
	respondList(c, scenes, err)
}

// DeleteScene deletes a scene owned by the requester
// DELETE /scenes/delete/:id
func (h *SceneHandler) DeleteScene(c *gin.Context) {
	// Step 1: Parse scene ID
	sceneID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Step 2: Bind + validate body
	var req model.DeleteSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Debug().Err(err).Msg("Invalid delete scene body")
		response.BadRequest(c, model.ErrCodeInvalidRequest)
		return
	}
	if err := req.Validate(); err != nil {
		log.Debug().Err(err).Msg("Delete scene validation failed")
		response.BadRequest(c, model.ErrCodeInvalidRequest)
		return
	}
	requesterID, err := utils.ParseUUID(req.UserID)
	if err != nil {
		response.BadRequest(c, model.ErrCodeInvalidRequest)
		return
	}

	// Step 3: Call service
	if err := h.sceneService.DeleteScene(c.Request.Context(), sceneID, requesterID); err != nil {
		respondSceneError(c, err)
		return
	}

	// Step 4: Return success
	response.JSON(c, http.StatusOK, response.Message{Message: "Scene deleted successfully"})
}

// =====================================================
// HELPERS
// =====================================================

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(c.Param(name))
	if err != nil {
		response.BadRequest(c, model.ErrCodeInvalidRequest)
		return uuid.Nil, false
	}
	return id, true
}

func respondList(c *gin.Context, scenes []*model.Scene, err error) {
	if err != nil {
		respondSceneError(c, err)
		return
	}
	if scenes == nil {
		scenes = []*model.Scene{}
	}
	response.JSON(c, http.StatusOK, scenes)
}

// respondSceneError logs the full error and sends the fixed client message.
func respondSceneError(c *gin.Context, err error) {
	status, code, message := mapSceneError(err)

	event := log.Error()
	if status < http.StatusInternalServerError {
		event = log.Warn()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Str("code", code).
		Msg("Scene request failed")

	response.ErrorResponse(c, status, code, message)
}

// mapSceneError maps scene error to HTTP status code, code and client message
func mapSceneError(err error) (int, string, string) {
	var sceneErr *model.SceneError
	if !errors.As(err, &sceneErr) {
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal Server Error"
	}

	switch sceneErr.Code {
	case model.ErrCodeSceneNotFound:
		return http.StatusNotFound, sceneErr.Code, "Scene not found"
	case model.ErrCodeCharacterNotFound:
		return http.StatusNotFound, sceneErr.Code, "Character not found"
	case model.ErrCodeForbidden:
		return http.StatusForbidden, sceneErr.Code, "You do not have permission to delete this scene"
	case model.ErrCodeUpstreamFailure:
		return http.StatusBadGateway, sceneErr.Code, "Bad Gateway"
	case model.ErrCodeInvalidRequest:
		return http.StatusBadRequest, sceneErr.Code, "Bad Request"
	default:
		return http.StatusInternalServerError, sceneErr.Code, "Internal Server Error"
	}
}
