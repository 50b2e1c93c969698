package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	characterModel "scenes-backend/internal/domains/character/model"
	"scenes-backend/internal/domains/scene/mocks"
	"scenes-backend/internal/domains/scene/model"
)

func setupRouter(svc *mocks.SceneService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewSceneHandler(svc).RegisterRoutes(r.Group("/scenes"))
	return r
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCreateScene(t *testing.T) {
	svc := new(mocks.SceneService)
	r := setupRouter(svc)
	characterID := uuid.New()
	scene := &model.Scene{
		ID:            uuid.New(),
		CharacterID:   characterID,
		Prompt:        "a rainy market",
		SceneCaption:  "caption",
		SceneImageURL: "https://img.test/a.jpg",
		ImageKey:      "scenes/a.jpg",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	svc.On("CreateScene", mock.Anything, characterID, "a rainy market").Return(scene, nil)

	w := doRequest(r, http.MethodPost, "/scenes/new/"+characterID.String(), `{"prompt":"a rainy market"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, scene.ID.String(), body["sceneId"])

	newScene := body["newScene"].(map[string]interface{})
	assert.Equal(t, characterID.String(), newScene["character"])
	assert.Equal(t, "caption", newScene["sceneCaption"])
	assert.Equal(t, "https://img.test/a.jpg", newScene["sceneImageUrl"])
	assert.EqualValues(t, 0, newScene["likes"])
	assert.NotContains(t, newScene, "imageKey")
	assert.NotContains(t, newScene, "ImageKey")
}

func TestCreateScene_BadInput(t *testing.T) {
	svc := new(mocks.SceneService)
	r := setupRouter(svc)

	cases := []struct {
		name string
		path string
		body string
	}{
		{"malformed id", "/scenes/new/not-a-uuid", `{"prompt":"x"}`},
		{"malformed body", "/scenes/new/" + uuid.NewString(), `{"prompt":`},
		{"missing prompt", "/scenes/new/" + uuid.NewString(), `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Bad Request", decodeError(t, w)["error"])
		})
	}
	svc.AssertNotCalled(t, "CreateScene", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateScene_ErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"character not found", model.NewCharacterNotFoundError(), http.StatusNotFound, "Character not found"},
		{"upstream", model.NewUpstreamError("image", assert.AnError), http.StatusBadGateway, "Bad Gateway"},
		{"invalid caption", model.NewInvalidCaptionError(), http.StatusInternalServerError, "Internal Server Error"},
		{"store", model.NewStoreError("create scene", assert.AnError), http.StatusInternalServerError, "Internal Server Error"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mocks.SceneService)
			r := setupRouter(svc)
			svc.On("CreateScene", mock.Anything, mock.Anything, mock.Anything).Return(nil, tc.err)

			w := doRequest(r, http.MethodPost, "/scenes/new/"+uuid.NewString(), `{"prompt":"x"}`)
			assert.Equal(t, tc.status, w.Code)

			body := decodeError(t, w)
			assert.Equal(t, tc.message, body["error"])
			assert.NotContains(t, w.Body.String(), assert.AnError.Error())
		})
	}
}

func TestGetScene(t *testing.T) {
	svc := new(mocks.SceneService)
	r := setupRouter(svc)
	owner := uuid.New()
	character := &characterModel.Character{ID: uuid.New(), UserID: owner, Name: "Mira"}
	detail := &model.SceneDetail{
		Scene:     model.Scene{ID: uuid.New(), CharacterID: character.ID, Prompt: "p"},
		Character: character,
	}
	missing := uuid.New()
	svc.On("GetByID", mock.Anything, detail.ID).Return(detail, nil)
	svc.On("GetByID", mock.Anything, missing).Return(nil, model.NewSceneNotFoundError())

	w := doRequest(r, http.MethodGet, "/scenes/"+detail.ID.String(), "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	joined := body["character"].(map[string]interface{})
	assert.Equal(t, character.ID.String(), joined["id"])
	assert.Equal(t, owner.String(), joined["userId"])
	assert.Equal(t, "Mira", joined["name"])

	w = doRequest(r, http.MethodGet, "/scenes/"+missing.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Scene not found", decodeError(t, w)["error"])

	w = doRequest(r, http.MethodGet, "/scenes/nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRoutes(t *testing.T) {
	svc := new(mocks.SceneService)
	r := setupRouter(svc)
	id := uuid.New()
	scenes := []*model.Scene{{ID: uuid.New(), CharacterID: id}}

	svc.On("ByCharacter", mock.Anything, id).Return(scenes, nil)
	svc.On("ByUser", mock.Anything, id).Return(scenes, nil)
	svc.On("ExploreOwn", mock.Anything, id).Return(scenes, nil)
	svc.On("ExploreFeed", mock.Anything, id).Return([]*model.Scene{}, nil)

	for _, path := range []string{
		"/scenes/character/" + id.String(),
		"/scenes/users/" + id.String(),
		"/scenes/explore/" + id.String(),
	} {
		w := doRequest(r, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, w.Code, path)

		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body, 1, path)
		assert.Equal(t, id.String(), body[0]["character"])
	}

	w := doRequest(r, http.MethodGet, "/scenes/explore/feed/"+id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	svc.AssertExpectations(t)
}

func TestListRoutes_NilBecomesEmptyArray(t *testing.T) {
	svc := new(mocks.SceneService)
	r := setupRouter(svc)
	id := uuid.New()
	svc.On("ByUser", mock.Anything, id).Return(nil, nil)

	w := doRequest(r, http.MethodGet, "/scenes/users/"+id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestDeleteScene(t *testing.T) {
	sceneID, userID := uuid.New(), uuid.New()

	t.Run("owner", func(t *testing.T) {
		svc := new(mocks.SceneService)
		r := setupRouter(svc)
		svc.On("DeleteScene", mock.Anything, sceneID, userID).Return(nil)

		w := doRequest(r, http.MethodDelete, "/scenes/delete/"+sceneID.String(), `{"userId":"`+userID.String()+`"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Scene deleted successfully"}`, w.Body.String())
	})

	t.Run("forbidden", func(t *testing.T) {
		svc := new(mocks.SceneService)
		r := setupRouter(svc)
		svc.On("DeleteScene", mock.Anything, sceneID, userID).Return(model.NewForbiddenError())

		w := doRequest(r, http.MethodDelete, "/scenes/delete/"+sceneID.String(), `{"userId":"`+userID.String()+`"}`)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "You do not have permission to delete this scene", decodeError(t, w)["error"])
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mocks.SceneService)
		r := setupRouter(svc)
		svc.On("DeleteScene", mock.Anything, sceneID, userID).Return(model.NewSceneNotFoundError())

		w := doRequest(r, http.MethodDelete, "/scenes/delete/"+sceneID.String(), `{"userId":"`+userID.String()+`"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad body", func(t *testing.T) {
		svc := new(mocks.SceneService)
		r := setupRouter(svc)

		for _, body := range []string{`{}`, `{"userId":"abc"}`, `not json`} {
			w := doRequest(r, http.MethodDelete, "/scenes/delete/"+sceneID.String(), body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
		}
		svc.AssertNotCalled(t, "DeleteScene", mock.Anything, mock.Anything, mock.Anything)
	})
}
