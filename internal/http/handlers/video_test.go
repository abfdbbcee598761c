package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func decodeJSONBody(t *testing.T, body []byte, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dest); err != nil {
		t.Fatalf("unmarshal %q failed: %v", string(body), err)
	}
}

func newVideoTestEngine(h *Handler, userID uint) *gin.Engine {
	r := gin.New()
	authed := r.Group("")
	authed.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	{
		authed.GET("/me", h.Me)
		authed.POST("/api/videos", h.UploadVideo)
		authed.GET("/api/videos", h.ListVideos)
		authed.GET("/api/videos/:id", h.GetVideo)
		authed.PATCH("/api/videos/:id", h.UpdateVideo)
		authed.DELETE("/api/videos/:id", h.DeleteVideo)
		authed.POST("/api/videos/:id/trim", h.TrimVideo)
	}
	return r
}

func uploadVideoViaAPI(t *testing.T, r *gin.Engine, title string, duration float64) uint {
	t.Helper()
	w, envelope := doJSON(t, r, http.MethodPost, "/api/videos", fmt.Sprintf(`{
		"title": %q,
		"description": "demo",
		"tags": ["demo"],
		"file_url": "https://cdn.example.com/demo.mp4",
		"file_size": 2048,
		"duration": %f
	}`, title, duration))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: status want 201 got %d: %s", w.Code, w.Body.String())
	}
	id, ok := envelope.Data["id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("upload response should carry id, got %+v", envelope.Data)
	}
	return uint(id)
}

func TestUploadVideoHandler(t *testing.T) {
	h, _, _ := setupHandlerTest(t)
	r := newVideoTestEngine(h, 201)

	w, envelope := doJSON(t, r, http.MethodPost, "/api/videos", `{"description":"no title"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing title: status want 400 got %d", w.Code)
	}
	if envelope.Msg != "Title is required." {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}

	uploadVideoViaAPI(t, r, "handler upload", 120)
}

func TestGetVideoHandlerScoping(t *testing.T) {
	h, _, _ := setupHandlerTest(t)
	owner := newVideoTestEngine(h, 211)
	stranger := newVideoTestEngine(h, 212)

	id := uploadVideoViaAPI(t, owner, "scoped video", 90)

	w, _ := doJSON(t, owner, http.MethodGet, fmt.Sprintf("/api/videos/%d", id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("owner get: status want 200 got %d", w.Code)
	}

	w, envelope := doJSON(t, stranger, http.MethodGet, fmt.Sprintf("/api/videos/%d", id), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("stranger get: status want 404 got %d", w.Code)
	}
	if envelope.Msg != "Video not found." {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}

	w, _ = doJSON(t, owner, http.MethodGet, "/api/videos/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: status want 400 got %d", w.Code)
	}
}

func TestUpdateVideoHandler(t *testing.T) {
	h, _, _ := setupHandlerTest(t)
	r := newVideoTestEngine(h, 221)
	id := uploadVideoViaAPI(t, r, "patch target", 60)

	// 白名单外字段一律拒绝
	w, envelope := doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/videos/%d", id),
		`{"title":"ok","file_url":"https://evil.example.com/x.mp4"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid field: status want 400 got %d", w.Code)
	}
	if envelope.Msg != "Invalid updates." {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}

	w, envelope = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/videos/%d", id),
		`{"title":"Renamed","tags":[]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("patch: status want 200 got %d: %s", w.Code, w.Body.String())
	}
	if envelope.Msg != "Video updated successfully." {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}
	if envelope.Data["title"] != "Renamed" {
		t.Fatalf("title should be updated, got %v", envelope.Data["title"])
	}

	w, envelope = doJSON(t, r, http.MethodPatch, fmt.Sprintf("/api/videos/%d", id),
		`{"title":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("blank title: status want 400 got %d", w.Code)
	}
	if envelope.Msg != "Title cannot be empty." {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}
}

func TestDeleteVideoHandler(t *testing.T) {
	h, _, _ := setupHandlerTest(t)
	r := newVideoTestEngine(h, 231)
	id := uploadVideoViaAPI(t, r, "delete target", 60)

	w, envelope := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/videos/%d", id), "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status want 200 got %d", w.Code)
	}
	if envelope.Msg != "Video deleted successfully." {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}

	w, _ = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/videos/%d", id), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status want 404 got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/videos/%d", id), "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete: status want 404 got %d", w.Code)
	}
}

func TestTrimVideoHandler(t *testing.T) {
	h, _, _ := setupHandlerTest(t)
	r := newVideoTestEngine(h, 241)
	id := uploadVideoViaAPI(t, r, "trim target", 300)

	w, envelope := doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/videos/%d/trim", id),
		`{"start":20}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing end: status want 400 got %d", w.Code)
	}

	w, envelope = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/videos/%d/trim", id),
		`{"start":50,"end":20}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid range: status want 400 got %d", w.Code)
	}
	if envelope.Msg != "Invalid trim range." {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}

	w, envelope = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/videos/%d/trim", id),
		`{"start":10,"end":70}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("trim: status want 201 got %d: %s", w.Code, w.Body.String())
	}
	if envelope.Msg != "Video trimmed successfully." {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}
	if envelope.Data["title"] != "trim target (Trimmed)" {
		t.Fatalf("unexpected trimmed title: %v", envelope.Data["title"])
	}
	if envelope.Data["duration"] != float64(60) {
		t.Fatalf("trimmed duration want 60 got %v", envelope.Data["duration"])
	}
}

func TestListVideosHandlerPagination(t *testing.T) {
	h, _, _ := setupHandlerTest(t)
	r := newVideoTestEngine(h, 251)
	for i := 0; i < 3; i++ {
		uploadVideoViaAPI(t, r, fmt.Sprintf("paged-%d", i), 100)
	}

	w, _ := doJSON(t, r, http.MethodGet, "/api/videos?page=2&limit=2&title=paged-", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list: status want 200 got %d", w.Code)
	}
	var paged struct {
		Data       []map[string]interface{} `json:"data"`
		Pagination struct {
			Page      int   `json:"page"`
			PageSize  int   `json:"page_size"`
			Total     int64 `json:"total"`
			TotalPage int64 `json:"total_page"`
		} `json:"pagination"`
	}
	decodeJSONBody(t, w.Body.Bytes(), &paged)
	if paged.Pagination.Total != 3 || paged.Pagination.TotalPage != 2 {
		t.Fatalf("unexpected pagination: %+v", paged.Pagination)
	}
	if len(paged.Data) != 1 {
		t.Fatalf("page 2 want 1 item got %d", len(paged.Data))
	}
}

func TestMeHandler(t *testing.T) {
	h, db, _ := setupHandlerTest(t)
	authEngine := newAuthTestEngine(h)
	doJSON(t, authEngine, http.MethodPost, "/auth/signup", signupBody("h-me"))

	var userID uint
	if err := db.Raw("SELECT id FROM users WHERE email = ?", "h-me@example.com").Scan(&userID).Error; err != nil {
		t.Fatalf("load user id failed: %v", err)
	}

	r := newVideoTestEngine(h, userID)
	w, envelope := doJSON(t, r, http.MethodGet, "/me", "")
	if w.Code != http.StatusOK {
		t.Fatalf("me: status want 200 got %d: %s", w.Code, w.Body.String())
	}
	if envelope.Msg != "User details fetched successfully!" {
		t.Fatalf("unexpected msg: %s", envelope.Msg)
	}
	if envelope.Data["email"] != "h-me@example.com" {
		t.Fatalf("unexpected email: %v", envelope.Data["email"])
	}
	if envelope.Data["balance"] != "10000.00" {
		t.Fatalf("unexpected balance: %v", envelope.Data["balance"])
	}
}
