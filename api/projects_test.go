package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/lostconnect/backend/internal/models"
)

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post request failed: %v", err)
	}
	return res
}

func validProject() map[string]any {
	return map[string]any{
		"title":       "Lost cat",
		"description": "Orange tabby",
		"category":    "animal",
		"status":      "lost",
		"lat":         12.9,
		"lng":         77.6,
		"user_id":     "u1",
		"user_email":  "a@b.com",
	}
}

func TestCreateProject_NewUserGetsResolvedName(t *testing.T) {
	env := setupServer(t, testWebhookSecret)
	env.resolver.Names["u1"] = "Resolved Name"

	res := postJSON(t, env.srv.URL+"/projects", validProject())
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}

	var created struct {
		Message string `json:"message"`
		ID      int64  `json:"id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected non-zero project id")
	}

	listRes, err := http.Get(env.srv.URL + "/projects")
	if err != nil {
		t.Fatalf("get projects: %v", err)
	}
	defer listRes.Body.Close()
	if listRes.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 got %d", listRes.StatusCode)
	}

	var projects []models.Project
	if err := json.NewDecoder(listRes.Body).Decode(&projects); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project got %d", len(projects))
	}
	c := projects[0].Creator
	if c == nil || c.ID != "u1" {
		t.Fatalf("unexpected creator %#v", c)
	}
	if c.Name != "Resolved Name" {
		t.Fatalf("expected creator name resolved via lookup, got %q", c.Name)
	}
}

func TestCreateProject_UnresolvableUserFallsBackToSentinel(t *testing.T) {
	env := setupServer(t, testWebhookSecret)

	res := postJSON(t, env.srv.URL+"/projects", validProject())
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}

	listRes, err := http.Get(env.srv.URL + "/projects")
	if err != nil {
		t.Fatalf("get projects: %v", err)
	}
	defer listRes.Body.Close()

	var projects []models.Project
	if err := json.NewDecoder(listRes.Body).Decode(&projects); err != nil {
		t.Fatalf("decode projects: %v", err)
	}
	if len(projects) != 1 || projects[0].Creator == nil {
		t.Fatalf("expected 1 project with creator, got %#v", projects)
	}
	if projects[0].Creator.Name != models.UnknownName {
		t.Fatalf("expected sentinel creator name got %q", projects[0].Creator.Name)
	}
}

func TestCreateProject_SuppliedNameWins(t *testing.T) {
	env := setupServer(t, testWebhookSecret)
	env.resolver.Names["u1"] = "Lookup Name"

	payload := validProject()
	payload["user_name"] = "Supplied Name"

	res := postJSON(t, env.srv.URL+"/projects", payload)
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}

	if len(env.resolver.Calls) != 0 {
		t.Fatalf("expected no lookup when a name is supplied")
	}
}

func TestCreateProject_MissingFieldsRejected(t *testing.T) {
	env := setupServer(t, testWebhookSecret)

	for _, field := range []string{"title", "description", "category", "status", "lat", "lng", "user_id"} {
		t.Run(field, func(t *testing.T) {
			payload := validProject()
			delete(payload, field)

			res := postJSON(t, env.srv.URL+"/projects", payload)
			res.Body.Close()
			if res.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400 for missing %s got %d", field, res.StatusCode)
			}
		})
	}
}

func TestCreateProject_InvalidEnumsRejected(t *testing.T) {
	env := setupServer(t, testWebhookSecret)

	payload := validProject()
	payload["status"] = "misplaced"
	res := postJSON(t, env.srv.URL+"/projects", payload)
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad status got %d", res.StatusCode)
	}

	payload = validProject()
	payload["category"] = "mineral"
	res = postJSON(t, env.srv.URL+"/projects", payload)
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad category got %d", res.StatusCode)
	}
}

func TestListProjects_EmptyIsEmptyArray(t *testing.T) {
	env := setupServer(t, testWebhookSecret)

	res, err := http.Get(env.srv.URL + "/projects")
	if err != nil {
		t.Fatalf("get projects: %v", err)
	}
	if body := readBody(t, res); body != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestCreateUser_CreatedThenExists(t *testing.T) {
	env := setupServer(t, testWebhookSecret)
	env.resolver.Names["u9"] = "Niner"

	res := postJSON(t, env.srv.URL+"/users", map[string]any{"id": "u9", "email": "nine@example.com"})
	defer res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}
	var u models.User
	if err := json.NewDecoder(res.Body).Decode(&u); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if u.Name != "Niner" {
		t.Fatalf("expected resolved name got %q", u.Name)
	}

	res2 := postJSON(t, env.srv.URL+"/users", map[string]any{"id": "u9", "email": "nine@example.com"})
	res2.Body.Close()
	if res2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for existing user got %d", res2.StatusCode)
	}
}

func TestCreateUser_MissingFieldsRejected(t *testing.T) {
	env := setupServer(t, testWebhookSecret)

	res := postJSON(t, env.srv.URL+"/users", map[string]any{"id": "u9"})
	res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", res.StatusCode)
	}
}

func TestLike_DuplicateReturnsConflict(t *testing.T) {
	env := setupServer(t, testWebhookSecret)

	res := postJSON(t, env.srv.URL+"/projects", validProject())
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}

	like := map[string]any{"user_id": "u1"}
	first := postJSON(t, env.srv.URL+"/projects/1/like", like)
	first.Body.Close()
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for first like got %d", first.StatusCode)
	}

	second := postJSON(t, env.srv.URL+"/projects/1/like", like)
	second.Body.Close()
	if second.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate like got %d", second.StatusCode)
	}
}

func TestComments_CreateAndList(t *testing.T) {
	env := setupServer(t, testWebhookSecret)

	res := postJSON(t, env.srv.URL+"/projects", validProject())
	res.Body.Close()
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", res.StatusCode)
	}

	cRes := postJSON(t, env.srv.URL+"/projects/1/comments", map[string]any{"user_id": "u1", "content": "seen near the park"})
	cRes.Body.Close()
	if cRes.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 got %d", cRes.StatusCode)
	}

	listRes, err := http.Get(env.srv.URL + "/projects/1/comments")
	if err != nil {
		t.Fatalf("get comments: %v", err)
	}
	defer listRes.Body.Close()

	var comments []models.Comment
	if err := json.NewDecoder(listRes.Body).Decode(&comments); err != nil {
		t.Fatalf("decode comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "seen near the park" {
		t.Fatalf("unexpected comments %#v", comments)
	}
}
