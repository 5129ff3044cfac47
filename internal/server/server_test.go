package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	agentservice "github.com/lumonlabs/severatee/internal/agent/repository"
	agentsvc "github.com/lumonlabs/severatee/internal/agent/service"
	authrepo "github.com/lumonlabs/severatee/internal/auth/repository"
	authservice "github.com/lumonlabs/severatee/internal/auth/service"
	"github.com/lumonlabs/severatee/internal/auth/session"
	"github.com/lumonlabs/severatee/internal/authorization"
	chatrepo "github.com/lumonlabs/severatee/internal/chat/repository"
	chatservice "github.com/lumonlabs/severatee/internal/chat/service"
	"github.com/lumonlabs/severatee/internal/clock"
	"github.com/lumonlabs/severatee/internal/config"
	"github.com/lumonlabs/severatee/internal/providers/inference"
	"github.com/lumonlabs/severatee/internal/providers/vault"
	"github.com/lumonlabs/severatee/internal/providers/wallet"
	profilerepo "github.com/lumonlabs/severatee/internal/profile/repository"
	profileservice "github.com/lumonlabs/severatee/internal/profile/service"
	"github.com/lumonlabs/severatee/internal/seed"
	taskrepo "github.com/lumonlabs/severatee/internal/task/repository"
	taskservice "github.com/lumonlabs/severatee/internal/task/service"
	taskdomain "github.com/lumonlabs/severatee/internal/task/domain"
	workspacedomain "github.com/lumonlabs/severatee/internal/workspace/domain"
	workspacerepo "github.com/lumonlabs/severatee/internal/workspace/repository"
	workspaceservice "github.com/lumonlabs/severatee/internal/workspace/service"
	dbpkg "github.com/lumonlabs/severatee/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testServer struct {
	srv    *Server
	engine *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := dbpkg.NewTest()
	require.NoError(t, err)
	require.NoError(t, seed.AutoMigrate(db))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zaptest.NewLogger(t)
	clk := clock.System()
	cfg := config.Config{Environment: "test", HTTPAddr: ":0"}

	userRepo, sessionRepo := authrepo.New(db)
	authSvc := authservice.New(log, userRepo, sessionRepo, node, clk)
	profiles := profilerepo.New(db)
	profileSvc := profileservice.New(log, profiles, node, clk)

	wsRepo := workspacerepo.NewRepository(db)
	wsSvc := workspaceservice.NewService(db, wsRepo, profiles, node, clk, workspacedomain.Config{}, log)

	enforcer, err := authorization.NewEnforcer(db)
	require.NoError(t, err)
	authzSvc := authorization.NewService(db, log, enforcer)

	inf := &fakeInference{reply: "done"}
	store := vault.NewMemory()
	chatSvc := chatservice.NewService(db, chatrepo.NewRepository(db), inf, node, clk, log)
	tasks := taskrepo.NewRepository(db)
	agents := agentservice.NewRepository(db)
	agentSvc := agentsvc.NewService(db, agents, tasks, &wallet.LocalProvider{}, node, clk, log)
	taskSvc := taskservice.NewService(db, tasks, agents, store, inf, node, clk, taskdomain.Config{VaultCollection: "task_submissions"}, log)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(ErrorHandlingMiddleware())

	srv := NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		DB:           db,
		Authsvc:      authSvc,
		Sessions:     session.NewManager(cfg),
		GenID:        node,
		AuthzSvc:     authzSvc,
		ProfileSvc:   profileSvc,
		WorkspaceSvc: wsSvc,
		ChatSvc:      chatSvc,
		AgentSvc:     agentSvc,
		TaskSvc:      taskSvc,
	})

	return &testServer{srv: srv, engine: engine}
}

type fakeInference struct {
	reply string
}

func (f *fakeInference) Complete(ctx context.Context, messages []inference.Message) (*inference.Result, error) {
	return &inference.Result{Content: f.reply}, nil
}

func (ts *testServer) do(t *testing.T, method, path, cookie string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	ts.engine.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) signup(t *testing.T, email string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    email,
		"password": "refinement",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c.Value
		}
	}
	t.Fatal("signup did not set a session cookie")
	return ""
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSignupLoginAndMe(t *testing.T) {
	ts := newTestServer(t)
	sid := ts.signup(t, "mark.s@lumon.industries")

	rec := ts.do(t, http.MethodGet, "/auth/me", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "mark.s@lumon.industries", body["email"])
	assert.NotNil(t, body["profile"])

	rec = ts.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "mark.s@lumon.industries",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupDuplicateEmailConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.signup(t, "helly.r@lumon.industries")

	rec := ts.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email":    "helly.r@lumon.industries",
		"password": "refinement",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/chats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodGet, "/auth/me", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWorkspaceLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ownerSID := ts.signup(t, "mark.s@lumon.industries")

	rec := ts.do(t, http.MethodPost, "/api/workspaces", ownerSID, map[string]string{
		"name": "Macrodata Refinement",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, "owner", created["role"])
	perms, ok := created["permissions"].([]any)
	require.True(t, ok)
	assert.Len(t, perms, 5)

	ws := created["workspace"].(map[string]any)
	wsID := fmt.Sprintf("%v", ws["id"])

	// Invite a member and accept from the second account.
	rec = ts.do(t, http.MethodPost, "/api/workspaces/"+wsID+"/invitations", ownerSID, map[string]string{
		"email": "helly.r@lumon.industries",
		"role":  "member",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	invitation := decodeBody(t, rec)
	invitationID := fmt.Sprintf("%v", invitation["id"])

	memberSID := ts.signup(t, "helly.r@lumon.industries")

	rec = ts.do(t, http.MethodGet, "/auth/user/invitations", memberSID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/auth/user/invitations/"+invitationID+"/accept", memberSID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	accepted := decodeBody(t, rec)
	assert.Equal(t, "member", accepted["role"])

	// A plain member cannot edit the workspace.
	rec = ts.do(t, http.MethodPatch, "/api/workspaces/"+wsID, memberSID, map[string]string{
		"name": "Optics and Design",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// But can read it.
	rec = ts.do(t, http.MethodGet, "/api/workspaces/"+wsID, memberSID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Selecting the workspace sticks on the session.
	rec = ts.do(t, http.MethodPost, "/auth/user/using/"+wsID, memberSID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/auth/me", memberSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody(t, rec)
	assert.NotNil(t, me["active_workspace_id"])
}

func TestLastOwnerGuardOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	ownerSID := ts.signup(t, "mark.s@lumon.industries")

	rec := ts.do(t, http.MethodPost, "/api/workspaces", ownerSID, map[string]string{"name": "MDR"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)
	ws := created["workspace"].(map[string]any)
	wsID := fmt.Sprintf("%v", ws["id"])

	rec = ts.do(t, http.MethodGet, "/api/workspaces/"+wsID+"/members", ownerSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	members := decodeBody(t, rec)["members"].([]any)
	require.Len(t, members, 1)
	memberID := fmt.Sprintf("%v", members[0].(map[string]any)["id"])

	rec = ts.do(t, http.MethodDelete, "/api/workspaces/"+wsID+"/members/"+memberID, ownerSID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Contains(t, errObj["message"], "last owner")

	rec = ts.do(t, http.MethodPatch, "/api/workspaces/"+wsID+"/members/"+memberID, ownerSID, map[string]string{"role": "member"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestChatRoundTripOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	sid := ts.signup(t, "irving.b@lumon.industries")

	rec := ts.do(t, http.MethodPost, "/api/chats", sid, map[string]string{"title": "waffle party"})
	require.Equal(t, http.StatusCreated, rec.Code)
	chat := decodeBody(t, rec)
	chatID := fmt.Sprintf("%v", chat["id"])

	rec = ts.do(t, http.MethodPost, "/api/chats/"+chatID+"/complete", sid, map[string]string{
		"message": "what do we do here",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reply := decodeBody(t, rec)
	assert.Equal(t, "assistant", reply["role"])
	assert.Equal(t, "done", reply["content"])

	// A different user cannot read the chat.
	otherSID := ts.signup(t, "dylan.g@lumon.industries")
	rec = ts.do(t, http.MethodGet, "/api/chats/"+chatID, otherSID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAgentAndTaskFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	sid := ts.signup(t, "milchick@lumon.industries")

	rec := ts.do(t, http.MethodPost, "/api/agents", sid, map[string]string{"name": "Refiner One"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	agent := decodeBody(t, rec)
	agentID := fmt.Sprintf("%v", agent["id"])
	assert.NotEmpty(t, agent["wallet_address"])

	rec = ts.do(t, http.MethodPost, "/api/tasks", sid, map[string]any{
		"name":         "Cold Harbor",
		"instructions": "complete the file",
		"agent_id":     agentID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	task := decodeBody(t, rec)
	taskID := fmt.Sprintf("%v", task["id"])
	assert.Equal(t, "assigned", task["status"])

	rec = ts.do(t, http.MethodPost, "/api/tasks/"+taskID+"/work", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decodeBody(t, rec)
	assert.Equal(t, "completed", done["status"])

	rec = ts.do(t, http.MethodGet, "/api/tasks/"+taskID+"/submission", sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sub := decodeBody(t, rec)
	record := sub["record"].(map[string]any)
	assert.Equal(t, "done", record["answer"])

	// Deleting the agent releases the task.
	rec = ts.do(t, http.MethodDelete, "/api/agents/"+agentID, sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/tasks/"+taskID, sid, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	released := decodeBody(t, rec)
	assert.Equal(t, "unassigned", released["status"])
	assert.Nil(t, released["agent_id"])
}

func TestValidationErrorShape(t *testing.T) {
	ts := newTestServer(t)
	sid := ts.signup(t, "ms.casey@lumon.industries")

	rec := ts.do(t, http.MethodPost, "/api/workspaces", sid, map[string]string{"name": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "validation_error", errObj["type"])
}
