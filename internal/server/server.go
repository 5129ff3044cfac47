package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/lumonlabs/severatee/internal/agent"
	agentdomain "github.com/lumonlabs/severatee/internal/agent/domain"
	"github.com/lumonlabs/severatee/internal/auth"
	authdomain "github.com/lumonlabs/severatee/internal/auth/domain"
	"github.com/lumonlabs/severatee/internal/auth/session"
	"github.com/lumonlabs/severatee/internal/authorization"
	"github.com/lumonlabs/severatee/internal/chat"
	chatdomain "github.com/lumonlabs/severatee/internal/chat/domain"
	"github.com/lumonlabs/severatee/internal/config"
	"github.com/lumonlabs/severatee/internal/observability"
	obsmiddleware "github.com/lumonlabs/severatee/internal/observability/logger"
	obsmetrics "github.com/lumonlabs/severatee/internal/observability/metrics"
	obstracing "github.com/lumonlabs/severatee/internal/observability/tracing"
	"github.com/lumonlabs/severatee/internal/profile"
	profiledomain "github.com/lumonlabs/severatee/internal/profile/domain"
	"github.com/lumonlabs/severatee/internal/providers"
	"github.com/lumonlabs/severatee/internal/task"
	taskdomain "github.com/lumonlabs/severatee/internal/task/domain"
	"github.com/lumonlabs/severatee/internal/workspace"
	workspacedomain "github.com/lumonlabs/severatee/internal/workspace/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	session.Module,
	providers.Module,
	profile.Module,
	workspace.Module,
	chat.Module,
	agent.Module,
	task.Module,
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

// classifyErrorForLog feeds the request logger the same taxonomy the error
// middleware writes to clients.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	return payload.Type, payload.Message
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	authsvc      authdomain.Service
	sessions     *session.Manager
	genID        *snowflake.Node
	authzSvc     authorization.Service
	profilesvc   profiledomain.Service
	workspacesvc workspacedomain.Service
	chatsvc      chatdomain.Service
	agentsvc     agentdomain.Service
	tasksvc      taskdomain.Service
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	GenID        *snowflake.Node
	AuthzSvc     authorization.Service
	ProfileSvc   profiledomain.Service
	WorkspaceSvc workspacedomain.Service
	ChatSvc      chatdomain.Service
	AgentSvc     agentdomain.Service
	TaskSvc      taskdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		genID:        p.GenID,
		authzSvc:     p.AuthzSvc,
		profilesvc:   p.ProfileSvc,
		workspacesvc: p.WorkspaceSvc,
		chatsvc:      p.ChatSvc,
		agentsvc:     p.AgentSvc,
		tasksvc:      p.TaskSvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.POST("/change-password", s.WebAuthRequired(), s.ChangePassword)
	auth.GET("/me", s.WebAuthRequired(), s.Me)

	user := auth.Group("/user", s.WebAuthRequired())
	{
		user.GET("/workspaces", s.ListUserWorkspaces)
		user.POST("/using/:workspaceId", s.UseWorkspace)
		user.GET("/invitations", s.ListUserInvitations)
		user.POST("/invitations/:invitationId/accept", s.AcceptInvitation)
	}
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.WebAuthRequired())

	// -------- Workspaces --------
	api.POST("/workspaces", s.CreateWorkspace)
	workspaces := api.Group("/workspaces/:workspaceId", s.WorkspaceContext())
	{
		workspaces.GET("", s.RequireWorkspacePermission(workspacedomain.PermViewWorkspace), s.GetWorkspace)
		workspaces.PATCH("", s.RequireWorkspacePermission(workspacedomain.PermEditWorkspace), s.UpdateWorkspace)
		workspaces.DELETE("", s.RequireWorkspacePermission(workspacedomain.PermDeleteWorkspace), s.DeleteWorkspace)

		workspaces.GET("/members", s.RequireWorkspacePermission(workspacedomain.PermViewWorkspace), s.ListWorkspaceMembers)
		workspaces.PATCH("/members/:memberId", s.RequireWorkspacePermission(workspacedomain.PermManageMembers), s.UpdateMemberRole)
		// Members may remove themselves, so the permission check lives
		// in the service.
		workspaces.DELETE("/members/:memberId", s.RemoveMember)

		workspaces.GET("/invitations", s.RequireWorkspacePermission(workspacedomain.PermViewWorkspace), s.ListWorkspaceInvitations)
		workspaces.POST("/invitations", s.RequireWorkspacePermission(workspacedomain.PermInviteMembers), s.CreateWorkspaceInvitation)
		workspaces.DELETE("/invitations/:invitationId", s.RequireWorkspacePermission(workspacedomain.PermManageMembers), s.RevokeWorkspaceInvitation)
	}

	// -------- Profile --------
	api.GET("/profile", s.GetProfile)
	api.PATCH("/profile", s.UpdateProfile)
	api.DELETE("/profile", s.DeleteProfile)

	// -------- Chats --------
	api.POST("/chats", s.CreateChat)
	api.GET("/chats", s.ListChats)
	api.GET("/chats/:chatId", s.GetChat)
	api.PUT("/chats/:chatId/messages", s.SaveChatMessages)
	api.PATCH("/chats/:chatId/status", s.UpdateChatStatus)
	api.POST("/chats/:chatId/complete", s.CompleteChat)
	api.DELETE("/chats/:chatId", s.DeleteChat)

	// -------- Agents --------
	api.POST("/agents", s.CreateAgent)
	api.GET("/agents", s.ListAgents)
	api.GET("/agents/:agentId", s.GetAgent)
	api.PATCH("/agents/:agentId", s.UpdateAgent)
	api.DELETE("/agents/:agentId", s.DeleteAgent)

	// -------- Tasks --------
	api.POST("/tasks", s.CreateTask)
	api.GET("/tasks", s.ListTasks)
	api.GET("/tasks/:taskId", s.GetTask)
	api.PATCH("/tasks/:taskId/status", s.UpdateTaskStatus)
	api.POST("/tasks/:taskId/submit", s.SubmitTaskAnswer)
	api.GET("/tasks/:taskId/submission", s.GetTaskSubmission)
	api.POST("/tasks/:taskId/work", s.PerformTaskWork)
	api.DELETE("/tasks/:taskId", s.DeleteTask)
}
