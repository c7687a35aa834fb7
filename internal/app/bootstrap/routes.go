// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	analyticsfeature "github.com/rollcallhq/rollcall/internal/app/features/analytics"
	attendancefeature "github.com/rollcallhq/rollcall/internal/app/features/attendance"
	healthfeature "github.com/rollcallhq/rollcall/internal/app/features/health"
	loginfeature "github.com/rollcallhq/rollcall/internal/app/features/login"
	programsfeature "github.com/rollcallhq/rollcall/internal/app/features/programs"
	studentsfeature "github.com/rollcallhq/rollcall/internal/app/features/students"
	attendancestore "github.com/rollcallhq/rollcall/internal/app/store/attendance"
	programstore "github.com/rollcallhq/rollcall/internal/app/store/programs"
	studentstore "github.com/rollcallhq/rollcall/internal/app/store/students"
	"github.com/rollcallhq/rollcall/internal/app/system/auth"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. The console is a JSON API: the
// session middleware runs globally, /health and /login are open, and
// every roster, attendance, and analytics route requires a session.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	students := studentstore.New(deps.MongoDatabase)
	programs := programstore.New(deps.MongoDatabase)
	attendance := attendancestore.New(deps.MongoDatabase)

	r := chi.NewRouter()

	// Global session middleware: loads the console session into context.
	r.Use(sessionMgr.LoadSession)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(sessionMgr, appCfg.ConsolePasswordHash, logger)
	r.Mount("/", loginfeature.Routes(loginHandler))

	// Rosters
	studentsHandler := studentsfeature.NewHandler(students, attendance, logger)
	r.Mount("/students", studentsfeature.Routes(studentsHandler))

	programsHandler := programsfeature.NewHandler(programs, attendance, logger)
	r.Mount("/programs", programsfeature.Routes(programsHandler))

	// Attendance sheets and history
	attendanceHandler := attendancefeature.NewHandler(attendance, students, programs, logger)
	r.Mount("/attendance", attendancefeature.Routes(attendanceHandler))

	// Analytics
	analyticsHandler := analyticsfeature.NewHandler(attendance, students, programs, logger)
	r.Mount("/analytics", analyticsfeature.Routes(analyticsHandler))

	return r, nil
}
