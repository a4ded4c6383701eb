package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/course"
	"github.com/trezcool/gradebook/core/grade"
	"github.com/trezcool/gradebook/core/session"
	"github.com/trezcool/gradebook/core/student"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Sessions   *session.Manager
		StudentSvc *student.Service
		CourseSvc  *course.Service
		GradeSvc   *grade.Service
	}

	Server struct {
		conf     *core.Config
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) (*Server, error) {
	s := &Server{
		conf:     deps.Conf,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	if err := s.setup(deps); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) setup(deps ServerDeps) error {
	conf := deps.Conf

	renderer, err := newTemplateRenderer()
	if err != nil {
		return err
	}

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Renderer = renderer
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger)
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	cookie := sessionCookie{
		name:   conf.Session.CookieName,
		maxAge: deps.Sessions.MaxAge(),
		secure: conf.Session.Secure,
	}
	s.app.Use(loadCurrentStudentMiddleware(deps.Sessions, deps.StudentSvc, cookie))

	s.app.GET("/", home)

	registerAuthAPI(s.app.Group("/auth"), deps.StudentSvc, deps.Sessions, cookie)
	registerCourseAPI(s.app, deps.CourseSvc)
	registerGradeAPI(s.app, deps.GradeSvc, deps.CourseSvc, deps.StudentSvc)
	return nil
}

// Start listens on the configured address; errors are reported on Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return render(ctx, http.StatusOK, "index", nil)
}
