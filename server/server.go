// Package server wires the REST surface: one handler group per collection,
// cookie JWT auth on everything except registration and login.
package server

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/service/s3"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/10srav/tasksaver/auth"
	"github.com/10srav/tasksaver/config"
	"github.com/10srav/tasksaver/mailout"
	"github.com/10srav/tasksaver/store"
)

type Server struct {
	conf     *config.Config
	db       *gorm.DB
	users    *store.UserStore
	tasks    *store.TaskStore
	events   *store.EventStore
	messages *store.MessageStore
	s3Client *s3.S3
	relay    *mailout.Relay
	started  time.Time
}

// New builds a server around an already-open database handle. The S3 client
// and SMTP relay may be nil; the corresponding endpoints then report the
// feature as unavailable instead of failing at startup.
func New(conf *config.Config, db *gorm.DB, s3Client *s3.S3, relay *mailout.Relay) *Server {
	return &Server{
		conf:     conf,
		db:       db,
		users:    store.NewUserStore(db),
		tasks:    store.NewTaskStore(db),
		events:   store.NewEventStore(db),
		messages: store.NewMessageStore(db),
		s3Client: s3Client,
		relay:    relay,
		started:  time.Now(),
	}
}

func (s *Server) tokenTTL() time.Duration {
	return time.Duration(s.conf.Auth.TokenTTLDays) * 24 * time.Hour
}

// Echo assembles the echo instance with middleware and all routes.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/api/health", s.getHealth)
	e.GET("/api/test-db", s.getTestDB)

	e.POST("/api/auth/register", s.postRegister)
	e.POST("/api/auth/login", s.postLogin)
	e.POST("/api/auth/logout", s.postLogout)

	api := e.Group("/api")
	api.Use(echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: auth.NewJWTClaims,
		SigningKey:    []byte(s.conf.Auth.JWTSecret),
		TokenLookup:   "cookie:" + auth.CookieName,
		ErrorHandler: func(c echo.Context, err error) error {
			// Missing, malformed and expired tokens are indistinguishable
			// to the caller.
			return fail(c, http.StatusUnauthorized, "Unauthorized")
		},
	}))

	api.GET("/profile", s.getProfile)
	api.PUT("/profile", s.putProfile)

	api.GET("/tasks", s.getTasks)
	api.POST("/tasks", s.postTask)
	api.GET("/tasks/:id", s.getTask)
	api.PUT("/tasks/:id", s.putTask)
	api.DELETE("/tasks/:id", s.deleteTask)

	api.GET("/events", s.getEvents)
	api.POST("/events", s.postEvent)
	api.GET("/events/:id", s.getEvent)
	api.PUT("/events/:id", s.putEvent)
	api.DELETE("/events/:id", s.deleteEvent)

	api.GET("/messages", s.getMessages)
	api.POST("/messages", s.postMessage)
	api.GET("/messages/:id", s.getMessage)
	api.PUT("/messages/:id", s.putMessage)
	api.DELETE("/messages/:id", s.deleteMessage)
	api.POST("/messages/send", s.postMessageSend)
	api.POST("/messages/:id/attachments", s.postAttachment)
	api.GET("/messages/:id/attachments/*", s.getAttachment)
	api.DELETE("/messages/:id/attachments/*", s.deleteAttachment)

	return e
}
