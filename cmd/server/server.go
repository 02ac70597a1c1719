package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/config"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/debug"
	"github.com/thereayou/chat-local/internal/events"
	"github.com/thereayou/chat-local/internal/handlers"
	"github.com/thereayou/chat-local/internal/middleware"
	"github.com/thereayou/chat-local/internal/services"
	"github.com/thereayou/chat-local/internal/session"
	ws "github.com/thereayou/chat-local/internal/websocket"
	"github.com/thereayou/chat-local/pkg/auth"
)

type Server struct {
	Config     *config.Config
	Router     *gin.Engine
	DB         *database.Database
	Redis      *redis.Client
	Bus        events.Bus
	JWTManager *auth.JWTManager
	Hub        *ws.Hub
	Chat       *services.ChatService
	AutoSend   *debug.Controller

	cancel context.CancelFunc
}

func NewServer() *Server {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	s, err := New(cfg)
	if err != nil {
		log.Fatalf("Server setup failed: %v", err)
	}
	return s
}

// New wires every component for cfg and starts the background workers.
// Close stops them.
func New(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connect failed: %w", err)
	}

	var (
		rdb         *redis.Client
		bus         events.Bus
		revocations session.Revocations
	)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb = redis.NewClient(redisOpts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			db.Close()
			return nil, fmt.Errorf("redis connect failed: %w", err)
		}
		bus = events.NewRedisBus(rdb)
		revocations = session.NewRedisRevocations(rdb)
	} else {
		log.Println("REDIS_URL not set, using in-process events and sessions")
		bus = events.NewLocalBus()
		revocations = session.NewMemoryRevocations()
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	passcode, err := auth.NewPasscodeChecker(cfg.SessionPasscode)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("passcode hash failed: %w", err)
	}

	seed := time.Now().UnixNano()
	chat := services.NewChatService(db, bus, rand.New(rand.NewSource(seed)))

	origin := uuid.NewString()
	autosend := debug.NewController(bus, origin)
	messenger := debug.NewMessenger(bus, chat, origin)
	hub := ws.NewHub()

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run()
	go hub.Relay(ctx, bus)
	go messenger.Run(ctx)

	router := gin.Default()
	router.Use(middleware.CORS(cfg.CORSOrigins))
	APIEndpoints(router,
		middleware.AuthMiddleware(jwtMgr, revocations),
		middleware.WSAuthMiddleware(jwtMgr, revocations),
		&Handlers{
			Auth:      handlers.NewAuthHandler(jwtMgr, passcode, revocations),
			Rooms:     handlers.NewRoomHandler(db, chat, autosend),
			Messages:  handlers.NewHTTPMessageHandler(db, chat),
			Members:   handlers.NewMemberHandler(db),
			Debug:     handlers.NewDebugHandler(db, chat, autosend),
			Sample:    handlers.NewSampleHandler(db, chat, autosend, rand.New(rand.NewSource(seed+1))),
			WebSocket: handlers.NewWebSocketHandler(hub, handlers.NewMessageHandler(db, chat)),
		},
	)

	return &Server{
		Config:     cfg,
		Router:     router,
		DB:         db,
		Redis:      rdb,
		Bus:        bus,
		JWTManager: jwtMgr,
		Hub:        hub,
		Chat:       chat,
		AutoSend:   autosend,
		cancel:     cancel,
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts down.
func (s *Server) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{Addr: ":" + s.Config.Port, Handler: s.Router}

	go func() {
		log.Printf("Server starting on port %s", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server run error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	s.Close()
}

func (s *Server) Close() {
	s.AutoSend.StopAll()
	s.cancel()
	s.Hub.Stop()

	if err := s.Bus.Close(); err != nil {
		log.Printf("Event bus close error: %v", err)
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}
	if err := s.DB.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}
}
