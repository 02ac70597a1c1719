package handlers

import (
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/debug"
	"github.com/thereayou/chat-local/internal/events"
	"github.com/thereayou/chat-local/internal/handlers/dto"
	"github.com/thereayou/chat-local/internal/mock"
	"github.com/thereayou/chat-local/internal/models"
	"github.com/thereayou/chat-local/internal/services"
)

// SampleHandler seeds and wipes demo data.
type SampleHandler struct {
	db       *database.Database
	chat     *services.ChatService
	autosend *debug.Controller

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewSampleHandler(db *database.Database, chat *services.ChatService, autosend *debug.Controller, rng *rand.Rand) *SampleHandler {
	return &SampleHandler{db: db, chat: chat, autosend: autosend, rng: rng}
}

func (h *SampleHandler) AddSampleData(c *gin.Context) {
	var rooms []models.Room
	err := h.db.WithCommit(func(f database.RepositoryFactory) error {
		var err error
		rooms, err = mock.AddSampleData(f, time.Now().UTC())
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add sample data"})
		return
	}

	h.respondRooms(c, rooms)
}

// Clean deletes rooms and messages and keeps members.
func (h *SampleHandler) Clean(c *gin.Context) {
	h.autosend.StopAll()

	if err := h.db.WithCommit(mock.Clean); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clean data"})
		return
	}

	h.chat.Notify(c.Request.Context(), events.TypeDataReset, uuid.Nil, nil)

	c.Status(http.StatusNoContent)
}

// RegisterMembers adds every name of the mock roster as a member.
func (h *SampleHandler) RegisterMembers(c *gin.Context) {
	var members []models.Member
	err := h.db.WithCommit(func(f database.RepositoryFactory) error {
		var err error
		members, err = mock.RegisterAllMembers(f.Members())
		return err
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register members"})
		return
	}

	response := make([]dto.MemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.MemberResponse{ID: m.ID, Name: m.Name}
	}
	c.JSON(http.StatusCreated, response)
}

func (h *SampleHandler) GenerateRooms(c *gin.Context) {
	var req dto.BulkRoomsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	opts := mock.DefaultBulkOptions()
	override(&opts.RoomCount, req.RoomCount)
	override(&opts.MessageCount, req.MessageCount)
	override(&opts.MinMembers, req.MinMembers)
	override(&opts.MaxMembers, req.MaxMembers)

	var rooms []models.Room
	err := h.db.WithCommit(func(f database.RepositoryFactory) error {
		h.rngMu.Lock()
		defer h.rngMu.Unlock()

		var err error
		rooms, err = mock.BulkGenerateMockRoom(f, h.rng, opts)
		return err
	})
	switch {
	case errors.Is(err, mock.ErrInvalidOptions):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, mock.ErrNoMembers):
		c.JSON(http.StatusConflict, gin.H{"error": "register members before generating direct rooms"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate rooms"})
		return
	}

	h.respondRooms(c, rooms)
}

func (h *SampleHandler) respondRooms(c *gin.Context, rooms []models.Room) {
	response := make([]dto.RoomResponse, len(rooms))
	for i := range rooms {
		response[i] = formatRoomResponse(&rooms[i])
		h.chat.Notify(c.Request.Context(), events.TypeRoomUpdated, rooms[i].ID, response[i])
	}
	c.JSON(http.StatusCreated, response)
}

func override(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
