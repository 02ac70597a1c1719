package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/debug"
	"github.com/thereayou/chat-local/internal/events"
	"github.com/thereayou/chat-local/internal/handlers/dto"
	"github.com/thereayou/chat-local/internal/models"
	"github.com/thereayou/chat-local/internal/services"
)

type RoomHandler struct {
	db       *database.Database
	chat     *services.ChatService
	autosend *debug.Controller
}

func NewRoomHandler(db *database.Database, chat *services.ChatService, autosend *debug.Controller) *RoomHandler {
	return &RoomHandler{db: db, chat: chat, autosend: autosend}
}

// ListRooms returns every room, newest activity first unless ?sort= and
// ?order= say otherwise.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	sortBy, err := parseRoomSort(c.Query("sort"), c.Query("order"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rooms, err := h.db.Factory().Rooms().List(sortBy)
	if errors.Is(err, database.ErrInvalidSortField) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}

	response := make([]dto.RoomResponse, len(rooms))
	for i := range rooms {
		response[i] = formatRoomResponse(&rooms[i])
	}

	c.JSON(http.StatusOK, response)
}

func parseRoomSort(field, order string) (database.SortDescriptor, error) {
	if field == "" && order == "" {
		return database.DefaultRoomSort, nil
	}

	sortBy := database.SortDescriptor{Field: database.RoomSortField(field)}
	if field == "" {
		sortBy.Field = database.DefaultRoomSort.Field
	}

	switch order {
	case "":
		sortBy.Descending = sortBy.Field != database.SortByName
	case "asc":
	case "desc":
		sortBy.Descending = true
	default:
		return sortBy, errors.New("order must be asc or desc")
	}
	return sortBy, nil
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	roomType := models.NewGroupRoomType(req.MemberIDs)
	if req.Type == string(models.RoomKindDirect) {
		roomType.Kind = models.RoomKindDirect
	}

	room, err := h.db.Factory().Rooms().Insert(req.Name, roomType)
	if errors.Is(err, models.ErrInvalidRoomType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a direct room needs exactly one member"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}

	h.chat.Notify(c.Request.Context(), events.TypeRoomUpdated, room.ID, formatRoomResponse(room))

	c.JSON(http.StatusCreated, formatRoomResponse(room))
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, ok := lookupRoom(c, h.db)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, formatRoomResponse(room))
}

// GetRoomMembers lists the room's members, skipping ids that no longer
// resolve to a member.
func (h *RoomHandler) GetRoomMembers(c *gin.Context) {
	room, ok := lookupRoom(c, h.db)
	if !ok {
		return
	}

	repo := h.db.Factory().Members()
	response := make([]dto.MemberResponse, 0, len(room.MemberIDs))
	for _, id := range room.MemberIDs {
		member, err := repo.Find(id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load members"})
			return
		}
		if member == nil {
			continue
		}
		response = append(response, dto.MemberResponse{ID: member.ID, Name: member.Name})
	}

	c.JSON(http.StatusOK, response)
}

// DeleteAllRooms removes every room together with its messages.
func (h *RoomHandler) DeleteAllRooms(c *gin.Context) {
	h.autosend.StopAll()

	if err := h.db.Factory().Rooms().DeleteAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete rooms"})
		return
	}

	h.chat.Notify(c.Request.Context(), events.TypeDataReset, uuid.Nil, nil)

	c.Status(http.StatusNoContent)
}

func parseRoomID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return uuid.Nil, false
	}
	return id, true
}

// lookupRoom loads the room named by the :id parameter, writing the error
// response itself when it cannot.
func lookupRoom(c *gin.Context, db *database.Database) (*models.Room, bool) {
	id, ok := parseRoomID(c)
	if !ok {
		return nil, false
	}

	room, err := db.Factory().Rooms().Find(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room"})
		return nil, false
	}
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return nil, false
	}
	return room, true
}
