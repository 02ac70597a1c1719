package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/chat-local/internal/database"
	"github.com/thereayou/chat-local/internal/handlers/dto"
)

type MemberHandler struct {
	db *database.Database
}

func NewMemberHandler(db *database.Database) *MemberHandler {
	return &MemberHandler{db: db}
}

func (h *MemberHandler) ListMembers(c *gin.Context) {
	members, err := h.db.Factory().Members().List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list members"})
		return
	}

	response := make([]dto.MemberResponse, len(members))
	for i, m := range members {
		response[i] = dto.MemberResponse{ID: m.ID, Name: m.Name}
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) CreateMember(c *gin.Context) {
	var req dto.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.db.Factory().Members().Insert(req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create member"})
		return
	}

	c.JSON(http.StatusCreated, dto.MemberResponse{ID: member.ID, Name: member.Name})
}

// DeleteAllMembers leaves room member ids and message senders dangling.
func (h *MemberHandler) DeleteAllMembers(c *gin.Context) {
	if err := h.db.Factory().Members().DeleteAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete members"})
		return
	}
	c.Status(http.StatusNoContent)
}
