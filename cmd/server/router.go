package server

import (
	"github.com/gin-gonic/gin"
	"github.com/thereayou/chat-local/internal/handlers"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Rooms     *handlers.RoomHandler
	Messages  *handlers.HTTPMessageHandler
	Members   *handlers.MemberHandler
	Debug     *handlers.DebugHandler
	Sample    *handlers.SampleHandler
	WebSocket *handlers.WebSocketHandler
}

func APIEndpoints(r *gin.Engine, authMW, wsAuthMW gin.HandlerFunc, h *Handlers) {
	// Auth endpoints
	auth := r.Group("/auth")
	{
		auth.POST("/session", h.Auth.CreateSession)
		auth.DELETE("/session", authMW, h.Auth.DeleteSession)
	}

	r.GET("/ws", wsAuthMW, h.WebSocket.HandleWebSocket)

	api := r.Group("/api", authMW)
	{
		api.GET("/rooms", h.Rooms.ListRooms)
		api.POST("/rooms", h.Rooms.CreateRoom)
		api.DELETE("/rooms", h.Rooms.DeleteAllRooms)
		api.GET("/rooms/:id", h.Rooms.GetRoom)
		api.GET("/rooms/:id/members", h.Rooms.GetRoomMembers)

		api.GET("/rooms/:id/messages", h.Messages.GetRoomMessages)
		api.POST("/rooms/:id/messages", h.Messages.SendMessage)

		api.GET("/rooms/:id/debug/autosend", h.Debug.AutoSendStatus)
		api.POST("/rooms/:id/debug/autosend", h.Debug.StartAutoSend)
		api.DELETE("/rooms/:id/debug/autosend", h.Debug.StopAutoSend)
		api.POST("/rooms/:id/debug/random", h.Debug.SendRandom)

		api.GET("/members", h.Members.ListMembers)
		api.POST("/members", h.Members.CreateMember)
		api.DELETE("/members", h.Members.DeleteAllMembers)

		api.POST("/sample-data", h.Sample.AddSampleData)
		api.DELETE("/sample-data", h.Sample.Clean)
		api.POST("/mock/members", h.Sample.RegisterMembers)
		api.POST("/mock/rooms", h.Sample.GenerateRooms)
	}
}
