package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request id, generated when the client sends none.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request and response with an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RegisterRoutes mounts the API under /api and the event stream at /ws.
func RegisterRoutes(router *gin.Engine, api *APIHandler, timers *TimerHandler, ws gin.HandlerFunc) {
	router.Use(RequestID())
	if ws != nil {
		router.GET("/ws", ws)
	}

	g := router.Group("/api")
	{
		g.GET("/ping", PingHandler)

		// Class routes
		g.GET("/classes", api.GetAllClasses)
		g.POST("/classes", api.AddClass)
		g.GET("/classes/:index", api.GetClass)
		g.PUT("/classes/:index", api.UpdateClass)
		g.DELETE("/classes/:index", api.DeleteClass)
		g.POST("/classes/:index/select", api.SelectClass)

		// Roster and student routes
		g.POST("/classes/:index/students", api.AddStudents)
		g.POST("/classes/:index/roster/import", api.ImportRoster)
		g.GET("/classes/:index/roster/export", api.ExportRoster)
		g.PATCH("/classes/:index/students/:id", api.UpdateStudent)
		g.DELETE("/classes/:index/students/:id", api.DeleteStudent)
		g.POST("/classes/:index/students/:id/score", api.UpdateScore)
		g.POST("/classes/:index/students/:id/toggle", api.ToggleSelected)
		g.PUT("/classes/:index/selection", api.SetAllSelected)
		g.POST("/classes/:index/scores/reset", api.ResetScores)

		// Seating routes
		g.GET("/classes/:index/seating", api.GetSeating)
		g.POST("/classes/:index/seating/grid", api.GenerateGrid)
		g.PUT("/classes/:index/seating/seats/:seat", api.PlaceStudent)
		g.DELETE("/classes/:index/students/:id/seat", api.UnseatStudent)
		g.POST("/classes/:index/seating/reset", api.ResetSeats)
		g.POST("/classes/:index/seating/random", api.RandomSeats)

		// Grouping routes
		g.GET("/classes/:index/groups", api.GetGroups)
		g.POST("/classes/:index/groups/generate", api.GenerateGroups)
		g.PUT("/classes/:index/groups/:group/students/:id", api.MoveToGroup)
		g.DELETE("/classes/:index/students/:id/group", api.UngroupStudent)
		g.POST("/classes/:index/groups/reset", api.ResetGroups)
		g.POST("/classes/:index/groups/random", api.RandomGroups)

		g.GET("/classes/:index/draw", api.DrawCandidates)
		g.POST("/classes/:index/draw", api.Draw)

		// Whole-store routes
		g.GET("/export", api.Export)
		g.POST("/import", api.Import)
		g.DELETE("/data", api.ClearAll)

		if timers != nil {
			g.GET("/timers", timers.GetTimers)
			g.POST("/timers/countdown/set", timers.SetCountdown)
			g.POST("/timers/countdown/start", timers.StartCountdown)
			g.POST("/timers/countdown/stop", timers.StopCountdown)
			g.POST("/timers/stopwatch/start", timers.StartStopwatch)
			g.POST("/timers/stopwatch/stop", timers.StopStopwatch)
			g.POST("/timers/stopwatch/reset", timers.ResetStopwatch)
		}
	}
}
