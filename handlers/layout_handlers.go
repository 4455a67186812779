package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- Seating Handlers ---

// GetSeating handles GET /api/classes/:index/seating
func (h *APIHandler) GetSeating(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	view, err := h.Engine.SeatingView(c.Request.Context(), index)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GenerateGrid handles POST /api/classes/:index/seating/grid?confirm=true
func (h *APIHandler) GenerateGrid(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	p := promptFrom(c)
	if err := h.Engine.GenerateGrid(c.Request.Context(), index, req.Rows, req.Cols, p); err != nil {
		respondError(c, err, p)
		return
	}
	h.GetSeating(c)
}

// PlaceStudent handles PUT /api/classes/:index/seating/seats/:seat with {"id": n}.
func (h *APIHandler) PlaceStudent(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	seat, ok := seatParam(c)
	if !ok {
		return
	}
	var req struct {
		ID int `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	evicted, err := h.Engine.PlaceStudent(c.Request.Context(), index, req.ID, seat)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	body := gin.H{"seat": seat, "id": req.ID}
	if evicted != 0 {
		body["evicted"] = evicted
	}
	c.JSON(http.StatusOK, body)
}

// UnseatStudent handles DELETE /api/classes/:index/students/:id/seat
func (h *APIHandler) UnseatStudent(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	removed, err := h.Engine.RemoveStudentFromSeat(c.Request.Context(), index, id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ResetSeats handles POST /api/classes/:index/seating/reset?confirm=true
func (h *APIHandler) ResetSeats(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	p := promptFrom(c)
	cleared, err := h.Engine.ResetSeats(c.Request.Context(), index, p)
	if err != nil {
		respondError(c, err, p)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// RandomSeats handles POST /api/classes/:index/seating/random
func (h *APIHandler) RandomSeats(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	res, err := h.Engine.RandomAssign(c.Request.Context(), index)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}

// --- Grouping Handlers ---

// GetGroups handles GET /api/classes/:index/groups
func (h *APIHandler) GetGroups(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	view, err := h.Engine.GroupingView(c.Request.Context(), index)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GenerateGroups handles POST /api/classes/:index/groups/generate?confirm=true
func (h *APIHandler) GenerateGroups(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req struct {
		Count int `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	p := promptFrom(c)
	if err := h.Engine.GenerateGroups(c.Request.Context(), index, req.Count, p); err != nil {
		respondError(c, err, p)
		return
	}
	h.GetGroups(c)
}

// MoveToGroup handles PUT /api/classes/:index/groups/:group/students/:id
func (h *APIHandler) MoveToGroup(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	group, ok := groupParam(c)
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.Engine.MoveStudentToGroup(c.Request.Context(), index, id, group); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": group, "id": id})
}

// UngroupStudent handles DELETE /api/classes/:index/students/:id/group
func (h *APIHandler) UngroupStudent(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	removed, err := h.Engine.RemoveStudentFromGroups(c.Request.Context(), index, id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// ResetGroups handles POST /api/classes/:index/groups/reset?confirm=true
func (h *APIHandler) ResetGroups(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	p := promptFrom(c)
	cleared, err := h.Engine.ResetGroups(c.Request.Context(), index, p)
	if err != nil {
		respondError(c, err, p)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// RandomGroups handles POST /api/classes/:index/groups/random
func (h *APIHandler) RandomGroups(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	res, err := h.Engine.RandomGroupAssign(c.Request.Context(), index)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, res)
}
