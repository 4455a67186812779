package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"classroom-assistant-go/classroom"
	"classroom-assistant-go/models"
	"classroom-assistant-go/roster"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// APIHandler exposes the classroom engine over HTTP.
type APIHandler struct {
	Engine        *classroom.Engine
	FrameInterval time.Duration // Pace of the draw animation, passed to the UI
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(engine *classroom.Engine, frameInterval time.Duration) *APIHandler {
	return &APIHandler{Engine: engine, FrameInterval: frameInterval}
}

// Empty fields are left to the engine, which reports them with their own codes.
type classRequest struct {
	Name   string `json:"name"`
	Roster string `json:"roster"`
}

type rosterRequest struct {
	Roster string `json:"roster"`
}

// --- Class Handlers ---

// GetAllClasses handles GET /api/classes
func (h *APIHandler) GetAllClasses(c *gin.Context) {
	c.JSON(http.StatusOK, h.Engine.Snapshot())
}

// GetClass handles GET /api/classes/:index and includes the roster as editable text.
func (h *APIHandler) GetClass(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	class, err := h.Engine.Class(index)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"class": class, "roster": roster.Format(class.Students)})
}

// AddClass handles POST /api/classes
func (h *APIHandler) AddClass(c *gin.Context) {
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	index, res, err := h.Engine.CreateClass(c.Request.Context(), req.Name, req.Roster)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"index": index, "result": res})
}

// UpdateClass handles PUT /api/classes/:index
func (h *APIHandler) UpdateClass(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	res, err := h.Engine.UpdateClass(c.Request.Context(), index, req.Name, req.Roster)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res})
}

// DeleteClass handles DELETE /api/classes/:index?confirm=true
func (h *APIHandler) DeleteClass(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	p := promptFrom(c)
	if err := h.Engine.DeleteClass(c.Request.Context(), index, p); err != nil {
		respondError(c, err, p)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": h.Engine.Current()})
}

// SelectClass handles POST /api/classes/:index/select
func (h *APIHandler) SelectClass(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	if err := h.Engine.SelectClass(c.Request.Context(), index); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"current": index})
}

// --- Roster Handlers ---

// AddStudents handles POST /api/classes/:index/students
func (h *APIHandler) AddStudents(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req rosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	res, err := h.Engine.AddStudents(c.Request.Context(), index, req.Roster)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res})
}

// ImportRoster handles POST /api/classes/:index/roster/import with an .xlsx
// upload in the "file" form field. Rows go through the same parsing as typed
// roster text.
func (h *APIHandler) ImportRoster(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		badRequest(c, "Error retrieving uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	log.Infof("received roster upload %s for class %d", header.Filename, index)
	text, err := roster.ReadSpreadsheet(file)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to read spreadsheet: " + err.Error()})
		return
	}
	res, err := h.Engine.AddStudents(c.Request.Context(), index, text)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "file": header.Filename})
}

// ExportRoster handles GET /api/classes/:index/roster/export
func (h *APIHandler) ExportRoster(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	class, err := h.Engine.Class(index)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	var buf bytes.Buffer
	if err := roster.WriteSpreadsheet(&buf, class); err != nil {
		log.Errorf("failed to write roster of %q: %v", class.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build spreadsheet"})
		return
	}
	attachment(c, class.Name+".xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- Student Handlers ---

type studentPatch struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}

// UpdateStudent handles PATCH /api/classes/:index/students/:id. The id field
// takes the new seat number as text; name renames the student.
func (h *APIHandler) UpdateStudent(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req studentPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.ID == nil && req.Name == nil {
		badRequest(c, "Nothing to update")
		return
	}
	ctx := c.Request.Context()
	changed := false
	if req.Name != nil {
		renamed, err := h.Engine.RenameStudent(ctx, index, id, *req.Name)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		changed = changed || renamed
	}
	if req.ID != nil {
		renumbered, err := h.Engine.RenumberStudent(ctx, index, id, *req.ID)
		if err != nil {
			respondError(c, err, nil)
			return
		}
		changed = changed || renumbered
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// UpdateScore handles POST /api/classes/:index/students/:id/score
func (h *APIHandler) UpdateScore(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Delta *int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	score, err := h.Engine.UpdateScore(c.Request.Context(), index, id, *req.Delta)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"score": score})
}

// ToggleSelected handles POST /api/classes/:index/students/:id/toggle
func (h *APIHandler) ToggleSelected(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	selected, err := h.Engine.ToggleSelected(c.Request.Context(), index, id)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"selected": selected})
}

// SetAllSelected handles PUT /api/classes/:index/selection
func (h *APIHandler) SetAllSelected(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	var req struct {
		Selected *bool `json:"selected" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	n, err := h.Engine.SetAllSelected(c.Request.Context(), index, *req.Selected)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n, "selected": *req.Selected})
}

// DeleteStudent handles DELETE /api/classes/:index/students/:id?confirm=true
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	p := promptFrom(c)
	if err := h.Engine.DeleteStudent(c.Request.Context(), index, id, p); err != nil {
		respondError(c, err, p)
		return
	}
	c.Status(http.StatusNoContent)
}

// ResetScores handles POST /api/classes/:index/scores/reset?confirm=true
func (h *APIHandler) ResetScores(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	p := promptFrom(c)
	if err := h.Engine.ResetScores(c.Request.Context(), index, p); err != nil {
		respondError(c, err, p)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Draw Handler ---

// DrawCandidates handles GET /api/classes/:index/draw
func (h *APIHandler) DrawCandidates(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	pool, err := h.Engine.Selectable(index)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": pool, "can_draw": len(pool) > 0})
}

// Draw handles POST /api/classes/:index/draw
func (h *APIHandler) Draw(c *gin.Context) {
	index, ok := intParam(c, "index")
	if !ok {
		return
	}
	res, err := h.Engine.Draw(c.Request.Context(), index)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"winner":            res.Winner,
		"frames":            res.Frames,
		"candidates":        res.Candidates,
		"frame_interval_ms": h.FrameInterval.Milliseconds(),
	})
}

// --- Data Transfer Handlers ---

// Export handles GET /api/export
func (h *APIHandler) Export(c *gin.Context) {
	data, name, err := h.Engine.Export(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	attachment(c, name)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Import handles POST /api/import with either a raw JSON body or a "file"
// form upload. The store is replaced only when the whole document is valid.
func (h *APIHandler) Import(c *gin.Context) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, _, ferr := c.Request.FormFile("file")
		if ferr != nil {
			badRequest(c, "Error retrieving uploaded file: "+ferr.Error())
			return
		}
		defer file.Close()
		data, err = io.ReadAll(file)
	} else {
		data, err = c.GetRawData()
	}
	if err != nil {
		badRequest(c, "Failed to read import data: "+err.Error())
		return
	}

	n, err := h.Engine.Import(c.Request.Context(), data)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": n, "current": h.Engine.Current()})
}

// ClearAll handles DELETE /api/data?confirm=true
func (h *APIHandler) ClearAll(c *gin.Context) {
	p := promptFrom(c)
	if err := h.Engine.ClearAll(c.Request.Context(), p); err != nil {
		respondError(c, err, p)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

func seatParam(c *gin.Context) (models.SeatKey, bool) {
	key, err := models.ParseSeatKey(c.Param("seat"))
	if err != nil {
		badRequest(c, "Invalid seat: "+c.Param("seat"))
		return models.SeatKey{}, false
	}
	return key, true
}

func groupParam(c *gin.Context) (models.GroupKey, bool) {
	key, err := models.ParseGroupKey(c.Param("group"))
	if err != nil {
		badRequest(c, "Invalid group: "+c.Param("group"))
		return 0, false
	}
	return key, true
}
