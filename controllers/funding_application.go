package controllers

import (
	"net/http"

	"funding-application-api/middleware"
	"funding-application-api/services"
	"funding-application-api/utils"

	"github.com/gin-gonic/gin"
)

// SaveSectionRequest is the PATCH body for one section.
type SaveSectionRequest struct {
	Data                 map[string]interface{} `json:"data"`
	Completed            bool                   `json:"completed"`
	CompletionPercentage *int                   `json:"completion_percentage" binding:"omitempty,min=0,max=100"`
}

// FundingApplicationController binds the section store to HTTP.
// Callers reach these handlers only after RequireSelfOrAdmin("id"), which
// supplies the user id they act on.
type FundingApplicationController struct {
	store *services.SectionStore
}

func NewFundingApplicationController(store *services.SectionStore) *FundingApplicationController {
	return &FundingApplicationController{store: store}
}

// GetApplication returns every saved section for the user
func (h *FundingApplicationController) GetApplication(c *gin.Context) {
	snapshot, err := h.store.LoadAll(c.Request.Context(), middleware.TargetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"sections":              snapshot.Sections,
		"completion_percentage": snapshot.Completion,
		"last_updated":          snapshot.LastUpdated,
	})
}

// SaveSection saves a draft or completed section
func (h *FundingApplicationController) SaveSection(c *gin.Context) {
	var req SaveSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.store.SaveSection(c.Request.Context(), services.SaveSectionInput{
		UserID:               middleware.TargetUserID(c),
		SectionType:          utils.SanitizeInput(c.Param("sectionType")),
		Data:                 req.Data,
		Completed:            req.Completed,
		CompletionPercentage: req.CompletionPercentage,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"message":               result.Message,
		"section":               result.Section,
		"completion_percentage": result.Completion,
	})
}

// SubmitApplication hands the application in once all required sections are done
func (h *FundingApplicationController) SubmitApplication(c *gin.Context) {
	result, err := h.store.Submit(c.Request.Context(), middleware.TargetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    result.Message,
		"submission": result,
	})
}

// GetProgress reports completion per section and overall
func (h *FundingApplicationController) GetProgress(c *gin.Context) {
	report, err := h.store.Progress(c.Request.Context(), middleware.TargetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"progress": report,
	})
}

// ClearApplication deletes every section for the user
func (h *FundingApplicationController) ClearApplication(c *gin.Context) {
	deleted, err := h.store.ClearAll(c.Request.Context(), middleware.TargetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"message":          "Application cleared",
		"deleted_sections": deleted,
	})
}
