package controllers

import (
	"net/http"
	"time"

	"civic-reporter-be/models"
	"civic-reporter-be/services"
	"civic-reporter-be/store"

	"github.com/gin-gonic/gin"
)

type IssueController struct {
	issues    *services.IssueService
	ownership *services.OwnershipService
	auth      *services.AuthService
}

func NewIssueController(issues *services.IssueService, ownership *services.OwnershipService, auth *services.AuthService) *IssueController {
	return &IssueController{issues: issues, ownership: ownership, auth: auth}
}

// requireUser resolves the caller into a full user record.
func (ic *IssueController) requireUser(c *gin.Context) (models.User, bool) {
	user, err := ic.auth.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return models.User{}, false
	}
	return user, true
}

// requireModify enforces the owner-or-admin rule for issueID.
func (ic *IssueController) requireModify(c *gin.Context, issueID string) (models.User, bool) {
	user, ok := ic.requireUser(c)
	if !ok {
		return models.User{}, false
	}
	allowed, err := ic.ownership.CanModify(c.Request.Context(), &user, issueID)
	if err != nil {
		respondError(c, err)
		return models.User{}, false
	}
	if !allowed {
		// Distinguish a missing issue from a foreign one.
		if _, err := ic.issues.Get(c.Request.Context(), issueID); err != nil {
			respondError(c, err)
			return models.User{}, false
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to modify this issue"})
		return models.User{}, false
	}
	return user, true
}

// CreateIssue handles the reporting form submission.
func (ic *IssueController) CreateIssue(c *gin.Context) {
	user, ok := ic.requireUser(c)
	if !ok {
		return
	}

	var input struct {
		Title       string              `json:"title" binding:"required,max=200"`
		Description string              `json:"description" binding:"required,max=1000"`
		Category    string              `json:"category" binding:"required"`
		Photo       *string             `json:"photo,omitempty"`
		Coordinates *models.Coordinates `json:"coordinates" binding:"required"`
		Address     string              `json:"address,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := ic.issues.Create(c.Request.Context(), user, services.CreateIssueInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Photo:       input.Photo,
		Coordinates: input.Coordinates,
		Address:     input.Address,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, issue)
}

// GetAllIssues lists issues with optional status/category/search filters.
func (ic *IssueController) GetAllIssues(c *gin.Context) {
	filter := store.IssueFilter{
		Status:   models.IssueStatus(c.Query("status")),
		Category: models.IssueCategory(c.Query("category")),
		Search:   c.Query("search"),
	}
	issues, err := ic.issues.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"issues":      issues,
		"totalIssues": len(issues),
	})
}

// GetIssue retrieves a single issue by id.
func (ic *IssueController) GetIssue(c *gin.Context) {
	issue, err := ic.issues.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// GetMyIssues lists the caller's own issues.
func (ic *IssueController) GetMyIssues(c *gin.Context) {
	user, ok := ic.requireUser(c)
	if !ok {
		return
	}
	issues, err := ic.ownership.MyIssues(c.Request.Context(), &user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// UpdateIssue patches issue fields; owner or admin only.
func (ic *IssueController) UpdateIssue(c *gin.Context) {
	issueID := c.Param("id")
	if _, ok := ic.requireModify(c, issueID); !ok {
		return
	}

	var input struct {
		Title       *string             `json:"title,omitempty"`
		Description *string             `json:"description,omitempty"`
		Category    *string             `json:"category,omitempty"`
		Photo       *string             `json:"photo,omitempty"`
		Coordinates *models.Coordinates `json:"coordinates,omitempty"`
		Address     *string             `json:"address,omitempty"`
		Status      *string             `json:"status,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := ic.issues.Update(c.Request.Context(), issueID, services.UpdateIssueInput{
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Photo:       input.Photo,
		Coordinates: input.Coordinates,
		Address:     input.Address,
		Status:      input.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// UpdateIssueStatus advances an issue along the workflow; owner or admin only.
func (ic *IssueController) UpdateIssueStatus(c *gin.Context) {
	issueID := c.Param("id")
	if _, ok := ic.requireModify(c, issueID); !ok {
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issue, err := ic.issues.UpdateStatus(c.Request.Context(), issueID, models.IssueStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, issue)
}

// DeleteIssue removes an issue; owner or admin only.
func (ic *IssueController) DeleteIssue(c *gin.Context) {
	issueID := c.Param("id")
	if _, ok := ic.requireModify(c, issueID); !ok {
		return
	}

	if err := ic.issues.Delete(c.Request.Context(), issueID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// GetStatusCounts returns the dashboard aggregate.
func (ic *IssueController) GetStatusCounts(c *gin.Context) {
	counts, err := ic.issues.StatusCounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// RecentIssues returns the newest issues for the map view.
func (ic *IssueController) RecentIssues(c *gin.Context) {
	issues, err := ic.issues.Recent(c.Request.Context(), 0)
	if err != nil {
		respondError(c, err)
		return
	}

	type pin struct {
		ID          string               `json:"id"`
		Title       string               `json:"title"`
		Coordinates models.Coordinates   `json:"coordinates"`
		Category    models.IssueCategory `json:"category"`
		Address     string               `json:"address,omitempty"`
		CreatedAt   string               `json:"createdAt"`
	}

	pins := make([]pin, 0, len(issues))
	for _, issue := range issues {
		pins = append(pins, pin{
			ID:          issue.ID,
			Title:       issue.Title,
			Coordinates: issue.Coordinates,
			Category:    issue.Category,
			Address:     issue.Address,
			CreatedAt:   issue.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, pins)
}
