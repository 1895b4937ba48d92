package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ma6di/jobtrackr/internal/domain/dto"
	"github.com/ma6di/jobtrackr/internal/service"
)

type ResumeHandler struct {
	resumeService  service.ResumeService
	maxUploadBytes int64
}

func NewResumeHandler(resumeService service.ResumeService, maxUploadBytes int64) *ResumeHandler {
	return &ResumeHandler{
		resumeService:  resumeService,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadResume handles POST /api/v1/resumes (multipart: title, file).
func (h *ResumeHandler) UploadResume(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// Cap the whole request body before parsing the multipart form.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required", "details": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	resume, err := h.resumeService.UploadResume(
		c.Request.Context(),
		userID,
		title,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		respondServiceError(c, err, "Failed to upload resume")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"resume": dto.NewResumeResponse(resume)})
}

// ListResumes handles GET /api/v1/resumes.
func (h *ResumeHandler) ListResumes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resumes, err := h.resumeService.GetUserResumes(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Failed to list resumes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"resumes": dto.NewResumeResponseList(resumes)})
}

// GetResume handles GET /api/v1/resumes/:id.
func (h *ResumeHandler) GetResume(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resumeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume ID"})
		return
	}

	resume, err := h.resumeService.GetResumeByID(c.Request.Context(), resumeID, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to get resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"resume": dto.NewResumeResponse(resume)})
}

// DownloadResume handles GET /api/v1/resumes/:id/download.
func (h *ResumeHandler) DownloadResume(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resumeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume ID"})
		return
	}

	url, expiresAt, err := h.resumeService.GetDownloadURL(c.Request.Context(), resumeID, userID)
	if err != nil {
		respondServiceError(c, err, "Failed to generate download URL")
		return
	}

	c.JSON(http.StatusOK, dto.DownloadResponse{URL: url, ExpiresAt: expiresAt})
}

// UpdateResume handles PUT /api/v1/resumes/:id.
func (h *ResumeHandler) UpdateResume(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resumeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume ID"})
		return
	}

	var req dto.ResumeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	resume, err := h.resumeService.RenameResume(c.Request.Context(), resumeID, userID, req.Title)
	if err != nil {
		respondServiceError(c, err, "Failed to update resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"resume": dto.NewResumeResponse(resume)})
}

// DeleteResume handles DELETE /api/v1/resumes/:id.
func (h *ResumeHandler) DeleteResume(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	resumeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resume ID"})
		return
	}

	if err := h.resumeService.DeleteResume(c.Request.Context(), resumeID, userID); err != nil {
		respondServiceError(c, err, "Failed to delete resume")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Resume deleted successfully"})
}
