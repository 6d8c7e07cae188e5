package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ozodbekAI/service/internal/service"
)

type AnnouncementHandler struct {
	svc     *service.AnnouncementService
	storage *service.StorageService
}

func NewAnnouncementHandler(svc *service.AnnouncementService, storage *service.StorageService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc, storage: storage}
}

func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	a, err := h.svc.Create(c.Request.Context(), GetUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *AnnouncementHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AnnouncementHandler) Get(c *gin.Context) {
	a, err := h.svc.Get(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AnnouncementHandler) Pending(c *gin.Context) {
	items, err := h.svc.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Managed lists announcements the calling staff member accepted.
func (h *AnnouncementHandler) Managed(c *gin.Context) {
	items, err := h.svc.ManagedBy(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AnnouncementHandler) MyAnnouncements(c *gin.Context) {
	items, err := h.svc.ByClient(c.Request.Context(), GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AnnouncementHandler) Accept(c *gin.Context) {
	var req service.AcceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	a, err := h.svc.Accept(c.Request.Context(), c.Param("id"), currentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type rejectRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

func (h *AnnouncementHandler) Reject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	a, err := h.svc.Reject(c.Request.Context(), c.Param("id"), currentUser(c), req.RejectionReason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AnnouncementHandler) ClientApprove(c *gin.Context) {
	order, err := h.svc.ClientApprove(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *AnnouncementHandler) ClientReject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	a, err := h.svc.ClientReject(c.Request.Context(), c.Param("id"), currentUser(c), req.RejectionReason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AnnouncementHandler) Complete(c *gin.Context) {
	a, err := h.svc.Complete(c.Request.Context(), c.Param("id"), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// UploadImage stores a multipart image in object storage and records it
// on the announcement.
func (h *AnnouncementHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Image file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer src.Close()

	url, err := h.storage.Upload(c.Request.Context(), "announcements", file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		respondError(c, err)
		return
	}

	img, err := h.svc.AttachImage(c.Request.Context(), c.Param("id"), currentUser(c), url)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

func (h *AnnouncementHandler) Images(c *gin.Context) {
	items, err := h.svc.Images(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
