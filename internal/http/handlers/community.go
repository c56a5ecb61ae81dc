package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/espeakapp/espeak-backend/internal/http/response"
	"github.com/espeakapp/espeak-backend/internal/services"
)

type CommunityHandler struct {
	communityService services.CommunityService
}

func NewCommunityHandler(communityService services.CommunityService) *CommunityHandler {
	return &CommunityHandler{communityService: communityService}
}

func (ch *CommunityHandler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	posts, err := ch.communityService.ListPosts(c.Request.Context(), limit, offset)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"posts": posts})
}

func (ch *CommunityHandler) CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	created, err := ch.communityService.CreatePost(c.Request.Context(), req.Content)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, created)
}

func (ch *CommunityHandler) ToggleLike(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}
	result, err := ch.communityService.ToggleLike(c.Request.Context(), postID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, result)
}

func (ch *CommunityHandler) DeletePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_post_id", err)
		return
	}
	if err := ch.communityService.DeletePost(c.Request.Context(), postID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
