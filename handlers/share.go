package handlers

import (
	"net/http"

	"sharehub/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ShareRequest struct {
	ResourceUUID string `form:"resource" binding:"required"`
	TargetUUID   string `form:"target" binding:"required"`
	Privilege    string `form:"privilege"`
}

type GroupShareRequest struct {
	GroupUUID  string `form:"group" binding:"required"`
	TargetUUID string `form:"target" binding:"required"`
	Privilege  string `form:"privilege"`
}

func parsePrivilege(c *gin.Context, code string) (models.Privilege, bool) {
	level, ok := models.ParsePrivilege(code)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown privilege code"})
		return 0, false
	}
	return level, true
}

func ShareResourceWithUser(c *gin.Context, user *models.User) {
	postReq := ShareRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, ok := parsePrivilege(c, postReq.Privilege)
	if !ok {
		return
	}
	if err := Engine.ShareResourceWithUser(user.UUID, postReq.ResourceUUID, postReq.TargetUUID, level); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func UnshareResourceWithUser(c *gin.Context, user *models.User) {
	postReq := ShareRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.UnshareResourceWithUser(user.UUID, postReq.ResourceUUID, postReq.TargetUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func ShareResourceWithGroup(c *gin.Context, user *models.User) {
	postReq := ShareRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, ok := parsePrivilege(c, postReq.Privilege)
	if !ok {
		return
	}
	if err := Engine.ShareResourceWithGroup(user.UUID, postReq.ResourceUUID, postReq.TargetUUID, level); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func UnshareResourceWithGroup(c *gin.Context, user *models.User) {
	postReq := ShareRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.UnshareResourceWithGroup(user.UUID, postReq.ResourceUUID, postReq.TargetUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func ShareGroupWithUser(c *gin.Context, user *models.User) {
	postReq := GroupShareRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, ok := parsePrivilege(c, postReq.Privilege)
	if !ok {
		return
	}
	if err := Engine.ShareGroupWithUser(user.UUID, postReq.GroupUUID, postReq.TargetUUID, level); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func UnshareGroupWithUser(c *gin.Context, user *models.User) {
	postReq := GroupShareRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.UnshareGroupWithUser(user.UUID, postReq.GroupUUID, postReq.TargetUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
