package handlers

import (
	"net/http"

	"sharehub/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type InviteRequest struct {
	ObjectUUID string `form:"object" binding:"required"`
	TargetUUID string `form:"target" binding:"required"`
	Privilege  string `form:"privilege"`
}

type InvitationReplyRequest struct {
	ObjectUUID  string `form:"object" binding:"required"`
	InviterUUID string `form:"inviter" binding:"required"`
}

func InviteUserToGroup(c *gin.Context, user *models.User) {
	postReq := InviteRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, ok := parsePrivilege(c, postReq.Privilege)
	if !ok {
		return
	}
	if err := Engine.InviteUserToGroup(user.UUID, postReq.ObjectUUID, postReq.TargetUUID, level); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func UninviteUserToGroup(c *gin.Context, user *models.User) {
	postReq := InviteRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.UninviteUserToGroup(user.UUID, postReq.ObjectUUID, postReq.TargetUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func AcceptGroupInvitation(c *gin.Context, user *models.User) {
	postReq := InvitationReplyRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.AcceptGroupInvitation(user.UUID, postReq.ObjectUUID, postReq.InviterUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func RefuseGroupInvitation(c *gin.Context, user *models.User) {
	postReq := InvitationReplyRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RefuseGroupInvitation(user.UUID, postReq.ObjectUUID, postReq.InviterUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func InviteUserToResource(c *gin.Context, user *models.User) {
	postReq := InviteRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	level, ok := parsePrivilege(c, postReq.Privilege)
	if !ok {
		return
	}
	if err := Engine.InviteUserToResource(user.UUID, postReq.ObjectUUID, postReq.TargetUUID, level); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func UninviteUserToResource(c *gin.Context, user *models.User) {
	postReq := InviteRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.UninviteUserToResource(user.UUID, postReq.ObjectUUID, postReq.TargetUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func AcceptResourceInvitation(c *gin.Context, user *models.User) {
	postReq := InvitationReplyRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.AcceptResourceInvitation(user.UUID, postReq.ObjectUUID, postReq.InviterUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func RefuseResourceInvitation(c *gin.Context, user *models.User) {
	postReq := InvitationReplyRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RefuseResourceInvitation(user.UUID, postReq.ObjectUUID, postReq.InviterUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

// InvitationList returns both pending directions for the user: offers
// waiting on them and offers they have made.
func InvitationList(c *gin.Context, user *models.User) {
	groupsIn, err := Engine.GetGroupInvitationsForUser(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	groupsOut, err := Engine.GetGroupInvitationsSentByUser(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	resourcesIn, err := Engine.GetResourceInvitationsForUser(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	resourcesOut, err := Engine.GetResourceInvitationsSentByUser(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":              "",
		"group_received":     groupsIn,
		"group_sent":         groupsOut,
		"resource_received":  resourcesIn,
		"resource_sent":      resourcesOut,
	})
}
