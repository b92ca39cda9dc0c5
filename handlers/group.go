package handlers

import (
	"net/http"

	"sharehub/access"
	"sharehub/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type GroupSaveRequest struct {
	Name         string `form:"name" binding:"required"`
	Description  string `form:"description"`
	Active       bool   `form:"active"`
	Shareable    bool   `form:"shareable"`
	Discoverable bool   `form:"discoverable"`
	Public       bool   `form:"public"`
	UUID         string `form:"uuid"`
}

type GroupRequest struct {
	UUID string `form:"uuid" binding:"required"`
}

type GroupFlagRequest struct {
	UUID  string `form:"uuid" binding:"required"`
	Flag  string `form:"flag" binding:"required"`
	Value bool   `form:"value"`
}

func GroupSave(c *gin.Context, user *models.User) {
	postReq := GroupSaveRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uuid, err := Engine.AssertGroup(user.UUID, access.GroupAssertion{
		UUID:         postReq.UUID,
		Name:         postReq.Name,
		Description:  postReq.Description,
		Active:       postReq.Active,
		Shareable:    postReq.Shareable,
		Discoverable: postReq.Discoverable,
		Public:       postReq.Public,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "uuid": uuid})
}

func GroupDelete(c *gin.Context, user *models.User) {
	postReq := GroupRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RetractGroup(user.UUID, postReq.UUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func GroupSetFlag(c *gin.Context, user *models.User) {
	postReq := GroupFlagRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var err error
	switch postReq.Flag {
	case "active":
		err = Engine.SetGroupActive(user.UUID, postReq.UUID, postReq.Value)
	case "shareable":
		err = Engine.SetGroupShareable(user.UUID, postReq.UUID, postReq.Value)
	case "discoverable":
		err = Engine.SetGroupDiscoverable(user.UUID, postReq.UUID, postReq.Value)
	case "public":
		err = Engine.SetGroupPublic(user.UUID, postReq.UUID, postReq.Value)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown flag"})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func GroupGet(c *gin.Context, user *models.User) {
	meta, err := Engine.GetGroupMetadata(c.Query("uuid"))
	if err != nil {
		fail(c, err)
		return
	}
	caps, err := Engine.GetGroupCapabilities(user.UUID, meta.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "group": meta, "capabilities": caps})
}

func GroupList(c *gin.Context, user *models.User) {
	groups, err := Engine.GetGroupsForUser(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func GroupListDiscoverable(c *gin.Context, user *models.User) {
	groups, err := Engine.GetDiscoverableGroups()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func GroupMembers(c *gin.Context, user *models.User) {
	members, err := Engine.GetGroupMembers(user.UUID, c.Query("uuid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
