package handlers

import (
	"net/http"

	"sharehub/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type TagRequest struct {
	Name string `form:"name" binding:"required"`
}

type TagResourceRequest struct {
	Name         string `form:"name" binding:"required"`
	ResourceUUID string `form:"resource" binding:"required"`
}

func TagCreate(c *gin.Context, user *models.User) {
	postReq := TagRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.AssertTag(user.UUID, postReq.Name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func TagDelete(c *gin.Context, user *models.User) {
	postReq := TagRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RetractTag(user.UUID, postReq.Name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func TagAddResource(c *gin.Context, user *models.User) {
	postReq := TagResourceRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.AssertResourceHasTag(user.UUID, postReq.Name, postReq.ResourceUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func TagRemoveResource(c *gin.Context, user *models.User) {
	postReq := TagResourceRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RetractResourceHasTag(user.UUID, postReq.Name, postReq.ResourceUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func TagList(c *gin.Context, user *models.User) {
	names, err := Engine.GetTags(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func TagAssets(c *gin.Context, user *models.User) {
	resources, err := Engine.GetResourcesByTag(user.UUID, c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}
