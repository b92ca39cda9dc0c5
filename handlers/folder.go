package handlers

import (
	"net/http"

	"sharehub/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type FolderRequest struct {
	Name string `form:"name" binding:"required"`
}

type FolderResourceRequest struct {
	Name         string `form:"name" binding:"required"`
	ResourceUUID string `form:"resource" binding:"required"`
}

func FolderCreate(c *gin.Context, user *models.User) {
	postReq := FolderRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.AssertFolder(user.UUID, postReq.Name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func FolderDelete(c *gin.Context, user *models.User) {
	postReq := FolderRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RetractFolder(user.UUID, postReq.Name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func FolderAddResource(c *gin.Context, user *models.User) {
	postReq := FolderResourceRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.AssertResourceInFolder(user.UUID, postReq.Name, postReq.ResourceUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func FolderRemoveResource(c *gin.Context, user *models.User) {
	postReq := FolderResourceRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RetractResourceInFolder(user.UUID, postReq.Name, postReq.ResourceUUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func FolderList(c *gin.Context, user *models.User) {
	names, err := Engine.GetFolders(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func FolderAssets(c *gin.Context, user *models.User) {
	resources, err := Engine.GetResourcesInFolder(user.UUID, c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}
