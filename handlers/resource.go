package handlers

import (
	"net/http"

	"sharehub/access"
	"sharehub/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ResourceSaveRequest struct {
	Path         string `form:"path" binding:"required"`
	Title        string `form:"title" binding:"required"`
	Immutable    bool   `form:"immutable"`
	Published    bool   `form:"published"`
	Discoverable bool   `form:"discoverable"`
	Public       bool   `form:"public"`
	Shareable    bool   `form:"shareable"`
	UUID         string `form:"uuid"`
}

type ResourceRequest struct {
	UUID string `form:"uuid" binding:"required"`
}

type ResourceFlagRequest struct {
	UUID  string `form:"uuid" binding:"required"`
	Flag  string `form:"flag" binding:"required"`
	Value bool   `form:"value"`
}

// ResourceRegister creates a resource with default protection flags.
func ResourceRegister(c *gin.Context, user *models.User) {
	postReq := ResourceSaveRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uuid, err := Engine.RegisterResource(user.UUID, postReq.Path, postReq.Title)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "uuid": uuid})
}

// ResourceSave asserts the full resource state.
func ResourceSave(c *gin.Context, user *models.User) {
	postReq := ResourceSaveRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uuid, err := Engine.AssertResource(user.UUID, access.ResourceAssertion{
		UUID:         postReq.UUID,
		Path:         postReq.Path,
		Title:        postReq.Title,
		Immutable:    postReq.Immutable,
		Published:    postReq.Published,
		Discoverable: postReq.Discoverable,
		Public:       postReq.Public,
		Shareable:    postReq.Shareable,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "uuid": uuid})
}

func ResourceDelete(c *gin.Context, user *models.User) {
	postReq := ResourceRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RetractResource(user.UUID, postReq.UUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func ResourceSetFlag(c *gin.Context, user *models.User) {
	postReq := ResourceFlagRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var err error
	switch postReq.Flag {
	case "immutable":
		err = Engine.SetResourceImmutable(user.UUID, postReq.UUID, postReq.Value)
	case "published":
		err = Engine.SetResourcePublished(user.UUID, postReq.UUID, postReq.Value)
	case "discoverable":
		err = Engine.SetResourceDiscoverable(user.UUID, postReq.UUID, postReq.Value)
	case "public":
		err = Engine.SetResourcePublic(user.UUID, postReq.UUID, postReq.Value)
	case "shareable":
		err = Engine.SetResourceShareable(user.UUID, postReq.UUID, postReq.Value)
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

func ResourceGet(c *gin.Context, user *models.User) {
	meta, err := Engine.GetResourceMetadata(c.Query("uuid"))
	if err != nil {
		fail(c, err)
		return
	}
	caps, err := Engine.GetResourceCapabilities(user.UUID, meta.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	privilege, err := Engine.GetCumulativeUserPrivilegeOverResource(user.UUID, meta.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":        "",
		"resource":     meta,
		"capabilities": caps,
		"privilege":    privilege.Code(),
	})
}

func ResourceList(c *gin.Context, user *models.User) {
	resources, err := Engine.GetResourcesHeldByUser(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

func ResourceListDiscoverable(c *gin.Context, user *models.User) {
	resources, err := Engine.GetDiscoverableResources()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

func ResourceHolders(c *gin.Context, user *models.User) {
	users, err := Engine.GetUsersHoldingResource(c.Query("uuid"))
	if err != nil {
		fail(c, err)
		return
	}
	groups, err := Engine.GetGroupsHoldingResource(c.Query("uuid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "users": users, "groups": groups})
}
