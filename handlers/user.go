package handlers

import (
	"net/http"

	"sharehub/auth"
	"sharehub/db"
	"sharehub/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserLoginRequest struct {
	Login    string `form:"login" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UserSaveRequest struct {
	Login    string `form:"login" binding:"required"`
	Name     string `form:"name" binding:"required"`
	Active   bool   `form:"active"`
	Admin    bool   `form:"admin"`
	UUID     string `form:"uuid"`
	Password string `form:"password"`
}

type UserFlagRequest struct {
	UUID  string `form:"uuid" binding:"required"`
	Value bool   `form:"value"`
}

func UserLogin(c *gin.Context) {
	postReq := UserLoginRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, ok := models.UserLogin(postReq.Login, postReq.Password)
	if !ok || !user.Active {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	session := auth.LoadSession(c)
	session.LoginUser(&user)
	c.JSON(http.StatusOK, gin.H{"error": "", "uuid": user.UUID, "name": user.Name, "admin": user.Admin})
}

func UserLogout(c *gin.Context, user *models.User) {
	auth.LoadSession(c).LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}

func UserGetStatus(c *gin.Context, user *models.User) {
	meta, err := Engine.GetUserMetadata(user.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, meta)
}

// UserSave registers or updates a user. The engine enforces who may do
// what; a password, if given, is set outside the engine.
func UserSave(c *gin.Context, user *models.User) {
	postReq := UserSaveRequest{}
	err := c.ShouldBindWith(&postReq, binding.Form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	uuid, err := Engine.AssertUser(user.UUID, postReq.Login, postReq.Name, postReq.Active, postReq.Admin, postReq.UUID)
	if err != nil {
		fail(c, err)
		return
	}
	if postReq.Password != "" {
		var saved models.User
		if err := db.Instance.First(&saved, "uuid = ?", uuid).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB Error 1"})
			return
		}
		saved.SetPassword(postReq.Password)
		if err := db.Instance.Save(&saved).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB Error 2"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "uuid": uuid})
}

func UserSetActive(c *gin.Context, user *models.User) {
	postReq := UserFlagRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.SetUserActive(user.UUID, postReq.UUID, postReq.Value); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func UserSetAdmin(c *gin.Context, user *models.User) {
	postReq := UserFlagRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.SetUserAdmin(user.UUID, postReq.UUID, postReq.Value); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func UserDelete(c *gin.Context, user *models.User) {
	postReq := UserFlagRequest{}
	if err := c.ShouldBindWith(&postReq, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := Engine.RetractUser(user.UUID, postReq.UUID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func UserList(c *gin.Context, user *models.User) {
	users, err := Engine.GetUsers()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}
