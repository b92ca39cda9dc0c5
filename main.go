package main

import (
	"log"
	"strings"
	"time"

	"sharehub/access"
	"sharehub/auth"
	"sharehub/config"
	"sharehub/db"
	"sharehub/handlers"
	"sharehub/models"
	"sharehub/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const sessionCookieName = "token"

func main() {
	database := db.Init(config.MYSQL_DSN, config.SQLITE_FILE)
	models.Init(database)

	engine := access.NewEngine(database)
	adminUUID, err := engine.EnsureAdmin(config.ADMIN_LOGIN, config.ADMIN_NAME)
	if err != nil {
		log.Fatalf("Cannot create initial admin: %v", err)
	}
	if config.ADMIN_PASSWORD != "" {
		var admin models.User
		if err := database.First(&admin, "uuid = ?", adminUUID).Error; err != nil {
			log.Fatalf("Cannot load initial admin: %v", err)
		}
		admin.SetPassword(config.ADMIN_PASSWORD)
		if err := database.Save(&admin).Error; err != nil {
			log.Fatalf("Cannot set initial admin password: %v", err)
		}
	}
	handlers.Init(engine)

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(database, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: config.SESSION_MAX_AGE})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	// No cache by default, individual end-points can override that
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler())

	authRouter := &auth.Router{Base: router}
	// User handlers
	router.POST("/user/login", handlers.UserLogin)
	authRouter.POST("/user/logout", handlers.UserLogout)
	authRouter.GET("/user/status", handlers.UserGetStatus)
	authRouter.GET("/user/list", handlers.UserList)
	authRouter.POST("/user/save", handlers.UserSave) // admin-or-self check is in the engine
	authRouter.AdminPOST("/user/delete", handlers.UserDelete)
	authRouter.AdminPOST("/user/active", handlers.UserSetActive)
	authRouter.AdminPOST("/user/admin", handlers.UserSetAdmin)
	// Group handlers
	authRouter.GET("/group/get", handlers.GroupGet)
	authRouter.GET("/group/list", handlers.GroupList)
	authRouter.GET("/group/discoverable", handlers.GroupListDiscoverable)
	authRouter.GET("/group/members", handlers.GroupMembers)
	authRouter.POST("/group/save", handlers.GroupSave)
	authRouter.POST("/group/delete", handlers.GroupDelete)
	authRouter.POST("/group/flag", handlers.GroupSetFlag)
	// Resource handlers
	authRouter.GET("/resource/get", handlers.ResourceGet)
	authRouter.GET("/resource/list", handlers.ResourceList)
	authRouter.GET("/resource/discoverable", handlers.ResourceListDiscoverable)
	authRouter.GET("/resource/holders", handlers.ResourceHolders)
	authRouter.POST("/resource/register", handlers.ResourceRegister)
	authRouter.POST("/resource/save", handlers.ResourceSave)
	authRouter.POST("/resource/delete", handlers.ResourceDelete)
	authRouter.POST("/resource/flag", handlers.ResourceSetFlag)
	// Sharing handlers
	authRouter.POST("/share/resource/user", handlers.ShareResourceWithUser)
	authRouter.POST("/unshare/resource/user", handlers.UnshareResourceWithUser)
	authRouter.POST("/share/resource/group", handlers.ShareResourceWithGroup)
	authRouter.POST("/unshare/resource/group", handlers.UnshareResourceWithGroup)
	authRouter.POST("/share/group/user", handlers.ShareGroupWithUser)
	authRouter.POST("/unshare/group/user", handlers.UnshareGroupWithUser)
	// Invitation handlers
	authRouter.GET("/invitation/list", handlers.InvitationList)
	authRouter.POST("/invitation/group/send", handlers.InviteUserToGroup)
	authRouter.POST("/invitation/group/withdraw", handlers.UninviteUserToGroup)
	authRouter.POST("/invitation/group/accept", handlers.AcceptGroupInvitation)
	authRouter.POST("/invitation/group/refuse", handlers.RefuseGroupInvitation)
	authRouter.POST("/invitation/resource/send", handlers.InviteUserToResource)
	authRouter.POST("/invitation/resource/withdraw", handlers.UninviteUserToResource)
	authRouter.POST("/invitation/resource/accept", handlers.AcceptResourceInvitation)
	authRouter.POST("/invitation/resource/refuse", handlers.RefuseResourceInvitation)
	// Folder handlers
	authRouter.GET("/folder/list", handlers.FolderList)
	authRouter.GET("/folder/assets", handlers.FolderAssets)
	authRouter.POST("/folder/create", handlers.FolderCreate)
	authRouter.POST("/folder/delete", handlers.FolderDelete)
	authRouter.POST("/folder/add", handlers.FolderAddResource)
	authRouter.POST("/folder/remove", handlers.FolderRemoveResource)
	// Tag handlers
	authRouter.GET("/tag/list", handlers.TagList)
	authRouter.GET("/tag/assets", handlers.TagAssets)
	authRouter.POST("/tag/create", handlers.TagCreate)
	authRouter.POST("/tag/delete", handlers.TagDelete)
	authRouter.POST("/tag/add", handlers.TagAddResource)
	authRouter.POST("/tag/remove", handlers.TagRemoveResource)

	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
