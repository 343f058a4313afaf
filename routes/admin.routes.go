package routes

import (
    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/controllers"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

func AdminRoutes(router *gin.RouterGroup) {
    router.Use(security.AuthMiddleware(config.DB), security.RequireUserType(security.UserTypeAdmin))

    router.GET("/profile", controllers.GetAdminProfile)
    router.POST("/addLabTest", controllers.AddLabTest)
    router.DELETE("/removeLabTest", controllers.RemoveLabTest)
}
