package routes

import (
    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/controllers"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

func AuthRoutes(router *gin.RouterGroup) {
    router.POST("/login", controllers.Login)
    router.POST("/refresh", controllers.RefreshToken)

    protected := router.Group("")
    protected.Use(security.AuthMiddleware(config.DB))
    protected.DELETE("/user", security.RequireUserType(security.UserTypeAdmin), controllers.DeleteUser)
}
