package routes

import (
    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/controllers"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

func LabTestRoutes(router *gin.RouterGroup) {
    router.GET("/allLabTests", controllers.GetAllLabTests)
    router.GET("/testSlots", controllers.GetTestSlots)

    protected := router.Group("")
    protected.Use(security.AuthMiddleware(config.DB))

    patient := protected.Group("", security.RequireUserType(security.UserTypePatient))
    patient.POST("/bookLabTest", controllers.BookLabTest)
    patient.PUT("/cancelLabTest", controllers.CancelLabTest)

    admin := protected.Group("", security.RequireUserType(security.UserTypeAdmin))
    admin.GET("/revenueAnalysis", controllers.GetLabTestRevenueAnalysis)
    admin.GET("/revenueByLocation", controllers.GetLabTestRevenueByLocation)
    admin.GET("/testRevenue", controllers.GetLabTestRevenue)
}
