package routes

import (
    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/controllers"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

func DoctorRoutes(router *gin.RouterGroup) {
    router.GET("/docsByRating", controllers.GetDoctorsByRating)
    router.GET("/docsByFee", controllers.GetDoctorsByFee)
    router.GET("/docsByName", controllers.GetDoctorsByName)
    router.GET("/topRatedDocs", controllers.GetTopRatedDoctors)
    router.GET("/mostPopularDoc", controllers.GetMostPopularDoctor)
    router.GET("/searchDoctors", controllers.SearchDoctors)
    router.GET("/docInfo", controllers.GetDoctorInfo)

    protected := router.Group("")
    protected.Use(security.AuthMiddleware(config.DB))

    protected.POST("/registerDoc", security.RequireUserType(security.UserTypeAdmin), controllers.RegisterDoctor)
    protected.PUT("/updateDocInfo", security.RequireUserType(security.UserTypeDoctor, security.UserTypeAdmin),
        controllers.UpdateDoctorInfo)
    protected.GET("/bookedDocApts", security.RequireUserType(security.UserTypeDoctor, security.UserTypeAdmin),
        controllers.GetBookedDocApts)
    protected.POST("/addTimeSlot", security.RequireUserType(security.UserTypeDoctor, security.UserTypeAdmin),
        controllers.AddTimeSlot)
    protected.DELETE("/deleteTimeSlot", security.RequireUserType(security.UserTypeDoctor, security.UserTypeAdmin),
        controllers.DeleteTimeSlot)
}
