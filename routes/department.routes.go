package routes

import (
    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/controllers"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

func DepartmentRoutes(router *gin.RouterGroup) {
    router.GET("/allDepartments", controllers.GetAllDepartments)
    router.GET("/docsByDept", controllers.GetDoctorsByDepartment)
    router.GET("/docsInDeptByFee", controllers.GetDoctorsInDeptByFee)
    router.GET("/docsInDeptByRating", controllers.GetDoctorsInDeptByRating)

    protected := router.Group("")
    protected.Use(security.AuthMiddleware(config.DB), security.RequireUserType(security.UserTypeAdmin))
    protected.POST("/addDepartment", controllers.AddDepartment)
    protected.GET("/deptStats", controllers.GetDepartmentStats)
}
