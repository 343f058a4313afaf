package routes

import (
    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/controllers"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

func PatientRoutes(router *gin.RouterGroup) {
    router.POST("/registerPt", controllers.RegisterPatient)

    protected := router.Group("")
    protected.Use(security.AuthMiddleware(config.DB))

    protected.GET("/getPtDetails", controllers.GetPatientDetails)
    protected.GET("/getPtApts", controllers.GetPatientAppointments)
    protected.GET("/getPtAptsByDate", controllers.GetPatientAppointmentsByDate)
    protected.GET("/getPtLabTests", controllers.GetPatientLabTests)
    protected.GET("/getPtHistory", controllers.GetPatientHistory)

    protected.PUT("/updatePtInfo", security.RequireUserType(security.UserTypePatient, security.UserTypeAdmin),
        controllers.UpdatePatientInfo)
    protected.GET("/ptSummary", security.RequireUserType(security.UserTypeAdmin), controllers.GetPatientSummary)
}
