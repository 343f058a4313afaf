package routes

import (
    "github.com/gin-gonic/gin"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/controllers"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

func AppointmentRoutes(router *gin.RouterGroup) {
    router.Use(security.AuthMiddleware(config.DB))

    router.GET("/getAvailableSlots", controllers.GetAvailableSlots)
    router.GET("/getAllSlots", controllers.GetAllSlots)

    patient := router.Group("", security.RequireUserType(security.UserTypePatient))
    patient.POST("/bookApt", controllers.BookAppointment)
    patient.PUT("/cancelApt", controllers.CancelAppointment)
    patient.GET("/calculatePayment", controllers.CalculatePayment)
    patient.GET("/paymentsHistory", controllers.GetPaymentsHistory)

    staff := router.Group("", security.RequireUserType(security.UserTypeDoctor, security.UserTypeAdmin))
    staff.PUT("/updateStatus", controllers.UpdateAppointmentStatus)
}
