package main

import (
    "context"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/Mibrahim0941/DB-Project-Schedulify/config"
    "github.com/Mibrahim0941/DB-Project-Schedulify/controllers"
    "github.com/Mibrahim0941/DB-Project-Schedulify/middleware"
    "github.com/Mibrahim0941/DB-Project-Schedulify/routes"
    "github.com/Mibrahim0941/DB-Project-Schedulify/security"
)

func main() {
    zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
    log.Logger = log.Output(os.Stderr)

    config.Load()
    config.ConnectDB()

    gin.SetMode(gin.ReleaseMode)
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(security.CORSMiddleware())
    r.Use(middleware.RequestLogger())
    r.Use(middleware.Metrics())

    r.GET("/api/health", controllers.HealthCheck)
    r.GET("/metrics", gin.WrapH(promhttp.Handler()))

    routes.AuthRoutes(r.Group("/api/auth"))
    routes.AppointmentRoutes(r.Group("/api/appointments"))
    routes.DoctorRoutes(r.Group("/api/doctors"))
    routes.PatientRoutes(r.Group("/api/patients"))
    routes.LabTestRoutes(r.Group("/api/labtests"))
    routes.DepartmentRoutes(r.Group("/api/departments"))
    routes.AdminRoutes(r.Group("/api/Admin"))

    srv := &http.Server{
        Addr:    ":" + config.Cfg.Port,
        Handler: r,
    }

    go func() {
        log.Info().Str("port", config.Cfg.Port).Msg("server starting")
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatal().Err(err).Msg("failed to start server")
        }
    }()

    // Wait for interrupt, then give outstanding requests 30 seconds.
    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit
    log.Info().Msg("shutting down")

    ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
    defer cancel()

    if err := srv.Shutdown(ctx); err != nil {
        log.Fatal().Err(err).Msg("forced to shutdown")
    }

    if err := config.DB.Close(); err != nil {
        log.Error().Err(err).Msg("closing database")
    }

    log.Info().Msg("server exited")
}
