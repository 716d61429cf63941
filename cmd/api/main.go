package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiftops-ph/timeclock-backend-go/internal/config"
	appHTTP "github.com/shiftops-ph/timeclock-backend-go/internal/handler/http"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/database"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/jobs"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/jwt"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/progress"
	"github.com/shiftops-ph/timeclock-backend-go/internal/pkg/storage"
	"github.com/shiftops-ph/timeclock-backend-go/internal/repository/postgresql"
	anomalyService "github.com/shiftops-ph/timeclock-backend-go/internal/service/anomaly"
	attendanceService "github.com/shiftops-ph/timeclock-backend-go/internal/service/attendance"
	exportService "github.com/shiftops-ph/timeclock-backend-go/internal/service/export"
	"github.com/shiftops-ph/timeclock-backend-go/internal/service/identity"
	"github.com/shiftops-ph/timeclock-backend-go/internal/service/leave"
	pointService "github.com/shiftops-ph/timeclock-backend-go/internal/service/point"
	reconcileService "github.com/shiftops-ph/timeclock-backend-go/internal/service/reconcile"
	scheduleService "github.com/shiftops-ph/timeclock-backend-go/internal/service/schedule"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	scheduleRepo := postgresql.NewScheduleRepository(db)
	scanRepo := postgresql.NewScanEventRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	pointRepo := postgresql.NewPointRepository(db)

	jwtSvc := jwt.NewJWTService(cfg.JWT.Secret)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage:", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}

	scheduler := jobs.NewScheduler()
	tracker := progress.NewTracker()

	identitySvc := identity.NewService(employeeRepo)
	pointEngine := pointService.NewEngine(cfg.Points, pointRepo)
	reconcileSvc := reconcileService.NewService(
		cfg.Processing,
		db,
		scanRepo,
		attendanceRepo,
		scheduleRepo,
		identitySvc,
		pointEngine,
		scheduler,
		tracker,
	)
	attendanceSvc := attendanceService.NewService(cfg.Processing, attendanceRepo, scheduleRepo, pointEngine)
	scheduleSvc := scheduleService.NewService(db, scheduleRepo, employeeRepo)
	anomalyDetector := anomalyService.NewDetector(cfg.Anomaly, scanRepo, employeeRepo, scheduleRepo)
	leaveSvc := leave.NewService(employeeRepo, pointEngine)
	exportSvc := exportService.NewService(attendanceRepo, fileStorage, scheduler, tracker)

	// Nightly point expiry sweep
	scheduler.AddJob("point-expiry-sweep", 24*time.Hour, func(ctx context.Context) error {
		expired, err := pointEngine.ExpireDuePoints(ctx, time.Now())
		if err != nil {
			return err
		}
		if expired > 0 {
			log.Printf("Point expiry sweep expired %d points", expired)
		}
		return nil
	})
	scheduler.Start()
	defer scheduler.Stop()

	router := appHTTP.NewRouter(cfg, jwtSvc, appHTTP.Handlers{
		Scan:       appHTTP.NewScanHandler(reconcileSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, reconcileSvc, jwtSvc),
		Anomaly:    appHTTP.NewAnomalyHandler(anomalyDetector),
		Point:      appHTTP.NewPointHandler(pointEngine, jwtSvc),
		Schedule:   appHTTP.NewScheduleHandler(scheduleSvc),
		Leave:      appHTTP.NewLeaveHandler(leaveSvc, jwtSvc),
		Export:     appHTTP.NewExportHandler(exportSvc, tracker),
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Server listening on port %d", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown:", err)
	}
}
