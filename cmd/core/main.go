package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexfield/practice-core/internal/config"
	"github.com/lexfield/practice-core/internal/db"
	"github.com/lexfield/practice-core/internal/jobs"
	applog "github.com/lexfield/practice-core/internal/log"
	"github.com/lexfield/practice-core/internal/model"
	"github.com/lexfield/practice-core/internal/notify"
	"github.com/lexfield/practice-core/internal/repository"
	"github.com/lexfield/practice-core/internal/schedule"
	"github.com/lexfield/practice-core/internal/service"
	"github.com/lexfield/practice-core/internal/web"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML-конфигу (пусто — дефолты)")
	flag.Parse()

	// 1. Конфигурация: приложение из YAML, БД из env.
	appCfg, err := config.LoadApp(*configPath)
	if err != nil {
		applog.Error("load app config", err, "path", *configPath)
		os.Exit(1)
	}

	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		applog.Error("load db config", err)
		os.Exit(1)
	}

	// 2. Подключаемся к БД через GORM.
	gormDB, err := db.NewGormDB(dbCfg)
	if err != nil {
		applog.Error("init db", err)
		os.Exit(1)
	}

	// 3. Миграции моделей.
	if err := model.AutoMigrate(gormDB); err != nil {
		applog.Error("auto migrate", err)
		os.Exit(1)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		applog.Error("sql DB", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	// 4. Репозитории (реализации на GORM).
	apptRepo := repository.NewGormAppointmentRepository(gormDB)
	seriesRepo := repository.NewGormSeriesRepository(gormDB)
	lawyerRepo := repository.NewGormLawyerRepository(gormDB)
	clientRepo := repository.NewGormClientRepository(gormDB)
	eventRepo := repository.NewGormEventRepository(gormDB)

	// 5. Сервисы календарного ядра.
	conflictSvc := service.NewConflictService(apptRepo)
	availabilitySvc := service.NewAvailabilityService(conflictSvc, schedule.WorkingWindow{
		OpenHour:    appCfg.Window.OpenHour,
		CloseHour:   appCfg.Window.CloseHour,
		GridMinutes: appCfg.Window.GridMinutes,
	})
	routeSvc := service.NewRouteService(apptRepo)
	seriesSvc := service.NewSeriesService(gormDB, seriesRepo, apptRepo, nil)
	apptSvc := service.NewAppointmentService(gormDB, apptRepo)
	directorySvc := service.NewDirectoryService(lawyerRepo)

	// 6. Фоновые задачи.
	notifier := notify.LogNotifier{}
	sweeper := jobs.NewSweeper(apptRepo, eventRepo, nil)
	reminders := jobs.NewReminderDispatcher(
		apptRepo, lawyerRepo, clientRepo, notifier,
		map[model.ReminderKind]jobs.WindowBounds{
			model.ReminderKindLong: {
				Min: time.Duration(appCfg.Reminders.LongMinHours) * time.Hour,
				Max: time.Duration(appCfg.Reminders.LongMaxHours) * time.Hour,
			},
			model.ReminderKindShort: {
				Min: time.Duration(appCfg.Reminders.ShortMinMinutes) * time.Minute,
				Max: time.Duration(appCfg.Reminders.ShortMaxMinutes) * time.Minute,
			},
		},
		time.Duration(appCfg.Jobs.ThrottleMS)*time.Millisecond,
		nil,
	)

	scheduler := jobs.NewScheduler()
	if err := scheduler.Add("sweep", appCfg.Jobs.SweepCron, func(ctx context.Context) error {
		_, err := sweeper.Run(ctx)
		return err
	}); err != nil {
		applog.Error("schedule sweep", err)
		os.Exit(1)
	}
	if err := scheduler.Add("reminder-24h", appCfg.Jobs.LongReminderCron, func(ctx context.Context) error {
		_, err := reminders.Run(ctx, model.ReminderKindLong)
		return err
	}); err != nil {
		applog.Error("schedule long reminder", err)
		os.Exit(1)
	}
	if err := scheduler.Add("reminder-2h", appCfg.Jobs.ShortReminderCron, func(ctx context.Context) error {
		_, err := reminders.Run(ctx, model.ReminderKindShort)
		return err
	}); err != nil {
		applog.Error("schedule short reminder", err)
		os.Exit(1)
	}
	scheduler.Start()

	// 7. HTTP-фасад.
	handlers := web.NewHandlers(apptSvc, conflictSvc, availabilitySvc, routeSvc, seriesSvc, directorySvc, sweeper, reminders)
	srv := web.NewServer(appCfg.Listen, handlers)

	go func() {
		applog.Info("core listening", "addr", appCfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			applog.Error("http serve", err)
			os.Exit(1)
		}
	}()

	// 8. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	applog.Info("shutting down")
	scheduler.Stop()
	if err := web.Shutdown(srv, 10*time.Second); err != nil {
		applog.Error("http shutdown", err)
	}
}
