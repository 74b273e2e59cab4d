package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"Skirmish/internal/game/catalog"
	"Skirmish/internal/game/gameplay"
	"Skirmish/internal/game/plugins/buildingcontrol"
	"Skirmish/internal/session/actor"
	"Skirmish/internal/session/actors"
	"Skirmish/internal/session/app/port"
	"Skirmish/internal/session/entity"
	"Skirmish/internal/session/infra/persistence/memory"
	sessionmongo "Skirmish/internal/session/infra/persistence/mongodb"
	sessionmysql "Skirmish/internal/session/infra/persistence/mysql"
	"Skirmish/internal/session/interfaces"
	"Skirmish/internal/shared/infrastructure/db"
	sharedmongo "Skirmish/internal/shared/infrastructure/mongo"
	"Skirmish/internal/shared/logs"
	"Skirmish/internal/shared/security"
	"Skirmish/internal/shared/serverconfig"
	"Skirmish/internal/shared/transport/grpc"
	transporthttp "Skirmish/internal/shared/transport/http"
	"Skirmish/internal/shared/transport/ws"
	"Skirmish/internal/shared/utils"
	"Skirmish/modules/kit/logx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	appName    = "sim"
	tokenTTL   = 24 * time.Hour
	askTimeout = 3 * time.Second
)

func main() {
	cfgName := flag.String("config", "", "配置文件路径，缺省向上查找 configs/conf.yml")
	nodeID := flag.Int64("node", 1, "snowflake 节点号")
	flag.Parse()

	conf, err := serverconfig.Load(*cfgName, func(next *serverconfig.Config) {
		// 只有日志级别支持热更新，其余配置重启生效。
		logs.SetLevel(next.Log.Level)
	})
	if err != nil {
		panic(err)
	}
	if err := logs.Init(appName, conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	logs.Info("conf", zap.Any("conf", conf))
	baseLogger := logx.NewZapLogger(logs.Logger())

	cat := catalog.Default()
	if conf.Simulation.CatalogFile != "" {
		if cat, err = catalog.Load(conf.Simulation.CatalogFile); err != nil {
			logs.Fatal("load catalog failed", zap.Error(err))
		}
	}

	repo, closeRepo, err := openRepository(conf)
	if err != nil {
		logs.Fatal("open snapshot repository failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeRepo()

	ids, err := utils.NewSnowflake(*nodeID)
	if err != nil {
		logs.Fatal("snowflake init failed", zap.Error(err))
	}
	sim := conf.Simulation
	runtime := actor.NewRuntime(&actors.Deps{
		Repo:    repo,
		Catalog: cat,
		Options: entity.Options{
			GamePlay: gameplay.Config{
				TickDuration: time.Duration(sim.TickDurationMS) * time.Millisecond,
				MaxTicks:     sim.MaxTicks,
			},
			Strict: sim.Strict,
			BuildingControl: buildingcontrol.Config{
				MaxConstructionDistance: sim.MaxConstructionDistance,
				SellRefundFactor:        sim.SellRefundFactor,
			},
			InitialResources: sim.InitialResources,
		},
		FlushEvery: time.Duration(conf.Storage.FlushEveryMS) * time.Millisecond,
		Log:        baseLogger,
	}, ids, askTimeout)

	signer, err := security.NewSigner(conf.JWTSecret, tokenTTL)
	if err != nil {
		logs.Fatal("jwt signer init failed", zap.Error(err))
	}

	wsRouter := ws.NewRouter(baseLogger)
	wsServer := ws.NewServer(wsRouter, baseLogger)
	sessionModule := interfaces.New(runtime, signer, wsServer, baseLogger)
	sessionModule.WsRegister(wsRouter)

	gin.SetMode(gin.ReleaseMode)
	httpAddr := addr(conf.HTTPServer.Host, conf.HTTPServer.Port)
	httpServer := transporthttp.NewHttpServer(httpAddr, gin.New(), baseLogger, runtime.Ready)
	sessionModule.HttpRegister(httpServer.Engine().Group(""))

	grpcServer := grpc.NewServer(baseLogger)
	grpcAddr := addr(conf.GRPCServer.Host, conf.GRPCServer.Port)
	lis, err := net.Listen("tcp", grpcAddr)
	if err != nil {
		logs.Fatal("grpc listen failed", zap.String("addr", grpcAddr), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 2)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- fmt.Errorf("http server start failed: %w", err)
		}
	}()
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server start failed: %w", err)
		}
	}()
	grpcServer.SetServing(true)
	logs.Info("sim started", zap.String("http", httpAddr), zap.String("grpc", grpcAddr),
		zap.String("storage", conf.Storage.Driver))

	select {
	case <-ctx.Done():
		logs.Info("收到退出信号，准备优雅退出")
	case err := <-errCh:
		logs.Error("服务异常退出", zap.Error(err))
	}

	grpcServer.SetServing(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)
	// 会话 actor 退出时各自落盘。
	runtime.Shutdown()
	grpcServer.Stop()
}

func addr(host string, port int) string {
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, port)
}

func openRepository(conf *serverconfig.Config) (port.SnapshotRepository, func(), error) {
	switch conf.Storage.Driver {
	case "mongodb":
		client, err := sharedmongo.Open(conf.MongoDB, logs.Logger())
		if err != nil {
			return nil, nil, err
		}
		repo := sessionmongo.NewSnapshotRepository(client.Database(conf.MongoDB.Database), conf.MongoDB.Collection)
		return repo, func() { _ = client.Disconnect(context.Background()) }, nil
	case "mysql":
		gdb, err := db.Open(conf.MySQL)
		if err != nil {
			return nil, nil, err
		}
		repo := sessionmysql.NewSnapshotRepository(gdb)
		if err := repo.Migrate(context.Background()); err != nil {
			return nil, nil, err
		}
		return repo, func() {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil
	case "memory":
		return memory.NewSnapshotRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
}
