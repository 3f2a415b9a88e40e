package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/djarek/fastbeast/config"
	"github.com/djarek/fastbeast/core"
	"github.com/djarek/fastbeast/core/admin"
	"github.com/djarek/fastbeast/core/logx"
)

// App is the application instance: the serving engine plus the
// optional admin plane.
type App struct {
	cfg    *config.Config
	engine *core.Engine
}

// New creates an application instance
func New(cfg *config.Config) *App {
	return &App{
		cfg:    cfg,
		engine: core.NewEngine(cfg.Addr, cfg.Root, cfg.Workers),
	}
}

// Engine returns the underlying engine.
func (a *App) Engine() *core.Engine {
	return a.engine
}

// Run starts the application and blocks until the process dies.
func (a *App) Run() {
	go a.awaitSignal()

	if err := a.engine.Start(); err != nil {
		logx.Fatalf("Server startup failed: %v", err)
	}

	if a.cfg.AdminAddr != "" {
		admin.NewServer(a.cfg.AdminAddr, a.engine).Start()
	}

	select {}
}

func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	// No graceful drain: sockets die with the process.
	logx.Infof("Signal received: %v. Shutting down...", sig)
	os.Exit(0)
}
