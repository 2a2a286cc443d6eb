package app

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/commercelab/loyalty/internal/config"
	testhelpers "github.com/commercelab/loyalty/internal/test"
	"github.com/commercelab/loyalty/internal/worker"
)

func testConfig(addr string) *config.Config {
	return &config.Config{
		RunAddress:          addr,
		AccrualSyncInterval: time.Hour,
		SyncBatchSize:       8,
		WorkerPoolSize:      1,
		ShutdownTimeout:     2 * time.Second,
	}
}

func newIdleSyncer() *worker.AccrualSyncer {
	return worker.NewAccrualSyncer(&testhelpers.SyncFacadeStub{}, time.Hour, 8, 1, testLogger())
}

func TestNewHTTPServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	server := newHTTPServer(serverParams{Config: testConfig(":9090"), Router: engine})
	if server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", server.Addr)
	}
	if server.Handler == nil {
		t.Error("expected router to be attached")
	}
}

func TestNewAccrualSyncer(t *testing.T) {
	facade := &LoyaltyFacade{}
	syncer := newAccrualSyncer(workerParams{
		Facade: facade,
		Config: testConfig(":0"),
		Logger: testLogger(),
	})
	if syncer == nil {
		t.Fatal("expected syncer")
	}
}

func TestRegisterLifecycleStartStop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	addr := listener.Addr().String()
	if err := listener.Close(); err != nil {
		t.Fatalf("release port: %v", err)
	}

	lifecycle := &testhelpers.LifecycleRecorder{}
	registerLifecycle(lifecycleParams{
		Lifecycle:  lifecycle,
		Shutdowner: &testhelpers.ShutdownerStub{},
		Logger:     testLogger(),
		Server:     &http.Server{Addr: addr, Handler: engine},
		Worker:     newIdleSyncer(),
		Config:     testConfig(addr),
	})

	if len(lifecycle.Hooks) != 1 {
		t.Fatalf("expected one lifecycle hook, got %d", len(lifecycle.Hooks))
	}
	hook := lifecycle.Hooks[0]

	if err := hook.OnStart(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	var resp *http.Response
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err = http.Get("http://" + addr + "/ping")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never became reachable: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from running server, got %d", resp.StatusCode)
	}

	if err := hook.OnStop(context.Background()); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if _, err := http.Get("http://" + addr + "/ping"); err == nil {
		t.Fatal("expected server to be stopped")
	}
}

func TestRegisterLifecycleShutsDownOnListenFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("occupy port: %v", err)
	}
	defer listener.Close()

	shutdowner := &testhelpers.ShutdownerStub{Called: make(chan struct{}, 1)}
	lifecycle := &testhelpers.LifecycleRecorder{}
	syncer := newIdleSyncer()
	registerLifecycle(lifecycleParams{
		Lifecycle:  lifecycle,
		Shutdowner: shutdowner,
		Logger:     testLogger(),
		Server:     &http.Server{Addr: listener.Addr().String()},
		Worker:     syncer,
		Config:     testConfig(listener.Addr().String()),
	})

	if err := lifecycle.Hooks[0].OnStart(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer syncer.Stop()

	select {
	case <-shutdowner.Called:
	case <-time.After(2 * time.Second):
		t.Fatal("expected shutdowner to be invoked after listen failure")
	}
}
