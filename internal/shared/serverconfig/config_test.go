package serverconfig

import (
	"os"
	"path/filepath"
	"testing"
)

const sample = `
httpserver:
  host: 127.0.0.1
  port: 8080
storage:
  driver: mongodb
simulation:
  tick_duration_ms: 40
  initial_resources: [500]
`

func TestLoad_读取文件并应用默认值与环境变量(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.yml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("SKIRMISH_HTTP_PORT", "9090")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPServer.Port != 9090 {
		t.Fatalf("期望环境变量覆盖端口为 9090, got=%d", cfg.HTTPServer.Port)
	}
	if cfg.Simulation.TickDurationMS != 40 || cfg.Simulation.MaxTicks != 5 {
		t.Fatalf("期望 tick=40 maxTicks=5(默认), got=%+v", cfg.Simulation)
	}
	if cfg.Storage.Driver != "mongodb" || cfg.Storage.FlushEveryMS != 1000 {
		t.Fatalf("storage 解析不符合预期: %+v", cfg.Storage)
	}
	if len(cfg.Simulation.InitialResources) != 1 || cfg.Simulation.InitialResources[0] != 500 {
		t.Fatalf("initial_resources 解析失败: %v", cfg.Simulation.InitialResources)
	}
	if Get() != cfg {
		t.Fatalf("期望 Get 返回刚加载的快照")
	}
}

func TestLoad_文件不存在返回错误(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml"), nil); err == nil {
		t.Fatalf("期望文件不存在时报错")
	}
}
