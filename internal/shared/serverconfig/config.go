package serverconfig

import (
	"sync/atomic"

	"Skirmish/internal/shared/config"
)

var current atomic.Pointer[Config]

// Load 读取配置并保存为当前快照；文件变更时整体替换快照并回调 onReload。
func Load(cfgName string, onReload func(*Config)) (*Config, error) {
	path, err := config.Resolve(cfgName)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	err = config.Load(path, cfg, func(decode config.Decoder) {
		next := &Config{}
		if err := decode(next); err != nil {
			// 变更后的文件不合法时保留旧配置。
			return
		}
		next.applyDefaults()
		current.Store(next)
		if onReload != nil {
			onReload(next)
		}
	})
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	current.Store(cfg)
	return cfg, nil
}

// Get 返回当前配置快照；未 Load 时返回默认值。
func Get() *Config {
	if c := current.Load(); c != nil {
		return c
	}
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	s := &c.Simulation
	if s.TickDurationMS <= 0 {
		s.TickDurationMS = 50
	}
	if s.MaxTicks <= 0 {
		s.MaxTicks = 5
	}
	if s.MaxConstructionDistance <= 0 {
		s.MaxConstructionDistance = 10
	}
	if s.SellRefundFactor <= 0 {
		s.SellRefundFactor = 0.5
	}
	if s.MapWidth <= 0 {
		s.MapWidth = 64
	}
	if s.MapHeight <= 0 {
		s.MapHeight = 64
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.FlushEveryMS <= 0 {
		c.Storage.FlushEveryMS = 1000
	}
	if c.MongoDB.Collection == "" {
		c.MongoDB.Collection = "sessions"
	}
}
