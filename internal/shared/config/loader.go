package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix 是环境变量覆盖的统一前缀，例如 SKIRMISH_HTTP_PORT。
const EnvPrefix = "SKIRMISH_"

// Decoder 把当前配置内容解码到 out，并叠加环境变量覆盖。
type Decoder func(out any) error

// Load 读取 configPath 到 out，然后应用 SKIRMISH_* 环境变量。
// onChange 非空时监听文件变更，每次变更回调一次 Decoder；
// 回调方自己解码到新值再替换，避免与读者并发写同一个结构体。
func Load(configPath string, out any, onChange func(decode Decoder)) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %q: %w", configPath, err)
	}
	decode := func(target any) error {
		if err := v.Unmarshal(target); err != nil {
			return fmt.Errorf("viper unmarshal: %w", err)
		}
		return ApplyEnv(target)
	}
	if err := decode(out); err != nil {
		return err
	}

	if onChange != nil {
		v.OnConfigChange(func(fsnotify.Event) {
			onChange(decode)
		})
		v.WatchConfig()
	}
	return nil
}

// ApplyEnv 只覆盖设置了 env tag 且环境变量存在的字段。
func ApplyEnv(out any) error {
	if err := env.ParseWithOptions(out, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("env override: %w", err)
	}
	return nil
}
