package serverconfig

type Config struct {
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
	HTTPServer HTTPServerConfig `yaml:"httpserver" mapstructure:"httpserver"`
	GRPCServer GRPCServerConfig `yaml:"grpcserver" mapstructure:"grpcserver"`
	MongoDB    MongoDBConfig    `yaml:"mongodb" mapstructure:"mongodb"`
	MySQL      MySQLConfig      `yaml:"mysql" mapstructure:"mysql"`
	Storage    StorageConfig    `yaml:"storage" mapstructure:"storage"`
	Simulation SimulationConfig `yaml:"simulation" mapstructure:"simulation"`
	JWTSecret  string           `yaml:"jwt_secret" mapstructure:"jwt_secret" env:"JWT_SECRET"`
}

type LogConfig struct {
	FileDir    string `yaml:"file_dir" mapstructure:"file_dir" env:"LOG_FILE_DIR"`
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"` // MB
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"` // days
	Compress   bool   `yaml:"compress" mapstructure:"compress"`
	Level      string `yaml:"level" mapstructure:"level" env:"LOG_LEVEL"` // debug/info/warn/error...
	Dev        bool   `yaml:"dev" mapstructure:"dev"`
}

type HTTPServerConfig struct {
	Host string `yaml:"host" mapstructure:"host" env:"HTTP_HOST"`
	Port int    `yaml:"port" mapstructure:"port" env:"HTTP_PORT"`
}

type GRPCServerConfig struct {
	Host string `yaml:"host" mapstructure:"host" env:"GRPC_HOST"`
	Port int    `yaml:"port" mapstructure:"port" env:"GRPC_PORT"`
}

type MongoDBConfig struct {
	URI                string `yaml:"uri" mapstructure:"uri" env:"MONGODB_URI"`
	Database           string `yaml:"database" mapstructure:"database" env:"MONGODB_DATABASE"`
	Collection         string `yaml:"collection" mapstructure:"collection"`
	ConnectTimeoutMS   int    `yaml:"connect_timeout_ms" mapstructure:"connect_timeout_ms"`
	PingTimeoutMS      int    `yaml:"ping_timeout_ms" mapstructure:"ping_timeout_ms"`
	MaxPoolSize        uint64 `yaml:"max_pool_size" mapstructure:"max_pool_size"`
	MinPoolSize        uint64 `yaml:"min_pool_size" mapstructure:"min_pool_size"`
	ServerSelectTimeMS int    `yaml:"server_select_timeout_ms" mapstructure:"server_select_timeout_ms"`
}

type MySQLConfig struct {
	Host     string `yaml:"host" mapstructure:"host" env:"MYSQL_HOST"`
	Port     int    `yaml:"port" mapstructure:"port" env:"MYSQL_PORT"`
	User     string `yaml:"user" mapstructure:"user" env:"MYSQL_USER"`
	Password string `yaml:"password" mapstructure:"password" env:"MYSQL_PASSWORD"`
	DBName   string `yaml:"dbname" mapstructure:"dbname" env:"MYSQL_DBNAME"`
	Charset  string `yaml:"charset" mapstructure:"charset"`
	MaxIdle  int    `yaml:"max_idle" mapstructure:"max_idle"`
	MaxConn  int    `yaml:"max_conn" mapstructure:"max_conn"`
	ShowSQL  bool   `yaml:"show_sql" mapstructure:"show_sql"`
}

// StorageConfig 选择快照仓储实现：memory | mongodb | mysql。
type StorageConfig struct {
	Driver       string `yaml:"driver" mapstructure:"driver" env:"STORAGE_DRIVER"`
	FlushEveryMS int    `yaml:"flush_every_ms" mapstructure:"flush_every_ms"`
}

type SimulationConfig struct {
	TickDurationMS          int     `yaml:"tick_duration_ms" mapstructure:"tick_duration_ms"`
	MaxTicks                int     `yaml:"max_ticks" mapstructure:"max_ticks"`
	Strict                  bool    `yaml:"strict" mapstructure:"strict" env:"SIM_STRICT"`
	CatalogFile             string  `yaml:"catalog_file" mapstructure:"catalog_file" env:"SIM_CATALOG_FILE"`
	MaxConstructionDistance float64 `yaml:"max_construction_distance" mapstructure:"max_construction_distance"`
	SellRefundFactor        float64 `yaml:"sell_refund_factor" mapstructure:"sell_refund_factor"`
	InitialResources        []int   `yaml:"initial_resources" mapstructure:"initial_resources"`
	MapWidth                int     `yaml:"map_width" mapstructure:"map_width"`
	MapHeight               int     `yaml:"map_height" mapstructure:"map_height"`
}
