package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	config = viper.New()
	once   sync.Once
)

// Init 初始化配置
func Init(configFiles ...string) error {
	var err error
	once.Do(func() {
		configFile := "config.yaml"
		if len(configFiles) > 0 {
			configFile = configFiles[0]
		}
		config.SetConfigFile(configFile)

		// 环境变量覆盖，如 SURAT_SERVER_PORT
		config.SetEnvPrefix("surat")
		config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		config.AutomaticEnv()

		// 设置默认值
		setDefaults()

		// 读取配置文件
		if err = config.ReadInConfig(); err != nil {
			err = fmt.Errorf("%w: read config file failed: %v", ErrInvalidConfig, err)
			return
		}

		// 监听配置文件变化
		config.WatchConfig()
	})
	return err
}

// setDefaults 设置默认值
func setDefaults() {
	config.SetDefault("server.port", 5000)
	config.SetDefault("server.app_name", "surat_hub")
	config.SetDefault("server.node_id", 1)
	config.SetDefault("server.body_limit", 10*1024*1024)
	config.SetDefault("server.print_routes", false)

	config.SetDefault("database.type", "")
	config.SetDefault("database.path", "data/surat.db")
	config.SetDefault("database.host", "localhost")
	config.SetDefault("database.port", 5432)
	config.SetDefault("database.user", "postgres")
	config.SetDefault("database.password", "postgres")
	config.SetDefault("database.dbname", "surat_hub")
	config.SetDefault("database.max_idle_conns", 10)
	config.SetDefault("database.max_open_conns", 100)
	config.SetDefault("database.conn_max_lifetime", 3600)

	config.SetDefault("cache.redis.host", "localhost")
	config.SetDefault("cache.redis.port", 6379)
	config.SetDefault("cache.redis.db", 0)
	config.SetDefault("cache.redis.pool_size", 10)

	config.SetDefault("log.filename", "logs/app.log")
	config.SetDefault("log.level", "info")
	config.SetDefault("log.max_size", 100)
	config.SetDefault("log.max_backups", 3)
	config.SetDefault("log.max_age", 28)
	config.SetDefault("log.compress", true)

	config.SetDefault("security.allowed_origins", "*")

	config.SetDefault("rate_limit.enabled", true)
	config.SetDefault("rate_limit.max_requests", 60)
	config.SetDefault("rate_limit.duration", 60)

	config.SetDefault("letter.unit_pengirim", "Lembaga Sertifikasi Profesi")
	config.SetDefault("letter.kode_unit", "LSP")
	config.SetDefault("letter.sequence_store", "memory")
	config.SetDefault("letter.signer.nama", "Dr. Nur Azizah, S.Kom., M.M.")
	config.SetDefault("letter.signer.jabatan", "Kepala Lembaga Sertifikasi Profesi")
	config.SetDefault("letter.signer.nip", "19790821 200801 2 002")

	config.SetDefault("template.dir", "templates")
	config.SetDefault("template.default", "surat-tugas")
	config.SetDefault("template.files", map[string]string{
		"surat-tugas":     "contoh-template.docx",
		"contoh-template": "contoh-template.docx",
	})

	config.SetDefault("pdf.soffice_path", "soffice")
	config.SetDefault("pdf.timeout", 60)
}

// Get 获取配置值
func Get(key string) interface{} {
	return config.Get(key)
}

// GetString 获取字符串配置值
func GetString(key string) string {
	return config.GetString(key)
}

// GetInt 获取整数配置值
func GetInt(key string) int {
	return config.GetInt(key)
}

// GetUint64 获取64位无符号整数配置值
func GetUint64(key string) uint64 {
	return config.GetUint64(key)
}

// GetBool 获取布尔配置值
func GetBool(key string) bool {
	return config.GetBool(key)
}

// GetDuration 以秒为单位读取时长
func GetDuration(key string) time.Duration {
	return time.Duration(config.GetInt(key)) * time.Second
}

// GetStringMapString 获取字符串映射配置值
func GetStringMapString(key string) map[string]string {
	return config.GetStringMapString(key)
}

// Set 设置配置值
func Set(key string, value interface{}) {
	config.Set(key, value)
}

// IsSet 检查配置值是否已设置
func IsSet(key string) bool {
	return config.IsSet(key)
}

// GetDSN 获取数据库连接字符串
func GetDSN() string {
	dbType := GetString("database.type")
	switch strings.ToLower(dbType) {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.dbname"),
		)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.dbname"),
		)
	case "sqlite":
		return GetString("database.path")
	default:
		return ""
	}
}

// GetServerAddress 获取服务器地址
func GetServerAddress() string {
	return fmt.Sprintf(":%d", GetInt("server.port"))
}

// GetRedisAddress 获取Redis地址
func GetRedisAddress() string {
	return fmt.Sprintf("%s:%d", GetString("cache.redis.host"), GetInt("cache.redis.port"))
}
