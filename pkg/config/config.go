package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// All known configuration keys. INI sections map to dotted keys; each key can
// be overridden by an INKWELL_-prefixed environment variable.
const (
	KeyServerPort  = "System.Port"
	KeyServerDebug = "System.Debug"
	KeyBaseURL     = "System.BaseURL"

	KeyDBType     = "Database.Type"
	KeyDBHost     = "Database.Host"
	KeyDBPort     = "Database.Port"
	KeyDBUser     = "Database.User"
	KeyDBPassword = "Database.Password"
	KeyDBName     = "Database.Name"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeyJWTSecret = "Auth.JWTSecret"

	KeyUploadDir        = "Upload.Dir"
	KeyUploadMaxSizeMB  = "Upload.MaxSizeMB"
	KeyUploadThumbWidth = "Upload.ThumbWidth"

	KeyStorageType        = "Storage.Type"
	KeyStorageS3Bucket    = "Storage.S3Bucket"
	KeyStorageS3Region    = "Storage.S3Region"
	KeyStorageS3Endpoint  = "Storage.S3Endpoint"
	KeyStorageS3AccessKey = "Storage.S3AccessKey"
	KeyStorageS3SecretKey = "Storage.S3SecretKey"
	KeyStorageS3BaseURL   = "Storage.S3BaseURL"
)

var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeyBaseURL,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyJWTSecret,
	KeyUploadDir, KeyUploadMaxSizeMB, KeyUploadThumbWidth,
	KeyStorageType, KeyStorageS3Bucket, KeyStorageS3Region, KeyStorageS3Endpoint,
	KeyStorageS3AccessKey, KeyStorageS3SecretKey, KeyStorageS3BaseURL,
}

const envPrefix = "INKWELL"

// Config wraps a viper instance loaded from data/conf.ini plus environment
// overrides.
type Config struct {
	vp *viper.Viper
}

// New loads configuration from data/conf.ini, creating a default file on
// first run, then applies environment variable overrides.
func New() (*Config, error) {
	return NewFromFile("data/conf.ini")
}

// NewFromFile loads configuration from the given INI path.
func NewFromFile(filePath string) (*Config, error) {
	vp := viper.New()

	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("parse config file %q: %w", filePath, err)
		}
		if err := createDefaultConfigFile(filePath); err == nil {
			iniCfg, _ = ini.Load(filePath)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == "DEFAULT" {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
	}

	// Environment overrides, e.g. INKWELL_DATABASE_HOST.
	replacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVar := fmt.Sprintf("%s_%s", envPrefix, replacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVar); found {
			vp.Set(key, value)
		}
	}

	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// Set overrides a single key. Used by tests.
func (c *Config) Set(key string, value interface{}) {
	c.vp.Set(key, value)
}

func createDefaultConfigFile(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	defaultConfig := `[System]
Port = 8080
Debug = false
BaseURL = http://localhost:8080

[Database]
Type = sqlite
Name = inkwell.db

# Leave Addr empty to run without Redis (view counters and the refresh-token
# denylist then degrade to in-process storage).
[Redis]
Addr =
Password =
DB = 0

[Auth]
# Generated on first start when left empty.
JWTSecret =

[Upload]
Dir = data/uploads
MaxSizeMB = 10
ThumbWidth = 480

[Storage]
# local or s3
Type = local
`
	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	return nil
}
