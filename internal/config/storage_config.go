package config

// StorageConfig holds configuration for the extraction cache
type StorageConfig struct {
	CacheEnabled  bool   `json:"cache_enabled" yaml:"cache_enabled"`
	SQLiteDBPath  string `json:"sqlite_db_path,omitempty" yaml:"sqlite_db_path,omitempty"`
	CacheTTLHours int    `json:"cache_ttl_hours,omitempty" yaml:"cache_ttl_hours,omitempty" validate:"omitempty,min=0"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		CacheEnabled:  false,
		SQLiteDBPath:  DefaultStorageSQLiteDBPath,
		CacheTTLHours: DefaultStorageCacheTTLHours,
	}
}
