package config

import "os"

// StorageConfig описывает движок хранения.
type StorageConfig struct {
	Driver      string // "file" или "postgres"
	DatabaseURL string // строка подключения для postgres
	File        string // путь к JSON-файлу для file
}

// Config — вся конфигурация процесса. Источник — окружение,
// у каждого параметра есть дефолт для локального запуска.
type Config struct {
	Port     string
	LogLevel string
	Storage  StorageConfig
}

// Load читает конфигурацию из окружения.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			Driver:      getEnv("STORAGE_DRIVER", "file"),
			DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/tasks?sslmode=disable"),
			File:        getEnv("TASKS_FILE", "tasks.json"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
