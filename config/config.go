package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	BackendHugot  = "hugot"
	BackendRemote = "remote"
	BackendOpenAI = "openai"
	BackendVader  = "vader"
)

type Config struct {
	DataDir        string
	OutputDir      string
	RawDataset     string
	CleanedDataset string
	ScoredDataset  string

	ChunkSize     int
	Workers       int
	ProgressEvery int

	Backend            string
	ModelName          string
	ModelDir           string
	ModelOnnxFile      string
	HugotRuntime       string
	OnnxLibraryPath    string
	ClassifierEndpoint string
	HFAPIToken         string
	OpenAIAPIKey       string
	OpenAIModel        string

	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool
	ScoreCacheTTL  time.Duration

	SeverityTable string
	AWSEndpoint   string
	AWSRegion     string

	KafkaBroker        string
	KafkaSeverityTopic string

	LogLevel string
}

// Load reads the job configuration from the environment. Every value has a
// default so both binaries run with no environment at all.
func Load() Config {
	dataDir := getEnv("DATA_DIR", "DATA")
	return Config{
		DataDir:        dataDir,
		OutputDir:      getEnv("OUTPUT_DIR", "OUTPUT"),
		RawDataset:     getEnv("RAW_DATASET", filepath.Join(dataDir, "IMDB_Dataset.csv")),
		CleanedDataset: getEnv("CLEANED_DATASET", filepath.Join(dataDir, "cleaned_reviews.csv")),
		ScoredDataset:  getEnv("SCORED_DATASET", filepath.Join(dataDir, "reviews_with_severity.csv")),

		ChunkSize:     getEnvInt("CHUNK_SIZE", 800),
		Workers:       getEnvInt("SCORER_WORKERS", 1),
		ProgressEvery: getEnvInt("PROGRESS_EVERY", 500),

		Backend:            getEnv("CLASSIFIER_BACKEND", BackendHugot),
		ModelName:          getEnv("MODEL_NAME", "cardiffnlp/twitter-roberta-base-sentiment-latest"),
		ModelDir:           getEnv("MODEL_DIR", "./models"),
		ModelOnnxFile:      getEnv("MODEL_ONNX_FILE", ""),
		HugotRuntime:       getEnv("HUGOT_RUNTIME", "ort"),
		OnnxLibraryPath:    getEnv("ORT_LIBRARY_PATH", ""),
		ClassifierEndpoint: getEnv("CLASSIFIER_ENDPOINT", "http://localhost:8080"),
		HFAPIToken:         getEnv("HF_API_TOKEN", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ValkeyAddress:  getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword: getEnv("VALKEY_PASSWORD", ""),
		ValkeyTLS:      getEnv("VALKEY_TLS", "") == "true",
		ScoreCacheTTL:  time.Duration(getEnvInt("SCORE_CACHE_TTL", 7*86400)) * time.Second,

		SeverityTable: getEnv("SEVERITY_TABLE_NAME", ""),
		AWSEndpoint:   getEnv("AWS_ENDPOINT", ""),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),

		KafkaBroker:        getEnv("KAFKA_BROKER", "localhost:29092"),
		KafkaSeverityTopic: getEnv("KAFKA_SEVERITY_TOPIC", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
