package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5
	RateLimiterSweepInterval        = 10 * time.Minute
	RateLimiterIdleEviction         = 30 * time.Minute

	EmbeddingOutputDimensionality int32 = 1536

	MaxWorkerCount    int64 = 10
	MinWorkerCount    int64 = 1
	IdleWorkerTimeout       = 1 * time.Minute
	//IdleWorkerTimeout = 1 * time.Second //for tests

	//serverTimeouts
	ReadTimeout            = 60 * time.Second //multipart uploads need room
	WriteTimeout           = 120 * time.Second //sync ingestion waits on classification
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//base64 inflates documents by a third, cap leaves room for ~37MB raw
	MaxRequestBodyBytes int64 = 50 << 20

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation

	//classification
	OpenAIDefaultModel   = "gpt-4.1"
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	ClassifyTemperature  = 0.1
	ClassifyTimeout      = 90 * time.Second
	ClassifyMaxInputLen  = 7000
	MetadataMaxStringLen = 50
	MetadataMaxListLen   = 5

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"
	//has to undercut JobExecutionTimeout or a batch job can never be seen finishing
	EmbeddingBatchPollInterval = 2 * time.Minute

	//search defaults
	DefaultSearchTopK     = 15
	DefaultSearchMinScore = 0.4
	MinMatchContentLen    = 5

	//document listing page size
	DefaultDocumentListLimit = 10

	//session listing page size
	DefaultSessionPageSize = 20

	//ingestion job execution bound
	JobExecutionTimeout = 10 * time.Minute

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisSessionStore = 1

	//redis client knobs
	RedisReadTimeout     = 30 * time.Second
	RedisWriteTimeout    = 30 * time.Second
	RedisPingTimeout     = 3 * time.Second
	RedisPoolSize        = 10
	RedisMinIdleConns    = 2
	RedisConnMaxIdleTime = 5 * time.Minute

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisSessionStoreTTL = 7 * 24 * time.Hour

	//in-memory fallback stores follow the same retention
	JobEvictionSweepInterval = 1 * time.Hour
)

// Environment-backed settings. Defaults keep a dev machine working with
// docker-run qdrant/redis and a local data dir.
var (
	QdrantHost = envOr("QDRANT_HOST", "")
	QdrantPort = os.Getenv("QDRANT_PORT")

	RedisAddr     = envOr("REDIS_ADDR", "127.0.0.1:6379")
	RedisPassword = os.Getenv("REDIS_PASSWORD")

	AuthToken    = os.Getenv("API_AUTH_TOKEN")
	NoAuthBypass = AuthToken == ""

	OpenAIAPIKey  = os.Getenv("OPENAI_API_KEY")
	OpenAIBaseURL = os.Getenv("OPENAI_BASE_URL")
	OpenAIModel   = envOr("OPENAI_MODEL", OpenAIDefaultModel)

	GoogleEmbeddingAPIKey = os.Getenv("GOOGLE_EMBEDDING_API_KEY")

	SQLitePath   = envOr("SQLITE_PATH", "data/documents.db")
	DocumentsDir = envOr("DOCUMENTS_DIR", "file_db")
	TempDir      = envOr("TEMP_DIR", "file_db_temp")
)

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
