// @title           Document Store API
// @version         1.0
// @description     This API handles multi-collection document ingestion and semantic retrieval
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/data/sqlite"
	"github.com/akolanti/DocStoreAPI/internal/data/store"
	jobmodel "github.com/akolanti/DocStoreAPI/internal/domain/jobModel"
	"github.com/akolanti/DocStoreAPI/internal/domain/sessionModel"
	"github.com/akolanti/DocStoreAPI/internal/handlers"
	"github.com/akolanti/DocStoreAPI/internal/job"
	"github.com/akolanti/DocStoreAPI/internal/mcptool"
	"github.com/akolanti/DocStoreAPI/internal/rag"
	"github.com/akolanti/DocStoreAPI/internal/rag/classify"
	"github.com/akolanti/DocStoreAPI/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/DocStoreAPI/internal/rag/index"
	"github.com/akolanti/DocStoreAPI/internal/rag/llm"
	"github.com/akolanti/DocStoreAPI/internal/rag/llm/gemini"
	"github.com/akolanti/DocStoreAPI/internal/rag/llm/openaiChat"
	"github.com/akolanti/DocStoreAPI/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/DocStoreAPI/internal/server"
	"github.com/akolanti/DocStoreAPI/internal/worker"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and job store
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	if redisJobs := store.GetRedisJobStore(serviceContext); redisJobs != nil {
		serviceConfig.JobStore = redisJobs
	} else if config.FALLBACK_REDIS_TO_INTERNALSTORE {
		logger.Error("Redis job store is offline, falling back to the in-memory store")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
	} else {
		logger.Error("Redis job store is offline")
		return
	}
	service := job.InitJobService(serviceConfig)

	var sessionStore sessionModel.SessionStore
	if redisSessions := store.GetRedisSessionStore(serviceContext); redisSessions != nil {
		sessionStore = redisSessions
	} else if config.FALLBACK_REDIS_TO_INTERNALSTORE {
		logger.Error("Redis session store is offline, falling back to the in-memory store")
		sessionStore = store.InitInMemorySessionStore()
	} else {
		logger.Error("Redis session store is offline")
		return
	}

	//document metadata records
	recordStore, err := sqlite.NewRecordStore(config.SQLitePath)
	if err != nil {
		logger.Error("Failed to open the document record store", "error", err)
		return
	}
	defer recordStore.Close()

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, config.GoogleEmbeddingAPIKey)

	var llmProvider llm.Provider
	if config.OpenAIAPIKey != "" {
		llmProvider = openaiChat.GetOpenAIChatClient(serviceContext, config.OpenAIModel, config.OpenAIAPIKey, config.OpenAIBaseURL)
	} else {
		llmProvider = gemini.GetGeminiClient(serviceContext, config.GeminiModelName, config.GoogleEmbeddingAPIKey)
	}

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	classifier := classify.NewClassifier(llmProvider)
	indexManager := index.NewManager(vectorDB, embeddingService)
	docStore := rag.NewStore(vectorDB, classifier, indexManager, recordStore)

	if err := docStore.Bootstrap(serviceContext); err != nil {
		//the server still starts; /query answers 503 until the backend is reachable
		logger.Warn("Document store bootstrap failed", "error", err)
	}

	handlers.InitDocStoreHandler(docStore, recordStore)
	handlers.InitJobHandler(service)
	handlers.InitSessionHandler(sessionStore)

	//init worker pool
	worker.InitServices(service, docStore)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	mcpServer := mcptool.NewServer(docStore)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr, mcpServer.HTTPHandler())

	<-stopExecution
	logger.Info("Server stopped")
}
