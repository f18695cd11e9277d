package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var logger *logger_i.Logger
var qdrantInstance *qdrant.Client
var once sync.Once
var dimension = uint64(config.EmbeddingOutputDimensionality)

type ClientHolder struct {
	QObj *qdrant.Client

	//names already verified or created in this process
	ensuredMu sync.RWMutex
	ensured   map[string]bool
}

func GetQdrantClient(ctx context.Context) *ClientHolder {

	once.Do(func() {
		logger = logger_i.NewLogger("Qdrant")
		res := newClient()
		if res != nil {
			qdrantInstance = res
			go closeQdrant(ctx, qdrantInstance)
		}
	})

	if qdrantInstance == nil {
		return nil
	}
	return &ClientHolder{
		QObj:    qdrantInstance,
		ensured: make(map[string]bool),
	}
}

func newClient() *qdrant.Client {

	host := config.QdrantHost
	port, er := strconv.Atoi(config.QdrantPort)
	if er != nil {
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		logger.Error("could not instantiate: ", "error:", err)
		return nil
	}

	return client
}

func closeQdrant(ctx context.Context, qi *qdrant.Client) {
	<-ctx.Done()
	logger.Info("Shutting down Qdrant")
	err := qi.Close()
	if err != nil {
		logger.Error("could not close Qdrant: ", "error:", err)
	}
	logger.Info("Closed Qdrant")
}

func (db *ClientHolder) Connect(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, config.QdrantConnectionTimeout)
	defer cancel()
	return db.IsConnected(probeCtx)
}

func (db *ClientHolder) IsConnected(ctx context.Context) bool {
	_, err := db.QObj.HealthCheck(ctx)
	if err != nil {
		logger.Error("Qdrant health check failed", "error:", err)
		return false
	}
	return true
}

// EnsureCollection is get-or-create with an in-process handle cache: a name
// that passed once is not re-checked against the server.
func (db *ClientHolder) EnsureCollection(ctx context.Context, collectionName string, description string) error {
	db.ensuredMu.RLock()
	ok := db.ensured[collectionName]
	db.ensuredMu.RUnlock()
	if ok {
		return nil
	}

	db.ensuredMu.Lock()
	defer db.ensuredMu.Unlock()
	if db.ensured[collectionName] {
		return nil
	}

	if err := createCollection(ctx, db.QObj, collectionName, description); err != nil {
		return err
	}
	db.ensured[collectionName] = true
	return nil
}

func (db *ClientHolder) DeleteCollection(ctx context.Context, collectionName string) error {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	err := db.QObj.DeleteCollection(ctx, collectionName)
	if err != nil {
		loggr.Error("Error deleting collection", "collectionName", collectionName, "error:", err)
		return err
	}

	db.ensuredMu.Lock()
	delete(db.ensured, collectionName)
	db.ensuredMu.Unlock()

	loggr.Info("Deleted collection", "collectionName", collectionName)
	return nil
}

// Describe is best-effort stats: failures come back as a zero count, never an
// error.
func (db *ClientHolder) Describe(ctx context.Context, collectionName string) docModel.CollectionInfo {
	info := docModel.CollectionInfo{Name: collectionName}
	count, err := db.Count(ctx, collectionName)
	if err != nil {
		logger.Debug("Describe falling back to zero count", "collectionName", collectionName, "error", err)
		return info
	}
	info.PointCount = count
	return info
}

func (db *ClientHolder) Count(ctx context.Context, collectionName string) (uint64, error) {
	return db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName,
		Exact:          qdrant.PtrOf(true),
	})
}

func (db *ClientHolder) Query(ctx context.Context, collectionName string, vector []float32, limit uint64) ([]docModel.ScoredChunk, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		loggr.Error("Error querying Qdrant: ", "collectionName", collectionName, "error:", err)
		return nil, err
	}

	matches := make([]docModel.ScoredChunk, 0, len(result))
	for _, hit := range result {
		matches = append(matches, docModel.ScoredChunk{
			ID:       hit.Id.GetUuid(),
			Content:  hit.Payload["content"].GetStringValue(),
			Score:    hit.Score,
			Metadata: payloadToMetadata(hit.Payload),
		})
	}

	loggr.Debug("Query finished", "collectionName", collectionName, "matches", len(matches))
	return matches, nil
}

func (db *ClientHolder) UpsertBatch(ctx context.Context, collectionName string, chunks []docModel.VectorChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(chunks))

	for i, chunk := range chunks {
		payload := map[string]any{
			"content":  chunk.Content,
			"chunk_id": chunk.ChunkID,
		}
		for k, v := range chunk.Metadata {
			payload[k] = v
		}

		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		}
	}

	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})

	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	return nil
}

// FindIDsByFileName scrolls the collection for every point whose file_name
// payload matches. This is the lookup deletion-by-document rides on.
func (db *ClientHolder) FindIDsByFileName(ctx context.Context, collectionName string, fileName string) ([]string, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	points, err := db.QObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collectionName,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("file_name", fileName),
			},
		},
		Limit:       qdrant.PtrOf(uint32(1000)),
		WithPayload: qdrant.NewWithPayload(false),
	})
	if err != nil {
		loggr.Error("Error scrolling for file points", "collectionName", collectionName, "fileName", fileName, "error:", err)
		return nil, err
	}

	ids := make([]string, 0, len(points))
	for _, p := range points {
		ids = append(ids, p.Id.GetUuid())
	}
	return ids, nil
}

func (db *ClientHolder) DeleteByIDs(ctx context.Context, collectionName string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pointIds := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIds[i] = qdrant.NewID(id)
	}

	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points:         qdrant.NewPointsSelector(pointIds...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant delete failed: %w", err)
	}
	return nil
}

func payloadToMetadata(payload map[string]*qdrant.Value) map[string]string {
	metadata := make(map[string]string, len(payload))
	for k, v := range payload {
		if k == "content" {
			continue
		}
		metadata[k] = v.GetStringValue()
	}
	return metadata
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string, description string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	logger.Info("Creating collection", "collectionName", collectionName, "description", description)
	err = client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	return err
}
