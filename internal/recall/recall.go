// Package recall indexes memory entries in Qdrant so the tick runner
// can fetch the memories most relevant to an agent's current context.
// Entries are embedded as deterministic hashed tag vectors — no model
// call needed — which is enough for tag-level relevance.
package recall

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/nidhogg/agora-world/internal/agent"
)

const (
	// Dimension of the hashed tag vectors.
	Dimension = 64

	collection = "agora_memories"
)

// Index wraps gRPC connections to Qdrant's collections and points
// services.
type Index struct {
	conn        *grpc.ClientConn
	collections pb.CollectionsClient
	points      pb.PointsClient
}

// NewIndex dials the Qdrant gRPC endpoint and ensures the memory
// collection exists.
func NewIndex(ctx context.Context, host string, port int) (*Index, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("qdrant connect %s: %w", addr, err)
	}
	idx := &Index{
		conn:        conn,
		collections: pb.NewCollectionsClient(conn),
		points:      pb.NewPointsClient(conn),
	}
	if err := idx.ensureCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return idx, nil
}

func (i *Index) ensureCollection(ctx context.Context) error {
	_, err := i.collections.Get(ctx, &pb.GetCollectionInfoRequest{CollectionName: collection})
	if err == nil {
		return nil
	}
	_, err = i.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     Dimension,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", collection, err)
	}
	return nil
}

// Embed hashes a tag set into a fixed-dimension unit vector. The same
// tags always produce the same vector.
func Embed(tags []string) []float32 {
	vec := make([]float32, Dimension)
	for _, tag := range tags {
		h := fnv.New32a()
		h.Write([]byte(tag))
		sum := h.Sum32()
		bucket := int(sum % Dimension)
		sign := float32(1)
		if (sum>>16)&1 == 1 {
			sign = -1
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

// IndexMemory upserts one memory entry under the agent's id.
func (i *Index) IndexMemory(ctx context.Context, agentID string, m agent.MemoryEntry) error {
	payload := map[string]*pb.Value{
		"agent_id":    {Kind: &pb.Value_StringValue{StringValue: agentID}},
		"source_type": {Kind: &pb.Value_StringValue{StringValue: m.SourceType}},
		"source_id":   {Kind: &pb.Value_StringValue{StringValue: m.SourceID}},
	}

	_, err := i.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: collection,
		Points: []*pb.PointStruct{
			{
				Id:      &pb.PointId{PointIdOptions: &pb.PointId_Uuid{Uuid: m.ID}},
				Vectors: &pb.Vectors{VectorsOptions: &pb.Vectors_Vector{Vector: &pb.Vector{Data: Embed(m.Tags)}}},
				Payload: payload,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("index memory %s: %w", m.ID, err)
	}
	return nil
}

// Hit is one relevance search result.
type Hit struct {
	MemoryID   string  `json:"memory_id"`
	Score      float32 `json:"score"`
	SourceType string  `json:"source_type"`
	SourceID   string  `json:"source_id"`
}

// Relevant returns the top-K memories whose tag vectors are closest to
// the query tags, filtered to one agent.
func (i *Index) Relevant(ctx context.Context, agentID string, tags []string, topK uint64) ([]Hit, error) {
	resp, err := i.points.Search(ctx, &pb.SearchPoints{
		CollectionName: collection,
		Vector:         Embed(tags),
		Limit:          topK,
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		Filter: &pb.Filter{
			Must: []*pb.Condition{
				{
					ConditionOneOf: &pb.Condition_Field{
						Field: &pb.FieldCondition{
							Key: "agent_id",
							Match: &pb.Match{
								MatchValue: &pb.Match_Keyword{Keyword: agentID},
							},
						},
					},
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		h := Hit{MemoryID: r.Id.GetUuid(), Score: r.Score}
		if v, ok := r.Payload["source_type"]; ok {
			if sv, ok := v.Kind.(*pb.Value_StringValue); ok {
				h.SourceType = sv.StringValue
			}
		}
		if v, ok := r.Payload["source_id"]; ok {
			if sv, ok := v.Kind.(*pb.Value_StringValue); ok {
				h.SourceID = sv.StringValue
			}
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// Close tears down the underlying gRPC connection.
func (i *Index) Close() error {
	return i.conn.Close()
}
