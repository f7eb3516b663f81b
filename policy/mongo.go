package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"git.fiblab.net/general/common/v2/mongoutil"
	"github.com/tsinghua-fib-lab/intersection-rl/agent"
	"github.com/tsinghua-fib-lab/intersection-rl/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoTimeout = 10 * time.Second

// policyDocument MongoDB中保存的策略文档
type policyDocument struct {
	ID        string                        `bson:"_id"`
	RunID     string                        `bson:"run_id"`
	UpdatedAt time.Time                     `bson:"updated_at"`
	Entries   int                           `bson:"entries"`
	Table     map[string]map[string]float64 `bson:"table"`
}

// MongoStore MongoDB策略存储
// 说明：每个策略名对应集合中的一个文档，保存时整体替换
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	name   string
	runID  string
}

// NewMongoStore 创建MongoDB策略存储
func NewMongoStore(c config.Policy, runID string) *MongoStore {
	client := mongoutil.NewClient(c.URI)
	return &MongoStore{
		client: client,
		coll:   mongoutil.GetMongoColl(client, c),
		name:   c.Name,
		runID:  runID,
	}
}

// Load 读取Q表，文档不存在时返回空表
func (s *MongoStore) Load() (*agent.Table, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	var doc policyDocument
	err := s.coll.FindOne(ctx, bson.M{"_id": s.name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		log.Infof("policy %s not found in %s, start with empty table", s.name, s.coll.Name())
		return agent.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("find policy %s: %w", s.name, err)
	}
	t, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	log.Infof("load %d q values of policy %s (run %s, updated at %v)", t.Len(), s.name, doc.RunID, doc.UpdatedAt)
	return t, nil
}

// Save 保存Q表（upsert）
func (s *MongoStore) Save(t *agent.Table) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	doc := toDocument(s.name, s.runID, t, time.Now())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save policy %s: %w", s.name, err)
	}
	log.Infof("save %d q values of policy %s", t.Len(), s.name)
	return nil
}

// Close 断开连接
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) String() string {
	return fmt.Sprintf("mongo:%s.%s/%s", s.coll.Database().Name(), s.coll.Name(), s.name)
}

func toDocument(name, runID string, t *agent.Table, now time.Time) policyDocument {
	return policyDocument{
		ID:        name,
		RunID:     runID,
		UpdatedAt: now.UTC().Truncate(time.Millisecond),
		Entries:   t.Len(),
		Table:     t.ToNested(),
	}
}

func fromDocument(doc policyDocument) (*agent.Table, error) {
	t, err := agent.FromNested(doc.Table)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", doc.ID, err)
	}
	return t, nil
}
