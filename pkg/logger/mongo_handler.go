package logger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	sinkBufferSize = 4096
	sinkBatchSize  = 50
	sinkFlushEvery = 2 * time.Second
)

// logDoc is the shape written to MongoDB.
type logDoc struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// mongoSink owns the connection and the write pipeline. Records are
// buffered in a channel and inserted in batches by a single goroutine,
// so logging never blocks a request. When the buffer is full the record
// is dropped.
type mongoSink struct {
	client *mongo.Client
	col    *mongo.Collection
	buf    chan logDoc
	done   chan struct{}
}

// MongoHandler is an slog.Handler view over a shared mongoSink. WithAttrs
// and WithGroup return new views; the sink itself is never copied.
type MongoHandler struct {
	sink  *mongoSink
	attrs []slog.Attr
	group string
}

// NewMongoHandler connects to uri and starts the background writer. The
// caller must Close() it on shutdown to flush pending records.
func NewMongoHandler(uri, db, collection string) (*MongoHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("logger: mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger: mongo ping: %w", err)
	}

	sink := &mongoSink{
		client: client,
		col:    client.Database(db).Collection(collection),
		buf:    make(chan logDoc, sinkBufferSize),
		done:   make(chan struct{}),
	}

	// Descending time index, recent logs are what gets queried.
	_, _ = sink.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})

	go sink.run()
	return &MongoHandler{sink: sink}, nil
}

func (h *MongoHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	doc := logDoc{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	absorb := func(a slog.Attr) {
		key := a.Key
		if key == "request_id" {
			doc.RequestID = a.Value.String()
			return
		}
		if h.group != "" {
			key = h.group + "." + key
		}
		doc.Attrs[key] = a.Value.Any()
	}

	for _, a := range h.attrs {
		absorb(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		absorb(a)
		return true
	})

	select {
	case h.sink.buf <- doc:
	default: // buffer full, drop rather than block
	}
	return nil
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &MongoHandler{sink: h.sink, attrs: merged, group: h.group}
}

func (h *MongoHandler) WithGroup(name string) slog.Handler {
	group := name
	if h.group != "" {
		group = h.group + "." + name
	}
	return &MongoHandler{sink: h.sink, attrs: h.attrs, group: group}
}

// Close flushes buffered records and disconnects. Safe to call twice.
func (h *MongoHandler) Close() {
	select {
	case <-h.sink.done:
	default:
		close(h.sink.done)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = h.sink.client.Disconnect(ctx)
}

// run drains the buffer into InsertMany batches until done is closed.
func (s *mongoSink) run() {
	ticker := time.NewTicker(sinkFlushEvery)
	defer ticker.Stop()

	batch := make([]interface{}, 0, sinkBatchSize)

	for {
		select {
		case doc := <-s.buf:
			batch = append(batch, doc)
			if len(batch) >= sinkBatchSize {
				batch = s.flush(batch)
			}
		case <-ticker.C:
			batch = s.flush(batch)
		case <-s.done:
			for len(s.buf) > 0 {
				batch = append(batch, <-s.buf)
			}
			s.flush(batch)
			return
		}
	}
}

// flush writes the batch and returns the reset slice. Insert errors are
// swallowed, a log sink that fails must not take the app down with it.
func (s *mongoSink) flush(batch []interface{}) []interface{} {
	if len(batch) == 0 {
		return batch
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = s.col.InsertMany(ctx, batch)
	return batch[:0]
}

// fanout sends every record to each of hs.
type fanout struct {
	handlers []slog.Handler
}

func newFanout(hs ...slog.Handler) slog.Handler { return &fanout{handlers: hs} }

func (f *fanout) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.handlers {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: hs}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &fanout{handlers: hs}
}
