package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   int64
	Name string
}

func newTracedDB(t *testing.T, cfg DBTracingConfig) (*gorm.DB, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	cfg.Provider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	require.NoError(t, NewDBTracingPlugin(cfg, nil).Register(db))
	return db, recorder
}

func TestDBTracingPlugin_RecordsSpans(t *testing.T) {
	db, recorder := newTracedDB(t, DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour})

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedRow{Name: "a"}).Error)

	spans := recorder.Ended()
	require.NotEmpty(t, spans)
	for _, attr := range spans[len(spans)-1].Attributes() {
		assert.NotEqual(t, "db.slow_query", string(attr.Key))
	}
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db, recorder := newTracedDB(t, DBTracingConfig{Enabled: false})

	require.NoError(t, db.Create(&tracedRow{Name: "b"}).Error)
	assert.Empty(t, recorder.Ended())
}
