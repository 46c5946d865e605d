package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	l, err := New("debug", "console")
	require.NoError(t, err)
	assert.NotNil(t, l.Logger)

	_, err = New("loud", "json")
	assert.Error(t, err)
}

func TestWithContextAddsRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	fields := withContext(ctx, []zap.Field{StringField("a", "b")})
	require.Len(t, fields, 2)
	assert.Equal(t, "request_id", fields[1].Key)
	assert.Equal(t, "req-1", fields[1].String)

	assert.Len(t, withContext(context.Background(), nil), 0)
}
