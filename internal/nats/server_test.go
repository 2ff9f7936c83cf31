package nats

import (
	"context"
	"os"
	"testing"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedServerWithMemoryStream(t *testing.T) {
	ctx := context.Background()

	ns, err := StartEmbeddedNATS("")
	require.NoError(t, err)

	v, ok := tempDirs.Load(ns)
	require.True(t, ok, "temp store dir should be tracked")
	storeDir := v.(string)

	nc, err := ConnectInProcess(ns)
	require.NoError(t, err)

	js, err := CreateJetStream(nc)
	require.NoError(t, err)

	stream, err := SetupStream(ctx, js)
	require.NoError(t, err)

	info, err := stream.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, StreamName(), info.Config.Name)
	assert.Equal(t, jetstream.MemoryStorage, info.Config.Storage)

	_, err = js.Publish(ctx, SubjectForEvent("abc", EventTypeWizard), []byte(`{}`))
	require.NoError(t, err)

	require.NoError(t, Shutdown(nc, ns))
	_, err = os.Stat(storeDir)
	assert.True(t, os.IsNotExist(err), "temp store dir should be removed")
}

func TestSubjects(t *testing.T) {
	assert.Equal(t, "inkbook.s1.>", SubjectForSession("s1"))
	assert.Equal(t, "inkbook.s1.submission", SubjectForEvent("s1", EventTypeSubmission))
	assert.Equal(t, "inkbook.*.wizard", SubjectForType(EventTypeWizard))
}
