package s3env

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fsenv"
)

// mockDDBClient is an in-memory DynamoDB mock for testing.
type mockDDBClient struct {
	mu    sync.Mutex
	items map[string]map[string]types.AttributeValue // lock_key -> item
}

func newMockDDBClient() *mockDDBClient {
	return &mockDDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func (m *mockDDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := params.Item["lock_key"].(*types.AttributeValueMemberS).Value

	if params.ConditionExpression != nil && *params.ConditionExpression == "attribute_not_exists(lock_key)" {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDDBClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := params.Key["lock_key"].(*types.AttributeValueMemberS).Value

	item, exists := m.items[key]
	if !exists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
	}
	if params.ConditionExpression != nil {
		want := params.ExpressionAttributeValues[":owner"].(*types.AttributeValueMemberS).Value
		got := item["owner"].(*types.AttributeValueMemberS).Value
		if want != got {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	delete(m.items, key)
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestLockFileLease(t *testing.T) {
	ddb := newMockDDBClient()
	env := New(nil, "bucket", WithPrefix("db"), WithLockTable(ddb, "fsenv-locks"))

	lock, err := env.LockFile("LOCK")
	require.NoError(t, err)

	// Second acquisition must fail while the lease is held.
	_, err = env.LockFile("LOCK")
	require.Error(t, err)
	assert.True(t, fsenv.IsIOError(err))
	assert.True(t, errors.Is(err, ErrLockHeld))

	// Release, then reacquire.
	require.NoError(t, env.UnlockFile(lock))

	lock, err = env.LockFile("LOCK")
	require.NoError(t, err)
	require.NoError(t, env.UnlockFile(lock))
}

func TestLockFileDistinctNames(t *testing.T) {
	ddb := newMockDDBClient()
	env := New(nil, "bucket", WithLockTable(ddb, "fsenv-locks"))

	a, err := env.LockFile("a/LOCK")
	require.NoError(t, err)
	b, err := env.LockFile("b/LOCK")
	require.NoError(t, err)

	require.NoError(t, env.UnlockFile(a))
	require.NoError(t, env.UnlockFile(b))
}

func TestLockFileWithoutTable(t *testing.T) {
	env := New(nil, "bucket")

	_, err := env.LockFile("LOCK")
	require.Error(t, err)
	assert.True(t, fsenv.IsNotSupported(err))
}

func TestUnlockFileForeignLock(t *testing.T) {
	ddb := newMockDDBClient()
	env := New(nil, "bucket", WithLockTable(ddb, "fsenv-locks"))

	err := env.UnlockFile(struct{ fsenv.FileLock }{})
	require.Error(t, err)
	assert.True(t, fsenv.IsIOError(err))
}

func TestUnlockFileStolenLease(t *testing.T) {
	ddb := newMockDDBClient()
	env := New(nil, "bucket", WithLockTable(ddb, "fsenv-locks"))

	stale, err := env.LockFile("LOCK")
	require.NoError(t, err)

	// Simulate expiry: the table entry vanishes and another holder
	// takes the lease.
	ddb.mu.Lock()
	delete(ddb.items, "LOCK")
	ddb.mu.Unlock()

	fresh, err := env.LockFile("LOCK")
	require.NoError(t, err)

	// The stale holder cannot release the new lease.
	assert.Error(t, env.UnlockFile(stale))
	require.NoError(t, env.UnlockFile(fresh))
}
