package s3env

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/hupe1980/fsenv"
)

// DDBClient is the interface for the DynamoDB lock operations.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ErrLockHeld is returned when another holder owns the lease.
var ErrLockHeld = errors.New("lock already held")

// leaseLock identifies a lease taken in the lock table.
//
// Table schema: partition key lock_key (string). Create with:
//
//	aws dynamodb create-table \
//	  --table-name fsenv-locks \
//	  --attribute-definitions AttributeName=lock_key,AttributeType=S \
//	  --key-schema AttributeName=lock_key,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
type leaseLock struct {
	key   string
	owner string
}

// LockFile takes an exclusive lease on fname via a conditional write.
// A second acquisition fails immediately while the lease is held.
// Without a configured lock table, LockFile is not supported.
func (e *Env) LockFile(fname string) (fsenv.FileLock, error) {
	if e.lockClient == nil || e.lockTable == "" {
		return nil, fsenv.NewNotSupported(fname, "no lock table configured")
	}

	lock := &leaseLock{
		key:   e.key(fname),
		owner: uuid.NewString(),
	}

	_, err := e.lockClient.PutItem(e.ctx, &dynamodb.PutItemInput{
		TableName: aws.String(e.lockTable),
		Item: map[string]types.AttributeValue{
			"lock_key": &types.AttributeValueMemberS{Value: lock.key},
			"owner":    &types.AttributeValueMemberS{Value: lock.owner},
			"bucket":   &types.AttributeValueMemberS{Value: e.bucket},
		},
		ConditionExpression: aws.String("attribute_not_exists(lock_key)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return nil, fsenv.NewIOError(fname, ErrLockHeld)
		}
		return nil, fsenv.NewIOError(fname, err)
	}

	return lock, nil
}

// UnlockFile releases a lease returned by LockFile. The delete is
// conditional on ownership, so a lease stolen after expiry cannot be
// released by the previous holder.
func (e *Env) UnlockFile(lock fsenv.FileLock) error {
	ll, ok := lock.(*leaseLock)
	if !ok {
		return fsenv.NewIOError("unlock", fmt.Errorf("not a lock issued by this environment: %T", lock))
	}

	_, err := e.lockClient.DeleteItem(e.ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(e.lockTable),
		Key: map[string]types.AttributeValue{
			"lock_key": &types.AttributeValueMemberS{Value: ll.key},
		},
		ConditionExpression: aws.String("#o = :owner"),
		ExpressionAttributeNames: map[string]string{
			"#o": "owner",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ll.owner},
		},
	})
	if err != nil {
		return fsenv.NewIOError(ll.key, err)
	}
	return nil
}
