package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storeadmin/application/ports"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const (
	// DefaultLockLease bounds how long a crashed holder can block a resource
	DefaultLockLease = 10 * time.Second
	// DefaultLockWait is how long Acquire retries before reporting a conflict
	DefaultLockWait = 3 * time.Second

	lockRetryStart = 50 * time.Millisecond
	lockRetryMax   = 500 * time.Millisecond
)

// DistributedLock provides distributed locking using DynamoDB conditional writes
type DistributedLock struct {
	client Client
	table  string
	owner  string
	lease  time.Duration
	wait   time.Duration
	clock  clockwork.Clock
	logger *zap.Logger
}

// lockRecord lives beside the entities under PK=LOCK#<resource>
type lockRecord struct {
	PK        string `dynamodbav:"PK"`
	SK        string `dynamodbav:"SK"`
	LockID    string `dynamodbav:"LockID"`
	Owner     string `dynamodbav:"Owner"`
	ExpiresAt string `dynamodbav:"ExpiresAt"`
	TTL       int64  `dynamodbav:"TTL"` // DynamoDB TTL sweeps abandoned leases
}

// NewDistributedLock creates a new distributed lock instance. Each instance
// has its own owner id, so one per process is enough.
func NewDistributedLock(client Client, table string, lease, wait time.Duration, clock clockwork.Clock, logger *zap.Logger) *DistributedLock {
	return &DistributedLock{
		client: client,
		table:  table,
		owner:  uuid.NewString(),
		lease:  lease,
		wait:   wait,
		clock:  clock,
		logger: logger,
	}
}

func lockKey(resource string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: "LOCK#" + resource},
		"SK": &types.AttributeValueMemberS{Value: "LOCK"},
	}
}

// Acquire retries with backoff until the lease is taken or the wait elapses
func (dl *DistributedLock) Acquire(ctx context.Context, resource string) (ports.Lock, error) {
	deadline := dl.clock.Now().Add(dl.wait)
	retry := lockRetryStart

	for {
		lock, err := dl.tryAcquire(ctx, resource)
		if err == nil {
			return lock, nil
		}
		if !pkgerrors.IsConflict(err) {
			return nil, err
		}
		if !dl.clock.Now().Before(deadline) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-dl.clock.After(retry):
		}
		if retry < lockRetryMax {
			retry = retry * 3 / 2
		}
	}
}

func (dl *DistributedLock) tryAcquire(ctx context.Context, resource string) (*distributedLease, error) {
	now := dl.clock.Now()
	expiresAt := now.Add(dl.lease)
	lockID := fmt.Sprintf("%s_%d", dl.owner, now.UnixNano())

	item, err := attributevalue.MarshalMap(lockRecord{
		PK:        "LOCK#" + resource,
		SK:        "LOCK",
		LockID:    lockID,
		Owner:     dl.owner,
		ExpiresAt: timeKey(expiresAt),
		TTL:       expiresAt.Add(time.Hour).Unix(),
	})
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to marshal lock").WithCause(err)
	}

	// Free, or held by a lease that has already run out
	cond := expression.Or(
		expression.AttributeNotExists(expression.Name("PK")),
		expression.Name("ExpiresAt").LessThan(expression.Value(timeKey(now))),
	)
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	_, err = dl.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(dl.table),
		Item:                      item,
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			dl.logger.Debug("Lock already held", zap.String("resource", resource))
			return nil, pkgerrors.NewConflictError(fmt.Sprintf("%s is locked by another request", resource)).
				WithDetail("retryable", true)
		}
		return nil, pkgerrors.NewDatabaseError("acquire lock", err)
	}

	dl.logger.Debug("Lock acquired", zap.String("resource", resource), zap.String("lockID", lockID))
	return &distributedLease{dl: dl, resource: resource, lockID: lockID}, nil
}

// distributedLease is one acquired lease
type distributedLease struct {
	dl       *DistributedLock
	resource string
	lockID   string
}

// Release deletes the lock record only if this lease still owns it
func (l *distributedLease) Release(ctx context.Context) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("LockID").Equal(expression.Value(l.lockID))).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	_, err = l.dl.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(l.dl.table),
		Key:                       lockKey(l.resource),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			l.dl.logger.Warn("Lock expired before release", zap.String("resource", l.resource), zap.String("lockID", l.lockID))
			return nil
		}
		return pkgerrors.NewDatabaseError("release lock", err)
	}
	return nil
}
