// Package dynamodb implements the repositories on a single DynamoDB table.
//
// Every entity is stored once under PK=<TYPE>#<id>, SK=METADATA. Two global
// secondary indexes serve the access patterns:
//
//	EntityIndex   GSI1PK=<TYPE>            GSI1SK=<createdAt>#<id>
//	RelationIndex GSI2PK=<parent relation> GSI2SK=<per-relation sort key>
//
// The entity index drives listing, latest-N and creation-window queries; the
// relation index holds per-user orders, per-product reviews and coupon codes.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storeadmin/application/ports"
	pkgerrors "storeadmin/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// Client is the subset of the DynamoDB API the repositories use.
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// TableConfig names the table and its indexes.
type TableConfig struct {
	Table         string
	EntityIndex   string
	RelationIndex string
}

const (
	metadataSK = "METADATA"

	// fixed width so index sort keys order chronologically
	sortKeyLayout = "2006-01-02T15:04:05.000000000Z"
	rangeCeiling  = "#\uffff"
)

func timeKey(t time.Time) string {
	return t.UTC().Format(sortKeyLayout)
}

func creationKey(t time.Time, id string) string {
	return timeKey(t) + "#" + id
}

// record is the stored item: key attributes plus the entity under Data.
type record[T any] struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	GSI2PK     string `dynamodbav:"GSI2PK,omitempty"`
	GSI2SK     string `dynamodbav:"GSI2SK,omitempty"`
	SearchName string `dynamodbav:"SearchName,omitempty"`
	Data       T      `dynamodbav:"Data"`
}

// relation is the optional relation-index placement of an item.
type relation struct {
	pk, sk string
}

// entityStore holds the table plumbing shared by every repository.
type entityStore[T any] struct {
	client     Client
	tables     TableConfig
	entityType string
	resource   string
	logger     *zap.Logger
}

func newEntityStore[T any](client Client, tables TableConfig, entityType, resource string, logger *zap.Logger) *entityStore[T] {
	return &entityStore[T]{
		client:     client,
		tables:     tables,
		entityType: entityType,
		resource:   resource,
		logger:     logger,
	}
}

func (s *entityStore[T]) pk(id string) string {
	return s.entityType + "#" + id
}

func (s *entityStore[T]) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: s.pk(id)},
		"SK": &types.AttributeValueMemberS{Value: metadataSK},
	}
}

func (s *entityStore[T]) wrap(id string, createdAt time.Time, rel *relation, entity *T) record[T] {
	rec := record[T]{
		PK:         s.pk(id),
		SK:         metadataSK,
		EntityType: s.entityType,
		GSI1PK:     s.entityType,
		GSI1SK:     creationKey(createdAt, id),
		Data:       *entity,
	}
	if rel != nil {
		rec.GSI2PK = rel.pk
		rec.GSI2SK = rel.sk
	}
	return rec
}

func (s *entityStore[T]) put(ctx context.Context, id string, rec record[T]) error {
	if id == "" {
		return pkgerrors.NewValidationError(s.resource + " ID is required")
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return pkgerrors.NewInternalError("failed to marshal " + s.resource).WithCause(err)
	}

	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tables.Table),
		Item:      item,
	}); err != nil {
		s.logger.Error("Failed to save item",
			zap.String("entityType", s.entityType),
			zap.String("id", id),
			zap.Error(err),
		)
		return pkgerrors.NewDatabaseError("put "+s.resource, err)
	}

	s.logger.Debug("Item saved", zap.String("entityType", s.entityType), zap.String("id", id))
	return nil
}

func (s *entityStore[T]) get(ctx context.Context, id string) (*T, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tables.Table),
		Key:       s.key(id),
	})
	if err != nil {
		return nil, pkgerrors.NewDatabaseError("get "+s.resource, err)
	}
	if out.Item == nil {
		return nil, pkgerrors.NewNotFoundError(s.resource).WithDetail("id", id)
	}
	return s.decode(out.Item)
}

func (s *entityStore[T]) remove(ctx context.Context, id string) error {
	expr, err := expression.NewBuilder().
		WithCondition(expression.Name("PK").AttributeExists()).
		Build()
	if err != nil {
		return pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	_, err = s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                 aws.String(s.tables.Table),
		Key:                       s.key(id),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError(s.resource).WithDetail("id", id)
		}
		return pkgerrors.NewDatabaseError("delete "+s.resource, err)
	}

	s.logger.Debug("Item deleted", zap.String("entityType", s.entityType), zap.String("id", id))
	return nil
}

func (s *entityStore[T]) decode(item map[string]types.AttributeValue) (*T, error) {
	var rec record[T]
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, pkgerrors.NewInternalError("failed to unmarshal " + s.resource).WithCause(err)
	}
	return &rec.Data, nil
}

// creationQuery selects the entity index partition, optionally narrowed to
// a creation window, with an optional filter and projection.
type creationQuery struct {
	window      *ports.TimeRange
	newestFirst bool
	limit       int
	filter      *expression.ConditionBuilder
	projection  *expression.ProjectionBuilder
}

func (s *entityStore[T]) creationInput(q creationQuery) (*dynamodb.QueryInput, error) {
	keyCond := expression.Key("GSI1PK").Equal(expression.Value(s.entityType))
	if q.window != nil {
		keyCond = keyCond.And(expression.Key("GSI1SK").Between(
			expression.Value(timeKey(q.window.Start)),
			expression.Value(timeKey(q.window.End)+rangeCeiling),
		))
	}

	builder := expression.NewBuilder().WithKeyCondition(keyCond)
	if q.filter != nil {
		builder = builder.WithFilter(*q.filter)
	}
	if q.projection != nil {
		builder = builder.WithProjection(*q.projection)
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	return &dynamodb.QueryInput{
		TableName:                 aws.String(s.tables.Table),
		IndexName:                 aws.String(s.tables.EntityIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		FilterExpression:          expr.Filter(),
		ProjectionExpression:      expr.Projection(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!q.newestFirst),
	}, nil
}

func (s *entityStore[T]) byCreation(ctx context.Context, q creationQuery) ([]*T, error) {
	input, err := s.creationInput(q)
	if err != nil {
		return nil, err
	}
	if q.limit > 0 && q.filter == nil {
		input.Limit = aws.Int32(int32(q.limit))
	}
	return s.query(ctx, input, q.limit)
}

func (s *entityStore[T]) byRelation(ctx context.Context, pk string, sk *string, newestFirst bool) ([]*T, error) {
	keyCond := expression.Key("GSI2PK").Equal(expression.Value(pk))
	if sk != nil {
		keyCond = keyCond.And(expression.Key("GSI2SK").Equal(expression.Value(*sk)))
	}
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build expression").WithCause(err)
	}

	return s.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.tables.Table),
		IndexName:                 aws.String(s.tables.RelationIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(!newestFirst),
	}, 0)
}

// query follows every page of input. A positive limit stops once that many
// items have been read.
func (s *entityStore[T]) query(ctx context.Context, input *dynamodb.QueryInput, limit int) ([]*T, error) {
	var out []*T
	err := s.pages(ctx, input, func(items []map[string]types.AttributeValue) (bool, error) {
		for _, item := range items {
			entity, err := s.decode(item)
			if err != nil {
				return false, err
			}
			out = append(out, entity)
			if limit > 0 && len(out) >= limit {
				return false, nil
			}
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*T{}
	}
	return out, nil
}

// pages runs the paginator, handing each page to visit until it returns false.
func (s *entityStore[T]) pages(ctx context.Context, input *dynamodb.QueryInput, visit func([]map[string]types.AttributeValue) (bool, error)) error {
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return pkgerrors.NewDatabaseError("query "+s.resource, err)
		}
		more, err := visit(page.Items)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// projectedIDs lists entity ids from the entity index without loading bodies.
func (s *entityStore[T]) projectedIDs(ctx context.Context) ([]string, error) {
	projection := expression.NamesList(expression.Name("PK"))
	input, err := s.creationInput(creationQuery{projection: &projection})
	if err != nil {
		return nil, err
	}

	ids := []string{}
	prefix := s.entityType + "#"
	err = s.pages(ctx, input, func(items []map[string]types.AttributeValue) (bool, error) {
		for _, item := range items {
			var keys struct {
				PK string `dynamodbav:"PK"`
			}
			if err := attributevalue.UnmarshalMap(item, &keys); err != nil {
				return false, pkgerrors.NewInternalError("failed to unmarshal key").WithCause(err)
			}
			if !strings.HasPrefix(keys.PK, prefix) {
				return false, pkgerrors.NewInternalError(fmt.Sprintf("unexpected key %q in %s index", keys.PK, s.entityType))
			}
			ids = append(ids, strings.TrimPrefix(keys.PK, prefix))
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
