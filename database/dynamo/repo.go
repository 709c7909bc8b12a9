// Package dynamo implements the todo repo interface using DynamoDB.
//
// The table is provisioned externally with a composite primary key of
// todoId (partition) and createdAt (sort), plus a global secondary index
// on ownerId for per-owner listing.
package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/todovault/todovault"
)

// DefaultOwnerIndex is the name of the owner secondary index.
const DefaultOwnerIndex = "ownerIdIndex"

// Client is the subset of the DynamoDB API the repo uses.
type Client interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

type repo struct {
	client     Client
	tableName  string
	ownerIndex string
}

// NewRepo creates a DynamoDB-backed TodoRepo for the given table.
func NewRepo(client Client, tableName string) (todovault.TodoRepo, error) {
	if client == nil {
		return nil, errors.New("new repo: client is required")
	}
	if tableName == "" {
		return nil, errors.New("new repo: table name is required")
	}

	return &repo{client: client, tableName: tableName, ownerIndex: DefaultOwnerIndex}, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID string) ([]todovault.TodoItem, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(r.ownerIndex),
		KeyConditionExpression: aws.String("ownerId = :ownerId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ownerId": &types.AttributeValueMemberS{Value: ownerID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list by owner: %w", err)
	}

	items := make([]todovault.TodoItem, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("list by owner: unmarshal: %w", err)
	}

	return items, nil
}

func (r *repo) Create(ctx context.Context, item todovault.TodoItem) (todovault.TodoItem, error) {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return todovault.TodoItem{}, fmt.Errorf("create: marshal: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(todoId)"),
	})
	if err != nil {
		return todovault.TodoItem{}, fmt.Errorf("create: %w", err)
	}

	return item, nil
}

func (r *repo) ResolveCreatedAt(ctx context.Context, todoID string) (string, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("todoId = :todoId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":todoId": &types.AttributeValueMemberS{Value: todoID},
		},
		ProjectionExpression: aws.String("createdAt"),
	})
	if err != nil {
		return "", fmt.Errorf("resolve created_at: %w", err)
	}

	if len(out.Items) == 0 {
		return "", todovault.ErrNotFound
	}

	createdAt, ok := out.Items[0]["createdAt"].(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("resolve created_at: unexpected attribute type for %s", todoID)
	}

	return createdAt.Value, nil
}

func (r *repo) Update(ctx context.Context, todoID string, upd todovault.TodoUpdate) (todovault.TodoUpdate, error) {
	createdAt, err := r.ResolveCreatedAt(ctx, todoID)
	if err != nil {
		return todovault.TodoUpdate{}, fmt.Errorf("update: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       recordKey(todoID, createdAt),
		// "name" is a reserved word in update expressions
		UpdateExpression: aws.String("SET #n = :name, dueDate = :dueDate, done = :done"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":    &types.AttributeValueMemberS{Value: upd.Name},
			":dueDate": &types.AttributeValueMemberS{Value: upd.DueDate},
			":done":    &types.AttributeValueMemberBOOL{Value: upd.Done},
		},
		ConditionExpression: aws.String("attribute_exists(todoId)"),
	})
	if err != nil {
		return todovault.TodoUpdate{}, fmt.Errorf("update: %w", mapConditionErr(err))
	}

	return upd, nil
}

func (r *repo) Delete(ctx context.Context, todoID string) error {
	createdAt, err := r.ResolveCreatedAt(ctx, todoID)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 recordKey(todoID, createdAt),
		ConditionExpression: aws.String("attribute_exists(todoId)"),
	})
	if err != nil {
		return fmt.Errorf("delete: %w", mapConditionErr(err))
	}

	return nil
}

func (r *repo) SetAttachmentURL(ctx context.Context, todoID, url string) error {
	createdAt, err := r.ResolveCreatedAt(ctx, todoID)
	if err != nil {
		return fmt.Errorf("set attachment url: %w", err)
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              recordKey(todoID, createdAt),
		UpdateExpression: aws.String("SET attachmentUrl = :url"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":url": &types.AttributeValueMemberS{Value: url},
		},
		ConditionExpression: aws.String("attribute_exists(todoId)"),
	})
	if err != nil {
		return fmt.Errorf("set attachment url: %w", mapConditionErr(err))
	}

	return nil
}

func recordKey(todoID, createdAt string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"todoId":    &types.AttributeValueMemberS{Value: todoID},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
}

// mapConditionErr converts a failed existence condition into ErrNotFound.
// The record can disappear between the createdAt lookup and the write.
func mapConditionErr(err error) error {
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return todovault.ErrNotFound
	}
	return err
}
