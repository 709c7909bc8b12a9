package dynamo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/todovault/todovault"
	"github.com/todovault/todovault/database/dynamo"
)

type SpyClient struct {
	mock.Mock
}

func (s *SpyClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.QueryOutput), args.Error(1)
}

func (s *SpyClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.PutItemOutput), args.Error(1)
}

func (s *SpyClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.UpdateItemOutput), args.Error(1)
}

func (s *SpyClient) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	args := s.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dynamodb.DeleteItemOutput), args.Error(1)
}

func newTestRepo(t *testing.T) (todovault.TodoRepo, *SpyClient) {
	t.Helper()
	client := new(SpyClient)
	repo, err := dynamo.NewRepo(client, "todos")
	assert.NoError(t, err, "new repo")
	return repo, client
}

func recordItem(todoID, createdAt, ownerID, name string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"todoId":        &types.AttributeValueMemberS{Value: todoID},
		"createdAt":     &types.AttributeValueMemberS{Value: createdAt},
		"ownerId":       &types.AttributeValueMemberS{Value: ownerID},
		"name":          &types.AttributeValueMemberS{Value: name},
		"dueDate":       &types.AttributeValueMemberS{Value: "2026-09-01"},
		"done":          &types.AttributeValueMemberBOOL{Value: false},
		"attachmentUrl": &types.AttributeValueMemberS{Value: ""},
	}
}

func TestNewRepo(t *testing.T) {
	t.Run("error - nil client", func(t *testing.T) {
		_, err := dynamo.NewRepo(nil, "todos")
		assert.Error(t, err)
	})

	t.Run("error - empty table name", func(t *testing.T) {
		_, err := dynamo.NewRepo(new(SpyClient), "")
		assert.Error(t, err)
	})
}

func TestRepo_ListByOwner(t *testing.T) {
	t.Run("success - queries the owner index", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return *in.TableName == "todos" &&
				*in.IndexName == dynamo.DefaultOwnerIndex &&
				*in.KeyConditionExpression == "ownerId = :ownerId"
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{
				recordItem("id-1", "2026-08-29T10:00:00.000Z", "owner-a", "buy milk"),
				recordItem("id-2", "2026-08-29T11:00:00.000Z", "owner-a", "walk dog"),
			},
		}, nil)

		items, err := repo.ListByOwner(ctx, "owner-a")
		assert.NoError(t, err, "expected no error, got: %v")
		assert.Len(t, items, 2)
		assert.Equal(t, "id-1", items[0].TodoID)
		assert.Equal(t, "buy milk", items[0].Name)
		assert.Equal(t, "owner-a", items[0].OwnerID)
		client.AssertExpectations(t)
	})

	t.Run("success - empty result is a non-nil slice", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		items, err := repo.ListByOwner(ctx, "nobody")
		assert.NoError(t, err)
		assert.NotNil(t, items)
		assert.Len(t, items, 0)
	})

	t.Run("error - query fails", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(nil, errors.New("throttled"))

		_, err := repo.ListByOwner(ctx, "owner-a")
		assert.Error(t, err)
	})
}

func TestRepo_Create(t *testing.T) {
	t.Run("success - puts the marshalled record", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		item := todovault.TodoItem{
			TodoID:    "id-1",
			OwnerID:   "owner-a",
			CreatedAt: "2026-08-29T10:00:00.000Z",
			Name:      "buy milk",
			DueDate:   "2026-09-01",
		}

		client.On("PutItem", ctx, mock.MatchedBy(func(in *dynamodb.PutItemInput) bool {
			todoID, ok := in.Item["todoId"].(*types.AttributeValueMemberS)
			return *in.TableName == "todos" && ok && todoID.Value == "id-1"
		})).Return(&dynamodb.PutItemOutput{}, nil)

		created, err := repo.Create(ctx, item)
		assert.NoError(t, err, "expected no error, got: %v")
		assert.Equal(t, item, created)
		client.AssertExpectations(t)
	})

	t.Run("error - put fails", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("PutItem", ctx, mock.Anything).Return(nil, errors.New("boom"))

		_, err := repo.Create(ctx, todovault.TodoItem{TodoID: "id-1"})
		assert.Error(t, err)
	})
}

func TestRepo_ResolveCreatedAt(t *testing.T) {
	t.Run("success - projects only createdAt", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.MatchedBy(func(in *dynamodb.QueryInput) bool {
			return in.IndexName == nil &&
				*in.KeyConditionExpression == "todoId = :todoId" &&
				*in.ProjectionExpression == "createdAt"
		})).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{
				{"createdAt": &types.AttributeValueMemberS{Value: "2026-08-29T10:00:00.000Z"}},
			},
		}, nil)

		createdAt, err := repo.ResolveCreatedAt(ctx, "id-1")
		assert.NoError(t, err, "expected no error, got: %v")
		assert.Equal(t, "2026-08-29T10:00:00.000Z", createdAt)
		client.AssertExpectations(t)
	})

	t.Run("error - not found", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		_, err := repo.ResolveCreatedAt(ctx, "unknown")
		assert.Error(t, err, "expected error for unknown id")
		assert.ErrorIs(t, err, todovault.ErrNotFound, "expected ErrNotFound")
	})
}

func TestRepo_Update(t *testing.T) {
	t.Run("success - updates on the resolved composite key", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{
				{"createdAt": &types.AttributeValueMemberS{Value: "2026-08-29T10:00:00.000Z"}},
			},
		}, nil)

		client.On("UpdateItem", ctx, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			todoID, ok := in.Key["todoId"].(*types.AttributeValueMemberS)
			if !ok || todoID.Value != "id-1" {
				return false
			}
			createdAt, ok := in.Key["createdAt"].(*types.AttributeValueMemberS)
			if !ok || createdAt.Value != "2026-08-29T10:00:00.000Z" {
				return false
			}
			return *in.UpdateExpression == "SET #n = :name, dueDate = :dueDate, done = :done" &&
				in.ExpressionAttributeNames["#n"] == "name"
		})).Return(&dynamodb.UpdateItemOutput{}, nil)

		upd := todovault.TodoUpdate{Name: "buy oat milk", DueDate: "2026-09-05", Done: true}
		applied, err := repo.Update(ctx, "id-1", upd)
		assert.NoError(t, err, "expected no error, got: %v")
		assert.Equal(t, upd, applied)
		client.AssertExpectations(t)
	})

	t.Run("error - not found before write", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		_, err := repo.Update(ctx, "unknown", todovault.TodoUpdate{Name: "x"})
		assert.ErrorIs(t, err, todovault.ErrNotFound, "expected ErrNotFound")
		client.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
	})

	t.Run("error - record vanished before write", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{
				{"createdAt": &types.AttributeValueMemberS{Value: "2026-08-29T10:00:00.000Z"}},
			},
		}, nil)
		client.On("UpdateItem", ctx, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		_, err := repo.Update(ctx, "id-1", todovault.TodoUpdate{Name: "x"})
		assert.ErrorIs(t, err, todovault.ErrNotFound, "expected ErrNotFound")
	})
}

func TestRepo_Delete(t *testing.T) {
	t.Run("success - deletes on the resolved composite key", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{
				{"createdAt": &types.AttributeValueMemberS{Value: "2026-08-29T10:00:00.000Z"}},
			},
		}, nil)

		client.On("DeleteItem", ctx, mock.MatchedBy(func(in *dynamodb.DeleteItemInput) bool {
			todoID, ok := in.Key["todoId"].(*types.AttributeValueMemberS)
			return *in.TableName == "todos" && ok && todoID.Value == "id-1"
		})).Return(&dynamodb.DeleteItemOutput{}, nil)

		err := repo.Delete(ctx, "id-1")
		assert.NoError(t, err, "expected no error, got: %v")
		client.AssertExpectations(t)
	})

	t.Run("error - not found", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		err := repo.Delete(ctx, "unknown")
		assert.ErrorIs(t, err, todovault.ErrNotFound, "expected ErrNotFound")
		client.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything)
	})
}

func TestRepo_SetAttachmentURL(t *testing.T) {
	t.Run("success - overwrites attachment url only", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{
			Items: []map[string]types.AttributeValue{
				{"createdAt": &types.AttributeValueMemberS{Value: "2026-08-29T10:00:00.000Z"}},
			},
		}, nil)

		client.On("UpdateItem", ctx, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			url, ok := in.ExpressionAttributeValues[":url"].(*types.AttributeValueMemberS)
			return *in.UpdateExpression == "SET attachmentUrl = :url" &&
				ok && url.Value == "https://bucket.s3.amazonaws.com/id-1.png"
		})).Return(&dynamodb.UpdateItemOutput{}, nil)

		err := repo.SetAttachmentURL(ctx, "id-1", "https://bucket.s3.amazonaws.com/id-1.png")
		assert.NoError(t, err, "expected no error, got: %v")
		client.AssertExpectations(t)
	})

	t.Run("error - not found", func(t *testing.T) {
		repo, client := newTestRepo(t)
		ctx := context.Background()

		client.On("Query", ctx, mock.Anything).Return(&dynamodb.QueryOutput{}, nil)

		err := repo.SetAttachmentURL(ctx, "unknown", "https://example.com/x.png")
		assert.ErrorIs(t, err, todovault.ErrNotFound, "expected ErrNotFound")
	})
}
