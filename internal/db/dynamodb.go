package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/commentsense/internal/models"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrViewerNotFound = errors.New("viewer not found")
)

// ViewerRepository stores registered viewer accounts.
type ViewerRepository interface {
	Create(ctx context.Context, account models.Account) error
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	// SetSessionHash replaces the stored session hash; an empty hash removes it.
	SetSessionHash(ctx context.Context, email, hash string) error
}

// DynamoDBAPI is the subset of the DynamoDB client the repository uses.
type DynamoDBAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

type DynamoViewerRepository struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoViewerRepository(client DynamoDBAPI, table string) *DynamoViewerRepository {
	return &DynamoViewerRepository{client: client, table: table}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *DynamoViewerRepository) Create(ctx context.Context, account models.Account) error {
	account.Email = normalizeEmail(account.Email)

	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal viewer: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrEmailTaken
		}
		return fmt.Errorf("[DynamoDB] Failed to store viewer: %w", err)
	}

	slog.Info("[DynamoDB] Stored viewer", slog.String("email", account.Email))
	return nil
}

func (r *DynamoViewerRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: normalizeEmail(email)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] Failed to get viewer: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrViewerNotFound
	}

	var account models.Account
	if err := attributevalue.UnmarshalMap(out.Item, &account); err != nil {
		slog.Error("[DynamoDB] Unable to unmarshal viewer", slog.String("error", err.Error()))
		return nil, err
	}
	return &account, nil
}

func (r *DynamoViewerRepository) SetSessionHash(ctx context.Context, email, hash string) error {
	in := &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"email": &types.AttributeValueMemberS{Value: normalizeEmail(email)},
		},
		ConditionExpression: aws.String("attribute_exists(email)"),
		UpdateExpression:    aws.String("REMOVE session_hash"),
	}
	if hash != "" {
		in.UpdateExpression = aws.String("SET session_hash = :h")
		in.ExpressionAttributeValues = map[string]types.AttributeValue{
			":h": &types.AttributeValueMemberS{Value: hash},
		}
	}

	if _, err := r.client.UpdateItem(ctx, in); err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return ErrViewerNotFound
		}
		return fmt.Errorf("[DynamoDB] Failed to update session: %w", err)
	}
	return nil
}

// TableDescriber is the part of the DynamoDB client TableHealthCheck needs.
type TableDescriber interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

// TableHealthCheck returns a probe that fails unless table exists and is ACTIVE.
func TableHealthCheck(client TableDescriber, table string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		out, err := client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(table)})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to describe %s: %w", table, err)
		}
		if out.Table == nil || out.Table.TableStatus != types.TableStatusActive {
			status := "unknown"
			if out.Table != nil {
				status = string(out.Table.TableStatus)
			}
			return fmt.Errorf("[DynamoDB] Table %s is not active: %s", table, status)
		}
		return nil
	}
}
