package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/phone-verify-api/internal/domain"
)

// QuotaRepo stores per-phone send quota records. PK: phone_number.
// Writes go through PutIf so the read-decide-write cycle in the service is
// atomic per phone without any cross-key coordination.
type QuotaRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewQuotaRepo(client *dynamodb.Client, tableName string) *QuotaRepo {
	return &QuotaRepo{client: client, tableName: tableName}
}

func (r *QuotaRepo) Get(ctx context.Context, phoneNumber string) (*domain.QuotaRecord, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone_number", phoneNumber),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("quota record not found: %w", domain.ErrNotFound)
	}
	var q domain.QuotaRecord
	if err := attributevalue.UnmarshalMap(out.Item, &q); err != nil {
		return nil, err
	}
	return &q, nil
}

// PutIf writes next only if the stored record still matches prev (optimistic
// concurrency). prev == nil asserts the record does not exist yet. An
// interleaving writer surfaces as ErrConflict; the caller re-reads and retries.
func (r *QuotaRepo) PutIf(ctx context.Context, next, prev *domain.QuotaRecord) error {
	item, err := attributevalue.MarshalMap(next)
	if err != nil {
		return fmt.Errorf("marshal quota record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}
	if prev == nil {
		input.ConditionExpression = aws.String("attribute_not_exists(phone_number)")
	} else {
		input.ConditionExpression = aws.String("request_count = :pc AND window_start = :pw")
		input.ExpressionAttributeValues = map[string]types.AttributeValue{
			":pc": numAttr(int64(prev.Count)),
			":pw": numAttr(prev.WindowStart),
		}
	}

	_, err = r.client.PutItem(ctx, input)
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("quota record changed underneath: %w", domain.ErrConflict)
	}
	return err
}
