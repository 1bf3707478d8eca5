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

// PendingCodeRepo holds the one in-flight verification code per phone number.
// PK: phone_number. Items carry a TTL attribute (expires_at) so the table
// evicts stale codes on its own.
type PendingCodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPendingCodeRepo(client *dynamodb.Client, tableName string) *PendingCodeRepo {
	return &PendingCodeRepo{client: client, tableName: tableName}
}

// Put writes the pending code, overwriting any prior code for the phone.
func (r *PendingCodeRepo) Put(ctx context.Context, pc *domain.PendingCode) error {
	item, err := attributevalue.MarshalMap(pc)
	if err != nil {
		return fmt.Errorf("marshal pending code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *PendingCodeRepo) Get(ctx context.Context, phoneNumber string) (*domain.PendingCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("phone_number", phoneNumber),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("pending code not found: %w", domain.ErrNotFound)
	}
	var pc domain.PendingCode
	if err := attributevalue.UnmarshalMap(out.Item, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}

// DeleteIf removes the pending code only while it still holds exactly
// (code, sentAt). The conditional delete makes consumption atomic with the
// comparison: of two concurrent correct submissions only one delete succeeds,
// the other gets ErrConflict.
func (r *PendingCodeRepo) DeleteIf(ctx context.Context, phoneNumber, code string, sentAt int64) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      strKey("phone_number", phoneNumber),
		ConditionExpression:      aws.String("#code = :c AND sent_at = :s"),
		ExpressionAttributeNames: map[string]string{"#code": "code"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": strAttr(code),
			":s": numAttr(sentAt),
		},
	})
	if isConditionalCheckFailed(err) {
		return fmt.Errorf("pending code changed or gone: %w", domain.ErrConflict)
	}
	return err
}
