package repository

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// countCreatedSince counts table items with created_at >= since. It backs
// the reference number allocator; the scan is a plain read, so two
// allocations racing on the same kind and day can observe the same count.
func countCreatedSince(ctx context.Context, ddb *dynamodb.Client, tableName string, since time.Time) (int, error) {
	sinceStr := since.UTC().Format(time.RFC3339Nano)

	total := 0
	var startKey map[string]types.AttributeValue
	for {
		out, err := ddb.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(tableName),
			Select:           types.SelectCount,
			FilterExpression: aws.String("#created_at >= :since"),
			ExpressionAttributeNames: map[string]string{
				"#created_at": "created_at",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":since": &types.AttributeValueMemberS{Value: sinceStr},
			},
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, err
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}
	return total, nil
}
