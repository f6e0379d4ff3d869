package repository

import (
	"context"
	"errors"
	"time"

	"fixflow_crm/internal/domain/entities"
	"fixflow_crm/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultEstimatesTableName = "estimates"
	estimatesCustomerIDIndex  = "customer_id-index"
)

type estimateItem struct {
	ID              string         `dynamodbav:"id"`
	ReferenceNumber string         `dynamodbav:"reference_number"`
	CustomerID      string         `dynamodbav:"customer_id"`
	CustomerName    string         `dynamodbav:"customer_name"`
	LineItems       []lineItemItem `dynamodbav:"line_items"`
	TaxRate         float64        `dynamodbav:"tax_rate"`
	Subtotal        float64        `dynamodbav:"subtotal"`
	TaxAmount       float64        `dynamodbav:"tax_amount"`
	TotalAmount     float64        `dynamodbav:"total_amount"`
	Notes           string         `dynamodbav:"notes,omitempty"`
	Status          string         `dynamodbav:"status"`
	JobCreated      bool           `dynamodbav:"job_created"`
	CreatedAt       string         `dynamodbav:"created_at"`
	UpdatedAt       string         `dynamodbav:"updated_at"`
}

// EstimateDynamoRepository persists Estimate entities in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: customer_id-index (PK: customer_id)

type EstimateDynamoRepository struct {
	ddb       *dynamodb.Client
	tableName string
}

var _ interfaces.IEstimateRepository = (*EstimateDynamoRepository)(nil)

func NewEstimateDynamoRepository(ddb *dynamodb.Client) *EstimateDynamoRepository {
	return &EstimateDynamoRepository{
		ddb:       ddb,
		tableName: getenvDefault("ESTIMATES_TABLE", defaultEstimatesTableName),
	}
}

func (r *EstimateDynamoRepository) Create(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	it := toEstimateItem(e)
	av, err := attributevalue.MarshalMap(it)
	if err != nil {
		return entities.Estimate{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	return e, nil
}

func (r *EstimateDynamoRepository) GetByID(ctx context.Context, id string) (entities.Estimate, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Estimate{}, err
	}
	if len(out.Item) == 0 {
		return entities.Estimate{}, nil
	}

	var it estimateItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it), nil
}

func (r *EstimateDynamoRepository) ListByCustomerID(ctx context.Context, customerID string) ([]entities.Estimate, error) {
	out, err := r.ddb.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(estimatesCustomerIDIndex),
		KeyConditionExpression: aws.String("customer_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: customerID},
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.Estimate, 0, len(out.Items))
	for _, raw := range out.Items {
		var it estimateItem
		if err := attributevalue.UnmarshalMap(raw, &it); err != nil {
			return nil, err
		}
		items = append(items, fromEstimateItem(it))
	}
	return items, nil
}

func (r *EstimateDynamoRepository) UpdateDetails(ctx context.Context, e entities.Estimate) (entities.Estimate, error) {
	lineItems, err := marshalLineItems(e.LineItems)
	if err != nil {
		return entities.Estimate{}, err
	}

	return r.update(ctx, e.ID, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #line_items = :line_items, #tax_rate = :tax_rate, #subtotal = :subtotal, " +
			"#tax_amount = :tax_amount, #total_amount = :total_amount, #notes = :notes, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":line_items":   lineItems,
			":tax_rate":     &types.AttributeValueMemberN{Value: floatToString(e.TaxRate)},
			":subtotal":     &types.AttributeValueMemberN{Value: floatToString(e.Subtotal)},
			":tax_amount":   &types.AttributeValueMemberN{Value: floatToString(e.TaxAmount)},
			":total_amount": &types.AttributeValueMemberN{Value: floatToString(e.TotalAmount)},
			":notes":        &types.AttributeValueMemberS{Value: e.Notes},
			":updated_at":   &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#line_items":   "line_items",
			"#tax_rate":     "tax_rate",
			"#subtotal":     "subtotal",
			"#tax_amount":   "tax_amount",
			"#total_amount": "total_amount",
			"#notes":        "notes",
			"#updated_at":   "updated_at",
		}
		return expr, vals, names
	})
}

func (r *EstimateDynamoRepository) UpdateStatus(ctx context.Context, id string, status entities.EstimateStatus) (entities.Estimate, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #status = :status, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":status":     &types.AttributeValueMemberS{Value: string(status)},
			":updated_at": &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#status":     "status",
			"#updated_at": "updated_at",
		}
		return expr, vals, names
	})
}

// MarkJobCreated sets the derivation guard flag. The flag only ever goes
// to true; nothing in this repository resets it.
func (r *EstimateDynamoRepository) MarkJobCreated(ctx context.Context, id string) (entities.Estimate, error) {
	return r.update(ctx, id, func(now string) (string, map[string]types.AttributeValue, map[string]string) {
		expr := "SET #job_created = :job_created, #updated_at = :updated_at"
		vals := map[string]types.AttributeValue{
			":job_created": &types.AttributeValueMemberBOOL{Value: true},
			":updated_at":  &types.AttributeValueMemberS{Value: now},
		}
		names := map[string]string{
			"#job_created": "job_created",
			"#updated_at":  "updated_at",
		}
		return expr, vals, names
	})
}

func (r *EstimateDynamoRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return countCreatedSince(ctx, r.ddb, r.tableName, since)
}

func (r *EstimateDynamoRepository) update(
	ctx context.Context,
	id string,
	build func(now string) (updateExpr string, values map[string]types.AttributeValue, names map[string]string),
) (entities.Estimate, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	updateExpr, values, names := build(now)

	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression:       aws.String("attribute_exists(#id)"),
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeValues: values,
		ExpressionAttributeNames:  mergeNames(names, map[string]string{"#id": "id"}),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return entities.Estimate{}, nil
		}
		return entities.Estimate{}, err
	}
	if len(out.Attributes) == 0 {
		return entities.Estimate{}, nil
	}
	var it estimateItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return entities.Estimate{}, err
	}
	return fromEstimateItem(it), nil
}

func toEstimateItem(e entities.Estimate) estimateItem {
	return estimateItem{
		ID:              e.ID,
		ReferenceNumber: e.ReferenceNumber,
		CustomerID:      e.CustomerID,
		CustomerName:    e.CustomerName,
		LineItems:       toLineItemItems(e.LineItems),
		TaxRate:         e.TaxRate,
		Subtotal:        e.Subtotal,
		TaxAmount:       e.TaxAmount,
		TotalAmount:     e.TotalAmount,
		Notes:           e.Notes,
		Status:          string(e.Status),
		JobCreated:      e.JobCreated,
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:       e.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromEstimateItem(it estimateItem) entities.Estimate {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	return entities.Estimate{
		ID:              it.ID,
		ReferenceNumber: it.ReferenceNumber,
		CustomerID:      it.CustomerID,
		CustomerName:    it.CustomerName,
		LineItems:       fromLineItemItems(it.LineItems),
		TaxRate:         it.TaxRate,
		Subtotal:        it.Subtotal,
		TaxAmount:       it.TaxAmount,
		TotalAmount:     it.TotalAmount,
		Notes:           it.Notes,
		Status:          entities.EstimateStatus(it.Status),
		JobCreated:      it.JobCreated,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
	}
}
